package app

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/quotemill/quotemill/internal/domain"
)

// fakeRepo is an in-memory ports.QuotationRepository.
type fakeRepo struct {
	mu    sync.Mutex
	items map[string]*domain.Quotation

	getErr error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{items: make(map[string]*domain.Quotation)}
}

func (r *fakeRepo) Create(ctx context.Context, q *domain.Quotation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[q.ID]; ok {
		return domain.ErrConflict
	}

	clone := *q
	r.items[q.ID] = &clone

	return nil
}

func (r *fakeRepo) Update(ctx context.Context, q *domain.Quotation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.items[q.ID]
	if !ok || existing.OwnerID != q.OwnerID {
		return domain.NewNotFoundError("quotation", q.ID)
	}

	clone := *q
	r.items[q.ID] = &clone

	return nil
}

func (r *fakeRepo) Get(ctx context.Context, ownerID, id string) (*domain.Quotation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.getErr != nil {
		return nil, r.getErr
	}

	q, ok := r.items[id]
	if !ok || q.OwnerID != ownerID {
		return nil, domain.NewNotFoundError("quotation", id)
	}

	clone := *q

	return &clone, nil
}

func (r *fakeRepo) List(ctx context.Context, ownerID string) ([]*domain.Quotation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*domain.Quotation
	for _, q := range r.items {
		if q.OwnerID == ownerID {
			clone := *q
			out = append(out, &clone)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	return out, nil
}

func (r *fakeRepo) Delete(ctx context.Context, ownerID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	q, ok := r.items[id]
	if !ok || q.OwnerID != ownerID {
		return domain.NewNotFoundError("quotation", id)
	}

	delete(r.items, id)

	return nil
}

// fakeResolver is a canned ports.AssetResolver.
type fakeResolver struct {
	data []byte
	err  error

	mu    sync.Mutex
	calls []string
}

func (f *fakeResolver) Resolve(ctx context.Context, ref string) ([]byte, error) {
	f.mu.Lock()
	f.calls = append(f.calls, ref)
	f.mu.Unlock()

	if ref == "" {
		return nil, nil
	}

	return f.data, f.err
}

// fakeStore is an in-memory ports.DocumentStore.
type fakeStore struct {
	mu      sync.Mutex
	folders map[string]bool
	objects map[string][]byte

	putErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		folders: make(map[string]bool),
		objects: make(map[string][]byte),
	}
}

func (f *fakeStore) EnsureFolder(ctx context.Context, ownerID, name string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	prefix := ownerID + "/" + name + "/"
	f.folders[prefix] = true

	return prefix, nil
}

func (f *fakeStore) Put(ctx context.Context, prefix, filename, contentType string, data []byte) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.putErr != nil {
		return "", f.putErr
	}

	if !f.folders[prefix] {
		return "", errors.New("folder does not exist: " + prefix)
	}

	key := prefix + filename
	f.objects[key] = data

	return key, nil
}
