package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/quotemill/quotemill/internal/domain"
	"github.com/quotemill/quotemill/internal/pdf"
	"github.com/quotemill/quotemill/internal/ports"
)

// DocumentMode selects what happens to a generated document.
type DocumentMode int

const (
	// DocumentDownload returns the document bytes to the caller.
	DocumentDownload DocumentMode = iota

	// DocumentExport archives the document in the owner's export folder.
	DocumentExport
)

// ParseDocumentMode parses the wire form of a mode.
func ParseDocumentMode(s string) (DocumentMode, error) {
	switch s {
	case "", "download":
		return DocumentDownload, nil
	case "export":
		return DocumentExport, nil
	default:
		return 0, domain.NewValidationFailuresError([]domain.FieldFailure{{
			Path:    "mode",
			Message: "must be download or export",
		}})
	}
}

// DocumentResult is a generated document. Data is set in download mode,
// Key in export mode.
type DocumentResult struct {
	Filename string
	Data     []byte
	Key      string
	Pages    int
}

// ExportFailure reports one quotation that could not be exported.
type ExportFailure struct {
	QuotationID string
	QuoteName   string
	Err         error
}

// ExportReport is the outcome of a bulk export. Failures do not abort the
// batch; each quotation succeeds or fails on its own.
type ExportReport struct {
	Exported []DocumentResult
	Failed   []ExportFailure
}

// DocumentService turns stored quotations into rendered documents. Generation
// runs as a transactional operation: the quotation is validated, rendered,
// the output verified, and only then archived or returned.
type DocumentService struct {
	repo     ports.QuotationRepository
	assets   ports.AssetResolver
	store    ports.DocumentStore
	renderer *pdf.Renderer
	exec     *Executor
	logger   *slog.Logger

	exportFolder  string
	exportWorkers int
}

// DocumentServiceConfig contains configuration for the document service.
type DocumentServiceConfig struct {
	Repo     ports.QuotationRepository
	Assets   ports.AssetResolver
	Store    ports.DocumentStore
	Renderer *pdf.Renderer
	Logger   *slog.Logger

	// ExportFolder is the folder name documents are archived under.
	ExportFolder string

	// ExportWorkers bounds bulk export concurrency.
	ExportWorkers int
}

// NewDocumentService creates a document service with the provided dependencies.
func NewDocumentService(cfg DocumentServiceConfig) *DocumentService {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "app.DocumentService"))

	folder := cfg.ExportFolder
	if folder == "" {
		folder = "Quotation"
	}

	workers := cfg.ExportWorkers
	if workers <= 0 {
		workers = 4
	}

	return &DocumentService{
		repo:          cfg.Repo,
		assets:        cfg.Assets,
		store:         cfg.Store,
		renderer:      cfg.Renderer,
		exec:          NewExecutor(logger),
		logger:        logger,
		exportFolder:  folder,
		exportWorkers: workers,
	}
}

// generated carries the rendered output plus the export destination through
// the verify and archive steps.
type generated struct {
	result *pdf.Result
	prefix string
}

// Generate renders one of an owner's quotations. In download mode the bytes
// are returned; in export mode the document is archived and the result
// carries its storage key.
func (s *DocumentService) Generate(ctx context.Context, ownerID, id string, mode DocumentMode) (*DocumentResult, error) {
	return s.generate(ctx, s.assets, ownerID, id, mode)
}

func (s *DocumentService) generate(ctx context.Context, assets ports.AssetResolver, ownerID, id string, mode DocumentMode) (*DocumentResult, error) {
	q, err := s.repo.Get(ctx, ownerID, id)
	if err != nil {
		return nil, fmt.Errorf("loading quotation: %w", err)
	}

	op := Operation[*domain.Quotation, *generated, *generated, *DocumentResult]{
		Name: "generate-document",

		Validate: func(ctx context.Context, q *domain.Quotation) error {
			if failures := domain.ValidateQuotation(q); len(failures) > 0 {
				return domain.NewValidationFailuresError(failures)
			}

			return nil
		},

		Perform: func(ctx context.Context, q *domain.Quotation) (*generated, error) {
			return s.render(ctx, assets, q, mode)
		},

		Verify: func(ctx context.Context, q *domain.Quotation, g *generated) (*generated, error) {
			if g.result.Pages < 1 || !bytes.HasPrefix(g.result.Data, []byte("%PDF")) {
				return nil, errors.New("rendered output is not a document")
			}

			return g, nil
		},

		Archive: func(ctx context.Context, q *domain.Quotation, g *generated) error {
			if mode != DocumentExport {
				return nil
			}

			key, err := s.store.Put(ctx, g.prefix, g.result.Filename, "application/pdf", g.result.Data)
			if err != nil {
				return err
			}

			g.prefix = key

			return nil
		},

		Respond: func(ctx context.Context, q *domain.Quotation, g *generated) (*DocumentResult, error) {
			out := &DocumentResult{
				Filename: g.result.Filename,
				Pages:    g.result.Pages,
			}

			if mode == DocumentExport {
				out.Key = g.prefix
			} else {
				out.Data = g.result.Data
			}

			return out, nil
		},
	}

	return Execute(ctx, s.exec, op, q)
}

// render resolves the header image and, in export mode, the destination
// folder concurrently, then renders the document. An unusable header image
// degrades to the text header rather than failing the operation.
func (s *DocumentService) render(ctx context.Context, assets ports.AssetResolver, q *domain.Quotation, mode DocumentMode) (*generated, error) {
	header, prefix, err := Parallel2(ctx,
		func(ctx context.Context) ([]byte, error) {
			data, err := assets.Resolve(ctx, q.HeaderImage)
			if err != nil {
				s.logger.WarnContext(ctx, "header image unavailable, using text header",
					slog.String("quotation_id", q.ID),
					slog.Any("error", err),
				)

				return nil, nil
			}

			return data, nil
		},
		func(ctx context.Context) (string, error) {
			if mode != DocumentExport {
				return "", nil
			}

			return s.store.EnsureFolder(ctx, q.OwnerID, s.exportFolder)
		},
	)
	if err != nil {
		return nil, err
	}

	result, err := s.renderer.Render(q, pdf.Assets{HeaderImage: header}, pdf.ModeBuffer)
	if err != nil {
		return nil, err
	}

	return &generated{result: result, prefix: prefix}, nil
}

// ExportAll archives every quotation the owner has, with bounded
// concurrency. One failed document never aborts the rest of the batch.
func (s *DocumentService) ExportAll(ctx context.Context, ownerID string) (*ExportReport, error) {
	quotations, err := s.repo.List(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("listing quotations: %w", err)
	}

	// One batch-scoped resolver: a shared letterhead is fetched once, not
	// once per document.
	batch := newCachingResolver(s.assets)

	fns := make([]func(context.Context) (*DocumentResult, error), len(quotations))
	for i, q := range quotations {
		fns[i] = func(ctx context.Context) (*DocumentResult, error) {
			return s.generate(ctx, batch, ownerID, q.ID, DocumentExport)
		}
	}

	results := ParallelPartialLimit(ctx, s.exportWorkers, fns...)

	report := &ExportReport{}
	for i, r := range results {
		if r.Err != nil {
			report.Failed = append(report.Failed, ExportFailure{
				QuotationID: quotations[i].ID,
				QuoteName:   quotations[i].QuoteName,
				Err:         r.Err,
			})

			continue
		}

		report.Exported = append(report.Exported, *r.Value)
	}

	s.logger.InfoContext(ctx, "bulk export finished",
		slog.Int("exported", len(report.Exported)),
		slog.Int("failed", len(report.Failed)),
	)

	return report, nil
}
