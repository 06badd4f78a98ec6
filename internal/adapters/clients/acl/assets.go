package acl

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/quotemill/quotemill/internal/adapters/clients"
	"github.com/quotemill/quotemill/internal/domain"
)

const (
	// maxAssetBytes caps fetched images. Letterheads are small; anything
	// past this is a misconfigured reference, not a header image.
	maxAssetBytes = 5 << 20

	dataURIPrefix = "data:"
)

// AssetClientConfig contains configuration for the asset client.
type AssetClientConfig struct {
	// Client is the HTTP client used for remote references.
	Client *clients.Client

	// Logger is the structured logger.
	Logger *slog.Logger
}

// AssetClient implements ports.AssetResolver. A header image reference is
// either an embedded data URI, which is decoded locally, or an http(s) URL,
// which is fetched through the resilient client.
type AssetClient struct {
	client *clients.Client
	logger *slog.Logger
}

// NewAssetClient creates an asset client adapter.
// Panics if Client is nil. Defaults logger to slog.Default() if nil.
func NewAssetClient(cfg AssetClientConfig) *AssetClient {
	if cfg.Client == nil {
		panic("AssetClient: Client is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &AssetClient{
		client: cfg.Client,
		logger: logger,
	}
}

// Resolve fetches the referenced image bytes. An empty reference resolves to
// nil without error.
func (c *AssetClient) Resolve(ctx context.Context, ref string) ([]byte, error) {
	switch {
	case ref == "":
		return nil, nil

	case strings.HasPrefix(ref, dataURIPrefix):
		return decodeDataURI(ref)

	case strings.HasPrefix(ref, "http://"), strings.HasPrefix(ref, "https://"):
		return c.fetch(ctx, ref)

	default:
		return nil, domain.NewValidationFailuresError([]domain.FieldFailure{{
			Path:    "headerImage",
			Message: "must be a data URI or an http(s) URL",
		}})
	}
}

func (c *AssetClient) fetch(ctx context.Context, ref string) ([]byte, error) {
	const serviceName = "asset-source"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref, http.NoBody)
	if err != nil {
		return nil, domain.NewValidationFailuresError([]domain.FieldFailure{{
			Path:    "headerImage",
			Message: "is not a valid URL",
		}})
	}

	resp, err := c.client.Do(ctx, req)
	if err != nil {
		return nil, mapClientError(err, serviceName, "fetch asset")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, mapStatusCode(resp.StatusCode, serviceName, ref)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxAssetBytes+1))
	if err != nil {
		return nil, domain.NewUnavailableError(serviceName, fmt.Sprintf("reading asset body: %v", err))
	}

	if len(data) > maxAssetBytes {
		return nil, domain.NewValidationFailuresError([]domain.FieldFailure{{
			Path:    "headerImage",
			Message: "exceeds the maximum image size",
		}})
	}

	c.logger.DebugContext(ctx, "asset fetched",
		slog.String("url", ref),
		slog.Int("bytes", len(data)),
	)

	return data, nil
}

// decodeDataURI extracts the payload of a base64 data URI. The media type is
// not trusted; callers sniff the bytes before embedding.
func decodeDataURI(ref string) ([]byte, error) {
	invalid := func(msg string) error {
		return domain.NewValidationFailuresError([]domain.FieldFailure{{
			Path:    "headerImage",
			Message: msg,
		}})
	}

	comma := strings.IndexByte(ref, ',')
	if comma < 0 {
		return nil, invalid("data URI has no payload")
	}

	meta, payload := ref[len(dataURIPrefix):comma], ref[comma+1:]
	if !strings.HasSuffix(meta, ";base64") {
		return nil, invalid("data URI must be base64 encoded")
	}

	if len(payload) > maxAssetBytes {
		return nil, invalid("exceeds the maximum image size")
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, invalid("data URI payload is not valid base64")
	}

	return data, nil
}
