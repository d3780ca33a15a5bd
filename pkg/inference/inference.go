// Package inference provides the client for the model inference server
// that backs entity recognition, zero-shot classification, and sentence
// embeddings. The server hosts the models as process-wide singletons; this
// client is safe for concurrent use and bounds in-flight calls so parallel
// document processing cannot overwhelm a single model host.
package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"golang.org/x/sync/semaphore"

	"github.com/nwillis/paralegal/pkg/lifecycle"
)

// Span is a raw recognized entity as reported by the NER model. Labels use
// the model's own vocabulary; offsets are character positions into the
// submitted text.
type Span struct {
	Text  string `json:"text"`
	Label string `json:"label"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

// Result is a zero-shot classification result. Scores parallel Labels and
// need not sum to 1.
type Result struct {
	Labels []string  `json:"labels"`
	Scores []float64 `json:"scores"`
}

// Recognizer extracts raw entity spans from text.
type Recognizer interface {
	Recognize(ctx context.Context, text string) ([]Span, error)
}

// Classifier performs zero-shot classification over candidate labels.
type Classifier interface {
	Classify(ctx context.Context, text string, labels []string) (Result, error)
}

// Embedder produces a sentence embedding for text.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// System bundles all inference capabilities behind one lifecycle-managed handle.
type System interface {
	Recognizer
	Classifier
	Embedder

	// Start verifies the inference server is reachable before the service
	// begins accepting traffic. A failed health check is fatal.
	Start(lc *lifecycle.Coordinator) error
}

type client struct {
	endpoint string
	cfg      *Config
	http     *http.Client
	sem      *semaphore.Weighted
	logger   *slog.Logger
}

// New creates an inference client from the given configuration.
func New(cfg *Config, logger *slog.Logger) (System, error) {
	return &client{
		endpoint: strings.TrimRight(cfg.Endpoint, "/"),
		cfg:      cfg,
		http:     &http.Client{Timeout: cfg.TimeoutDuration()},
		sem:      semaphore.NewWeighted(int64(cfg.MaxConcurrent)),
		logger:   logger.With("system", "inference"),
	}, nil
}

// Start pings the inference server health endpoint synchronously. Models are
// loaded once at server startup; an unreachable or unhealthy server means a
// required capability is missing and the process must not serve requests.
func (c *client) Start(lc *lifecycle.Coordinator) error {
	ctx, cancel := context.WithTimeout(lc.Context(), c.http.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"/health", nil)
	if err != nil {
		return fmt.Errorf("%w: build health request: %w", ErrUnavailable, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: health check returned %d", ErrUnavailable, resp.StatusCode)
	}

	lc.OnShutdown(func() {
		<-lc.Context().Done()
		c.http.CloseIdleConnections()
		c.logger.Info("inference client closed")
	})

	c.logger.Info("inference server ready", "endpoint", c.endpoint)
	return nil
}

type nerRequest struct {
	Model string `json:"model"`
	Text  string `json:"text"`
}

type nerResponse struct {
	Entities []Span `json:"entities"`
}

func (c *client) Recognize(ctx context.Context, text string) ([]Span, error) {
	var out nerResponse
	err := c.post(ctx, "/ner", nerRequest{
		Model: c.cfg.NERModel,
		Text:  text,
	}, &out)
	if err != nil {
		return nil, fmt.Errorf("recognize entities: %w", err)
	}
	return out.Entities, nil
}

type classifyRequest struct {
	Model           string   `json:"model"`
	Text            string   `json:"text"`
	CandidateLabels []string `json:"candidate_labels"`
}

func (c *client) Classify(ctx context.Context, text string, labels []string) (Result, error) {
	var out Result
	err := c.post(ctx, "/classify", classifyRequest{
		Model:           c.cfg.ClassifierModel,
		Text:            text,
		CandidateLabels: labels,
	}, &out)
	if err != nil {
		return Result{}, fmt.Errorf("classify text: %w", err)
	}
	return out, nil
}

type embedRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embedResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
		Index     int       `json:"index"`
	} `json:"data"`
}

func (c *client) Embed(ctx context.Context, text string) ([]float32, error) {
	var out embedResponse
	err := c.post(ctx, "/v1/embeddings", embedRequest{
		Model: c.cfg.EmbeddingModel,
		Input: []string{text},
	}, &out)
	if err != nil {
		return nil, fmt.Errorf("embed text: %w", err)
	}

	if len(out.Data) != 1 || len(out.Data[0].Embedding) == 0 {
		return nil, fmt.Errorf("%w: embeddings response has %d entries", ErrBadResponse, len(out.Data))
	}

	// the store column is fixed-width; a wrong-dimension vector must fail
	// here as a capability error, not later at the UPDATE
	if got := len(out.Data[0].Embedding); got != c.cfg.EmbeddingDim {
		return nil, fmt.Errorf(
			"%w: embedding has %d dimensions, want %d",
			ErrBadResponse, got, c.cfg.EmbeddingDim,
		)
	}

	return out.Data[0].Embedding, nil
}

// post sends a JSON request under the concurrency bound and decodes the
// JSON response into out.
func (c *client) post(ctx context.Context, path string, body, out any) error {
	if err := c.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	defer c.sem.Release(1)

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("call %s: %w", path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s response: %w", path, err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %s returned %d: %s", ErrBadResponse, path, resp.StatusCode, snippet(data))
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: decode %s response: %w", ErrBadResponse, path, err)
	}

	return nil
}

func snippet(data []byte) string {
	const maxLen = 200
	s := strings.TrimSpace(string(data))
	if len(s) > maxLen {
		return s[:maxLen] + "..."
	}
	return s
}
