package httpcall

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/IA-Ben/ode-islands-transcoder/internal/domain"
	"github.com/IA-Ben/ode-islands-transcoder/internal/infrastructure/httpx"
	"github.com/IA-Ben/ode-islands-transcoder/internal/port"
)

// Dispatcher calls the compute service's /process endpoint directly. The
// compute side acknowledges as soon as the request is queued, so Trigger
// never waits for the encode itself.
type Dispatcher struct {
	baseURL string
	token   string
	client  *http.Client
}

type Option func(*Dispatcher)

func WithHTTPClient(c *http.Client) Option {
	return func(d *Dispatcher) { d.client = c }
}

func WithToken(token string) Option {
	return func(d *Dispatcher) { d.token = token }
}

func NewDispatcher(baseURL string, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  httpx.NewClient(30 * time.Second),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Dispatcher) Strategy() domain.Strategy {
	return domain.StrategyHTTP
}

func (d *Dispatcher) Trigger(ctx context.Context, videoID, inputURI string) (domain.Strategy, error) {
	if err := d.trigger(ctx, videoID, inputURI); err != nil {
		return domain.StrategyHTTP, &domain.DispatchError{Strategy: domain.StrategyHTTP, VideoID: videoID, Err: err}
	}
	return domain.StrategyHTTP, nil
}

func (d *Dispatcher) trigger(ctx context.Context, videoID, inputURI string) error {
	body, err := json.Marshal(domain.ProcessRequest{
		VideoID:     videoID,
		InputURI:    inputURI,
		Orientation: domain.OrientationFromPath(inputURI),
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.baseURL+"/process", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if d.token != "" {
		req.Header.Set("Authorization", "Bearer "+d.token)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("process endpoint returned %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

func (d *Dispatcher) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.baseURL+"/health", nil)
	if err != nil {
		return err
	}
	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("health check: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("health check: status %d", resp.StatusCode)
	}
	return nil
}

var _ port.Dispatcher = (*Dispatcher)(nil)
