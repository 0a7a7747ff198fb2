package modules

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	domain "github.com/bryanwahyu/talenta-triggers/internal/domain/triggers"
)

// HTTPHandler adapter untuk module downstream (learning/hiring/
// performance) yang expose kontrak handler lewat HTTP internal:
//
//	GET  {base}/health      -> {"healthy": bool}
//	POST {base}/initialize  <- config bag
//	GET  {base}/status      -> {"status": "..."}
//	POST {base}/triggers    <- trigger context, -> module domain object
type HTTPHandler struct {
	family  string
	baseURL string
	client  *http.Client
}

func NewHTTPHandler(family, baseURL string) *HTTPHandler {
	return &HTTPHandler{
		family:  family,
		baseURL: baseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

func (h *HTTPHandler) Family() string { return h.family }

func (h *HTTPHandler) CheckHealth(ctx context.Context) (domain.ModuleHealth, error) {
	var out domain.ModuleHealth
	if err := h.do(ctx, http.MethodGet, "/health", nil, &out); err != nil {
		return domain.ModuleHealth{}, err
	}
	return out, nil
}

func (h *HTTPHandler) Initialize(ctx context.Context, config map[string]any) error {
	return h.do(ctx, http.MethodPost, "/initialize", config, nil)
}

func (h *HTTPHandler) GetStatus(ctx context.Context) (domain.ModuleStatus, error) {
	var out domain.ModuleStatus
	if err := h.do(ctx, http.MethodGet, "/status", nil, &out); err != nil {
		return domain.ModuleStatus{}, err
	}
	return out, nil
}

func (h *HTTPHandler) HandleTrigger(ctx context.Context, tenant string, tc domain.TriggerContext) (map[string]any, error) {
	body := map[string]any{
		"tenant_id": tenant,
		"context":   tc,
	}
	var artifact map[string]any
	if err := h.do(ctx, http.MethodPost, "/triggers", body, &artifact); err != nil {
		return nil, err
	}
	return artifact, nil
}

func (h *HTTPHandler) do(ctx context.Context, method, path string, in, out any) error {
	var buf bytes.Buffer
	if in != nil {
		if err := json.NewEncoder(&buf).Encode(in); err != nil {
			return err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, h.baseURL+path, &buf)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s module %s %s: %w", h.family, method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%s module %s %s: unexpected status %d", h.family, method, path, resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
