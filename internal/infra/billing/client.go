package billing

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Client ke service tenancy/billing untuk cek module access per tier.
// Implements triggers.AccessChecker.
type Client struct {
	baseURL string
	client  *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// CheckModuleAccess GET /v1/tenants/{tenant}/modules/{module}/access
func (c *Client) CheckModuleAccess(ctx context.Context, tenant, module string) (bool, error) {
	url := fmt.Sprintf("%s/v1/tenants/%s/modules/%s/access", c.baseURL, tenant, module)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("billing access check: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusForbidden {
		return false, nil
	}
	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("billing access check: unexpected status %d", resp.StatusCode)
	}

	var body struct {
		Allowed bool `json:"allowed"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return false, err
	}
	return body.Allowed, nil
}
