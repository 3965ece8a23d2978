package estaterec

import (
	"context"
	"fmt"
	"net/http"
)

// Health fetches the server health report. A degraded or failing server
// is reported through Health.Status, not an error.
func (c *Client) Health(ctx context.Context) (Health, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/health", nil)
	if err != nil {
		return Health{}, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return Health{}, fmt.Errorf("GET /health: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	return decodeHealth(resp)
}
