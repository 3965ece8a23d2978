package estaterec

import (
	"context"
	"fmt"
	"net/http"
)

// SubmitFeedback labels a property for the logged-in user, replacing any earlier label.
func (c *Client) SubmitFeedback(ctx context.Context, propertyID uint, label Label) error {
	body := struct {
		PropertyID uint  `json:"property_id"`
		Feedback   Label `json:"feedback"`
	}{propertyID, label}
	return c.doJSON(ctx, http.MethodPost, "/api/feedback", body, nil)
}

// ListFeedback returns the logged-in user's labels.
func (c *Client) ListFeedback(ctx context.Context) ([]Feedback, error) {
	var out []Feedback
	if err := c.doJSON(ctx, http.MethodGet, "/api/feedback", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetFeedback returns the logged-in user's label for one property.
func (c *Client) GetFeedback(ctx context.Context, propertyID uint) (Feedback, error) {
	var out Feedback
	if err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/api/feedback/%d", propertyID), nil, &out); err != nil {
		return Feedback{}, err
	}
	return out, nil
}
