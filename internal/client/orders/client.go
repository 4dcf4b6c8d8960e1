// Package orders talks to the external order submission service.
package orders

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"

	"dinetrack/internal/domain"
)

// RequestLine is the wire shape of one submitted cart line. Ingredients
// carries the cart's selected options end-to-end; the upstream contract may
// ignore the field, but it is never dropped on this side.
type RequestLine struct {
	FoodID      string   `json:"food_id"`
	Quantity    int      `json:"quantity"`
	OrderTable  string   `json:"order_table"`
	HotelID     string   `json:"hotel_id"`
	Ingredients []string `json:"ingredients,omitempty"`
}

type submitRequest struct {
	Orders []RequestLine `json:"orders"`
}

type submitResponse struct {
	Orders []domain.OrderRecord `json:"orders"`
}

type errorResponse struct {
	Message string `json:"message"`
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *log.Logger
}

func New(baseURL string, logger *log.Logger) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		logger:     logger,
	}
}

// Create submits the whole batch as a single request. The call is
// all-or-nothing: either the full set of created records comes back, or the
// call fails and a SubmissionError carries the service message when one was
// provided. Each attempt gets a fresh idempotency key.
func (c *Client) Create(ctx context.Context, lines []RequestLine) ([]domain.OrderRecord, error) {
	body, err := json.Marshal(submitRequest{Orders: lines})
	if err != nil {
		return nil, &domain.SubmissionError{Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/order/order_food", bytes.NewReader(body))
	if err != nil {
		return nil, &domain.SubmissionError{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotency-Key", uuid.NewString())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Printf("submit orders: %v", err)
		return nil, &domain.SubmissionError{Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &domain.SubmissionError{Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var payload errorResponse
		_ = json.Unmarshal(raw, &payload)
		c.logger.Printf("submit orders: status %d: %s", resp.StatusCode, payload.Message)
		return nil, &domain.SubmissionError{
			Message: payload.Message,
			Err:     fmt.Errorf("order service returned status %d", resp.StatusCode),
		}
	}

	var payload submitResponse
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, &domain.SubmissionError{Err: fmt.Errorf("decode order response: %w", err)}
	}
	return payload.Orders, nil
}
