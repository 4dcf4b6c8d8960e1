// Package catalog talks to the external catalog service for menu browsing.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
)

type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Food struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Image       string          `json:"image,omitempty"`
	Rating      float64         `json:"rating,omitempty"`
}

type Ingredient struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type FoodDetail struct {
	Food
	Ingredients      []Ingredient `json:"ingredients,omitempty"`
	Rate             float64      `json:"rate,omitempty"`
	TimeOfCompletion string       `json:"timeOfComplition,omitempty"`
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

// Categories lists menu categories for a hotel. The auth value goes into the
// Authorization header verbatim; the source contract passes the hotel id
// there, so it is treated as an opaque required credential.
func (c *Client) Categories(ctx context.Context, auth, hotelID string) ([]Category, error) {
	var out []Category
	if err := c.get(ctx, auth, fmt.Sprintf("/cat/menu/%s", hotelID), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Foods lists foods of one category.
func (c *Client) Foods(ctx context.Context, auth, categoryID string) ([]Food, error) {
	var out []Food
	if err := c.get(ctx, auth, fmt.Sprintf("/food/menue_foods/%s", categoryID), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Food fetches the detail view of a single food, ingredients included.
func (c *Client) Food(ctx context.Context, auth, foodID string) (*FoodDetail, error) {
	var out FoodDetail
	if err := c.get(ctx, auth, fmt.Sprintf("/food/menue_foods_details/%s", foodID), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) get(ctx context.Context, auth, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+auth)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Printf("catalog %s: %v", path, err)
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var payload struct {
			Message string `json:"message"`
		}
		_ = json.Unmarshal(raw, &payload)
		if payload.Message != "" {
			return fmt.Errorf("catalog service: %s", payload.Message)
		}
		return fmt.Errorf("catalog service returned status %d", resp.StatusCode)
	}

	return json.Unmarshal(raw, out)
}
