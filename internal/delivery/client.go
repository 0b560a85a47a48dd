package delivery

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/daniillazarev2301/belbird-checkout-service/internal/config"
)

// Quote — стоимость и срок доставки для города и службы доставки.
type Quote struct {
	Cost    int `json:"cost"`
	ETADays int `json:"eta_days"`
}

// Client — тонкая обёртка над сервисом расчёта доставки. К моменту
// оформления заказа стоимость уже получена через него на стороне UI.
type Client struct {
	client  *http.Client
	baseURL string
}

func NewClient(cfg config.Delivery) *Client {
	return &Client{
		client:  &http.Client{Timeout: cfg.Timeout},
		baseURL: cfg.BaseURL,
	}
}

func (c *Client) Quote(ctx context.Context, city, provider string, cartTotal int) (Quote, error) {
	q := url.Values{}
	q.Set("city", city)
	q.Set("provider", provider)
	q.Set("total", strconv.Itoa(cartTotal))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/quote?"+q.Encode(), nil)
	if err != nil {
		return Quote{}, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return Quote{}, fmt.Errorf("failed to call delivery provider: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Quote{}, fmt.Errorf("delivery provider returned status %d", resp.StatusCode)
	}

	var quote Quote
	if err := json.NewDecoder(resp.Body).Decode(&quote); err != nil {
		return Quote{}, fmt.Errorf("failed to decode quote: %w", err)
	}
	return quote, nil
}
