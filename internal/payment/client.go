package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/daniillazarev2301/belbird-checkout-service/internal/config"

	"github.com/sony/gobreaker/v2"
)

// Client ходит к платёжному провайдеру за hosted-страницей оплаты.
// Вызов ограничен таймаутом и закрыт circuit breaker'ом: при лежащем
// провайдере оформление заказов продолжает работать.
type Client struct {
	logger  *slog.Logger
	client  *http.Client
	breaker *gobreaker.CircuitBreaker[string]
	cfg     config.Payment
}

func NewClient(logger *slog.Logger, cfg config.Payment) *Client {
	breaker := gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
		Name:    "payment-provider",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})

	return &Client{
		logger:  logger.With(slog.String("client", "payment")),
		client:  &http.Client{Timeout: cfg.Timeout},
		breaker: breaker,
		cfg:     cfg,
	}
}

type sessionRequest struct {
	OrderID     string `json:"order_id"`
	Amount      int    `json:"amount"`
	Description string `json:"description"`
	SuccessURL  string `json:"success_url"`
	FailURL     string `json:"fail_url"`
}

type sessionResponse struct {
	RedirectURL string `json:"redirect_url"`
}

// CreateSession регистрирует платёж и возвращает URL страницы оплаты.
// Ошибка означает только "не удалось начать оплату" — не то, что
// списания не было.
func (c *Client) CreateSession(ctx context.Context, orderID string, amount int, description string) (string, error) {
	return c.breaker.Execute(func() (string, error) {
		ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()

		body, err := json.Marshal(sessionRequest{
			OrderID:     orderID,
			Amount:      amount,
			Description: description,
			SuccessURL:  fmt.Sprintf("%s?order_id=%s", c.cfg.SuccessURL, orderID),
			FailURL:     fmt.Sprintf("%s?order_id=%s", c.cfg.FailURL, orderID),
		})
		if err != nil {
			return "", fmt.Errorf("failed to marshal session request: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/api/sessions", bytes.NewReader(body))
		if err != nil {
			return "", fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.SetBasicAuth(c.cfg.ShopID, c.cfg.SecretKey)

		resp, err := c.client.Do(req)
		if err != nil {
			return "", fmt.Errorf("failed to call payment provider: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return "", fmt.Errorf("payment provider returned status %d", resp.StatusCode)
		}

		var session sessionResponse
		if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
			return "", fmt.Errorf("failed to decode session response: %w", err)
		}
		if session.RedirectURL == "" {
			return "", fmt.Errorf("payment provider returned empty redirect url")
		}
		return session.RedirectURL, nil
	})
}
