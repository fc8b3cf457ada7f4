package paypal

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client REST-клиент PayPal. Используется для получения access-токена
// и отмены подписок. Таймаут HTTP-клиента ограничивает и обмен токена,
// и отмену: зависший провайдер не должен блокировать запрос целиком.
type Client struct {
	clientID   string
	secret     string
	apiURL     string
	httpClient *http.Client
}

// NewClient создаёт новый клиент PayPal.
// При нулевом timeout используется 10 секунд.
func NewClient(clientID, secret, apiURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		clientID:   clientID,
		secret:     secret,
		apiURL:     strings.TrimRight(apiURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// FetchAccessToken выполняет OAuth2 client_credentials обмен
// и возвращает access-токен.
func (c *Client) FetchAccessToken(ctx context.Context) (string, error) {
	const op = "paypal.FetchAccessToken"

	form := url.Values{}
	form.Set("grant_type", "client_credentials")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.apiURL+"/v1/oauth2/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	auth := base64.StdEncoding.EncodeToString([]byte(c.clientID + ":" + c.secret))
	req.Header.Set("Authorization", "Basic "+auth)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%s: unexpected status %s", op, resp.Status)
	}

	var tok tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if tok.AccessToken == "" {
		return "", fmt.Errorf("%s: empty access token", op)
	}
	return tok.AccessToken, nil
}

// CancelSubscription отменяет подписку у провайдера.
// Не-2xx ответ — ошибка: отказ провайдера никогда не считается успехом.
func (c *Client) CancelSubscription(ctx context.Context, subscriptionID, reason string) error {
	const op = "paypal.CancelSubscription"

	token, err := c.FetchAccessToken(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	body, err := json.Marshal(map[string]string{"reason": reason})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.apiURL+"/v1/billing/subscriptions/"+subscriptionID+"/cancel", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s: unexpected status %s", op, resp.Status)
	}
	return nil
}
