package accesscode

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// IdempotencyKeyHeader заголовок ключа идемпотентности
const IdempotencyKeyHeader = "Idempotency-Key"

// Client клиент для сервиса кодов доступа
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента сервиса кодов доступа.
// Пустой baseURL отключает интеграцию.
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// RequestAccessCode запрашивает код доступа. Повтор с тем же idempotencyKey безопасен.
func (c *Client) RequestAccessCode(ctx context.Context, idempotencyKey uuid.UUID, request *Request) (*Response, error) {
	if c.baseURL == "" {
		return nil, ErrDisabled
	}

	body, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to encode request: %v", ErrInternal, err)
	}

	url := fmt.Sprintf("%s/access-codes", c.baseURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(IdempotencyKeyHeader, idempotencyKey.String())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	// Обработка статус-кодов
	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
		// Продолжаем обработку
	case http.StatusAccepted:
		// Код будет выдан асинхронно
		return &Response{}, nil
	default:
		var errResp ErrorResponse
		raw, _ := io.ReadAll(resp.Body)
		if json.Unmarshal(raw, &errResp) == nil && errResp.Message != "" {
			return nil, fmt.Errorf("%w: status %d: %s", ErrInvalidResponse, resp.StatusCode, errResp.Message)
		}
		return nil, fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(raw))
	}

	var result Response
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	return &result, nil
}

// RequestAccessCodeWithGracefulDegradation запрашивает код доступа с graceful degradation.
// Любая ошибка, кроме отключенной интеграции, превращается в ErrServiceDegraded.
func (c *Client) RequestAccessCodeWithGracefulDegradation(ctx context.Context, idempotencyKey uuid.UUID, request *Request) (*Response, error) {
	c.log.Info("Requesting access code for series=%d, unit=%d, reservations=%d",
		request.ReservationSeriesID, request.ReservationUnitID, len(request.ReservationIDs))

	result, err := c.RequestAccessCode(ctx, idempotencyKey, request)
	if err != nil {
		if errors.Is(err, ErrDisabled) {
			c.log.Warn("Access code service is not configured, series=%d left without code", request.ReservationSeriesID)
			return nil, err
		}

		c.log.Error("Access code service unavailable, applying graceful degradation for series=%d: %v",
			request.ReservationSeriesID, err)
		return nil, fmt.Errorf("%w: series=%d, error=%v", ErrServiceDegraded, request.ReservationSeriesID, err)
	}

	c.log.Info("Successfully requested access code for series=%d", request.ReservationSeriesID)
	return result, nil
}
