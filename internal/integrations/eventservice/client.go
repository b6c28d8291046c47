package eventservice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client клиент для сервиса уведомлений и статистики
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента. Пустой baseURL отключает отправку.
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// Publish отправляет событие. При отключенной интеграции ничего не делает.
func (c *Client) Publish(ctx context.Context, event Event) error {
	if c.baseURL == "" {
		return nil
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("%w: failed to encode event: %v", ErrInternal, err)
	}

	url := fmt.Sprintf("%s/events", c.baseURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(raw))
	}

	c.log.Info("Published event type=%s, series=%d", event.Type, event.ReservationSeriesID)
	return nil
}

// SeriesCreated отправляет событие о создании серии
func (c *Client) SeriesCreated(ctx context.Context, event Event) error {
	event.Type = EventSeriesCreated
	return c.Publish(ctx, event)
}

// StatisticsDirty помечает статистику бронирований как требующую пересчёта
func (c *Client) StatisticsDirty(ctx context.Context, event Event) error {
	event.Type = EventStatisticsDirty
	return c.Publish(ctx, event)
}
