package eventservice

import "time"

// EventType тип события
type EventType string

const (
	EventSeriesCreated   EventType = "series_created"
	EventStatisticsDirty EventType = "statistics_dirty"
)

// Event событие для сервиса уведомлений и статистики
type Event struct {
	Type                EventType `json:"type"`
	ReservationSeriesID int64     `json:"reservation_series_id"`
	ReservationUnitID   int64     `json:"reservation_unit_id"`
	ReservationsCount   int       `json:"reservations_count"`
	RejectedCount       int       `json:"rejected_count"`
	OccurredAt          time.Time `json:"occurred_at"`
}
