package accesscode

import "time"

// Request запрос кода доступа для бронирований серии
type Request struct {
	ReservationSeriesID int64     `json:"reservation_series_id"`
	ReservationUnitID   int64     `json:"reservation_unit_id"`
	ReservationIDs      []string  `json:"reservation_ids"` // ext_uuid бронирований
	Begin               time.Time `json:"begin"`
	End                 time.Time `json:"end"`
}

// Response ответ сервиса кодов доступа
type Response struct {
	AccessCode string    `json:"access_code"`
	ValidFrom  time.Time `json:"valid_from"`
	ValidUntil time.Time `json:"valid_until"`
}

// ErrorResponse модель ошибки от сервиса кодов доступа
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
