package get_reservation_series

import "github.com/m04kA/varaamo-core/internal/usecase/create_reservation_series"

// Request модель запроса серии
type Request struct {
	SeriesID int64
}

// Response совпадает с ответом создания серии, чтобы отдавать одну и ту же модель
type Response = create_reservation_series.Response
