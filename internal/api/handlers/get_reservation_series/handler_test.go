package get_reservation_series

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"

	"github.com/m04kA/varaamo-core/internal/domain"
	createSeries "github.com/m04kA/varaamo-core/internal/usecase/create_reservation_series"
	getSeries "github.com/m04kA/varaamo-core/internal/usecase/get_reservation_series"
	"github.com/m04kA/varaamo-core/pkg/logger"
)

type fakeUseCase struct {
	resp *getSeries.Response
	err  error
}

func (f *fakeUseCase) Execute(context.Context, *getSeries.Request) (*getSeries.Response, error) {
	return f.resp, f.err
}

func TestHandler_Handle(t *testing.T) {
	found := &getSeries.Response{
		Series:  &domain.ReservationSeries{ID: 17, Name: "Weekly"},
		Outcome: createSeries.StateAllAccepted,
		State:   createSeries.StatePersisted,
	}

	tests := []struct {
		name     string
		seriesID string
		uc       *fakeUseCase
		status   int
	}{
		{name: "found", seriesID: "17", uc: &fakeUseCase{resp: found}, status: http.StatusOK},
		{name: "bad id", seriesID: "x", uc: &fakeUseCase{}, status: http.StatusBadRequest},
		{name: "invalid input", seriesID: "0", uc: &fakeUseCase{err: getSeries.ErrInvalidInput}, status: http.StatusBadRequest},
		{name: "not found", seriesID: "18", uc: &fakeUseCase{err: getSeries.ErrSeriesNotFound}, status: http.StatusNotFound},
		{name: "internal", seriesID: "17", uc: &fakeUseCase{err: errors.New("boom")}, status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/reservation-series/"+tt.seriesID, nil)
			req = mux.SetURLVars(req, map[string]string{"seriesId": tt.seriesID})
			rec := httptest.NewRecorder()

			NewHandler(tt.uc, logger.Nop()).Handle(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			if tt.status == http.StatusOK {
				assert.Contains(t, rec.Body.String(), `"state":"PERSISTED"`)
			}
		})
	}
}
