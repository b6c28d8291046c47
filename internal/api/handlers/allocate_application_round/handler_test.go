package allocate_application_round

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/varaamo-core/internal/domain"
	allocateRound "github.com/m04kA/varaamo-core/internal/usecase/allocate_application_round"
	"github.com/m04kA/varaamo-core/pkg/logger"
	"github.com/m04kA/varaamo-core/pkg/types"
)

type fakeUseCase struct {
	got  *allocateRound.Request
	resp *allocateRound.Response
	err  error
}

func (f *fakeUseCase) Execute(_ context.Context, req *allocateRound.Request) (*allocateRound.Response, error) {
	f.got = req
	return f.resp, f.err
}

func serve(h *Handler, roundID, query string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/application-rounds/"+roundID+"/allocate"+query, nil)
	req = mux.SetURLVars(req, map[string]string{"roundId": roundID})
	rec := httptest.NewRecorder()
	h.Handle(rec, req)
	return rec
}

func TestHandler_Handle(t *testing.T) {
	uc := &fakeUseCase{resp: &allocateRound.Response{
		Slots: []*domain.AllocatedTimeSlot{{
			ID:                      1,
			ReservationUnitOptionID: 100,
			ReservationUnitID:       7,
			ApplicationSectionID:    10,
			DayOfWeek:               domain.Tuesday,
			BeginTime:               types.MustTimeString("18:00"),
			EndTime:                 types.MustTimeString("20:00"),
		}},
		Unallocated: map[int64]int{11: 2},
	}}

	rec := serve(NewHandler(uc, logger.Nop()), "4", "?dryRun=true")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(4), uc.got.ApplicationRoundID)
	assert.True(t, uc.got.DryRun)

	var resp AllocationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.DryRun)
	require.Len(t, resp.Slots, 1)
	assert.Equal(t, 1, resp.Slots[0].DayOfWeek)
	assert.Equal(t, "18:00", resp.Slots[0].BeginTime)
	assert.Equal(t, map[string]int{"11": 2}, resp.Unallocated)
	assert.NotNil(t, resp.SkippedSections)
}

func TestHandler_Handle_Errors(t *testing.T) {
	tests := []struct {
		name    string
		roundID string
		query   string
		err     error
		status  int
	}{
		{name: "bad round id", roundID: "x", status: http.StatusBadRequest},
		{name: "bad dry run", roundID: "4", query: "?dryRun=maybe", status: http.StatusBadRequest},
		{name: "invalid input", roundID: "4", err: allocateRound.ErrInvalidInput, status: http.StatusBadRequest},
		{name: "invalid section", roundID: "4", err: allocateRound.ErrInvalidSection, status: http.StatusBadRequest},
		{name: "internal", roundID: "4", err: errors.New("boom"), status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(NewHandler(&fakeUseCase{err: tt.err}, logger.Nop()), tt.roundID, tt.query)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}
