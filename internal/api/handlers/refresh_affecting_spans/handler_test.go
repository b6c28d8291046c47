package refresh_affecting_spans

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/m04kA/varaamo-core/pkg/logger"
)

type fakeIndex struct {
	refreshErr  error
	refreshedAt time.Time
	readErr     error
	refreshes   int
}

func (f *fakeIndex) Refresh(context.Context) error {
	f.refreshes++
	return f.refreshErr
}

func (f *fakeIndex) RefreshedAt(context.Context) (time.Time, error) {
	return f.refreshedAt, f.readErr
}

func TestHandler_Handle(t *testing.T) {
	tests := []struct {
		name   string
		index  *fakeIndex
		status int
		body   string
	}{
		{
			name:   "refreshed",
			index:  &fakeIndex{refreshedAt: time.Date(2024, 1, 3, 12, 0, 0, 0, time.UTC)},
			status: http.StatusOK,
			body:   `{"refreshedAt":"2024-01-03T12:00:00Z"}`,
		},
		{
			name:   "refresh failed",
			index:  &fakeIndex{refreshErr: errors.New("deadlock")},
			status: http.StatusInternalServerError,
		},
		{
			name:   "state unreadable",
			index:  &fakeIndex{readErr: errors.New("timeout")},
			status: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			NewHandler(tt.index, logger.Nop()).Handle(rec, httptest.NewRequest(http.MethodPost, "/api/v1/affecting-time-spans/refresh", nil))

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, 1, tt.index.refreshes)
			if tt.body != "" {
				assert.JSONEq(t, tt.body, rec.Body.String())
			}
		})
	}
}
