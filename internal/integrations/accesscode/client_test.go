package accesscode

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/varaamo-core/pkg/logger"
)

func newTestRequest() *Request {
	begin := time.Date(2024, 1, 3, 10, 0, 0, 0, time.UTC)
	return &Request{
		ReservationSeriesID: 17,
		ReservationUnitID:   3,
		ReservationIDs:      []string{uuid.NewString()},
		Begin:               begin,
		End:                 begin.Add(time.Hour),
	}
}

func TestClient_RequestAccessCode(t *testing.T) {
	key := uuid.New()
	validFrom := time.Date(2024, 1, 3, 9, 0, 0, 0, time.UTC)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/access-codes", r.URL.Path)
		assert.Equal(t, key.String(), r.Header.Get(IdempotencyKeyHeader))

		var req Request
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, int64(17), req.ReservationSeriesID)

		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(Response{AccessCode: "4711", ValidFrom: validFrom})
	}))
	defer server.Close()

	resp, err := NewClient(server.URL, time.Second, logger.Nop()).
		RequestAccessCode(context.Background(), key, newTestRequest())

	require.NoError(t, err)
	assert.Equal(t, "4711", resp.AccessCode)
	assert.True(t, validFrom.Equal(resp.ValidFrom))
}

func TestClient_RequestAccessCode_Statuses(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantErr  error
		wantText string
	}{
		{
			name:   "accepted",
			status: http.StatusAccepted,
		},
		{
			name:     "error with message",
			status:   http.StatusConflict,
			body:     `{"code":409,"message":"code already issued"}`,
			wantErr:  ErrInvalidResponse,
			wantText: "code already issued",
		},
		{
			name:     "error without body",
			status:   http.StatusBadGateway,
			body:     "bad gateway",
			wantErr:  ErrInvalidResponse,
			wantText: "502",
		},
		{
			name:    "malformed success body",
			status:  http.StatusOK,
			body:    "{",
			wantErr: ErrInvalidResponse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			resp, err := NewClient(server.URL, time.Second, logger.Nop()).
				RequestAccessCode(context.Background(), uuid.New(), newTestRequest())

			if tt.wantErr == nil {
				require.NoError(t, err)
				assert.Empty(t, resp.AccessCode)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Contains(t, err.Error(), tt.wantText)
		})
	}
}

func TestClient_RequestAccessCode_Disabled(t *testing.T) {
	_, err := NewClient("", time.Second, logger.Nop()).
		RequestAccessCode(context.Background(), uuid.New(), newTestRequest())
	assert.ErrorIs(t, err, ErrDisabled)
}

func TestClient_RequestAccessCodeWithGracefulDegradation(t *testing.T) {
	t.Run("unavailable", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer server.Close()

		_, err := NewClient(server.URL, time.Second, logger.Nop()).
			RequestAccessCodeWithGracefulDegradation(context.Background(), uuid.New(), newTestRequest())
		assert.ErrorIs(t, err, ErrServiceDegraded)
	})

	t.Run("disabled stays disabled", func(t *testing.T) {
		_, err := NewClient("", time.Second, logger.Nop()).
			RequestAccessCodeWithGracefulDegradation(context.Background(), uuid.New(), newTestRequest())
		assert.ErrorIs(t, err, ErrDisabled)
		assert.NotErrorIs(t, err, ErrServiceDegraded)
	})
}
