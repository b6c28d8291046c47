package affecting

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/varaamo-core/internal/domain"
)

func newMockRepository(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewRepository(db), mock
}

func TestRepository_Rebuild(t *testing.T) {
	repo, mock := newMockRepository(t)
	now := time.Date(2024, 1, 3, 12, 0, 0, 0, time.UTC)
	states := []domain.ReservationState{domain.StateConfirmed, domain.StateCreated}

	mock.ExpectExec("^DELETE FROM affecting_time_spans$").
		WillReturnResult(sqlmock.NewResult(0, 10))
	mock.ExpectExec("INSERT INTO affecting_time_spans \\(reservation_id,.+,is_blocking\\) SELECT r.id, .+ FROM reservations r WHERE r.state IN \\(\\$1,\\$2\\) AND .+ > \\$3").
		WithArgs("CONFIRMED", "CREATED", now).
		WillReturnResult(sqlmock.NewResult(0, 4))
	mock.ExpectExec("INSERT INTO affecting_time_spans_state \\(id,refreshed_at\\) VALUES \\(\\$1,\\$2\\) ON CONFLICT \\(id\\) DO UPDATE").
		WithArgs(1, now).
		WillReturnResult(sqlmock.NewResult(0, 1))

	inserted, err := repo.Rebuild(context.Background(), states, now)

	require.NoError(t, err)
	assert.Equal(t, int64(4), inserted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Rebuild_DeleteFails(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectExec("DELETE FROM affecting_time_spans").
		WillReturnError(errors.New("lock timeout"))

	_, err := repo.Rebuild(context.Background(), domain.AffectingStates, time.Now())
	assert.ErrorIs(t, err, ErrExecQuery)
}

func TestRepository_GetRefreshedAt(t *testing.T) {
	t.Run("refreshed", func(t *testing.T) {
		repo, mock := newMockRepository(t)
		refreshedAt := time.Date(2024, 1, 3, 11, 58, 0, 0, time.UTC)
		mock.ExpectQuery("SELECT refreshed_at FROM affecting_time_spans_state WHERE id = \\$1").
			WithArgs(1).
			WillReturnRows(sqlmock.NewRows([]string{"refreshed_at"}).AddRow(refreshedAt))

		got, err := repo.GetRefreshedAt(context.Background())
		require.NoError(t, err)
		assert.Equal(t, refreshedAt, got)
	})

	t.Run("never refreshed", func(t *testing.T) {
		repo, mock := newMockRepository(t)
		mock.ExpectQuery("FROM affecting_time_spans_state").
			WillReturnRows(sqlmock.NewRows([]string{"refreshed_at"}))

		_, err := repo.GetRefreshedAt(context.Background())
		assert.ErrorIs(t, err, ErrNeverRefreshed)
	})
}

func TestRepository_ListAffecting(t *testing.T) {
	repo, mock := newMockRepository(t)
	start := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	end := start.Add(24 * time.Hour)

	mock.ExpectQuery("FROM affecting_time_spans WHERE affected_reservation_unit_ids && \\$1 AND buffered_start_datetime < \\$2 AND buffered_end_datetime > \\$3 AND reservation_id NOT IN \\(\\$4\\)").
		WithArgs(sqlmock.AnyArg(), end, start, int64(77)).
		WillReturnRows(sqlmock.NewRows([]string{
			"reservation_id", "affected_reservation_unit_ids", "buffered_start_datetime", "buffered_end_datetime",
			"buffer_time_before_minutes", "buffer_time_after_minutes", "is_blocking",
		}).AddRow(5, "{1,4}", start.Add(9*time.Hour+45*time.Minute), start.Add(11*time.Hour), 15, 0, false))

	spans, err := repo.ListAffecting(context.Background(), []int64{1}, start, end, []int64{77})

	require.NoError(t, err)
	require.Len(t, spans, 1)
	assert.Equal(t, []int64{1, 4}, spans[0].AffectedReservationUnitIDs)
	assert.Equal(t, 15*time.Minute, spans[0].BufferTimeBefore)
	assert.False(t, spans[0].IsBlocking)
	assert.NoError(t, mock.ExpectationsWereMet())
}
