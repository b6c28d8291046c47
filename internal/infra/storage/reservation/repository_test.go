package reservation

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/varaamo-core/internal/domain"
	"github.com/m04kA/varaamo-core/pkg/ptr"
)

func newMockRepository(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewRepository(db), mock
}

func newReservations(n int) []*domain.Reservation {
	begin := time.Date(2024, 1, 3, 10, 0, 0, 0, time.UTC)
	reservations := make([]*domain.Reservation, n)
	for i := range reservations {
		start := begin.AddDate(0, 0, 7*i)
		reservations[i] = &domain.Reservation{
			ExtUUID:             uuid.New(),
			Begin:               start,
			End:                 start.Add(time.Hour),
			BufferTimeAfter:     15 * time.Minute,
			State:               domain.StateConfirmed,
			Type:                domain.TypeStaff,
			ReservationUnitID:   3,
			ReservationSeriesID: ptr.Ptr(int64(17)),
		}
	}
	return reservations
}

func TestRepository_CreateBulk(t *testing.T) {
	repo, mock := newMockRepository(t)
	now := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

	mock.ExpectQuery("INSERT INTO reservations \\(ext_uuid,begin_datetime,.+\\) VALUES \\(\\$1,.+\\),\\(\\$13,.+\\$24\\) RETURNING id, created_at, updated_at").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).
			AddRow(31, now, now).
			AddRow(32, now, now))

	reservations, err := repo.CreateBulk(context.Background(), newReservations(2))

	require.NoError(t, err)
	assert.Equal(t, int64(31), reservations[0].ID)
	assert.Equal(t, int64(32), reservations[1].ID)
	assert.Equal(t, now, reservations[1].CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_CreateBulk_RowsMismatch(t *testing.T) {
	repo, mock := newMockRepository(t)
	now := time.Now()

	mock.ExpectQuery("INSERT INTO reservations").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(31, now, now))

	_, err := repo.CreateBulk(context.Background(), newReservations(2))
	assert.ErrorIs(t, err, ErrRowsMismatch)
}

func TestRepository_CreateBulk_Empty(t *testing.T) {
	repo, mock := newMockRepository(t)

	reservations, err := repo.CreateBulk(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, reservations)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_LinkReservationUnits(t *testing.T) {
	repo, mock := newMockRepository(t)
	reservations := newReservations(2)
	reservations[0].ID, reservations[1].ID = 31, 32

	mock.ExpectExec("INSERT INTO reservation_reservation_units \\(reservation_id,reservation_unit_id\\) VALUES \\(\\$1,\\$2\\),\\(\\$3,\\$4\\)").
		WithArgs(int64(31), int64(3), int64(32), int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 2))

	require.NoError(t, repo.LinkReservationUnits(context.Background(), reservations))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_ListBySeries(t *testing.T) {
	repo, mock := newMockRepository(t)
	begin := time.Date(2024, 1, 3, 10, 0, 0, 0, time.UTC)
	extUUID := uuid.New()

	mock.ExpectQuery("FROM reservations r LEFT JOIN reservation_reservation_units rru ON rru.reservation_id = r.id WHERE r.reservation_series_id = \\$1").
		WithArgs(int64(17)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "ext_uuid", "begin_datetime", "end_datetime", "buffer_before", "buffer_after", "state", "type",
			"reservation_unit_id", "reservation_series_id", "name", "description", "reservee_name", "num_persons",
			"created_at", "updated_at",
		}).AddRow(31, extUUID.String(), begin, begin.Add(time.Hour), 0, 15, "CONFIRMED", "STAFF",
			3, 17, "Weekly", "", "", 0, begin, begin))

	reservations, err := repo.ListBySeries(context.Background(), 17)

	require.NoError(t, err)
	require.Len(t, reservations, 1)
	r := reservations[0]
	assert.Equal(t, extUUID, r.ExtUUID)
	assert.Equal(t, 15*time.Minute, r.BufferTimeAfter)
	assert.Equal(t, domain.StateConfirmed, r.State)
	assert.Equal(t, int64(3), r.ReservationUnitID)
	assert.Equal(t, int64(17), *r.ReservationSeriesID)
}
