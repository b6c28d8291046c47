package series

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
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

func TestRepository_Create(t *testing.T) {
	repo, mock := newMockRepository(t)
	createdAt := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

	mock.ExpectQuery("INSERT INTO reservation_series \\(name,description,begin_date,end_date,.+\\) VALUES \\(\\$1,.+\\$10\\) RETURNING id, created_at").
		WithArgs("Weekly", "", "2024-01-03", "2024-01-24", sqlmock.AnyArg(), sqlmock.AnyArg(),
			sqlmock.AnyArg(), 7, int64(1), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(17, createdAt))

	series, err := repo.Create(context.Background(), &domain.ReservationSeries{
		Name:                "Weekly",
		BeginDate:           time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC),
		EndDate:             time.Date(2024, 1, 24, 0, 0, 0, 0, time.UTC),
		BeginTime:           "10:00",
		EndTime:             "11:00",
		Weekdays:            []domain.Weekday{domain.Wednesday},
		RecurrenceInDays:    7,
		ReservationUnitID:   1,
		AllocatedTimeSlotID: ptr.Ptr(int64(4)),
	})

	require.NoError(t, err)
	assert.Equal(t, int64(17), series.ID)
	assert.Equal(t, createdAt, series.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Create_Error(t *testing.T) {
	repo, mock := newMockRepository(t)
	mock.ExpectQuery("INSERT INTO reservation_series").WillReturnError(sql.ErrConnDone)

	_, err := repo.Create(context.Background(), &domain.ReservationSeries{})
	assert.ErrorIs(t, err, ErrExecQuery)
}

func TestRepository_GetByID(t *testing.T) {
	repo, mock := newMockRepository(t)
	createdAt := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT .+ FROM reservation_series WHERE id = \\$1").
		WithArgs(int64(17)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "name", "description", "begin_date", "end_date", "begin_time", "end_time",
			"weekdays", "recurrence_in_days", "reservation_unit_id", "allocated_time_slot_id", "created_at",
		}).AddRow(17, "Weekly", "", time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC), time.Date(2024, 1, 24, 0, 0, 0, 0, time.UTC),
			"10:00", "11:00", "{0,2}", 7, 1, nil, createdAt))

	series, err := repo.GetByID(context.Background(), 17)

	require.NoError(t, err)
	assert.Equal(t, []domain.Weekday{domain.Monday, domain.Wednesday}, series.Weekdays)
	assert.Equal(t, "10:00", series.BeginTime.String())
	assert.Nil(t, series.AllocatedTimeSlotID)
}

func TestRepository_GetByID_NotFound(t *testing.T) {
	repo, mock := newMockRepository(t)
	mock.ExpectQuery("FROM reservation_series").WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), 1)
	assert.ErrorIs(t, err, ErrSeriesNotFound)
}

func TestRepository_CreateRejectedOccurrences(t *testing.T) {
	repo, mock := newMockRepository(t)
	begin := time.Date(2024, 1, 3, 10, 0, 0, 0, time.UTC)

	mock.ExpectExec("INSERT INTO rejected_occurrences \\(begin_datetime,end_datetime,rejection_reason,reservation_series_id\\) VALUES \\(\\$1,\\$2,\\$3,\\$4\\),\\(\\$5,\\$6,\\$7,\\$8\\)").
		WithArgs(begin, begin.Add(time.Hour), "OVERLAPPING_RESERVATIONS", int64(17),
			begin.AddDate(0, 0, 7), begin.AddDate(0, 0, 7).Add(time.Hour), "RESERVATION_UNIT_CLOSED", int64(17)).
		WillReturnResult(sqlmock.NewResult(0, 2))

	err := repo.CreateRejectedOccurrences(context.Background(), []*domain.RejectedOccurrence{
		{BeginDatetime: begin, EndDatetime: begin.Add(time.Hour), RejectionReason: domain.RejectionOverlapping, ReservationSeriesID: 17},
		{BeginDatetime: begin.AddDate(0, 0, 7), EndDatetime: begin.AddDate(0, 0, 7).Add(time.Hour), RejectionReason: domain.RejectionReservationUnitClosed, ReservationSeriesID: 17},
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_CreateRejectedOccurrences_Empty(t *testing.T) {
	repo, mock := newMockRepository(t)

	require.NoError(t, repo.CreateRejectedOccurrences(context.Background(), nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_ListRejectedOccurrences(t *testing.T) {
	repo, mock := newMockRepository(t)
	begin := time.Date(2024, 1, 3, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery("FROM rejected_occurrences WHERE reservation_series_id = \\$1 ORDER BY begin_datetime ASC, id ASC").
		WithArgs(int64(17)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "begin_datetime", "end_datetime", "rejection_reason", "reservation_series_id", "created_at"}).
			AddRow(1, begin, begin.Add(time.Hour), "INTERVAL_NOT_ALLOWED", 17, begin))

	rejected, err := repo.ListRejectedOccurrences(context.Background(), 17)

	require.NoError(t, err)
	require.Len(t, rejected, 1)
	assert.Equal(t, domain.RejectionIntervalNotAllowed, rejected[0].RejectionReason)
	assert.Equal(t, begin, rejected[0].BeginDatetime)
}
