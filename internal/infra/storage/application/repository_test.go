package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/varaamo-core/internal/domain"
	"github.com/m04kA/varaamo-core/pkg/types"
)

var slotRowColumns = []string{
	"id", "reservation_unit_option_id", "day_of_week", "begin_time", "end_time",
	"reservation_series_id", "created_at", "reservation_unit_id", "application_section_id",
}

func newMockRepository(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewRepository(db), mock
}

func TestRepository_ListSectionsByRound(t *testing.T) {
	repo, mock := newMockRepository(t)
	begin := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 5, 31, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery("FROM application_sections s JOIN applications a ON a.id = s.application_id WHERE a.application_round_id = \\$1 ORDER BY s.id ASC").
		WithArgs(int64(4)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "application_id", "application_round_id", "status", "name", "num_persons",
			"reservations_begin_date", "reservations_end_date", "min", "max", "per_week",
		}).
			AddRow(1, 10, 4, "RECEIVED", "Choir", 12, begin, end, 60, 120, 2).
			AddRow(2, 11, 4, "DRAFT", "Chess", 4, begin, end, 60, 60, 1))

	mock.ExpectQuery("FROM reservation_unit_options WHERE application_section_id IN \\(\\$1,\\$2\\)").
		WithArgs(int64(1), int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "application_section_id", "reservation_unit_id", "preferred_order", "is_locked", "is_rejected"}).
			AddRow(100, 1, 7, 0, false, false).
			AddRow(101, 1, 8, 1, true, false).
			AddRow(102, 2, 7, 0, false, false))

	mock.ExpectQuery("FROM suitable_time_ranges WHERE application_section_id IN \\(\\$1,\\$2\\)").
		WithArgs(int64(1), int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "application_section_id", "day_of_week", "begin_time", "end_time", "priority"}).
			AddRow(200, 1, 0, "10:00:00", "14:00:00", "PRIMARY").
			AddRow(201, 2, 3, "18:00:00", "20:00:00", "SECONDARY"))

	sections, err := repo.ListSectionsByRound(context.Background(), 4)

	require.NoError(t, err)
	require.Len(t, sections, 2)

	choir := sections[0]
	assert.Equal(t, domain.ApplicationStatusReceived, choir.ApplicationStatus)
	assert.Equal(t, time.Hour, choir.ReservationMinDuration)
	assert.Equal(t, 2*time.Hour, choir.ReservationMaxDuration)
	require.Len(t, choir.Options, 2)
	assert.True(t, choir.Options[1].Locked)
	require.Len(t, choir.SuitableTimeRanges, 1)
	assert.Equal(t, types.MustTimeString("10:00"), choir.SuitableTimeRanges[0].BeginTime)
	assert.Equal(t, domain.PriorityPrimary, choir.SuitableTimeRanges[0].Priority)

	chess := sections[1]
	require.Len(t, chess.Options, 1)
	assert.Equal(t, domain.Weekday(3), chess.SuitableTimeRanges[0].DayOfWeek)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_ListSectionsByRound_Empty(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery("FROM application_sections s").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	sections, err := repo.ListSectionsByRound(context.Background(), 4)
	require.NoError(t, err)
	assert.Empty(t, sections)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetSectionByID_NotFound(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery("FROM application_sections s .+ WHERE s.id = \\$1").
		WithArgs(int64(9)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetSectionByID(context.Background(), 9)
	assert.ErrorIs(t, err, ErrSectionNotFound)
}

func TestRepository_GetAllocatedSlot(t *testing.T) {
	now := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

	t.Run("found", func(t *testing.T) {
		repo, mock := newMockRepository(t)
		mock.ExpectQuery("FROM allocated_time_slots ats JOIN reservation_unit_options ruo ON ruo.id = ats.reservation_unit_option_id WHERE ats.id = \\$1").
			WithArgs(int64(5)).
			WillReturnRows(sqlmock.NewRows(slotRowColumns).
				AddRow(5, 100, 2, "10:00:00", "12:00:00", 33, now, 7, 1))

		slot, err := repo.GetAllocatedSlot(context.Background(), 5)

		require.NoError(t, err)
		assert.Equal(t, domain.Weekday(2), slot.DayOfWeek)
		assert.Equal(t, types.MustTimeString("12:00"), slot.EndTime)
		require.NotNil(t, slot.ReservationSeriesID)
		assert.Equal(t, int64(33), *slot.ReservationSeriesID)
		assert.Equal(t, int64(7), slot.ReservationUnitID)
	})

	t.Run("not materialized", func(t *testing.T) {
		repo, mock := newMockRepository(t)
		mock.ExpectQuery("FROM allocated_time_slots").
			WillReturnRows(sqlmock.NewRows(slotRowColumns).
				AddRow(5, 100, 2, "10:00:00", "12:00:00", nil, now, 7, 1))

		slot, err := repo.GetAllocatedSlot(context.Background(), 5)

		require.NoError(t, err)
		assert.Nil(t, slot.ReservationSeriesID)
	})

	t.Run("not found", func(t *testing.T) {
		repo, mock := newMockRepository(t)
		mock.ExpectQuery("FROM allocated_time_slots").
			WillReturnRows(sqlmock.NewRows(slotRowColumns))

		_, err := repo.GetAllocatedSlot(context.Background(), 5)
		assert.ErrorIs(t, err, ErrAllocatedSlotNotFound)
	})
}

func TestRepository_CreateAllocatedSlots(t *testing.T) {
	repo, mock := newMockRepository(t)
	now := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	slots := []*domain.AllocatedTimeSlot{
		{ReservationUnitOptionID: 100, DayOfWeek: 0, BeginTime: types.MustTimeString("10:00"), EndTime: types.MustTimeString("12:00")},
		{ReservationUnitOptionID: 100, DayOfWeek: 2, BeginTime: types.MustTimeString("10:00"), EndTime: types.MustTimeString("12:00")},
	}

	mock.ExpectQuery("INSERT INTO allocated_time_slots \\(reservation_unit_option_id,day_of_week,begin_time,end_time\\) VALUES \\(\\$1,\\$2,\\$3,\\$4\\),\\(\\$5,\\$6,\\$7,\\$8\\) RETURNING id, created_at").
		WithArgs(int64(100), 0, "10:00:00", "12:00:00", int64(100), 2, "10:00:00", "12:00:00").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(1, now).AddRow(2, now))

	require.NoError(t, repo.CreateAllocatedSlots(context.Background(), slots))
	assert.Equal(t, int64(1), slots[0].ID)
	assert.Equal(t, int64(2), slots[1].ID)
	assert.Equal(t, now, slots[1].CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_SetAllocatedSlotSeries(t *testing.T) {
	t.Run("linked", func(t *testing.T) {
		repo, mock := newMockRepository(t)
		mock.ExpectExec("UPDATE allocated_time_slots SET reservation_series_id = \\$1 WHERE id = \\$2 AND reservation_series_id IS NULL").
			WithArgs(int64(33), int64(5)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.SetAllocatedSlotSeries(context.Background(), 5, 33))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("already materialized", func(t *testing.T) {
		repo, mock := newMockRepository(t)
		mock.ExpectExec("UPDATE allocated_time_slots").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.SetAllocatedSlotSeries(context.Background(), 5, 33)
		assert.ErrorIs(t, err, ErrSlotAlreadyMaterialized)
	})

	t.Run("exec failure", func(t *testing.T) {
		repo, mock := newMockRepository(t)
		mock.ExpectExec("UPDATE allocated_time_slots").
			WillReturnError(errors.New("connection reset"))

		err := repo.SetAllocatedSlotSeries(context.Background(), 5, 33)
		assert.ErrorIs(t, err, ErrExecQuery)
	})
}
