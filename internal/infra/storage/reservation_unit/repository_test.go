package reservation_unit

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/varaamo-core/internal/domain"
)

var unitColumns = []string{
	"id", "name", "opening_hours_resource_id", "buffer_time_before_minutes", "buffer_time_after_minutes",
	"reservation_start_interval_minutes", "min_reservation_duration_minutes", "max_reservation_duration_minutes",
	"reservations_min_days_before", "reservations_max_days_before", "access_type", "resource_ids",
}

func newMockRepository(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewRepository(db), mock
}

func TestRepository_GetByID(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery("SELECT u.id, u.name, .+ FROM reservation_units u WHERE u.id = \\$1").
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows(unitColumns).
			AddRow(3, "Hall A", "res-3", 15, 30, 30, 60, 180, 1, 90, "ACCESS_CODE", "{10,11}"))

	unit, err := repo.GetByID(context.Background(), 3)

	require.NoError(t, err)
	assert.Equal(t, int64(3), unit.ID)
	assert.Equal(t, "res-3", unit.OpeningHoursResourceID)
	assert.Equal(t, 15*time.Minute, unit.BufferTimeBefore)
	assert.Equal(t, 30*time.Minute, unit.BufferTimeAfter)
	assert.Equal(t, time.Hour, unit.MinReservationDuration)
	assert.Equal(t, 3*time.Hour, unit.MaxReservationDuration)
	assert.Equal(t, 90, unit.ReservationsMaxDaysBefore)
	assert.Equal(t, domain.AccessTypeAccessCode, unit.AccessType)
	assert.Equal(t, []int64{10, 11}, unit.ResourceIDs)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetByID_NotFound(t *testing.T) {
	repo, mock := newMockRepository(t)
	mock.ExpectQuery("FROM reservation_units u").WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), 404)
	assert.ErrorIs(t, err, ErrReservationUnitNotFound)
}

func TestRepository_GetByID_InvalidStartInterval(t *testing.T) {
	repo, mock := newMockRepository(t)
	mock.ExpectQuery("FROM reservation_units u").
		WillReturnRows(sqlmock.NewRows(unitColumns).
			AddRow(3, "Hall A", "", 0, 0, 45, 0, 0, 0, 0, "UNRESTRICTED", "{}"))

	_, err := repo.GetByID(context.Background(), 3)
	assert.ErrorIs(t, err, ErrInvalidStartInterval)
}

func TestRepository_GetByID_ScanError(t *testing.T) {
	repo, mock := newMockRepository(t)
	mock.ExpectQuery("FROM reservation_units u").WillReturnError(errors.New("connection reset"))

	_, err := repo.GetByID(context.Background(), 1)
	assert.ErrorIs(t, err, ErrScanRow)
}

type countingGetter struct {
	calls int
	unit  *domain.ReservationUnit
	err   error
}

func (g *countingGetter) GetByID(context.Context, int64) (*domain.ReservationUnit, error) {
	g.calls++
	if g.err != nil {
		return nil, g.err
	}
	u := *g.unit
	return &u, nil
}

func TestCachedRepository(t *testing.T) {
	source := &countingGetter{unit: &domain.ReservationUnit{ID: 1, ResourceIDs: []int64{5}}}
	cached, err := NewCachedRepository(source, 8, time.Minute)
	require.NoError(t, err)

	first, err := cached.GetByID(context.Background(), 1)
	require.NoError(t, err)
	second, err := cached.GetByID(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, 1, source.calls)
	assert.Equal(t, first, second)

	// Изменение возвращённой копии не портит кэш
	second.ResourceIDs[0] = 99
	third, err := cached.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, []int64{5}, third.ResourceIDs)
	assert.Equal(t, 1, source.calls)
}

func TestCachedRepository_ErrorsAreNotCached(t *testing.T) {
	source := &countingGetter{err: ErrReservationUnitNotFound}
	cached, err := NewCachedRepository(source, 8, time.Minute)
	require.NoError(t, err)

	_, err = cached.GetByID(context.Background(), 1)
	assert.ErrorIs(t, err, ErrReservationUnitNotFound)
	_, err = cached.GetByID(context.Background(), 1)
	assert.ErrorIs(t, err, ErrReservationUnitNotFound)
	assert.Equal(t, 2, source.calls)
}

func TestNewCachedRepository_InvalidSize(t *testing.T) {
	_, err := NewCachedRepository(&countingGetter{}, 0, time.Minute)
	assert.ErrorIs(t, err, ErrInvalidCacheConfig)
}
