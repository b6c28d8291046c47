package reservable

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepository_ListOverlapping(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	day := time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT id, resource_id, start_datetime, end_datetime FROM reservable_time_spans WHERE resource_id = \\$1 AND start_datetime < \\$2 AND end_datetime > \\$3 ORDER BY start_datetime ASC").
		WithArgs("hauki-1", day.Add(24*time.Hour), day).
		WillReturnRows(sqlmock.NewRows([]string{"id", "resource_id", "start_datetime", "end_datetime"}).
			AddRow(1, "hauki-1", day.Add(8*time.Hour), day.Add(20*time.Hour)))

	spans, err := NewRepository(db).ListOverlapping(context.Background(), "hauki-1", day, day.Add(24*time.Hour))

	require.NoError(t, err)
	require.Len(t, spans, 1)
	assert.Equal(t, "hauki-1", spans[0].ResourceID)
	assert.Equal(t, day.Add(20*time.Hour), spans[0].End)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_ListOverlapping_QueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("FROM reservable_time_spans").WillReturnError(errors.New("connection reset"))

	_, err = NewRepository(db).ListOverlapping(context.Background(), "hauki-1", time.Now(), time.Now().Add(time.Hour))
	assert.ErrorIs(t, err, ErrExecQuery)
}
