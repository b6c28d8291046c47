package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWeekdayOf(t *testing.T) {
	// 2024-01-01 понедельник
	monday := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 7; i++ {
		assert.Equal(t, Weekday(i), WeekdayOf(monday.AddDate(0, 0, i)))
	}
}

func TestWeekday_TimeWeekday(t *testing.T) {
	assert.Equal(t, time.Monday, Monday.TimeWeekday())
	assert.Equal(t, time.Sunday, Sunday.TimeWeekday())
	assert.Equal(t, "Wednesday", Wednesday.String())
	assert.False(t, Weekday(7).IsValid())
	assert.Equal(t, "Weekday(7)", Weekday(7).String())
}

func TestNormalizeWeekdays(t *testing.T) {
	assert.Equal(t, []Weekday{Monday, Wednesday, Friday}, NormalizeWeekdays([]Weekday{Friday, Monday, Wednesday, Monday}))
	assert.Empty(t, NormalizeWeekdays(nil))
}
