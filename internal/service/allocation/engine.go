package allocation

import (
	"sort"
	"time"

	"github.com/m04kA/varaamo-core/internal/domain"
	"github.com/m04kA/varaamo-core/pkg/types"
)

// weeklyInterval интервал недели в минутах от полуночи дня
type weeklyInterval struct {
	day   domain.Weekday
	begin int
	end   int
}

func (w weeklyInterval) overlaps(other weeklyInterval) bool {
	return w.day == other.day && w.begin < other.end && other.begin < w.end
}

// Engine детерминированное распределение квот секций по единицам и недельному времени
type Engine struct{}

// NewEngine создает новый экземпляр движка распределения
func NewEngine() *Engine {
	return &Engine{}
}

// Allocate распределяет недельные квоты секций.
//
// Секции обрабатываются по возрастанию id, опции по preferredOrder, интервалы
// PRIMARY раньше SECONDARY, затем по дню и времени. Секция получает не больше
// одного слота в день недели. Повторный запуск на тех же данных даёт тот же результат.
func (e *Engine) Allocate(in Input) Output {
	schedule := make(map[int64][]weeklyInterval)
	allocatedCount := make(map[int64]int)
	allocatedDays := make(map[int64]map[domain.Weekday]bool)

	for _, slot := range in.Existing {
		interval := weeklyInterval{day: slot.DayOfWeek, begin: slot.BeginTime.Minutes(), end: slot.EndTime.Minutes()}
		schedule[slot.ReservationUnitID] = append(schedule[slot.ReservationUnitID], interval)
		allocatedCount[slot.ApplicationSectionID]++
		markDay(allocatedDays, slot.ApplicationSectionID, slot.DayOfWeek)
	}

	sections := append([]*domain.ApplicationSection(nil), in.Sections...)
	sort.SliceStable(sections, func(i, j int) bool { return sections[i].ID < sections[j].ID })

	out := Output{
		Slots:       make([]*domain.AllocatedTimeSlot, 0),
		Unallocated: make(map[int64]int),
	}

	for _, section := range sections {
		if !section.ApplicationStatus.IsAllocatable() {
			continue
		}

		remaining := section.AppliedReservationsPerWeek - allocatedCount[section.ID]
		if remaining <= 0 {
			continue
		}

		durations := candidateDurations(section)
		if len(durations) == 0 {
			out.Unallocated[section.ID] = remaining
			continue
		}

		ranges := sortedRanges(section.SuitableTimeRanges)

		for _, option := range sortedOptions(section.Options) {
			if remaining == 0 {
				break
			}
			for _, tr := range ranges {
				if remaining == 0 {
					break
				}
				if allocatedDays[section.ID][tr.DayOfWeek] {
					continue
				}

				step := int(in.StartIntervals[option.ReservationUnitID] / time.Minute)
				interval, ok := findInterval(schedule[option.ReservationUnitID], tr, durations, step)
				if !ok {
					continue
				}

				slot := &domain.AllocatedTimeSlot{
					ReservationUnitOptionID: option.ID,
					DayOfWeek:               interval.day,
					BeginTime:               mustFromMinutes(interval.begin),
					EndTime:                 mustFromMinutes(interval.end),
					ReservationUnitID:       option.ReservationUnitID,
					ApplicationSectionID:    section.ID,
				}
				out.Slots = append(out.Slots, slot)

				schedule[option.ReservationUnitID] = append(schedule[option.ReservationUnitID], interval)
				markDay(allocatedDays, section.ID, tr.DayOfWeek)
				remaining--
			}
		}

		out.Unallocated[section.ID] = remaining
	}

	return out
}

// findInterval ищет самое раннее место в интервале tr, пробуя длительности по убыванию.
// Кандидаты начала: начало интервала и концы пересекающихся слотов единицы,
// сдвинутые вперед на сетку step минут от полуночи (step 0 без сетки).
func findInterval(busy []weeklyInterval, tr domain.SuitableTimeRange, durations []int, step int) (weeklyInterval, bool) {
	rangeBegin, rangeEnd := tr.BeginTime.Minutes(), tr.EndTime.Minutes()

	starts := []int{snapToGrid(rangeBegin, step)}
	for _, b := range busy {
		if b.day == tr.DayOfWeek && b.end > rangeBegin && b.end < rangeEnd {
			starts = append(starts, snapToGrid(b.end, step))
		}
	}
	sort.Ints(starts)

	for _, duration := range durations {
		for _, start := range starts {
			candidate := weeklyInterval{day: tr.DayOfWeek, begin: start, end: start + duration}
			if candidate.end > rangeEnd {
				break
			}
			if !overlapsAny(candidate, busy) {
				return candidate, true
			}
		}
	}

	return weeklyInterval{}, false
}

func snapToGrid(minutes, step int) int {
	if step <= 0 || minutes%step == 0 {
		return minutes
	}
	return minutes + step - minutes%step
}

// candidateDurations длительности в минутах: сначала максимальная, затем минимальная
func candidateDurations(section *domain.ApplicationSection) []int {
	maxMinutes := int(section.ReservationMaxDuration / time.Minute)
	minMinutes := int(section.ReservationMinDuration / time.Minute)

	durations := make([]int, 0, 2)
	if maxMinutes > 0 {
		durations = append(durations, maxMinutes)
	}
	if minMinutes > 0 && minMinutes != maxMinutes {
		durations = append(durations, minMinutes)
	}
	return durations
}

func sortedOptions(options []domain.ReservationUnitOption) []domain.ReservationUnitOption {
	result := make([]domain.ReservationUnitOption, 0, len(options))
	for _, o := range options {
		if o.IsAllocatable() {
			result = append(result, o)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		if result[i].PreferredOrder != result[j].PreferredOrder {
			return result[i].PreferredOrder < result[j].PreferredOrder
		}
		return result[i].ID < result[j].ID
	})
	return result
}

func sortedRanges(ranges []domain.SuitableTimeRange) []domain.SuitableTimeRange {
	result := append([]domain.SuitableTimeRange(nil), ranges...)
	sort.SliceStable(result, func(i, j int) bool {
		a, b := result[i], result[j]
		if a.Priority.Rank() != b.Priority.Rank() {
			return a.Priority.Rank() < b.Priority.Rank()
		}
		if a.DayOfWeek != b.DayOfWeek {
			return a.DayOfWeek < b.DayOfWeek
		}
		if a.BeginTime.Minutes() != b.BeginTime.Minutes() {
			return a.BeginTime.Minutes() < b.BeginTime.Minutes()
		}
		return a.ID < b.ID
	})
	return result
}

func overlapsAny(candidate weeklyInterval, busy []weeklyInterval) bool {
	for _, b := range busy {
		if candidate.overlaps(b) {
			return true
		}
	}
	return false
}

func markDay(days map[int64]map[domain.Weekday]bool, sectionID int64, day domain.Weekday) {
	if days[sectionID] == nil {
		days[sectionID] = make(map[domain.Weekday]bool)
	}
	days[sectionID][day] = true
}

// mustFromMinutes интервалы всегда лежат внутри суток
func mustFromMinutes(minutes int) types.TimeString {
	ts, err := types.FromMinutes(minutes)
	if err != nil {
		panic(err)
	}
	return ts
}

func sortInt64s(ids []int64) {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
}
