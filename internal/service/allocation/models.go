package allocation

import (
	"time"

	"github.com/m04kA/varaamo-core/internal/domain"
)

// Input снимок данных раунда распределения
type Input struct {
	Sections []*domain.ApplicationSection
	// Уже выделенные слоты раунда с заполненными ReservationUnitID и ApplicationSectionID
	Existing []*domain.AllocatedTimeSlot

	// Интервал начала бронирования по id единицы; слоты начинаются только на этой сетке
	StartIntervals map[int64]time.Duration
}

// Output результат распределения
type Output struct {
	// Новые слоты в порядке выделения
	Slots []*domain.AllocatedTimeSlot
	// Сколько слотов в неделю секции не досталось (только для рассмотренных секций)
	Unallocated map[int64]int
}

// SkippedSections список секций, оставшихся без полного распределения, по возрастанию id
func (o *Output) SkippedSections() []int64 {
	ids := make([]int64, 0, len(o.Unallocated))
	for id, remaining := range o.Unallocated {
		if remaining > 0 {
			ids = append(ids, id)
		}
	}
	sortInt64s(ids)
	return ids
}
