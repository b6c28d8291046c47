package allocate_application_round

import "github.com/m04kA/varaamo-core/internal/domain"

// Request модель запроса на распределение раунда
type Request struct {
	ApplicationRoundID int64
	// Только посчитать результат, не сохраняя слоты
	DryRun bool
}

// Response модель ответа распределения
type Response struct {
	Slots           []*domain.AllocatedTimeSlot
	Unallocated     map[int64]int
	SkippedSections []int64
}
