package occurrences

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/m04kA/varaamo-core/internal/domain"
	"github.com/m04kA/varaamo-core/internal/service/affecting"
)

// Generator разворачивает повторение во вхождения и классифицирует каждое
type Generator struct {
	reservableIndex ReservableIndex
	affectingIndex  AffectingIndex
	logger          Logger
}

// NewGenerator создает новый экземпляр генератора вхождений
func NewGenerator(reservableIndex ReservableIndex, affectingIndex AffectingIndex, logger Logger) *Generator {
	return &Generator{
		reservableIndex: reservableIndex,
		affectingIndex:  affectingIndex,
		logger:          logger,
	}
}

// Generate разворачивает повторение и раскладывает вхождения по классам.
// Порядок проверок: пересечение, часы работы, закрытые часы, интервал начала.
// Некорректные параметры возвращают ошибку до генерации.
func (g *Generator) Generate(ctx context.Context, unit *domain.ReservationUnit, p Params) (*Result, error) {
	if err := Validate(p); err != nil {
		return nil, err
	}

	dates, err := expandDates(&p)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Accepted:             make([]domain.TimeSpan, 0, len(dates)),
		Overlapping:          make([]domain.TimeSpan, 0),
		NotReservable:        make([]domain.TimeSpan, 0),
		InvalidStartInterval: make([]domain.TimeSpan, 0),
	}
	if len(dates) == 0 {
		return result, nil
	}

	loc := p.location()
	before, after := time.Duration(0), time.Duration(0)
	if p.CheckBuffers {
		before, after = unit.ActualBuffers(p.BufferTimeBefore, p.BufferTimeAfter)
	}

	candidates := make([]domain.TimeSpan, len(dates))
	for i, d := range dates {
		candidates[i] = domain.TimeSpan{
			Start:        p.BeginTime.On(d, loc),
			End:          p.EndTime.On(d, loc),
			BufferBefore: before,
			BufferAfter:  after,
		}
	}

	windowStart := candidates[0].BufferedStart()
	windowEnd := candidates[len(candidates)-1].BufferedEnd()

	// Один запрос на всё окно серии вместо запроса на каждое вхождение
	affectingSpans, err := g.affectingIndex.SpansAffecting(ctx, []int64{unit.ID}, windowStart, windowEnd, p.IgnoreReservationIDs)
	if err != nil {
		if errors.Is(err, affecting.ErrIndexStale) {
			g.logger.Warn("Generate: affecting index is stale for unit=%d", unit.ID)
			return nil, ErrIndexStale
		}
		g.logger.Error("Generate: failed to get affecting spans for unit=%d: %v", unit.ID, err)
		return nil, fmt.Errorf("%w: Generate - affecting spans: %v", ErrInternal, err)
	}

	var reservableSpans []domain.TimeSpan
	if p.CheckOpeningHours && unit.OpeningHoursResourceID != "" {
		reservableSpans, err = g.reservableIndex.OverlappingWithPeriod(ctx, unit.OpeningHoursResourceID, windowStart, windowEnd)
		if err != nil {
			g.logger.Error("Generate: failed to get reservable spans for unit=%d: %v", unit.ID, err)
			return nil, fmt.Errorf("%w: Generate - reservable spans: %v", ErrInternal, err)
		}
	}

	for _, candidate := range candidates {
		switch {
		case overlapsAny(candidate, affectingSpans):
			result.Overlapping = append(result.Overlapping, candidate)
		case p.CheckOpeningHours && !insideAny(candidate, reservableSpans):
			result.NotReservable = append(result.NotReservable, candidate)
		case overlapsAny(candidate, p.ClosedHours):
			result.NotReservable = append(result.NotReservable, candidate)
		case p.CheckStartInterval && !unit.IsOnStartInterval(candidate.Start.In(loc)):
			result.InvalidStartInterval = append(result.InvalidStartInterval, candidate)
		default:
			result.Accepted = append(result.Accepted, candidate)
		}
	}

	g.logger.Info("Generate: unit=%d, total=%d, accepted=%d, overlapping=%d, not_reservable=%d, invalid_start_interval=%d",
		unit.ID, result.Total(), len(result.Accepted), len(result.Overlapping),
		len(result.NotReservable), len(result.InvalidStartInterval))

	return result, nil
}

func overlapsAny(candidate domain.TimeSpan, spans []domain.TimeSpan) bool {
	for _, s := range spans {
		if candidate.OverlapsWith(s) {
			return true
		}
	}
	return false
}

func insideAny(candidate domain.TimeSpan, spans []domain.TimeSpan) bool {
	for _, s := range spans {
		if candidate.FullyInsideOf(s) {
			return true
		}
	}
	return false
}

func sortRejections(rejections []Rejection) {
	sort.SliceStable(rejections, func(i, j int) bool {
		return rejections[i].Span.Start.Before(rejections[j].Span.Start)
	})
}
