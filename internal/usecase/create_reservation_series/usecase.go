package create_reservation_series

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/varaamo-core/internal/domain"
	applicationRepo "github.com/m04kA/varaamo-core/internal/infra/storage/application"
	unitRepo "github.com/m04kA/varaamo-core/internal/infra/storage/reservation_unit"
	"github.com/m04kA/varaamo-core/internal/integrations/accesscode"
	"github.com/m04kA/varaamo-core/internal/integrations/eventservice"
	"github.com/m04kA/varaamo-core/internal/service/occurrences"
)

// sideEffectTimeout ограничивает побочные эффекты после коммита
const sideEffectTimeout = 10 * time.Second

// UseCase use case для создания серии бронирований
type UseCase struct {
	unitRepo        ReservationUnitRepository
	seriesRepo      SeriesRepository
	reservationRepo ReservationRepository
	slotRepo        AllocatedSlotRepository
	generator       Generator
	affectingIndex  AffectingIndex
	accessCodes     AccessCodeClient
	events          EventClient
	txManager       TransactionManager
	metrics         Metrics
	timeProvider    TimeProvider
	location        *time.Location
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	unitRepo ReservationUnitRepository,
	seriesRepo SeriesRepository,
	reservationRepo ReservationRepository,
	slotRepo AllocatedSlotRepository,
	generator Generator,
	affectingIndex AffectingIndex,
	accessCodes AccessCodeClient,
	events EventClient,
	txManager TransactionManager,
	metrics Metrics,
	location *time.Location,
	logger Logger,
) *UseCase {
	return &UseCase{
		unitRepo:        unitRepo,
		seriesRepo:      seriesRepo,
		reservationRepo: reservationRepo,
		slotRepo:        slotRepo,
		generator:       generator,
		affectingIndex:  affectingIndex,
		accessCodes:     accessCodes,
		events:          events,
		txManager:       txManager,
		metrics:         metrics,
		timeProvider:    &RealTimeProvider{},
		location:        location,
		logger:          logger,
	}
}

// WithTimeProvider подменяет источник времени
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет use case создания серии.
// VALIDATING -> GENERATING -> (ALL_ACCEPTED | PARTIALLY_REJECTED | ALL_REJECTED) -> PERSISTED
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateReservationSeries: unit=%d, dates=%s..%s, time=%s-%s, weekdays=%v, recurrence=%d, policy=%s",
		req.ReservationUnitID, req.BeginDate.Format(domain.DateFormat), req.EndDate.Format(domain.DateFormat),
		req.BeginTime, req.EndTime, req.Weekdays, req.RecurrenceInDays, req.Policy)

	// 1. VALIDATING
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateReservationSeries: validation failed: %v", err)
		return nil, err
	}

	params := uc.buildParams(req)
	if err := validateRecurrence(params); err != nil {
		uc.logger.Warn("CreateReservationSeries: recurrence validation failed: %v", err)
		return nil, err
	}

	unit, err := uc.unitRepo.GetByID(ctx, req.ReservationUnitID)
	if err != nil {
		if errors.Is(err, unitRepo.ErrReservationUnitNotFound) {
			uc.logger.Warn("CreateReservationSeries: reservation unit id=%d not found", req.ReservationUnitID)
			return nil, ErrReservationUnitNotFound
		}
		uc.logger.Error("CreateReservationSeries: failed to get reservation unit id=%d: %v", req.ReservationUnitID, err)
		return nil, fmt.Errorf("%w: failed to get reservation unit: %v", ErrInternal, err)
	}

	if err := validateStartInterval(unit, req); err != nil {
		uc.logger.Warn("CreateReservationSeries: start interval validation failed: %v", err)
		return nil, err
	}

	// 2. GENERATING
	result, err := uc.generate(ctx, unit, params, req.RefreshStaleIndex)
	if err != nil {
		return nil, err
	}

	if result.Total() == 0 {
		uc.logger.Warn("CreateReservationSeries: recurrence produced no occurrences for unit=%d", unit.ID)
		return nil, newValidationError(CodeNoOccurrences, "recurrence produces no occurrences", nil)
	}

	outcome := outcomeOf(result)
	uc.logger.Info("CreateReservationSeries: unit=%d, outcome=%s", unit.ID, outcome)

	if req.Policy == PolicyFailFast && result.HasRejections() {
		uc.metrics.ObserveSeriesCreated(string(outcome))
		uc.observeRejections(result)
		verr := rejectionError(result)
		uc.logger.Warn("CreateReservationSeries: aborting batch for unit=%d: %v", unit.ID, verr)
		return nil, verr
	}

	// 3. PERSISTED
	response, err := uc.persist(ctx, unit, req, result)
	if err != nil {
		return nil, err
	}
	response.Outcome = outcome
	response.State = StatePersisted

	uc.metrics.ObserveSeriesCreated(string(outcome))
	uc.observeRejections(result)

	uc.logger.Info("CreateReservationSeries: successfully created series id=%d, reservations=%d, rejected=%d",
		response.Series.ID, len(response.Reservations), len(response.Rejected))

	// 4. Побочные эффекты после коммита, их ошибки не отменяют серию
	uc.afterCommit(ctx, unit, response)

	return response, nil
}

func (uc *UseCase) buildParams(req *Request) occurrences.Params {
	return occurrences.Params{
		BeginDate:          req.BeginDate,
		EndDate:            req.EndDate,
		BeginTime:          req.BeginTime,
		EndTime:            req.EndTime,
		RecurrenceInDays:   req.RecurrenceInDays,
		Weekdays:           req.Weekdays,
		SkipDates:          req.SkipDates,
		ClosedHours:        req.ClosedHours,
		BufferTimeBefore:   req.BufferTimeBefore,
		BufferTimeAfter:    req.BufferTimeAfter,
		CheckOpeningHours:  true,
		CheckBuffers:       true,
		CheckStartInterval: true,
		Location:           uc.location,
	}
}

// generate вызывает генератор, при устаревшем индексе пересобирает его один раз, если это разрешено
func (uc *UseCase) generate(ctx context.Context, unit *domain.ReservationUnit, params occurrences.Params, refreshStale bool) (*occurrences.Result, error) {
	result, err := uc.generator.Generate(ctx, unit, params)
	if errors.Is(err, occurrences.ErrIndexStale) && refreshStale {
		uc.logger.Info("CreateReservationSeries: affecting index is stale, refreshing before retry")
		if refreshErr := uc.affectingIndex.Refresh(ctx); refreshErr != nil {
			uc.logger.Error("CreateReservationSeries: failed to refresh affecting index: %v", refreshErr)
			return nil, fmt.Errorf("%w: failed to refresh affecting index: %v", ErrInternal, refreshErr)
		}
		result, err = uc.generator.Generate(ctx, unit, params)
	}

	if err != nil {
		if errors.Is(err, occurrences.ErrIndexStale) {
			uc.logger.Warn("CreateReservationSeries: affecting index is stale for unit=%d", unit.ID)
			uc.affectingIndex.RequestRefresh()
			return nil, ErrIndexStale
		}
		if verr := recurrenceError(err); verr != err {
			return nil, verr
		}
		uc.logger.Error("CreateReservationSeries: failed to generate occurrences for unit=%d: %v", unit.ID, err)
		return nil, fmt.Errorf("%w: failed to generate occurrences: %v", ErrInternal, err)
	}

	return result, nil
}

// persist создаёт серию, бронирования, связи и отклонённые вхождения в одной транзакции
func (uc *UseCase) persist(ctx context.Context, unit *domain.ReservationUnit, req *Request, result *occurrences.Result) (*Response, error) {
	response := &Response{}

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		series, err := uc.seriesRepo.Create(txCtx, &domain.ReservationSeries{
			Name:                req.Name,
			Description:         req.Description,
			BeginDate:           req.BeginDate,
			EndDate:             req.EndDate,
			BeginTime:           req.BeginTime,
			EndTime:             req.EndTime,
			Weekdays:            seriesWeekdays(req),
			RecurrenceInDays:    req.RecurrenceInDays,
			ReservationUnitID:   unit.ID,
			AllocatedTimeSlotID: req.AllocatedTimeSlotID,
		})
		if err != nil {
			uc.logger.Error("CreateReservationSeries: failed to create series: %v", err)
			return fmt.Errorf("%w: failed to create series: %v", ErrInternal, err)
		}

		reservations := buildReservations(unit, series, req, result.Accepted)
		reservations, err = uc.reservationRepo.CreateBulk(txCtx, reservations)
		if err != nil {
			uc.logger.Error("CreateReservationSeries: failed to create reservations for series id=%d: %v", series.ID, err)
			return fmt.Errorf("%w: failed to create reservations: %v", ErrInternal, err)
		}

		if err := uc.reservationRepo.LinkReservationUnits(txCtx, reservations); err != nil {
			uc.logger.Error("CreateReservationSeries: failed to link reservations for series id=%d: %v", series.ID, err)
			return fmt.Errorf("%w: failed to link reservation units: %v", ErrInternal, err)
		}

		rejected := buildRejected(series, result)
		if err := uc.seriesRepo.CreateRejectedOccurrences(txCtx, rejected); err != nil {
			uc.logger.Error("CreateReservationSeries: failed to store rejected occurrences for series id=%d: %v", series.ID, err)
			return fmt.Errorf("%w: failed to create rejected occurrences: %v", ErrInternal, err)
		}

		if req.AllocatedTimeSlotID != nil {
			if err := uc.slotRepo.SetAllocatedSlotSeries(txCtx, *req.AllocatedTimeSlotID, series.ID); err != nil {
				if errors.Is(err, applicationRepo.ErrSlotAlreadyMaterialized) {
					uc.logger.Warn("CreateReservationSeries: allocated slot id=%d already has a series", *req.AllocatedTimeSlotID)
					return ErrAllocatedSlotTaken
				}
				uc.logger.Error("CreateReservationSeries: failed to link allocated slot id=%d to series id=%d: %v",
					*req.AllocatedTimeSlotID, series.ID, err)
				return fmt.Errorf("%w: failed to link allocated time slot: %v", ErrInternal, err)
			}
		}

		response.Series = series
		response.Reservations = reservations
		response.Rejected = rejected
		return nil
	})

	if err != nil {
		return nil, err
	}

	return response, nil
}

func (uc *UseCase) afterCommit(ctx context.Context, unit *domain.ReservationUnit, response *Response) {
	uc.affectingIndex.RequestRefresh()

	// Запрос уже мог завершиться, побочные эффекты живут дольше него
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sideEffectTimeout)
	defer cancel()

	event := eventservice.Event{
		ReservationSeriesID: response.Series.ID,
		ReservationUnitID:   unit.ID,
		ReservationsCount:   len(response.Reservations),
		RejectedCount:       len(response.Rejected),
		OccurredAt:          uc.timeProvider.Now(),
	}

	if err := uc.events.StatisticsDirty(ctx, event); err != nil {
		uc.logger.Warn("CreateReservationSeries: failed to mark statistics dirty for series id=%d: %v", response.Series.ID, err)
	}
	if err := uc.events.SeriesCreated(ctx, event); err != nil {
		uc.logger.Warn("CreateReservationSeries: failed to publish series_created for series id=%d: %v", response.Series.ID, err)
	}

	if !unit.RequiresAccessCode() || len(response.Reservations) == 0 {
		return
	}

	request := &accesscode.Request{
		ReservationSeriesID: response.Series.ID,
		ReservationUnitID:   unit.ID,
		ReservationIDs:      make([]string, len(response.Reservations)),
		Begin:               response.Reservations[0].Begin,
		End:                 response.Reservations[len(response.Reservations)-1].End,
	}
	for i, r := range response.Reservations {
		request.ReservationIDs[i] = r.ExtUUID.String()
	}

	if _, err := uc.accessCodes.RequestAccessCodeWithGracefulDegradation(ctx, uuid.New(), request); err != nil {
		uc.logger.Error("CreateReservationSeries: access code not obtained for series id=%d, will be retried externally: %v",
			response.Series.ID, err)
	}
}

func (uc *UseCase) observeRejections(result *occurrences.Result) {
	if n := len(result.Overlapping); n > 0 {
		uc.metrics.ObserveRejectedOccurrences(string(domain.RejectionOverlapping), n)
	}
	if n := len(result.NotReservable); n > 0 {
		uc.metrics.ObserveRejectedOccurrences(string(domain.RejectionReservationUnitClosed), n)
	}
	if n := len(result.InvalidStartInterval); n > 0 {
		uc.metrics.ObserveRejectedOccurrences(string(domain.RejectionIntervalNotAllowed), n)
	}
}

func buildReservations(unit *domain.ReservationUnit, series *domain.ReservationSeries, req *Request, accepted []domain.TimeSpan) []*domain.Reservation {
	state := req.Details.State
	if state == "" {
		state = domain.StateConfirmed
	}
	resType := req.Details.Type
	if resType == "" {
		resType = domain.TypeStaff
	}

	name := req.Details.Name
	if name == "" {
		name = req.Name
	}
	description := req.Details.Description
	if description == "" {
		description = req.Description
	}

	reservations := make([]*domain.Reservation, len(accepted))
	for i, span := range accepted {
		reservations[i] = &domain.Reservation{
			ExtUUID:             uuid.New(),
			Begin:               span.Start,
			End:                 span.End,
			BufferTimeBefore:    span.BufferBefore,
			BufferTimeAfter:     span.BufferAfter,
			State:               state,
			Type:                resType,
			ReservationUnitID:   unit.ID,
			ReservationSeriesID: &series.ID,
			Name:                name,
			Description:         description,
			ReserveeName:        req.Details.ReserveeName,
			NumPersons:          req.Details.NumPersons,
		}
	}
	return reservations
}

func buildRejected(series *domain.ReservationSeries, result *occurrences.Result) []*domain.RejectedOccurrence {
	rejections := result.Rejections()
	rejected := make([]*domain.RejectedOccurrence, len(rejections))
	for i, r := range rejections {
		rejected[i] = &domain.RejectedOccurrence{
			BeginDatetime:       r.Span.Start,
			EndDatetime:         r.Span.End,
			RejectionReason:     r.Reason,
			ReservationSeriesID: series.ID,
		}
	}
	return rejected
}

func seriesWeekdays(req *Request) []domain.Weekday {
	weekdays := domain.NormalizeWeekdays(req.Weekdays)
	if len(weekdays) == 0 {
		weekdays = []domain.Weekday{domain.WeekdayOf(req.BeginDate)}
	}
	return weekdays
}
