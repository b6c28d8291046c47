package create_series_from_allocation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/varaamo-core/internal/domain"
	applicationRepo "github.com/m04kA/varaamo-core/internal/infra/storage/application"
	"github.com/m04kA/varaamo-core/internal/usecase/create_reservation_series"
	"github.com/m04kA/varaamo-core/pkg/logger"
	"github.com/m04kA/varaamo-core/pkg/ptr"
)

type fakeApplicationRepo struct {
	slots    map[int64]*domain.AllocatedTimeSlot
	sections map[int64]*domain.ApplicationSection
}

func (f *fakeApplicationRepo) GetAllocatedSlot(_ context.Context, id int64) (*domain.AllocatedTimeSlot, error) {
	slot, ok := f.slots[id]
	if !ok {
		return nil, applicationRepo.ErrAllocatedSlotNotFound
	}
	return slot, nil
}

func (f *fakeApplicationRepo) GetSectionByID(_ context.Context, id int64) (*domain.ApplicationSection, error) {
	section, ok := f.sections[id]
	if !ok {
		return nil, applicationRepo.ErrSectionNotFound
	}
	return section, nil
}

type fakeSeriesCreator struct {
	requests []*create_reservation_series.Request
	err      error
}

func (f *fakeSeriesCreator) Execute(_ context.Context, req *create_reservation_series.Request) (*create_reservation_series.Response, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	return &create_reservation_series.Response{
		Series: &domain.ReservationSeries{ID: 900, AllocatedTimeSlotID: req.AllocatedTimeSlotID},
		State:  create_reservation_series.StatePersisted,
	}, nil
}

func newRepo() *fakeApplicationRepo {
	return &fakeApplicationRepo{
		slots: map[int64]*domain.AllocatedTimeSlot{
			7: {
				ID:                   7,
				DayOfWeek:            domain.Tuesday,
				BeginTime:            "17:00",
				EndTime:              "19:00",
				ReservationUnitID:    3,
				ApplicationSectionID: 11,
			},
		},
		sections: map[int64]*domain.ApplicationSection{
			11: {
				ID:                    11,
				Name:                  "Junior football",
				NumPersons:            20,
				ReservationsBeginDate: time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC),
				ReservationsEndDate:   time.Date(2024, 12, 20, 0, 0, 0, 0, time.UTC),
			},
		},
	}
}

func TestExecute_BuildsSeasonalSeries(t *testing.T) {
	creator := &fakeSeriesCreator{}
	uc := NewUseCase(newRepo(), creator, logger.Nop())

	resp, err := uc.Execute(context.Background(), &Request{AllocatedTimeSlotID: 7})

	require.NoError(t, err)
	assert.Equal(t, int64(900), resp.Series.ID)

	require.Len(t, creator.requests, 1)
	req := creator.requests[0]
	assert.Equal(t, int64(3), req.ReservationUnitID)
	assert.Equal(t, []domain.Weekday{domain.Tuesday}, req.Weekdays)
	assert.Equal(t, 7, req.RecurrenceInDays)
	assert.Equal(t, time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC), req.BeginDate)
	assert.Equal(t, time.Date(2024, 12, 20, 0, 0, 0, 0, time.UTC), req.EndDate)
	assert.Equal(t, "17:00", req.BeginTime.String())
	assert.Equal(t, "19:00", req.EndTime.String())
	assert.Equal(t, create_reservation_series.PolicyPersistPartial, req.Policy)
	assert.Equal(t, domain.TypeSeasonal, req.Details.Type)
	assert.Equal(t, "Junior football", req.Details.ReserveeName)
	assert.Equal(t, 20, req.Details.NumPersons)
	assert.Equal(t, int64(7), *req.AllocatedTimeSlotID)
}

func TestExecute_ReserveeNameOverride(t *testing.T) {
	creator := &fakeSeriesCreator{}
	uc := NewUseCase(newRepo(), creator, logger.Nop())

	_, err := uc.Execute(context.Background(), &Request{AllocatedTimeSlotID: 7, ReserveeName: "FC Kallio"})

	require.NoError(t, err)
	assert.Equal(t, "FC Kallio", creator.requests[0].Details.ReserveeName)
}

func TestExecute_Errors(t *testing.T) {
	t.Run("invalid id", func(t *testing.T) {
		uc := NewUseCase(newRepo(), &fakeSeriesCreator{}, logger.Nop())
		_, err := uc.Execute(context.Background(), &Request{})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("slot not found", func(t *testing.T) {
		uc := NewUseCase(newRepo(), &fakeSeriesCreator{}, logger.Nop())
		_, err := uc.Execute(context.Background(), &Request{AllocatedTimeSlotID: 8})
		assert.ErrorIs(t, err, ErrAllocatedSlotNotFound)
	})

	t.Run("section not found", func(t *testing.T) {
		repo := newRepo()
		delete(repo.sections, 11)
		uc := NewUseCase(repo, &fakeSeriesCreator{}, logger.Nop())
		_, err := uc.Execute(context.Background(), &Request{AllocatedTimeSlotID: 7})
		assert.ErrorIs(t, err, ErrSectionNotFound)
	})

	t.Run("already materialized", func(t *testing.T) {
		repo := newRepo()
		repo.slots[7].ReservationSeriesID = ptr.Ptr(int64(55))
		creator := &fakeSeriesCreator{}
		uc := NewUseCase(repo, creator, logger.Nop())

		_, err := uc.Execute(context.Background(), &Request{AllocatedTimeSlotID: 7})

		assert.ErrorIs(t, err, ErrAlreadyMaterialized)
		assert.Empty(t, creator.requests)
	})

	t.Run("materialized concurrently", func(t *testing.T) {
		creator := &fakeSeriesCreator{err: create_reservation_series.ErrAllocatedSlotTaken}
		uc := NewUseCase(newRepo(), creator, logger.Nop())
		_, err := uc.Execute(context.Background(), &Request{AllocatedTimeSlotID: 7})
		assert.ErrorIs(t, err, ErrAlreadyMaterialized)
	})

	t.Run("series error passes through", func(t *testing.T) {
		creator := &fakeSeriesCreator{err: create_reservation_series.ErrIndexStale}
		uc := NewUseCase(newRepo(), creator, logger.Nop())
		_, err := uc.Execute(context.Background(), &Request{AllocatedTimeSlotID: 7})
		assert.ErrorIs(t, err, create_reservation_series.ErrIndexStale)
	})

	t.Run("repository failure", func(t *testing.T) {
		uc := NewUseCase(&failingRepo{}, &fakeSeriesCreator{}, logger.Nop())
		_, err := uc.Execute(context.Background(), &Request{AllocatedTimeSlotID: 7})
		assert.ErrorIs(t, err, ErrInternal)
	})
}

type failingRepo struct{}

func (failingRepo) GetAllocatedSlot(context.Context, int64) (*domain.AllocatedTimeSlot, error) {
	return nil, errors.New("connection reset")
}

func (failingRepo) GetSectionByID(context.Context, int64) (*domain.ApplicationSection, error) {
	return nil, errors.New("connection reset")
}
