package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/JokoCodes/service-scheduler/config"
	"github.com/JokoCodes/service-scheduler/infras/otel/mocks"
	bookingMocks "github.com/JokoCodes/service-scheduler/internal/domains/booking/mocks"
	"github.com/JokoCodes/service-scheduler/internal/domains/booking/model"
	"github.com/JokoCodes/service-scheduler/internal/domains/booking/model/dto"
	"github.com/JokoCodes/service-scheduler/internal/domains/booking/service"
	cacheMocks "github.com/JokoCodes/service-scheduler/shared/cache/mocks"
	"github.com/JokoCodes/service-scheduler/shared/constant"
	"github.com/JokoCodes/service-scheduler/shared/failure"
)

func newTestService(t *testing.T) (service.Booking, *bookingMocks.MockBooking, *cacheMocks.MockRedisCache) {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	mockRepo := bookingMocks.NewMockBooking(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockOtel := mocks.NewOtel()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	return service.New(mockRepo, cfg, mockCache, mockOtel), mockRepo, mockCache
}

func TestBookingService_Create(t *testing.T) {
	validReq := dto.CreateBookingRequest{
		CustomerName:  "Jordan Lee",
		Address:       "12 Main St",
		ServiceType:   "deep_clean",
		ScheduledDate: "2026-09-15",
		StartTime:     "09:00",
		EndTime:       "12:00",
		StaffRequired: 3,
	}

	t.Run("successful creation", func(t *testing.T) {
		svc, mockRepo, mockCache := newTestService(t)

		mockRepo.EXPECT().
			Insert(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, booking model.Booking) error {
				assert.Equal(t, 3, booking.StaffRequired)
				assert.Equal(t, 0, booking.StaffFulfilled)
				assert.Equal(t, model.StatusPending, booking.Status)

				return nil
			})

		mockCache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

		ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "admin-id")
		res, err := svc.Create(ctx, validReq)

		assert.NoError(t, err)
		assert.Equal(t, "2026-09-15", res.ScheduledDate)
	})

	t.Run("invalid date format", func(t *testing.T) {
		svc, _, _ := newTestService(t)

		badReq := validReq
		badReq.ScheduledDate = "15/09/2026"

		_, err := svc.Create(context.Background(), badReq)

		assert.Error(t, err)
		assert.True(t, failure.IsKind(err, failure.KindBadRequest))
	})

	t.Run("repository error", func(t *testing.T) {
		svc, mockRepo, _ := newTestService(t)

		mockRepo.EXPECT().
			Insert(gomock.Any(), gomock.Any()).
			Return(errors.New("database error"))

		_, err := svc.Create(context.Background(), validReq)

		assert.Error(t, err)
	})
}

func TestBookingService_Get(t *testing.T) {
	t.Run("cache miss then db hit", func(t *testing.T) {
		svc, mockRepo, mockCache := newTestService(t)

		mockCache.EXPECT().
			Get(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(errors.New("cache miss"))

		mockRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.Booking{ID: "booking-1", StaffRequired: 2, Status: model.StatusConfirmed}, nil)

		mockCache.EXPECT().
			Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil).
			AnyTimes()

		res, err := svc.Get(context.Background(), "booking-1")

		assert.NoError(t, err)
		assert.Equal(t, "booking-1", res.ID)
		assert.Equal(t, 2, res.StaffRequired)
	})

	t.Run("not found", func(t *testing.T) {
		svc, mockRepo, mockCache := newTestService(t)

		mockCache.EXPECT().
			Get(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(errors.New("cache miss"))

		mockRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.Booking{}, nil)

		_, err := svc.Get(context.Background(), "missing")

		assert.Error(t, err)
		assert.True(t, failure.IsKind(err, failure.KindNotFound))
	})
}

func TestBookingService_Update(t *testing.T) {
	t.Run("reschedules the booking", func(t *testing.T) {
		svc, mockRepo, mockCache := newTestService(t)

		mockRepo.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(true, nil)

		mockRepo.EXPECT().
			Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fields map[string]any, _ any) error {
				scheduledDate, ok := fields[model.FieldScheduledDate].(time.Time)
				assert.True(t, ok, "scheduled_date must be written as a parsed time")
				assert.Equal(t, "2026-10-01", scheduledDate.Format(constant.DateOnly))

				startTime, ok := fields[model.FieldStartTime].(time.Time)
				assert.True(t, ok, "start_time must be written as a parsed time")
				assert.Equal(t, "13:00", startTime.Format(constant.TimeOnly))

				endTime, ok := fields[model.FieldEndTime].(time.Time)
				assert.True(t, ok, "end_time must be written as a parsed time")
				assert.Equal(t, "17:00", endTime.Format(constant.TimeOnly))

				return nil
			})

		mockCache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
		mockCache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

		err := svc.Update(context.Background(), dto.UpdateBookingRequest{
			ScheduledDate: "2026-10-01",
			StartTime:     "13:00",
			EndTime:       "17:00",
		}, "booking-1")

		assert.NoError(t, err)
	})

	t.Run("invalid schedule format", func(t *testing.T) {
		svc, mockRepo, _ := newTestService(t)

		mockRepo.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(true, nil)

		err := svc.Update(context.Background(), dto.UpdateBookingRequest{
			ScheduledDate: "01/10/2026",
		}, "booking-1")

		assert.Error(t, err)
		assert.True(t, failure.IsKind(err, failure.KindBadRequest))
	})

	t.Run("empty request is rejected", func(t *testing.T) {
		svc, _, _ := newTestService(t)

		err := svc.Update(context.Background(), dto.UpdateBookingRequest{}, "booking-1")

		assert.Error(t, err)
		assert.True(t, failure.IsKind(err, failure.KindBadRequest))
	})
}

func TestBookingService_Cancel(t *testing.T) {
	t.Run("cancels pending booking", func(t *testing.T) {
		svc, mockRepo, mockCache := newTestService(t)

		mockRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.Booking{ID: "booking-1", Status: model.StatusPending}, nil)

		mockRepo.EXPECT().
			Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fields map[string]any, _ any) error {
				assert.Equal(t, model.StatusCancelled, fields[model.FieldStatus])

				return nil
			})

		mockCache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
		mockCache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

		err := svc.Cancel(context.Background(), "booking-1")

		assert.NoError(t, err)
	})

	t.Run("already cancelled is a no-op", func(t *testing.T) {
		svc, mockRepo, _ := newTestService(t)

		mockRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.Booking{ID: "booking-1", Status: model.StatusCancelled}, nil)

		err := svc.Cancel(context.Background(), "booking-1")

		assert.NoError(t, err)
	})
}
