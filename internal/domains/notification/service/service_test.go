package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/JokoCodes/service-scheduler/config"
	"github.com/JokoCodes/service-scheduler/infras/kafka"
	kafkaMocks "github.com/JokoCodes/service-scheduler/infras/kafka/mocks"
	"github.com/JokoCodes/service-scheduler/infras/otel/mocks"
	notifMocks "github.com/JokoCodes/service-scheduler/internal/domains/notification/mocks"
	"github.com/JokoCodes/service-scheduler/internal/domains/notification/model"
	"github.com/JokoCodes/service-scheduler/internal/domains/notification/model/dto"
	"github.com/JokoCodes/service-scheduler/internal/domains/notification/service"
)

func newRelay(t *testing.T) (service.Notification, *notifMocks.MockNotification, *kafkaMocks.MockClient) {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	repo := notifMocks.NewMockNotification(ctrl)
	producer := kafkaMocks.NewMockClient(ctrl)

	cfg := &config.Config{}
	cfg.Notification.Topic = "scheduler.notifications"
	cfg.Notification.RelayBatchSize = 50

	return service.New(repo, producer, cfg, mocks.NewOtel()), repo, producer
}

func outboxRow(id string) model.Outbox {
	return model.NewAssignmentEvent(
		model.EventAssignmentCreated,
		model.AudienceEmployee,
		id+"-assignment", "booking-1", "emp-1", "assigned",
	)
}

func TestNotificationService_Relay(t *testing.T) {
	t.Run("publishes batch then marks sent", func(t *testing.T) {
		svc, repo, producer := newRelay(t)

		first := outboxRow("a")
		second := outboxRow("b")

		repo.EXPECT().
			GetUnsent(gomock.Any(), 50).
			Return([]model.Outbox{first, second}, nil)

		producer.EXPECT().
			SendMessages(gomock.Any(), "scheduler.notifications", gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, messages ...kafka.Message) error {
				assert.Len(t, messages, 2)
				assert.Equal(t, "booking-1", messages[0].Key)

				payload, ok := messages[0].Value.(dto.OutboxMessage)
				if assert.True(t, ok) {
					assert.Equal(t, first.ID, payload.ID)
					assert.Equal(t, model.EventAssignmentCreated, payload.EventType)
					assert.JSONEq(t, string(first.Payload), string(payload.Payload))
				}

				return nil
			})

		repo.EXPECT().
			MarkSent(gomock.Any(), []string{first.ID, second.ID}).
			Return(nil)

		sent, err := svc.Relay(context.Background())

		assert.NoError(t, err)
		assert.Equal(t, 2, sent)
	})

	t.Run("nothing pending", func(t *testing.T) {
		svc, repo, _ := newRelay(t)

		repo.EXPECT().
			GetUnsent(gomock.Any(), 50).
			Return(nil, nil)

		sent, err := svc.Relay(context.Background())

		assert.NoError(t, err)
		assert.Zero(t, sent)
	})

	t.Run("publish failure leaves rows pending", func(t *testing.T) {
		svc, repo, producer := newRelay(t)

		repo.EXPECT().
			GetUnsent(gomock.Any(), 50).
			Return([]model.Outbox{outboxRow("a")}, nil)

		producer.EXPECT().
			SendMessages(gomock.Any(), "scheduler.notifications", gomock.Any()).
			Return(errors.New("broker unreachable"))

		// MarkSent must not be called.
		sent, err := svc.Relay(context.Background())

		assert.Error(t, err)
		assert.Zero(t, sent)
	})

	t.Run("load failure", func(t *testing.T) {
		svc, repo, _ := newRelay(t)

		repo.EXPECT().
			GetUnsent(gomock.Any(), 50).
			Return(nil, errors.New("db down"))

		_, err := svc.Relay(context.Background())

		assert.Error(t, err)
	})
}
