package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/JokoCodes/service-scheduler/config"
	"github.com/JokoCodes/service-scheduler/infras/kafka"
	"github.com/JokoCodes/service-scheduler/infras/otel"
	"github.com/JokoCodes/service-scheduler/internal/domains/notification/model/dto"
	"github.com/JokoCodes/service-scheduler/internal/domains/notification/repository"
	"github.com/JokoCodes/service-scheduler/shared/constant"
)

// Notification relays outbox rows to the broker. Rows are written inside the
// same transaction as the staffing mutation that produced them, so a crash on
// either side leaves the row unsent and the next poll picks it up again.
// Delivery is therefore at-least-once; consumers must tolerate duplicates.
type Notification interface {
	Relay(ctx context.Context) (sent int, err error)
	Run(ctx context.Context)
}

type serviceImpl struct {
	repo     repository.Notification
	producer kafka.Client
	cfg      *config.Config
	otel     otel.Otel
}

func New(repo repository.Notification, producer kafka.Client, cfg *config.Config, otel otel.Otel) Notification {
	return &serviceImpl{
		repo:     repo,
		producer: producer,
		cfg:      cfg,
		otel:     otel,
	}
}

// Relay drains one batch of unsent rows. Rows are only marked sent after the
// broker accepts the whole batch; a publish failure leaves them pending.
func (s *serviceImpl) Relay(ctx context.Context) (sent int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Relay")
	defer scope.End()
	defer scope.TraceIfError(err)

	rows, err := s.repo.GetUnsent(ctx, s.cfg.Notification.RelayBatchSize)
	if err != nil {
		log.Error().Err(err).Msg("failed to load unsent notifications")

		return 0, fmt.Errorf("failed to load unsent notifications: %w", err)
	}

	if len(rows) == 0 {
		return 0, nil
	}

	messages := make([]kafka.Message, len(rows))
	ids := make([]string, len(rows))

	for i, row := range rows {
		var message dto.OutboxMessage
		message.FromModel(row)

		// Keyed by booking so a partitioned consumer sees one booking's
		// events in order.
		messages[i] = kafka.Message{
			Key:   row.BookingID,
			Value: message,
		}
		ids[i] = row.ID
	}

	if err = s.producer.SendMessages(ctx, s.cfg.Notification.Topic, messages...); err != nil {
		log.Error().Err(err).Int("count", len(rows)).Msg("failed to publish notifications")

		return 0, fmt.Errorf("failed to publish notifications: %w", err)
	}

	if err = s.repo.MarkSent(ctx, ids); err != nil {
		log.Error().Err(err).Msg("failed to mark notifications as sent")

		return 0, fmt.Errorf("failed to mark notifications as sent: %w", err)
	}

	return len(rows), nil
}

// Run polls the outbox until the context is cancelled.
func (s *serviceImpl) Run(ctx context.Context) {
	interval := time.Duration(s.cfg.Notification.RelayIntervalSecond) * time.Second

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Info().Dur("interval", interval).Msg("notification relay started")

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("notification relay stopped")

			return
		case <-ticker.C:
			sent, err := s.Relay(ctx)
			if err != nil {
				// Rows stay pending; the next tick retries them.
				continue
			}

			if sent > 0 {
				log.Info().Int("sent", sent).Msg("relayed notifications")
			}
		}
	}
}
