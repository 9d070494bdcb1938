package service

import (
	"context"

	"ai-chatrelay-be/internal/pkg/logger"
	"ai-chatrelay-be/pkg/events"
	pktNats "ai-chatrelay-be/pkg/nats"
)

// IConsumerService drains the in-process event bus: logs every domain
// event and, when a NATS connection is available, bridges it onto the
// external bus.
type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	bus     *events.Bus
	natsPub *pktNats.Publisher // nil when NATS is not configured
	logger  logger.ILogger
}

func NewConsumerService(bus *events.Bus, natsPub *pktNats.Publisher, sysLogger logger.ILogger) IConsumerService {
	return &consumerService{
		bus:     bus,
		natsPub: natsPub,
		logger:  sysLogger,
	}
}

func (s *consumerService) Consume(ctx context.Context) error {
	messages, err := s.bus.Subscribe(ctx)
	if err != nil {
		return err
	}

	for msg := range messages {
		evt, err := events.Decode(msg)
		if err != nil {
			s.logger.Warn("EVENTS", "Dropping undecodable event", map[string]interface{}{"error": err.Error()})
			msg.Ack()
			continue
		}

		s.logger.Info("EVENTS", evt.EventType(), evt.Payload())

		if s.natsPub != nil {
			if err := s.natsPub.Publish(ctx, evt); err != nil {
				s.logger.Warn("EVENTS", "Failed to bridge event to NATS", map[string]interface{}{
					"event_type": evt.EventType(),
					"error":      err.Error(),
				})
			}
		}

		msg.Ack()
	}

	return nil
}
