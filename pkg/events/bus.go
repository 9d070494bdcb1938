package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// TopicChatEvents carries every domain event emitted by the chat flows.
const TopicChatEvents = "chat.events"

const metadataEventType = "event_type"

type envelope struct {
	Type       string                 `json:"type"`
	Data       map[string]interface{} `json:"data"`
	OccurredAt time.Time              `json:"occurred_at"`
}

// Bus is an in-process pub/sub for domain events. Publishing is
// fire-and-forget from the caller's perspective; consumers attach via
// Subscribe.
type Bus struct {
	pubSub *gochannel.GoChannel
}

func NewBus(logger watermill.LoggerAdapter) *Bus {
	return &Bus{
		pubSub: gochannel.NewGoChannel(gochannel.Config{}, logger),
	}
}

func (b *Bus) Publish(evt Event) error {
	data, err := json.Marshal(envelope{
		Type:       evt.EventType(),
		Data:       evt.Payload(),
		OccurredAt: evt.Timestamp(),
	})
	if err != nil {
		return err
	}

	msg := message.NewMessage(watermill.NewUUID(), data)
	msg.Metadata.Set(metadataEventType, evt.EventType())
	return b.pubSub.Publish(TopicChatEvents, msg)
}

func (b *Bus) Subscribe(ctx context.Context) (<-chan *message.Message, error) {
	return b.pubSub.Subscribe(ctx, TopicChatEvents)
}

func (b *Bus) Close() error {
	return b.pubSub.Close()
}

// Decode unpacks a bus message back into a BaseEvent.
func Decode(msg *message.Message) (BaseEvent, error) {
	var env envelope
	if err := json.Unmarshal(msg.Payload, &env); err != nil {
		return BaseEvent{}, err
	}
	return BaseEvent{
		Type:       env.Type,
		Data:       env.Data,
		OccurredAt: env.OccurredAt,
	}, nil
}
