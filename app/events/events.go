package events

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"contentservice/app/models"

	kgo "github.com/segmentio/kafka-go"
)

const (
	PostCreated = "post.created"
	PostUpdated = "post.updated"
	PostDeleted = "post.deleted"
	PostLiked   = "post.liked"
	PostViewed  = "post.viewed"
)

// Event describes a change to a post.
type Event struct {
	Type       string       `json:"type"`
	PostID     int64        `json:"post_id"`
	OccurredAt time.Time    `json:"occurred_at"`
	Post       *models.Post `json:"post,omitempty"`
	Value      *int64       `json:"value,omitempty"`
}

// New returns an event stamped with the current UTC time.
func New(eventType string, postID int64) Event {
	return Event{Type: eventType, PostID: postID, OccurredAt: time.Now().UTC()}
}

// WithPost attaches a snapshot of the post.
func (e Event) WithPost(p *models.Post) Event {
	e.Post = p
	return e
}

// WithValue attaches a counter value.
func (e Event) WithValue(v int64) Event {
	e.Value = &v
	return e
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
func (NopPublisher) Close() error                         { return nil }

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kgo.Message) error
	Close() error
}

// KafkaPublisher writes events as JSON to a Kafka topic, keyed by post id
// so all events of one post land on the same partition.
type KafkaPublisher struct {
	w messageWriter
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{w: &kgo.Writer{
		Addr:         kgo.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kgo.LeastBytes{},
		RequiredAcks: kgo.RequireOne,
		BatchTimeout: 50 * time.Millisecond,
	}}
}

func (p *KafkaPublisher) Publish(ctx context.Context, e Event) error {
	b, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return p.w.WriteMessages(ctx, kgo.Message{
		Key:   []byte(strconv.FormatInt(e.PostID, 10)),
		Value: b,
		Time:  e.OccurredAt,
	})
}

func (p *KafkaPublisher) Close() error { return p.w.Close() }

// NewPublisher picks Kafka when brokers are configured.
func NewPublisher(brokers []string, topic string) Publisher {
	if len(brokers) == 0 {
		return NopPublisher{}
	}
	return NewKafkaPublisher(brokers, topic)
}
