package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"contentservice/app/models"

	kgo "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingWriter struct {
	msgs   []kgo.Message
	err    error
	closed bool
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kgo.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *recordingWriter) Close() error {
	w.closed = true
	return nil
}

func TestKafkaPublisherPublish(t *testing.T) {
	w := &recordingWriter{}
	p := &KafkaPublisher{w: w}

	post := &models.Post{ID: 42, Title: "Hello", Content: "World"}
	require.NoError(t, p.Publish(context.Background(), New(PostCreated, 42).WithPost(post)))
	require.NoError(t, p.Publish(context.Background(), New(PostLiked, 42).WithValue(3)))

	require.Len(t, w.msgs, 2)
	assert.Equal(t, "42", string(w.msgs[0].Key))

	var created map[string]any
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &created))
	assert.Equal(t, PostCreated, created["type"])
	assert.Equal(t, float64(42), created["post_id"])
	assert.NotContains(t, created, "value")
	assert.Equal(t, "Hello", created["post"].(map[string]any)["title"])

	var liked map[string]any
	require.NoError(t, json.Unmarshal(w.msgs[1].Value, &liked))
	assert.Equal(t, float64(3), liked["value"])
	assert.NotContains(t, liked, "post")

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestKafkaPublisherError(t *testing.T) {
	p := &KafkaPublisher{w: &recordingWriter{err: errors.New("broker down")}}
	assert.EqualError(t, p.Publish(context.Background(), New(PostDeleted, 1)), "broker down")
}

func TestNewPublisher(t *testing.T) {
	assert.IsType(t, NopPublisher{}, NewPublisher(nil, "posts.events"))

	p := NewPublisher([]string{"localhost:9092"}, "posts.events")
	require.IsType(t, &KafkaPublisher{}, p)
	assert.NoError(t, p.Close())
}

func TestNopPublisher(t *testing.T) {
	var p Publisher = NopPublisher{}
	assert.NoError(t, p.Publish(context.Background(), New(PostViewed, 1)))
	assert.NoError(t, p.Close())
}
