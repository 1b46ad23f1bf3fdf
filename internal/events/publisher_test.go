package events

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestWatermillEventPublisher_Publish(t *testing.T) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer pubSub.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	messages, err := pubSub.Subscribe(ctx, "learning-events")
	require.NoError(t, err)

	publisher := NewWatermillEventPublisher(pubSub, "learning-events", testLogger())
	event := NewLearningEvent(EventEnrollmentCreated, EnrollmentEvent{EnrollmentID: 7, StudentID: 3, CourseID: 5})

	require.NoError(t, publisher.Publish(ctx, event))

	select {
	case msg := <-messages:
		msg.Ack()
		assert.Equal(t, event.ID, msg.UUID)
		assert.Equal(t, string(EventEnrollmentCreated), msg.Metadata.Get("event_type"))
		assert.Equal(t, EventSource, msg.Metadata.Get("source"))

		var decoded struct {
			Type EventType       `json:"type"`
			Data EnrollmentEvent `json:"data"`
		}
		require.NoError(t, json.Unmarshal(msg.Payload, &decoded))
		assert.Equal(t, EventEnrollmentCreated, decoded.Type)
		assert.Equal(t, uint(7), decoded.Data.EnrollmentID)
	case <-ctx.Done():
		t.Fatal("message was not delivered")
	}
}

func TestMockEventPublisher(t *testing.T) {
	publisher := NewMockEventPublisher(testLogger())
	ctx := context.Background()

	require.NoError(t, publisher.Publish(ctx, NewLearningEvent(EventLessonCompleted, LessonCompletedEvent{LessonID: 1})))
	require.NoError(t, publisher.Publish(ctx, NewLearningEvent(EventCourseCompleted, CourseCompletedEvent{CourseID: 2})))

	assert.Len(t, publisher.GetPublishedEvents(), 2)
	assert.Len(t, publisher.EventsOfType(EventCourseCompleted), 1)

	event := publisher.GetPublishedEvents()[0]
	assert.NotEmpty(t, event.ID)
	assert.Equal(t, EventVersion, event.Version)
	assert.False(t, event.Timestamp.IsZero())

	publisher.ClearEvents()
	assert.Empty(t, publisher.GetPublishedEvents())
}
