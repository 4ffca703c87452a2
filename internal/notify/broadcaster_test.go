package notify

import (
	"context"
	"testing"

	"github.com/runoshun/taskbot/internal/domain"
	"github.com/runoshun/taskbot/internal/testutil"
	"github.com/stretchr/testify/assert"
)

func TestBroadcaster_Notify_ExcludesActor(t *testing.T) {
	sender := &testutil.RecordingSender{}
	b := NewBroadcaster(sender, nil)

	b.Notify(context.Background(), []domain.Recipient{
		{UserID: "a", ChatID: "1"},
		{UserID: "b", ChatID: "2"},
		{UserID: "c", ChatID: "3"},
	}, "b", "hello")

	assert.Equal(t, []string{"hello"}, sender.To("1"))
	assert.Empty(t, sender.To("2"))
	assert.Equal(t, []string{"hello"}, sender.To("3"))
}

func TestBroadcaster_Notify_ContinuesAfterFailure(t *testing.T) {
	sender := &testutil.RecordingSender{Fail: map[string]bool{"1": true}}
	b := NewBroadcaster(sender, nil)

	b.Notify(context.Background(), []domain.Recipient{
		{UserID: "a", ChatID: "1"},
		{UserID: "b", ChatID: "2"},
	}, "", "hello")

	assert.Empty(t, sender.To("1"))
	assert.Equal(t, []string{"hello"}, sender.To("2"))
}

func TestBroadcaster_Notify_StopsOnCancelledContext(t *testing.T) {
	sender := &testutil.RecordingSender{}
	b := NewBroadcaster(sender, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	b.Notify(ctx, []domain.Recipient{{UserID: "a", ChatID: "1"}}, "", "hello")

	assert.Empty(t, sender.Sent)
}
