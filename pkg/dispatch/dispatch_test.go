package dispatch

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petrijr/convo/pkg/api"
)

type fakeEngine struct {
	actions []api.DeliveryAction
	err     error
}

func (f *fakeEngine) OnText(context.Context, api.TextEvent) ([]api.DeliveryAction, error) {
	return f.actions, f.err
}

func (f *fakeEngine) OnCallback(context.Context, api.CallbackEvent) ([]api.DeliveryAction, error) {
	return f.actions, f.err
}

func (f *fakeEngine) PurgeExpired(context.Context) (int, error) { return 0, nil }

type recordingDeliverer struct {
	delivered []api.DeliveryAction
	err       error
}

func (r *recordingDeliverer) Deliver(_ context.Context, a api.DeliveryAction) error {
	if r.err != nil {
		return r.err
	}
	r.delivered = append(r.delivered, a)
	return nil
}

func TestHandleTextDelivers(t *testing.T) {
	eng := &fakeEngine{actions: []api.DeliveryAction{
		{ChatID: 7, Text: "first"},
		{ChatID: 7, Text: "second"},
	}}
	del := &recordingDeliverer{}
	d := New(eng, del, slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))

	err := d.HandleText(context.Background(), api.TextEvent{UserID: 1, ChatID: 7, Text: "hi"})
	require.NoError(t, err)
	require.Len(t, del.delivered, 2)
	assert.Equal(t, "first", del.delivered[0].Text)
}

// An engine error is the operator's problem; the user-facing actions the
// engine produced alongside it are still delivered.
func TestEngineErrorStillDelivers(t *testing.T) {
	eng := &fakeEngine{
		actions: []api.DeliveryAction{{ChatID: 7, Text: "Something went wrong."}},
		err:     errors.New("commit failed"),
	}
	del := &recordingDeliverer{}
	var log bytes.Buffer
	d := New(eng, del, slog.New(slog.NewTextHandler(&log, nil)))

	err := d.HandleCallback(context.Background(), api.CallbackEvent{UserID: 1, ChatID: 7, Token: "yes"})
	require.NoError(t, err)
	require.Len(t, del.delivered, 1)
	assert.Contains(t, log.String(), "engine_error")
	assert.Contains(t, log.String(), "commit failed")
}

func TestDeliveryFailureReturned(t *testing.T) {
	eng := &fakeEngine{actions: []api.DeliveryAction{{ChatID: 7, Text: "x"}}}
	del := &recordingDeliverer{err: errors.New("network down")}
	var log bytes.Buffer
	d := New(eng, del, slog.New(slog.NewTextHandler(&log, nil)))

	err := d.HandleText(context.Background(), api.TextEvent{UserID: 1, ChatID: 7, Text: "hi"})
	require.Error(t, err)
	assert.Contains(t, log.String(), "delivery_failed")
}

func TestNilLoggerDefaults(t *testing.T) {
	assert.NotPanics(t, func() {
		d := New(&fakeEngine{}, &recordingDeliverer{}, nil)
		_ = d.HandleText(context.Background(), api.TextEvent{})
	})
}
