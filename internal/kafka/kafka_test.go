package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/UnendingLoop/Imagen/internal/model"
	"github.com/stretchr/testify/require"
	"github.com/wb-go/wbf/retry"
)

type recordingSender struct {
	key, value []byte
	strategy   retry.Strategy
	err        error
}

func (r *recordingSender) SendWithRetry(_ context.Context, s retry.Strategy, k, v []byte) error {
	r.strategy, r.key, r.value = s, k, v
	return r.err
}

func TestPublishJSON(t *testing.T) {
	s := &recordingSender{}
	ev := model.ShareEvent{Action: model.ActionSend, MimeType: model.JPEG, Location: "file:///p/Imagen_1.jpg"}

	require.NoError(t, PublishJSON(context.Background(), s, "Imagen_1.jpg", ev))
	require.Equal(t, "Imagen_1.jpg", string(s.key))
	require.Equal(t, PublishStrategy, s.strategy)

	var got model.ShareEvent
	require.NoError(t, json.Unmarshal(s.value, &got))
	require.Equal(t, ev, got)
}

func TestPublishJSON_Errors(t *testing.T) {
	s := &recordingSender{err: errors.New("broker down")}
	require.Error(t, PublishJSON(context.Background(), s, "k", model.ScanEvent{}))

	require.Error(t, PublishJSON(context.Background(), &recordingSender{}, "k", make(chan int)))
}
