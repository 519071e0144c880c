package worker

import (
	"context"

	"github.com/UnendingLoop/Imagen/internal/model"
	kafkago "github.com/segmentio/kafka-go"
)

type mockIndexer struct {
	indexFn func(ctx context.Context, ev model.ScanEvent) error
}

func (m *mockIndexer) Index(ctx context.Context, ev model.ScanEvent) error {
	return m.indexFn(ctx, ev)
}

//----------------------------------

type mockCommitter struct {
	committed []kafkago.Message
}

func (m *mockCommitter) Commit(_ context.Context, msg kafkago.Message) error {
	m.committed = append(m.committed, msg)
	return nil
}
