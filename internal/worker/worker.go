// Package worker consumes media-scan events and keeps the media index up to date
package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/UnendingLoop/Imagen/internal/model"
	"github.com/UnendingLoop/Imagen/internal/mwlogger"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/wb-go/wbf/zlog"
)

// MediaIndexer - контракт сервиса, который вносит файл в индекс
type MediaIndexer interface {
	Index(ctx context.Context, ev model.ScanEvent) error
}

// Committer - подтверждение прочитанного сообщения (wbf kafka.Consumer)
type Committer interface {
	Commit(ctx context.Context, msg kafkago.Message) error
}

type Worker struct {
	indexer  MediaIndexer
	queue    <-chan kafkago.Message
	consumer Committer
}

func NewWorkerInstance(idx MediaIndexer, q <-chan kafkago.Message, cons Committer) *Worker {
	return &Worker{indexer: idx, queue: q, consumer: cons}
}

func (w *Worker) StartWorker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-w.queue:
			if !ok {
				log.Println("Queue channel closed, stopping worker...")
				return
			}
			if err := w.handle(ctx, msg); err != nil {
				log.Printf("Scan event %q failed, leaving it for redelivery: %v", string(msg.Key), err)
				continue
			}
			if err := w.consumer.Commit(ctx, msg); err != nil {
				log.Printf("Failed to commit queue-message: %v", err)
			}
		}
	}
}

// handle возвращает ошибку только для сбоев, которые имеет смысл повторить.
// Битое сообщение или нечитаемый файл логируются и подтверждаются
func (w *Worker) handle(ctx context.Context, msg kafkago.Message) error {
	ctx = mwlogger.WithLogger(ctx, zlog.Logger.With().
		Int("partition", msg.Partition).
		Int64("offset", msg.Offset).
		Logger())

	var ev model.ScanEvent
	if err := json.Unmarshal(msg.Value, &ev); err != nil {
		log.Printf("Dropping malformed scan event %q: %v", string(msg.Key), err)
		return nil
	}

	if err := w.indexer.Index(ctx, ev); err != nil {
		if errors.Is(err, model.ErrUnreadable) {
			log.Printf("Dropping scan event %q: %v", ev.Key, err)
			return nil
		}
		return fmt.Errorf("index %q: %w", ev.Key, err)
	}
	return nil
}
