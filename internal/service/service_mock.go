package service

import (
	"context"
	"image"
	"io"

	"github.com/UnendingLoop/Imagen/internal/model"
	"github.com/wb-go/wbf/retry"
)

type mockRepo struct {
	createFn       func(ctx context.Context, e *model.MediaEntry) error
	deleteFn       func(ctx context.Context, id string) error
	getFn          func(ctx context.Context, id string) (*model.MediaEntry, error)
	getByFileKeyFn func(ctx context.Context, key string) (*model.MediaEntry, error)
	getListFn      func(ctx context.Context, req *model.ListRequest) ([]model.MediaEntry, error)
}

func (m *mockRepo) Create(ctx context.Context, e *model.MediaEntry) error {
	return m.createFn(ctx, e)
}

func (m *mockRepo) Delete(ctx context.Context, id string) error {
	return m.deleteFn(ctx, id)
}

func (m *mockRepo) Get(ctx context.Context, id string) (*model.MediaEntry, error) {
	return m.getFn(ctx, id)
}

func (m *mockRepo) GetByFileKey(ctx context.Context, key string) (*model.MediaEntry, error) {
	return m.getByFileKeyFn(ctx, key)
}

func (m *mockRepo) GetList(ctx context.Context, req *model.ListRequest) ([]model.MediaEntry, error) {
	return m.getListFn(ctx, req)
}

//----------------------------------

type mockStorage struct {
	getFn    func(ctx context.Context, key string) (io.ReadCloser, string, error)
	putFn    func(ctx context.Context, key string, size int64, ct string, r io.Reader) error
	deleteFn func(ctx context.Context, key string) error
}

func (m *mockStorage) Get(ctx context.Context, key string) (io.ReadCloser, string, error) {
	return m.getFn(ctx, key)
}

func (m *mockStorage) Put(ctx context.Context, key string, size int64, ct string, r io.Reader) error {
	return m.putFn(ctx, key, size, ct, r)
}

func (m *mockStorage) Delete(ctx context.Context, key string) error {
	return m.deleteFn(ctx, key)
}

//----------------------------------

type mockSaver struct {
	saveFn func(ctx context.Context, img image.Image) (*model.SavedImage, error)
}

func (m *mockSaver) Save(ctx context.Context, img image.Image) (*model.SavedImage, error) {
	return m.saveFn(ctx, img)
}

//----------------------------------

type mockSender struct {
	sent [][]byte
	err  error
}

func (m *mockSender) SendWithRetry(_ context.Context, _ retry.Strategy, _ []byte, v []byte) error {
	m.sent = append(m.sent, v)
	return m.err
}
