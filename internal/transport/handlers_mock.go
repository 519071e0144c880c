package transport

import (
	"bytes"
	"context"
	"io"

	"github.com/UnendingLoop/Imagen/internal/model"
	"github.com/google/uuid"
)

type mockEditor struct {
	createFn func(ctx context.Context) uuid.UUID
	closeFn  func(ctx context.Context, id string) error
	loadFn   func(ctx context.Context, id string, req *model.LoadRequest) (*model.LoadResult, error)
	renderFn func(ctx context.Context, id string) (*bytes.Buffer, string, error)
	saveFn   func(ctx context.Context, id string) (*model.SaveResult, error)
}

func (m *mockEditor) CreateSession(ctx context.Context) uuid.UUID {
	return m.createFn(ctx)
}

func (m *mockEditor) CloseSession(ctx context.Context, id string) error {
	return m.closeFn(ctx, id)
}

func (m *mockEditor) LoadImage(ctx context.Context, id string, req *model.LoadRequest) (*model.LoadResult, error) {
	return m.loadFn(ctx, id, req)
}

func (m *mockEditor) Render(ctx context.Context, id string) (*bytes.Buffer, string, error) {
	return m.renderFn(ctx, id)
}

func (m *mockEditor) SaveAndShare(ctx context.Context, id string) (*model.SaveResult, error) {
	return m.saveFn(ctx, id)
}

type mockGallery struct {
	getListFn   func(ctx context.Context, req *model.ListRequest) ([]model.MediaEntry, error)
	loadFileFn  func(ctx context.Context, id string) (io.ReadCloser, string, error)
	loadThumbFn func(ctx context.Context, id string) (io.ReadCloser, string, error)
	deleteFn    func(ctx context.Context, id string) error
}

func (m *mockGallery) GetList(ctx context.Context, req *model.ListRequest) ([]model.MediaEntry, error) {
	return m.getListFn(ctx, req)
}

func (m *mockGallery) LoadFile(ctx context.Context, id string) (io.ReadCloser, string, error) {
	return m.loadFileFn(ctx, id)
}

func (m *mockGallery) LoadThumbnail(ctx context.Context, id string) (io.ReadCloser, string, error) {
	return m.loadThumbFn(ctx, id)
}

func (m *mockGallery) Delete(ctx context.Context, id string) error {
	return m.deleteFn(ctx, id)
}
