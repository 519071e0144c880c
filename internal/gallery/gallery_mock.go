package gallery

import (
	"context"
	"io"
)

type mockStorage struct {
	putFn      func(ctx context.Context, key string, size int64, ct string, r io.Reader) error
	deleteFn   func(ctx context.Context, key string) error
	locationFn func(ctx context.Context, key string) (string, error)
}

func (m *mockStorage) Put(ctx context.Context, key string, size int64, ct string, r io.Reader) error {
	return m.putFn(ctx, key, size, ct, r)
}

func (m *mockStorage) Delete(ctx context.Context, key string) error {
	if m.deleteFn == nil {
		return nil
	}
	return m.deleteFn(ctx, key)
}

func (m *mockStorage) Location(ctx context.Context, key string) (string, error) {
	return m.locationFn(ctx, key)
}
