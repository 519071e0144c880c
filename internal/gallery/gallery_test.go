package gallery

import (
	"bytes"
	"context"
	"errors"
	"image"
	"io"
	"testing"
	"time"

	"github.com/UnendingLoop/Imagen/internal/model"
	"github.com/UnendingLoop/Imagen/internal/storage/localstorage"
	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/require"
)

func TestFileName(t *testing.T) {
	ts := time.UnixMilli(1700000000123)
	require.Equal(t, "Imagen_1700000000123.jpg", FileName(ts))
}

func TestSaver_Save_Local(t *testing.T) {
	strg, err := localstorage.NewLocalStorage(t.TempDir(), 0)
	require.NoError(t, err)

	s := NewSaver(strg)
	s.now = func() time.Time { return time.UnixMilli(42) }

	saved, err := s.Save(context.Background(), image.NewNRGBA(image.Rect(0, 0, 30, 20)))
	require.NoError(t, err)
	require.Equal(t, "Imagen_42.jpg", saved.Key)
	require.Equal(t, model.JPEG, saved.MimeType)
	require.Equal(t, 30, saved.Width)
	require.Equal(t, 20, saved.Height)
	require.Contains(t, saved.Location, "file://")

	rc, _, err := strg.Get(context.Background(), saved.Key)
	require.NoError(t, err)
	defer rc.Close()

	cfg, format, err := image.DecodeConfig(rc)
	require.NoError(t, err)
	require.Equal(t, "jpeg", format)
	require.Equal(t, 30, cfg.Width)
}

func TestSaver_Save_WritesQuality100(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 16, 16))
	var want bytes.Buffer
	require.NoError(t, imaging.Encode(&want, img, imaging.JPEG, imaging.JPEGQuality(100)))

	var got []byte
	s := NewSaver(&mockStorage{
		putFn: func(_ context.Context, key string, size int64, ct string, r io.Reader) error {
			require.Equal(t, model.JPEG, ct)
			var err error
			got, err = io.ReadAll(r)
			require.Equal(t, int64(len(got)), size)
			return err
		},
		locationFn: func(_ context.Context, key string) (string, error) { return "mem://" + key, nil },
	})

	_, err := s.Save(context.Background(), img)
	require.NoError(t, err)
	require.Equal(t, want.Bytes(), got)
}

func TestSaver_Save_Errors(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))

	tests := []struct {
		name        string
		strg        *mockStorage
		wantDeleted bool
	}{
		{
			name: "put fails",
			strg: &mockStorage{
				putFn: func(context.Context, string, int64, string, io.Reader) error { return errors.New("disk full") },
			},
		},
		{
			name: "location fails",
			strg: &mockStorage{
				putFn:      func(context.Context, string, int64, string, io.Reader) error { return nil },
				locationFn: func(context.Context, string) (string, error) { return "", errors.New("no presign") },
			},
			wantDeleted: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deleted := false
			tt.strg.deleteFn = func(context.Context, string) error {
				deleted = true
				return nil
			}

			saved, err := NewSaver(tt.strg).Save(context.Background(), img)
			require.ErrorIs(t, err, model.ErrWriteFailed)
			require.Nil(t, saved)
			require.Equal(t, tt.wantDeleted, deleted)
		})
	}

	_, err := NewSaver(&mockStorage{}).Save(context.Background(), nil)
	require.Error(t, err)
}
