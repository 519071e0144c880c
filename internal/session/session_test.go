package session

import (
	"image"
	"sync"
	"testing"
	"time"

	"github.com/UnendingLoop/Imagen/internal/loader"
	"github.com/UnendingLoop/Imagen/internal/model"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func newImage(w, h int) *loader.DecodedImage {
	return loader.NewDecodedImage(image.NewNRGBA(image.Rect(0, 0, w, h)))
}

func TestState_ReplaceReleasesPrevious(t *testing.T) {
	st := NewStore()
	id := st.Create()
	s, err := st.Get(id)
	require.NoError(t, err)

	err = s.View(func(*image.NRGBA) error { return nil })
	require.ErrorIs(t, err, model.ErrNoImage)

	first := newImage(4, 4)
	require.NoError(t, s.Replace(first, time.Now()))

	second := newImage(8, 2)
	require.NoError(t, s.Replace(second, time.Now()))
	require.True(t, first.Released())
	require.False(t, second.Released())

	size, ok := s.Size()
	require.True(t, ok)
	require.Equal(t, model.Dimensions{Width: 8, Height: 2}, size)

	require.NoError(t, s.View(func(img *image.NRGBA) error {
		require.Equal(t, 8, img.Bounds().Dx())
		return nil
	}))
}

func TestStore_Close(t *testing.T) {
	st := NewStore()
	id := st.Create()
	s, err := st.Get(id)
	require.NoError(t, err)

	img := newImage(2, 2)
	require.NoError(t, s.Replace(img, time.Now()))

	require.NoError(t, st.Close(id))
	require.True(t, img.Released())
	require.ErrorIs(t, st.Close(id), model.ErrSessionNotFound)

	_, err = st.Get(id)
	require.ErrorIs(t, err, model.ErrSessionNotFound)

	// состояние, захваченное до закрытия, новых картинок не принимает
	late := newImage(2, 2)
	require.ErrorIs(t, s.Replace(late, time.Now()), model.ErrSessionNotFound)
	require.True(t, late.Released())
	require.ErrorIs(t, s.View(func(*image.NRGBA) error { return nil }), model.ErrSessionNotFound)
}

func TestStore_GetUnknown(t *testing.T) {
	_, err := NewStore().Get(uuid.New())
	require.ErrorIs(t, err, model.ErrSessionNotFound)
}

func TestStore_Sweep(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	st := NewStore()
	st.now = func() time.Time { return now }

	stale := st.Create()
	img := newImage(2, 2)
	s, err := st.Get(stale)
	require.NoError(t, err)
	require.NoError(t, s.Replace(img, now))

	now = now.Add(20 * time.Minute)
	fresh := st.Create()

	require.Equal(t, 1, st.Sweep(10*time.Minute))
	require.Equal(t, 1, st.Len())
	require.True(t, img.Released())

	_, err = st.Get(fresh)
	require.NoError(t, err)
	_, err = st.Get(stale)
	require.ErrorIs(t, err, model.ErrSessionNotFound)
}

func TestStore_ConcurrentSessions(t *testing.T) {
	st := NewStore()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id := st.Create()
			s, err := st.Get(id)
			require.NoError(t, err)
			for i := 1; i <= 5; i++ {
				require.NoError(t, s.Replace(newImage(i, i), time.Now()))
			}
			require.NoError(t, st.Close(id))
		}()
	}
	wg.Wait()

	require.Zero(t, st.Len())
}
