// Package session keeps editor sessions: each one owns at most one current image
package session

import (
	"image"
	"sync"
	"time"

	"github.com/UnendingLoop/Imagen/internal/loader"
	"github.com/UnendingLoop/Imagen/internal/model"
	"github.com/google/uuid"
)

// State - состояние одной сессии редактора
type State struct {
	mu      sync.Mutex
	current *loader.DecodedImage
	touched time.Time
	closed  bool
}

// Replace ставит img текущей картинкой и освобождает предыдущую
func (s *State) Replace(img *loader.DecodedImage, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		img.Release()
		return model.ErrSessionNotFound
	}

	prev := s.current
	s.current = img
	s.touched = now
	prev.Release()
	return nil
}

// View вызывает fn с текущей картинкой под локом состояния
func (s *State) View(fn func(img *image.NRGBA) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return model.ErrSessionNotFound
	}
	if s.current.Released() {
		return model.ErrNoImage
	}
	return fn(s.current.Image())
}

// Size - размеры текущей картинки
func (s *State) Size() (model.Dimensions, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current.Released() {
		return model.Dimensions{}, false
	}
	return s.current.Size(), true
}

func (s *State) close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	s.current.Release()
	s.current = nil
}

func (s *State) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.touched
}

func (s *State) touch(now time.Time) {
	s.mu.Lock()
	s.touched = now
	s.mu.Unlock()
}

//---------------------

type Store struct {
	mu     sync.Mutex
	states map[uuid.UUID]*State
	now    func() time.Time
}

func NewStore() *Store {
	return &Store{
		states: make(map[uuid.UUID]*State),
		now:    time.Now,
	}
}

func (st *Store) Create() uuid.UUID {
	id := uuid.New()
	st.mu.Lock()
	st.states[id] = &State{touched: st.now()}
	st.mu.Unlock()
	return id
}

func (st *Store) Get(id uuid.UUID) (*State, error) {
	st.mu.Lock()
	s, ok := st.states[id]
	st.mu.Unlock()
	if !ok {
		return nil, model.ErrSessionNotFound
	}
	s.touch(st.now())
	return s, nil
}

// Now - часы стора, чтобы время в состояниях шло от одного источника
func (st *Store) Now() time.Time {
	return st.now()
}

// Close удаляет сессию и освобождает ее картинку
func (st *Store) Close(id uuid.UUID) error {
	st.mu.Lock()
	s, ok := st.states[id]
	delete(st.states, id)
	st.mu.Unlock()
	if !ok {
		return model.ErrSessionNotFound
	}
	s.close()
	return nil
}

// Sweep закрывает сессии, которых не трогали дольше maxIdle, и возвращает их число
func (st *Store) Sweep(maxIdle time.Duration) int {
	deadline := st.now().Add(-maxIdle)

	st.mu.Lock()
	stale := make([]*State, 0)
	for id, s := range st.states {
		if s.idleSince().Before(deadline) {
			stale = append(stale, s)
			delete(st.states, id)
		}
	}
	st.mu.Unlock()

	for _, s := range stale {
		s.close()
	}
	return len(stale)
}

func (st *Store) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.states)
}
