package journal

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

// DefaultKey is the store key the journal is persisted under
const DefaultKey = "registros"

var (
	// ErrNoSelection is returned when committing before a score was selected
	ErrNoSelection = errors.New("no score selected")
	// ErrScoreOutOfRange is returned when selecting a score outside 1..5
	ErrScoreOutOfRange = errors.New("score must be between 1 and 5")
)

const (
	MinScore = 1
	MaxScore = 5
)

// Store is the key-value persistence the journal reads from and writes through to
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

// Options configures a Session
type Options struct {
	Key      string
	Window   int
	Location *time.Location
	Clock    Clock
	Logger   *zap.SugaredLogger
}

// View is a render-ready snapshot of a session
type View struct {
	Today    string
	Selected *int
	Average  string
	History  []Entry
}

// Session holds one open journal: the loaded entries, the pending selection,
// and the store handle they are saved through.
type Session struct {
	store    Store
	key      string
	window   int
	location *time.Location
	clock    Clock
	logger   *zap.SugaredLogger

	// saving admits one store round trip (reload or save) at a time
	saving *semaphore.Weighted

	mu       sync.RWMutex
	journal  Journal
	selected *int
}

// Open loads the journal stored under opts.Key and preselects today's score
// when one was already recorded.
func Open(ctx context.Context, store Store, opts Options) (*Session, error) {
	s := &Session{
		store:    store,
		key:      opts.Key,
		window:   opts.Window,
		location: opts.Location,
		clock:    opts.Clock,
		logger:   opts.Logger,
		saving:   semaphore.NewWeighted(1),
	}
	if s.key == "" {
		s.key = DefaultKey
	}
	if s.window <= 0 {
		s.window = DefaultWindow
	}
	if s.clock == nil {
		s.clock = time.Now
	}
	if s.logger == nil {
		s.logger = zap.NewNop().Sugar()
	}

	if err := s.Reload(ctx); err != nil {
		return nil, err
	}

	return s, nil
}

// Reload re-reads the journal from the store, replacing the in-memory copy.
// It waits for any save in flight so a stale read cannot overwrite a commit.
func (s *Session) Reload(ctx context.Context) error {
	if err := s.saving.Acquire(ctx, 1); err != nil {
		return err
	}
	defer s.saving.Release(1)

	value, ok, err := s.store.Get(ctx, s.key)
	if err != nil {
		return fmt.Errorf("failed to read journal %q: %w", s.key, err)
	}

	var raw *string
	if ok {
		raw = &value
	}

	j, err := Load(raw)
	if err != nil {
		s.logger.Errorw("stored journal could not be decoded", "key", s.key, "error", err)
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.journal = j
	s.selected = nil
	if e, found := j.Find(s.today()); found {
		score := e.Score
		s.selected = &score
	}

	s.logger.Debugw("journal loaded", "key", s.key, "entries", len(j))
	return nil
}

// SelectScore records the pending choice for today
func (s *Session) SelectScore(score int) error {
	if score < MinScore || score > MaxScore {
		return ErrScoreOutOfRange
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = &score
	return nil
}

// CommitToday upserts the selected score for today and writes the whole
// journal through to the store. The in-memory journal only changes once the
// write succeeded.
func (s *Session) CommitToday(ctx context.Context) error {
	if err := s.saving.Acquire(ctx, 1); err != nil {
		return err
	}
	defer s.saving.Release(1)

	s.mu.RLock()
	selected := s.selected
	current := s.journal
	s.mu.RUnlock()

	if selected == nil {
		return ErrNoSelection
	}

	day := s.today()
	next := Upsert(current, day, *selected)

	raw, err := Serialize(next)
	if err != nil {
		return err
	}
	if err := s.store.Set(ctx, s.key, raw); err != nil {
		return fmt.Errorf("failed to save journal %q: %w", s.key, err)
	}

	s.mu.Lock()
	s.journal = next
	s.mu.Unlock()

	s.logger.Infow("score saved", "key", s.key, "day", day, "score", *selected, "entries", len(next))
	return nil
}

// Journal returns the current entries, ascending by day
func (s *Session) Journal() Journal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append(Journal(nil), s.journal...)
}

// Today returns the key of the current calendar day
func (s *Session) Today() string {
	return s.today()
}

// HasToday reports whether an entry exists for the current day
func (s *Session) HasToday() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.journal.Find(s.today())
	return ok
}

// View snapshots the session for rendering
func (s *Session) View() View {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var selected *int
	if s.selected != nil {
		v := *s.selected
		selected = &v
	}

	return View{
		Today:    s.today(),
		Selected: selected,
		Average:  Average(s.journal, s.window),
		History:  s.journal.Reversed(),
	}
}

func (s *Session) today() string {
	return TodayKey(s.clock, s.location)
}
