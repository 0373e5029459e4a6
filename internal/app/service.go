package app

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jaminalder/moving-tic-tac-toe/internal/domain"
	"github.com/jaminalder/moving-tic-tac-toe/internal/metrics"
)

// Errors exposed by the service layer.
var (
	ErrNotFound = errors.New("session not found")
)

// TickInterval is the real time between two clock decrements.
const TickInterval = time.Second

// Snapshot is a copy of one session as seen by the presentation layer.
type Snapshot struct {
	ID      string        `json:"id"`
	MatchID string        `json:"match_id"`
	Game    domain.Game   `json:"game"`
	Score   domain.Counts `json:"score"`
	Created time.Time     `json:"created"`
	Updated time.Time     `json:"updated"`
}

// session is one table: the current match, the running score and the clock
// driving the match countdown.
type session struct {
	id      string
	matchID string
	game    domain.Game
	tally   domain.Tally
	created time.Time
	updated time.Time
	// closed to stop the clock goroutine of the current match
	stop chan struct{}
}

func (sess *session) snapshot() Snapshot {
	return Snapshot{
		ID:      sess.id,
		MatchID: sess.matchID,
		Game:    sess.game,
		Score:   sess.tally.Wins(),
		Created: sess.created,
		Updated: sess.updated,
	}
}

type subscriber struct {
	mu     sync.Mutex
	ch     chan []byte
	closed bool
}

// send delivers b without blocking and reports whether it was accepted.
func (s *subscriber) send(b []byte) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return true
	}
	select {
	case s.ch <- b:
		return true
	default:
		return false
	}
}

func (s *subscriber) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.ch)
	}
}

// Service manages sessions and subscribers. Every state change, whether from
// a cell activation or a clock tick, happens under mu.
type Service struct {
	mu       sync.Mutex
	sessions map[string]*session
	subs     map[string]map[*subscriber]struct{}
	render   func(Snapshot) []byte
	clock    Clock
	interval time.Duration
	log      *zap.Logger
	metrics  *metrics.Metrics
}

// Option configures a Service.
type Option func(*Service)

// WithRenderer sets the renderer used for broadcast payloads.
func WithRenderer(renderer func(Snapshot) []byte) Option {
	return func(s *Service) { s.SetRenderer(renderer) }
}

// WithClock replaces the tick source.
func WithClock(c Clock) Option { return func(s *Service) { s.clock = c } }

func WithLogger(l *zap.Logger) Option { return func(s *Service) { s.log = l } }

func WithMetrics(m *metrics.Metrics) Option { return func(s *Service) { s.metrics = m } }

// NewService creates a service with a real clock and a renderer that encodes nothing.
func NewService(opts ...Option) *Service {
	s := &Service{
		sessions: make(map[string]*session),
		subs:     make(map[string]map[*subscriber]struct{}),
		render:   func(Snapshot) []byte { return nil },
		clock:    RealClock{},
		interval: TickInterval,
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetRenderer replaces the broadcast renderer function.
func (s *Service) SetRenderer(renderer func(Snapshot) []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if renderer == nil {
		s.render = func(Snapshot) []byte { return nil }
		return
	}
	s.render = renderer
}

// CreateSession registers a session with a fresh match and zeroed score.
func (s *Service) CreateSession() (*Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	sess := &session{
		id:      uuid.NewString(),
		matchID: uuid.NewString(),
		game:    domain.New(),
		created: now,
		updated: now,
	}
	s.sessions[sess.id] = sess
	s.metrics.SessionOpened()
	s.log.Info("session created", zap.String("session", sess.id))
	cp := sess.snapshot()
	return &cp, nil
}

// Get returns a copy of the session if present.
func (s *Service) Get(id string) (*Snapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	cp := sess.snapshot()
	return &cp, true
}

// Activate forwards a click on cell idx to the current match. Illegal clicks
// are not errors: the unchanged snapshot is returned.
func (s *Service) Activate(id string, idx int) (*Snapshot, error) {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	if !ok {
		s.mu.Unlock()
		return nil, ErrNotFound
	}
	wasStarted := sess.game.Started
	if !sess.game.Activate(idx, &sess.tally) {
		s.log.Debug("activation ignored",
			zap.String("session", id), zap.Int("cell", idx), zap.Stringer("phase", sess.game.Phase))
		cp := sess.snapshot()
		s.mu.Unlock()
		return &cp, nil
	}
	sess.updated = time.Now()

	if !wasStarted && sess.game.Started {
		s.startClockLocked(sess)
		s.metrics.MatchStarted()
		s.log.Info("match started", zap.String("session", id), zap.String("match", sess.matchID))
	}
	if sess.game.Over() {
		s.stopClockLocked(sess)
		s.finishLocked(sess)
	}

	cp, subs, payload := s.publishLocked(sess)
	s.mu.Unlock()

	s.fanOut(id, subs, payload)
	return &cp, nil
}

// NewMatch replaces the current match with a fresh one, keeping the score.
func (s *Service) NewMatch(id string) (*Snapshot, error) {
	return s.restart(id, false)
}

// ResetAll starts a fresh match and zeroes the score.
func (s *Service) ResetAll(id string) (*Snapshot, error) {
	return s.restart(id, true)
}

func (s *Service) restart(id string, clearScore bool) (*Snapshot, error) {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	if !ok {
		s.mu.Unlock()
		return nil, ErrNotFound
	}
	s.stopClockLocked(sess)
	sess.game = domain.New()
	sess.matchID = uuid.NewString()
	if clearScore {
		sess.tally.Reset()
	}
	sess.updated = time.Now()
	s.log.Info("new match",
		zap.String("session", id), zap.String("match", sess.matchID), zap.Bool("score_reset", clearScore))

	cp, subs, payload := s.publishLocked(sess)
	s.mu.Unlock()

	s.fanOut(id, subs, payload)
	return &cp, nil
}

// Close stops every running match clock. Sessions stay readable.
func (s *Service) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sess := range s.sessions {
		s.stopClockLocked(sess)
	}
}

func (s *Service) startClockLocked(sess *session) {
	done := make(chan struct{})
	sess.stop = done
	go s.runClock(sess.id, sess.matchID, s.clock.NewTicker(s.interval), done)
}

func (s *Service) stopClockLocked(sess *session) {
	if sess.stop != nil {
		close(sess.stop)
		sess.stop = nil
	}
}

func (s *Service) runClock(id, matchID string, t Ticker, done <-chan struct{}) {
	defer t.Stop()
	for {
		select {
		case <-done:
			return
		case <-t.C():
			if !s.tick(id, matchID) {
				return
			}
		}
	}
}

// tick applies one clock decrement to the given match and reports whether the
// clock should keep running. Ticks for a match that has been replaced, or
// whose clock was already stopped, are dropped.
func (s *Service) tick(id, matchID string) bool {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	if !ok || sess.matchID != matchID || sess.stop == nil {
		s.mu.Unlock()
		return false
	}
	if !sess.game.Tick() {
		s.stopClockLocked(sess)
		s.mu.Unlock()
		return false
	}
	sess.updated = time.Now()
	running := !sess.game.Over()
	if !running {
		s.stopClockLocked(sess)
		s.finishLocked(sess)
	}

	_, subs, payload := s.publishLocked(sess)
	s.mu.Unlock()

	s.fanOut(id, subs, payload)
	return running
}

func (s *Service) finishLocked(sess *session) {
	s.metrics.MatchFinished(sess.game.Outcome)
	s.log.Info("match finished",
		zap.String("session", sess.id),
		zap.String("match", sess.matchID),
		zap.Stringer("outcome", sess.game.Outcome),
		zap.Int("remaining", sess.game.Remaining))
}

// publishLocked snapshots the session together with its subscribers and the
// rendered payload.
func (s *Service) publishLocked(sess *session) (Snapshot, map[*subscriber]struct{}, []byte) {
	cp := sess.snapshot()
	return cp, s.copySubsLocked(sess.id), s.render(cp)
}

// fanOut delivers payload; slow subscribers are dropped rather than blocking.
func (s *Service) fanOut(id string, subs map[*subscriber]struct{}, payload []byte) {
	var toDrop []*subscriber
	for sub := range subs {
		if !sub.send(payload) {
			sub.close()
			toDrop = append(toDrop, sub)
		}
	}
	if len(toDrop) == 0 {
		return
	}
	s.log.Debug("dropped slow subscribers", zap.String("session", id), zap.Int("count", len(toDrop)))
	s.mu.Lock()
	for _, sub := range toDrop {
		if set, ok := s.subs[id]; ok {
			delete(set, sub)
		}
	}
	s.mu.Unlock()
}

// Subscribe registers a subscriber for a session. Returns a channel and an unsubscribe func.
func (s *Service) Subscribe(ctx context.Context, id string) (<-chan []byte, func(), error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return nil, func() {}, ErrNotFound
	}
	set := s.subs[id]
	if set == nil {
		set = make(map[*subscriber]struct{})
		s.subs[id] = set
	}
	sub := &subscriber{ch: make(chan []byte, 1)}
	set[sub] = struct{}{}

	unsubOnce := &sync.Once{}
	unsub := func() {
		unsubOnce.Do(func() {
			s.mu.Lock()
			if set, ok := s.subs[id]; ok {
				delete(set, sub)
			}
			s.mu.Unlock()
			sub.close()
		})
	}
	go func() {
		<-ctx.Done()
		unsub()
	}()
	return sub.ch, unsub, nil
}

func (s *Service) copySubsLocked(id string) map[*subscriber]struct{} {
	out := make(map[*subscriber]struct{})
	if set, ok := s.subs[id]; ok {
		for k := range set {
			out[k] = struct{}{}
		}
	}
	return out
}
