// Package session wraps a game in a single-writer actor. Every state change
// goes through one goroutine (Run) that drains a queue of requests; readers
// get immutable snapshots.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	petname "github.com/dustinkirkland/golang-petname"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hailam/chessrules/internal/board"
	"github.com/hailam/chessrules/internal/game"
	"github.com/hailam/chessrules/internal/storage"
)

// ErrClosed is returned once Run has exited.
var ErrClosed = errors.New("session closed")

// Snapshot is an immutable view of the session after a state change.
type Snapshot struct {
	SessionID string
	Name      string
	FEN       string
	Status    game.Status
	Ply       int
	Hash      uint64
	// LastMove is the SAN of the move that produced this snapshot, empty for
	// a freshly loaded game.
	LastMove string
	// History lists the SAN of every move played in the current game.
	History []string
	// Legal lists every legal move of the side to move.
	Legal []board.Move
}

// MoveProvider proposes a move for the side to move. Implementations must
// honor ctx cancellation.
type MoveProvider interface {
	ProposeMove(ctx context.Context, snap Snapshot, legal []board.Move) (board.MoveRequest, error)
}

// ProviderFunc adapts a function to MoveProvider.
type ProviderFunc func(ctx context.Context, snap Snapshot, legal []board.Move) (board.MoveRequest, error)

func (f ProviderFunc) ProposeMove(ctx context.Context, snap Snapshot, legal []board.Move) (board.MoveRequest, error) {
	return f(ctx, snap, legal)
}

type result struct {
	status game.Status
	err    error
}

// request is one unit of work for the Run loop: either a move or a game
// replacement.
type request struct {
	move  board.MoveRequest
	load  *game.Game
	reply chan result
}

// Session owns one game.
type Session struct {
	id   string
	name string

	game     *game.Game // owned by Run
	requests chan request
	done     chan struct{}
	runOnce  sync.Once

	store           *storage.Storage
	logger          *zap.Logger
	queueSize       int
	subBuffer       int
	providerTimeout time.Duration

	mu   sync.RWMutex
	snap Snapshot
	subs map[chan Snapshot]struct{}
}

// Option configures a Session.
type Option func(*Session)

func WithLogger(l *zap.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithStorage makes the session persist snapshots and results.
func WithStorage(st *storage.Storage) Option {
	return func(s *Session) { s.store = st }
}

func WithQueueSize(n int) Option {
	return func(s *Session) {
		if n > 0 {
			s.queueSize = n
		}
	}
}

func WithSubscriberBuffer(n int) Option {
	return func(s *Session) {
		if n >= 0 {
			s.subBuffer = n
		}
	}
}

// WithProviderTimeout bounds each RequestMove call. Zero disables the bound.
func WithProviderTimeout(d time.Duration) Option {
	return func(s *Session) { s.providerTimeout = d }
}

func WithName(name string) Option {
	return func(s *Session) {
		if name != "" {
			s.name = name
		}
	}
}

// New creates a session around g. The session takes ownership of g.
func New(g *game.Game, opts ...Option) *Session {
	s := &Session{
		id:              uuid.NewString(),
		name:            petname.Generate(2, "-"),
		game:            g,
		done:            make(chan struct{}),
		logger:          zap.NewNop(),
		queueSize:       16,
		subBuffer:       8,
		providerTimeout: 30 * time.Second,
		subs:            make(map[chan Snapshot]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.requests = make(chan request, s.queueSize)
	s.logger = s.logger.With(zap.String("session", s.id), zap.String("name", s.name))
	s.publish("", g.Status())
	return s
}

func (s *Session) ID() string   { return s.id }
func (s *Session) Name() string { return s.name }

// Run processes requests until ctx is done. It may be called once; later
// calls return ErrClosed immediately.
func (s *Session) Run(ctx context.Context) error {
	err := ErrClosed
	s.runOnce.Do(func() {
		err = s.run(ctx)
	})
	return err
}

func (s *Session) run(ctx context.Context) error {
	defer s.close()
	s.logger.Info("session started", zap.String("fen", s.game.FEN()))

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("session stopped", zap.Error(ctx.Err()))
			return ctx.Err()
		case req := <-s.requests:
			req.reply <- s.handle(req)
		}
	}
}

func (s *Session) handle(req request) result {
	if req.load != nil {
		s.game = req.load
		s.logger.Info("game loaded", zap.String("fen", s.game.FEN()))
		st := s.game.Status()
		s.publish("", st)
		return result{status: st}
	}

	st, err := s.game.Apply(req.move)
	if err != nil {
		return result{status: st, err: err}
	}
	history := s.game.History()
	s.publish(history[len(history)-1].SAN, st)
	return result{status: st}
}

func (s *Session) close() {
	close(s.done)

	s.mu.Lock()
	defer s.mu.Unlock()
	for ch := range s.subs {
		close(ch)
	}
	s.subs = nil
}

// do enqueues req and waits for the Run loop to answer it.
func (s *Session) do(ctx context.Context, req request) (game.Status, error) {
	req.reply = make(chan result, 1)

	select {
	case s.requests <- req:
	case <-ctx.Done():
		return game.Status{}, ctx.Err()
	case <-s.done:
		return game.Status{}, ErrClosed
	}

	select {
	case res := <-req.reply:
		return res.status, res.err
	case <-ctx.Done():
		return game.Status{}, ctx.Err()
	case <-s.done:
		return game.Status{}, ErrClosed
	}
}

// Submit proposes a move and returns the resulting status. Rejections are the
// game's errors: game.ErrGameOver or a *game.MoveError.
func (s *Session) Submit(ctx context.Context, req board.MoveRequest) (game.Status, error) {
	return s.do(ctx, request{move: req})
}

// Load replaces the session's game.
func (s *Session) Load(ctx context.Context, g *game.Game) (game.Status, error) {
	if g == nil {
		return game.Status{}, errors.New("session: nil game")
	}
	return s.do(ctx, request{load: g})
}

// RequestMove asks p for a move in the current position and submits it. The
// provider runs in its own goroutine; if it does not answer before ctx or the
// provider timeout expires, RequestMove returns the context error.
func (s *Session) RequestMove(ctx context.Context, p MoveProvider) (game.Status, error) {
	snap := s.Snapshot()
	if snap.Status.GameOver() {
		return snap.Status, game.ErrGameOver
	}

	pctx := ctx
	if s.providerTimeout > 0 {
		var cancel context.CancelFunc
		pctx, cancel = context.WithTimeout(ctx, s.providerTimeout)
		defer cancel()
	}

	type proposal struct {
		req board.MoveRequest
		err error
	}
	proposed := make(chan proposal, 1)
	go func() {
		req, err := p.ProposeMove(pctx, snap, snap.Legal)
		proposed <- proposal{req, err}
	}()

	select {
	case <-pctx.Done():
		s.logger.Warn("move provider did not answer", zap.Error(pctx.Err()))
		return snap.Status, fmt.Errorf("move provider: %w", pctx.Err())
	case pr := <-proposed:
		if pr.err != nil {
			return snap.Status, fmt.Errorf("move provider: %w", pr.err)
		}
		s.logger.Debug("move proposed", zap.Stringer("move", pr.req))
		return s.Submit(ctx, pr.req)
	}
}

// Snapshot returns the latest published snapshot.
func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.clone()
}

// Subscribe returns a channel receiving every snapshot published after the
// call, and a function that cancels the subscription. A subscriber that falls
// behind misses snapshots instead of blocking the session. The channel is
// closed when the session stops or the subscription is cancelled.
func (s *Session) Subscribe() (<-chan Snapshot, func()) {
	ch := make(chan Snapshot, s.subBuffer)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.subs == nil {
		close(ch)
		return ch, func() {}
	}
	s.subs[ch] = struct{}{}

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if _, ok := s.subs[ch]; ok {
				delete(s.subs, ch)
				close(ch)
			}
		})
	}
}

// publish builds the snapshot of the current game with status st, fans it
// out and persists it. Called from New and the Run loop only.
func (s *Session) publish(lastMove string, st game.Status) {
	pos := s.game.Position()
	records := s.game.History()
	history := make([]string, len(records))
	for i, rec := range records {
		history[i] = rec.SAN
	}
	snap := Snapshot{
		SessionID: s.id,
		Name:      s.name,
		FEN:       pos.FEN(),
		Status:    st,
		Ply:       pos.Ply,
		Hash:      pos.Hash(),
		LastMove:  lastMove,
		History:   history,
		Legal:     s.game.AllLegalMoves(),
	}

	s.mu.Lock()
	s.snap = snap
	for ch := range s.subs {
		select {
		case ch <- snap.clone():
		default:
			s.logger.Debug("subscriber lagging, snapshot dropped")
		}
	}
	s.mu.Unlock()

	s.persist(snap)
}

func (s *Session) persist(snap Snapshot) {
	if s.store == nil {
		return
	}

	history := s.game.History()
	moves := make([]string, len(history))
	for i, rec := range history {
		moves[i] = rec.Move.String()
	}
	stored := &storage.Snapshot{
		SessionID: snap.SessionID,
		Name:      snap.Name,
		FEN:       snap.FEN,
		State:     snap.Status.State.String(),
		Moves:     moves,
	}
	if snap.Status.Winner != board.NoColor {
		stored.Winner = snap.Status.Winner.String()
	}
	if err := s.store.SaveSnapshot(stored); err != nil {
		s.logger.Warn("save snapshot", zap.Error(err))
	}
	if _, err := s.store.RecordPosition(snap.Hash); err != nil {
		s.logger.Warn("record position", zap.Error(err))
	}

	if !snap.Status.JustFinished {
		return
	}
	res := storage.GameResult{
		Outcome: outcome(snap.Status),
		State:   snap.Status.State.String(),
		Plies:   len(history),
	}
	if err := s.store.RecordResult(res); err != nil {
		s.logger.Warn("record result", zap.Error(err))
		return
	}
	s.logger.Info("game finished",
		zap.Stringer("result", res.Outcome),
		zap.Stringer("state", snap.Status.State))
}

func outcome(st game.Status) storage.Outcome {
	switch {
	case st.State != game.Checkmate:
		return storage.Draw
	case st.Winner == board.White:
		return storage.WhiteWins
	default:
		return storage.BlackWins
	}
}

func (snap Snapshot) clone() Snapshot {
	if snap.Legal != nil {
		snap.Legal = append([]board.Move(nil), snap.Legal...)
	}
	if snap.History != nil {
		snap.History = append([]string(nil), snap.History...)
	}
	return snap
}
