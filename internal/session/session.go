package session

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"tictacbot/internal/game"
	"tictacbot/internal/protocol"
	"tictacbot/internal/transport"
)

var (
	ErrConnect       = errors.New("connect to game server")
	ErrPeerClosed    = errors.New("server closed the connection")
	ErrServerClosing = errors.New("server is shutting down")
)

// State represents the session lifecycle.
type State string

const (
	StateConnecting     State = "connecting"
	StateAuthenticating State = "authenticating"
	StateListening      State = "listening"
	StateMyTurn         State = "my-turn"
	StateClosed         State = "closed"
)

// Dialer opens the transport. It is called once per Run.
type Dialer func(ctx context.Context) (transport.Conn, error)

// Journal records what the session saw and did. Failures are logged and
// never stop the session.
type Journal interface {
	RecordUpdate(board string, myTurn bool) error
	RecordMove(board string, row, col int) error
}

// Options configure a Session.
type Options struct {
	// ID names the run in logs and the journal. Empty generates a UUID.
	ID           string
	ClientID     string
	Strategy     game.Strategy
	Journal      Journal
	MaxLineBytes int
	Logger       *zap.Logger
}

// Session is one connection to the game server, from login until the
// transport fails or the server goes away.
type Session struct {
	ID string

	log      *zap.Logger
	dial     Dialer
	clientID string
	strategy game.Strategy
	journal  Journal

	framer *protocol.Framer
	turns  TurnController
	state  State
	moves  int
}

// New creates a session in the connecting state.
func New(dial Dialer, opts Options) *Session {
	id := opts.ID
	if id == "" {
		id = uuid.NewString()
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Session{
		ID:       id,
		log:      log.With(zap.String("session", id)),
		dial:     dial,
		clientID: opts.ClientID,
		strategy: opts.Strategy,
		journal:  opts.Journal,
		framer:   protocol.NewFramer(opts.MaxLineBytes),
		state:    StateConnecting,
	}
}

// Run connects, logs in and plays until the connection ends. It always
// returns a non-nil error describing why the session closed; the transport
// is closed on every path.
func (s *Session) Run(ctx context.Context) error {
	s.setState(StateConnecting)
	conn, err := s.dial(ctx)
	if err != nil {
		s.setState(StateClosed)
		return fmt.Errorf("%w: %w", ErrConnect, err)
	}
	defer func() {
		if err := conn.Close(); err != nil {
			s.log.Debug("close transport", zap.Error(err))
		}
		s.setState(StateClosed)
	}()
	s.log.Info("connected to server", zap.String("addr", conn.RemoteAddr()))

	s.setState(StateAuthenticating)
	if err := s.login(ctx, conn); err != nil {
		return err
	}

	s.setState(StateListening)
	for {
		chunk, err := conn.Receive(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return ErrPeerClosed
			}
			return fmt.Errorf("receive: %w", err)
		}
		if len(chunk) == 0 {
			return ErrPeerClosed
		}
		dropped := s.framer.Dropped()
		lines := s.framer.Feed(chunk)
		if n := s.framer.Dropped() - dropped; n > 0 {
			s.log.Warn("dropped oversize lines",
				zap.Int("count", n),
				zap.Int("total", s.framer.Dropped()))
		}
		for _, line := range lines {
			if err := s.handleLine(ctx, conn, line); err != nil {
				return err
			}
		}
		// Every line of the read has been applied, so a later update in the
		// same read has already overwritten an earlier one.
		if s.turns.ConsumePending() {
			if err := s.play(ctx, conn); err != nil {
				return err
			}
		}
	}
}

func (s *Session) login(ctx context.Context, conn transport.Conn) error {
	data, err := protocol.EncodeLogin(s.clientID)
	if err != nil {
		return err
	}
	if err := conn.Send(ctx, data); err != nil {
		return fmt.Errorf("send login: %w", err)
	}
	s.log.Info("login sent")
	return nil
}

func (s *Session) handleLine(ctx context.Context, conn transport.Conn, line string) error {
	cmd, err := protocol.Decode(line)
	if err != nil {
		s.log.Debug("discarding message", zap.String("line", line), zap.Error(err))
		return nil
	}

	switch cmd.Kind {
	case protocol.KindAction:
		s.turns.Apply(cmd.Update)
		board := cmd.Update.Board.String()
		s.log.Debug("turn update",
			zap.String("board", board),
			zap.String("turn", cmd.Update.Turn))
		if s.journal != nil {
			if err := s.journal.RecordUpdate(board, cmd.Update.IsMyTurn); err != nil {
				s.log.Warn("journal update", zap.Error(err))
			}
		}
	case protocol.KindLogin:
		s.log.Info("server requested login")
		return s.login(ctx, conn)
	case protocol.KindEvent:
		if cmd.Event == protocol.EventServerClosing {
			s.log.Info("server closing")
			return ErrServerClosing
		}
		s.log.Info("server event", zap.String("name", cmd.Event))
	case protocol.KindHelp:
		s.log.Info("server help", zap.String("line", line))
	default:
		if cmd.Method != "" {
			s.log.Debug("ignoring method", zap.String("method", cmd.Method))
		}
	}
	return nil
}

// play answers a pending turn. A board with no legal move skips the turn.
func (s *Session) play(ctx context.Context, conn transport.Conn) error {
	s.setState(StateMyTurn)
	defer s.setState(StateListening)

	board := s.turns.Board()
	if w := board.Winner(); w != game.Empty {
		s.log.Info("board already has a winner",
			zap.String("board", board.String()),
			zap.Stringer("winner", w))
	}
	if board.Full() {
		s.log.Warn("skipping turn", zap.String("board", board.String()), zap.Error(game.ErrNoLegalMove))
		return nil
	}

	m, err := s.strategy.Choose(board)
	if err != nil || !board.Legal(m) {
		if err == nil {
			err = fmt.Errorf("%w: strategy %s chose %v", game.ErrNoLegalMove, s.strategy.Name(), m)
		}
		s.log.Warn("skipping turn", zap.String("board", board.String()), zap.Error(err))
		return nil
	}

	data, err := protocol.EncodePutToken(m)
	if err != nil {
		return err
	}
	if err := conn.Send(ctx, data); err != nil {
		return fmt.Errorf("send move: %w", err)
	}
	s.moves++
	s.log.Info("move sent", zap.Int("x", m.Row), zap.Int("y", m.Col))

	if s.journal != nil {
		if err := s.journal.RecordMove(board.String(), m.Row, m.Col); err != nil {
			s.log.Warn("journal move", zap.Error(err))
		}
	}
	return nil
}

func (s *Session) setState(st State) {
	if s.state == st {
		return
	}
	s.log.Debug("state change", zap.String("from", string(s.state)), zap.String("to", string(st)))
	s.state = st
}

// State returns the lifecycle state. Not safe to call while Run is active.
func (s *Session) State() State { return s.state }

// Board returns the last board received. Not safe to call while Run is active.
func (s *Session) Board() game.Board { return s.turns.Board() }

// MovesSent counts PutToken commands sent. Not safe to call while Run is active.
func (s *Session) MovesSent() int { return s.moves }
