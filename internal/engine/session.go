package engine

import (
	"bufio"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"stockfish_harness/internal/domain"
	errs "stockfish_harness/internal/errors"
)

const (
	idNameToken = "id name "
	uciokToken  = "uciok"

	maxLineSize = 1024 * 1024
)

// Options are sent to the engine once, during the handshake.
type Options struct {
	IsChess960 bool
	Threads    int
	HashMB     int
	Ponder     bool
	MultiPV    int
	SlowMover  int
	SyzygyPath string
}

func DefaultOptions() Options {
	return Options{
		Threads:   8,
		HashMB:    32768,
		MultiPV:   7,
		SlowMover: 100,
	}
}

func (o Options) commands() []string {
	cmds := []string{
		"isready",
		"uci",
		fmt.Sprintf("setoption name Threads value %d", o.Threads),
		fmt.Sprintf("setoption name Hash value %d", o.HashMB),
		fmt.Sprintf("setoption name Ponder value %t", o.Ponder),
		fmt.Sprintf("setoption name MultiPV value %d", o.MultiPV),
		fmt.Sprintf("setoption name Slow Mover value %d", o.SlowMover),
	}
	if o.SyzygyPath != "" {
		cmds = append(cmds, "setoption name SyzygyPath value "+o.SyzygyPath)
	}
	if o.IsChess960 {
		cmds = append(cmds, "setoption name UCI_Chess960 value true")
	}
	return cmds
}

// Session owns one engine process and runs analyses on it one at a time.
//
// Reads from the engine block until a line arrives or the stream ends; there is no timeout, so
// an engine that stops talking blocks the caller (and every caller queued behind it) until Close.
type Session struct {
	mu       sync.Mutex
	proc     Process
	in       *bufio.Writer
	out      *bufio.Scanner
	log      *zap.SugaredLogger
	version  string
	chess960 bool
	broken   error

	closed    atomic.Bool
	closeOnce sync.Once
	closeErr  error
}

// NewSession performs the handshake. The process is closed if the handshake fails.
func NewSession(proc Process, opts Options, log *zap.SugaredLogger) (*Session, error) {
	out := bufio.NewScanner(proc.Stdout())
	out.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	s := &Session{
		proc:     proc,
		in:       bufio.NewWriter(proc.Stdin()),
		out:      out,
		log:      log,
		chess960: opts.IsChess960,
	}

	if err := s.handshake(opts); err != nil {
		_ = proc.Close()
		return nil, fmt.Errorf("engine handshake: %w", err)
	}

	log.Infow("engine ready", "version", s.version, "chess960", s.chess960)
	return s, nil
}

func (s *Session) handshake(opts Options) error {
	if err := s.send(opts.commands()...); err != nil {
		return err
	}

	for {
		line, err := s.readLine()
		if err != nil {
			return err
		}
		if i := strings.Index(line, idNameToken); i >= 0 {
			s.version = strings.TrimSpace(line[i+len(idNameToken):])
		} else if strings.Contains(line, uciokToken) {
			return nil
		}
	}
}

func (s *Session) EngineVersion() string {
	return s.version
}

func (s *Session) IsChess960() bool {
	return s.chess960
}

// AnalyzeFen searches the position to req.AnalysisDepth and returns the moves that stay within
// req.CpLossThreshold of the engine's best move.
func (s *Session) AnalyzeFen(req domain.AnalysisRequest) (domain.AnalysisResult, error) {
	if err := req.Validate(); err != nil {
		return domain.AnalysisResult{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed.Load() {
		return domain.AnalysisResult{}, errs.ErrSessionClosed
	}
	if s.broken != nil {
		return domain.AnalysisResult{}, s.broken
	}

	raw, err := s.search(req)
	if err != nil {
		if s.closed.Load() {
			err = fmt.Errorf("%w: %w", errs.ErrSessionClosed, err)
			s.log.Infow("analysis interrupted by close", "fen", req.Fen)
		} else {
			s.log.Errorw("engine connection lost", "fen", req.Fen, "error", err)
		}
		s.broken = err
		return domain.AnalysisResult{}, err
	}

	variations, err := Evaluate(raw, req)
	if err != nil {
		s.log.Errorw("failed to evaluate engine output", "fen", req.Fen, "error", err)
		return domain.AnalysisResult{}, err
	}

	s.log.Infow("analysis finished", "fen", req.Fen, "depth", req.AnalysisDepth, "variations", len(variations))

	return domain.AnalysisResult{
		StockfishVersion: s.version,
		Fen:              req.Fen,
		AnalysisDepth:    req.AnalysisDepth,
		MinAnalysisDepth: req.MinAnalysisDepth,
		CpLossThreshold:  req.CpLossThreshold,
		Variations:       variations,
	}, nil
}

func (s *Session) search(req domain.AnalysisRequest) (string, error) {
	err := s.send(
		"ucinewgame",
		"position fen "+req.Fen,
		fmt.Sprintf("go depth %d", req.AnalysisDepth),
	)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	for {
		line, err := s.readLine()
		if err != nil {
			return "", err
		}
		sb.WriteString(line)
		sb.WriteByte('\n')
		if strings.Contains(line, bestMoveToken) {
			return sb.String(), nil
		}
	}
}

// Close releases the process. An idle session sends quit first. With an analysis in flight the
// process is closed underneath it, the pending read fails with ErrProtocolDisconnect, and Close
// returns once that analysis has given up the session. Safe to call more than once.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		s.closed.Store(true)

		if s.mu.TryLock() {
			if s.broken == nil {
				_ = s.send("quit")
			}
			s.closeErr = s.proc.Close()
			s.mu.Unlock()
			return
		}

		s.log.Warnw("closing engine with an analysis in flight")
		s.closeErr = s.proc.Close()

		s.mu.Lock()
		if s.broken == nil {
			s.broken = errs.ErrSessionClosed
		}
		s.mu.Unlock()
	})
	return s.closeErr
}

func (s *Session) send(cmds ...string) error {
	for _, cmd := range cmds {
		s.log.Debugf("-> %s", cmd)
		if _, err := s.in.WriteString(cmd + "\n"); err != nil {
			return fmt.Errorf("%w: %v", errs.ErrProtocolDisconnect, err)
		}
	}
	if err := s.in.Flush(); err != nil {
		return fmt.Errorf("%w: %v", errs.ErrProtocolDisconnect, err)
	}
	return nil
}

func (s *Session) readLine() (string, error) {
	if s.out.Scan() {
		line := s.out.Text()
		s.log.Debugf("<- %s", line)
		return line, nil
	}
	if err := s.out.Err(); err != nil {
		return "", fmt.Errorf("%w: %v", errs.ErrProtocolDisconnect, err)
	}
	return "", errs.ErrProtocolDisconnect
}

// Evaluate turns the raw output of one search into the selected variations.
func Evaluate(raw string, req domain.AnalysisRequest) ([]domain.Variation, error) {
	text, err := NormalizeMateScores(raw)
	if err != nil {
		return nil, withFen(err, req.Fen)
	}

	out, err := ParseOutput(text)
	if err != nil {
		return nil, withFen(err, req.Fen)
	}

	agg := Aggregate(out.Records, req.MinAnalysisDepth)
	return Select(agg, out.BestMove, req.CpLossThreshold)
}

func withFen(err error, fen string) error {
	var fieldErr *errs.FieldError
	if errors.As(err, &fieldErr) {
		fieldErr.Fen = fen
	}
	return err
}
