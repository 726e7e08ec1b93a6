package engine

import (
	"io"
	"os/exec"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapio"
)

// Process is the pair of streams of a running engine.
type Process interface {
	Stdin() io.Writer
	Stdout() io.Reader
	Close() error
}

// ExecProcess is an engine executable started with os/exec.
type ExecProcess struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout io.ReadCloser
	stderr *zapio.Writer
	log    *zap.SugaredLogger
	once   sync.Once
	err    error
}

// exitGrace is how long Close waits for the engine to exit on its own before killing it.
const exitGrace = 3 * time.Second

func StartProcess(path string, log *zap.SugaredLogger) (*ExecProcess, error) {
	cmd := exec.Command(path)
	cmd.Dir = filepath.Dir(path)

	stdinPipe, err := cmd.StdinPipe()
	if err != nil {
		return nil, err
	}
	stdoutPipe, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}

	stderr := &zapio.Writer{Log: log.Desugar().With(zap.String("stream", "stderr")), Level: zap.WarnLevel}
	cmd.Stderr = stderr

	if err := cmd.Start(); err != nil {
		return nil, err
	}
	log.Infow("engine process started", "path", path, "pid", cmd.Process.Pid)

	return &ExecProcess{
		cmd:    cmd,
		stdin:  stdinPipe,
		stdout: stdoutPipe,
		stderr: stderr,
		log:    log,
	}, nil
}

func (p *ExecProcess) Stdin() io.Writer {
	return p.stdin
}

func (p *ExecProcess) Stdout() io.Reader {
	return p.stdout
}

// Close closes stdin and waits for the engine to exit, killing it after a grace period.
func (p *ExecProcess) Close() error {
	p.once.Do(func() {
		_ = p.stdin.Close()

		done := make(chan error, 1)
		go func() {
			done <- p.cmd.Wait()
		}()

		select {
		case p.err = <-done:
		case <-time.After(exitGrace):
			p.log.Warnw("engine did not exit, killing it", "pid", p.cmd.Process.Pid)
			_ = p.cmd.Process.Kill()
			<-done
		}
		_ = p.stderr.Close()
		p.log.Infow("engine process stopped", "pid", p.cmd.Process.Pid)
	})
	return p.err
}
