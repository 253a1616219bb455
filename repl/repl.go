// Package repl is the front end around the interpreter core: it runs
// programs from files or an interactive prompt and decides what happens
// to failures.
package repl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/peterh/liner"

	kimi "github.com/harshanarayana/kimi/core"
)

// Policy says what a Session does with a failed evaluation.
type Policy int

const (
	// Batch returns failures to the caller, which is expected to stop.
	Batch Policy = iota
	// Interactive prints failures and carries on.
	Interactive
)

const (
	PromptMain = "kimi> "
	PromptCont = "...   "
)

const helpText = `REPL commands:
  :help    Show this help
  :quit    Exit the REPL
Ctrl+C cancels the current input, Ctrl+D exits.`

// Recorder stores evaluation traces.
type Recorder interface {
	Record(ctx context.Context, t *kimi.Trace) error
}

// LineReader is the part of *liner.State the loop needs.
type LineReader interface {
	Prompt(prompt string) (string, error)
	AppendHistory(item string)
}

type Session struct {
	policy    Policy
	env       *kimi.Environment
	evaluator *kimi.Evaluator
	out       io.Writer
	errOut    io.Writer
	recorder  Recorder
	logger    *log.Logger
	now       func() time.Time
}

type Option func(*Session)

// WithRecorder stores a trace of every evaluation in r.
func WithRecorder(r Recorder) Option {
	return func(s *Session) { s.recorder = r }
}

func WithLogger(l *log.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// WithEnvironment runs programs in env instead of a fresh standard environment.
func WithEnvironment(env *kimi.Environment) Option {
	return func(s *Session) { s.env = env }
}

func WithEvaluator(ev *kimi.Evaluator) Option {
	return func(s *Session) { s.evaluator = ev }
}

// NewSession creates a session writing results to out and, under the
// Interactive policy, failures to errOut.
func NewSession(policy Policy, out, errOut io.Writer, opts ...Option) *Session {
	s := &Session{
		policy:    policy,
		out:       out,
		errOut:    errOut,
		evaluator: &kimi.Evaluator{},
		logger:    log.New(io.Discard, "", 0),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.env == nil {
		s.env = kimi.StandardEnvironment()
	}
	return s
}

func (s *Session) Policy() Policy { return s.policy }

func (s *Session) Environment() *kimi.Environment { return s.env }

// Execute runs one program in the session environment and prints its value.
// A failure is printed and swallowed under Interactive, returned under Batch.
func (s *Session) Execute(ctx context.Context, src string) error {
	v, err := s.evaluator.Run(src, s.env)
	s.record(ctx, kimi.NewTrace(src, v, err, s.now()))
	if err != nil {
		return s.fail(err)
	}
	fmt.Fprintln(s.out, v.String())
	return nil
}

// RunFile executes the whole file at path as a single program.
func (s *Session) RunFile(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	s.logger.Printf("running %s", path)
	return s.Execute(ctx, string(data))
}

func (s *Session) fail(err error) error {
	if s.policy == Interactive {
		fmt.Fprintln(s.errOut, err)
		return nil
	}
	return err
}

func (s *Session) record(ctx context.Context, t *kimi.Trace) {
	if s.recorder == nil {
		return
	}
	if err := s.recorder.Record(ctx, t); err != nil {
		s.logger.Printf("transcript: %v", err)
	}
}

// Loop reads programs from lr until end of input or :quit. Input spanning
// several lines is collected until its parens and strings are closed.
func (s *Session) Loop(ctx context.Context, lr LineReader) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		src, ok, err := s.read(lr)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}

		trimmed := strings.TrimSpace(src)
		switch {
		case trimmed == "":
			continue
		case strings.HasPrefix(trimmed, ":"):
			if s.command(trimmed) {
				return nil
			}
			continue
		}

		if err := s.Execute(ctx, src); err != nil {
			return err
		}
		lr.AppendHistory(strings.ReplaceAll(src, "\n", " "))
	}
}

// command handles a REPL command and reports whether the loop should stop.
func (s *Session) command(cmd string) bool {
	switch strings.ToLower(cmd) {
	case ":quit", ":q":
		return true
	case ":help":
		fmt.Fprintln(s.out, helpText)
	default:
		fmt.Fprintf(s.out, "unknown command %s. Type :help for help.\n", cmd)
	}
	return false
}

// read collects one program. The bool is false at end of input.
func (s *Session) read(lr LineReader) (string, bool, error) {
	var b strings.Builder
	for {
		prompt := PromptMain
		if b.Len() > 0 {
			prompt = PromptCont
		}
		line, err := lr.Prompt(prompt)
		switch {
		case errors.Is(err, liner.ErrPromptAborted):
			b.Reset()
			continue
		case errors.Is(err, io.EOF):
			if b.Len() > 0 {
				return b.String(), true, nil
			}
			return "", false, nil
		case err != nil:
			return "", false, fmt.Errorf("read input: %w", err)
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		if _, err := kimi.Tokenize(b.String()); !kimi.IsIncomplete(err) {
			return b.String(), true, nil
		}
	}
}
