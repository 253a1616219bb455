package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/peterh/liner"

	"github.com/harshanarayana/kimi/repl"
	"github.com/harshanarayana/kimi/transcript"
)

const historyFile = ".kimi_history"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("kimi", flag.ContinueOnError)
	expr := fs.String("e", "", "evaluate `expr` and exit")
	transcriptPath := fs.String("transcript", os.Getenv("KIMI_TRANSCRIPT"), "record every evaluation in the SQLite database at `path`")
	historyPath := fs.String("history", os.Getenv("KIMI_HISTORY"), "REPL history `file` (default ~/"+historyFile+")")
	verbose := fs.Bool("v", false, "log diagnostics to stderr")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "usage: kimi [flags] [file]\n\nWith a file or -e, runs it and exits. Otherwise starts the REPL.\n\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}

	logger := log.New(io.Discard, "kimi: ", log.LstdFlags)
	if *verbose {
		logger.SetOutput(os.Stderr)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()

	opts := []repl.Option{repl.WithLogger(logger)}
	if *transcriptPath != "" {
		store, err := transcript.Open(*transcriptPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "kimi: %v\n", err)
			return 1
		}
		defer store.Close()
		logger.Printf("transcript %s, session %s", *transcriptPath, store.Session())
		opts = append(opts, repl.WithRecorder(store))
	}

	switch {
	case *expr != "":
		return runBatch(opts, func(s *repl.Session) error { return s.Execute(ctx, *expr) })
	case fs.NArg() > 0:
		path := fs.Arg(0)
		return runBatch(opts, func(s *repl.Session) error { return s.RunFile(ctx, path) })
	default:
		return runREPL(ctx, opts, *historyPath, logger)
	}
}

func runBatch(opts []repl.Option, do func(*repl.Session) error) int {
	s := repl.NewSession(repl.Batch, os.Stdout, os.Stderr, opts...)
	if err := do(s); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runREPL(ctx context.Context, opts []repl.Option, histPath string, logger *log.Logger) int {
	if histPath == "" {
		home, _ := os.UserHomeDir()
		histPath = filepath.Join(home, historyFile)
	}

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if f, err := os.Open(histPath); err == nil {
		if _, err := ln.ReadHistory(f); err != nil {
			logger.Printf("read history: %v", err)
		}
		f.Close()
	}
	defer func() {
		f, err := os.Create(histPath)
		if err != nil {
			logger.Printf("save history: %v", err)
			return
		}
		if _, err := ln.WriteHistory(f); err != nil {
			logger.Printf("save history: %v", err)
		}
		f.Close()
	}()

	fmt.Println("kimi REPL. Type :help for commands, :quit or Ctrl+D to exit.")
	s := repl.NewSession(repl.Interactive, os.Stdout, os.Stderr, opts...)
	if err := s.Loop(ctx, ln); err != nil && ctx.Err() == nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Println()
	return 0
}
