package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"tictacbot/internal/config"
	"tictacbot/internal/game"
	"tictacbot/internal/game/tictactoe"
	"tictacbot/internal/session"
	"tictacbot/internal/storage"
	"tictacbot/internal/transport"
)

var (
	configPath = flag.String("config", os.Getenv("TICTAC_CONFIG"), "Path to a YAML config file")
	addr       = flag.String("addr", os.Getenv("TICTAC_ADDR"), "Game server host:port or ws:// URL")
	clientID   = flag.String("uuid", os.Getenv("TICTAC_UUID"), "Client identifier sent at login")
	strategy   = flag.String("strategy", "", "Move strategy")
	journal    = flag.String("journal", "", "Path of the SQLite match journal")
)

// applyOverrides lays flag and environment values over the file config.
// Empty values leave the file setting alone.
func applyOverrides(cfg *config.Config) {
	if *addr != "" {
		cfg.Server.Address = *addr
	}
	if *clientID != "" {
		cfg.Client.UUID = *clientID
	}
	if *strategy != "" {
		cfg.Client.Strategy = *strategy
	}
	if *journal != "" {
		cfg.Journal.Path = *journal
	}
}

func newLogger(cfg config.LogConfig) (*zap.Logger, error) {
	if cfg.Development {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func main() {
	flag.Parse()
	os.Exit(run())
}

// exitCode maps the reason a session ended to the process status. A server
// announcing ServerClosing and a local interrupt are clean shutdowns and exit
// 0. Every other ending, peer close included, exits 1.
func exitCode(err error) int {
	if errors.Is(err, session.ErrServerClosing) || errors.Is(err, context.Canceled) {
		return 0
	}
	return 1
}

// run wires the client together and plays one session. It returns 2 for a
// bad configuration, otherwise exitCode of the session's result: 0 when the
// server shuts down or the user interrupts, 1 on any failure.
func run() int {
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	applyOverrides(&cfg)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		return 2
	}

	log, err := newLogger(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "create logger: %v\n", err)
		return 2
	}
	defer log.Sync()

	seed := cfg.Client.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	registry := game.NewRegistry()
	tictactoe.Register(registry, seed)
	strat, ok := registry.Get(cfg.Client.Strategy)
	if !ok {
		log.Error(fmt.Sprintf("unknown strategy %q, have %s",
			cfg.Client.Strategy, strings.Join(registry.Names(), ", ")))
		return 2
	}

	runID := uuid.NewString()
	opts := session.Options{
		ID:           runID,
		ClientID:     cfg.Client.UUID,
		Strategy:     strat,
		MaxLineBytes: cfg.Client.MaxLineBytes,
		Logger:       log,
	}

	var store *storage.Store
	if cfg.Journal.Path != "" {
		store, err = storage.New(cfg.Journal.Path)
		if err != nil {
			log.Error("open journal", zap.Error(err))
			return 1
		}
		defer store.Close()
		if err := store.StartRun(runID, cfg.Server.Address, strat.Name()); err != nil {
			log.Error("start journal run", zap.Error(err))
			return 1
		}
		opts.Journal = store.Journal(runID)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	topts := transport.Options{
		DialTimeout: cfg.Server.DialTimeout,
		ReadTimeout: cfg.Server.ReadTimeout,
	}
	sess := session.New(func(ctx context.Context) (transport.Conn, error) {
		return transport.Dial(ctx, cfg.Server.Address, topts)
	}, opts)

	log.Info(fmt.Sprintf("Connecting to %s as %s", cfg.Server.Address, cfg.Client.UUID),
		zap.String("strategy", strat.Name()))
	err = sess.Run(ctx)

	if store != nil {
		if jerr := store.EndRun(runID, err.Error()); jerr != nil {
			log.Warn("end journal run", zap.Error(jerr))
		}
	}

	code := exitCode(err)
	if code == 0 {
		log.Info("session ended", zap.Error(err), zap.Int("moves", sess.MovesSent()))
	} else {
		log.Error("session failed", zap.Error(err), zap.Int("moves", sess.MovesSent()))
	}
	return code
}
