package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime/pprof"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/hailam/chessrules/internal/config"
	"github.com/hailam/chessrules/internal/game"
	"github.com/hailam/chessrules/internal/protocol"
	"github.com/hailam/chessrules/internal/session"
	"github.com/hailam/chessrules/internal/storage"
)

var (
	configPath = flag.String("config", "", "path to the YAML config file (default "+config.DefaultPath+" if present)")
	logLevel   = flag.String("log-level", "", "override the configured log level")
	startFEN   = flag.String("fen", "", "override the configured start position")
	cpuprofile = flag.String("cpuprofile", "", "write cpu profile to file")
)

func main() {
	flag.Parse()

	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}
	if *startFEN != "" {
		cfg.Game.StartFEN = *startFEN
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := newLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer logger.Sync()

	// Start CPU profiling if requested (via flag or environment variable)
	profilePath := *cpuprofile
	if profilePath == "" {
		profilePath = os.Getenv("CPUPROFILE")
	}
	if profilePath != "" {
		f, err := os.Create(profilePath)
		if err != nil {
			return fmt.Errorf("could not create CPU profile: %w", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			return fmt.Errorf("could not start CPU profile: %w", err)
		}
		defer pprof.StopCPUProfile()
		logger.Info("CPU profiling enabled", zap.String("path", profilePath))
	}

	store, err := storage.Open(storage.Options{InMemory: true})
	if err != nil {
		return err
	}
	defer store.Close()

	g, err := game.FromFEN(cfg.Game.StartFEN, game.WithLogger(logger))
	if err != nil {
		return err
	}

	sess := session.New(g,
		session.WithLogger(logger),
		session.WithStorage(store),
		session.WithQueueSize(cfg.Session.QueueSize),
		session.WithSubscriberBuffer(cfg.Session.SubscriberBuffer),
		session.WithProviderTimeout(cfg.Session.ProviderTimeout),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	sessCtx, cancelSession := context.WithCancel(ctx)
	sessDone := make(chan struct{})
	go func() {
		defer close(sessDone)
		sess.Run(sessCtx)
	}()

	handler := protocol.New(sess,
		protocol.WithLogger(logger),
		protocol.WithStorage(store),
		protocol.WithStartFEN(cfg.Game.StartFEN),
		protocol.WithDisplay(cfg.Protocol.Color, cfg.Protocol.Unicode),
		protocol.WithMaxPerft(cfg.Protocol.MaxPerft),
	)
	err = handler.Run(ctx, os.Stdin, os.Stdout)

	cancelSession()
	<-sessDone
	return err
}

// newLogger builds a logger writing to stderr so stdout stays reserved for
// protocol output.
func newLogger(c config.LogConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(c.Level)
	if err != nil {
		return nil, err
	}

	zc := zap.NewProductionConfig()
	if c.Development {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.OutputPaths = []string{"stderr"}
	zc.ErrorOutputPaths = []string{"stderr"}
	return zc.Build()
}
