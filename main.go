package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/xerrors"

	"github.com/igentuman/TarkovBuddy/mode"
	"github.com/igentuman/TarkovBuddy/pipeline"
	"github.com/igentuman/TarkovBuddy/service/analysis"
	"github.com/igentuman/TarkovBuddy/service/config"
	"github.com/igentuman/TarkovBuddy/service/lgr"
	"github.com/igentuman/TarkovBuddy/service/rescache"
	"github.com/igentuman/TarkovBuddy/service/snapshot"
	"github.com/igentuman/TarkovBuddy/service/source"
)

const (
	// WARNING: this has to be bigger than the mode processor shutdown time
	waitOnShutdown = 8 * time.Second

	// Stand-in latency for the external analysis engines until they are
	// wired in
	fakeAnalysisDelay = 150 * time.Millisecond
)

var modeProcessors = map[string]mode.Processor{
	"monitor":  mode.Monitor,
	"snapshot": mode.Snapshot,
}

func main() {
	rootCtx := context.Background()
	canxCtx, canxFn := context.WithCancel(rootCtx)

	// Hook up a signal handler to cancel the context
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		lgr.Logger.Info(
			"received kill signal",
			slog.Any("signal", sig),
		)
		canxFn()
	}()

	// Load env vars if we are in DEV mode
	if os.Getenv("RUN_TIME_ENV") == "dev" || os.Getenv("RUN_TIME_ENV") == "" {
		lgr.Logger.Info("loading env vars from .env file")
		err := godotenv.Load()
		if err != nil {
			lgr.Logger.Warn("no .env file loaded", slog.Any("error", xerrors.New(err.Error())))
		}
	}

	modeType := "monitor"
	args := os.Args[1:]
	if len(args) > 0 {
		modeType = args[0]
	}

	modeProc, ok := modeProcessors[modeType]
	if !ok {
		lgr.Logger.Error("invalid mode", slog.String("mode", modeType))
		panic("invalid mode")
	}

	// Create the services needed for the mode processor
	// Config service
	cfgSvc := config.NewEnvVars()
	// Frame source service: replay a video input when one is configured,
	// otherwise capture the live screen
	var sourceSvc source.IService
	if cfgSvc.GetVideoInputURL() != "" {
		sourceSvc = source.NewVideo(cfgSvc)
	} else {
		sourceSvc = source.NewScreen(cfgSvc)
	}
	// Analysis service
	analysisSvc := analysis.NewFake(fakeAnalysisDelay)
	// Result cache service
	cacheSvc := rescache.NewMemory(cfgSvc.GetCacheMaxSize())
	// Snapshot service
	snapshotSvc := snapshot.NewFiles(cfgSvc)

	svcs := pipeline.ServicesFactory{
		CfgSvc:      cfgSvc,
		SourceSvc:   sourceSvc,
		AnalysisSvc: analysisSvc,
		CacheSvc:    cacheSvc,
		SnapshotSvc: snapshotSvc,
	}

	// Create mode processor result
	modeProcResult := make(chan error)
	defer close(modeProcResult)

	// Start the mode processor
	go func() {
		modeProcResult <- modeProc(canxCtx, svcs)
	}()

	// Wait for cancellation, mode proc or error
	for {
		select {
		case <-canxCtx.Done():
			lgr.Logger.Info(
				"capture pod context cancelled",
			)
			goto resume

		case err := <-modeProcResult:
			if err != nil {
				lgr.Logger.Info(
					"capture pod mode processor exited",
					slog.Any("error", xerrors.New(err.Error())),
				)
			}
			goto resume
		}
	}

	// Wait in a non-blocking way for `waitOnShutdown` for all the go routines to exit
	// This is needed because the go routines may need to report errors as they are exiting
resume:
	// Cancel the context if not already cancelled
	if canxCtx.Err() == nil {
		// Force cancel the context
		canxFn()
	}

	lgr.Logger.Info(
		"capture pod is waiting for all go routines to exit",
	)

	// The only way to exit the main function is to wait for the shutdown
	// duration
	timer := time.NewTimer(waitOnShutdown)
	defer timer.Stop()

	for {
		select {
		case <-timer.C:
			// Timer expired, proceed with shutdown
			lgr.Logger.Info(
				"capture pod shutdown waiting period expired. Exiting now",
				slog.Duration("period", waitOnShutdown),
			)

			return

		case err := <-modeProcResult:
			if err != nil {
				lgr.Logger.Info(
					"capture pod mode processor exited",
					slog.Any("error", xerrors.New(err.Error())),
				)
			}
		}
	}
}
