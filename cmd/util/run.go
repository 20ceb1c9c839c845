package util

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/applicake-tools/searchcake/app"
	"github.com/applicake-tools/searchcake/info"
)

// Logger builds a development logger when -verbose is set and a production
// logger otherwise.
func Logger() *zap.Logger {
	var log *zap.Logger
	var err error
	if FlagVerbose {
		log, err = zap.NewDevelopment()
	} else {
		log, err = zap.NewProduction()
	}
	Assert(err, "Could not create logger")
	return log
}

// Runner returns a runner using log that tees tool output when -verbose
// is set.
func Runner(log *zap.Logger) app.Runner {
	return app.Runner{Log: log, Shell: "/bin/sh", Verbose: FlagVerbose}
}

// RunWrapped is the whole main function of a binary around a wrapped app:
// read the info, run the app until it finishes or the process is
// interrupted, and write the updated info.
func RunWrapped(a app.Wrapped) {
	run(func(ctx context.Context, r app.Runner, inf info.Info) (info.Info, error) {
		return r.RunWrapped(ctx, a, inf)
	})
}

// RunBasic is RunWrapped for basic apps.
func RunBasic(a app.Basic) {
	run(func(ctx context.Context, r app.Runner, inf info.Info) (info.Info, error) {
		return r.RunBasic(ctx, a, inf)
	})
}

func run(fn func(context.Context, app.Runner, info.Info) (info.Info, error)) {
	log := Logger()
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer stop()

	inf := ReadInfo()
	out, err := fn(ctx, Runner(log), inf)
	if err != nil {
		log.Error("app failed", zap.Error(err))
		log.Sync()
		stop()
		Fatalf("ERROR: %s.", err)
	}
	WriteInfo(out)
}
