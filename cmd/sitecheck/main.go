package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/hamed0406/sitecheck/internal/config"
	"github.com/hamed0406/sitecheck/internal/domain"
	"github.com/hamed0406/sitecheck/internal/httpapi"
	"github.com/hamed0406/sitecheck/internal/logging"
	"github.com/hamed0406/sitecheck/internal/notify"
	"github.com/hamed0406/sitecheck/internal/probe"
	"github.com/hamed0406/sitecheck/internal/repo/memory"
	"github.com/hamed0406/sitecheck/internal/scheduler"
)

const version = "1.1"

const usage = `Usage: sitecheck [-c <configfile>] | -u <url> [ -i <interval>] | [-h] [-v]

Options:
    -h --help       Show this
    -v --version    Show version
    -c <configfile> Use this as configuration file
    -u <url>        Use this url to check
    -i <interval>   Check interval in seconds, default %d seconds
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("sitecheck", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { fmt.Fprintf(stderr, usage, config.DefaultInterval) }

	var (
		configPath  = fs.String("c", "", "configuration file")
		singleURL   = fs.String("u", "", "single url to check")
		intervalRaw = fs.String("i", "", "check interval in seconds")
		showVersion bool
	)
	fs.BoolVar(&showVersion, "v", false, "show version")
	fs.BoolVar(&showVersion, "version", false, "show version")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if showVersion {
		fmt.Fprintln(stdout, version)
		return 0
	}

	rc := config.Default()
	if *configPath != "" {
		loaded, err := config.LoadFile(*configPath)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
		rc = loaded
	}
	rc.AddURL(*singleURL)
	if *intervalRaw != "" {
		if err := rc.SetInterval(*intervalRaw); err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
	}

	reg := memory.New()
	rc.Populate(reg)

	// nothing to check must not leave a log directory behind
	env := config.FromEnv()
	logger := zap.NewNop()
	if reg.Len(domain.KindHTTP)+reg.Len(domain.KindTCP) > 0 {
		l, err := logging.NewLogger(env.LogDir, env.LogLevel)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
		defer l.Sync()
		logger = l
	}

	dispatcher := notify.NewDispatcher(notify.FromEndpoint(rc.NotificationEndpoint), rc.Identifier, logger)
	sw := scheduler.NewSweeper(
		logger,
		reg,
		probe.NewHTTPProber(probe.DefaultTimeout),
		probe.NewTCPProber(probe.DefaultTimeout),
		dispatcher,
		rc.Interval(),
		env.Concurrency,
	)
	sw.Console = stdout
	sw.DNS = probe.NewDNSDiagnoser()

	if env.StatusAddr != "" {
		hub := httpapi.NewHub(logger)
		sw.Observer = hub
		api := httpapi.NewServer(logger, reg, hub)
		api.Start(env.StatusAddr, api.Router(env.APIKeys, env.StatusRPM, env.StatusBurst))
		defer func() {
			sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = api.Shutdown(sctx)
		}()
	}

	logger.Info("sitecheck_start",
		zap.String("version", version),
		zap.String("config", *configPath),
		zap.Bool("notify", dispatcher.Enabled()),
	)

	err := sw.Run(ctx)
	switch {
	case errors.Is(err, scheduler.ErrNothingToCheck):
		return 0
	case errors.Is(err, context.Canceled):
		fmt.Fprintln(stdout)
		return 0
	case err != nil:
		logger.Error("sitecheck_failed", zap.Error(err))
		fmt.Fprintln(stderr, err)
		return 1
	}
	return 0
}
