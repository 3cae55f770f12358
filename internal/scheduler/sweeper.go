package scheduler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/hamed0406/sitecheck/internal/domain"
	"github.com/hamed0406/sitecheck/internal/probe"
	"github.com/hamed0406/sitecheck/internal/repo"
	"github.com/hamed0406/sitecheck/internal/transition"
)

// ErrNothingToCheck is returned by Run when no target is registered. It is a
// normal exit, not a failure.
var ErrNothingToCheck = errors.New("nothing to check")

// EventNotifier delivers a transition. Implementations must not block forever.
type EventNotifier interface {
	Notify(ctx context.Context, e domain.Event)
}

// Observer sees every transition after the registry is updated.
type Observer interface {
	Observe(e domain.Event)
}

type Sweeper struct {
	Logger      *zap.Logger
	Registry    repo.Registry
	HTTP        probe.Prober
	TCP         probe.Prober
	Notifier    EventNotifier
	Observer    Observer
	DNS         *probe.DNSDiagnoser
	Console     io.Writer
	Interval    time.Duration
	Timeout     time.Duration
	Concurrency int
	Now         func() time.Time

	consoleMu sync.Mutex
}

func NewSweeper(
	logger *zap.Logger,
	reg repo.Registry,
	httpProber probe.Prober,
	tcpProber probe.Prober,
	notifier EventNotifier,
	interval time.Duration,
	concurrency int,
) *Sweeper {
	if concurrency < 1 {
		concurrency = 1
	}
	if interval < time.Second {
		interval = time.Second
	}
	return &Sweeper{
		Logger:      logger,
		Registry:    reg,
		HTTP:        httpProber,
		TCP:         tcpProber,
		Notifier:    notifier,
		Console:     io.Discard,
		Interval:    interval,
		Timeout:     probe.DefaultTimeout,
		Concurrency: concurrency,
		Now:         time.Now,
	}
}

// Startup prints what will be checked. It returns ErrNothingToCheck when
// both collections are empty.
func (s *Sweeper) Startup() error {
	sites := s.Registry.All(domain.KindHTTP)
	hosts := s.Registry.All(domain.KindTCP)

	s.printf("Checking %d sites and %d TCP hosts\n", len(sites), len(hosts))
	if len(sites) == 0 && len(hosts) == 0 {
		s.printf("Nothing to check...\n")
		s.Logger.Info("nothing_to_check")
		return ErrNothingToCheck
	}

	s.printf("Checking sites:\n\n")
	for _, site := range sites {
		s.printf("%s\n", site)
	}
	s.printf("\nAnd TCP hosts:\n\n")
	for _, host := range hosts {
		s.printf("%s\n", host)
	}
	s.printf("\nWith an interval of %d seconds.\n", int(s.Interval/time.Second))

	s.Logger.Info("sweeper_started",
		zap.Strings("sites", sites),
		zap.Strings("tcp_hosts", hosts),
		zap.Duration("interval", s.Interval),
		zap.Int("concurrency", s.Concurrency),
	)
	return nil
}

// Run performs Startup, then sweeps and sleeps until ctx is cancelled. The
// interval is measured from the end of one sweep to the start of the next.
func (s *Sweeper) Run(ctx context.Context) error {
	if err := s.Startup(); err != nil {
		return err
	}

	for {
		s.SweepOnce(ctx)

		select {
		case <-ctx.Done():
			s.Logger.Info("sweeper_stopped")
			return ctx.Err()
		case <-time.After(s.Interval):
		}
	}
}

// SweepOnce checks every HTTP target, then every TCP target.
func (s *Sweeper) SweepOnce(ctx context.Context) {
	start := s.Now()
	s.sweepKind(ctx, domain.KindHTTP, s.HTTP)
	s.sweepKind(ctx, domain.KindTCP, s.TCP)
	s.Logger.Debug("sweep_done", zap.Duration("took", s.Now().Sub(start)))
}

func (s *Sweeper) sweepKind(ctx context.Context, kind domain.Kind, p probe.Prober) {
	ids := s.Registry.All(kind)
	if len(ids) == 0 || p == nil {
		return
	}

	if s.Concurrency <= 1 {
		for _, id := range ids {
			if ctx.Err() != nil {
				return
			}
			s.check(ctx, kind, p, id)
		}
		return
	}

	// each goroutine owns exactly one target, so state updates never race
	sem := make(chan struct{}, s.Concurrency)
	var wg sync.WaitGroup
	for _, id := range ids {
		id := id
		sem <- struct{}{}
		wg.Add(1)
		go func() {
			defer func() { <-sem }()
			defer wg.Done()
			s.check(ctx, kind, p, id)
		}()
	}
	wg.Wait()
}

func (s *Sweeper) check(ctx context.Context, kind domain.Kind, p probe.Prober, id string) {
	if id == "" {
		return
	}

	if kind == domain.KindTCP {
		s.printf("t")
	} else {
		s.printf(".")
	}

	at := s.Now()
	cctx, cancel := context.WithTimeout(ctx, s.Timeout)
	out := p.Probe(cctx, id)
	cancel()

	// shutdown aborted the probe; the target said nothing about its health
	if ctx.Err() != nil {
		return
	}

	if rec, ok := s.Registry.(repo.CheckRecorder); ok {
		rec.MarkChecked(kind, id, at.UTC())
	}
	if kind == domain.KindHTTP && !out.Up() {
		s.printf("X")
	}

	s.Logger.Debug("target_checked",
		zap.String("target", id),
		zap.String("kind", string(kind)),
		zap.Stringer("result", out.Result),
		zap.Int("status", out.StatusCode),
		zap.Duration("latency", out.Latency),
		zap.String("reason", out.Reason),
	)

	cur, ok := s.Registry.State(kind, id)
	if !ok {
		return
	}
	next, dir, fired := transition.Apply(cur, out.Result)
	if !fired {
		return
	}
	s.Registry.SetState(kind, id, next, at.UTC())

	e := domain.NewEvent(id, kind, dir, at)
	s.report(ctx, e, out)

	if s.Observer != nil {
		s.Observer.Observe(e)
	}
	if s.Notifier != nil {
		s.Notifier.Notify(ctx, e)
	}
}

func (s *Sweeper) report(ctx context.Context, e domain.Event, out probe.Outcome) {
	fields := []zap.Field{
		zap.String("event_id", e.ID),
		zap.String("target", e.Identity),
		zap.String("kind", string(e.Kind)),
		zap.String("reason", out.Reason),
		zap.String("at", e.Timestamp()),
	}

	if e.Direction == domain.DirectionUp {
		s.printf("Yey! %s is up again! %s\n", e.Identity, e.Timestamp())
		s.Logger.Info("target_up", fields...)
		return
	}

	s.printf("%s IS DOWN! %s\n", e.Identity, e.Timestamp())
	if e.Kind == domain.KindHTTP && s.DNS != nil {
		dns := s.DNS.DiagnoseURL(ctx, e.Identity)
		fields = append(fields,
			zap.String("dns_class", string(dns.Class)),
			zap.String("cname", dns.CNAME),
			zap.Strings("nameservers", dns.Nameservers),
			zap.String("resolver_error", dns.ResolverError),
		)
	}
	s.Logger.Warn("target_down", fields...)
}

func (s *Sweeper) printf(format string, args ...any) {
	if s.Console == nil {
		return
	}
	s.consoleMu.Lock()
	defer s.consoleMu.Unlock()
	fmt.Fprintf(s.Console, format, args...)
}
