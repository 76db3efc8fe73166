package analytics

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/AngelCh415/voyage-analytics/internal/config"
	"github.com/AngelCh415/voyage-analytics/internal/models"
	"github.com/AngelCh415/voyage-analytics/internal/store"
	"github.com/AngelCh415/voyage-analytics/internal/utils"
)

// Backend is the travel API as seen by the analytics views.
type Backend interface {
	Voyages(ctx context.Context) ([]models.Voyage, error)
	Bookings(ctx context.Context) ([]models.Booking, error)
	Clients(ctx context.Context) ([]models.Client, error)
	RecentMessages(ctx context.Context, clientID int64, limit int) ([]models.Message, error)
}

// Service fetches a fresh snapshot per call and never fails: upstream errors
// are logged and turned into zero-valued results.
type Service struct {
	be         Backend
	log        *slog.Logger
	loc        *time.Location
	probeLimit int
	now        func() time.Time
}

type Option func(*Service)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(be Backend, log *slog.Logger, cfg config.Config, opts ...Option) *Service {
	s := &Service{
		be:         be,
		log:        log,
		loc:        cfg.Location,
		probeLimit: cfg.ProbeConcurrency,
		now:        time.Now,
	}
	if s.log == nil {
		s.log = slog.Default()
	}
	if s.loc == nil {
		s.loc = time.Local
	}
	if s.probeLimit <= 0 {
		s.probeLimit = 8
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Service) Summary(ctx context.Context) models.Summary {
	snap, err := s.fetch(ctx, true)
	if err != nil {
		s.degrade(ctx, "summary", err)
		return models.Summary{}
	}
	sum := Summarize(snap)
	sum.TotalConversations = s.CountConversations(ctx, snap.Clients())
	return sum
}

func (s *Service) Series(ctx context.Context, metric models.Metric, days int) models.Series {
	snap, err := s.fetch(ctx, false)
	if err != nil {
		s.degrade(ctx, "series", err)
		snap = store.NewSnapshot(nil, nil, nil)
	}
	return BucketLastNDays(snap, s.today(), days, metric)
}

// Dashboard computes the summary and both series from a single snapshot.
func (s *Service) Dashboard(ctx context.Context, days int) models.Dashboard {
	var out models.Dashboard
	snap, err := s.fetch(ctx, true)
	if err != nil {
		s.degrade(ctx, "dashboard", err)
		snap = store.NewSnapshot(nil, nil, nil)
	} else {
		out.Summary = Summarize(snap)
		out.Summary.TotalConversations = s.CountConversations(ctx, snap.Clients())
	}
	now := s.today()
	out.Bookings = BucketLastNDays(snap, now, days, models.MetricCount)
	out.Revenue = BucketLastNDays(snap, now, days, models.MetricRevenue)
	return out
}

// CountConversations counts distinct clients with at least one message.
// A failed probe counts as no conversation; the rest carry on.
func (s *Service) CountConversations(ctx context.Context, clients []models.Client) int {
	var (
		n     atomic.Int64
		g     errgroup.Group
		seen  = make(map[int64]struct{}, len(clients))
		fails atomic.Int64
	)
	g.SetLimit(s.probeLimit)
	for _, c := range clients {
		if c.ID == 0 {
			continue
		}
		if _, dup := seen[c.ID]; dup {
			continue
		}
		seen[c.ID] = struct{}{}
		id := c.ID
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			msgs, err := s.be.RecentMessages(ctx, id, 1)
			if err != nil {
				fails.Add(1)
				s.log.Debug("message probe failed", slog.Int64("client_id", id), slog.String("err", err.Error()))
				return nil
			}
			if len(msgs) > 0 {
				n.Add(1)
			}
			return nil
		})
	}
	_ = g.Wait()
	if f := fails.Load(); f > 0 {
		s.log.Warn("conversation count is partial",
			slog.Int64("failed_probes", f),
			slog.String("rid", utils.RID(ctx)))
	}
	return int(n.Load())
}

func (s *Service) fetch(ctx context.Context, withClients bool) (*store.Snapshot, error) {
	var (
		voyages  []models.Voyage
		bookings []models.Booking
		clients  []models.Client
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		voyages, err = s.be.Voyages(gctx)
		return err
	})
	g.Go(func() (err error) {
		bookings, err = s.be.Bookings(gctx)
		return err
	})
	if withClients {
		g.Go(func() (err error) {
			clients, err = s.be.Clients(gctx)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return store.NewSnapshot(voyages, bookings, clients), nil
}

func (s *Service) today() time.Time { return s.now().In(s.loc) }

func (s *Service) degrade(ctx context.Context, op string, err error) {
	utils.MarkDegraded(op)
	s.log.Warn("analytics degraded to zero values",
		slog.String("op", op),
		slog.String("err", err.Error()),
		slog.String("rid", utils.RID(ctx)))
}
