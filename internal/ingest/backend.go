package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"time"

	"github.com/AngelCh415/voyage-analytics/internal/config"
	"github.com/AngelCh415/voyage-analytics/internal/models"
	"github.com/AngelCh415/voyage-analytics/internal/utils"
)

// maxPages bounds list paging against a backend that ignores offset.
const maxPages = 500

// Backend reads trips, bookings, clients and messages from the travel API.
type Backend struct {
	c        HTTPClient
	base     string
	bo       utils.Backoff
	pageSize int
	loc      *time.Location
	log      *slog.Logger
}

func NewBackend(c HTTPClient, log *slog.Logger, cfg config.Config) *Backend {
	loc := cfg.Location
	if loc == nil {
		loc = time.Local
	}
	if log == nil {
		log = slog.Default()
	}
	pageSize := cfg.PageSize
	if pageSize <= 0 || pageSize > config.MaxPageSize {
		pageSize = config.MaxPageSize
	}
	return &Backend{
		c:        c,
		base:     cfg.BackendURL,
		bo:       utils.NewBackoff(cfg.RetryBase, max0(cfg.RetryAttempts-1)),
		pageSize: pageSize,
		loc:      loc,
		log:      log,
	}
}

func (b *Backend) Voyages(ctx context.Context) ([]models.Voyage, error) {
	raws, err := listAll[rawVoyage](ctx, b, "trips", url.Values{"include_inactive": {"true"}})
	if err != nil {
		return nil, err
	}
	out := make([]models.Voyage, 0, len(raws))
	for _, r := range raws {
		out = append(out, normalizeVoyage(r, b.loc))
	}
	return out, nil
}

func (b *Backend) Bookings(ctx context.Context) ([]models.Booking, error) {
	raws, err := listAll[rawBooking](ctx, b, "bookings", nil)
	if err != nil {
		return nil, err
	}
	out := make([]models.Booking, 0, len(raws))
	for _, r := range raws {
		out = append(out, normalizeBooking(r, b.loc))
	}
	return out, nil
}

func (b *Backend) Clients(ctx context.Context) ([]models.Client, error) {
	raws, err := listAll[rawClient](ctx, b, "clients", nil)
	if err != nil {
		return nil, err
	}
	out := make([]models.Client, 0, len(raws))
	for _, r := range raws {
		out = append(out, normalizeClient(r, b.loc))
	}
	return out, nil
}

// RecentMessages returns up to limit of the client's latest messages.
func (b *Backend) RecentMessages(ctx context.Context, clientID int64, limit int) ([]models.Message, error) {
	if limit <= 0 {
		limit = 1
	}
	q := url.Values{"limit": {strconv.Itoa(limit)}}
	var raws []rawMessage
	if err := b.get(ctx, "messages", "/messages/recent/"+strconv.FormatInt(clientID, 10), q, &raws); err != nil {
		return nil, err
	}
	out := make([]models.Message, 0, len(raws))
	for _, r := range raws {
		out = append(out, normalizeMessage(r, b.loc))
	}
	return out, nil
}

func (b *Backend) get(ctx context.Context, resource, path string, q url.Values, dst any) error {
	u := b.base + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	start := time.Now()
	err := GetJSONWithRetry(ctx, b.c, u, dst, b.bo)
	utils.ObserveUpstream(resource, err, time.Since(start))
	if err != nil {
		return fmt.Errorf("fetch %s: %w", resource, err)
	}
	return nil
}

// listAll pages through a list endpoint until a short page comes back.
func listAll[T any](ctx context.Context, b *Backend, resource string, extra url.Values) ([]T, error) {
	var all []T
	offset := 0
	for page := 0; page < maxPages; page++ {
		q := url.Values{}
		for k, v := range extra {
			q[k] = v
		}
		q.Set("limit", strconv.Itoa(b.pageSize))
		q.Set("offset", strconv.Itoa(offset))

		var rows []T
		if err := b.get(ctx, resource, "/"+resource, q, &rows); err != nil {
			return nil, err
		}
		all = append(all, rows...)
		// a longer page than asked for means the backend ignores paging
		if len(rows) != b.pageSize {
			break
		}
		offset += len(rows)
	}
	b.log.Debug("listed", slog.String("resource", resource), slog.Int("count", len(all)))
	return all, nil
}
