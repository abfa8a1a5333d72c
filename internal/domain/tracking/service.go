package tracking

import (
	"context"
	"crypto/rand"
	"errors"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"giftfinder/internal/domain"
	"giftfinder/internal/metrics"
)

const (
	maxUserAgentLen = 512
	maxRefererLen   = 1024
	publishTimeout  = 2 * time.Second
)

// Publisher is the subset of the event stream the service needs.
type Publisher interface {
	Publish(ctx context.Context, key string, payload any) error
}

type Options struct {
	DedupeWindow  time.Duration
	StatsCacheTTL time.Duration
}

// Service records affiliate clicks and conversions and aggregates stats.
// Cache and publisher failures are logged and never fail a request.
type Service struct {
	repo      Repository
	cache     Cache
	publisher Publisher
	log       zerolog.Logger
	opts      Options
	nowFn     func() time.Time
}

func NewService(repo Repository, cache Cache, publisher Publisher, log zerolog.Logger, opts Options) *Service {
	if cache == nil {
		cache = NopCache{}
	}
	if opts.DedupeWindow <= 0 {
		opts.DedupeWindow = 30 * time.Second
	}
	if opts.StatsCacheTTL <= 0 {
		opts.StatsCacheTTL = time.Minute
	}
	return &Service{
		repo:      repo,
		cache:     cache,
		publisher: publisher,
		log:       log.With().Str("component", "tracking").Logger(),
		opts:      opts,
		nowFn:     func() time.Time { return time.Now().UTC() },
	}
}

// RecordClick stores a click on an active link and returns it with the link
// so the caller can redirect.
func (s *Service) RecordClick(ctx context.Context, linkID string, in ClickInput) (*Click, *domain.AffiliateLink, error) {
	link, err := s.repo.GetLink(ctx, strings.TrimSpace(linkID))
	if err != nil {
		return nil, nil, err
	}
	if !link.Active {
		return nil, nil, ErrLinkInactive
	}

	first, err := s.cache.MarkClick(ctx, link.ID, in.IPAddress, s.opts.DedupeWindow)
	if err != nil {
		s.log.Warn().Err(err).Str("link_id", link.ID).Msg("click dedupe unavailable")
		first = true
	}

	now := s.nowFn()
	click := &Click{
		ID:        ulid.MustNew(ulid.Timestamp(now), rand.Reader).String(),
		LinkID:    link.ID,
		ProductID: link.ProductID,
		SearchID:  strings.TrimSpace(in.SearchID),
		IPAddress: in.IPAddress,
		UserAgent: truncate(in.UserAgent, maxUserAgentLen),
		Referer:   truncate(in.Referer, maxRefererLen),
		Duplicate: !first,
		CreatedAt: now,
	}
	if err := s.repo.CreateClick(ctx, click); err != nil {
		return nil, nil, err
	}

	metrics.RecordClick(click.Duplicate)
	s.invalidate(ctx, link.ProductID)
	s.publish(ctx, Event{
		Type:       EventClickRecorded,
		OccurredAt: now,
		ProductID:  link.ProductID,
		LinkID:     link.ID,
		Click:      click,
	})

	return click, link, nil
}

// RecordConversion attributes an order to a previous click. When commission
// is not given it is derived from the link's commission rate.
func (s *Service) RecordConversion(ctx context.Context, req *RecordConversionRequest) (*Conversion, error) {
	click, err := s.repo.GetClick(ctx, strings.TrimSpace(req.ClickID))
	if err != nil {
		return nil, err
	}

	orderID := strings.TrimSpace(req.OrderID)
	existing, err := s.repo.FindConversion(ctx, click.LinkID, orderID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrDuplicateConversion
	}

	link, err := s.repo.GetLink(ctx, click.LinkID)
	if err != nil {
		return nil, err
	}

	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = "USD"
		if product, err := s.repo.GetProduct(ctx, click.ProductID); err == nil && product.Currency != "" {
			currency = product.Currency
		}
	}

	orderValue := roundCents(*req.OrderValue)
	commission := orderValue * link.CommissionRate
	if req.Commission != nil {
		commission = *req.Commission
	}

	now := s.nowFn()
	conv := &Conversion{
		ID:         uuid.NewString(),
		ClickID:    click.ID,
		LinkID:     click.LinkID,
		ProductID:  click.ProductID,
		OrderID:    orderID,
		OrderValue: orderValue,
		Currency:   currency,
		Commission: roundCents(commission),
		CreatedAt:  now,
	}
	if err := s.repo.CreateConversion(ctx, conv); err != nil {
		return nil, err
	}

	metrics.RecordConversion(conv.Currency, conv.OrderValue)
	s.invalidate(ctx, conv.ProductID)
	s.publish(ctx, Event{
		Type:       EventConversionRecorded,
		OccurredAt: now,
		ProductID:  conv.ProductID,
		LinkID:     conv.LinkID,
		Conversion: conv,
	})

	return conv, nil
}

// Stats returns aggregated click/conversion figures for a product.
func (s *Service) Stats(ctx context.Context, productID string, rng Range) (*ProductStats, error) {
	if rng.From != nil && rng.To != nil && rng.From.After(*rng.To) {
		return nil, ErrInvalidRange
	}
	productID = strings.TrimSpace(productID)
	if _, err := s.repo.GetProduct(ctx, productID); err != nil {
		return nil, err
	}

	cached, err := s.cache.GetStats(ctx, productID, rng)
	if err != nil {
		s.log.Warn().Err(err).Str("product_id", productID).Msg("stats cache read failed")
	}
	if cached != nil {
		metrics.RecordStatsCache(true)
		return cached, nil
	}
	metrics.RecordStatsCache(false)

	stats, err := s.repo.ProductStats(ctx, productID, rng)
	if err != nil {
		return nil, err
	}
	if err := s.cache.SetStats(ctx, productID, rng, stats, s.opts.StatsCacheTTL); err != nil {
		s.log.Warn().Err(err).Str("product_id", productID).Msg("stats cache write failed")
	}
	return stats, nil
}

func (s *Service) invalidate(ctx context.Context, productID string) {
	if err := s.cache.InvalidateStats(ctx, productID); err != nil {
		s.log.Warn().Err(err).Str("product_id", productID).Msg("stats cache invalidation failed")
	}
}

func (s *Service) publish(ctx context.Context, evt Event) {
	if s.publisher == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := s.publisher.Publish(ctx, evt.ProductID, evt); err != nil {
		s.log.Error().Err(err).Str("event", evt.Type).Str("product_id", evt.ProductID).Msg("publish tracking event")
	}
}

// ParseRange parses the from/to query values. Date-only "to" values include
// the whole day.
func ParseRange(q StatsQuery) (Range, error) {
	var rng Range
	if q.From != "" {
		t, err := parseBound(q.From, false)
		if err != nil {
			return Range{}, ErrInvalidRange
		}
		rng.From = &t
	}
	if q.To != "" {
		t, err := parseBound(q.To, true)
		if err != nil {
			return Range{}, ErrInvalidRange
		}
		rng.To = &t
	}
	if rng.From != nil && rng.To != nil && rng.From.After(*rng.To) {
		return Range{}, ErrInvalidRange
	}
	return rng, nil
}

func parseBound(value string, endOfDay bool) (time.Time, error) {
	value = strings.TrimSpace(value)
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.DateOnly, value)
	if err != nil {
		return time.Time{}, errors.New("unsupported time format")
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return t, nil
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

func truncate(s string, max int) string {
	s = strings.TrimSpace(s)
	if len(s) <= max {
		return s
	}
	// cut on a rune boundary so the result stays valid UTF-8
	n := max
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
