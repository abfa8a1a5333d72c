package tracking

import (
	"context"
	"errors"
	"sort"

	sq "github.com/Masterminds/squirrel"
	"gorm.io/gorm"

	"giftfinder/internal/domain"
	"giftfinder/internal/pkg/dberr"
)

const topReferersLimit = 5

type Repository interface {
	GetLink(ctx context.Context, linkID string) (*domain.AffiliateLink, error)
	GetProduct(ctx context.Context, productID string) (*domain.Product, error)
	CreateClick(ctx context.Context, click *Click) error
	GetClick(ctx context.Context, clickID string) (*Click, error)
	FindConversion(ctx context.Context, linkID, orderID string) (*Conversion, error)
	CreateConversion(ctx context.Context, conv *Conversion) error
	ProductStats(ctx context.Context, productID string, r Range) (*ProductStats, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetLink(ctx context.Context, linkID string) (*domain.AffiliateLink, error) {
	var link domain.AffiliateLink
	err := r.db.WithContext(ctx).Where("id = ?", linkID).First(&link).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrLinkNotFound
	}
	if err != nil {
		return nil, err
	}
	return &link, nil
}

func (r *repository) GetProduct(ctx context.Context, productID string) (*domain.Product, error) {
	var p domain.Product
	err := r.db.WithContext(ctx).Where("id = ?", productID).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) CreateClick(ctx context.Context, click *Click) error {
	return r.db.WithContext(ctx).Create(click).Error
}

func (r *repository) GetClick(ctx context.Context, clickID string) (*Click, error) {
	var click Click
	err := r.db.WithContext(ctx).Where("id = ?", clickID).First(&click).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrClickNotFound
	}
	if err != nil {
		return nil, err
	}
	return &click, nil
}

func (r *repository) FindConversion(ctx context.Context, linkID, orderID string) (*Conversion, error) {
	var conv Conversion
	err := r.db.WithContext(ctx).
		Where("link_id = ? AND order_id = ?", linkID, orderID).
		Limit(1).
		Find(&conv).Error
	if err != nil {
		return nil, err
	}
	if conv.ID == "" {
		return nil, nil
	}
	return &conv, nil
}

func (r *repository) CreateConversion(ctx context.Context, conv *Conversion) error {
	err := r.db.WithContext(ctx).Create(conv).Error
	if dberr.IsUniqueViolation(err) {
		return ErrDuplicateConversion
	}
	return err
}

type clickSummary struct {
	TotalClicks     int64
	DuplicateClicks int64
	Visitors        int64
}

type conversionSummary struct {
	Count      int64
	Revenue    float64
	Commission float64
}

type bucketRow struct {
	Bucket string
	Count  int64
}

// ProductStats aggregates clicks and conversions for one product in SQL.
// Duplicate clicks never count toward totals, daily series or referers.
func (r *repository) ProductStats(ctx context.Context, productID string, rng Range) (*ProductStats, error) {
	db := r.db.WithContext(ctx)
	dayExpr := dayBucket(r.db)

	var clicks clickSummary
	q := withRange(sq.Select(
		"COALESCE(SUM(CASE WHEN duplicate THEN 0 ELSE 1 END), 0) AS total_clicks",
		"COALESCE(SUM(CASE WHEN duplicate THEN 1 ELSE 0 END), 0) AS duplicate_clicks",
		"COUNT(DISTINCT ip_address) AS visitors",
	).From("tracking_clicks").Where(sq.Eq{"product_id": productID}), rng)
	if err := scanRow(db, q, &clicks); err != nil {
		return nil, err
	}

	var convs conversionSummary
	q = withRange(sq.Select(
		"COUNT(*) AS count",
		"COALESCE(SUM(order_value), 0) AS revenue",
		"COALESCE(SUM(commission), 0) AS commission",
	).From("tracking_conversions").Where(sq.Eq{"product_id": productID}), rng)
	if err := scanRow(db, q, &convs); err != nil {
		return nil, err
	}

	var clickDays []bucketRow
	q = withRange(sq.Select(dayExpr+" AS bucket", "COUNT(*) AS count").
		From("tracking_clicks").
		Where(sq.Eq{"product_id": productID, "duplicate": false}).
		GroupBy("bucket"), rng)
	if err := scanRow(db, q, &clickDays); err != nil {
		return nil, err
	}

	var convDays []bucketRow
	q = withRange(sq.Select(dayExpr+" AS bucket", "COUNT(*) AS count").
		From("tracking_conversions").
		Where(sq.Eq{"product_id": productID}).
		GroupBy("bucket"), rng)
	if err := scanRow(db, q, &convDays); err != nil {
		return nil, err
	}

	var referers []RefererStat
	q = withRange(sq.Select("referer", "COUNT(*) AS clicks").
		From("tracking_clicks").
		Where(sq.Eq{"product_id": productID, "duplicate": false}).
		Where(sq.NotEq{"referer": ""}).
		GroupBy("referer").
		OrderBy("clicks DESC", "referer ASC").
		Limit(topReferersLimit), rng)
	if err := scanRow(db, q, &referers); err != nil {
		return nil, err
	}
	if referers == nil {
		referers = []RefererStat{}
	}

	stats := &ProductStats{
		ProductID:       productID,
		TotalClicks:     clicks.TotalClicks,
		UniqueVisitors:  clicks.Visitors,
		DuplicateClicks: clicks.DuplicateClicks,
		Conversions:     convs.Count,
		Revenue:         roundCents(convs.Revenue),
		Commission:      roundCents(convs.Commission),
		Daily:           mergeDaily(clickDays, convDays),
		TopReferers:     referers,
	}
	if stats.TotalClicks > 0 {
		stats.ConversionRate = float64(stats.Conversions) / float64(stats.TotalClicks)
	}
	return stats, nil
}

func withRange(b sq.SelectBuilder, rng Range) sq.SelectBuilder {
	if rng.From != nil {
		b = b.Where(sq.GtOrEq{"created_at": rng.From.UTC()})
	}
	if rng.To != nil {
		b = b.Where(sq.LtOrEq{"created_at": rng.To.UTC()})
	}
	return b
}

// dayBucket returns a SQL expression formatting created_at as YYYY-MM-DD.
func dayBucket(db *gorm.DB) string {
	if db.Dialector.Name() == "postgres" {
		return "to_char(created_at AT TIME ZONE 'UTC', 'YYYY-MM-DD')"
	}
	return "strftime('%Y-%m-%d', created_at)"
}

func scanRow(db *gorm.DB, b sq.SelectBuilder, dest interface{}) error {
	query, args, err := b.ToSql()
	if err != nil {
		return err
	}
	return db.Raw(query, args...).Scan(dest).Error
}

func mergeDaily(clicks, convs []bucketRow) []DailyStat {
	byDay := make(map[string]*DailyStat, len(clicks))
	for _, row := range clicks {
		byDay[row.Bucket] = &DailyStat{Date: row.Bucket, Clicks: row.Count}
	}
	for _, row := range convs {
		d, ok := byDay[row.Bucket]
		if !ok {
			d = &DailyStat{Date: row.Bucket}
			byDay[row.Bucket] = d
		}
		d.Conversions = row.Count
	}

	out := make([]DailyStat, 0, len(byDay))
	for _, d := range byDay {
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}
