package catalog

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"giftfinder/internal/domain"
)

type Repository interface {
	ListProducts(ctx context.Context, q ListProductsQuery) ([]domain.Product, int64, error)
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	CreateProduct(ctx context.Context, p *domain.Product) error
	GetLink(ctx context.Context, id string) (*domain.AffiliateLink, error)
	CreateLink(ctx context.Context, l *domain.AffiliateLink) error
	UpdateLink(ctx context.Context, l *domain.AffiliateLink) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) ListProducts(ctx context.Context, q ListProductsQuery) ([]domain.Product, int64, error) {
	query := r.db.WithContext(ctx).Model(&domain.Product{})
	if q.Category != "" {
		query = query.Where("category = ?", q.Category)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var products []domain.Product
	err := query.
		Order("created_at DESC").
		Order("id").
		Offset(q.Offset()).
		Limit(q.Limit).
		Find(&products).Error
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// GetProduct loads the product with its links, active ones first.
func (r *repository) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	var p domain.Product
	err := r.db.WithContext(ctx).
		Preload("Links", func(db *gorm.DB) *gorm.DB {
			return db.Order("active DESC").Order("created_at")
		}).
		Where("id = ?", id).
		First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) CreateProduct(ctx context.Context, p *domain.Product) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *repository) GetLink(ctx context.Context, id string) (*domain.AffiliateLink, error) {
	var l domain.AffiliateLink
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&l).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrLinkNotFound
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *repository) CreateLink(ctx context.Context, l *domain.AffiliateLink) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *repository) UpdateLink(ctx context.Context, l *domain.AffiliateLink) error {
	return r.db.WithContext(ctx).
		Model(l).
		Select("url", "commission_rate", "active", "updated_at").
		Updates(l).Error
}
