package feedback

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"giftfinder/internal/domain"
)

type Repository interface {
	ProductExists(ctx context.Context, productID string) (bool, error)
	Create(ctx context.Context, f *Feedback) error
	Summary(ctx context.Context, productID string) (*Summary, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) ProductExists(ctx context.Context, productID string) (bool, error) {
	var p domain.Product
	err := r.db.WithContext(ctx).Select("id").Where("id = ?", productID).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *repository) Create(ctx context.Context, f *Feedback) error {
	return r.db.WithContext(ctx).Create(f).Error
}

func (r *repository) Summary(ctx context.Context, productID string) (*Summary, error) {
	var rows []struct {
		Action Action
		Total  int64
	}
	err := r.db.WithContext(ctx).
		Model(&Feedback{}).
		Select("action, COUNT(*) AS total").
		Where("product_id = ?", productID).
		Group("action").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := &Summary{ProductID: productID}
	for _, row := range rows {
		switch row.Action {
		case ActionLike:
			out.Likes = row.Total
		case ActionDislike:
			out.Dislikes = row.Total
		}
	}
	return out, nil
}
