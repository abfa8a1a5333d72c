package media

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, m *Media) error
	GetByID(ctx context.Context, id string) (*Media, error)
	List(ctx context.Context, q ListMediaQuery) ([]Media, int64, error)
	Update(ctx context.Context, m *Media) error
	Delete(ctx context.Context, id string) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, m *Media) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *repository) GetByID(ctx context.Context, id string) (*Media, error) {
	var m Media
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrMediaNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// List returns one page, newest first. MimeType filters by prefix so
// "image/" matches every image type.
func (r *repository) List(ctx context.Context, q ListMediaQuery) ([]Media, int64, error) {
	query := r.db.WithContext(ctx).Model(&Media{})
	if q.Folder != "" {
		query = query.Where("folder = ?", q.Folder)
	}
	if q.MimeType != "" {
		query = query.Where(`mime_type LIKE ? ESCAPE '\'`, likePrefix(q.MimeType))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []Media
	err := query.
		Order("created_at DESC").
		Order("id DESC").
		Offset(q.Offset()).
		Limit(q.Limit).
		Find(&items).Error
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *repository) Update(ctx context.Context, m *Media) error {
	return r.db.WithContext(ctx).
		Model(m).
		Select("alt", "caption", "folder", "updated_at").
		Updates(m).Error
}

func (r *repository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&Media{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrMediaNotFound
	}
	return nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// likePrefix matches values starting with prefix, with LIKE wildcards in
// prefix taken literally.
func likePrefix(prefix string) string {
	return likeEscaper.Replace(prefix) + "%"
}
