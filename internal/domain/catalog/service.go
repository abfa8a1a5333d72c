package catalog

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"giftfinder/internal/domain"
	"giftfinder/internal/pkg/pagination"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) ListProducts(ctx context.Context, q ListProductsQuery) (pagination.Page[domain.Product], error) {
	q.Normalize()
	q.Category = strings.TrimSpace(q.Category)

	items, total, err := s.repo.ListProducts(ctx, q)
	if err != nil {
		return pagination.Page[domain.Product]{}, err
	}
	return pagination.NewPage(items, total, q.Query), nil
}

func (s *Service) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	return s.repo.GetProduct(ctx, strings.TrimSpace(id))
}

func (s *Service) CreateProduct(ctx context.Context, req *CreateProductRequest) (*domain.Product, error) {
	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = "USD"
	}
	p := &domain.Product{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
		Price:       *req.Price,
		Currency:    currency,
		ImageURL:    strings.TrimSpace(req.ImageURL),
		Category:    strings.TrimSpace(req.Category),
		Merchant:    strings.TrimSpace(req.Merchant),
	}
	if err := s.repo.CreateProduct(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// CreateLink adds an affiliate link to a product. Links are active unless
// the request says otherwise.
func (s *Service) CreateLink(ctx context.Context, productID string, req *CreateLinkRequest) (*domain.AffiliateLink, error) {
	product, err := s.repo.GetProduct(ctx, strings.TrimSpace(productID))
	if err != nil {
		return nil, err
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}
	l := &domain.AffiliateLink{
		ID:             uuid.NewString(),
		ProductID:      product.ID,
		Network:        strings.TrimSpace(req.Network),
		URL:            strings.TrimSpace(req.URL),
		CommissionRate: *req.CommissionRate,
		Active:         active,
	}
	if err := s.repo.CreateLink(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

func (s *Service) UpdateLink(ctx context.Context, id string, req *UpdateLinkRequest) (*domain.AffiliateLink, error) {
	l, err := s.repo.GetLink(ctx, strings.TrimSpace(id))
	if err != nil {
		return nil, err
	}
	if req.URL != nil {
		l.URL = strings.TrimSpace(*req.URL)
	}
	if req.CommissionRate != nil {
		l.CommissionRate = *req.CommissionRate
	}
	if req.Active != nil {
		l.Active = *req.Active
	}
	if err := s.repo.UpdateLink(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}
