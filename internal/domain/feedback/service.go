package feedback

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"giftfinder/internal/metrics"
)

type Service struct {
	repo Repository
	log  zerolog.Logger
}

func NewService(repo Repository, log zerolog.Logger) *Service {
	return &Service{repo: repo, log: log.With().Str("component", "feedback").Logger()}
}

// Submit stores a like/dislike. userID is nil for anonymous callers.
func (s *Service) Submit(ctx context.Context, req *SubmitFeedbackRequest, userID *int64, ip string) (*Feedback, error) {
	action := Action(strings.ToLower(strings.TrimSpace(req.Action)))
	if !action.Valid() {
		return nil, ErrInvalidAction
	}

	productID := strings.TrimSpace(req.ProductID)
	ok, err := s.repo.ProductExists(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrProductNotFound
	}

	f := &Feedback{
		ID:        uuid.NewString(),
		SearchID:  strings.TrimSpace(req.SearchID),
		ProductID: productID,
		Action:    action,
		UserID:    userID,
		IPAddress: ip,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, f); err != nil {
		return nil, err
	}

	metrics.RecordFeedback(string(action))
	s.log.Debug().Str("product_id", productID).Str("action", string(action)).Msg("feedback recorded")
	return f, nil
}

func (s *Service) Summary(ctx context.Context, productID string) (*Summary, error) {
	productID = strings.TrimSpace(productID)
	ok, err := s.repo.ProductExists(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrProductNotFound
	}
	return s.repo.Summary(ctx, productID)
}
