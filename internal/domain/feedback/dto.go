package feedback

import "time"

type SubmitFeedbackRequest struct {
	SearchID  string `json:"searchId" validate:"required,notblank,max=100"`
	ProductID string `json:"productId" validate:"required,notblank,max=36"`
	Action    string `json:"action" validate:"required,oneof=like dislike"`
}

type FeedbackResponse struct {
	ID        string    `json:"id"`
	SearchID  string    `json:"searchId"`
	ProductID string    `json:"productId"`
	Action    Action    `json:"action"`
	CreatedAt time.Time `json:"createdAt"`
}

func toResponse(f *Feedback) FeedbackResponse {
	return FeedbackResponse{
		ID:        f.ID,
		SearchID:  f.SearchID,
		ProductID: f.ProductID,
		Action:    f.Action,
		CreatedAt: f.CreatedAt,
	}
}
