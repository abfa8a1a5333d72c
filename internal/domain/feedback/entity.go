package feedback

import "time"

type Action string

const (
	ActionLike    Action = "like"
	ActionDislike Action = "dislike"
)

func (a Action) Valid() bool {
	return a == ActionLike || a == ActionDislike
}

// Feedback is a like/dislike on a product shown in a search result.
// UserID is nil for anonymous visitors.
type Feedback struct {
	ID        string    `json:"id" gorm:"primaryKey;size:36"`
	SearchID  string    `json:"searchId" gorm:"size:100;index;not null"`
	ProductID string    `json:"productId" gorm:"size:36;index;not null"`
	Action    Action    `json:"action" gorm:"size:10;not null"`
	UserID    *int64    `json:"userId,omitempty" gorm:"index"`
	IPAddress string    `json:"-" gorm:"size:64"`
	CreatedAt time.Time `json:"createdAt"`
}

func (Feedback) TableName() string { return "feedback" }

type Summary struct {
	ProductID string `json:"productId"`
	Likes     int64  `json:"likes"`
	Dislikes  int64  `json:"dislikes"`
}
