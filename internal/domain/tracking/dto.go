package tracking

// RecordClickRequest is the optional body of POST /tracking/click/:linkId.
type RecordClickRequest struct {
	SearchID string `json:"searchId" validate:"omitempty,max=100"`
}

// ClickInput carries the request metadata extracted by the handler.
type ClickInput struct {
	SearchID  string
	IPAddress string
	UserAgent string
	Referer   string
}

type RecordConversionRequest struct {
	ClickID    string   `json:"clickId" validate:"required,len=26"`
	OrderID    string   `json:"orderId" validate:"required,max=100"`
	OrderValue *float64 `json:"orderValue" validate:"required,gte=0"`
	Currency   string   `json:"currency" validate:"omitempty,len=3,alpha"`
	Commission *float64 `json:"commission" validate:"omitempty,gte=0"`
}

type ClickResponse struct {
	ClickID     string `json:"clickId"`
	LinkID      string `json:"linkId"`
	ProductID   string `json:"productId"`
	RedirectURL string `json:"redirectUrl"`
	Duplicate   bool   `json:"duplicate"`
}

// StatsQuery accepts RFC3339 timestamps or YYYY-MM-DD dates.
type StatsQuery struct {
	From string `form:"from"`
	To   string `form:"to"`
}
