package tracking

import "time"

// Click is one visit to an affiliate link. IDs are ULIDs so they sort by
// time and can be handed to merchants as a sub-id.
type Click struct {
	ID        string    `json:"id" gorm:"primaryKey;size:26"`
	LinkID    string    `json:"linkId" gorm:"size:36;index;not null"`
	ProductID string    `json:"productId" gorm:"size:36;index;not null"`
	SearchID  string    `json:"searchId,omitempty" gorm:"size:100"`
	IPAddress string    `json:"ipAddress" gorm:"size:64"`
	UserAgent string    `json:"userAgent" gorm:"size:512"`
	Referer   string    `json:"referer" gorm:"size:1024"`
	Duplicate bool      `json:"duplicate" gorm:"not null"`
	CreatedAt time.Time `json:"createdAt" gorm:"index"`
}

func (Click) TableName() string { return "tracking_clicks" }

type Conversion struct {
	ID         string    `json:"id" gorm:"primaryKey;size:36"`
	ClickID    string    `json:"clickId" gorm:"size:26;index;not null"`
	LinkID     string    `json:"linkId" gorm:"size:36;not null;uniqueIndex:idx_conversion_link_order"`
	ProductID  string    `json:"productId" gorm:"size:36;index;not null"`
	OrderID    string    `json:"orderId" gorm:"size:100;not null;uniqueIndex:idx_conversion_link_order"`
	OrderValue float64   `json:"orderValue"`
	Currency   string    `json:"currency" gorm:"size:3"`
	Commission float64   `json:"commission"`
	CreatedAt  time.Time `json:"createdAt" gorm:"index"`
}

func (Conversion) TableName() string { return "tracking_conversions" }

// Range bounds a stats query. Nil bounds are open.
type Range struct {
	From *time.Time
	To   *time.Time
}

func (r Range) key() string {
	format := func(t *time.Time) string {
		if t == nil {
			return "-"
		}
		return t.UTC().Format(time.RFC3339)
	}
	return format(r.From) + ":" + format(r.To)
}

type ProductStats struct {
	ProductID       string        `json:"productId"`
	TotalClicks     int64         `json:"totalClicks"`
	UniqueVisitors  int64         `json:"uniqueVisitors"`
	DuplicateClicks int64         `json:"duplicateClicks"`
	Conversions     int64         `json:"conversions"`
	ConversionRate  float64       `json:"conversionRate"`
	Revenue         float64       `json:"revenue"`
	Commission      float64       `json:"commission"`
	Daily           []DailyStat   `json:"daily"`
	TopReferers     []RefererStat `json:"topReferers"`
}

type DailyStat struct {
	Date        string `json:"date"`
	Clicks      int64  `json:"clicks"`
	Conversions int64  `json:"conversions"`
}

type RefererStat struct {
	Referer string `json:"referer"`
	Clicks  int64  `json:"clicks"`
}

const (
	EventClickRecorded      = "click.recorded"
	EventConversionRecorded = "conversion.recorded"
)

// Event is the message published for every recorded click or conversion.
type Event struct {
	Type       string      `json:"type"`
	OccurredAt time.Time   `json:"occurredAt"`
	ProductID  string      `json:"productId"`
	LinkID     string      `json:"linkId"`
	Click      *Click      `json:"click,omitempty"`
	Conversion *Conversion `json:"conversion,omitempty"`
}
