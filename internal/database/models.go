package database

import (
	"giftfinder/internal/domain"
	"giftfinder/internal/domain/feedback"
	"giftfinder/internal/domain/media"
	"giftfinder/internal/domain/tracking"
)

// Models lists every persisted type in dependency order.
func Models() []interface{} {
	return []interface{}{
		&domain.User{},
		&domain.Profile{},
		&domain.Product{},
		&domain.AffiliateLink{},
		&tracking.Click{},
		&tracking.Conversion{},
		&feedback.Feedback{},
		&media.Media{},
	}
}
