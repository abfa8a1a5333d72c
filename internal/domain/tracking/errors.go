package tracking

import "errors"

var (
	ErrLinkNotFound        = errors.New("affiliate link not found")
	ErrLinkInactive        = errors.New("affiliate link is inactive")
	ErrClickNotFound       = errors.New("click not found")
	ErrProductNotFound     = errors.New("product not found")
	ErrDuplicateConversion = errors.New("conversion already recorded for this order")
	ErrInvalidRange        = errors.New("invalid date range")
)
