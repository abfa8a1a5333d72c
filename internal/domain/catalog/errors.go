package catalog

import "errors"

var (
	ErrProductNotFound = errors.New("product not found")
	ErrLinkNotFound    = errors.New("affiliate link not found")
)
