package feedback

import "errors"

var (
	ErrProductNotFound = errors.New("product not found")
	ErrInvalidAction   = errors.New("action must be like or dislike")
)
