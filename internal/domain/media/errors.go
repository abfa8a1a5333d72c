package media

import "errors"

var (
	ErrMediaNotFound   = errors.New("media not found")
	ErrForbidden       = errors.New("not allowed to modify this media")
	ErrEmptyFile       = errors.New("file is empty")
	ErrFileTooLarge    = errors.New("file exceeds maximum allowed size")
	ErrInvalidMimeType = errors.New("file type is not allowed")
)
