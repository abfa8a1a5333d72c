package media

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"giftfinder/internal/pkg/pagination"
	"giftfinder/internal/pkg/validator"
)

func strPtr(s string) *string { return &s }

func TestUpdateMediaRequest_Validation(t *testing.T) {
	cases := []struct {
		name  string
		req   UpdateMediaRequest
		field string
	}{
		{"alt over 200 chars rejected", UpdateMediaRequest{Alt: strPtr(strings.Repeat("a", 201))}, "alt"},
		{"caption over 500 chars rejected", UpdateMediaRequest{Caption: strPtr(strings.Repeat("c", 501))}, "caption"},
		{"folder over 100 chars rejected", UpdateMediaRequest{Folder: strPtr(strings.Repeat("f", 101))}, "folder"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			errs := validator.Validate(&tc.req)
			assert.Equal(t, map[string]string{tc.field: "max"}, errs)
		})
	}

	ok := UpdateMediaRequest{
		Alt:     strPtr(strings.Repeat("a", 200)),
		Caption: strPtr(strings.Repeat("c", 500)),
		Folder:  strPtr(""),
	}
	assert.Nil(t, validator.Validate(&ok))
	assert.Nil(t, validator.Validate(&UpdateMediaRequest{}))
}

func TestListMediaQuery_Validation(t *testing.T) {
	assert.Nil(t, validator.Validate(&ListMediaQuery{}))
	assert.Nil(t, validator.Validate(&ListMediaQuery{Query: pagination.Query{Page: 3, Limit: 100}, MimeType: "image/"}))

	errs := validator.Validate(&ListMediaQuery{Query: pagination.Query{Limit: 101}})
	assert.Equal(t, "max", errs["limit"])
}

func TestToResponse_OmitsEmptyOptionalFields(t *testing.T) {
	resp := ToResponse(&Media{ID: "m1", MimeType: "application/pdf", UploadedBy: 2})
	assert.Empty(t, resp.ThumbnailURL)
	assert.Nil(t, resp.Width)
	assert.Nil(t, resp.Sizes)
	assert.Equal(t, int64(2), resp.UploadedBy)
}

func TestSanitizeName(t *testing.T) {
	assert.Equal(t, "my_photo-1", sanitizeName("my photo-1.JPG"))
	assert.Equal(t, "file", sanitizeName(""))
	assert.Equal(t, "file", sanitizeName("???.png"))
	assert.Len(t, sanitizeName(strings.Repeat("x", 80)+".png"), 40)
}
