package task

import (
	"strings"
	"time"
)

// Attachment references a file stored outside the core.
type Attachment struct {
	URL        string    `json:"url"`
	Name       string    `json:"name"`
	Size       int64     `json:"size"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// NewAttachment validates and builds an attachment.
func NewAttachment(url, name string, size int64, uploadedAt time.Time) (Attachment, error) {
	url = strings.TrimSpace(url)
	name = strings.TrimSpace(name)
	if url == "" || name == "" || size < 0 {
		return Attachment{}, ErrInvalidAttachment
	}
	return Attachment{URL: url, Name: name, Size: size, UploadedAt: uploadedAt.UTC()}, nil
}
