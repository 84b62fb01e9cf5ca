package noop

import "context"

// OCR is used when no OCR backend is configured. It finds no text.
type OCR struct{}

func NewOCR() *OCR {
	return &OCR{}
}

func (o *OCR) ExtractText(ctx context.Context, image []byte) (string, error) {
	return "", nil
}
