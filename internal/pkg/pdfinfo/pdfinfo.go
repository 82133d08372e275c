package pdfinfo

import (
	"bytes"
	"errors"

	"github.com/ledongthuc/pdf"
)

// PageCount parses b as a PDF and returns its page count. Documents are
// stored verbatim either way; callers treat a failure here as "pages
// unknown", not as a rejected upload.
func PageCount(b []byte) (int, error) {
	if len(b) == 0 {
		return 0, errors.New("empty document")
	}
	reader, err := pdf.NewReader(bytes.NewReader(b), int64(len(b)))
	if err != nil {
		return 0, err
	}
	return reader.NumPage(), nil
}
