// Package extract converts uploaded resume documents into plain text.
//
// Only PDF is supported. Image-only PDFs (no text layer) yield an empty
// string — there is no OCR fallback. Extraction failures never block the
// owning profile's lifecycle; the caller saves an empty text field and the
// task layer decides whether to retry.
package extract

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Sentinel errors, matched with errors.Is by the task layer.
var (
	// ErrUnsupportedFormat is returned when the stream is not a valid PDF.
	// Retrying cannot help — the task layer treats it as permanent.
	ErrUnsupportedFormat = fmt.Errorf("unsupported resume format")

	// ErrExtractionFailed covers any other parse error. Retryable.
	ErrExtractionFailed = fmt.Errorf("resume extraction failed")

	// ErrTooLarge is returned when the document exceeds the configured
	// size bound. Permanent.
	ErrTooLarge = fmt.Errorf("resume exceeds size limit")
)

var pdfMagic = []byte("%PDF-")

// Extract reads a resume document and returns the concatenated text of all
// pages, in page order. maxBytes bounds how much of the stream is consumed.
func Extract(r io.Reader, maxBytes int64) (text string, err error) {
	buf, err := io.ReadAll(io.LimitReader(r, maxBytes+1))
	if err != nil {
		return "", fmt.Errorf("%w: read: %v", ErrExtractionFailed, err)
	}
	if int64(len(buf)) > maxBytes {
		return "", fmt.Errorf("%w: more than %d bytes", ErrTooLarge, maxBytes)
	}
	if !bytes.HasPrefix(buf, pdfMagic) {
		return "", fmt.Errorf("%w: missing PDF header", ErrUnsupportedFormat)
	}

	// The pdf library panics on some malformed documents; convert panics
	// into ErrExtractionFailed so a corrupt upload cannot kill a worker.
	defer func() {
		if rec := recover(); rec != nil {
			text = ""
			err = fmt.Errorf("%w: %v", ErrExtractionFailed, rec)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(buf), int64(len(buf)))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrExtractionFailed, err)
	}

	var sb strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("%w: page %d: %v", ErrExtractionFailed, i, err)
		}
		sb.WriteString(pageText)
	}

	return sb.String(), nil
}
