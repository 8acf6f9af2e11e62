package services

import (
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
)

// pdfParser reads the plain text of every page. Pages the library cannot
// decode are skipped; the document fails only when no page yields text.
type pdfParser struct{}

func (pdfParser) Decode(r io.ReaderAt, size int64) (string, error) {
	reader, err := pdf.NewReader(r, size)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}

	total := reader.NumPage()
	pages := make([]string, 0, total)
	skipped := 0

	for i := 1; i <= total; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			skipped++
			continue
		}
		if text = strings.TrimSpace(text); text != "" {
			pages = append(pages, text)
		}
	}

	if len(pages) == 0 {
		return "", fmt.Errorf("no text content found in PDF (%d pages, %d unreadable)", total, skipped)
	}

	return strings.Join(pages, "\n\n"), nil
}
