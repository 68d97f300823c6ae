package extract

import (
	"strings"

	"github.com/ledongthuc/pdf"
)

// PDF extracts text from PDF files page by page. Page texts are joined with
// a newline so page boundaries survive as separator candidates for the
// chunker.
type PDF struct{}

func (p *PDF) Extensions() []string {
	return []string{".pdf"}
}

func (p *PDF) Extract(path string) (string, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var pages []string
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		// A page that fails text extraction contributes nothing; scanned
		// or image-only pages are common in lecture decks.
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		pages = append(pages, text)
	}

	return strings.Join(pages, "\n"), nil
}

var _ Extractor = (*PDF)(nil)
