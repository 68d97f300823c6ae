package extract

import (
	"archive/zip"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// PPTX extracts text from presentation decks. Slide parts live at
// ppt/slides/slideN.xml with text runs in <a:t> elements; slides are
// processed in deck order and their shape texts concatenated with newlines.
type PPTX struct{}

var slidePartPattern = regexp.MustCompile(`^ppt/slides/slide(\d+)\.xml$`)

func (p *PPTX) Extensions() []string {
	return []string{".pptx", ".ppt"}
}

func (p *PPTX) Extract(path string) (string, error) {
	archive, err := zip.OpenReader(path)
	if err != nil {
		return "", fmt.Errorf("opening pptx archive: %w", err)
	}
	defer archive.Close()

	type slidePart struct {
		number int
		file   *zip.File
	}

	var slides []slidePart
	for _, file := range archive.File {
		m := slidePartPattern.FindStringSubmatch(file.Name)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		slides = append(slides, slidePart{number: n, file: file})
	}

	// Archive entry order is not guaranteed to follow slide numbering.
	sort.Slice(slides, func(i, j int) bool {
		return slides[i].number < slides[j].number
	})

	var texts []string
	for _, slide := range slides {
		rc, err := slide.file.Open()
		if err != nil {
			return "", fmt.Errorf("opening slide %d: %w", slide.number, err)
		}

		text, err := collectRuns(rc, "t", "p")
		rc.Close()
		if err != nil {
			return "", fmt.Errorf("reading slide %d: %w", slide.number, err)
		}
		if strings.TrimSpace(text) != "" {
			texts = append(texts, text)
		}
	}

	return strings.Join(texts, "\n"), nil
}

var _ Extractor = (*PPTX)(nil)
