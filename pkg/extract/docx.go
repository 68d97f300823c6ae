package extract

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// DOCX extracts text from word-processor documents. OOXML documents are zip
// archives; the body text lives in word/document.xml as <w:t> runs grouped
// into <w:p> paragraphs, which we flatten to one newline-separated blob.
type DOCX struct{}

func (d *DOCX) Extensions() []string {
	return []string{".docx", ".doc"}
}

func (d *DOCX) Extract(path string) (string, error) {
	archive, err := zip.OpenReader(path)
	if err != nil {
		return "", fmt.Errorf("opening docx archive: %w", err)
	}
	defer archive.Close()

	for _, file := range archive.File {
		if file.Name != "word/document.xml" {
			continue
		}

		rc, err := file.Open()
		if err != nil {
			return "", fmt.Errorf("opening document part: %w", err)
		}
		defer rc.Close()

		return collectRuns(rc, "t", "p")
	}

	return "", fmt.Errorf("no word/document.xml part in %s", path)
}

// collectRuns walks an OOXML part collecting the character data of every
// <runTag> element and emitting a newline at the close of every <paraTag>.
func collectRuns(r io.Reader, runTag, paraTag string) (string, error) {
	decoder := xml.NewDecoder(r)

	var (
		sb    strings.Builder
		inRun bool
	)

	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("decoding xml: %w", err)
		}

		switch t := token.(type) {
		case xml.StartElement:
			if t.Name.Local == runTag {
				inRun = true
			}
		case xml.EndElement:
			switch t.Name.Local {
			case runTag:
				inRun = false
			case paraTag:
				sb.WriteString("\n")
			}
		case xml.CharData:
			if inRun {
				sb.Write(t)
			}
		}
	}

	return strings.TrimRight(sb.String(), "\n"), nil
}

var _ Extractor = (*DOCX)(nil)
