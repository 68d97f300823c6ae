package extract

import "os"

// Plaintext reads text and markdown files as-is.
type Plaintext struct{}

func (p *Plaintext) Extensions() []string {
	return []string{".txt", ".md"}
}

func (p *Plaintext) Extract(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

var _ Extractor = (*Plaintext)(nil)
