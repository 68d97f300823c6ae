// Package chunker splits plain text into overlapping retrieval units.
//
// The splitter works recursively: it cuts on the coarsest separator present
// (paragraph break, then newline, then sentence break, then space), re-splits
// any piece still longer than the chunk size with the next separator down,
// and finally falls back to character-level splitting so even separator-free
// runs honor the size and overlap targets. Small pieces are greedily merged
// back up to the chunk size, carrying the configured overlap between
// consecutive chunks. The output is fully determined by its inputs.
package chunker

import (
	"fmt"
	"strings"
)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = 500

// DefaultChunkOverlap is the default number of overlapping characters.
const DefaultChunkOverlap = 80

// DefaultSeparators is the split priority, coarsest first. The empty string
// means character-level splitting and must come last.
var DefaultSeparators = []string{"\n\n", "\n", ". ", " ", ""}

// Chunk is a bounded span of a source document's text, the unit of
// retrieval. Immutable once created.
type Chunk struct {
	// ID is source + "_" + ordinal, ordinals increasing from 0 per source.
	ID string

	// Text is the chunk content, whitespace-trimmed, never empty.
	Text string

	// Source is the originating document name.
	Source string
}

// Split cuts text into chunks of at most chunkSize characters with up to
// chunkOverlap characters shared between consecutive chunks. A single
// unsplittable run longer than chunkSize may exceed the limit. No empty
// chunks are emitted. Identical inputs always yield identical output.
func Split(text string, chunkSize, chunkOverlap int) []string {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if chunkOverlap < 0 {
		chunkOverlap = 0
	}
	if chunkOverlap >= chunkSize {
		chunkOverlap = chunkSize / 4
	}

	pieces := splitRecursive(text, DefaultSeparators, chunkSize, chunkOverlap)

	chunks := make([]string, 0, len(pieces))
	for _, p := range pieces {
		p = strings.TrimSpace(p)
		if p != "" {
			chunks = append(chunks, p)
		}
	}
	return chunks
}

// ChunkDocument splits one document's text and assigns ordinal chunk IDs.
// A document that is blank after trimming yields no chunks.
func ChunkDocument(source, text string, chunkSize, chunkOverlap int) []Chunk {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	pieces := Split(text, chunkSize, chunkOverlap)
	chunks := make([]Chunk, 0, len(pieces))
	for i, piece := range pieces {
		chunks = append(chunks, Chunk{
			ID:     fmt.Sprintf("%s_%d", source, i),
			Text:   piece,
			Source: source,
		})
	}
	return chunks
}

func splitRecursive(text string, separators []string, chunkSize, chunkOverlap int) []string {
	// Pick the coarsest separator that actually occurs; "" always matches.
	separator := separators[len(separators)-1]
	var narrower []string
	for i, sep := range separators {
		if sep == "" || strings.Contains(text, sep) {
			separator = sep
			narrower = separators[i+1:]
			break
		}
	}

	splits := splitOn(text, separator)

	var (
		final []string
		small []string
	)
	for _, piece := range splits {
		if len(piece) < chunkSize {
			small = append(small, piece)
			continue
		}

		if len(small) > 0 {
			final = append(final, merge(small, separator, chunkSize, chunkOverlap)...)
			small = nil
		}

		if len(narrower) == 0 {
			// Unsplittable oversized run; accepted as-is.
			final = append(final, piece)
		} else {
			final = append(final, splitRecursive(piece, narrower, chunkSize, chunkOverlap)...)
		}
	}
	if len(small) > 0 {
		final = append(final, merge(small, separator, chunkSize, chunkOverlap)...)
	}
	return final
}

func splitOn(text, separator string) []string {
	var raw []string
	if separator == "" {
		raw = strings.Split(text, "")
	} else {
		raw = strings.Split(text, separator)
	}

	splits := raw[:0]
	for _, s := range raw {
		if s != "" {
			splits = append(splits, s)
		}
	}
	return splits
}

// merge greedily recombines small splits into chunks of at most chunkSize
// characters, re-inserting the separator between them. When a chunk is
// emitted, splits are dropped from the front until the retained tail fits
// within chunkOverlap, so consecutive chunks share trailing context.
func merge(splits []string, separator string, chunkSize, chunkOverlap int) []string {
	sepLen := len(separator)

	var (
		chunks  []string
		current []string
		total   int
	)

	joinLen := func(extra int) int {
		if len(current) > 0 {
			return total + extra + sepLen
		}
		return total + extra
	}

	for _, s := range splits {
		if joinLen(len(s)) > chunkSize && len(current) > 0 {
			chunk := strings.TrimSpace(strings.Join(current, separator))
			if chunk != "" {
				chunks = append(chunks, chunk)
			}

			for total > chunkOverlap || (joinLen(len(s)) > chunkSize && total > 0) {
				total -= len(current[0])
				if len(current) > 1 {
					total -= sepLen
				}
				current = current[1:]
			}
		}

		if len(current) > 0 {
			total += sepLen
		}
		total += len(s)
		current = append(current, s)
	}

	if chunk := strings.TrimSpace(strings.Join(current, separator)); chunk != "" {
		chunks = append(chunks, chunk)
	}
	return chunks
}
