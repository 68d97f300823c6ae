package chunker_test

import (
	"fmt"
	"strings"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/studykit/studykit/pkg/chunker"
)

func TestChunker(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Chunker Suite")
}

var _ = Describe("Split", func() {
	It("returns no chunks for blank text", func() {
		Expect(chunker.Split("", 100, 10)).To(BeEmpty())
		Expect(chunker.Split("   \n\n  ", 100, 10)).To(BeEmpty())
	})

	It("keeps short text as a single chunk", func() {
		chunks := chunker.Split("just a short note", 100, 10)
		Expect(chunks).To(Equal([]string{"just a short note"}))
	})

	It("prefers paragraph breaks over finer separators", func() {
		text := "First paragraph here.\n\nSecond paragraph here."
		chunks := chunker.Split(text, 25, 0)
		Expect(chunks).To(Equal([]string{
			"First paragraph here.",
			"Second paragraph here.",
		}))
	})

	It("respects the chunk size bound", func() {
		text := strings.Repeat("word ", 200)
		for _, c := range chunker.Split(text, 50, 10) {
			Expect(len(c)).To(BeNumerically("<=", 50))
		}
	})

	It("carries overlap between consecutive chunks", func() {
		text := strings.Repeat("alpha beta gamma delta ", 20)
		chunks := chunker.Split(text, 60, 20)
		Expect(len(chunks)).To(BeNumerically(">", 1))

		for i := 1; i < len(chunks); i++ {
			// The head of each chunk repeats the tail of its predecessor.
			head := chunks[i][:10]
			Expect(chunks[i-1]).To(ContainSubstring(head))
		}
	})

	It("splits a separator-free run at character level with overlap", func() {
		chunks := chunker.Split("ABCDEFGHIJ", 4, 1)
		Expect(chunks).To(Equal([]string{"ABCD", "DEFG", "GHIJ"}))

		// Full coverage: every character of the input appears in order.
		Expect(strings.Join(chunks, "")).To(ContainSubstring("ABCD"))
		for i := 1; i < len(chunks); i++ {
			overlap := chunks[i-1][len(chunks[i-1])-1:]
			Expect(chunks[i][:1]).To(Equal(overlap))
		}
	})

	It("never emits empty chunks", func() {
		text := "a\n\n\n\n\n\nb\n\n\n\nc"
		for _, c := range chunker.Split(text, 5, 1) {
			Expect(strings.TrimSpace(c)).NotTo(BeEmpty())
		}
	})

	It("is deterministic", func() {
		text := strings.Repeat("The quick brown fox jumps over the lazy dog. ", 40)
		first := chunker.Split(text, 120, 30)
		second := chunker.Split(text, 120, 30)
		Expect(second).To(Equal(first))
	})

	It("accepts an oversized unsplittable run", func() {
		// With overlap >= size the splitter clamps the overlap rather than
		// looping forever.
		chunks := chunker.Split("ABCDEFGHIJ", 4, 8)
		Expect(chunks).NotTo(BeEmpty())
	})
})

var _ = Describe("ChunkDocument", func() {
	It("assigns ordinal ids starting at zero", func() {
		text := "Paragraph one is about biology.\n\nParagraph two is about physics.\n\nParagraph three is about math."
		chunks := chunker.ChunkDocument("lecture.md", text, 40, 5)
		Expect(len(chunks)).To(BeNumerically(">", 1))

		for i, c := range chunks {
			Expect(c.ID).To(Equal(fmt.Sprintf("lecture.md_%d", i)))
			Expect(c.Source).To(Equal("lecture.md"))
			Expect(c.Text).NotTo(BeEmpty())
		}
	})

	It("skips blank documents", func() {
		Expect(chunker.ChunkDocument("empty.txt", "  \n ", 100, 10)).To(BeEmpty())
	})
})
