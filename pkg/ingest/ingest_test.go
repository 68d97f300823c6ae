package ingest_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/studykit/studykit/pkg/ingest"
	testutils "github.com/studykit/studykit/pkg/utils/test"
	"github.com/studykit/studykit/pkg/vector"
)

func TestIngest(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Ingest Suite")
}

var _ = Describe("Ingest", func() {
	var (
		dataDir  string
		indexDir string
		embedder *testutils.MockEmbedder
		ing      *ingest.Ingester
	)

	writeDoc := func(name, content string) {
		Expect(os.WriteFile(filepath.Join(dataDir, name), []byte(content), 0o644)).To(Succeed())
	}

	BeforeEach(func() {
		dataDir = GinkgoT().TempDir()
		indexDir = GinkgoT().TempDir()
		embedder = testutils.NewMockEmbedder(4)
		ing = ingest.NewIngester(embedder, indexDir, zap.NewNop())
	})

	It("fails for a missing data dir", func() {
		_, err := ing.Ingest(context.Background(), filepath.Join(dataDir, "nope"), ingest.Options{})
		Expect(err).To(HaveOccurred())
	})

	It("fails when no document yields text", func() {
		writeDoc("empty.txt", "   \n ")
		writeDoc("ignored.xyz", "not a supported format")

		_, err := ing.Ingest(context.Background(), dataDir, ingest.Options{})
		Expect(err).To(MatchError(ingest.ErrNoDocuments))
	})

	It("persists one vector and one metadata row per chunk", func() {
		writeDoc("notes.md", "First paragraph about mitosis.\n\nSecond paragraph about meiosis.")

		count, err := ing.Ingest(context.Background(), dataDir, ingest.Options{ChunkSize: 40, ChunkOverlap: 5})
		Expect(err).ToNot(HaveOccurred())
		Expect(count).To(Equal(2))

		index, metadata, err := vector.Load(indexDir)
		Expect(err).ToNot(HaveOccurred())
		Expect(index.Len()).To(Equal(2))
		Expect(metadata).To(HaveLen(2))
		Expect(metadata[0].ID).To(Equal("notes.md_0"))
		Expect(metadata[1].ID).To(Equal("notes.md_1"))
		Expect(metadata[0].Source).To(Equal("notes.md"))
	})

	It("honors an explicit zero overlap", func() {
		writeDoc("run.txt", "ABCDEFGHIJ")

		count, err := ing.Ingest(context.Background(), dataDir, ingest.Options{ChunkSize: 4, ChunkOverlap: 0})
		Expect(err).ToNot(HaveOccurred())
		Expect(count).To(Equal(3))

		_, metadata, err := vector.Load(indexDir)
		Expect(err).ToNot(HaveOccurred())
		Expect(metadata[0].Text).To(Equal("ABCD"))
		Expect(metadata[1].Text).To(Equal("EFGH"))
		Expect(metadata[2].Text).To(Equal("IJ"))
	})

	It("replaces the previous index wholesale", func() {
		writeDoc("a.txt", strings.Repeat("alpha content. ", 10))
		_, err := ing.Ingest(context.Background(), dataDir, ingest.Options{})
		Expect(err).ToNot(HaveOccurred())

		Expect(os.Remove(filepath.Join(dataDir, "a.txt"))).To(Succeed())
		writeDoc("b.txt", "beta content only")

		count, err := ing.Ingest(context.Background(), dataDir, ingest.Options{})
		Expect(err).ToNot(HaveOccurred())
		Expect(count).To(Equal(1))

		_, metadata, err := vector.Load(indexDir)
		Expect(err).ToNot(HaveOccurred())
		Expect(metadata).To(HaveLen(1))
		Expect(metadata[0].Source).To(Equal("b.txt"))
	})

	It("keeps the old index when encoding fails", func() {
		writeDoc("a.txt", "good content")
		_, err := ing.Ingest(context.Background(), dataDir, ingest.Options{})
		Expect(err).ToNot(HaveOccurred())

		writeDoc("b.txt", "poison content")
		embedder.FailOn = "poison content"

		_, err = ing.Ingest(context.Background(), dataDir, ingest.Options{})
		Expect(err).To(HaveOccurred())

		_, metadata, err := vector.Load(indexDir)
		Expect(err).ToNot(HaveOccurred())
		Expect(metadata).To(HaveLen(1))
		Expect(metadata[0].Source).To(Equal("a.txt"))
	})
})
