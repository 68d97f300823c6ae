package assistant

import (
	"context"
	"fmt"
	"strings"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/studykit/studykit/pkg/config"
	"github.com/studykit/studykit/pkg/generate"
	"github.com/studykit/studykit/pkg/ingest"
	"github.com/studykit/studykit/pkg/retriever"
	testutils "github.com/studykit/studykit/pkg/utils/test"
	"github.com/studykit/studykit/pkg/vector"
)

func TestAssistant(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Assistant Suite")
}

const quizJSON = `{"questions":[{"question":"What splits first?","options":{"A":"1","B":"2","C":"3","D":"4"},"correct":"A","explanation":"ok"}]}`

var _ = Describe("Assistant", func() {
	var (
		indexDir  string
		embedder  *testutils.MockEmbedder
		completer *testutils.MockCompleter
		a         *Assistant
	)

	// seedIndex persists n identically-scored chunks so retrieval order is
	// the insertion order.
	seedIndex := func(n int) {
		ix, err := vector.New(3)
		Expect(err).ToNot(HaveOccurred())

		rows := make([][]float32, n)
		meta := make([]vector.ChunkMeta, n)
		for i := range rows {
			rows[i] = []float32{1, 0, 0}
			meta[i] = vector.ChunkMeta{
				ID:     fmt.Sprintf("notes.md_%d", i),
				Text:   fmt.Sprintf("chunk %02d", i),
				Source: "notes.md",
			}
		}
		Expect(ix.Add(rows)).To(Succeed())
		Expect(vector.Save(indexDir, ix, meta)).To(Succeed())
	}

	BeforeEach(func() {
		indexDir = GinkgoT().TempDir()
		embedder = testutils.NewMockEmbedder(3)
		completer = testutils.NewMockCompleter(quizJSON)

		cfg := &config.Config{}
		cfg.Storage.IndexDir = indexDir
		logger := zap.NewNop()

		a = &Assistant{
			cfg:       cfg,
			logger:    logger,
			embedder:  embedder,
			completer: completer,
			ingester:  ingest.NewIngester(embedder, indexDir, logger),
			retriever: retriever.NewRetriever(embedder, indexDir, logger),
			generator: generate.NewGenerator(completer, logger),
		}
	})

	Describe("Summarize", func() {
		It("reads ten contexts from the corpus", func() {
			seedIndex(12)
			completer.Response = "a short summary"

			summary, sources, err := a.Summarize(context.Background(), "summary overview main points", 0)
			Expect(err).ToNot(HaveOccurred())
			Expect(summary).To(Equal("a short summary"))
			Expect(sources).To(HaveLen(10))

			prompt := completer.Requests[0].Prompt
			Expect(prompt).To(ContainSubstring("chunk 09"))
			Expect(prompt).ToNot(ContainSubstring("chunk 10"))
		})
	})

	Describe("GenerateQuiz", func() {
		It("reads twenty contexts for an untargeted quiz", func() {
			seedIndex(25)

			quiz, sources, err := a.GenerateQuiz(context.Background(), generalProbeQuery, 2, "medium", "")
			Expect(err).ToNot(HaveOccurred())
			Expect(quiz.Questions).ToNot(BeEmpty())
			Expect(sources).To(HaveLen(20))
			Expect(embedder.Requests).To(HaveLen(1))
		})

		It("widens a sparse topic search with a general pass", func() {
			seedIndex(3)

			_, sources, err := a.GenerateQuiz(context.Background(), "mitosis", 2, "medium", "mitosis")
			Expect(err).ToNot(HaveOccurred())
			Expect(sources).To(HaveLen(3))

			Expect(embedder.Requests).To(HaveLen(2))
			Expect(embedder.Requests[0]).To(Equal([]string{"mitosis"}))
			Expect(embedder.Requests[1]).To(Equal([]string{generalProbeQuery}))
		})

		It("skips the general pass when the topic search is rich enough", func() {
			seedIndex(6)

			_, sources, err := a.GenerateQuiz(context.Background(), "mitosis", 2, "medium", "mitosis")
			Expect(err).ToNot(HaveOccurred())
			Expect(sources).To(HaveLen(6))
			Expect(embedder.Requests).To(HaveLen(1))
		})

		It("does not widen an untargeted quiz over a small corpus", func() {
			seedIndex(3)

			_, _, err := a.GenerateQuiz(context.Background(), generalProbeQuery, 2, "medium", "")
			Expect(err).ToNot(HaveOccurred())
			Expect(embedder.Requests).To(HaveLen(1))
		})
	})

	Describe("mergeQuizContexts", func() {
		It("drops general chunks whose text prefix is already present", func() {
			head := strings.Repeat("x", 100)
			topic := []retriever.Result{
				{ID: "a", Text: head + "tail one"},
			}
			general := []retriever.Result{
				{ID: "b", Text: head + "tail two"},
				{ID: "c", Text: "something else entirely"},
			}

			merged := mergeQuizContexts(topic, general)
			Expect(merged).To(HaveLen(2))
			Expect(merged[0].ID).To(Equal("a"))
			Expect(merged[1].ID).To(Equal("c"))
		})

		It("compares short chunks by their full text", func() {
			topic := []retriever.Result{{ID: "a", Text: "shared"}}
			general := []retriever.Result{
				{ID: "b", Text: "shared"},
				{ID: "c", Text: "distinct"},
			}

			merged := mergeQuizContexts(topic, general)
			Expect(merged).To(HaveLen(2))
			Expect(merged[1].ID).To(Equal("c"))
		})
	})
})
