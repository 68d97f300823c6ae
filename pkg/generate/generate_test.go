package generate_test

import (
	"context"
	"strings"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/studykit/studykit/pkg/generate"
	"github.com/studykit/studykit/pkg/retriever"
	testutils "github.com/studykit/studykit/pkg/utils/test"
)

func TestGenerate(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Generate Suite")
}

var testContexts = []retriever.Result{
	{ID: "notes.md_0", Text: "Mitosis is cell division producing two identical cells.", Source: "notes.md", Score: 0.91},
	{ID: "notes.md_1", Text: "Meiosis produces four genetically distinct gametes.", Source: "notes.md", Score: 0.84},
}

func expectValidQuestions(quiz *generate.Quiz) {
	Expect(quiz.Questions).ToNot(BeEmpty())
	for _, q := range quiz.Questions {
		Expect(q.Question).ToNot(BeEmpty())
		Expect(q.Options).To(HaveLen(4))
		for _, label := range []string{"A", "B", "C", "D"} {
			Expect(q.Options).To(HaveKey(label))
			Expect(q.Options[label]).ToNot(BeEmpty())
		}
		Expect([]string{"A", "B", "C", "D"}).To(ContainElement(q.Correct))
	}
}

var _ = Describe("Answer", func() {
	var (
		completer *testutils.MockCompleter
		gen       *generate.Generator
	)

	BeforeEach(func() {
		completer = testutils.NewMockCompleter("Mitosis produces two identical cells.")
		gen = generate.NewGenerator(completer, zap.NewNop())
	})

	It("rejects a blank question", func() {
		_, err := gen.Answer(context.Background(), "   ", testContexts)
		Expect(err).To(MatchError(generate.ErrEmptyQuestion))
	})

	It("rejects empty contexts", func() {
		_, err := gen.Answer(context.Background(), "What is mitosis?", nil)
		Expect(err).To(MatchError(generate.ErrEmptyContexts))
	})

	It("grounds the prompt in the retrieved contexts", func() {
		answer, err := gen.Answer(context.Background(), "What is mitosis?", testContexts)
		Expect(err).ToNot(HaveOccurred())
		Expect(answer).To(Equal("Mitosis produces two identical cells."))

		Expect(completer.Requests).To(HaveLen(1))
		req := completer.Requests[0]
		Expect(req.Prompt).To(ContainSubstring("[Source: notes.md] Mitosis is cell division"))
		Expect(req.Prompt).To(ContainSubstring("Question: What is mitosis?"))
		Expect(req.Temperature).To(BeNumerically("~", 0.2, 1e-6))
	})

	It("treats a blank completion as an error", func() {
		completer.Response = "  \n "
		_, err := gen.Answer(context.Background(), "What is mitosis?", testContexts)
		Expect(err).To(MatchError(generate.ErrEmptyCompletion))
	})

	It("propagates backend failures", func() {
		completer.Err = testutils.ErrMockCompleter
		_, err := gen.Answer(context.Background(), "What is mitosis?", testContexts)
		Expect(err).To(MatchError(testutils.ErrMockCompleter))
	})
})

var _ = Describe("Summarize", func() {
	var (
		completer *testutils.MockCompleter
		gen       *generate.Generator
	)

	BeforeEach(func() {
		completer = testutils.NewMockCompleter("The notes cover mitosis and meiosis.")
		gen = generate.NewGenerator(completer, zap.NewNop())
	})

	It("rejects empty contexts", func() {
		_, err := gen.Summarize(context.Background(), nil, 200)
		Expect(err).To(MatchError(generate.ErrEmptyContexts))
	})

	It("budgets tokens from the requested length", func() {
		_, err := gen.Summarize(context.Background(), testContexts, 300)
		Expect(err).ToNot(HaveOccurred())

		req := completer.Requests[0]
		Expect(req.MaxTokens).To(Equal(600))
		Expect(req.Prompt).To(ContainSubstring("approximately 300 words"))
		Expect(req.Temperature).To(BeNumerically("~", 0.3, 1e-6))
	})

	It("falls back to the default length", func() {
		_, err := gen.Summarize(context.Background(), testContexts, 0)
		Expect(err).ToNot(HaveOccurred())

		req := completer.Requests[0]
		Expect(req.MaxTokens).To(Equal(2 * generate.DefaultSummaryLength))
	})
})

var _ = Describe("Quiz", func() {
	var (
		completer *testutils.MockCompleter
		gen       *generate.Generator
	)

	newQuiz := func(response string, numQuestions int, difficulty, topic string) *generate.Quiz {
		completer = testutils.NewMockCompleter(response)
		gen = generate.NewGenerator(completer, zap.NewNop())
		quiz, err := gen.Quiz(context.Background(), testContexts, numQuestions, difficulty, topic)
		Expect(err).ToNot(HaveOccurred())
		return quiz
	}

	It("rejects empty contexts", func() {
		gen = generate.NewGenerator(testutils.NewMockCompleter("{}"), zap.NewNop())
		_, err := gen.Quiz(context.Background(), nil, 3, "easy", "")
		Expect(err).To(MatchError(generate.ErrEmptyContexts))
	})

	It("parses a well-formed JSON response", func() {
		quiz := newQuiz(`{"questions": [{"question": "What does mitosis produce?", "options": {"A": "Two identical cells", "B": "Four gametes", "C": "One cell", "D": "Nothing"}, "correct": "A", "explanation": "Mitosis duplicates the cell."}]}`, 1, "easy", "")

		expectValidQuestions(quiz)
		Expect(quiz.Questions).To(HaveLen(1))
		Expect(quiz.Questions[0].Question).To(Equal("What does mitosis produce?"))
		Expect(quiz.Questions[0].Correct).To(Equal("A"))
	})

	It("recovers fenced JSON", func() {
		response := "```json\n{\"questions\": [{\"question\": \"What does meiosis produce?\", \"options\": {\"A\": \"Two cells\", \"B\": \"Four gametes\", \"C\": \"One cell\", \"D\": \"Nothing\"}, \"correct\": \"B\", \"explanation\": \"Meiosis halves the chromosomes.\"}]}\n```"
		quiz := newQuiz(response, 1, "medium", "")

		expectValidQuestions(quiz)
		Expect(quiz.Questions[0].Correct).To(Equal("B"))
	})

	It("recovers JSON wrapped in prose", func() {
		response := `Sure, here is your quiz:
{"questions": [{"question": "What copies DNA?", "options": {"A": "S phase", "B": "M phase", "C": "G1", "D": "G2"}, "correct": "A", "explanation": "DNA replication happens in S phase."}]}
Let me know if you need more.`
		quiz := newQuiz(response, 1, "medium", "")

		expectValidQuestions(quiz)
		Expect(quiz.Questions[0].Question).To(Equal("What copies DNA?"))
	})

	It("repairs questions that bend the schema", func() {
		response := `{"questions": [
			{"question": "Partial options?", "options": {"A": "Yes", "B": "No"}, "correct": "E", "explanation": ""},
			{"question": "", "options": {"A": "x", "B": "y", "C": "z", "D": "w"}, "correct": "C", "explanation": "dropped"}
		]}`
		quiz := newQuiz(response, 2, "medium", "")

		expectValidQuestions(quiz)
		Expect(quiz.Questions).To(HaveLen(1))
		Expect(quiz.Questions[0].Options["C"]).To(Equal("Option C"))
		Expect(quiz.Questions[0].Options["D"]).To(Equal("Option D"))
		Expect(quiz.Questions[0].Correct).To(Equal("A"))
		Expect(quiz.Questions[0].Explanation).ToNot(BeEmpty())
	})

	It("scrapes numbered questions out of prose", func() {
		response := "Question 1: What phase copies DNA?\nSome chatter in between.\nQuestion 2: Name the final phase of mitosis.\nQ3: How many gametes does meiosis yield?"
		quiz := newQuiz(response, 2, "hard", "")

		expectValidQuestions(quiz)
		Expect(quiz.Questions).To(HaveLen(2))
		Expect(quiz.Questions[0].Question).To(Equal("What phase copies DNA?"))
		Expect(quiz.Questions[1].Question).To(Equal("Name the final phase of mitosis."))
		Expect(quiz.Questions[0].Correct).To(Equal("A"))
	})

	It("falls back to a single synthetic question for unusable output", func() {
		quiz := newQuiz("I am unable to help with that request.", 5, "medium", "")

		expectValidQuestions(quiz)
		Expect(quiz.Questions).To(HaveLen(1))
		Expect(quiz.Questions[0].Explanation).To(ContainSubstring("I am unable to help"))
	})

	It("truncates long raw output in the fallback explanation", func() {
		raw := strings.Repeat("x", 800)
		quiz := newQuiz(raw, 5, "medium", "")

		Expect(quiz.Questions).To(HaveLen(1))
		Expect(quiz.Questions[0].Explanation).To(HaveLen(503))
		Expect(quiz.Questions[0].Explanation).To(HaveSuffix("..."))
	})

	It("caps the prompt content and threads topic and difficulty through", func() {
		long := []retriever.Result{{ID: "big_0", Text: strings.Repeat("a", 10000), Source: "big.pdf"}}
		completer = testutils.NewMockCompleter(`{"questions": [{"question": "q", "options": {"A": "1", "B": "2", "C": "3", "D": "4"}, "correct": "D", "explanation": "e"}]}`)
		gen = generate.NewGenerator(completer, zap.NewNop())

		_, err := gen.Quiz(context.Background(), long, 3, "hard", "photosynthesis")
		Expect(err).ToNot(HaveOccurred())

		req := completer.Requests[0]
		Expect(req.Prompt).To(ContainSubstring("exactly 3 hard difficulty"))
		Expect(req.Prompt).To(ContainSubstring("topic: 'photosynthesis'"))
		Expect(len(req.Prompt)).To(BeNumerically("<", 8000))
		Expect(req.Temperature).To(BeNumerically("~", 0.7, 1e-6))
	})
})
