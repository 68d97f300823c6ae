package ollama_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/studykit/studykit/pkg/llm"
	"github.com/studykit/studykit/pkg/llm/ollama"
)

func TestOllama(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Ollama Completer Suite")
}

var _ = Describe("Complete", func() {
	It("sends system and user messages and returns the assistant text", func() {
		var got map[string]any
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			Expect(r.URL.Path).To(Equal("/api/chat"))
			Expect(json.NewDecoder(r.Body).Decode(&got)).To(Succeed())

			_ = json.NewEncoder(w).Encode(map[string]any{
				"message": map[string]string{"role": "assistant", "content": "Two identical cells."},
				"done":    true,
			})
		}))
		defer server.Close()

		completer, err := ollama.NewCompleter(ollama.Config{BaseURL: server.URL, Model: "llama3.2"})
		Expect(err).ToNot(HaveOccurred())

		text, err := completer.Complete(context.Background(), llm.CompleteRequest{
			System:      "You are a concise study assistant.",
			Prompt:      "What does mitosis produce?",
			Temperature: 0.2,
			MaxTokens:   128,
		})
		Expect(err).ToNot(HaveOccurred())
		Expect(text).To(Equal("Two identical cells."))

		Expect(got["model"]).To(Equal("llama3.2"))
		Expect(got["stream"]).To(Equal(false))

		messages := got["messages"].([]any)
		Expect(messages).To(HaveLen(2))
		first := messages[0].(map[string]any)
		Expect(first["role"]).To(Equal("system"))

		options := got["options"].(map[string]any)
		Expect(options["temperature"]).To(BeNumerically("~", 0.2, 1e-6))
		Expect(options["num_predict"]).To(BeNumerically("==", 128))
	})

	It("omits the system message when empty", func() {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var got map[string]any
			Expect(json.NewDecoder(r.Body).Decode(&got)).To(Succeed())
			Expect(got["messages"].([]any)).To(HaveLen(1))

			_ = json.NewEncoder(w).Encode(map[string]any{
				"message": map[string]string{"role": "assistant", "content": "ok"},
				"done":    true,
			})
		}))
		defer server.Close()

		completer, err := ollama.NewCompleter(ollama.Config{BaseURL: server.URL})
		Expect(err).ToNot(HaveOccurred())

		_, err = completer.Complete(context.Background(), llm.CompleteRequest{Prompt: "hi"})
		Expect(err).ToNot(HaveOccurred())
	})

	It("wraps non-200 responses in ErrExternalService", func() {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "model not found", http.StatusNotFound)
		}))
		defer server.Close()

		completer, err := ollama.NewCompleter(ollama.Config{BaseURL: server.URL})
		Expect(err).ToNot(HaveOccurred())

		_, err = completer.Complete(context.Background(), llm.CompleteRequest{Prompt: "hi"})
		Expect(err).To(MatchError(llm.ErrExternalService))
	})

	It("wraps unreachable servers in ErrExternalService", func() {
		completer, err := ollama.NewCompleter(ollama.Config{BaseURL: "http://127.0.0.1:1"})
		Expect(err).ToNot(HaveOccurred())

		_, err = completer.Complete(context.Background(), llm.CompleteRequest{Prompt: "hi"})
		Expect(err).To(MatchError(llm.ErrExternalService))
	})
})
