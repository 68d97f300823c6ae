package generate

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/studykit/studykit/pkg/utils"
)

// fallbackExplanationLimit caps how much raw model output ends up in the
// synthetic fallback question's explanation.
const fallbackExplanationLimit = 500

var (
	fenceRe    = regexp.MustCompile("```json\\s*|```\\s*")
	questionRe = regexp.MustCompile(`(?im)^\s*(?:question\s*\d+[:.]?|q\d+[:.]?|\d+[.)])\s*(.+)`)
)

// quizParser attempts to recover a quiz from raw model output. It reports
// false when the strategy does not apply to this response.
type quizParser func(response string, numQuestions int) (*Quiz, bool)

// parseQuizResponse runs the parser cascade in order and returns the first
// quiz recovered plus the 1-based tier that produced it. The final tier
// always succeeds, so the returned quiz has at least one question.
func parseQuizResponse(response string, numQuestions int) (*Quiz, int) {
	parsers := []quizParser{
		parseDirectJSON,
		parseFencedJSON,
		parseQuestionPattern,
		parseFallback,
	}

	for i, parse := range parsers {
		if quiz, ok := parse(response, numQuestions); ok {
			return quiz, i + 1
		}
	}

	// Unreachable, parseFallback never declines.
	quiz, _ := parseFallback(response, numQuestions)
	return quiz, len(parsers)
}

// parseDirectJSON parses the whole response as the quiz schema. Anything
// around the JSON object, fence markers included, makes this tier decline.
func parseDirectJSON(response string, _ int) (*Quiz, bool) {
	return decodeQuiz(strings.TrimSpace(response))
}

// parseFencedJSON strips markdown code fences, extracts the first-{ to
// last-} span, and retries the JSON parse. Prose around the object is
// tolerated here.
func parseFencedJSON(response string, _ int) (*Quiz, bool) {
	cleaned := fenceRe.ReplaceAllString(response, "")

	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start < 0 || end <= start {
		return nil, false
	}

	return decodeQuiz(cleaned[start : end+1])
}

// parseQuestionPattern scrapes numbered question lines out of prose output.
// Options are unrecoverable at this point so placeholders stand in.
func parseQuestionPattern(response string, numQuestions int) (*Quiz, bool) {
	matches := questionRe.FindAllStringSubmatch(response, -1)

	var questions []Question
	for _, m := range matches {
		if len(questions) >= numQuestions {
			break
		}
		text := strings.TrimSpace(m[1])
		if text == "" {
			continue
		}
		questions = append(questions, Question{
			Question: text,
			Options: map[string]string{
				"A": "Option A",
				"B": "Option B",
				"C": "Option C",
				"D": "Option D",
			},
			Correct:     "A",
			Explanation: "See source material for details.",
		})
	}

	if len(questions) == 0 {
		return nil, false
	}

	return &Quiz{Questions: questions}, true
}

// parseFallback wraps the raw response in a single synthetic question so
// the caller always gets something reviewable back.
func parseFallback(response string, _ int) (*Quiz, bool) {
	return &Quiz{
		Questions: []Question{{
			Question: "Quiz generated from your documents. Please review the content below.",
			Options: map[string]string{
				"A": "Review the source materials",
				"B": "Check the uploaded documents",
				"C": "Refer to course notes",
				"D": "Consult with instructor",
			},
			Correct:     "A",
			Explanation: utils.Truncate(response, fallbackExplanationLimit),
		}},
	}, true
}

// decodeQuiz parses candidate JSON and repairs what it can. Declines when
// the payload is not the quiz schema or no question survives repair.
func decodeQuiz(candidate string) (*Quiz, bool) {
	var quiz Quiz
	if err := json.Unmarshal([]byte(candidate), &quiz); err != nil {
		return nil, false
	}
	if len(quiz.Questions) == 0 {
		return nil, false
	}

	repaired := make([]Question, 0, len(quiz.Questions))
	for _, q := range quiz.Questions {
		if fixed, ok := repairQuestion(q); ok {
			repaired = append(repaired, fixed)
		}
	}
	if len(repaired) == 0 {
		return nil, false
	}

	return &Quiz{Questions: repaired}, true
}

// repairQuestion normalizes one parsed question to the A-D contract.
// Questions without text are unusable and get dropped.
func repairQuestion(q Question) (Question, bool) {
	if strings.TrimSpace(q.Question) == "" {
		return Question{}, false
	}

	options := make(map[string]string, len(optionLabels))
	for _, label := range optionLabels {
		text, ok := q.Options[label]
		if !ok || strings.TrimSpace(text) == "" {
			text = "Option " + label
		}
		options[label] = text
	}
	q.Options = options

	q.Correct = strings.ToUpper(strings.TrimSpace(q.Correct))
	valid := false
	for _, label := range optionLabels {
		if q.Correct == label {
			valid = true
			break
		}
	}
	if !valid {
		q.Correct = "A"
	}

	if strings.TrimSpace(q.Explanation) == "" {
		q.Explanation = "See source material for details."
	}

	return q, true
}
