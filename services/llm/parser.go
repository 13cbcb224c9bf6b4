package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"
)

var fencedArrayRe = regexp.MustCompile("(?s)```(?:json)?\\s*(\\[.*\\])\\s*```")

// ParseQuestions turns a raw model response into a validated question list, or
// fails with a tagged *Error. The escalation order keeps the common case cheap:
// a clean (possibly fenced) response costs one strict parse, the character-level
// repairs only run on observed failure, and object-level salvage is the last
// resort once whole-array parsing is impossible.
func ParseQuestions(raw string, quizType string) ([]QuizQuestion, error) {
	payload, err := extractArrayPayload(raw)
	if err != nil {
		log.Printf("[ERROR] No JSON array found in response (first 200 chars): %.200s", raw)
		return nil, err
	}
	payload = normalizePayload(payload)

	elems, repaired, parseErr := parseWithRepairs(payload)
	if parseErr != nil {
		if IsKind(parseErr, KindNotAnArray) {
			return nil, parseErr
		}
		log.Printf("[WARN] Whole-array parsing failed (%v), attempting object-level salvage", parseErr)
		return salvageQuestions(repaired, quizType, parseErr)
	}

	if len(elems) == 0 {
		return nil, newError(KindNoQuestionsGenerated, "no questions generated")
	}

	// Once a full parse succeeds every element is expected to be structurally
	// sound; a single bad element fails the whole batch rather than silently
	// shrinking the quiz.
	questions := make([]QuizQuestion, 0, len(elems))
	for i, elem := range elems {
		q, err := normalizeQuestion(elem, quizType, i)
		if err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, nil
}

// extractArrayPayload locates the JSON array inside the raw response: a fenced
// code block first, then the span from the first '[' to the last ']'. A
// response that starts with '[' but never closes it is passed through so the
// salvage stage can still recover objects from a truncated reply.
func extractArrayPayload(raw string) (string, error) {
	if m := fencedArrayRe.FindStringSubmatch(raw); m != nil {
		return m[1], nil
	}
	if start, end := strings.Index(raw, "["), strings.LastIndex(raw, "]"); start != -1 && end > start {
		return raw[start : end+1], nil
	}
	if trimmed := strings.TrimSpace(raw); strings.HasPrefix(trimmed, "[") {
		return trimmed, nil
	}
	return "", newError(KindNoJSONFound, "AI response does not contain a JSON array")
}

// normalizePayload re-trims the extracted text: whitespace, a leading BOM, and
// re-anchoring to the bracketed span in case extraction over- or under-shot.
func normalizePayload(text string) string {
	cleaned := strings.TrimSpace(text)
	cleaned = strings.TrimPrefix(cleaned, "\uFEFF")
	if idx := strings.Index(cleaned, "["); idx > 0 {
		cleaned = cleaned[idx:]
	}
	if idx := strings.LastIndex(cleaned, "]"); idx != -1 && idx < len(cleaned)-1 {
		cleaned = cleaned[:idx+1]
	}
	return cleaned
}

// parseWithRepairs attempts a strict parse, then applies each repair strategy
// cumulatively, retrying after each. It returns the parsed elements, the most
// repaired form of the text (salvage input on failure), and the final error.
func parseWithRepairs(text string) ([]json.RawMessage, string, error) {
	attempts := make([]StrategyAttempt, 0, len(repairStrategies)+1)

	elems, err := parseArray(text)
	attempts = append(attempts, StrategyAttempt{Strategy: "strict", Err: err})
	if err == nil {
		return elems, text, nil
	}

	repaired := text
	for _, strategy := range repairStrategies {
		if IsKind(err, KindNotAnArray) {
			// Repairs cannot change the top-level type.
			break
		}
		repaired = strategy.apply(repaired)
		elems, err = parseArray(repaired)
		attempts = append(attempts, StrategyAttempt{Strategy: strategy.name, Err: err})
		if err == nil {
			logAttempts(attempts)
			log.Printf("[INFO] Parse succeeded after repair strategy %q", strategy.name)
			return elems, repaired, nil
		}
	}

	logAttempts(attempts)
	return nil, repaired, err
}

// parseArray is the strict parse. A JSON-valid response of the wrong top-level
// type is distinguished from a syntactic failure so it can short-circuit the
// repair chain.
func parseArray(text string) ([]json.RawMessage, error) {
	var elems []json.RawMessage
	if err := json.Unmarshal([]byte(text), &elems); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return nil, wrapError(KindNotAnArray, "response is not a JSON array", err)
		}
		return nil, err
	}
	return elems, nil
}

func logAttempts(attempts []StrategyAttempt) {
	for _, attempt := range attempts {
		if attempt.Err != nil {
			log.Printf("[INFO] Parse attempt %q failed: %v", attempt.Strategy, attempt.Err)
		}
	}
}

// salvageQuestions independently extracts each top-level {...} object from the
// repaired text and keeps every one that parses and carries the required
// fields. This is the one sanctioned partial-success path: the whole-array
// parse already failed, so dropping the broken objects beats discarding the
// entire quiz.
func salvageQuestions(text string, quizType string, parseErr error) ([]QuizQuestion, error) {
	objects := extractObjects(text)
	log.Printf("[INFO] Salvage scan found %d candidate objects", len(objects))

	questions := make([]QuizQuestion, 0, len(objects))
	for i, objText := range objects {
		var raw rawQuestion
		if err := json.Unmarshal([]byte(objText), &raw); err != nil {
			log.Printf("[WARN] Discarding salvage candidate %d: %v", i+1, err)
			continue
		}
		if strings.TrimSpace(raw.Question) == "" ||
			strings.TrimSpace(raw.CorrectAnswer) == "" ||
			strings.TrimSpace(raw.Explanation) == "" {
			log.Printf("[WARN] Discarding salvage candidate %d: missing required fields", i+1)
			continue
		}
		q, err := normalizeRawQuestion(raw, quizType, len(questions))
		if err != nil {
			log.Printf("[WARN] Discarding salvage candidate %d: %v", i+1, err)
			continue
		}
		questions = append(questions, q)
	}

	if len(questions) == 0 {
		return nil, wrapError(KindUnparseableResponse,
			fmt.Sprintf("failed to parse questions after all repair strategies: %v", parseErr), parseErr)
	}

	log.Printf("[INFO] Salvaged %d questions from unparseable response", len(questions))
	return questions, nil
}

// extractObjects returns every balanced top-level {...} substring. The scan
// tracks string literals and escapes so braces inside values do not confuse the
// depth count; it does not assume the interior is valid JSON.
func extractObjects(text string) []string {
	var objects []string

	depth := 0
	start := -1
	inString := false
	escaped := false
	for i := 0; i < len(text); i++ {
		c := text[i]
		if escaped {
			escaped = false
			continue
		}
		if c == '\\' {
			escaped = true
			continue
		}
		if c == '"' {
			inString = !inString
			continue
		}
		if inString {
			continue
		}
		switch c {
		case '{':
			if depth == 0 {
				start = i
			}
			depth++
		case '}':
			if depth > 0 {
				depth--
				if depth == 0 && start >= 0 {
					objects = append(objects, text[start:i+1])
					start = -1
				}
			}
		}
	}
	return objects
}
