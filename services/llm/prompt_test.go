package llm

import (
	"strings"
	"testing"

	"studyquiz/models"
)

func TestBuildPromptIncludesCoreElements(t *testing.T) {
	content := "The Krebs cycle takes place in the mitochondrial matrix."

	prompt := BuildPrompt(content, 10, models.DifficultyHard, models.QuizTypeMultipleChoice, nil)

	if !strings.Contains(prompt, "Create 10 hard difficulty multiple choice questions") {
		t.Error("prompt missing the count/difficulty/type header")
	}
	if !strings.Contains(prompt, content) {
		t.Error("prompt does not contain the study content")
	}
	if !strings.Contains(prompt, "Return ONLY a valid JSON array") {
		t.Error("prompt missing the bare-array output directive")
	}
	if !strings.Contains(prompt, `"correctAnswer"`) {
		t.Error("prompt missing the embedded question schema")
	}
	if !strings.Contains(prompt, "4 options") {
		t.Error("prompt missing the multiple choice instructions")
	}
	if !strings.Contains(prompt, "Cover various topics") {
		t.Error("prompt missing the default focus directive")
	}
}

func TestBuildPromptTopicFocus(t *testing.T) {
	focus := "cellular respiration"
	prompt := BuildPrompt("content", 5, models.DifficultyEasy, models.QuizTypeFlashcard, &focus)

	if !strings.Contains(prompt, "Focus specifically on: cellular respiration") {
		t.Error("prompt missing the topic focus directive")
	}
	if strings.Contains(prompt, "Cover various topics") {
		t.Error("default focus directive should be replaced when a topic is set")
	}
}

func TestBuildPromptBlankTopicFocusUsesDefault(t *testing.T) {
	focus := "   "
	prompt := BuildPrompt("content", 5, models.DifficultyEasy, models.QuizTypeFlashcard, &focus)

	if !strings.Contains(prompt, "Cover various topics") {
		t.Error("blank topic focus should fall back to the default directive")
	}
}

func TestBuildPromptFlashcardOmitsOptionsSchema(t *testing.T) {
	prompt := BuildPrompt("content", 5, models.DifficultyMedium, models.QuizTypeFlashcard, nil)

	if strings.Contains(prompt, `"options"`) {
		t.Error("flashcard prompt should not ask for an options field")
	}
	if !strings.Contains(prompt, "flashcard-style") {
		t.Error("flashcard prompt missing the flashcard instructions")
	}
}

func TestBuildPromptTruncatesLongContent(t *testing.T) {
	content := strings.Repeat("a", maxContentLength+5000)
	prompt := BuildPrompt(content, 5, models.DifficultyMedium, models.QuizTypeFlashcard, nil)

	if strings.Contains(prompt, content) {
		t.Error("content over the limit should be truncated")
	}
	if !strings.Contains(prompt, strings.Repeat("a", maxContentLength)) {
		t.Error("truncated content should keep the first maxContentLength characters")
	}
}

func TestTruncateContentRuneSafe(t *testing.T) {
	// 10 two-byte runes: over the byte limit but within the rune limit.
	content := strings.Repeat("é", 10)
	if got := truncateContent(content, 15); got != content {
		t.Errorf("content within the rune limit should be untouched, got %q", got)
	}

	content = strings.Repeat("é", 20)
	got := truncateContent(content, 15)
	if got != strings.Repeat("é", 15) {
		t.Errorf("truncation split a multi-byte rune: %q", got)
	}
}

func TestBuildPromptDeterministic(t *testing.T) {
	focus := "genetics"
	first := BuildPrompt("content", 8, models.DifficultyMedium, models.QuizTypeMultipleChoice, &focus)
	second := BuildPrompt("content", 8, models.DifficultyMedium, models.QuizTypeMultipleChoice, &focus)

	if first != second {
		t.Error("identical inputs should produce identical prompts")
	}
}
