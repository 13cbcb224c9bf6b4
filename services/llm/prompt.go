package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"studyquiz/models"

	"github.com/invopop/jsonschema"
)

// maxContentLength bounds prompt size so course content cannot blow the model's
// context window. Truncation is silent and by character count.
const maxContentLength = 100000

const multipleChoiceInstructions = "Create multiple choice questions with 4 options (1 correct, 3 plausible distractors)."
const flashcardInstructions = "Create flashcard-style questions with a question and a concise answer."

const promptTemplate = `You are an expert educational quiz generator. Create %d %s difficulty %s questions based on the following content.

%s

%s

Content to analyze:

%s

Requirements:
- Questions should test understanding at the %s level
- Include detailed explanations with specific references to the source content
- Ensure questions are clear and unambiguous
- For multiple choice, make all options plausible
- Vary question types (definitions, applications, analysis, etc.)

IMPORTANT: Return ONLY a valid JSON array. Do not include any markdown, explanations, or text outside the JSON array. Start your response with [ and end with ].

Every element of the array must conform to this JSON schema:

%s

Return the JSON array now:`

type multipleChoiceSchema struct {
	Question        string   `json:"question" jsonschema:"description=The question text"`
	CorrectAnswer   string   `json:"correctAnswer" jsonschema:"description=The correct answer; must exactly match one of the options"`
	Options         []string `json:"options" jsonschema:"minItems=4,maxItems=4,description=Exactly 4 answer options"`
	Explanation     string   `json:"explanation" jsonschema:"description=Detailed explanation referencing the source"`
	SourceReference string   `json:"sourceReference" jsonschema:"description=Reference to where in the content this comes from"`
	Difficulty      string   `json:"difficulty" jsonschema:"enum=EASY,enum=MEDIUM,enum=HARD"`
}

type flashcardSchema struct {
	Question        string `json:"question" jsonschema:"description=The question text"`
	CorrectAnswer   string `json:"correctAnswer" jsonschema:"description=The correct answer"`
	Explanation     string `json:"explanation" jsonschema:"description=Detailed explanation referencing the source"`
	SourceReference string `json:"sourceReference" jsonschema:"description=Reference to where in the content this comes from"`
	Difficulty      string `json:"difficulty" jsonschema:"enum=EASY,enum=MEDIUM,enum=HARD"`
}

var (
	multipleChoiceSchemaJSON = mustRenderSchema(&multipleChoiceSchema{})
	flashcardSchemaJSON      = mustRenderSchema(&flashcardSchema{})
)

func mustRenderSchema(v any) string {
	reflector := jsonschema.Reflector{DoNotReference: true, Anonymous: true}
	schema := reflector.Reflect(v)
	schema.Version = ""
	out, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		panic(fmt.Sprintf("failed to render question schema: %v", err))
	}
	return string(out)
}

// BuildPrompt assembles the full generation prompt. Pure function of its inputs.
func BuildPrompt(content string, questionCount int, difficulty, quizType string, topicFocus *string) string {
	typeInstructions := flashcardInstructions
	schemaJSON := flashcardSchemaJSON
	if quizType == models.QuizTypeMultipleChoice {
		typeInstructions = multipleChoiceInstructions
		schemaJSON = multipleChoiceSchemaJSON
	}

	focusDirective := "Cover various topics from the content."
	if topicFocus != nil && strings.TrimSpace(*topicFocus) != "" {
		focusDirective = fmt.Sprintf("Focus specifically on: %s", *topicFocus)
	}

	difficultyLabel := strings.ToLower(difficulty)
	typeLabel := strings.ToLower(strings.ReplaceAll(quizType, "_", " "))

	return fmt.Sprintf(promptTemplate,
		questionCount,
		difficultyLabel,
		typeLabel,
		focusDirective,
		typeInstructions,
		truncateContent(content, maxContentLength),
		difficultyLabel,
		schemaJSON,
	)
}

func truncateContent(content string, limit int) string {
	if len(content) <= limit {
		return content
	}
	runes := []rune(content)
	if len(runes) <= limit {
		return content
	}
	return string(runes[:limit])
}
