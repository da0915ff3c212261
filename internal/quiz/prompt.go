package quiz

import (
	"fmt"
	"strings"

	"github.com/abhisek/studyaid/internal/llm"
)

// systemPrompt is sent with every generation request.
const systemPrompt = "Return ONLY valid JSON as specified. No prose."

// outputContract describes the one JSON shape every generation prompt asks for.
const outputContract = `You are a quiz generator. Output ONLY a single JSON object. NO markdown, NO code fences, NO comments. The JSON schema is:
{ "title": "string", "questions": [ { "question": "string", "options": ["A) ...","B) ...","C) ...","D) ..."], "correct_answer": "A|B|C|D or exact text or True/False", "explanation": "string" } ] }
`

// Generation request parameters.
const (
	generateTemperature = 0.5
	generateMaxTokens   = 2000
)

// BuildPrompt renders the instruction for count questions of a concrete
// kind over already preprocessed content.
func BuildPrompt(content string, kind Kind, count int, difficulty string) string {
	var b strings.Builder
	b.WriteString(outputContract)
	b.WriteString("\n")
	b.WriteString(taskSentence(kind, count, difficulty))
	b.WriteString("\nContent:\n")
	b.WriteString(content)
	return b.String()
}

func taskSentence(kind Kind, count int, difficulty string) string {
	d := strings.ToLower(strings.TrimSpace(difficulty))
	switch kind {
	case KindMultipleChoice:
		return fmt.Sprintf("Create %d %s multiple choice questions from this content. "+
			"Each must have options A-D, exactly one correct answer (letter or exact text), and an explanation.", count, d)
	case KindTrueFalse:
		return fmt.Sprintf("Create %d %s true/false questions from this content. "+
			`Use "True" or "False" for correct_answer and include an explanation.`, count, d)
	default:
		return fmt.Sprintf("Create %d %s short answer questions from this content. "+
			"Include a clear correct_answer and an explanation.", count, d)
	}
}

// generationRequest wraps a prompt with the request parameters the
// pipeline always uses.
func generationRequest(prompt string) llm.Request {
	req := llm.UserRequest(systemPrompt, prompt)
	req.Temperature = llm.Temp(generateTemperature)
	req.MaxTokens = generateMaxTokens
	req.JSONMode = true
	return req
}
