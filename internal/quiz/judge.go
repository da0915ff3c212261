package quiz

import (
	"context"
	"fmt"
	"strings"

	"github.com/abhisek/studyaid/internal/llm"
)

const judgeSystemPrompt = "Respond only with 'true' or 'false' (lowercase). No punctuation."

// LLMJudge asks a model whether a short answer is correct.
type LLMJudge struct {
	provider llm.Provider
}

// NewLLMJudge creates a judge backed by provider.
func NewLLMJudge(provider llm.Provider) *LLMJudge {
	return &LLMJudge{provider: provider}
}

// Judge implements Judge. The verdict is true when the reply starts with "t".
func (j *LLMJudge) Judge(ctx context.Context, q Question, answer string) (bool, error) {
	ctx = llm.WithPurpose(ctx, llm.PurposeQuizJudge)

	req := llm.UserRequest(judgeSystemPrompt, judgePrompt(q, answer))
	req.MaxTokens = 3
	req.Temperature = llm.Temp(0)

	resp, err := j.provider.Generate(ctx, req)
	if err != nil {
		return false, fmt.Errorf("judge short answer: %w", err)
	}
	reply := strings.ToLower(strings.Trim(resp.Text(), `"' `))
	return strings.HasPrefix(reply, "t"), nil
}

func judgePrompt(q Question, answer string) string {
	var b strings.Builder
	b.WriteString("You are grading a short answer question.\n")
	fmt.Fprintf(&b, "Question: %s\n", q.Text)
	fmt.Fprintf(&b, "Correct Answer: %s\n", q.CorrectAnswer)
	fmt.Fprintf(&b, "Student's Answer: %s\n", answer)
	b.WriteString("Respond only with 'true' if the student's answer is correct, or 'false' if it is incorrect.")
	return b.String()
}
