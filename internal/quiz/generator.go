package quiz

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/abhisek/studyaid/internal/llm"
)

// MixedTitle is the title of every mixed quiz.
const MixedTitle = "Mixed Quiz"

var (
	// ErrNoQuestions means generation finished with nothing usable. The
	// caller should offer a retry.
	ErrNoQuestions = errors.New("no questions produced")

	// ErrEmptyContent means the content was empty after preprocessing.
	ErrEmptyContent = errors.New("content is empty")

	// ErrUnusableOutput means the reply parsed but every candidate was
	// dropped by normalization.
	ErrUnusableOutput = errors.New("no usable question in reply")
)

// GenerationError reports a provider failure or an empty reply.
type GenerationError struct {
	Kind Kind
	Err  error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generate %s questions: %v", e.Kind, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// KindPicker draws the kind of the next mixed-quiz question.
type KindPicker func() Kind

// Mixed quiz draw weights.
const (
	weightMultipleChoice = 0.5
	weightTrueFalse      = 0.3
)

// WeightedPicker draws multiple choice 50%, true/false 30% and short
// answer 20% of the time using r, or the global source when r is nil.
func WeightedPicker(r *rand.Rand) KindPicker {
	return func() Kind {
		var x float64
		if r != nil {
			x = r.Float64()
		} else {
			x = rand.Float64()
		}
		switch {
		case x < weightMultipleChoice:
			return KindMultipleChoice
		case x < weightMultipleChoice+weightTrueFalse:
			return KindTrueFalse
		default:
			return KindShortAnswer
		}
	}
}

// Pipeline turns content into quizzes through a Provider.
type Pipeline struct {
	provider llm.Provider
	pick     KindPicker
	maxChars int
	now      func() time.Time
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithPicker replaces the mixed-quiz draw.
func WithPicker(pick KindPicker) Option {
	return func(p *Pipeline) { p.pick = pick }
}

// WithMaxContentChars overrides MaxContentChars.
func WithMaxContentChars(n int) Option {
	return func(p *Pipeline) { p.maxChars = n }
}

// WithClock sets the time source for Quiz.CreatedAt.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) { p.now = now }
}

// NewPipeline creates a Pipeline.
func NewPipeline(provider llm.Provider, opts ...Option) *Pipeline {
	p := &Pipeline{
		provider: provider,
		pick:     WeightedPicker(nil),
		maxChars: MaxContentChars,
		now:      time.Now,
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Generate builds a quiz for req. Mixed requests make one single-question
// call per draw, in sequence; failed draws are listed in Quiz.Skipped.
// When nothing usable comes back the error wraps ErrNoQuestions together
// with the last GenerationError or ParseError.
func (p *Pipeline) Generate(ctx context.Context, req GenerateRequest) (*Quiz, error) {
	if req.Count <= 0 {
		return nil, fmt.Errorf("question count must be positive, got %d", req.Count)
	}
	if !req.Kind.Valid() && req.Kind != KindMixed {
		return nil, fmt.Errorf("unknown question type %q", req.Kind)
	}
	content, truncated := Preprocess(req.Content, p.maxChars)
	if content == "" {
		return nil, ErrEmptyContent
	}
	if truncated {
		log.Warn().Int("max_chars", p.maxChars).Msg("quiz content truncated")
	}

	ctx = llm.WithPurpose(ctx, llm.PurposeQuizGen)
	qz := &Quiz{
		Difficulty:    req.Difficulty,
		RequestedKind: req.Kind,
		SourceContent: req.Content,
		CreatedAt:     p.now(),
	}

	var err error
	if req.Kind == KindMixed {
		err = p.generateMixed(ctx, qz, content, req)
	} else {
		err = p.generateSingle(ctx, qz, content, req)
	}
	if err != nil {
		return nil, err
	}

	log.Debug().
		Str("kind", string(req.Kind)).
		Int("requested", req.Count).
		Int("questions", len(qz.Questions)).
		Int("skipped", len(qz.Skipped)).
		Msg("quiz generated")
	return qz, nil
}

func (p *Pipeline) generateSingle(ctx context.Context, qz *Quiz, content string, req GenerateRequest) error {
	parsed, err := p.call(ctx, BuildPrompt(content, req.Kind, req.Count, req.Difficulty), req.Kind)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrNoQuestions, err)
	}
	qs := Normalize(parsed.Questions, req.Kind)
	if len(qs) == 0 {
		return fmt.Errorf("%w: %w", ErrNoQuestions, ErrUnusableOutput)
	}
	if len(qs) > req.Count {
		qs = qs[:req.Count]
	}
	qz.Title = parsed.Title
	qz.Questions = qs
	return nil
}

func (p *Pipeline) generateMixed(ctx context.Context, qz *Quiz, content string, req GenerateRequest) error {
	qz.Title = MixedTitle
	var lastErr error
	for draw := 1; draw <= req.Count; draw++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		kind := p.pick()

		parsed, err := p.call(ctx, BuildPrompt(content, kind, 1, req.Difficulty), kind)
		if err != nil {
			lastErr = err
			qz.Skipped = append(qz.Skipped, DrawFailure{Draw: draw, Kind: kind, Reason: err.Error()})
			log.Warn().Err(err).Int("draw", draw).Str("kind", string(kind)).Msg("mixed quiz draw failed")
			continue
		}

		forced := make([]Value, len(parsed.Questions))
		for i, raw := range parsed.Questions {
			forced[i] = withKind(raw, kind)
		}
		qs := Normalize(forced, kind)
		if len(qs) == 0 {
			lastErr = ErrUnusableOutput
			qz.Skipped = append(qz.Skipped, DrawFailure{Draw: draw, Kind: kind, Reason: ErrUnusableOutput.Error()})
			continue
		}

		q := qs[0]
		q.ID = len(qz.Questions) + 1
		qz.Questions = append(qz.Questions, q)
	}

	if len(qz.Questions) == 0 {
		if lastErr != nil {
			return fmt.Errorf("%w: %w", ErrNoQuestions, lastErr)
		}
		return ErrNoQuestions
	}
	return nil
}

func (p *Pipeline) call(ctx context.Context, prompt string, kind Kind) (*Parsed, error) {
	resp, err := p.provider.Generate(ctx, generationRequest(prompt))
	if err != nil {
		return nil, &GenerationError{Kind: kind, Err: err}
	}
	text := resp.Text()
	if text == "" {
		return nil, &GenerationError{Kind: kind, Err: errors.New("empty response")}
	}
	return Parse(text)
}

// withKind returns a copy of raw whose type field is kind.
func withKind(raw Value, kind Kind) Value {
	obj := make(map[string]Value, len(raw.Object)+1)
	for k, v := range raw.Object {
		if strings.EqualFold(k, "type") || strings.EqualFold(k, "question_type") {
			continue
		}
		obj[k] = v
	}
	obj["type"] = String(string(kind))
	return Value{Kind: ValueObject, Object: obj}
}
