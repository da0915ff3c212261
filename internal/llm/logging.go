package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/abhisek/studyaid/internal/store"
)

// LoggingProvider records every request as an llm event row and a
// structured log line.
type LoggingProvider struct {
	inner     Provider
	provider  string
	eventRepo store.EventRepo
}

// WithLogging wraps a Provider with event logging. providerName is the
// configured backend ("openrouter", "gemini", ...).
func WithLogging(p Provider, providerName string, repo store.EventRepo) Provider {
	return &LoggingProvider{inner: p, provider: providerName, eventRepo: repo}
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	purpose := PurposeFrom(ctx)

	resp, err := l.inner.Generate(ctx, req)
	latency := time.Since(start)

	data := store.LLMRequestEventData{
		Provider:    l.provider,
		Model:       l.inner.ModelID(),
		Purpose:     purpose,
		LatencyMs:   latency.Milliseconds(),
		Success:     err == nil,
		RequestBody: serializeRequest(req),
	}
	if resp != nil {
		data.InputTokens = resp.Usage.InputTokens
		data.OutputTokens = resp.Usage.OutputTokens
		if resp.Model != "" {
			data.Model = resp.Model
		}
		data.ResponseBody = string(resp.Content)
	}
	if err != nil {
		data.ErrorMessage = err.Error()
	}

	ev := log.Debug()
	if err != nil {
		ev = log.Warn().Err(err)
	}
	ev.Str("purpose", purpose).
		Str("model", data.Model).
		Int64("latency_ms", data.LatencyMs).
		Int("input_tokens", data.InputTokens).
		Int("output_tokens", data.OutputTokens).
		Msg("model request")

	// A failed write must not fail the request.
	if logErr := l.eventRepo.AppendLLMRequest(ctx, data); logErr != nil {
		log.Warn().Err(logErr).Msg("failed to record llm request event")
	}

	return resp, err
}

func (l *LoggingProvider) ModelID() string {
	return l.inner.ModelID()
}

// serializeRequest renders the request for `studyaid llm view`.
func serializeRequest(req Request) string {
	var b strings.Builder

	if req.System != "" {
		fmt.Fprintf(&b, "[system]\n%s\n\n", req.System)
	}
	for _, m := range req.Messages {
		fmt.Fprintf(&b, "[%s]\n%s\n\n", m.Role, m.Content)
	}
	if req.Schema != nil {
		if def, err := json.Marshal(req.Schema.Definition); err == nil {
			fmt.Fprintf(&b, "[schema: %s]\n%s\n", req.Schema.Name, def)
		}
	} else if req.JSONMode {
		b.WriteString("[format: json_object]\n")
	}
	return b.String()
}
