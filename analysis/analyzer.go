package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/sashabaranov/go-openai"

	"go-safetyboard/observability"
	"go-safetyboard/types"
)

const maxDescriptions = 200
const maxPromptLength = 15000 // Rough character limit for prompt

const (
	noDataMessage      = "분석할 사고 데이터가 없습니다."
	analysisErrMessage = "AI 분석 중 오류가 발생했습니다. 잠시 후 다시 시도해주세요."
)

// ChatClient is the part of the OpenAI client the analyzer uses.
type ChatClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
	CreateChatCompletionStream(ctx context.Context, req openai.ChatCompletionRequest) (*openai.ChatCompletionStream, error)
}

// Analyzer runs the LLM analysis flows. It shares no state with the dashboard.
type Analyzer struct {
	client  ChatClient
	model   string
	clock   clockwork.Clock
	metrics *observability.Metrics
}

// NewOpenAIClient builds an OpenAI client, pointing it at baseURL when set.
func NewOpenAIClient(apiKey, baseURL string) *openai.Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return openai.NewClientWithConfig(cfg)
}

func NewAnalyzer(client ChatClient, model string, clock clockwork.Clock, metrics *observability.Metrics) *Analyzer {
	if model == "" {
		model = openai.GPT4oMini
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Analyzer{client: client, model: model, clock: clock, metrics: metrics}
}

// Descriptions collects the incident names used as analysis input, skipping
// blank names and capping the count.
func Descriptions(incidents []types.Incident) []string {
	out := make([]string, 0, min(len(incidents), maxDescriptions))
	for _, inc := range incidents {
		if len(out) >= maxDescriptions {
			break
		}
		name := strings.TrimSpace(inc.Name)
		if name == "" {
			continue
		}
		out = append(out, name)
	}
	return out
}

// AnalyzeThemes asks the model for analysis results, prevention measures and
// safety instructions. It never fails: empty input and model errors are
// reported as a single message in AnalysisResults.
func (a *Analyzer) AnalyzeThemes(ctx context.Context, descriptions []string) types.AiAnalysis {
	descriptions = nonBlank(descriptions)
	if len(descriptions) == 0 {
		a.record("themes", "skipped", 0)
		return types.AiAnalysis{
			AnalysisResults:      []string{noDataMessage},
			PreventativeMeasures: []string{},
			SafetyInstructions:   []string{},
		}
	}

	prompt := fmt.Sprintf(`Analyze the following accident titles:
%s

Based on your analysis, generate the following three sections. Each item must be a concise, actionable bullet point.

1. 데이터 분석 결과 (Data Analysis Results): Identify the primary causes and recurring patterns from the accident data.
2. 재발 방지 대책 (Recurrence Prevention Measures): Propose strategic measures to prevent similar accidents in the future.
3. 안전작업 지시사항 (Safety Work Instructions): Provide clear, actionable safety instructions for workers on site.

Respond with a JSON object with the string array fields "analysisResults", "preventativeMeasures" and "safetyInstructions".`, bulletList(descriptions))

	start := a.clock.Now()
	var out types.AiAnalysis
	err := a.completeJSON(ctx,
		"You are a construction safety expert AI. Based on the provided list of accident titles, please perform a detailed analysis. Your response must be in clear and concise Korean.",
		prompt, &out)
	if err == nil && len(out.AnalysisResults) == 0 {
		err = fmt.Errorf("model returned no analysis results")
	}
	if err != nil {
		log.Printf("AI analysis failed: %v", err)
		a.record("themes", "error", a.clock.Since(start))
		return types.AiAnalysis{
			AnalysisResults:      []string{analysisErrMessage},
			PreventativeMeasures: []string{},
			SafetyInstructions:   []string{},
		}
	}

	a.record("themes", "success", a.clock.Since(start))
	out.PreventativeMeasures = orEmpty(out.PreventativeMeasures)
	out.SafetyInstructions = orEmpty(out.SafetyInstructions)
	return out
}

// SuggestPreventativeMeasures asks the model for the key themes of the
// descriptions and measures addressing them.
func (a *Analyzer) SuggestPreventativeMeasures(ctx context.Context, descriptions []string) (types.PreventativeSuggestion, error) {
	descriptions = nonBlank(descriptions)
	if len(descriptions) == 0 {
		a.record("measures", "skipped", 0)
		return types.PreventativeSuggestion{Themes: []string{}, PreventativeMeasures: []string{}}, nil
	}

	prompt := fmt.Sprintf(`Accident Descriptions:
%s

Identify the key themes that emerge from these descriptions and then suggest concrete preventative measures that could be implemented to address these themes.
Respond in Korean with a JSON object with the string array fields "themes" and "preventativeMeasures".`, bulletList(descriptions))

	start := a.clock.Now()
	var out types.PreventativeSuggestion
	if err := a.completeJSON(ctx,
		"You are a safety analyst. Analyze the following accident descriptions to identify key themes and suggest preventative measures.",
		prompt, &out); err != nil {
		a.record("measures", "error", a.clock.Since(start))
		return types.PreventativeSuggestion{}, fmt.Errorf("suggest preventative measures: %w", err)
	}

	a.record("measures", "success", a.clock.Since(start))
	out.Themes = orEmpty(out.Themes)
	out.PreventativeMeasures = orEmpty(out.PreventativeMeasures)
	return out, nil
}

// completeJSON sends one chat completion in JSON mode and decodes the reply into dst.
func (a *Analyzer) completeJSON(ctx context.Context, system, user string, dst any) error {
	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: a.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Temperature: 0.4,
	})
	if err != nil {
		return fmt.Errorf("openai chat completion error: %w", err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return fmt.Errorf("openai returned empty response or choices")
	}
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), dst); err != nil {
		return fmt.Errorf("decode model output: %w", err)
	}
	return nil
}

func (a *Analyzer) record(flow, outcome string, d time.Duration) {
	if a.metrics == nil {
		return
	}
	a.metrics.AIRequests.WithLabelValues(flow, outcome).Inc()
	if outcome != "skipped" {
		a.metrics.AIDuration.WithLabelValues(flow).Observe(d.Seconds())
	}
}

// bulletList renders descriptions one per line, truncated to maxPromptLength.
func bulletList(descriptions []string) string {
	var b strings.Builder
	for _, d := range descriptions {
		line := "- " + d + "\n"
		if b.Len()+len(line) > maxPromptLength {
			log.Printf("Warning: accident descriptions exceed max prompt length (%d), truncating.", maxPromptLength)
			break
		}
		b.WriteString(line)
	}
	return b.String()
}

func nonBlank(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			out = append(out, v)
		}
	}
	return out
}

func orEmpty(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
