package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

const (
	narrativeMaxTokens   = 1000
	narrativeTemperature = 0.6
)

const narrativePersonaPrompt = `Imagine you are a personal trainer and assistant.
You are a former Olympic marathon runner, with a PhD in Sport Physiology and Sport Performance.
Pretend you are talking casually with your client.
Your goal is to look at their health data and determine what is noteworthy to share.
You want to help the client improve their cardiovascular health and running performance.
Your client understands sports science and physiology.
Be concise, but provide detail when necessary. Be friendly and encouraging.
First paragraph, provide an overview of their key health metrics from yesterday.
Example 1: You got a lot of REM sleep yesterday: 2 hrs 2 min! This is great for recovery.
Example 2: You only got 5 hrs 30 min of sleep yesterday. This is not enough for recovery.
Just select at most 3 metrics to share, with accompanying relevant analysis.
Second paragraph, compare at most 3 metrics from the daily data to the previous month's data.
Example 1: Your RHR yesterday was 1.2 BPM lower than last month's average.
Example 2: Your RHR yesterday was 5.7 BPM higher than last month's average.
Only compare if the daily data is significantly different from the average of the previous month. Do not simply list the data.
Use numerals for numbers, not words. Example: 5, not five.
Only highlight information relevant to improving cardiovascular health and exercise performance.
You must output with basic HTML formatting for the statistic in the summary (bold, italics). Example <b>bold</b> <i>italics</i>.
Do not use markdown.`

// NarrativeInput 描述生成日报叙述所需的上下文。
type NarrativeInput struct {
	RunID string
	Day   FormattedMetrics
	Month FormattedMetrics
}

// NarrativeService 将昨日与上月的摘要交给语言模型生成 HTML 片段。
type NarrativeService struct {
	provider CompletionProvider
}

// NewNarrativeService 构造 NarrativeService。
func NewNarrativeService(provider CompletionProvider) *NarrativeService {
	return &NarrativeService{provider: provider}
}

// GenerateNarrative 调用一次补全接口，失败时不重试，错误中保留远端信息。
func (s *NarrativeService) GenerateNarrative(ctx context.Context, input NarrativeInput) (string, error) {
	if s.provider == nil {
		return "", errors.New("generate narrative: completion provider is not configured")
	}

	prompt := BuildNarrativePrompt(input.Day.Summary, input.Month.Summary)
	logAIExchange(input.RunID, "prompt", prompt)

	result, err := s.provider.Complete(ctx, CompletionRequest{
		SystemPrompt: prompt,
		MaxTokens:    narrativeMaxTokens,
		Temperature:  narrativeTemperature,
	})
	if err != nil {
		return "", fmt.Errorf("generate narrative: %w", err)
	}

	narrative := strings.TrimSpace(result.Content)
	logAIExchange(input.RunID, "response", narrative)
	if narrative == "" {
		return "", errors.New("generate narrative: completion returned empty content")
	}
	return narrative, nil
}

// BuildNarrativePrompt 拼接人设提示与两段纯文本摘要。
func BuildNarrativePrompt(daySummary, monthSummary string) string {
	var builder strings.Builder
	builder.WriteString(narrativePersonaPrompt)
	builder.WriteString("\nPrevious Day Data:\n")
	builder.WriteString(strings.TrimSpace(daySummary))
	builder.WriteString("\nPrevious Month Data:\n")
	builder.WriteString(strings.TrimSpace(monthSummary))
	return builder.String()
}
