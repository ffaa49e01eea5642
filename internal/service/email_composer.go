package service

import (
	"bytes"
	"fmt"
	"html"
	"html/template"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/parser"
	goldmarkhtml "github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"
)

const missingMetricPlaceholder = "---"

var (
	narrativeEngine = goldmark.New(
		goldmark.WithParser(newNarrativeParser()),
		goldmark.WithRendererOptions(goldmarkhtml.WithHardWraps(), goldmarkhtml.WithUnsafe()),
	)
	narrativePolicy = buildNarrativePolicy()
	plainTextPolicy = bluemonday.StrictPolicy()
)

// newNarrativeParser 只识别段落与内联 HTML。列表、标题、强调等 Markdown 语法
// 按原文保留，每个换行都渲染为 <br>，空行分段。
func newNarrativeParser() parser.Parser {
	return parser.NewParser(
		parser.WithBlockParsers(util.Prioritized(parser.NewParagraphParser(), 1000)),
		parser.WithInlineParsers(util.Prioritized(parser.NewRawHTMLParser(), 400)),
	)
}

func buildNarrativePolicy() *bluemonday.Policy {
	policy := bluemonday.NewPolicy()
	policy.AllowElements("b", "i", "strong", "em", "br", "p")
	return policy
}

var emailTemplate = template.Must(template.New("summary").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>Summary</title>
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; margin: 0; padding: 0;">
  <div class="container" style="max-width: 600px; margin: 0 auto; padding: 16px;">
    <div class="summary" style="padding: 16px; background-color: #f8f8f8; border: 1px solid #e8e8e8; border-radius: 4px; margin-bottom: 24px;">
      {{.Narrative}}
    </div>
    <table style="border-collapse: collapse; width: 100%; margin: 0 auto; font-family: Arial, sans-serif; line-height: 1.6;">
      <thead>
        <tr>
          <th style="border: 1px solid #ddd; padding: 12px; text-align: left; background-color: #f2f2f2; font-weight: bold;">Metric</th>
          <th style="border: 1px solid #ddd; padding: 12px; text-align: left; background-color: #f2f2f2; font-weight: bold;">Yesterday</th>
          <th style="border: 1px solid #ddd; padding: 12px; text-align: left; background-color: #f2f2f2; font-weight: bold;">Last Month</th>
        </tr>
      </thead>
      <tbody>
      {{- range .Rows}}
        <tr>
          <td style="border: 1px solid #ddd; padding: 12px;">{{.Label}}</td>
          <td style="border: 1px solid #ddd; padding: 12px;">{{.Yesterday}}</td>
          <td style="border: 1px solid #ddd; padding: 12px;">{{.LastMonth}}</td>
        </tr>
      {{- end}}
      </tbody>
    </table>
  </div>
</body>
</html>
`))

// ComposedEmail 包含同一封邮件的纯文本与 HTML 两个版本。
type ComposedEmail struct {
	Text string
	HTML string
}

// ComparisonRow 是邮件表格中的一行。
type ComparisonRow struct {
	Label     string
	Yesterday string
	LastMonth string
}

type emailView struct {
	Narrative template.HTML
	Rows      []ComparisonRow
}

// BuildComparisonRows 按昨日指标的顺序生成表格行，月数据缺失的指标用 "---" 占位。
func BuildComparisonRows(day, month FormattedMetrics) []ComparisonRow {
	rows := make([]ComparisonRow, 0, len(day.Keys))
	for _, key := range day.Keys {
		yesterday, ok := day.Value(key)
		if !ok {
			continue
		}
		lastMonth, ok := month.Value(key)
		if !ok || strings.TrimSpace(lastMonth) == "" {
			lastMonth = missingMetricPlaceholder
		}
		rows = append(rows, ComparisonRow{
			Label:     MetricLabel(key),
			Yesterday: yesterday,
			LastMonth: lastMonth,
		})
	}
	return rows
}

// RenderNarrativeHTML 将模型返回的片段换行转为 <br>，并只保留基础强调标签。
func RenderNarrativeHTML(narrative string) (string, error) {
	var buf bytes.Buffer
	if err := narrativeEngine.Convert([]byte(strings.TrimSpace(narrative)), &buf); err != nil {
		return "", fmt.Errorf("render narrative: %w", err)
	}
	return strings.TrimSpace(narrativePolicy.Sanitize(buf.String())), nil
}

// NarrativePlainText 去掉叙述中的 HTML 标签，用作纯文本正文。
func NarrativePlainText(narrative string) string {
	return strings.TrimSpace(html.UnescapeString(plainTextPolicy.Sanitize(narrative)))
}

// ComposeEmail 合并叙述与对比表格，生成完整的 HTML 文档和纯文本备选正文。
func ComposeEmail(narrative string, day, month FormattedMetrics) (ComposedEmail, error) {
	narrativeHTML, err := RenderNarrativeHTML(narrative)
	if err != nil {
		return ComposedEmail{}, err
	}

	view := emailView{
		Narrative: template.HTML(narrativeHTML),
		Rows:      BuildComparisonRows(day, month),
	}

	var buf bytes.Buffer
	if err := emailTemplate.Execute(&buf, view); err != nil {
		return ComposedEmail{}, fmt.Errorf("render email html: %w", err)
	}

	text := NarrativePlainText(narrative)
	if summary := strings.TrimSpace(day.Summary); summary != "" {
		text += "\n\n" + summary
	}

	return ComposedEmail{Text: text, HTML: buf.String()}, nil
}
