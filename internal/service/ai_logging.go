package service

import (
	"log"
	"strings"
	"unicode/utf8"
)

const maxAILogSnippetRunes = 512

// logAIExchange 输出提示词与模型回复的片段，便于排查叙述内容。
func logAIExchange(runID, phase, content string) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		log.Printf("[AI NARRATIVE %s] %s: <empty>", runID, phase)
		return
	}

	runeCount := utf8.RuneCountInString(trimmed)
	snippet := trimmed
	if runeCount > maxAILogSnippetRunes {
		snippet = string([]rune(trimmed)[:maxAILogSnippetRunes]) + "…(truncated)"
	}
	snippet = strings.ReplaceAll(snippet, "\n", " ⏎ ")
	log.Printf("[AI NARRATIVE %s] %s (runes=%d): %s", runID, phase, runeCount, snippet)
}
