package chat

import (
	"regexp"
	"strings"
)

var thinkSpanRe = regexp.MustCompile(`(?s)<think>(.*?)</think>`)

// SplitThinking separates an assistant message's text into an optional
// reasoning segment and the visible answer. Only the first well-formed
// <think>...</think> span counts as reasoning; any remaining or
// unterminated tag markers are left in the answer verbatim. This is a
// view transform and never touches stored content.
func SplitThinking(text string) (reasoning, answer string) {
	loc := thinkSpanRe.FindStringSubmatchIndex(text)
	if loc == nil {
		return "", text
	}

	reasoning = strings.TrimSpace(text[loc[2]:loc[3]])
	answer = strings.TrimSpace(text[:loc[0]] + text[loc[1]:])
	return reasoning, answer
}
