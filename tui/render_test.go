package tui

import (
	"strings"
	"testing"

	"github.com/kmelnyk/persona-chat-go/chat"
)

func TestRenderAssistantTextSplitsThinkingTrace(t *testing.T) {
	out := renderAssistantText(nil, "<think>weighing options</think>The answer is 4.")

	if !strings.Contains(out, "<thinking>") || !strings.Contains(out, "</thinking>") {
		t.Fatalf("expected a thinking block, got:\n%s", out)
	}
	if !strings.Contains(out, "weighing options") {
		t.Fatalf("expected the trace text, got:\n%s", out)
	}
	if !strings.Contains(out, "The answer is 4.") {
		t.Fatalf("expected the answer text, got:\n%s", out)
	}
	if strings.Contains(out, "<think>") && !strings.Contains(out, "<thinking>") {
		t.Fatalf("raw think tags leaked into the output:\n%s", out)
	}
}

func TestRenderAssistantTextWithoutTrace(t *testing.T) {
	out := renderAssistantText(nil, "Just an answer.")
	if strings.Contains(out, "thinking") {
		t.Fatalf("no trace expected, got:\n%s", out)
	}
	if !strings.Contains(out, "Just an answer.") {
		t.Fatalf("answer missing from output:\n%s", out)
	}
}

func TestRenderConversationNumbersVisibleMessages(t *testing.T) {
	display := []chat.Message{
		{ID: "a", Role: chat.RoleUser, Content: chat.PlainText("hello")},
		{ID: "b", Role: chat.RoleAssistant, Content: chat.PlainText("hi there")},
	}

	out := renderConversation(nil, display, "Luna")
	if !strings.Contains(out, "[1]") || !strings.Contains(out, "[2]") {
		t.Fatalf("expected numbered entries, got:\n%s", out)
	}
	if !strings.Contains(out, "Luna:") {
		t.Fatalf("expected the persona name label, got:\n%s", out)
	}
}

func TestRenderConversationMarksAttachments(t *testing.T) {
	content, err := chat.PartsContent([]chat.Part{
		{Kind: chat.PartText, Text: "look at this"},
		{Kind: chat.PartImage, URL: "http://example.com/cat.png"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := renderConversation(nil, []chat.Message{
		{ID: "a", Role: chat.RoleUser, Content: content},
	}, "Luna")
	if !strings.Contains(out, "[image attached]") {
		t.Fatalf("expected an attachment marker, got:\n%s", out)
	}
}

func TestWrapLineRespectsWidth(t *testing.T) {
	out := wrapLine("one two three four five six", 10)
	for _, line := range strings.Split(out, "\n") {
		if len(line) > 10 {
			t.Fatalf("line longer than the wrap width: %q", line)
		}
	}
	if strings.ReplaceAll(out, "\n", " ") != "one two three four five six" {
		t.Fatalf("wrapping must not change the words: %q", out)
	}
}

func TestConfirmationPrompts(t *testing.T) {
	search := confirmationPrompt(chat.Confirmation{Kind: chat.ConfirmSearch, Query: "weather kyiv"})
	if !strings.Contains(search, "weather kyiv") || !strings.Contains(search, "(y/n)") {
		t.Fatalf("unexpected search prompt: %q", search)
	}

	memory := confirmationPrompt(chat.Confirmation{Kind: chat.ConfirmMemory, Summary: "likes tea"})
	if !strings.Contains(memory, "likes tea") || !strings.Contains(memory, "(y/n)") {
		t.Fatalf("unexpected memory prompt: %q", memory)
	}
}
