package chat

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestBuildContentPlainForm(t *testing.T) {
	c := BuildContent("hello", "")
	if c.IsParts() {
		t.Fatal("expected plain form when no attachment")
	}
	if c.PlainText() != "hello" {
		t.Fatalf("unexpected text: %q", c.PlainText())
	}
	if c.HasAttachment() {
		t.Fatal("plain content has no attachment")
	}
}

func TestBuildContentWithAttachment(t *testing.T) {
	c := BuildContent("look", "data:image/png;base64,AAAA")
	if !c.IsParts() {
		t.Fatal("expected structured form with attachment")
	}
	if !c.HasAttachment() {
		t.Fatal("expected attachment")
	}
	if c.PlainText() != "look" {
		t.Fatalf("normalized text must come from first text part, got %q", c.PlainText())
	}
	parts := c.Parts()
	if len(parts) != 2 || parts[0].Kind != PartText || parts[1].Kind != PartImage {
		t.Fatalf("unexpected part layout: %+v", parts)
	}
}

func TestPartsContentRejectsEmptySequence(t *testing.T) {
	_, err := PartsContent(nil)
	var cerr *ContentError
	if !errors.As(err, &cerr) {
		t.Fatalf("expected ContentError, got %v", err)
	}
}

func TestPartsContentRejectsImageWithoutURL(t *testing.T) {
	_, err := PartsContent([]Part{{Kind: PartImage}})
	var cerr *ContentError
	if !errors.As(err, &cerr) {
		t.Fatalf("expected ContentError, got %v", err)
	}
}

func TestNormalizeEquivalenceOfBothForms(t *testing.T) {
	plain := PlainText("same text")
	structured, err := PartsContent([]Part{TextPart("same text")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plain.PlainText() != structured.PlainText() {
		t.Fatal("both representations must normalize to the same text")
	}
}

func TestNormalizeWithoutTextPart(t *testing.T) {
	c, err := PartsContent([]Part{ImagePart("https://example.com/a.png")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.PlainText() != "" {
		t.Fatalf("expected empty normalized text, got %q", c.PlainText())
	}
}

func TestContentJSONPlainString(t *testing.T) {
	data, err := json.Marshal(PlainText("hi"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != `"hi"` {
		t.Fatalf("plain content must encode as a string, got %s", data)
	}

	var decoded Content
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if decoded.IsParts() || decoded.PlainText() != "hi" {
		t.Fatalf("round trip lost plain form: %+v", decoded)
	}
}

func TestContentJSONPartArray(t *testing.T) {
	c := BuildContent("caption", "data:image/png;base64,BBBB")
	data, err := json.Marshal(c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var decoded Content
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !decoded.HasAttachment() {
		t.Fatal("round trip lost the attachment")
	}
	if decoded.PlainText() != "caption" {
		t.Fatalf("round trip lost the caption: %q", decoded.PlainText())
	}
}

func TestContentJSONRejectsEmptyArray(t *testing.T) {
	var decoded Content
	err := json.Unmarshal([]byte(`[]`), &decoded)
	var cerr *ContentError
	if !errors.As(err, &cerr) {
		t.Fatalf("expected ContentError for empty part array, got %v", err)
	}
}
