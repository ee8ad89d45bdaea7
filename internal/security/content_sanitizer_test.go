package security

import (
	"strings"
	"testing"
)

func TestSanitizeDescription_AllowsBasicFormatting(t *testing.T) {
	s := NewContentSanitizer()

	in := "<p>__All coaches are encouraged to attend__</p><ul><li>agenda</li></ul>"
	out := s.SanitizeDescription(in)

	if !strings.Contains(out, "<p>") {
		t.Errorf("expected <p> to survive, got %q", out)
	}
	if !strings.Contains(out, "<li>agenda</li>") {
		t.Errorf("expected <li> to survive, got %q", out)
	}
}

func TestSanitizeDescription_RemovesScript(t *testing.T) {
	s := NewContentSanitizer()

	in := `<p>meeting</p><script>alert("xss")</script>`
	out := s.SanitizeDescription(in)

	if strings.Contains(out, "<script>") {
		t.Errorf("script tag should be removed, got %q", out)
	}
	if !strings.Contains(out, "<p>meeting</p>") {
		t.Errorf("expected safe content to survive, got %q", out)
	}
}

func TestSanitizeDescription_RemovesEventAttributes(t *testing.T) {
	s := NewContentSanitizer()

	in := `<p onclick="alert(1)">hello</p>`
	out := s.SanitizeDescription(in)

	if strings.Contains(out, "onclick") {
		t.Errorf("onclick attribute should be removed, got %q", out)
	}
}

func TestSanitizeDescription_AddsNoopenerToLinks(t *testing.T) {
	s := NewContentSanitizer()

	in := `<a href="https://example.com/team-sync">link</a>`
	out := s.SanitizeDescription(in)

	if !strings.Contains(out, `target="_blank"`) {
		t.Errorf("expected target=_blank on links, got %q", out)
	}
	if !strings.Contains(out, "noopener") {
		t.Errorf("expected rel=noopener on links, got %q", out)
	}
}

func TestSanitizeDescription_Idempotent(t *testing.T) {
	s := NewContentSanitizer()

	in := `<p>briefing <em>before</em> the event</p>`
	once := s.SanitizeDescription(in)
	twice := s.SanitizeDescription(once)

	if once != twice {
		t.Errorf("sanitize should be idempotent: %q != %q", once, twice)
	}
}

func TestSanitizeNote_StripsAllTags(t *testing.T) {
	s := NewContentSanitizer()

	in := `Arriving <strong>late</strong><script>alert(1)</script>`
	out := s.SanitizeNote(in)

	if strings.Contains(out, "<") {
		t.Errorf("note should be plain text, got %q", out)
	}
	if !strings.Contains(out, "Arriving") || !strings.Contains(out, "late") {
		t.Errorf("expected text content to survive, got %q", out)
	}
}

func TestSanitizeNote_EmptyInput(t *testing.T) {
	s := NewContentSanitizer()

	if out := s.SanitizeNote(""); out != "" {
		t.Errorf("empty input should yield empty output, got %q", out)
	}
}
