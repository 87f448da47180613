package services

import (
	"strings"
	"testing"
)

func TestExtractQnA_BoldNotation(t *testing.T) {
	content := `Intro paragraph.

## Q&A

**Q. What is drip publishing?**
A. Releasing one queued post per scheduled run.

**Q. Can slugs change?**
A. Yes, files are keyed by notion_id instead.

---

Outro paragraph.`

	items := ExtractQnA(content)
	if len(items) != 2 {
		t.Fatalf("Expected 2 items, got %d", len(items))
	}
	if items[0].Question != "What is drip publishing?" {
		t.Errorf("Unexpected question: %q", items[0].Question)
	}
	if items[0].Answer != "Releasing one queued post per scheduled run." {
		t.Errorf("Unexpected answer: %q", items[0].Answer)
	}
	if items[1].Question != "Can slugs change?" {
		t.Errorf("Unexpected question: %q", items[1].Question)
	}
}

func TestExtractQnA_PlainAndToggleNotations(t *testing.T) {
	plain := "## FAQ\n\nQ. First?\nA. One.\n\nQ. Second?\nA. Two.\n"
	toggle := "## FAQ\n\n▶ First?\nA. One.\n\n▶ Second?\nA. Two.\n"
	bullet := "## FAQ\n\n- First?\nA. One.\n\n- Second?\nA. Two.\n"

	for name, content := range map[string]string{"plain": plain, "toggle": toggle, "bullet": bullet} {
		items := ExtractQnA(content)
		if len(items) != 2 {
			t.Errorf("%s: expected 2 items, got %d", name, len(items))
			continue
		}
		if items[0].Question != "First?" || items[0].Answer != "One." {
			t.Errorf("%s: unexpected first pair: %+v", name, items[0])
		}
		if items[1].Question != "Second?" || items[1].Answer != "Two." {
			t.Errorf("%s: unexpected second pair: %+v", name, items[1])
		}
	}
}

func TestExtractQnA_MultiLineAnswer(t *testing.T) {
	content := `## Q&A

**Q. Long one?**
A. First paragraph
still the same line group.

Second paragraph after a blank line.

**Q. Short one?**
A. Done.
`

	items := ExtractQnA(content)
	if len(items) != 2 {
		t.Fatalf("Expected 2 items, got %d", len(items))
	}
	want := "First paragraph still the same line group. Second paragraph after a blank line."
	if items[0].Answer != want {
		t.Errorf("Answer = %q, want %q", items[0].Answer, want)
	}
	if items[1].Answer != "Done." {
		t.Errorf("Second answer = %q", items[1].Answer)
	}
}

func TestExtractQnA_SectionEndsAtHeading(t *testing.T) {
	content := `## 질문

Q. Only one?
A. Yes.

## Conclusion

Q. This is outside the section.
A. Never extracted.
`

	items := ExtractQnA(content)
	if len(items) != 1 {
		t.Fatalf("Expected 1 item, got %d", len(items))
	}
	if items[0].Question != "Only one?" {
		t.Errorf("Unexpected question: %q", items[0].Question)
	}
}

func TestExtractQnA_NoSection(t *testing.T) {
	content := "# Title\n\nJust a post.\n\nQ. Not in a section.\nA. Ignored.\n"
	if items := ExtractQnA(content); len(items) != 0 {
		t.Errorf("Expected no items, got %d", len(items))
	}
}

func TestRemoveQnASection_RoundTrip(t *testing.T) {
	content := `Intro paragraph.

## Q&A

**Q. What is drip publishing?**
A. Releasing one queued post per scheduled run.

---

Outro paragraph.`

	items := ExtractQnA(content)
	if len(items) != 1 {
		t.Fatalf("Expected 1 item, got %d", len(items))
	}

	stripped := RemoveQnASection(content)
	if strings.Contains(stripped, items[0].Question) {
		t.Errorf("Stripped body still contains the question: %q", stripped)
	}
	if strings.Contains(stripped, items[0].Answer) {
		t.Errorf("Stripped body still contains the answer: %q", stripped)
	}
	if strings.Contains(stripped, "Q&A") {
		t.Errorf("Stripped body still contains the section heading: %q", stripped)
	}
	if strings.Contains(stripped, "---") {
		t.Errorf("Stripped body still contains the section divider: %q", stripped)
	}
	if !strings.Contains(stripped, "Intro paragraph.") || !strings.Contains(stripped, "Outro paragraph.") {
		t.Errorf("Stripped body lost surrounding content: %q", stripped)
	}
}

func TestRemoveQnASection_KeepsClosingHeading(t *testing.T) {
	content := "Before.\n\n## FAQ\n\nQ. One?\nA. Yes.\n\n## After\n\nMore text.\n"

	stripped := RemoveQnASection(content)
	if !strings.Contains(stripped, "## After") {
		t.Errorf("Closing heading was dropped: %q", stripped)
	}
	if !strings.Contains(stripped, "More text.") {
		t.Errorf("Content after the section was dropped: %q", stripped)
	}
	if strings.Contains(stripped, "One?") {
		t.Errorf("Question text survived removal: %q", stripped)
	}
}

func TestRemoveQnASection_NoSection(t *testing.T) {
	content := "# Title\n\nNothing to remove here.\n"
	if got := RemoveQnASection(content); got != content {
		t.Errorf("Body without a Q&A section changed: %q", got)
	}
}
