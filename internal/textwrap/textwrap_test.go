package textwrap

import (
	"strings"
	"testing"
)

func TestReflowWrapsAndIndents(t *testing.T) {
	got := Reflow("the quick brown fox jumps", 20, 10)
	want := "the quick\r\n" +
		strings.Repeat(" ", 10) + "brown fox\r\n" +
		strings.Repeat(" ", 10) + "jumps\r\n"
	if got != want {
		t.Fatalf("reflow mismatch:\nwant %q\ngot  %q", want, got)
	}
}

func TestReflowShortLineNotPadded(t *testing.T) {
	got := Reflow("hello", 79, 10)
	if got != "hello\r\n" {
		t.Fatalf("expected %q, got %q", "hello\r\n", got)
	}
}

func TestReflowEmptyInput(t *testing.T) {
	if got := Reflow("", 79, 10); got != "" {
		t.Fatalf("expected empty output, got %q", got)
	}
}

func TestReflowKeepsExistingBreaks(t *testing.T) {
	got := Reflow("line one\r\nline two", 79, 4)
	want := "line one\r\n    line two\r\n"
	if got != want {
		t.Fatalf("reflow mismatch:\nwant %q\ngot  %q", want, got)
	}
}

func TestReflowAlwaysTerminated(t *testing.T) {
	got := Reflow("no terminator", 79, 0)
	if !strings.HasSuffix(got, "\r\n") {
		t.Fatalf("expected trailing line terminator, got %q", got)
	}
}

func TestIndentOf(t *testing.T) {
	tpl := "{fileName} ({fileSize})\r\n  desc: {fileDesc} and again {fileDesc}\r\n"
	if got := IndentOf(tpl, "{fileDesc}"); got != 8 {
		t.Fatalf("expected indent 8, got %d", got)
	}
}

func TestIndentOfFirstOccurrenceGoverns(t *testing.T) {
	tpl := "      {fileDesc}\r\n{fileDesc}\r\n"
	if got := IndentOf(tpl, "{fileDesc}"); got != 6 {
		t.Fatalf("expected first occurrence indent 6, got %d", got)
	}
}

func TestIndentOfMissingToken(t *testing.T) {
	if got := IndentOf("no placeholders here", "{fileDesc}"); got != 0 {
		t.Fatalf("expected 0 for missing token, got %d", got)
	}
}
