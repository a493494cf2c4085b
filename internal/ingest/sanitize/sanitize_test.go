package sanitize

import (
	"strings"
	"testing"
)

func TestCleanShortcodes(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"paired keeps content", "[bold]hello[/bold] world", "hello world"},
		{"self-closing removed", "[img src=x/]caption", "caption"},
		{"nested", "[a][b]x[/b][/a]", "x"},
		{"attrs on paired opener", `[su_box title="Note"]inside[/su_box]`, "inside"},
		{"content-less tag", "[gallery ids=1,2,3] after", "after"},
		{"self-closing with trailing closer", "[img src=x/][/img]done", "done"},
		{"literal bracket stays", "scores [3-1] final", "scores [3-1] final"},
		{"empty input", "", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, warnings := Clean(tc.in)
			if got != tc.want {
				t.Fatalf("Clean(%q) = %q, want %q", tc.in, got, tc.want)
			}
			if len(warnings) != 0 {
				t.Fatalf("Clean(%q) warnings = %v, want none", tc.in, warnings)
			}
		})
	}
}

func TestCleanMismatchedCloser(t *testing.T) {
	got, warnings := Clean("[img src=x/]caption[/video]")
	if got != "caption" {
		t.Fatalf("got %q, want %q", got, "caption")
	}
	if len(warnings) != 1 || !strings.Contains(warnings[0], "[/video]") {
		t.Fatalf("warnings = %v, want one unmatched-closer warning naming [/video]", warnings)
	}
}

func TestCleanHTMLAndEntities(t *testing.T) {
	got := CleanText("<p>Tom &amp; Jerry</p><br><div>again</div>")
	if got != "Tom & Jerryagain" {
		t.Fatalf("got %q", got)
	}
}

func TestCleanWhitespaceCollapse(t *testing.T) {
	got := CleanText("a  \t b\n\n\n\nc")
	if got != "a b\nc" {
		t.Fatalf("got %q", got)
	}
}

func TestCleanShortcodeInsideHTML(t *testing.T) {
	got := CleanText(`<p>[su_quote cite="x"]quoted text[/su_quote]</p>`)
	if got != "quoted text" {
		t.Fatalf("got %q", got)
	}
}

func TestCleanPathologicalInputTerminates(t *testing.T) {
	in := strings.Repeat("[a]", 500) + "x" + strings.Repeat("[/a]", 500)
	got := CleanText(in)
	if !strings.Contains(got, "x") {
		t.Fatalf("enclosed content lost: %q", got)
	}
}
