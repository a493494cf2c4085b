package sanitize

import (
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// maxStripPasses bounds the fixed-point shortcode loop so pathological
// bracket soup terminates. Hitting the cap stops stripping; it is not an
// error.
const maxStripPasses = 10

var (
	tagRE    = regexp.MustCompile(`<[^>]+>`)
	hspaceRE = regexp.MustCompile(`[ \t\r\f\v]+`)
	blankRE  = regexp.MustCompile(`\n{2,}`)
)

// Clean turns raw CMS rich text into plain text: HTML entities decoded,
// shortcodes removed (enclosed content preserved), residual tags stripped,
// whitespace collapsed. The returned warnings flag shortcode closers that
// matched no opener, which usually means a malformed export worth review.
func Clean(raw string) (string, []string) {
	if raw == "" {
		return "", nil
	}

	s := html.UnescapeString(raw)

	var warnings []string
	for pass := 0; pass < maxStripPasses; pass++ {
		out, w, changed := stripShortcodes(s)
		warnings = append(warnings, w...)
		s = out
		if !changed {
			break
		}
	}

	s = stripHTML(s)

	s = hspaceRE.ReplaceAllString(s, " ")
	s = blankRE.ReplaceAllString(s, "\n")
	return strings.TrimSpace(s), warnings
}

// CleanText is Clean with the warnings dropped.
func CleanText(raw string) string {
	s, _ := Clean(raw)
	return s
}

type shortcodeToken struct {
	name        string
	closing     bool
	selfClosing bool
	end         int // index just past the closing ']'
}

// stripShortcodes removes one layer of [name attrs]...[/name] markers in a
// single left-to-right scan, keeping enclosed content. Only a same-name
// closer terminates a shortcode; a closer with no opener is removed as
// markup but reported.
func stripShortcodes(s string) (string, []string, bool) {
	var (
		b        strings.Builder
		open     []string
		warnings []string
		changed  bool
	)

	lastSelfClosed := ""
	lastSelfClosedEnd := -1

	i := 0
	for i < len(s) {
		if s[i] != '[' {
			b.WriteByte(s[i])
			i++
			continue
		}

		tok, ok := parseShortcode(s, i)
		if !ok {
			b.WriteByte(s[i])
			i++
			continue
		}

		changed = true
		switch {
		case tok.closing:
			if idx := lastIndexOf(open, tok.name); idx >= 0 {
				open = append(open[:idx], open[idx+1:]...)
			} else if tok.name == lastSelfClosed && i == lastSelfClosedEnd {
				// Closer directly after its own self-closing tag; consumed
				// silently, matching the paired form with empty content.
			} else {
				warnings = append(warnings, fmt.Sprintf("unmatched shortcode closer [/%s]", tok.name))
			}
		case tok.selfClosing:
			lastSelfClosed = tok.name
			lastSelfClosedEnd = tok.end
		default:
			open = append(open, tok.name)
		}
		i = tok.end
	}

	return b.String(), warnings, changed
}

func parseShortcode(s string, start int) (shortcodeToken, bool) {
	i := start + 1
	closing := false
	if i < len(s) && s[i] == '/' {
		closing = true
		i++
	}

	nameStart := i
	for i < len(s) && isNameChar(s[i]) {
		i++
	}
	if i == nameStart {
		return shortcodeToken{}, false
	}
	name := s[nameStart:i]

	if closing {
		// A closer carries no attributes.
		if i < len(s) && s[i] == ']' {
			return shortcodeToken{name: name, closing: true, end: i + 1}, true
		}
		return shortcodeToken{}, false
	}

	// After the name: immediate ']', a self-closing '/]', or whitespace
	// followed by attributes. Anything else is literal text.
	if i < len(s) && s[i] == ']' {
		return shortcodeToken{name: name, end: i + 1}, true
	}
	if i+1 < len(s) && s[i] == '/' && s[i+1] == ']' {
		return shortcodeToken{name: name, selfClosing: true, end: i + 2}, true
	}
	if i >= len(s) || !isSpace(s[i]) {
		return shortcodeToken{}, false
	}

	for i < len(s) && s[i] != ']' {
		i++
	}
	if i >= len(s) {
		return shortcodeToken{}, false
	}

	selfClosing := i > start && s[i-1] == '/'
	return shortcodeToken{name: name, selfClosing: selfClosing, end: i + 1}, true
}

// stripHTML extracts text with a tolerant parser; if parsing fails it falls
// back to a crude tag strip rather than failing the record.
func stripHTML(s string) string {
	if !strings.ContainsAny(s, "<>") {
		return s
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return tagRE.ReplaceAllString(s, "")
	}
	return doc.Text()
}

func lastIndexOf(stack []string, name string) int {
	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i] == name {
			return i
		}
	}
	return -1
}

func isNameChar(c byte) bool {
	return c == '_' ||
		(c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9')
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v'
}
