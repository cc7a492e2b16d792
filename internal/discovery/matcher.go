package discovery

import (
	"regexp"
	"strings"

	"reqtrace/internal/domain"
)

// Matcher finds every test declaration of one style in raw file text.
// Implementations scan the full text independently; deduplication across
// matchers happens in the record builder, not here.
type Matcher interface {
	Name() string
	FindMatches(text string) []domain.Match
}

// Recognized leading call names, optionally followed by a dotted modifier.
// Names assembled via string concatenation across lines are not handled.
const (
	callNames = `(?:it|test)`
	modifiers = `(?:skip|only|failing|concurrent|todo)`
)

// guard keeps the call name from matching inside longer identifiers (unit,
// fit) or after a property access (foo.it).
const guard = `(?:^|[^\w$.])`

// callbackHead matches the callback opening after the name argument's comma,
// through the body's opening brace: arrow functions with or without a
// parameter list, plain and async function expressions. The brace is always
// the final matched byte.
const callbackHead = `(?:async\s+)?(?:function\s*[\w$]*\s*\([^)]*\)\s*|\([^)]*\)\s*=>\s*|[\w$]+\s*=>\s*)\{`

// quotedName captures a single- or double-quoted literal in groups 1/2.
// RE2 has no backreferences, so each quote style is its own alternative.
const quotedName = `(?:"((?:\\.|[^"\\])*)"|'((?:\\.|[^'\\])*)')`

// templateName captures a backtick template literal, interpolations and all.
const templateName = "\x60((?:\\\\.|[^\x60\\\\])*)\x60"

// Matchers returns all declaration matchers in fixed priority order: plain,
// modifier-suffixed, parameterized (.each), templated names. The order is
// load-bearing: the builder's shared seen-set gives the first matcher to
// claim a (file, identifier) key the win, so a plain declaration shadows a
// modifier-suffixed one sharing its name regardless of file position.
func Matchers() []Matcher {
	return []Matcher{
		&regexMatcher{
			name:     "plain",
			re:       regexp.MustCompile(guard + callNames + `\s*\(\s*` + quotedName + `\s*,\s*` + callbackHead),
			unescape: true,
		},
		&regexMatcher{
			name:     "modifier",
			re:       regexp.MustCompile(guard + callNames + `\s*\.\s*` + modifiers + `\s*\(\s*` + quotedName + `\s*,\s*` + callbackHead),
			unescape: true,
		},
		&eachMatcher{},
		&regexMatcher{
			name: "template",
			re:   regexp.MustCompile(guard + callNames + `(?:\s*\.\s*` + modifiers + `)?\s*\(\s*` + templateName + `\s*,\s*` + callbackHead),
		},
	}
}

// regexMatcher handles every declaration style expressible as one regex whose
// final matched byte is the callback's opening brace.
type regexMatcher struct {
	name     string
	re       *regexp.Regexp
	unescape bool // quoted names carry \" \' \\ escapes; template names stay raw
}

func (m *regexMatcher) Name() string { return m.name }

func (m *regexMatcher) FindMatches(text string) []domain.Match {
	var out []domain.Match
	for _, loc := range m.re.FindAllStringSubmatchIndex(text, -1) {
		name, ok := capturedGroup(text, loc)
		if !ok {
			continue
		}
		if m.unescape {
			name = unescapeName(name)
		}
		out = append(out, domain.Match{Identifier: name, BodyStart: loc[1] - 1})
	}
	return out
}

// eachMatcher handles parameterized declarations: it.each([...])("name %s",
// cb). The table argument can nest arbitrarily, which is beyond one regex, so
// the head is matched first and the table span is skipped with the same
// balanced scan used for bodies.
type eachMatcher struct{}

var (
	eachHead = regexp.MustCompile(guard + callNames + `\s*(?:\.\s*(?:skip|only|failing|concurrent)\s*)?\.\s*each\s*\(`)
	eachTail = regexp.MustCompile(`^\s*\(\s*(?:` + quotedName + `|` + templateName + `)\s*,\s*` + callbackHead)
)

func (m *eachMatcher) Name() string { return "each" }

func (m *eachMatcher) FindMatches(text string) []domain.Match {
	var out []domain.Match
	for _, loc := range eachHead.FindAllStringIndex(text, -1) {
		open := loc[1] - 1
		table, err := ExtractBody(text, open) // balanced paren scan over the table args
		if err != nil {
			continue
		}
		rest := text[open+len(table):]
		tail := eachTail.FindStringSubmatchIndex(rest)
		if tail == nil {
			continue
		}
		name, quoted, ok := capturedAlt(rest, tail)
		if !ok {
			continue
		}
		if quoted {
			name = unescapeName(name)
		}
		out = append(out, domain.Match{Identifier: name, BodyStart: open + len(table) + tail[1] - 1})
	}
	return out
}

// capturedGroup returns the first participating capture group.
func capturedGroup(text string, loc []int) (string, bool) {
	for g := 1; g*2+1 < len(loc); g++ {
		if loc[g*2] >= 0 {
			return text[loc[g*2]:loc[g*2+1]], true
		}
	}
	return "", false
}

// capturedAlt is capturedGroup plus whether the hit was a quoted (vs
// template) alternative; groups 1 and 2 are quote styles, group 3 template.
func capturedAlt(text string, loc []int) (string, bool, bool) {
	for g := 1; g <= 3 && g*2+1 < len(loc); g++ {
		if loc[g*2] >= 0 {
			return text[loc[g*2]:loc[g*2+1]], g < 3, true
		}
	}
	return "", false, false
}

// unescapeName resolves quote and backslash escapes in a quoted test name so
// the identifier reads the way the author wrote it.
func unescapeName(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			i++
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
