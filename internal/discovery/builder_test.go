package discovery

import (
	"strings"
	"testing"

	"reqtrace/internal/domain"
)

func TestFingerprint(t *testing.T) {
	t.Run("64-char hex digest", func(t *testing.T) {
		hash := Fingerprint(`{ expect(1).toBe(1); }`)
		if len(hash) != 64 {
			t.Errorf("expected 64-char digest, got %d chars", len(hash))
		}
		for _, c := range hash {
			if !strings.ContainsRune("0123456789abcdef", c) {
				t.Errorf("non-hex character %q in digest", c)
			}
		}
	})

	t.Run("identical bodies hash identically", func(t *testing.T) {
		if Fingerprint("{ a }") != Fingerprint("{ a }") {
			t.Error("same bytes must produce the same digest")
		}
	})

	t.Run("distinct bodies hash distinctly", func(t *testing.T) {
		bodies := []string{"{ a }", "{ a; }", "{  a }", "{}", "{ b }"}
		seen := make(map[string]string)
		for _, body := range bodies {
			hash := Fingerprint(body)
			if prev, ok := seen[hash]; ok {
				t.Errorf("collision between %q and %q", prev, body)
			}
			seen[hash] = body
		}
	})
}

func TestBuilder_Build(t *testing.T) {
	text := `it("one", () => { first(); }); it("one", () => { second(); });`
	plain := matcherByName(t, "plain")
	matches := plain.FindMatches(text)
	if len(matches) != 2 {
		t.Fatalf("fixture expects 2 matches, got %d", len(matches))
	}

	builder := NewBuilder()

	rec, ok, err := builder.Build("a.test.js", text, matches[0])
	if err != nil || !ok {
		t.Fatalf("first build failed: ok=%v err=%v", ok, err)
	}
	if rec.Body != "{ first(); }" {
		t.Errorf("expected exact body substring, got %q", rec.Body)
	}
	if rec.Hash != Fingerprint(rec.Body) {
		t.Error("record hash must be the fingerprint of its body")
	}

	// Same (file, identifier) key: discarded, not an error.
	_, ok, err = builder.Build("a.test.js", text, matches[1])
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("duplicate key must be discarded")
	}

	// Same identifier in another file is a different key.
	rec2, ok, err := builder.Build("b.test.js", text, matches[1])
	if err != nil || !ok {
		t.Fatalf("cross-file build failed: ok=%v err=%v", ok, err)
	}
	if rec2.Body != "{ second(); }" {
		t.Errorf("expected second body, got %q", rec2.Body)
	}
}

func TestBuilder_MalformedDoesNotClaimKey(t *testing.T) {
	builder := NewBuilder()
	text := `it("x", () => { good(); });`

	// A match pointing at an unbalanced region fails without claiming "x".
	_, ok, err := builder.Build("f.test.js", `{ never closes`, domain.Match{Identifier: "x", BodyStart: 0})
	if err == nil || ok {
		t.Fatalf("expected malformed error, got ok=%v err=%v", ok, err)
	}

	matches := matcherByName(t, "plain").FindMatches(text)
	rec, ok, err := builder.Build("f.test.js", text, matches[0])
	if err != nil || !ok {
		t.Fatalf("later parseable match must still get through: ok=%v err=%v", ok, err)
	}
	if rec.Identifier != "x" {
		t.Errorf("expected identifier x, got %q", rec.Identifier)
	}
}

func TestExtractTests_DedupPrecedence(t *testing.T) {
	// A modifier-suffixed declaration appears first in the file, a plain one
	// with the same name after it. The plain matcher has priority, so the
	// single surviving record carries the plain body.
	text := `
it.skip("same test", () => {
  pendingVariant();
});

it("same test", () => {
  expect(true).toBe(true);
});
`
	records, malformed := ExtractTests("dup.test.js", text)
	if malformed != 0 {
		t.Fatalf("expected no malformed matches, got %d", malformed)
	}
	if len(records) != 1 {
		t.Fatalf("expected exactly 1 record, got %d", len(records))
	}
	rec := records[0]
	if rec.Identifier != "same test" {
		t.Errorf("expected identifier \"same test\", got %q", rec.Identifier)
	}
	if !strings.Contains(rec.Body, "expect(true)") {
		t.Errorf("plain body must win, got %q", rec.Body)
	}
	if strings.Contains(rec.Body, "pendingVariant") {
		t.Error("modifier body must be discarded")
	}
}

func TestExtractTests_AllStyles(t *testing.T) {
	text := `
it("plain one", () => {
  a();
});

test.only("focused one", () => {
  b();
});

it.each([[1], [2]])("table %i", n => {
  c(n);
});
`
	records, malformed := ExtractTests("all.test.js", text)
	if malformed != 0 {
		t.Fatalf("expected no malformed matches, got %d", malformed)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
	// ExtractTests sorts by identifier within the file.
	expected := []string{"focused one", "plain one", "table %i"}
	for i, rec := range records {
		if rec.Identifier != expected[i] {
			t.Errorf("record %d: expected %q, got %q", i, expected[i], rec.Identifier)
		}
		if rec.File != "all.test.js" {
			t.Errorf("record %d: wrong file %q", i, rec.File)
		}
	}
}

func TestExtractTests_MalformedSkipsMatchOnly(t *testing.T) {
	// The first declaration never closes its body; the second is fine. Only
	// the broken match is dropped.
	text := `
it("broken", () => {
  never.closes();

it("intact", () => {
  ok();
});
`
	records, malformed := ExtractTests("partial.test.js", text)
	if malformed != 1 {
		t.Errorf("expected 1 malformed match, got %d", malformed)
	}
	if len(records) != 1 || records[0].Identifier != "intact" {
		t.Errorf("expected only the intact record, got %+v", records)
	}
}
