package discovery

import (
	"errors"
	"strings"
	"testing"
)

func TestExtractBody(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		open     int
		expected string
	}{
		{
			name:     "flat body",
			text:     `{ return 1; }`,
			open:     0,
			expected: `{ return 1; }`,
		},
		{
			name:     "nested braces",
			text:     `{ if (x) { y(); } else { z(); } } trailing`,
			open:     0,
			expected: `{ if (x) { y(); } else { z(); } }`,
		},
		{
			name:     "string literal with braces does not close early",
			text:     `{ const s = "{ not a real brace }"; return { ok: true }; }`,
			open:     0,
			expected: `{ const s = "{ not a real brace }"; return { ok: true }; }`,
		},
		{
			name:     "single-quoted braces",
			text:     `{ const s = '}}}'; }`,
			open:     0,
			expected: `{ const s = '}}}'; }`,
		},
		{
			name:     "template literal with braces",
			text:     "{ const t = `value: ${obj} }`; }",
			open:     0,
			expected: "{ const t = `value: ${obj} }`; }",
		},
		{
			name:     "escaped quote inside string",
			text:     `{ const s = "a \" } b"; }`,
			open:     0,
			expected: `{ const s = "a \" } b"; }`,
		},
		{
			name:     "offset into text",
			text:     `before { inner } after`,
			open:     7,
			expected: `{ inner }`,
		},
		{
			name:     "parentheses",
			text:     `([1, 2], {a: 3}) tail`,
			open:     0,
			expected: `([1, 2], {a: 3})`,
		},
		{
			name:     "brackets",
			text:     `[[1], [2]] tail`,
			open:     0,
			expected: `[[1], [2]]`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, err := ExtractBody(tt.text, tt.open)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if body != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, body)
			}
		})
	}
}

func TestExtractBody_Malformed(t *testing.T) {
	t.Run("unbalanced body", func(t *testing.T) {
		_, err := ExtractBody(`{ if (x) { y(); }`, 0)
		if !errors.Is(err, ErrMalformedBody) {
			t.Errorf("expected ErrMalformedBody, got %v", err)
		}
	})

	t.Run("unterminated string swallows the close", func(t *testing.T) {
		_, err := ExtractBody(`{ const s = "oops; }`, 0)
		if !errors.Is(err, ErrMalformedBody) {
			t.Errorf("expected ErrMalformedBody, got %v", err)
		}
	})

	t.Run("offset out of range", func(t *testing.T) {
		if _, err := ExtractBody("abc", 10); err == nil {
			t.Error("expected error for out-of-range offset")
		}
	})

	t.Run("offset not at a delimiter", func(t *testing.T) {
		if _, err := ExtractBody("abc { }", 0); err == nil {
			t.Error("expected error when offset is not an opening delimiter")
		}
	})
}

func TestExtractBody_IsPure(t *testing.T) {
	// Same inputs, same outputs, across repeated calls.
	text := `{ a { b } c }`
	first, err := ExtractBody(text, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := ExtractBody(text, 0)
		if err != nil || again != first {
			t.Fatalf("call %d diverged: %q vs %q (err %v)", i, again, first, err)
		}
	}
	if !strings.HasPrefix(first, "{") || !strings.HasSuffix(first, "}") {
		t.Errorf("body must include both delimiters, got %q", first)
	}
}
