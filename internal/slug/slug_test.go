package slug

import (
	"regexp"
	"testing"
)

func TestMake(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "diacritics", input: "Mötley Crüe Tribute", want: "motley-crue-tribute"},
		{name: "punctuation runs", input: "  Hello,   World!!  ", want: "hello-world"},
		{name: "italian", input: "Perché l'estate è già finita", want: "perche-l-estate-e-gia-finita"},
		{name: "ligatures", input: "Straße Æther Øresund", want: "strasse-aether-oresund"},
		{name: "digits kept", input: "Live @ Arena 2024", want: "live-arena-2024"},
		{name: "already slug", input: "motley-crue-tribute", want: "motley-crue-tribute"},
		{name: "only symbols", input: "!!! ???", want: ""},
		{name: "non latin dropped", input: "Тест band", want: "band"},
		{name: "empty", input: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Make(tt.input); got != tt.want {
				t.Fatalf("Make(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestMakeIsIdempotent(t *testing.T) {
	inputs := []string{
		"Mötley Crüe Tribute",
		"--Already--Hyphenated--",
		"Ünïcödé & Friends (Remastered 2011)",
		"a_b.c/d\\e",
		"ÉÈÊ ñ ç",
	}
	for _, input := range inputs {
		once := Make(input)
		if twice := Make(once); twice != once {
			t.Fatalf("Make not idempotent for %q: %q then %q", input, once, twice)
		}
	}
}

func TestWithSuffix(t *testing.T) {
	pattern := regexp.MustCompile(`^motley-crue-tribute-[0-9a-f]{6}$`)
	first := WithSuffix("motley-crue-tribute")
	if !pattern.MatchString(first) {
		t.Fatalf("unexpected suffixed slug %q", first)
	}
	second := WithSuffix("motley-crue-tribute")
	if first == second {
		t.Fatalf("expected distinct suffixes, got %q twice", first)
	}
	if Make(first) != first {
		t.Fatalf("suffixed slug %q is not a valid slug", first)
	}
}

func TestIsDerived(t *testing.T) {
	tests := []struct {
		slug string
		base string
		want bool
	}{
		{"motley-crue", "motley-crue", true},
		{"motley-crue-0a1b2c", "motley-crue", true},
		{"motley-crue-live", "motley-crue", false},
		{"motley-crue-0A1B2C", "motley-crue", false},
		{"other", "motley-crue", false},
		{"", "", false},
	}
	for _, tt := range tests {
		if got := IsDerived(tt.slug, tt.base); got != tt.want {
			t.Fatalf("IsDerived(%q, %q) = %v, want %v", tt.slug, tt.base, got, tt.want)
		}
	}
}
