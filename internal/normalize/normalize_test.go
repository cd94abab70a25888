package normalize

import "testing"

func TestPipelineIdempotent(t *testing.T) {
	cases := []string{
		"  Cálculo   Numérico\n\t",
		"MC102",
		"Ｆｕｌｌｗｉｄｔｈ",
		"",
		"École Française",
	}
	for _, c := range cases {
		once := Pipeline(c)
		twice := Pipeline(once)
		if once != twice {
			t.Errorf("Pipeline(%q) = %q, Pipeline(that) = %q; not idempotent", c, once, twice)
		}
	}
}

func TestNormalizeDiacritics(t *testing.T) {
	got := Normalize("Álgebra Linear")
	want := "algebra linear"
	if got != want {
		t.Errorf("Normalize() = %q, want %q", got, want)
	}
}

func TestCollapseWhitespace(t *testing.T) {
	got := CollapseWhitespace("  a\tb\n\nc  ")
	want := "a b c"
	if got != want {
		t.Errorf("CollapseWhitespace() = %q, want %q", got, want)
	}
}

func TestSanitisePathSegmentRoundTrip(t *testing.T) {
	inputs := []string{"Cálculo I", "MC102", "a/b\\c:d", ""}
	for _, in := range inputs {
		once := SanitisePathSegment(in)
		twice := SanitisePathSegment(once)
		if once != twice {
			t.Errorf("SanitisePathSegment(%q) not idempotent: %q vs %q", in, once, twice)
		}
		for _, r := range once {
			if r != '_' && !IsASCIIAlnum(r) {
				t.Errorf("SanitisePathSegment(%q) = %q contains disallowed rune %q", in, once, r)
			}
		}
	}
}

func TestIsASCIIAlnum(t *testing.T) {
	for _, r := range "aZ09" {
		if !IsASCIIAlnum(r) {
			t.Errorf("IsASCIIAlnum(%q) = false, want true", r)
		}
	}
	for _, r := range " _-á漢" {
		if IsASCIIAlnum(r) {
			t.Errorf("IsASCIIAlnum(%q) = true, want false", r)
		}
	}
}
