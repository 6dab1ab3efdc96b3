package phone

import "testing"

func contains(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}

func TestCandidatesFormattedUSNumber(t *testing.T) {
	got := Candidates("(602) 290-4816")
	for _, want := range []string{"6022904816", "+16022904816"} {
		if !contains(got, want) {
			t.Fatalf("expected candidate %q in %v", want, got)
		}
	}
	if got[0] != "(602) 290-4816" {
		t.Fatalf("expected trimmed input first, got %q", got[0])
	}
}

func TestCandidatesElevenDigitsWithCountryCode(t *testing.T) {
	got := Candidates(" 1-602-290-4816 ")
	for _, want := range []string{"16022904816", "+16022904816", "6022904816"} {
		if !contains(got, want) {
			t.Fatalf("expected candidate %q in %v", want, got)
		}
	}
}

func TestCandidatesAreDeduplicated(t *testing.T) {
	got := Candidates("+16022904816")
	seen := map[string]bool{}
	for _, v := range got {
		if seen[v] {
			t.Fatalf("duplicate candidate %q in %v", v, got)
		}
		seen[v] = true
	}
	if got[0] != "+16022904816" {
		t.Fatalf("expected plus-prefixed input first, got %v", got)
	}
	if contains(got, "++16022904816") {
		t.Fatalf("unexpected double plus candidate in %v", got)
	}
}

func TestCandidatesWithoutDigits(t *testing.T) {
	if got := Candidates("call me"); got != nil {
		t.Fatalf("expected no candidates, got %v", got)
	}
}

func TestNormalizeE164FallsBackToTrimmedInput(t *testing.T) {
	if got := NormalizeE164("  not a number "); got != "not a number" {
		t.Fatalf("expected trimmed input, got %q", got)
	}
}
