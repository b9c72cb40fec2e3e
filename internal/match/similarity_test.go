package match

import "testing"

func TestSimilarityIdentity(t *testing.T) {
	for _, s := range []string{"Deadmau5 - Strobe", "yesterday", "Artist Name"} {
		if got := Similarity(s, s); got != 100 {
			t.Fatalf("Similarity(%q, %q) = %d, want 100", s, s, got)
		}
	}
}

func TestSimilarityExactNormalizedEquality(t *testing.T) {
	if got := Similarity("The Beatles - Yesterday", "the beatles yesterday"); got != 100 {
		t.Fatalf("expected 100 for normalized equality, got %d", got)
	}
}

func TestSimilarityIsSymmetric(t *testing.T) {
	pairs := [][2]string{
		{"The Beatles - Yesterday", "Beatles_Yesterday_remastered"},
		{"Strobe", "Deadmau5 Strobe Club Edit"},
		{"completely different", "nothing shared"},
		{"Armin van Buuren", "Armin Buuren"},
	}
	for _, pair := range pairs {
		ab := Similarity(pair[0], pair[1])
		ba := Similarity(pair[1], pair[0])
		if ab != ba {
			t.Fatalf("Similarity(%q, %q) = %d but reversed = %d", pair[0], pair[1], ab, ba)
		}
	}
}

func TestSimilarityTokenOrderInsensitive(t *testing.T) {
	got := Similarity("The Beatles - Yesterday", "Beatles_Yesterday_remastered")
	if got < 75 {
		t.Fatalf("expected high score despite token order and extra tokens, got %d", got)
	}
}

func TestSimilarityUnrelatedStringsScoreLow(t *testing.T) {
	got := Similarity("Aphex Twin - Windowlicker", "Mozart Symphony No 40")
	if got >= 50 {
		t.Fatalf("expected low score for unrelated strings, got %d", got)
	}
}

func TestSimilarityEmptyInput(t *testing.T) {
	if got := Similarity("", "anything"); got != 0 {
		t.Fatalf("expected 0 for empty input, got %d", got)
	}
	if got := Similarity("", ""); got != 0 {
		t.Fatalf("expected 0 for two empty inputs, got %d", got)
	}
}

func TestSimilarityRangeClamped(t *testing.T) {
	pairs := [][2]string{
		{"a b c", "a b c d"},
		{"one two three", "three two one"},
		{"x", "y"},
	}
	for _, pair := range pairs {
		got := Similarity(pair[0], pair[1])
		if got < 0 || got > 100 {
			t.Fatalf("Similarity(%q, %q) = %d out of range", pair[0], pair[1], got)
		}
	}
}

func TestWordOverlapRequiresCoverage(t *testing.T) {
	// One shared word out of many on both sides fails the coverage gate.
	score := wordOverlapScore(
		[]string{"alpha", "beta", "gamma", "delta"},
		[]string{"alpha", "epsilon", "zeta", "eta"},
	)
	if score != 0 {
		t.Fatalf("expected coverage gate to zero the score, got %d", score)
	}
}

func TestWordOverlapCappedAtNinety(t *testing.T) {
	score := wordOverlapScore([]string{"alpha", "beta"}, []string{"alpha", "beta", "gamma"})
	if score > 90 {
		t.Fatalf("word overlap must cap at 90, got %d", score)
	}
	if score == 0 {
		t.Fatal("expected non-zero overlap score")
	}
}

func TestPartialRatioSubstring(t *testing.T) {
	if got := partialRatio("strobe", "deadmau5 strobe club"); got != 100 {
		t.Fatalf("expected 100 for exact substring, got %d", got)
	}
}

func TestRatio(t *testing.T) {
	if got := ratio("abc", "abc"); got != 100 {
		t.Fatalf("ratio identical = %d, want 100", got)
	}
	if got := ratio("abc", ""); got != 0 {
		t.Fatalf("ratio vs empty = %d, want 0", got)
	}
	if got := ratio("abcd", "abcx"); got != 75 {
		t.Fatalf("ratio one edit in four = %d, want 75", got)
	}
}
