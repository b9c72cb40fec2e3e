package match

import (
	"math"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

// fuzzyDamping discounts edit-distance scores against exact word overlap so
// that near-miss strings cannot outrank genuine token matches.
const fuzzyDamping = 0.85

// wordOverlapCap keeps pure word-overlap scores below the range reserved for
// near-exact string matches.
const wordOverlapCap = 90

// Similarity scores two strings on a 0-100 scale. Equal normalized forms
// short-circuit to 100. The score is symmetric and blends meaningful-word
// overlap with damped edit-distance similarity, taking whichever is stronger.
func Similarity(a, b string) int {
	return similarityNormalized(Normalize(a), Normalize(b))
}

func similarityNormalized(a, b string) int {
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 100
	}

	wordsA := meaningfulWords(a)
	wordsB := meaningfulWords(b)
	wordScore := wordOverlapScore(wordsA, wordsB)

	fuzzyScore := 0
	if len(a) >= 3 && len(b) >= 3 {
		best := ratio(a, b)
		if partial := partialRatio(a, b); partial > best {
			best = partial
		}
		// Token-sort similarity invites false positives on short inputs, so
		// it only participates when both sides carry several real words.
		if len(wordsA) >= 2 && len(wordsB) >= 2 {
			if tokenSort := tokenSortRatio(a, b); tokenSort > best {
				best = tokenSort
			}
		}
		fuzzyScore = int(float64(best) * fuzzyDamping)
	}

	score := wordScore
	if fuzzyScore > score {
		score = fuzzyScore
	}

	// A near-perfect score with zero shared meaningful words is a false
	// positive, as is any score between strings that have no real words.
	if score > 0 && (len(wordsA) == 0 || len(wordsB) == 0) {
		return 0
	}
	if score >= 90 && countCommon(wordsA, wordsB) == 0 {
		return 0
	}

	return clampScore(score)
}

// wordOverlapScore scores token-set agreement. Both sides must cover a solid
// share of the other for the score to register at all.
func wordOverlapScore(wordsA, wordsB []string) int {
	if len(wordsA) == 0 || len(wordsB) == 0 {
		return 0
	}

	common := countCommon(wordsA, wordsB)
	if common == 0 {
		return 0
	}

	coverageA := float64(common) / float64(len(wordsA))
	coverageB := float64(common) / float64(len(wordsB))
	if math.Max(coverageA, coverageB) < 0.6 {
		return 0
	}

	score := (coverageA + coverageB) / 2 * 100
	if common == 1 && (len(wordsA) > 1 || len(wordsB) > 1) {
		score *= 0.7
	}

	if score > wordOverlapCap {
		return wordOverlapCap
	}
	return int(score)
}

// ratio is whole-string similarity from edit distance.
func ratio(a, b string) int {
	if a == b {
		return 100
	}
	if a == "" || b == "" {
		return 0
	}
	la := len([]rune(a))
	lb := len([]rune(b))
	longest := la
	if lb > longest {
		longest = lb
	}
	dist := levenshtein.ComputeDistance(a, b)
	return int(math.Round((1 - float64(dist)/float64(longest)) * 100))
}

// partialRatio is the best ratio of the shorter string against any
// equal-length window of the longer one, so that an exact substring scores
// 100 regardless of surrounding tokens.
func partialRatio(a, b string) int {
	shorter, longer := []rune(a), []rune(b)
	if len(shorter) > len(longer) {
		shorter, longer = longer, shorter
	}
	if len(shorter) == 0 {
		return 0
	}
	if len(shorter) == len(longer) {
		return ratio(string(shorter), string(longer))
	}

	best := 0
	for start := 0; start+len(shorter) <= len(longer); start++ {
		window := string(longer[start : start+len(shorter)])
		if score := ratio(string(shorter), window); score > best {
			best = score
			if best == 100 {
				break
			}
		}
	}
	return best
}

// tokenSortRatio compares the strings with their tokens sorted, making the
// score insensitive to word order.
func tokenSortRatio(a, b string) int {
	return ratio(sortTokens(a), sortTokens(b))
}

func sortTokens(s string) string {
	tokens := strings.Fields(s)
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}

func countCommon(wordsA, wordsB []string) int {
	if len(wordsA) == 0 || len(wordsB) == 0 {
		return 0
	}
	set := make(map[string]struct{}, len(wordsA))
	for _, w := range wordsA {
		set[w] = struct{}{}
	}
	common := 0
	for _, w := range wordsB {
		if _, ok := set[w]; ok {
			common++
			delete(set, w)
		}
	}
	return common
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
