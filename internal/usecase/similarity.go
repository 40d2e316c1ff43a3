package usecase

import "strings"

// SequenceRatio returns the Ratcliff/Obershelp similarity of two strings in [0, 1]:
// twice the number of matched characters divided by the total length. Matching is
// case-insensitive. Two empty strings are identical.
func SequenceRatio(s1, s2 string) float64 {
	a := []rune(strings.ToLower(s1))
	b := []rune(strings.ToLower(s2))

	total := len(a) + len(b)
	if total == 0 {
		return 1.0
	}
	return 2.0 * float64(matchedRunes(a, b)) / float64(total)
}

// matchedRunes sums the sizes of the matching blocks found by repeatedly taking
// the longest common substring and recursing on both sides of it
func matchedRunes(a, b []rune) int {
	type span struct{ alo, ahi, blo, bhi int }

	matched := 0
	queue := []span{{0, len(a), 0, len(b)}}
	for len(queue) > 0 {
		s := queue[len(queue)-1]
		queue = queue[:len(queue)-1]

		i, j, k := longestMatch(a, b, s.alo, s.ahi, s.blo, s.bhi)
		if k == 0 {
			continue
		}
		matched += k

		if s.alo < i && s.blo < j {
			queue = append(queue, span{s.alo, i, s.blo, j})
		}
		if i+k < s.ahi && j+k < s.bhi {
			queue = append(queue, span{i + k, s.ahi, j + k, s.bhi})
		}
	}
	return matched
}

// longestMatch finds the longest common substring of a[alo:ahi] and b[blo:bhi].
// Ties go to the match starting earliest in a, then earliest in b.
func longestMatch(a, b []rune, alo, ahi, blo, bhi int) (besti, bestj, bestSize int) {
	besti, bestj = alo, blo

	// prev[j+1] holds the length of the common suffix ending at a[i-1], b[j]
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)

	for i := alo; i < ahi; i++ {
		for j := blo; j < bhi; j++ {
			if a[i] != b[j] {
				curr[j+1] = 0
				continue
			}
			k := prev[j] + 1
			curr[j+1] = k
			if k > bestSize {
				besti, bestj, bestSize = i-k+1, j-k+1, k
			}
		}
		prev, curr = curr, prev
	}
	return besti, bestj, bestSize
}

// TrigramSimilarity returns the Jaccard similarity of the character trigram sets
// of two strings after lowercasing and removing spaces. Strings shorter than three
// characters have no trigrams and score 0.
func TrigramSimilarity(s1, s2 string) float64 {
	t1 := trigrams(s1)
	t2 := trigrams(s2)
	if len(t1) == 0 || len(t2) == 0 {
		return 0
	}

	intersection := 0
	for g := range t1 {
		if _, ok := t2[g]; ok {
			intersection++
		}
	}
	union := len(t1) + len(t2) - intersection
	return float64(intersection) / float64(union)
}

func trigrams(s string) map[string]struct{} {
	r := []rune(strings.ReplaceAll(strings.ToLower(s), " ", ""))
	if len(r) < 3 {
		return nil
	}

	set := make(map[string]struct{}, len(r)-2)
	for i := 0; i+3 <= len(r); i++ {
		set[string(r[i:i+3])] = struct{}{}
	}
	return set
}
