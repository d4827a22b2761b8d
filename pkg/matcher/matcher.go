// Package matcher ranks subjects against a free text query.
package matcher

import (
	"sort"
	"strings"
	"sync"
	"unicode"

	"github.com/Jacobbrewer1/supportdesk/pkg/entities"
	"github.com/junegunn/fzf/src/algo"
	"github.com/junegunn/fzf/src/util"
)

const (
	slab16Size = 100 * 1024
	slab32Size = 2048
)

var initOnce sync.Once

// Scored is a subject with its match score.
type Scored struct {
	Subject *entities.Subject
	Score   int
}

// Rank scores every subject against the query and returns the subjects with a positive score, ordered by
// descending score. Subjects with equal scores keep their order in the input.
//
// The query is split into words and each word is fuzzy matched against the subject name, so a sentence
// like "my payment failed" still ranks "Payments". A subject sharing no characters with the query is left out.
func Rank(subjects []*entities.Subject, query string) []Scored {
	initOnce.Do(func() {
		algo.Init("default")
	})

	words := queryWords(query)
	if len(subjects) == 0 || len(words) == 0 {
		return nil
	}

	slab := util.MakeSlab(slab16Size, slab32Size)
	ranked := make([]Scored, 0, len(subjects))
	for _, s := range subjects {
		if s == nil {
			continue
		}

		score := Score(s.Name, words, slab)
		if score <= 0 {
			continue
		}
		ranked = append(ranked, Scored{Subject: s, Score: score})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked
}

// Match returns at most n subjects ranked against the query.
func Match(subjects []*entities.Subject, query string, n int) []*entities.Subject {
	if n <= 0 {
		return nil
	}

	ranked := Rank(subjects, query)
	if len(ranked) > n {
		ranked = ranked[:n]
	}

	matched := make([]*entities.Subject, 0, len(ranked))
	for _, r := range ranked {
		matched = append(matched, r.Subject)
	}
	return matched
}

// Score sums the fuzzy score of every query word against name. Words must already be lower case.
func Score(name string, words [][]rune, slab *util.Slab) int {
	chars := util.ToChars([]byte(name))

	total := 0
	for _, w := range words {
		res, _ := algo.FuzzyMatchV2(false, false, true, &chars, w, false, slab)
		if res.Start < 0 || res.Score <= 0 {
			continue
		}
		total += res.Score
	}
	return total
}

// queryWords lower cases the query and splits it into words, dropping punctuation.
func queryWords(query string) [][]rune {
	fields := strings.FieldsFunc(strings.ToLower(query), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})

	words := make([][]rune, 0, len(fields))
	for _, f := range fields {
		words = append(words, []rune(f))
	}
	return words
}
