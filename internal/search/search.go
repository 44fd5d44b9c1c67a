package search

import (
	"strings"
	"unicode"

	"github.com/sahilm/fuzzy"

	"github.com/nikbrunner/bmdash/internal/model"
)

// Filter keeps records whose ID or Content contains term, ignoring case.
// An empty term returns records unchanged. Order is preserved.
func Filter(records []model.Bookmark, term string) []model.Bookmark {
	if term == "" {
		return records
	}

	needle := strings.ToLower(term)
	out := make([]model.Bookmark, 0, len(records))
	for _, b := range records {
		if strings.Contains(strings.ToLower(b.ID), needle) ||
			strings.Contains(strings.ToLower(b.Content), needle) {
			out = append(out, b)
		}
	}
	return out
}

// Highlight returns the rune indexes of every non-overlapping,
// case-insensitive occurrence of term in text.
func Highlight(text, term string) []int {
	if term == "" {
		return nil
	}

	hay := foldRunes(text)
	needle := foldRunes(term)
	if len(needle) > len(hay) {
		return nil
	}

	var idx []int
	for i := 0; i+len(needle) <= len(hay); {
		if equalRunes(hay[i:i+len(needle)], needle) {
			for j := range needle {
				idx = append(idx, i+j)
			}
			i += len(needle)
			continue
		}
		i++
	}
	return idx
}

func foldRunes(s string) []rune {
	r := []rune(s)
	for i := range r {
		r[i] = unicode.ToLower(r[i])
	}
	return r
}

func equalRunes(a, b []rune) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Result represents a fuzzy search match. MatchedIndexes are byte offsets
// into Text.
type Result struct {
	Bookmark       *model.Bookmark
	Text           string
	MatchedIndexes []int
	Score          int
}

// displayTexts implements fuzzy.Source over the text shown for each record.
type displayTexts []string

func (d displayTexts) String(i int) string {
	return d[i]
}

func (d displayTexts) Len() int {
	return len(d)
}

// Fuzzy ranks records by fuzzy match of query against display(content), so
// matches refer to the text the user sees. A nil display matches the raw
// content. Returns results sorted by match score (best first).
func Fuzzy(records []model.Bookmark, query string, display func(string) string) []Result {
	if query == "" {
		return nil
	}

	texts := make(displayTexts, len(records))
	for i := range records {
		if display != nil {
			texts[i] = display(records[i].Content)
		} else {
			texts[i] = records[i].Content
		}
	}

	matches := fuzzy.FindFrom(query, texts)

	results := make([]Result, len(matches))
	for i, m := range matches {
		results[i] = Result{
			Bookmark:       &records[m.Index],
			Text:           texts[m.Index],
			MatchedIndexes: m.MatchedIndexes,
			Score:          m.Score,
		}
	}

	return results
}
