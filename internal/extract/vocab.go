package extract

import (
	"regexp"
	"sort"
	"strings"
)

// vocabMatcher finds configured terms in normalized text. The alternation
// is compiled once per run; terms are ordered longest-first so that
// "machine learning engineer" wins over "machine learning".
type vocabMatcher struct {
	re *regexp.Regexp
}

func newVocabMatcher(terms ...[]string) *vocabMatcher {
	set := map[string]struct{}{}
	for _, list := range terms {
		for _, t := range list {
			t = strings.ToLower(strings.TrimSpace(t))
			if t != "" {
				set[t] = struct{}{}
			}
		}
	}
	if len(set) == 0 {
		return &vocabMatcher{}
	}

	unique := make([]string, 0, len(set))
	for t := range set {
		unique = append(unique, t)
	}
	sort.Slice(unique, func(i, j int) bool {
		if len(unique[i]) != len(unique[j]) {
			return len(unique[i]) > len(unique[j])
		}
		return unique[i] < unique[j]
	})

	quoted := make([]string, len(unique))
	for i, t := range unique {
		quoted[i] = regexp.QuoteMeta(t)
	}
	return &vocabMatcher{
		re: regexp.MustCompile(`(?i)(?:` + strings.Join(quoted, "|") + `)`),
	}
}

// terms returns deduplicated matched terms in order of appearance,
// truncated to max when max is positive. Matches glued to a letter or
// digit on either side are rejected so "be" never fires inside
// "beneficial".
func (m *vocabMatcher) terms(text string, max int) []string {
	if m.re == nil || text == "" {
		return nil
	}

	var out []string
	seen := map[string]struct{}{}
	for _, loc := range m.re.FindAllStringIndex(text, -1) {
		start, end := loc[0], loc[1]
		if start > 0 && isWordByte(text[start-1]) {
			continue
		}
		if end < len(text) && isWordByte(text[end]) {
			continue
		}
		term := strings.ToLower(text[start:end])
		if _, dup := seen[term]; dup {
			continue
		}
		seen[term] = struct{}{}
		out = append(out, term)
		if max > 0 && len(out) == max {
			break
		}
	}
	return out
}

func isWordByte(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9'
}
