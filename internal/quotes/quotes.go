package quotes

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed quotes.yaml
var embeddedDB []byte

// Quote is one canonical philosophy quote with attribution metadata.
type Quote struct {
	ID              string   `yaml:"id"`
	Text            string   `yaml:"text"`
	Author          string   `yaml:"author"`
	Tradition       string   `yaml:"tradition"`
	Themes          []string `yaml:"themes"`
	Verified        bool     `yaml:"verified"`
	AttributionNote string   `yaml:"attribution_note"`
	SourceWork      string   `yaml:"source_work"`
	Year            string   `yaml:"year"`
}

// Attribution formats the author line, marking unverified attributions.
func (q Quote) Attribution() string {
	base := "— " + q.Author
	if !q.Verified {
		base += " [UNVERIFIED]"
	} else if q.AttributionNote != "" {
		base += " [" + q.AttributionNote + "]"
	}
	if q.SourceWork != "" {
		base += " (" + q.SourceWork
		if q.Year != "" {
			base += ", " + q.Year
		}
		base += ")"
	}
	return base
}

// Library is a loaded set of canonical quotes.
type Library struct {
	quotes []Quote
}

type dbFile struct {
	Quotes []Quote `yaml:"quotes"`
}

// Load reads the quote library from path, or the embedded default set when
// path is empty. It returns non-fatal validation warnings alongside the
// library.
func Load(path string) (*Library, []string, error) {
	data := embeddedDB
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read quote library: %w", err)
		}
	}

	var db dbFile
	if err := yaml.Unmarshal(data, &db); err != nil {
		return nil, nil, fmt.Errorf("failed to parse quote library: %w", err)
	}
	if len(db.Quotes) == 0 {
		return nil, nil, fmt.Errorf("quote library is empty")
	}

	lib := &Library{quotes: db.Quotes}
	return lib, lib.validate(), nil
}

// validate checks required fields and duplicate IDs, returning warnings.
func (l *Library) validate() []string {
	var warnings []string
	seen := map[string]bool{}
	for i, q := range l.quotes {
		if strings.TrimSpace(q.Text) == "" {
			warnings = append(warnings, fmt.Sprintf("quote %d: empty text", i))
		}
		if strings.TrimSpace(q.Author) == "" {
			warnings = append(warnings, fmt.Sprintf("quote %d: empty author", i))
		}
		if len(q.Themes) == 0 {
			warnings = append(warnings, fmt.Sprintf("quote %d: no themes", i))
		}
		if seen[q.ID] {
			warnings = append(warnings, fmt.Sprintf("quote %d: duplicate id %q", i, q.ID))
		}
		seen[q.ID] = true
	}
	return warnings
}

// Len reports how many quotes the library holds.
func (l *Library) Len() int {
	return len(l.quotes)
}

// Match is a scored similarity hit.
type Match struct {
	Quote Quote
	Score int
}

// SimilarTo scores every verified quote by how many of its themes occur in
// the input text and returns the topK matches, highest score first.
func (l *Library) SimilarTo(input string, topK int) []Match {
	lowered := strings.ToLower(input)

	var matches []Match
	for _, q := range l.quotes {
		if !q.Verified {
			continue
		}
		score := 0
		for _, theme := range q.Themes {
			if strings.Contains(lowered, strings.ToLower(theme)) {
				score++
			}
		}
		if score > 0 {
			matches = append(matches, Match{Quote: q, Score: score})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	if len(matches) > topK {
		matches = matches[:topK]
	}
	return matches
}
