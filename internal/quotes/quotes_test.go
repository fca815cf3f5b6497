package quotes

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadEmbedded(t *testing.T) {
	lib, warnings, err := Load("")
	if err != nil {
		t.Fatalf("Load embedded: %v", err)
	}
	if lib.Len() == 0 {
		t.Fatal("embedded library should not be empty")
	}
	if len(warnings) != 0 {
		t.Errorf("embedded library should validate cleanly, got: %v", warnings)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quotes.yaml")
	content := `quotes:
  - id: a
    text: "Fear is the mind-killer."
    author: Herbert
    tradition: Fiction
    themes: [fear]
    verified: true
  - id: a
    text: ""
    author: Nobody
    tradition: None
    themes: []
    verified: true
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	lib, warnings, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if lib.Len() != 2 {
		t.Errorf("expected 2 quotes, got %d", lib.Len())
	}
	if len(warnings) == 0 {
		t.Error("expected warnings for duplicate id, empty text and missing themes")
	}
}

func TestLoadRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quotes.yaml")
	if err := os.WriteFile(path, []byte("quotes: [not closed"), 0644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	if _, _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestSimilarTo(t *testing.T) {
	lib, _, err := Load("")
	if err != nil {
		t.Fatalf("Load embedded: %v", err)
	}

	matches := lib.SimilarTo("Without meaning and purpose, suffering is unbearable.", 3)
	if len(matches) == 0 {
		t.Fatal("expected at least one match for meaning/purpose/suffering themes")
	}
	if len(matches) > 3 {
		t.Errorf("expected at most 3 matches, got %d", len(matches))
	}
	for i := 1; i < len(matches); i++ {
		if matches[i].Score > matches[i-1].Score {
			t.Error("matches not sorted by descending score")
		}
	}
	if matches[0].Quote.Author != "Friedrich Nietzsche" {
		t.Errorf("expected the why-to-live quote first, got %q", matches[0].Quote.Text)
	}

	if got := lib.SimilarTo("xylophone zebra quartz", 3); len(got) != 0 {
		t.Errorf("expected no matches, got %d", len(got))
	}
}

func TestSimilarToSkipsUnverified(t *testing.T) {
	lib, _, err := Load("")
	if err != nil {
		t.Fatalf("Load embedded: %v", err)
	}
	for _, m := range lib.SimilarTo("the mind and its thoughts shape the self", 10) {
		if !m.Quote.Verified {
			t.Errorf("unverified quote %q should not be matched", m.Quote.ID)
		}
	}
}

func TestAttribution(t *testing.T) {
	q := Quote{Author: "Seneca", Verified: true, SourceWork: "Letters", Year: "65"}
	if got := q.Attribution(); got != "— Seneca (Letters, 65)" {
		t.Errorf("unexpected attribution %q", got)
	}

	q = Quote{Author: "Buddha", Verified: false}
	if got := q.Attribution(); !strings.Contains(got, "[UNVERIFIED]") {
		t.Errorf("unverified marker missing: %q", got)
	}
}
