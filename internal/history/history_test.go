package history

import (
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	t.Setenv("QUOTELENS_CONFIG_DIR", t.TempDir())
	s, err := Open()
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestRecordAndRecent(t *testing.T) {
	s := openTestStore(t)

	turns := []Turn{
		{Mode: "clarity", Model: "m", Quote: "q1", Analysis: "a1", TotalTokens: 10},
		{Mode: "brutal", Model: "m", Quote: "q2", Analysis: "a2", TotalTokens: 20},
		{Mode: "compassion", Model: "m", Quote: "q3", Analysis: "a3", TotalTokens: 30},
	}
	for _, tr := range turns {
		if err := s.Record(tr); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	recent, err := s.Recent(2)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("expected 2 turns, got %d", len(recent))
	}
	if recent[0].Quote != "q3" || recent[1].Quote != "q2" {
		t.Errorf("expected newest first, got %q then %q", recent[0].Quote, recent[1].Quote)
	}
	if recent[0].Mode != "compassion" || recent[0].TotalTokens != 30 {
		t.Errorf("unexpected turn data: %+v", recent[0])
	}
}

func TestRecentEmpty(t *testing.T) {
	s := openTestStore(t)
	recent, err := s.Recent(5)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(recent) != 0 {
		t.Errorf("expected no turns, got %d", len(recent))
	}
}
