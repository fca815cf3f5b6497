package session

import (
	"testing"

	"quotelens/internal/hf"
	"quotelens/internal/prompt"
)

func TestInterpret(t *testing.T) {
	cases := []struct {
		input string
		want  Command
	}{
		{"exit", Command{Action: ActionQuit}},
		{"QUIT", Command{Action: ActionQuit}},
		{"  Exit  ", Command{Action: ActionQuit}},
		{"", Command{Action: ActionEmpty}},
		{"   ", Command{Action: ActionEmpty}},
		{"/mode brutal", Command{Action: ActionSetMode, Arg: "brutal"}},
		{"/MODE Clarity", Command{Action: ActionSetMode, Arg: "Clarity"}},
		{"/mode", Command{Action: ActionSetMode, Arg: ""}},
		{"/stats", Command{Action: ActionStats}},
		{"/history", Command{Action: ActionHistory}},
		{"/copy", Command{Action: ActionCopy}},
		{"/help", Command{Action: ActionHelp}},
		{"/frobnicate", Command{Action: ActionUnknownCommand, Arg: "frobnicate"}},
		{"All you need is love.", Command{Action: ActionQuote, Arg: "All you need is love."}},
	}

	for _, c := range cases {
		if got := Interpret(c.input); got != c.want {
			t.Errorf("Interpret(%q) = %+v, want %+v", c.input, got, c.want)
		}
	}
}

func TestResolveStartupMode(t *testing.T) {
	cases := []struct {
		input string
		want  prompt.Mode
	}{
		{"brutal", prompt.ModeBrutal},
		{"Compassion", prompt.ModeCompassion},
		{"", prompt.ModeClarity},
		{"foo", prompt.ModeClarity},
	}
	for _, c := range cases {
		if got := ResolveStartupMode(c.input); got != c.want {
			t.Errorf("ResolveStartupMode(%q) = %s, want %s", c.input, got, c.want)
		}
	}
}

func TestSetModeIsImmediate(t *testing.T) {
	s := New(prompt.ModeClarity, false)
	s.SetMode(prompt.ModeBrutal)
	if s.Mode != prompt.ModeBrutal {
		t.Fatalf("mode not switched, got %s", s.Mode)
	}
	if prompt.Build(s.Mode) != prompt.Build(prompt.ModeBrutal) {
		t.Error("next prompt should use the new mode's template")
	}
}

func TestRecordTurn(t *testing.T) {
	s := New(prompt.ModeClarity, true)
	s.RecordTurn("first", hf.Usage{TotalTokens: 30})
	s.RecordTurn("second", hf.Usage{TotalTokens: 12})

	if s.APICalls != 2 {
		t.Errorf("expected 2 api calls, got %d", s.APICalls)
	}
	if s.TotalTokens != 42 {
		t.Errorf("expected 42 total tokens, got %d", s.TotalTokens)
	}
	if s.LastAnalysis != "second" {
		t.Errorf("unexpected last analysis %q", s.LastAnalysis)
	}
}
