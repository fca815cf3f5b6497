package session

import (
	"strings"
	"time"

	"quotelens/internal/hf"
	"quotelens/internal/prompt"
)

// Session holds the per-run state: the active mode, the delivery
// preference (fixed at construction) and usage counters. Requests never
// carry state from prior turns; the session only tracks the mode used to
// build the next prompt and local bookkeeping.
type Session struct {
	Mode         prompt.Mode
	Stream       bool
	APICalls     int
	TotalTokens  int
	LastAnalysis string
	CreatedAt    time.Time
}

// New creates a session with the given mode and delivery preference.
func New(mode prompt.Mode, stream bool) *Session {
	return &Session{
		Mode:      mode,
		Stream:    stream,
		CreatedAt: time.Now(),
	}
}

// SetMode switches the active mode. Takes effect on the very next turn.
func (s *Session) SetMode(m prompt.Mode) {
	s.Mode = m
}

// RecordTurn updates usage counters and the last analysis after a
// successful dispatch.
func (s *Session) RecordTurn(analysis string, usage hf.Usage) {
	s.APICalls++
	s.TotalTokens += usage.TotalTokens
	s.LastAnalysis = analysis
}

// ResolveStartupMode applies the startup rule: empty or unrecognized input
// resolves to the default mode. This is the only place invalid input
// defaults rather than leaving the mode unchanged.
func ResolveStartupMode(input string) prompt.Mode {
	if m, ok := prompt.Parse(input); ok {
		return m
	}
	return prompt.Default
}

// Action is what the controller should do with one line of input.
type Action int

const (
	ActionQuote Action = iota
	ActionQuit
	ActionSetMode
	ActionEmpty
	ActionStats
	ActionHistory
	ActionCopy
	ActionHelp
	ActionUnknownCommand
)

// Command is one interpreted input line.
type Command struct {
	Action Action
	Arg    string
}

// Interpret classifies a raw input line. Pure function: the state machine
// transition logic lives here so it is testable without terminal I/O.
func Interpret(line string) Command {
	input := strings.TrimSpace(line)
	if input == "" {
		return Command{Action: ActionEmpty}
	}

	switch strings.ToLower(input) {
	case "exit", "quit":
		return Command{Action: ActionQuit}
	}

	if strings.HasPrefix(input, "/") {
		parts := strings.SplitN(input, " ", 2)
		arg := ""
		if len(parts) > 1 {
			arg = strings.TrimSpace(parts[1])
		}
		switch strings.ToLower(parts[0]) {
		case "/mode":
			return Command{Action: ActionSetMode, Arg: arg}
		case "/stats":
			return Command{Action: ActionStats}
		case "/history":
			return Command{Action: ActionHistory}
		case "/copy":
			return Command{Action: ActionCopy}
		case "/help":
			return Command{Action: ActionHelp}
		default:
			return Command{Action: ActionUnknownCommand, Arg: strings.TrimPrefix(parts[0], "/")}
		}
	}

	return Command{Action: ActionQuote, Arg: input}
}
