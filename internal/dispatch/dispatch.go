package dispatch

import (
	"errors"
	"fmt"

	"quotelens/internal/hf"
)

// Backend abstracts the inference client so the fallback policy is testable.
// A nil callback selects the synchronous delivery path.
type Backend interface {
	Chat(system, user string, cb hf.StreamCallback) (string, hf.Usage, error)
	Generate(input string, cb hf.StreamCallback) (string, hf.Usage, error)
}

// ClientBackend adapts *hf.Client to the Backend interface.
type ClientBackend struct {
	Client *hf.Client
}

func (b ClientBackend) Chat(system, user string, cb hf.StreamCallback) (string, hf.Usage, error) {
	if cb == nil {
		return b.Client.ChatCompletion(system, user)
	}
	return b.Client.ChatCompletionStream(system, user, cb)
}

func (b ClientBackend) Generate(input string, cb hf.StreamCallback) (string, hf.Usage, error) {
	if cb == nil {
		return b.Client.TextGeneration(input)
	}
	return b.Client.TextGenerationStream(input, cb)
}

// Outcome classifies a single attempt.
type Outcome int

const (
	OutcomeSuccess Outcome = iota
	OutcomeCapabilityMismatch
	OutcomeFatal
)

// Attempt names for Result reporting.
const (
	AttemptChat           = "chat"
	AttemptTextGeneration = "text-generation"
)

// Result is a completed analysis and which attempt served it.
type Result struct {
	Text    string
	Usage   hf.Usage
	Attempt string
}

// ModelUnusableError means the model rejected both the chat and the
// text-generation attempt.
type ModelUnusableError struct {
	Model string
}

func (e *ModelUnusableError) Error() string {
	return fmt.Sprintf("model %q supports neither chat nor plain text generation; pick a chat-capable model (e.g. Qwen/Qwen2.5-7B-Instruct)", e.Model)
}

// Dispatcher sends one turn to the remote endpoint, falling back from chat
// to plain text generation when the model rejects chat-style inference.
type Dispatcher struct {
	backend Backend
	model   string
}

// New creates a dispatcher for the given backend and model identifier.
func New(backend Backend, model string) *Dispatcher {
	return &Dispatcher{backend: backend, model: model}
}

type attempt struct {
	name string
	run  func() (string, hf.Usage, error)
}

// classify maps an attempt error to a typed outcome. Capability mismatches
// are retryable against the next attempt; everything else is terminal for
// the turn.
func classify(err error) Outcome {
	if err == nil {
		return OutcomeSuccess
	}
	var capErr *hf.CapabilityError
	if errors.As(err, &capErr) {
		return OutcomeCapabilityMismatch
	}
	return OutcomeFatal
}

// Send issues the ordered attempt list for one turn: exactly one chat call,
// and on a capability mismatch exactly one text-generation call wrapping
// the system prompt and quote into a single input. No other retries.
// cb, when non-nil, receives response fragments as they arrive.
func (d *Dispatcher) Send(systemPrompt, quote string, cb hf.StreamCallback) (Result, error) {
	attempts := []attempt{
		{
			name: AttemptChat,
			run: func() (string, hf.Usage, error) {
				return d.backend.Chat(systemPrompt, quote, cb)
			},
		},
		{
			name: AttemptTextGeneration,
			run: func() (string, hf.Usage, error) {
				return d.backend.Generate(wrapAsText(systemPrompt, quote), cb)
			},
		},
	}

	for _, a := range attempts {
		text, usage, err := a.run()
		switch classify(err) {
		case OutcomeSuccess:
			return Result{Text: text, Usage: usage, Attempt: a.name}, nil
		case OutcomeCapabilityMismatch:
			continue
		default:
			return Result{}, err
		}
	}

	return Result{}, &ModelUnusableError{Model: d.model}
}

// wrapAsText folds the role-tagged exchange into one text block for the
// text-generation fallback.
func wrapAsText(systemPrompt, quote string) string {
	return systemPrompt + "\n\nQuote: \"" + quote + "\"\n\nAnalysis:\n"
}
