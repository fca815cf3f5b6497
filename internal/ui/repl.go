package ui

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/briandowns/spinner"
	"github.com/charmbracelet/lipgloss"
	"github.com/chzyer/readline"

	"quotelens/internal/config"
	"quotelens/internal/dispatch"
	"quotelens/internal/hf"
	"quotelens/internal/history"
	"quotelens/internal/prompt"
	"quotelens/internal/quotes"
	"quotelens/internal/ratelimit"
	"quotelens/internal/renderer"
	"quotelens/internal/session"
	"quotelens/internal/validate"
)

var (
	accentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("75")).Bold(true)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	noticeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)

const quotePrompt = "Enter a quote: "

// autoCompleter provides tab completion for slash commands.
type autoCompleter struct{}

func (a *autoCompleter) Do(line []rune, pos int) (newLine [][]rune, length int) {
	lineStr := string(line)
	if !strings.HasPrefix(lineStr, "/") {
		return nil, 0
	}

	commands := []string{"/mode clarity", "/mode brutal", "/mode compassion", "/stats", "/history", "/copy", "/help"}

	var suggestions [][]rune
	for _, cmd := range commands {
		if strings.HasPrefix(cmd, lineStr) {
			suggestions = append(suggestions, []rune(cmd[len(lineStr):]))
		}
	}
	return suggestions, len(lineStr)
}

// repl owns one interactive session against the inference endpoint.
type repl struct {
	cfg        *config.Config
	sess       *session.Session
	dispatcher *dispatch.Dispatcher
	limiter    *ratelimit.Limiter
	library    *quotes.Library
	store      *history.Store
	rend       *renderer.Renderer
}

// Run starts the read-eval loop: one mode-selection prompt, then one quote
// or command per line until exit/quit or end of input.
func Run(cfg *config.Config) error {
	client := hf.NewClient(cfg.HF.APIKey, cfg.HF.Model)
	if cfg.HF.BaseURL != "" {
		client.BaseURL = cfg.HF.BaseURL
	}
	client.Temperature = cfg.HF.Temperature
	client.MaxTokens = cfg.HF.MaxTokens

	library, warnings, err := quotes.Load(cfg.Quotes.Path)
	if err != nil {
		fmt.Println(noticeStyle.Render(fmt.Sprintf("Warning: quote library unavailable: %v", err)))
	} else {
		fmt.Println(noticeStyle.Render(fmt.Sprintf("Loaded %d canonical quotes", library.Len())))
	}
	for _, w := range warnings {
		fmt.Println(noticeStyle.Render("Warning: quote library: " + w))
	}

	var store *history.Store
	if cfg.History.Enabled {
		store, err = history.Open()
		if err != nil {
			fmt.Println(noticeStyle.Render(fmt.Sprintf("Warning: history disabled: %v", err)))
			store = nil
		} else {
			defer store.Close()
		}
	}

	historyFile := "/tmp/quotelens_input_history"
	if dir, err := config.GetConfigDir(); err == nil {
		historyFile = filepath.Join(dir, "input_history")
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          quotePrompt,
		HistoryFile:     historyFile,
		AutoComplete:    &autoCompleter{},
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return err
	}
	defer rl.Close()

	sess, err := selectStartupMode(rl, cfg.HF.Stream)
	if err != nil {
		if err == io.EOF {
			return nil
		}
		return err
	}

	r := &repl{
		cfg:        cfg,
		sess:       sess,
		dispatcher: dispatch.New(dispatch.ClientBackend{Client: client}, cfg.HF.Model),
		limiter:    ratelimit.New(cfg.Limits.MaxCalls, cfg.Limits.Period()),
		library:    library,
		store:      store,
		rend:       renderer.New(cfg.UI.Theme),
	}
	return r.loop(rl)
}

// selectStartupMode runs the one-time mode prompt. Invalid or empty input
// defaults to clarity; this is the only default-on-invalid point.
func selectStartupMode(rl *readline.Instance, stream bool) (*session.Session, error) {
	rl.SetPrompt("Select mode (clarity / brutal / compassion): ")
	defer rl.SetPrompt(quotePrompt)

	line, err := rl.Readline()
	if err == readline.ErrInterrupt || err == io.EOF {
		return nil, io.EOF
	}
	if err != nil {
		return nil, err
	}

	mode := session.ResolveStartupMode(line)
	fmt.Println(accentStyle.Render(fmt.Sprintf("Mode: %s", mode)))
	return session.New(mode, stream), nil
}

func (r *repl) loop(rl *readline.Instance) error {
	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				return nil
			}
			continue
		} else if err == io.EOF {
			return nil
		} else if err != nil {
			return err
		}

		cmd := session.Interpret(line)
		switch cmd.Action {
		case session.ActionQuit:
			return nil
		case session.ActionEmpty:
			continue
		case session.ActionSetMode:
			r.setMode(cmd.Arg)
		case session.ActionStats:
			r.printStats()
		case session.ActionHistory:
			r.printHistory()
		case session.ActionCopy:
			r.copyLastAnalysis()
		case session.ActionHelp:
			r.printHelp()
		case session.ActionUnknownCommand:
			fmt.Println(errorStyle.Render("Unknown command: /" + cmd.Arg))
			fmt.Println(noticeStyle.Render("Available: /mode <clarity|brutal|compassion>, /stats, /history, /copy, /help, exit"))
		case session.ActionQuote:
			r.handleQuote(cmd.Arg)
		}
	}
}

func (r *repl) setMode(arg string) {
	m, ok := prompt.Parse(arg)
	if !ok {
		fmt.Println(errorStyle.Render(fmt.Sprintf("Unrecognized mode %q. Available modes: clarity, brutal, compassion.", arg)))
		return
	}
	r.sess.SetMode(m)
	fmt.Println(okStyle.Render(fmt.Sprintf("Mode set to %s.", m)))
}

// handleQuote runs one full turn: validate, rate-limit, build the prompt
// for the current mode, dispatch, print, record. Errors never end the loop.
func (r *repl) handleQuote(input string) {
	cleaned, err := validate.Quote(input)
	if err != nil {
		fmt.Println(errorStyle.Render("Error: " + err.Error()))
		return
	}

	if !r.limiter.Allow() {
		fmt.Println(errorStyle.Render("Rate limit exceeded. Slow down."))
		return
	}

	systemPrompt := prompt.Build(r.sess.Mode)

	s := spinner.New(spinner.CharSets[11], 100*time.Millisecond)
	s.Suffix = " Thinking..."
	s.Start()

	var cb hf.StreamCallback
	if r.sess.Stream {
		cb = func(chunk string) error {
			if s.Active() {
				s.Stop()
				fmt.Println()
			}
			fmt.Print(chunk)
			return nil
		}
	}

	res, err := r.dispatcher.Send(systemPrompt, cleaned, cb)
	if s.Active() {
		s.Stop()
	}
	if err != nil {
		r.printTurnError(err)
		return
	}

	if r.sess.Stream {
		fmt.Println()
	} else {
		fmt.Println()
		fmt.Println(r.rend.Markdown(res.Text))
	}
	if res.Attempt == dispatch.AttemptTextGeneration {
		fmt.Println(noticeStyle.Render("Note: model lacks chat support; served via text-generation fallback."))
	}

	fmt.Println(noticeStyle.Render(strings.Repeat("─", 60)))
	r.printSimilar(cleaned)

	r.sess.RecordTurn(res.Text, res.Usage)
	if r.store != nil {
		err := r.store.Record(history.Turn{
			Mode:        string(r.sess.Mode),
			Model:       r.cfg.HF.Model,
			Quote:       cleaned,
			Analysis:    res.Text,
			TotalTokens: res.Usage.TotalTokens,
		})
		if err != nil {
			fmt.Println(noticeStyle.Render("Warning: failed to record turn: " + err.Error()))
		}
	}
}

// printTurnError renders the per-turn failure taxonomy: authentication,
// model capability, then everything else as transport.
func (r *repl) printTurnError(err error) {
	var authErr *hf.AuthError
	if errors.As(err, &authErr) {
		fmt.Println(errorStyle.Render("Authentication failed: " + authErr.Message))
		fmt.Println(noticeStyle.Render("Verify your Hugging Face token and its permissions."))
		return
	}

	var unusable *dispatch.ModelUnusableError
	if errors.As(err, &unusable) {
		fmt.Println(errorStyle.Render("Error: " + unusable.Error()))
		return
	}

	fmt.Println(errorStyle.Render("Request failed: " + err.Error()))
}

func (r *repl) printSimilar(quote string) {
	if r.library == nil {
		return
	}
	matches := r.library.SimilarTo(quote, 3)
	if len(matches) == 0 {
		return
	}

	fmt.Println("Related canonical quotes:")
	for _, m := range matches {
		fmt.Printf("  %q %s\n", m.Quote.Text, noticeStyle.Render(m.Quote.Attribution()))
	}
}

func (r *repl) printStats() {
	fmt.Printf("Mode: %s\n", r.sess.Mode)
	fmt.Printf("Model: %s\n", r.cfg.HF.Model)
	fmt.Printf("API calls: %d\n", r.sess.APICalls)
	fmt.Printf("Total tokens: %d\n", r.sess.TotalTokens)
}

func (r *repl) printHistory() {
	if r.store == nil {
		fmt.Println(noticeStyle.Render("History is disabled."))
		return
	}

	turns, err := r.store.Recent(5)
	if err != nil {
		fmt.Println(errorStyle.Render("Failed to read history: " + err.Error()))
		return
	}
	if len(turns) == 0 {
		fmt.Println(noticeStyle.Render("No turns recorded yet."))
		return
	}

	for _, t := range turns {
		fmt.Printf("%s  [%s]  %s\n", t.CreatedAt.Format("2006-01-02 15:04"), t.Mode, truncate(t.Quote, 60))
	}
}

// truncate shortens s to at most max characters, cutting on rune
// boundaries so multi-byte quotes never print garbled.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}

func (r *repl) copyLastAnalysis() {
	if r.sess.LastAnalysis == "" {
		fmt.Println(noticeStyle.Render("Nothing to copy yet."))
		return
	}
	if err := clipboard.WriteAll(r.sess.LastAnalysis); err != nil {
		fmt.Println(errorStyle.Render("Failed to copy: " + err.Error()))
		return
	}
	fmt.Println(okStyle.Render("✓ Copied to clipboard"))
}

func (r *repl) printHelp() {
	fmt.Println("Commands:")
	fmt.Println("  /mode <clarity|brutal|compassion>  switch critique tone")
	fmt.Println("  /stats                             show session usage")
	fmt.Println("  /history                           show recent analyses")
	fmt.Println("  /copy                              copy last analysis to clipboard")
	fmt.Println("  /help                              show this help")
	fmt.Println("  exit | quit                        leave")
	fmt.Println("Anything else is analyzed as a quote.")
}
