package prompt

import (
	"fmt"
	"strings"
)

// Mode selects the tone of the critique.
type Mode string

const (
	ModeClarity    Mode = "clarity"
	ModeBrutal     Mode = "brutal"
	ModeCompassion Mode = "compassion"
)

// Default is the mode used when startup input is empty or unrecognized.
const Default = ModeClarity

// Modes lists all selectable modes in display order.
var Modes = []Mode{ModeClarity, ModeBrutal, ModeCompassion}

// directives maps each mode to the tone line inserted into the template.
var directives = map[Mode]string{
	ModeClarity:    "Balanced precision, calm analytical tone.",
	ModeBrutal:     "Incisive and uncompromising critique.",
	ModeCompassion: "Gentle, emotionally aware critique.",
}

// SectionHeaders are the five headers the model must emit, in order.
// The anchor quote section may be omitted when no faithful quote applies.
var SectionHeaders = []string{
	"**The Surface Claim:**",
	"**The Hidden Assumption:**",
	"**Philosophical Grounding:**",
	"**The Revision:**",
	"**Anchor Quote (Optional):**",
}

const template = `You are a philosophy analyst. The user will give you a quote. Critique it using EXACTLY these five sections, with these exact bold markdown headers, in this order:

**The Surface Claim:** One or two sentences stating the literal promise the quote makes.
**The Hidden Assumption:** The logical gap or oversimplification the quote relies on.
**Philosophical Grounding:** The traditions and thinkers that bear on the claim.
**The Revision:** A more honest, intellectually rigorous version of the quote.
**Anchor Quote (Optional):** A related canonical quote with author and tradition. Omit this entire section if no faithful quote applies.

Hard constraints:
- Use exactly those headers, in that order. No preamble, no closing remarks, no text outside the sections.
- Keep the whole response under 350 words.
- Be intellectually honest. Never invent quotes.

Tone: %s`

// Parse resolves user input to a Mode. The match is case-insensitive.
func Parse(s string) (Mode, bool) {
	m := Mode(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := directives[m]; ok {
		return m, true
	}
	return "", false
}

// Directive returns the tone line for m, falling back to the default mode.
func Directive(m Mode) string {
	if d, ok := directives[m]; ok {
		return d
	}
	return directives[Default]
}

// Build renders the system prompt for m. Same mode, same output.
func Build(m Mode) string {
	return fmt.Sprintf(template, Directive(m))
}
