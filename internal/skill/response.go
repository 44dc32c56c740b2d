package skill

import (
	"strings"

	"github.com/jorgej/gimlet-skill-sub000/internal/domain"
)

// PlayBehavior controls how a play directive affects the audio queue.
type PlayBehavior string

const (
	BehaviorReplaceAll      PlayBehavior = "REPLACE_ALL"
	BehaviorEnqueue         PlayBehavior = "ENQUEUE"
	BehaviorReplaceEnqueued PlayBehavior = "REPLACE_ENQUEUED"
)

// Directive types.
const (
	DirectivePlay = "AudioPlayer.Play"
	DirectiveStop = "AudioPlayer.Stop"
)

// Card types.
const (
	CardSimple      = "Simple"
	CardLinkAccount = "LinkAccount"
)

// Card is shown in the companion app.
type Card struct {
	Type    string `json:"type"`
	Title   string `json:"title,omitempty"`
	Content string `json:"content,omitempty"`
}

// Directive is an audio player instruction.
type Directive struct {
	Type         string              `json:"type"`
	Behavior     PlayBehavior        `json:"playBehavior,omitempty"`
	URL          string              `json:"url,omitempty"`
	Token        domain.ContentToken `json:"token"`
	OffsetMillis int64               `json:"offsetInMilliseconds"`
}

// Response is the outcome of one request.
type Response struct {
	// Speech and Reprompt are SSML fragments without the <speak> wrapper.
	Speech     string
	Reprompt   string
	Card       *Card
	Directives []Directive
	// Empty marks a SendEmpty acknowledgement: no speech, no session flag.
	Empty            bool
	ShouldEndSession bool
	// PersistSession asks the caller to store the attribute bag.
	PersistSession bool
}

// PlayDirectives returns the play directives of r.
func (r Response) PlayDirectives() []Directive {
	var out []Directive
	for _, d := range r.Directives {
		if d.Type == DirectivePlay {
			out = append(out, d)
		}
	}
	return out
}

// SendOptions configures SendEmpty.
type SendOptions struct {
	PersistSession bool
}

// ResponseBuilder accumulates a response. Handlers chain the building calls
// and finish with exactly one of Send or SendEmpty.
type ResponseBuilder struct {
	speech    []string
	reprompt  string
	listening bool
	card      *Card
	dirs      []Directive
	resp      Response
	terminal  int
}

func NewResponseBuilder() *ResponseBuilder {
	return &ResponseBuilder{}
}

// Speak appends plain text to the output speech.
func (b *ResponseBuilder) Speak(text string) *ResponseBuilder {
	if text != "" {
		b.speech = append(b.speech, escapeSSML(text))
	}
	return b
}

// SpeakAudio appends an SSML audio clip to the output speech.
func (b *ResponseBuilder) SpeakAudio(url string) *ResponseBuilder {
	if url != "" {
		b.speech = append(b.speech, `<audio src="`+escapeSSML(url)+`"/>`)
	}
	return b
}

// Listen keeps the session open and sets the reprompt.
func (b *ResponseBuilder) Listen(reprompt string) *ResponseBuilder {
	b.listening = true
	b.reprompt = escapeSSML(reprompt)
	return b
}

// Card renders a simple card.
func (b *ResponseBuilder) Card(title, body string) *ResponseBuilder {
	b.card = &Card{Type: CardSimple, Title: title, Content: body}
	return b
}

// LinkAccountCard asks the user to link their account in the companion app.
func (b *ResponseBuilder) LinkAccountCard() *ResponseBuilder {
	b.card = &Card{Type: CardLinkAccount}
	return b
}

// PlayAudio adds a play directive.
func (b *ResponseBuilder) PlayAudio(behavior PlayBehavior, url string, token domain.ContentToken, offsetMillis int64) *ResponseBuilder {
	b.dirs = append(b.dirs, Directive{
		Type:         DirectivePlay,
		Behavior:     behavior,
		URL:          url,
		Token:        token,
		OffsetMillis: offsetMillis,
	})
	return b
}

// StopAudio adds a stop directive.
func (b *ResponseBuilder) StopAudio() *ResponseBuilder {
	b.dirs = append(b.dirs, Directive{Type: DirectiveStop})
	return b
}

// Send finishes the response with speech, card and directives and asks for
// the session to be persisted.
func (b *ResponseBuilder) Send() {
	b.terminal++
	b.resp = Response{
		Speech:           strings.Join(b.speech, " "),
		Card:             b.card,
		Directives:       b.dirs,
		ShouldEndSession: !b.listening,
		PersistSession:   true,
	}
	if b.listening {
		b.resp.Reprompt = b.reprompt
	}
}

// SendEmpty finishes the response without speech or card. Directives are
// kept.
func (b *ResponseBuilder) SendEmpty(opts SendOptions) {
	b.terminal++
	b.resp = Response{
		Directives:     b.dirs,
		Empty:          true,
		PersistSession: opts.PersistSession,
	}
}

// Sent reports whether a terminal call happened.
func (b *ResponseBuilder) Sent() bool {
	return b.terminal > 0
}

// TerminalCalls is the number of Send and SendEmpty calls so far.
func (b *ResponseBuilder) TerminalCalls() int {
	return b.terminal
}

// Discard drops everything built so far, including a sent response.
func (b *ResponseBuilder) Discard() {
	*b = ResponseBuilder{}
}

// Result returns the sent response.
func (b *ResponseBuilder) Result() Response {
	return b.resp
}

var ssmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

func escapeSSML(s string) string {
	return ssmlEscaper.Replace(s)
}
