package api

import (
	"github.com/jorgej/gimlet-skill-sub000/internal/domain"
	"github.com/jorgej/gimlet-skill-sub000/internal/skill"
)

const responseVersion = "1.0"

// Inbound platform envelope. Only the fields the skill reads are decoded.
type requestEnvelope struct {
	Version string           `json:"version"`
	Session *envelopeSession `json:"session,omitempty"`
	Context *envelopeContext `json:"context,omitempty"`
	Request envelopeRequest  `json:"request"`
}

type envelopeSession struct {
	New         bool                `json:"new"`
	SessionID   string              `json:"sessionId"`
	Application envelopeApplication `json:"application"`
	User        envelopeUser        `json:"user"`
}

type envelopeContext struct {
	System struct {
		Application envelopeApplication `json:"application"`
		User        envelopeUser        `json:"user"`
	} `json:"System"`
}

type envelopeApplication struct {
	ApplicationID string `json:"applicationId"`
}

type envelopeUser struct {
	UserID      string `json:"userId"`
	AccessToken string `json:"accessToken,omitempty"`
}

type envelopeRequest struct {
	Type      string          `json:"type"`
	RequestID string          `json:"requestId"`
	Intent    *envelopeIntent `json:"intent,omitempty"`
	Token     string          `json:"token,omitempty"`
	Offset    int64           `json:"offsetInMilliseconds,omitempty"`
	Error     *envelopeError  `json:"error,omitempty"`
}

type envelopeIntent struct {
	Name  string                  `json:"name"`
	Slots map[string]envelopeSlot `json:"slots,omitempty"`
}

type envelopeSlot struct {
	Name  string `json:"name"`
	Value string `json:"value,omitempty"`
}

type envelopeError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// applicationID returns the application id from the session or, for audio
// player events that carry no session, from the context.
func (e *requestEnvelope) applicationID() string {
	if e.Session != nil && e.Session.Application.ApplicationID != "" {
		return e.Session.Application.ApplicationID
	}
	if e.Context != nil {
		return e.Context.System.Application.ApplicationID
	}
	return ""
}

func (e *requestEnvelope) user() envelopeUser {
	if e.Session != nil && e.Session.User.UserID != "" {
		return e.Session.User
	}
	if e.Context != nil {
		return e.Context.System.User
	}
	return envelopeUser{}
}

// toRequest converts the envelope into a skill request. A missing or
// malformed token decodes to the invalid token.
func (e *requestEnvelope) toRequest() skill.Request {
	u := e.user()
	req := skill.Request{
		Kind:         skill.RequestKind(e.Request.Type),
		Token:        domain.DecodeToken(e.Request.Token),
		OffsetMillis: e.Request.Offset,
		UserID:       u.UserID,
		AccessToken:  u.AccessToken,
	}
	if e.Session != nil {
		req.SessionID = e.Session.SessionID
		req.NewSession = e.Session.New
	}
	if in := e.Request.Intent; in != nil {
		req.Intent = in.Name
		req.Slots = make(map[string]string, len(in.Slots))
		for name, slot := range in.Slots {
			if slot.Value != "" {
				req.Slots[name] = slot.Value
			}
		}
	}
	if e.Request.Error != nil {
		req.ErrorMessage = e.Request.Error.Type + ": " + e.Request.Error.Message
	}
	return req
}

// Outbound platform envelope.
type responseEnvelope struct {
	Version  string       `json:"version"`
	Response responseBody `json:"response"`
}

type responseBody struct {
	OutputSpeech     *outputSpeech `json:"outputSpeech,omitempty"`
	Card             *skill.Card   `json:"card,omitempty"`
	Reprompt         *reprompt     `json:"reprompt,omitempty"`
	Directives       []directive   `json:"directives,omitempty"`
	ShouldEndSession *bool         `json:"shouldEndSession,omitempty"`
}

type outputSpeech struct {
	Type string `json:"type"`
	SSML string `json:"ssml"`
}

type reprompt struct {
	OutputSpeech outputSpeech `json:"outputSpeech"`
}

type directive struct {
	Type         string     `json:"type"`
	PlayBehavior string     `json:"playBehavior,omitempty"`
	AudioItem    *audioItem `json:"audioItem,omitempty"`
}

type audioItem struct {
	Stream audioStream `json:"stream"`
}

type audioStream struct {
	URL                  string `json:"url"`
	Token                string `json:"token"`
	OffsetInMilliseconds int64  `json:"offsetInMilliseconds"`
}

func ssml(fragment string) *outputSpeech {
	return &outputSpeech{Type: "SSML", SSML: "<speak>" + fragment + "</speak>"}
}

// toEnvelope renders a skill response. Empty acknowledgements carry only
// directives and leave shouldEndSession unset.
func toEnvelope(resp skill.Response) responseEnvelope {
	body := responseBody{}
	for _, d := range resp.Directives {
		out := directive{Type: d.Type}
		if d.Type == skill.DirectivePlay {
			out.PlayBehavior = string(d.Behavior)
			out.AudioItem = &audioItem{Stream: audioStream{
				URL:                  d.URL,
				Token:                domain.EncodeToken(d.Token),
				OffsetInMilliseconds: d.OffsetMillis,
			}}
		}
		body.Directives = append(body.Directives, out)
	}

	if !resp.Empty {
		if resp.Speech != "" {
			body.OutputSpeech = ssml(resp.Speech)
		}
		if resp.Reprompt != "" {
			body.Reprompt = &reprompt{OutputSpeech: *ssml(resp.Reprompt)}
		}
		body.Card = resp.Card
		end := resp.ShouldEndSession
		body.ShouldEndSession = &end
	}
	return responseEnvelope{Version: responseVersion, Response: body}
}
