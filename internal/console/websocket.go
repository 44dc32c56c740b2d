package console

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/google/uuid"

	"github.com/jorgej/gimlet-skill-sub000/internal/api"
	"github.com/jorgej/gimlet-skill-sub000/internal/domain"
	"github.com/jorgej/gimlet-skill-sub000/internal/identity"
	"github.com/jorgej/gimlet-skill-sub000/internal/skill"
)

// Processor runs one skill request for a user.
type Processor interface {
	Process(ctx context.Context, req skill.Request) (api.Result, error)
}

// Handler serves console WebSocket sessions.
type Handler struct {
	proc    Processor
	sm      *SessionManager
	origins []string
}

// NewHandler creates a console handler. allowedOrigins holds full origins
// ("https://host:port") or "*".
func NewHandler(proc Processor, sm *SessionManager, allowedOrigins []string) *Handler {
	return &Handler{proc: proc, sm: sm, origins: originPatterns(allowedOrigins)}
}

// inMessage is a console turn.
type inMessage struct {
	Type         string            `json:"type"` // launch, intent, event, end
	Intent       string            `json:"intent,omitempty"`
	Slots        map[string]string `json:"slots,omitempty"`
	Event        string            `json:"event,omitempty"`
	Token        string            `json:"token,omitempty"`
	OffsetMillis int64             `json:"offsetMillis,omitempty"`
	Error        string            `json:"error,omitempty"`
}

type outDirective struct {
	Type         string `json:"type"`
	Behavior     string `json:"behavior,omitempty"`
	URL          string `json:"url,omitempty"`
	Token        string `json:"token,omitempty"`
	OffsetMillis int64  `json:"offsetMillis,omitempty"`
}

type outMessage struct {
	Type       string         `json:"type"` // hello, response, error
	UserID     string         `json:"userId,omitempty"`
	SessionID  string         `json:"sessionId,omitempty"`
	Speech     string         `json:"speech,omitempty"`
	Reprompt   string         `json:"reprompt,omitempty"`
	Card       *skill.Card    `json:"card,omitempty"`
	Directives []outDirective `json:"directives,omitempty"`
	EndSession bool           `json:"endSession,omitempty"`
	State      string         `json:"state,omitempty"`
	Error      string         `json:"error,omitempty"`
}

// ServeHTTP implements http.Handler for WebSocket upgrade.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	userID := strings.TrimSpace(r.URL.Query().Get("user"))
	if userID == "" {
		userID = "console-" + uuid.NewString()
	}
	accessToken := r.URL.Query().Get("token")
	sessionID := uuid.NewString()
	slog.Info("Console connection request", "user_id", userID, "session_id", sessionID, "ip", r.RemoteAddr)

	ws, err := websocket.Accept(w, r, &websocket.AcceptOptions{OriginPatterns: h.origins})
	if err != nil {
		slog.Warn("Failed to accept WebSocket", "error", err, "user_id", userID)
		return
	}
	defer func() {
		if closeErr := ws.Close(websocket.StatusNormalClosure, "session ended"); closeErr != nil {
			slog.Debug("Failed to close websocket", "error", closeErr, "user_id", userID)
		}
	}()

	h.sm.Register(userID, sessionID, ws)
	defer h.sm.Unregister(userID, sessionID, ws)

	ctx := identity.WithUser(r.Context(), userID, sessionID)
	if err := wsjson.Write(ctx, ws, outMessage{Type: "hello", UserID: userID, SessionID: sessionID}); err != nil {
		return
	}

	first := true
	for {
		var msg inMessage
		if err := wsjson.Read(ctx, ws, &msg); err != nil {
			if websocket.CloseStatus(err) == -1 && !errors.Is(err, context.Canceled) {
				slog.Debug("Console read error", "error", err, "user_id", userID)
			}
			return
		}

		req, ok := toRequest(msg)
		if !ok {
			if err := wsjson.Write(ctx, ws, outMessage{Type: "error", Error: "unknown message type " + msg.Type}); err != nil {
				return
			}
			continue
		}
		req.UserID = userID
		req.SessionID = sessionID
		req.AccessToken = accessToken
		req.NewSession = first
		first = false

		out := h.process(ctx, req)
		if err := wsjson.Write(ctx, ws, out); err != nil {
			slog.Debug("Console write error", "error", err, "user_id", userID)
			return
		}
	}
}

func (h *Handler) process(ctx context.Context, req skill.Request) outMessage {
	res, err := h.proc.Process(ctx, req)
	if err != nil {
		identity.LoggerFromContext(ctx).Error("console request failed", "key", req.Key(), "error", err)
		return outMessage{Type: "error", Error: err.Error()}
	}

	resp := res.Response
	out := outMessage{
		Type:       "response",
		Speech:     resp.Speech,
		Reprompt:   resp.Reprompt,
		Card:       resp.Card,
		EndSession: resp.ShouldEndSession,
		State:      string(res.State),
	}
	for _, d := range resp.Directives {
		od := outDirective{Type: d.Type, Behavior: string(d.Behavior), URL: d.URL, OffsetMillis: d.OffsetMillis}
		if d.Type == skill.DirectivePlay {
			od.Token = domain.EncodeToken(d.Token)
		}
		out.Directives = append(out.Directives, od)
	}
	return out
}

func toRequest(msg inMessage) (skill.Request, bool) {
	switch msg.Type {
	case "launch":
		return skill.Request{Kind: skill.KindLaunch}, true
	case "intent":
		if msg.Intent == "" {
			return skill.Request{}, false
		}
		return skill.Request{Kind: skill.KindIntent, Intent: msg.Intent, Slots: msg.Slots}, true
	case "event":
		if !strings.HasPrefix(msg.Event, "AudioPlayer.") && !strings.HasPrefix(msg.Event, "PlaybackController.") {
			return skill.Request{}, false
		}
		return skill.Request{
			Kind:         skill.RequestKind(msg.Event),
			Token:        domain.DecodeToken(msg.Token),
			OffsetMillis: msg.OffsetMillis,
			ErrorMessage: msg.Error,
		}, true
	case "end":
		return skill.Request{Kind: skill.KindSessionEnded}, true
	}
	return skill.Request{}, false
}

// originPatterns converts origins to the host patterns websocket.Accept
// matches against.
func originPatterns(origins []string) []string {
	var out []string
	for _, o := range origins {
		if o == "*" {
			return []string{"*"}
		}
		if u, err := url.Parse(o); err == nil && u.Host != "" {
			out = append(out, u.Host)
			continue
		}
		out = append(out, o)
	}
	return out
}
