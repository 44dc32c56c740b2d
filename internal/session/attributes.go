package session

import (
	"encoding/json"
	"log/slog"

	"github.com/jorgej/gimlet-skill-sub000/internal/domain"
)

// Attribute keys of the persisted layout.
const (
	KeyDialogueState  = "dialogueState"
	KeyActiveQuestion = "activeQuestion"
	KeyHelpStreak     = "helpRequestStreak"
	KeyReturningUser  = "returningUser"
	KeyPlayback       = "playback"
	KeyProgress       = "progress"
)

type progressDoc struct {
	Serial   map[domain.ShowID]int `json:"serial"`
	Favorite map[domain.ShowID]int `json:"favorite"`
}

// Attributes is a typed view over a KV. Reads are tolerant: a missing or
// unreadable value is reported as the zero value, never as an error.
type Attributes struct {
	kv KV
}

// NewAttributes wraps kv.
func NewAttributes(kv KV) *Attributes {
	return &Attributes{kv: kv}
}

func (a *Attributes) read(key string, dst any) bool {
	raw, ok := a.kv.Get(key)
	if !ok {
		return false
	}
	return json.Unmarshal(raw, dst) == nil
}

// write stores v under key. A value that cannot be encoded is logged and the
// previous value is kept.
func (a *Attributes) write(key string, v any) bool {
	data, err := json.Marshal(v)
	if err != nil {
		slog.Error("session: encode attribute", "key", key, "error", err)
		return false
	}
	a.kv.Set(key, data)
	return true
}

// State returns the dialogue state. An unset, unknown or inconsistent state
// (one that does not match the active question) reads as DEFAULT.
func (a *Attributes) State() domain.DialogueState {
	var s domain.DialogueState
	if !a.read(KeyDialogueState, &s) || !s.Valid() {
		return domain.StateDefault
	}
	if s != domain.StateForQuestion(a.Question()) {
		return domain.StateDefault
	}
	return s
}

// Question returns the active question, QuestionNone when unset or unknown.
func (a *Attributes) Question() domain.Question {
	var q domain.Question
	if !a.read(KeyActiveQuestion, &q) || !q.Valid() {
		return domain.QuestionNone
	}
	return q
}

// Ask enters the state that asks q and records q as the active question.
func (a *Attributes) Ask(q domain.Question) {
	if q == domain.QuestionNone {
		a.Reset()
		return
	}
	a.write(KeyDialogueState, domain.StateForQuestion(q))
	a.write(KeyActiveQuestion, q)
}

// Reset returns to DEFAULT and clears the active question.
func (a *Attributes) Reset() {
	a.write(KeyDialogueState, domain.StateDefault)
	a.kv.Delete(KeyActiveQuestion)
}

// Playback returns the stored playback session and whether one is present.
func (a *Attributes) Playback() (domain.PlaybackSession, bool) {
	var p domain.PlaybackSession
	if !a.read(KeyPlayback, &p) {
		return domain.PlaybackSession{}, false
	}
	return p, true
}

func (a *Attributes) SetPlayback(p domain.PlaybackSession) {
	a.write(KeyPlayback, p)
}

func (a *Attributes) ClearPlayback() {
	a.kv.Delete(KeyPlayback)
}

func (a *Attributes) HelpStreak() int {
	var n int
	if !a.read(KeyHelpStreak, &n) || n < 0 {
		return 0
	}
	return n
}

func (a *Attributes) SetHelpStreak(n int) {
	if n < 0 {
		n = 0
	}
	a.write(KeyHelpStreak, n)
}

func (a *Attributes) ReturningUser() bool {
	var b bool
	a.read(KeyReturningUser, &b)
	return b
}

func (a *Attributes) SetReturningUser(v bool) {
	a.write(KeyReturningUser, v)
}

// Progress assembles the user's progress from the bag.
func (a *Attributes) Progress() domain.UserProgress {
	p := domain.NewUserProgress()
	p.HelpRequestStreak = a.HelpStreak()
	p.ReturningUser = a.ReturningUser()

	var doc progressDoc
	if a.read(KeyProgress, &doc) {
		for k, v := range doc.Serial {
			p.LatestSerialFinished[k] = v
		}
		for k, v := range doc.Favorite {
			p.LatestFavoriteStarted[k] = v
		}
	}
	return p
}

// SetProgress writes every field of p back to the bag.
func (a *Attributes) SetProgress(p domain.UserProgress) {
	a.SetHelpStreak(p.HelpRequestStreak)
	a.SetReturningUser(p.ReturningUser)
	doc := progressDoc{Serial: p.LatestSerialFinished, Favorite: p.LatestFavoriteStarted}
	if doc.Serial == nil {
		doc.Serial = map[domain.ShowID]int{}
	}
	if doc.Favorite == nil {
		doc.Favorite = map[domain.ShowID]int{}
	}
	a.write(KeyProgress, doc)
}

// RecordSerialFinished stores index as the last finished episode of show.
func (a *Attributes) RecordSerialFinished(show domain.ShowID, index int) {
	p := a.Progress()
	p.LatestSerialFinished[show] = index
	a.SetProgress(p)
}

// RecordFavoriteStarted stores index as the last started favorite of show.
func (a *Attributes) RecordFavoriteStarted(show domain.ShowID, index int) {
	p := a.Progress()
	p.LatestFavoriteStarted[show] = index
	a.SetProgress(p)
}
