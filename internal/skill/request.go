// Package skill is the dialogue core of the podcast skill: a per-state
// routing table, a middleware chain around every handler, and the handlers
// that read and write the user's session attributes.
//
// The core does no locking of session attributes. The host must deliver at
// most one in-flight request per user.
package skill

import (
	"strings"

	"github.com/jorgej/gimlet-skill-sub000/internal/domain"
)

// RequestKind identifies the kind of inbound event.
type RequestKind string

const (
	KindLaunch       RequestKind = "LaunchRequest"
	KindIntent       RequestKind = "IntentRequest"
	KindSessionEnded RequestKind = "SessionEndedRequest"

	KindPlaybackStarted        RequestKind = "AudioPlayer.PlaybackStarted"
	KindPlaybackStopped        RequestKind = "AudioPlayer.PlaybackStopped"
	KindPlaybackNearlyFinished RequestKind = "AudioPlayer.PlaybackNearlyFinished"
	KindPlaybackFinished       RequestKind = "AudioPlayer.PlaybackFinished"
	KindPlaybackFailed         RequestKind = "AudioPlayer.PlaybackFailed"

	KindPlayCommand     RequestKind = "PlaybackController.PlayCommandIssued"
	KindPauseCommand    RequestKind = "PlaybackController.PauseCommandIssued"
	KindNextCommand     RequestKind = "PlaybackController.NextCommandIssued"
	KindPreviousCommand RequestKind = "PlaybackController.PreviousCommandIssued"
)

// Intent names.
const (
	IntentPlayLatest      = "PlayLatest"
	IntentPlayFavorite    = "PlayFavorite"
	IntentPlayExclusive   = "PlayExclusive"
	IntentShowTitle       = "ShowTitle"
	IntentExclusiveNumber = "ExclusiveNumber"
	IntentListShows       = "ListShows"
	IntentWhoIsMatt       = "WhoIsMatt"

	IntentHelp       = "AMAZON.HelpIntent"
	IntentStop       = "AMAZON.StopIntent"
	IntentCancel     = "AMAZON.CancelIntent"
	IntentPause      = "AMAZON.PauseIntent"
	IntentResume     = "AMAZON.ResumeIntent"
	IntentStartOver  = "AMAZON.StartOverIntent"
	IntentYes        = "AMAZON.YesIntent"
	IntentNo         = "AMAZON.NoIntent"
	IntentNext       = "AMAZON.NextIntent"
	IntentPrevious   = "AMAZON.PreviousIntent"
	IntentLoopOn     = "AMAZON.LoopOnIntent"
	IntentLoopOff    = "AMAZON.LoopOffIntent"
	IntentShuffleOn  = "AMAZON.ShuffleOnIntent"
	IntentShuffleOff = "AMAZON.ShuffleOffIntent"
	IntentRepeat     = "AMAZON.RepeatIntent"
)

// Slot names.
const (
	SlotShowTitle = "ShowTitle"
	SlotNumber    = "Number"
)

// Request is an inbound event reduced to what the dialogue core reads.
type Request struct {
	Kind   RequestKind
	Intent string
	Slots  map[string]string
	// Token and OffsetMillis are set on audio player events.
	Token        domain.ContentToken
	OffsetMillis int64

	UserID      string
	SessionID   string
	AccessToken string
	NewSession  bool
	// ErrorMessage is set on PlaybackFailed.
	ErrorMessage string
}

// Key is the routing key: the intent name for intent requests, the request
// kind otherwise.
func (r Request) Key() string {
	if r.Kind == KindIntent {
		return r.Intent
	}
	return string(r.Kind)
}

func (r Request) IsIntent() bool {
	return r.Kind == KindIntent
}

// Slot returns the trimmed value of a slot, "" when absent.
func (r Request) Slot(name string) string {
	return strings.TrimSpace(r.Slots[name])
}

// CanSpeak reports whether the platform renders speech for this kind of
// request. Audio player and playback controller events only accept
// directives.
func (r Request) CanSpeak() bool {
	k := string(r.Kind)
	return !strings.HasPrefix(k, "AudioPlayer.") && !strings.HasPrefix(k, "PlaybackController.")
}
