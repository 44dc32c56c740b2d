package domain

import "math"

// FinishedOffset marks a playback session whose track was played to the end.
// It is the largest offset so that comparisons treat it as +∞.
const FinishedOffset int64 = math.MaxInt64

// PlaybackSession is the single track the user is listening to, playing or
// paused. A finished session keeps its URL and token so "start over" can
// replay it without another catalog lookup.
type PlaybackSession struct {
	URL          string       `json:"url"`
	Token        ContentToken `json:"token"`
	OffsetMillis int64        `json:"offsetMillis"`
}

// NewPlaybackSession creates a session. Negative offsets are clamped to zero.
func NewPlaybackSession(url string, token ContentToken, offsetMillis int64) PlaybackSession {
	if offsetMillis < 0 {
		offsetMillis = 0
	}
	return PlaybackSession{URL: url, Token: token, OffsetMillis: offsetMillis}
}

// IsValid reports whether the session identifies a track.
func (p PlaybackSession) IsValid() bool {
	return p.URL != "" && p.Token.Valid()
}

// IsFinished reports whether the track was played to the end.
func (p PlaybackSession) IsFinished() bool {
	return p.OffsetMillis == FinishedOffset
}

// IsResumable reports whether playback can continue where it stopped.
func (p PlaybackSession) IsResumable() bool {
	return p.IsValid() && !p.IsFinished()
}

// MarkFinished returns the session marked as fully played. Calling it on an
// already finished session is a no-op.
func (p PlaybackSession) MarkFinished() PlaybackSession {
	p.OffsetMillis = FinishedOffset
	return p
}

// WithOffset returns the session positioned at ms. Passing FinishedOffset is
// equivalent to MarkFinished.
func (p PlaybackSession) WithOffset(ms int64) PlaybackSession {
	if ms < 0 {
		ms = 0
	}
	p.OffsetMillis = ms
	return p
}

// ResumeOffset is the offset to hand to the audio player. A finished session
// has nothing left to resume and reports ok=false.
func (p PlaybackSession) ResumeOffset() (int64, bool) {
	if !p.IsResumable() {
		return 0, false
	}
	return p.OffsetMillis, true
}
