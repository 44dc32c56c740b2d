package domain

import (
	"bytes"
	"encoding/json"
	"unicode/utf8"
)

// TokenTag identifies the variant of a ContentToken.
type TokenTag string

const (
	TagInvalid   TokenTag = ""
	TagSerial    TokenTag = "SERIAL"
	TagFavorite  TokenTag = "FAVORITE"
	TagLatest    TokenTag = "LATEST"
	TagExclusive TokenTag = "EXCLUSIVE"
)

// ShowID identifies a show in the catalog, e.g. "replyall".
type ShowID string

// ContentToken records why a piece of audio is playing, independent of its URL.
// It is handed to the audio subsystem as an opaque string and echoed back on
// playback lifecycle events.
//
// Index is meaningful for SERIAL, FAVORITE and EXCLUSIVE; ShowID for SERIAL,
// FAVORITE and LATEST. The zero value is the Invalid token.
type ContentToken struct {
	Tag    TokenTag
	ShowID ShowID
	Index  int
}

// InvalidToken is returned by DecodeToken for anything it cannot read.
var InvalidToken = ContentToken{}

func SerialToken(show ShowID, index int) ContentToken {
	return ContentToken{Tag: TagSerial, ShowID: show, Index: index}
}

func FavoriteToken(show ShowID, index int) ContentToken {
	return ContentToken{Tag: TagFavorite, ShowID: show, Index: index}
}

func LatestToken(show ShowID) ContentToken {
	return ContentToken{Tag: TagLatest, ShowID: show}
}

func ExclusiveToken(index int) ContentToken {
	return ContentToken{Tag: TagExclusive, Index: index}
}

// wireToken is the serialized form. Keys are kept short because the audio
// subsystem limits the token length.
type wireToken struct {
	Tag    TokenTag `json:"t"`
	ShowID *string  `json:"s,omitempty"`
	Index  *int     `json:"i,omitempty"`
}

// EncodeToken serializes t. Fields irrelevant to the tag are omitted. Tokens
// that are not Valid encode to "".
func EncodeToken(t ContentToken) string {
	if !t.Valid() {
		return ""
	}
	w := wireToken{Tag: t.Tag}
	switch t.Tag {
	case TagSerial, TagFavorite:
		show, idx := string(t.ShowID), t.Index
		w.ShowID, w.Index = &show, &idx
	case TagLatest:
		show := string(t.ShowID)
		w.ShowID = &show
	case TagExclusive:
		idx := t.Index
		w.Index = &idx
	default:
		return ""
	}
	data, err := json.Marshal(w)
	if err != nil {
		return ""
	}
	return string(data)
}

// DecodeToken parses a token produced by EncodeToken. It never fails: absent,
// truncated, stale or otherwise malformed input yields InvalidToken.
func DecodeToken(s string) ContentToken {
	if s == "" {
		return InvalidToken
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal([]byte(s), &raw); err != nil {
		return InvalidToken
	}

	var tag TokenTag
	if !decodeField(raw, "t", &tag) {
		return InvalidToken
	}

	var show string
	var idx int
	hasShow := decodeField(raw, "s", &show) && show != ""
	hasIndex := decodeField(raw, "i", &idx) && idx >= 0

	switch tag {
	case TagSerial, TagFavorite:
		if !hasShow || !hasIndex {
			return InvalidToken
		}
		return ContentToken{Tag: tag, ShowID: ShowID(show), Index: idx}
	case TagLatest:
		if !hasShow {
			return InvalidToken
		}
		return LatestToken(ShowID(show))
	case TagExclusive:
		if !hasIndex {
			return InvalidToken
		}
		return ExclusiveToken(idx)
	default:
		return InvalidToken
	}
}

// decodeField unmarshals raw[key] into dst and reports success. JSON null and
// type mismatches (e.g. "3" for an int, 1.5 for an int) count as failure.
func decodeField(raw map[string]json.RawMessage, key string, dst any) bool {
	v, ok := raw[key]
	if !ok || bytes.Equal(bytes.TrimSpace(v), []byte("null")) {
		return false
	}
	return json.Unmarshal(v, dst) == nil
}

// String returns the encoded token.
func (t ContentToken) String() string {
	return EncodeToken(t)
}

// Valid reports whether t is a well-formed token of any variant.
func (t ContentToken) Valid() bool {
	return IsValidSerialToken(t) || IsValidFavoriteToken(t) ||
		IsValidLatestToken(t) || IsValidExclusiveToken(t)
}

func IsValidSerialToken(t ContentToken) bool {
	return t.Tag == TagSerial && validShowID(t.ShowID) && t.Index >= 0
}

func IsValidFavoriteToken(t ContentToken) bool {
	return t.Tag == TagFavorite && validShowID(t.ShowID) && t.Index >= 0
}

func IsValidLatestToken(t ContentToken) bool {
	return t.Tag == TagLatest && validShowID(t.ShowID)
}

func IsValidExclusiveToken(t ContentToken) bool {
	return t.Tag == TagExclusive && t.Index >= 0
}

// validShowID rejects empty ids and ids that would not survive JSON
// encoding unchanged.
func validShowID(id ShowID) bool {
	return id != "" && utf8.ValidString(string(id))
}

// MarshalJSON stores the token in its encoded string form.
func (t ContentToken) MarshalJSON() ([]byte, error) {
	return json.Marshal(EncodeToken(t))
}

// UnmarshalJSON reads the encoded string form. Anything unreadable becomes
// InvalidToken rather than an error.
func (t *ContentToken) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		*t = InvalidToken
		return nil
	}
	*t = DecodeToken(s)
	return nil
}
