package domain

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestTokenRoundTrip(t *testing.T) {
	t.Parallel()

	tokens := []ContentToken{
		SerialToken("homecoming", 0),
		SerialToken("homecoming", 3),
		FavoriteToken("replyall", 12),
		LatestToken("startup"),
		ExclusiveToken(0),
		ExclusiveToken(4),
	}
	for _, want := range tokens {
		got := DecodeToken(EncodeToken(want))
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("round trip of %v mismatch (-want +got):\n%s", want, diff)
		}
	}
}

func TestSerialAndFavoriteTagsStayDistinct(t *testing.T) {
	t.Parallel()

	fav := DecodeToken(EncodeToken(FavoriteToken("replyall", 2)))
	if fav.Tag != TagFavorite {
		t.Fatalf("expected FAVORITE tag, got %q", fav.Tag)
	}
	if IsValidSerialToken(fav) {
		t.Fatal("favorite token must not validate as serial")
	}
	serial := DecodeToken(EncodeToken(SerialToken("replyall", 2)))
	if IsValidFavoriteToken(serial) {
		t.Fatal("serial token must not validate as favorite")
	}
}

func TestDecodeMalformedTokens(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"",
		"not json",
		`{"t":"SERIAL","s":"homecoming","i":3`,
		`[]`,
		`null`,
		`"SERIAL"`,
		`{}`,
		`{"s":"homecoming","i":3}`,
		`{"t":"BOGUS","s":"homecoming","i":3}`,
		`{"t":"SERIAL","s":"homecoming"}`,
		`{"t":"SERIAL","i":3}`,
		`{"t":"SERIAL","s":"","i":3}`,
		`{"t":"SERIAL","s":"homecoming","i":"3"}`,
		`{"t":"SERIAL","s":"homecoming","i":1.5}`,
		`{"t":"SERIAL","s":"homecoming","i":-1}`,
		`{"t":"FAVORITE","s":7,"i":3}`,
		`{"t":"LATEST","s":null}`,
		`{"t":"EXCLUSIVE"}`,
		`{"t":3}`,
	}
	for _, in := range inputs {
		got := DecodeToken(in)
		if got != InvalidToken {
			t.Errorf("DecodeToken(%q) = %+v, want invalid", in, got)
		}
		if IsValidSerialToken(got) || IsValidFavoriteToken(got) ||
			IsValidLatestToken(got) || IsValidExclusiveToken(got) || got.Valid() {
			t.Errorf("DecodeToken(%q) passed a validity predicate", in)
		}
	}
}

func TestPredicatesCheckFieldsNotJustTag(t *testing.T) {
	t.Parallel()

	if IsValidSerialToken(ContentToken{Tag: TagSerial, Index: 1}) {
		t.Error("serial without show should be invalid")
	}
	if IsValidLatestToken(ContentToken{Tag: TagLatest}) {
		t.Error("latest without show should be invalid")
	}
	if IsValidExclusiveToken(ContentToken{Tag: TagExclusive, Index: -2}) {
		t.Error("exclusive with negative index should be invalid")
	}
}

func TestShowIDMustBeValidUTF8(t *testing.T) {
	t.Parallel()

	bad := ShowID("reply\xffall")
	for _, tok := range []ContentToken{SerialToken(bad, 1), FavoriteToken(bad, 0), LatestToken(bad)} {
		if tok.Valid() {
			t.Errorf("%s token with invalid UTF-8 show id should be invalid", tok.Tag)
		}
		if got := EncodeToken(tok); got != "" {
			t.Errorf("%s token encoded to %q, want empty", tok.Tag, got)
		}
	}

	for _, want := range []ContentToken{SerialToken("caf\u00e9", 2), LatestToken("<b>&\u2028")} {
		if !want.Valid() {
			t.Fatalf("%+v should be valid", want)
		}
		if got := DecodeToken(EncodeToken(want)); got != want {
			t.Errorf("round trip of %+v gave %+v", want, got)
		}
	}
}

func TestEncodedTokenIsCompact(t *testing.T) {
	t.Parallel()

	got := EncodeToken(SerialToken("homecoming", 3))
	if got != `{"t":"SERIAL","s":"homecoming","i":3}` {
		t.Fatalf("unexpected encoding %s", got)
	}
	if EncodeToken(InvalidToken) != "" {
		t.Fatal("invalid token should encode to empty string")
	}
}

func TestTokenJSONField(t *testing.T) {
	t.Parallel()

	in := PlaybackSession{URL: "https://example.com/a.mp3", Token: LatestToken("startup"), OffsetMillis: 10}
	data, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var out PlaybackSession
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if diff := cmp.Diff(in, out); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}

	var broken PlaybackSession
	if err := json.Unmarshal([]byte(`{"url":"x","token":42}`), &broken); err != nil {
		t.Fatalf("malformed token field should not fail decoding: %v", err)
	}
	if broken.Token.Valid() {
		t.Fatal("expected invalid token")
	}
}
