package domain

import "testing"

func TestNextIndexWraps(t *testing.T) {
	t.Parallel()

	const n = 5
	p := NewUserProgress()
	if got := WrapIndex(p.NextSerialIndex("homecoming"), n); got != 0 {
		t.Fatalf("first serial index = %d, want 0", got)
	}

	p.LatestSerialFinished["homecoming"] = 2
	if got := WrapIndex(p.NextSerialIndex("homecoming"), n); got != 3 {
		t.Fatalf("next serial index = %d, want 3", got)
	}

	p.LatestSerialFinished["homecoming"] = n - 1
	if got := WrapIndex(p.NextSerialIndex("homecoming"), n); got != 0 {
		t.Fatalf("wrapped serial index = %d, want 0", got)
	}

	p.LatestFavoriteStarted["replyall"] = n - 1
	if got := WrapIndex(p.NextFavoriteIndex("replyall"), n); got != 0 {
		t.Fatalf("wrapped favorite index = %d, want 0", got)
	}
}

func TestWrapIndexEmpty(t *testing.T) {
	t.Parallel()

	if WrapIndex(3, 0) != -1 {
		t.Fatal("expected -1 for empty list")
	}
}

func TestStateForQuestion(t *testing.T) {
	t.Parallel()

	cases := map[Question]DialogueState{
		QuestionNone:                  StateDefault,
		QuestionFavoriteShowTitle:     StateAskForShow,
		QuestionMostRecentShowTitle:   StateAskForShow,
		QuestionConfirmResumePlayback: StateQuestionConfirm,
		QuestionExclusiveNumber:       StateQuestionExclusiveNumber,
	}
	for q, want := range cases {
		if got := StateForQuestion(q); got != want {
			t.Errorf("StateForQuestion(%q) = %q, want %q", q, got, want)
		}
	}
}
