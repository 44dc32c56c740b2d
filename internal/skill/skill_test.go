package skill

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/jorgej/gimlet-skill-sub000/internal/catalog"
	"github.com/jorgej/gimlet-skill-sub000/internal/domain"
	"github.com/jorgej/gimlet-skill-sub000/internal/session"
)

type fakeCatalog struct {
	shows      map[domain.ShowID]domain.Show
	episodes   map[domain.ShowID][]domain.Episode
	favorites  map[domain.ShowID][]domain.Episode
	exclusives []domain.Episode
	clips      []string
	fetchErr   error
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		shows: map[domain.ShowID]domain.Show{
			"replyall":   {ID: "replyall", Title: "Reply All"},
			"homecoming": {ID: "homecoming", Title: "Homecoming", Serial: true},
			"startup":    {ID: "startup", Title: "StartUp"},
		},
		episodes: map[domain.ShowID][]domain.Episode{
			"replyall": {{URL: "https://example.com/ra/1.mp3", Title: "The Case of the Missing Hit"}},
			"homecoming": {
				{URL: "https://example.com/hc/0.mp3", Title: "Mandatory Fun"},
				{URL: "https://example.com/hc/1.mp3", Title: "Pineapple"},
				{URL: "https://example.com/hc/2.mp3", Title: "Stop"},
			},
		},
		favorites: map[domain.ShowID][]domain.Episode{
			"replyall": {
				{URL: "https://example.com/ra/fav0.mp3", Title: "Boy in Photo", Intro: "Here's Boy in Photo."},
				{URL: "https://example.com/ra/fav1.mp3", Title: "Long Distance"},
			},
		},
		exclusives: []domain.Episode{
			{URL: "https://example.com/ex/0.mp3", Title: "Behind the scenes"},
			{URL: "https://example.com/ex/1.mp3", Title: "Bonus interview"},
		},
		clips: []string{"https://example.com/clips/matt.mp3"},
	}
}

func (f *fakeCatalog) ResolveShowID(utterance string) (domain.ShowID, bool) {
	key := strings.ReplaceAll(strings.ToLower(utterance), " ", "")
	if _, ok := f.shows[domain.ShowID(key)]; ok {
		return domain.ShowID(key), true
	}
	return "", false
}

func (f *fakeCatalog) IsSerial(id domain.ShowID) bool { return f.shows[id].Serial }
func (f *fakeCatalog) Title(id domain.ShowID) string { return f.shows[id].Title }

func (f *fakeCatalog) Shows() []domain.Show {
	return []domain.Show{f.shows["replyall"], f.shows["homecoming"], f.shows["startup"]}
}

func (f *fakeCatalog) FetchLatestEpisode(_ context.Context, id domain.ShowID) (domain.Episode, error) {
	if f.fetchErr != nil {
		return domain.Episode{}, f.fetchErr
	}
	eps := f.episodes[id]
	if len(eps) == 0 {
		return domain.Episode{}, catalog.ErrEpisodeNotFound
	}
	ep := eps[len(eps)-1]
	ep.Index = len(eps) - 1
	return ep, nil
}

func (f *fakeCatalog) FetchSerialEpisode(_ context.Context, id domain.ShowID, index int) (domain.Episode, error) {
	if f.fetchErr != nil {
		return domain.Episode{}, f.fetchErr
	}
	eps := f.episodes[id]
	if index < 0 || index >= len(eps) {
		return domain.Episode{}, &catalog.RangeError{Show: id, Index: index, Count: len(eps)}
	}
	ep := eps[index]
	ep.Index = index
	return ep, nil
}

func (f *fakeCatalog) FetchFavoriteEpisode(_ context.Context, id domain.ShowID, index int) (domain.Episode, error) {
	favs := f.favorites[id]
	if index < 0 || index >= len(favs) {
		return domain.Episode{}, &catalog.RangeError{Show: id, Index: index, Count: len(favs)}
	}
	ep := favs[index]
	ep.Index = index
	return ep, nil
}

func (f *fakeCatalog) Exclusives(context.Context) ([]domain.Episode, error) {
	return f.exclusives, nil
}

func (f *fakeCatalog) MiscClips(context.Context) ([]string, error) {
	return f.clips, nil
}

type fakeAuth struct {
	linked bool
	err    error
}

func (a fakeAuth) IsAuthenticated(context.Context, string) (bool, error) {
	return a.linked, a.err
}

func newTestSkill(t *testing.T, cat *fakeCatalog, auth Authenticator) *Skill {
	t.Helper()
	if auth == nil {
		auth = fakeAuth{}
	}
	s, err := New(cat, auth, WithPicker(func(int) int { return 0 }))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func intent(name string, slots map[string]string) Request {
	return Request{Kind: KindIntent, Intent: name, Slots: slots, UserID: "user-1"}
}

func handle(t *testing.T, s *Skill, req Request, bag session.Bag) Response {
	t.Helper()
	resp, err := s.Handle(context.Background(), req, bag)
	if err != nil {
		t.Fatalf("Handle(%s): %v", req.Key(), err)
	}
	return resp
}

func TestPlayFavoriteWithoutShowAsks(t *testing.T) {
	t.Parallel()

	s := newTestSkill(t, newFakeCatalog(), nil)
	bag := session.NewBag()
	resp := handle(t, s, intent(IntentPlayFavorite, nil), bag)

	attrs := session.NewAttributes(bag)
	if got := attrs.State(); got != domain.StateAskForShow {
		t.Fatalf("expected %s, got %s", domain.StateAskForShow, got)
	}
	if got := attrs.Question(); got != domain.QuestionFavoriteShowTitle {
		t.Fatalf("expected %s, got %s", domain.QuestionFavoriteShowTitle, got)
	}
	if !strings.Contains(resp.Speech, escapeSSML(speechAskFavorite)) {
		t.Fatalf("expected favorite prompt, got %q", resp.Speech)
	}
	if len(resp.PlayDirectives()) != 0 {
		t.Fatalf("expected no play directive, got %+v", resp.Directives)
	}
	if resp.ShouldEndSession {
		t.Fatal("expected session to stay open")
	}
}

func TestAskForShowResolvesToFavorite(t *testing.T) {
	t.Parallel()

	s := newTestSkill(t, newFakeCatalog(), nil)
	bag := session.NewBag()
	handle(t, s, intent(IntentPlayFavorite, nil), bag)

	resp := handle(t, s, intent(IntentShowTitle, map[string]string{SlotShowTitle: "Reply All"}), bag)

	attrs := session.NewAttributes(bag)
	if got := attrs.State(); got != domain.StateDefault {
		t.Fatalf("expected DEFAULT, got %s", got)
	}
	if got := attrs.Question(); got != domain.QuestionNone {
		t.Fatalf("expected no question, got %s", got)
	}
	plays := resp.PlayDirectives()
	if len(plays) != 1 {
		t.Fatalf("expected one play directive, got %d", len(plays))
	}
	want := domain.FavoriteToken("replyall", 0)
	if diff := cmp.Diff(want, plays[0].Token); diff != "" {
		t.Fatalf("token mismatch (-want +got):\n%s", diff)
	}
	if plays[0].Behavior != BehaviorReplaceAll || plays[0].OffsetMillis != 0 {
		t.Fatalf("unexpected directive %+v", plays[0])
	}
	if got := attrs.Progress().LatestFavoriteStarted["replyall"]; got != 0 {
		t.Fatalf("expected favorite 0 recorded, got %d", got)
	}
	pb, ok := attrs.Playback()
	if !ok || pb.Token != want || pb.URL != "https://example.com/ra/fav0.mp3" {
		t.Fatalf("unexpected playback session %+v", pb)
	}
}

func TestAskForShowUnresolvedReprompts(t *testing.T) {
	t.Parallel()

	s := newTestSkill(t, newFakeCatalog(), nil)
	bag := session.NewBag()
	handle(t, s, intent(IntentPlayLatest, nil), bag)

	resp := handle(t, s, intent(IntentShowTitle, map[string]string{SlotShowTitle: "serial"}), bag)

	attrs := session.NewAttributes(bag)
	if attrs.State() != domain.StateAskForShow || attrs.Question() != domain.QuestionMostRecentShowTitle {
		t.Fatalf("expected question to stay open, got %s/%s", attrs.State(), attrs.Question())
	}
	if len(resp.PlayDirectives()) != 0 || resp.ShouldEndSession {
		t.Fatalf("expected reprompt, got %+v", resp)
	}
}

func TestPlaybackFinishedRecordsSerialProgress(t *testing.T) {
	t.Parallel()

	s := newTestSkill(t, newFakeCatalog(), nil)
	bag := session.NewBag()
	token := domain.SerialToken("homecoming", 3)
	resp := handle(t, s, Request{Kind: KindPlaybackFinished, Token: token, OffsetMillis: 1000}, bag)

	if got := session.NewAttributes(bag).Progress().LatestSerialFinished["homecoming"]; got != 3 {
		t.Fatalf("expected 3, got %d", got)
	}
	if resp.Speech != "" || resp.Card != nil || !resp.Empty {
		t.Fatalf("expected silent acknowledgement, got %+v", resp)
	}
	if !resp.PersistSession {
		t.Fatal("expected progress to be persisted")
	}
}

func TestPlaybackFinishedMarksSession(t *testing.T) {
	t.Parallel()

	s := newTestSkill(t, newFakeCatalog(), nil)
	bag := session.NewBag()
	attrs := session.NewAttributes(bag)
	token := domain.LatestToken("replyall")
	attrs.SetPlayback(domain.NewPlaybackSession("https://example.com/ra/1.mp3", token, 500))

	handle(t, s, Request{Kind: KindPlaybackFinished, Token: token}, bag)

	pb, _ := attrs.Playback()
	if !pb.IsFinished() || pb.URL == "" {
		t.Fatalf("expected finished session with identity, got %+v", pb)
	}
	if len(attrs.Progress().LatestSerialFinished) != 0 {
		t.Fatal("latest token must not record serial progress")
	}
}

func TestHelpStreak(t *testing.T) {
	t.Parallel()

	s := newTestSkill(t, newFakeCatalog(), nil)
	bag := session.NewBag()
	attrs := session.NewAttributes(bag)

	steps := []struct {
		req  Request
		want int
	}{
		{intent(IntentHelp, nil), 1},
		{intent(IntentHelp, nil), 2},
		{intent(IntentListShows, nil), 0},
		{intent(IntentHelp, nil), 1},
	}
	for i, step := range steps {
		handle(t, s, step.req, bag)
		if got := attrs.HelpStreak(); got != step.want {
			t.Fatalf("step %d: expected streak %d, got %d", i, step.want, got)
		}
	}

	handle(t, s, Request{Kind: KindPlaybackStarted, Token: domain.LatestToken("replyall")}, bag)
	if got := attrs.HelpStreak(); got != 1 {
		t.Fatalf("audio events must not touch the streak, got %d", got)
	}
}

func TestHelpStreakResetsWhenOtherIntentFails(t *testing.T) {
	t.Parallel()

	cat := newFakeCatalog()
	s := newTestSkill(t, cat, nil)
	bag := session.NewBag()
	attrs := session.NewAttributes(bag)

	handle(t, s, intent(IntentHelp, nil), bag)
	handle(t, s, intent(IntentHelp, nil), bag)

	cat.fetchErr = errors.New("feed host down")
	resp := handle(t, s, intent(IntentPlayLatest, map[string]string{SlotShowTitle: "reply all"}), bag)
	if !strings.Contains(resp.Speech, "something went wrong") {
		t.Fatalf("expected apology, got %q", resp.Speech)
	}
	if got := attrs.HelpStreak(); got != 0 {
		t.Fatalf("failed intent must reset the streak, got %d", got)
	}

	cat.fetchErr = nil
	resp = handle(t, s, intent(IntentHelp, nil), bag)
	if got := attrs.HelpStreak(); got != 1 {
		t.Fatalf("expected streak 1 after next help, got %d", got)
	}
	if resp.Speech != escapeSSML(helpText(1)) {
		t.Fatalf("expected first-level help, got %q", resp.Speech)
	}
}

func TestHelpTextEscalates(t *testing.T) {
	t.Parallel()

	s := newTestSkill(t, newFakeCatalog(), nil)
	bag := session.NewBag()
	var speeches []string
	for range 4 {
		speeches = append(speeches, handle(t, s, intent(IntentHelp, nil), bag).Speech)
	}
	if speeches[0] == speeches[1] || speeches[1] == speeches[2] || speeches[0] == speeches[2] {
		t.Fatalf("expected distinct help levels, got %q", speeches[:3])
	}
	if speeches[2] != speeches[3] {
		t.Fatal("expected level 3 help from the third request on")
	}
}

func TestSerialWrapsAfterLastEpisode(t *testing.T) {
	t.Parallel()

	s := newTestSkill(t, newFakeCatalog(), nil)
	bag := session.NewBag()
	session.NewAttributes(bag).RecordSerialFinished("homecoming", 2)

	resp := handle(t, s, intent(IntentPlayLatest, map[string]string{SlotShowTitle: "homecoming"}), bag)
	plays := resp.PlayDirectives()
	if len(plays) != 1 {
		t.Fatalf("expected one play directive, got %d", len(plays))
	}
	if diff := cmp.Diff(domain.SerialToken("homecoming", 0), plays[0].Token); diff != "" {
		t.Fatalf("token mismatch (-want +got):\n%s", diff)
	}
}

func TestSerialNextEpisode(t *testing.T) {
	t.Parallel()

	s := newTestSkill(t, newFakeCatalog(), nil)
	bag := session.NewBag()
	session.NewAttributes(bag).RecordSerialFinished("homecoming", 0)

	resp := handle(t, s, intent(IntentShowTitle, map[string]string{SlotShowTitle: "homecoming"}), bag)
	plays := resp.PlayDirectives()
	if len(plays) != 1 || plays[0].Token != domain.SerialToken("homecoming", 1) {
		t.Fatalf("unexpected directives %+v", resp.Directives)
	}
	if plays[0].URL != "https://example.com/hc/1.mp3" {
		t.Fatalf("unexpected url %q", plays[0].URL)
	}
}

func TestFavoriteWraps(t *testing.T) {
	t.Parallel()

	s := newTestSkill(t, newFakeCatalog(), nil)
	bag := session.NewBag()
	attrs := session.NewAttributes(bag)
	attrs.RecordFavoriteStarted("replyall", 1)

	resp := handle(t, s, intent(IntentPlayFavorite, map[string]string{SlotShowTitle: "reply all"}), bag)
	plays := resp.PlayDirectives()
	if len(plays) != 1 || plays[0].Token != domain.FavoriteToken("replyall", 0) {
		t.Fatalf("unexpected directives %+v", resp.Directives)
	}
	if got := attrs.Progress().LatestFavoriteStarted["replyall"]; got != 0 {
		t.Fatalf("expected started index 0, got %d", got)
	}
}

func TestUpstreamFailureApologizes(t *testing.T) {
	t.Parallel()

	cat := newFakeCatalog()
	cat.fetchErr = fmt.Errorf("%w: feed host returned 502", catalog.ErrUpstream)
	s := newTestSkill(t, cat, nil)
	bag := session.NewBag()
	attrs := session.NewAttributes(bag)
	attrs.Ask(domain.QuestionMostRecentShowTitle)
	attrs.SetHelpStreak(2)
	want := bag.Clone()
	session.NewAttributes(want).SetHelpStreak(0)

	resp := handle(t, s, intent(IntentShowTitle, map[string]string{SlotShowTitle: "replyall"}), bag)

	if resp.Speech != escapeSSML(speechApology) {
		t.Fatalf("expected apology, got %q", resp.Speech)
	}
	if len(resp.Directives) != 0 {
		t.Fatalf("expected no directives, got %+v", resp.Directives)
	}
	if diff := cmp.Diff(want, bag); diff != "" {
		t.Fatalf("bag changed beyond the streak reset (-want +got):\n%s", diff)
	}
}

func TestLaunchOffersResume(t *testing.T) {
	t.Parallel()

	s := newTestSkill(t, newFakeCatalog(), nil)
	bag := session.NewBag()
	attrs := session.NewAttributes(bag)
	token := domain.LatestToken("replyall")
	attrs.SetPlayback(domain.NewPlaybackSession("https://example.com/ra/1.mp3", token, 42000))

	handle(t, s, Request{Kind: KindLaunch, NewSession: true}, bag)
	if attrs.State() != domain.StateQuestionConfirm || attrs.Question() != domain.QuestionConfirmResumePlayback {
		t.Fatalf("expected resume question, got %s/%s", attrs.State(), attrs.Question())
	}

	resp := handle(t, s, intent(IntentYes, nil), bag)
	if attrs.State() != domain.StateDefault {
		t.Fatalf("expected DEFAULT, got %s", attrs.State())
	}
	plays := resp.PlayDirectives()
	if len(plays) != 1 || plays[0].OffsetMillis != 42000 || plays[0].Token != token {
		t.Fatalf("unexpected resume directives %+v", resp.Directives)
	}
}

func TestDeclineResumeDiscardsSession(t *testing.T) {
	t.Parallel()

	s := newTestSkill(t, newFakeCatalog(), nil)
	bag := session.NewBag()
	attrs := session.NewAttributes(bag)
	attrs.SetPlayback(domain.NewPlaybackSession("https://example.com/ra/1.mp3", domain.LatestToken("replyall"), 1))

	handle(t, s, Request{Kind: KindLaunch}, bag)
	handle(t, s, intent(IntentNo, nil), bag)

	if _, ok := attrs.Playback(); ok {
		t.Fatal("expected playback session to be discarded")
	}
	if attrs.State() != domain.StateDefault {
		t.Fatalf("expected DEFAULT, got %s", attrs.State())
	}
}

func TestLaunchGreetsReturningUsers(t *testing.T) {
	t.Parallel()

	s := newTestSkill(t, newFakeCatalog(), nil)
	bag := session.NewBag()
	first := handle(t, s, Request{Kind: KindLaunch}, bag)
	second := handle(t, s, Request{Kind: KindLaunch}, bag)
	if first.Speech == second.Speech {
		t.Fatal("expected a different greeting for returning users")
	}
	if !session.NewAttributes(bag).ReturningUser() {
		t.Fatal("expected user to be marked returning")
	}
}

func TestLaunchDoesNotOfferFinishedTrack(t *testing.T) {
	t.Parallel()

	s := newTestSkill(t, newFakeCatalog(), nil)
	bag := session.NewBag()
	attrs := session.NewAttributes(bag)
	pb := domain.NewPlaybackSession("https://example.com/ra/1.mp3", domain.LatestToken("replyall"), 0).MarkFinished()
	attrs.SetPlayback(pb)

	handle(t, s, Request{Kind: KindLaunch}, bag)
	if attrs.State() != domain.StateDefault {
		t.Fatalf("expected DEFAULT, got %s", attrs.State())
	}

	resp := handle(t, s, intent(IntentStartOver, nil), bag)
	plays := resp.PlayDirectives()
	if len(plays) != 1 || plays[0].OffsetMillis != 0 {
		t.Fatalf("expected restart from 0, got %+v", resp.Directives)
	}
	got, _ := attrs.Playback()
	if got.IsFinished() {
		t.Fatal("expected session to be unfinished after start over")
	}
}

func TestSessionEndedResetsState(t *testing.T) {
	t.Parallel()

	s := newTestSkill(t, newFakeCatalog(), nil)
	for _, q := range []domain.Question{
		domain.QuestionFavoriteShowTitle,
		domain.QuestionConfirmResumePlayback,
		domain.QuestionExclusiveNumber,
	} {
		bag := session.NewBag()
		attrs := session.NewAttributes(bag)
		attrs.Ask(q)

		resp := handle(t, s, Request{Kind: KindSessionEnded}, bag)
		if attrs.State() != domain.StateDefault || attrs.Question() != domain.QuestionNone {
			t.Fatalf("%s: expected reset, got %s/%s", q, attrs.State(), attrs.Question())
		}
		if !resp.Empty || resp.Speech != "" || !resp.PersistSession {
			t.Fatalf("%s: unexpected response %+v", q, resp)
		}
	}
}

func TestExclusiveRequiresLinkedAccount(t *testing.T) {
	t.Parallel()

	s := newTestSkill(t, newFakeCatalog(), fakeAuth{linked: false})
	bag := session.NewBag()
	resp := handle(t, s, intent(IntentPlayExclusive, nil), bag)
	if resp.Card == nil || resp.Card.Type != CardLinkAccount {
		t.Fatalf("expected link account card, got %+v", resp.Card)
	}
	if session.NewAttributes(bag).State() != domain.StateDefault {
		t.Fatal("expected DEFAULT")
	}
}

func TestExclusiveNumberRechecksAccountLink(t *testing.T) {
	t.Parallel()

	s := newTestSkill(t, newFakeCatalog(), fakeAuth{linked: false})
	bag := session.NewBag()
	attrs := session.NewAttributes(bag)
	attrs.Ask(domain.QuestionExclusiveNumber)

	resp := handle(t, s, intent(IntentExclusiveNumber, map[string]string{SlotNumber: "1"}), bag)
	if len(resp.PlayDirectives()) != 0 {
		t.Fatalf("unlinked account must not play exclusives, got %+v", resp.Directives)
	}
	if resp.Card == nil || resp.Card.Type != CardLinkAccount {
		t.Fatalf("expected link account card, got %+v", resp.Card)
	}
	if attrs.State() != domain.StateDefault {
		t.Fatalf("expected DEFAULT, got %s", attrs.State())
	}
	if _, ok := attrs.Playback(); ok {
		t.Fatal("expected no playback session")
	}
}

func TestExclusiveNumberFlow(t *testing.T) {
	t.Parallel()

	s := newTestSkill(t, newFakeCatalog(), fakeAuth{linked: true})
	bag := session.NewBag()
	attrs := session.NewAttributes(bag)

	resp := handle(t, s, intent(IntentPlayExclusive, nil), bag)
	if attrs.State() != domain.StateQuestionExclusiveNumber {
		t.Fatalf("expected exclusive number state, got %s", attrs.State())
	}
	if !strings.Contains(resp.Speech, "Number 2, Bonus interview.") {
		t.Fatalf("expected numbered list, got %q", resp.Speech)
	}

	resp = handle(t, s, intent(IntentExclusiveNumber, map[string]string{SlotNumber: "7"}), bag)
	if attrs.State() != domain.StateQuestionExclusiveNumber || len(resp.PlayDirectives()) != 0 {
		t.Fatalf("out of range number must keep the question open, got %s", attrs.State())
	}
	if !strings.Contains(resp.Speech, "between 1 and 2") {
		t.Fatalf("expected number reprompt, got %q", resp.Speech)
	}

	resp = handle(t, s, intent(IntentExclusiveNumber, map[string]string{SlotNumber: "2"}), bag)
	plays := resp.PlayDirectives()
	if len(plays) != 1 || plays[0].Token != domain.ExclusiveToken(1) {
		t.Fatalf("unexpected directives %+v", resp.Directives)
	}
	if attrs.State() != domain.StateDefault {
		t.Fatalf("expected DEFAULT, got %s", attrs.State())
	}
}

func TestAuthFailureApologizes(t *testing.T) {
	t.Parallel()

	s := newTestSkill(t, newFakeCatalog(), fakeAuth{err: errors.New("connection refused")})
	resp := handle(t, s, intent(IntentPlayExclusive, nil), session.NewBag())
	if resp.Speech != escapeSSML(speechApology) {
		t.Fatalf("expected apology, got %q", resp.Speech)
	}
}

func TestUnhandledDistinguishesQuestion(t *testing.T) {
	t.Parallel()

	s := newTestSkill(t, newFakeCatalog(), nil)

	generic := handle(t, s, intent("SomethingElse", nil), session.NewBag())
	if generic.Speech != escapeSSML(speechUnhandled) {
		t.Fatalf("expected generic fallback, got %q", generic.Speech)
	}

	bag := session.NewBag()
	session.NewAttributes(bag).Ask(domain.QuestionFavoriteShowTitle)
	asked := handle(t, s, intent("SomethingElse", nil), bag)
	if !strings.Contains(asked.Speech, escapeSSML(speechAskFavorite)) {
		t.Fatalf("expected question reprompt, got %q", asked.Speech)
	}
}

func TestPlaybackStoppedUpdatesOffset(t *testing.T) {
	t.Parallel()

	s := newTestSkill(t, newFakeCatalog(), nil)
	bag := session.NewBag()
	attrs := session.NewAttributes(bag)
	token := domain.LatestToken("replyall")
	attrs.SetPlayback(domain.NewPlaybackSession("https://example.com/ra/1.mp3", token, 0))

	handle(t, s, Request{Kind: KindPlaybackStopped, Token: token, OffsetMillis: 90000}, bag)
	pb, _ := attrs.Playback()
	if pb.OffsetMillis != 90000 {
		t.Fatalf("expected offset 90000, got %d", pb.OffsetMillis)
	}

	handle(t, s, Request{Kind: KindPlaybackStopped, Token: domain.InvalidToken, OffsetMillis: 5}, bag)
	pb, _ = attrs.Playback()
	if pb.OffsetMillis != 90000 {
		t.Fatalf("invalid token must not update the session, got %d", pb.OffsetMillis)
	}
}

func TestAudioEventsNeverSpeak(t *testing.T) {
	t.Parallel()

	s := newTestSkill(t, newFakeCatalog(), nil)
	kinds := []RequestKind{
		KindPlaybackStarted, KindPlaybackStopped, KindPlaybackNearlyFinished,
		KindPlaybackFinished, KindPlaybackFailed,
		KindPlayCommand, KindPauseCommand, KindNextCommand, KindPreviousCommand,
	}
	for _, state := range domain.DialogueStates {
		for _, k := range kinds {
			bag := session.NewBag()
			attrs := session.NewAttributes(bag)
			if q := questionFor(state); q != domain.QuestionNone {
				attrs.Ask(q)
			}
			resp := handle(t, s, Request{Kind: k, Token: domain.LatestToken("replyall")}, bag)
			if resp.Speech != "" || !resp.Empty {
				t.Fatalf("%s in %s: expected silent response, got %+v", k, state, resp)
			}
		}
	}
}

func TestWhoIsMattPlaysClip(t *testing.T) {
	t.Parallel()

	s := newTestSkill(t, newFakeCatalog(), nil)
	resp := handle(t, s, intent(IntentWhoIsMatt, nil), session.NewBag())
	if resp.Speech != `<audio src="https://example.com/clips/matt.mp3"/>` {
		t.Fatalf("unexpected speech %q", resp.Speech)
	}
}

func TestUnsupportedIntents(t *testing.T) {
	t.Parallel()

	s := newTestSkill(t, newFakeCatalog(), nil)
	for _, name := range []string{IntentShuffleOn, IntentLoopOn, IntentNext} {
		resp := handle(t, s, intent(name, nil), session.NewBag())
		if resp.Speech != escapeSSML(speechUnsupported) {
			t.Fatalf("%s: unexpected speech %q", name, resp.Speech)
		}
	}
}

func questionFor(state domain.DialogueState) domain.Question {
	switch state {
	case domain.StateAskForShow:
		return domain.QuestionMostRecentShowTitle
	case domain.StateQuestionConfirm:
		return domain.QuestionConfirmResumePlayback
	case domain.StateQuestionExclusiveNumber:
		return domain.QuestionExclusiveNumber
	}
	return domain.QuestionNone
}
