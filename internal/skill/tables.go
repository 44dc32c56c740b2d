package skill

import "github.com/jorgej/gimlet-skill-sub000/internal/domain"

// withCommon registers the handlers every state shares: launch, session end,
// audio player events and playback controller commands.
func (s *Skill) withCommon(t *Table) *Table {
	return t.
		OnKind(KindLaunch, s.launch).
		OnKind(KindSessionEnded, s.sessionEnded).
		OnKind(KindPlaybackStarted, s.playbackStarted).
		OnKind(KindPlaybackStopped, s.playbackStopped).
		OnKind(KindPlaybackNearlyFinished, s.playbackNearlyFinished).
		OnKind(KindPlaybackFinished, s.playbackFinished).
		OnKind(KindPlaybackFailed, s.playbackFailed).
		OnKind(KindPlayCommand, s.playCommand).
		OnKind(KindPauseCommand, s.pauseCommand).
		OnKind(KindNextCommand, s.ignoreCommand).
		OnKind(KindPreviousCommand, s.ignoreCommand).
		On(IntentHelp, s.help).
		OnEach(s.stop, IntentStop, IntentCancel)
}

func (s *Skill) tables() []*Table {
	unsupported := []string{
		IntentNext, IntentPrevious, IntentLoopOn, IntentLoopOff,
		IntentShuffleOn, IntentShuffleOff, IntentRepeat,
	}

	def := s.withCommon(NewTable(domain.StateDefault)).
		On(IntentPlayLatest, s.playLatest).
		On(IntentShowTitle, s.playLatest).
		On(IntentPlayFavorite, s.playFavorite).
		On(IntentPlayExclusive, s.playExclusive).
		On(IntentListShows, s.listShows).
		On(IntentWhoIsMatt, s.whoIsMatt).
		On(IntentPause, s.pause).
		On(IntentResume, s.resume).
		On(IntentStartOver, s.startOver).
		OnEach(s.unsupported, unsupported...).
		Unhandled(s.unhandled)

	askForShow := s.withCommon(NewTable(domain.StateAskForShow)).
		On(IntentShowTitle, s.answerShowTitle).
		On(IntentPlayLatest, s.playLatest).
		On(IntentPlayFavorite, s.playFavorite).
		On(IntentListShows, s.listShows).
		Unhandled(s.unhandled)

	confirm := s.withCommon(NewTable(domain.StateQuestionConfirm)).
		OnEach(s.confirmResume, IntentYes, IntentResume).
		On(IntentNo, s.declineResume).
		On(IntentStartOver, s.startOver).
		On(IntentPlayLatest, s.playLatest).
		On(IntentPlayFavorite, s.playFavorite).
		Unhandled(s.unhandled)

	exclusive := s.withCommon(NewTable(domain.StateQuestionExclusiveNumber)).
		On(IntentExclusiveNumber, s.exclusiveNumber).
		Unhandled(s.unhandled)

	return []*Table{def, askForShow, confirm, exclusive}
}
