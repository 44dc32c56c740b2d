package domain

// UserProgress is the per-user listening state kept across conversations.
type UserProgress struct {
	HelpRequestStreak int
	ReturningUser     bool
	// LatestSerialFinished maps a serial show to the index of the last episode
	// played to the end.
	LatestSerialFinished map[ShowID]int
	// LatestFavoriteStarted maps a show to the index of the last favorite
	// that was started.
	LatestFavoriteStarted map[ShowID]int
}

// NewUserProgress returns empty progress with initialized maps.
func NewUserProgress() UserProgress {
	return UserProgress{
		LatestSerialFinished:  make(map[ShowID]int),
		LatestFavoriteStarted: make(map[ShowID]int),
	}
}

// NextSerialIndex is the serial episode to play after the last finished one.
func (u UserProgress) NextSerialIndex(show ShowID) int {
	last, ok := u.LatestSerialFinished[show]
	return nextIndex(last, ok)
}

// NextFavoriteIndex is the favorite to play after the last started one.
func (u UserProgress) NextFavoriteIndex(show ShowID) int {
	last, ok := u.LatestFavoriteStarted[show]
	return nextIndex(last, ok)
}

func nextIndex(last int, ok bool) int {
	if !ok || last < 0 {
		return 0
	}
	return last + 1
}

// WrapIndex folds index into [0, count). It returns -1 when count is zero.
func WrapIndex(index, count int) int {
	if count <= 0 {
		return -1
	}
	if index < 0 {
		return 0
	}
	return index % count
}
