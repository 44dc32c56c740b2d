package domain

// Show is a catalog entry.
type Show struct {
	ID      ShowID
	Title   string
	Serial  bool
	Aliases []string
}

// Episode is a playable piece of audio resolved by the catalog.
type Episode struct {
	URL   string
	Title string
	// Intro is spoken before a favorite starts playing.
	Intro string
	// Index is the position the episode was selected from, when the
	// selection is positional (serial, favorite, exclusive).
	Index int
}
