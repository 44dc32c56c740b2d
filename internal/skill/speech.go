package skill

import (
	"fmt"
	"strings"

	"github.com/jorgej/gimlet-skill-sub000/internal/domain"
)

const (
	speechWelcomeNew = "Welcome to Gimlet. I can play the latest episode of any Gimlet show, " +
		"or one of our staff favorites. Which show would you like to hear?"
	speechWelcomeBack     = "Welcome back to Gimlet. Which show would you like to hear?"
	speechWelcomeReprompt = "You can say, play the latest Reply All, or play a favorite Heavyweight."

	speechResumePrompt   = "Last time you were listening to %s. Would you like to pick up where you left off?"
	speechResumeReprompt = "Would you like to resume? Please say yes or no."
	speechResumeDeclined = "Okay. Which show would you like to hear?"
	speechNothingToPlay  = "There's nothing to resume right now. Which show would you like to hear?"

	speechAskLatest   = "Which show would you like the latest episode of?"
	speechAskFavorite = "Which show would you like a staff favorite from?"
	speechUnknownShow = "Sorry, I don't know a show called %s."
	speechShowHint    = "You can pick from shows like %s."

	speechPlaying         = "Here's %s."
	speechPlayingFavorite = "Here's a favorite episode of %s, %s."
	speechNoEpisodes      = "Sorry, I couldn't find any episodes of %s right now."

	speechExclusivePrompt   = "Which exclusive would you like to hear? %s"
	speechExclusiveReprompt = "Please say a number between 1 and %d."
	speechNoExclusives      = "There aren't any exclusives available right now."
	speechLinkAccount       = "Exclusive content is for Gimlet members. " +
		"Please link your account in the Alexa app to continue."

	speechListShows = "Gimlet makes %s. Which one would you like to hear?"

	speechWhoIsMatt = "Matt Lieber is one of the founders of Gimlet Media."

	speechHelp1 = "You can ask me to play the latest episode of a show, or a staff favorite. " +
		"For example, say play the latest Reply All."
	speechHelp2 = "Try saying the name of a Gimlet show, like Startup, Homecoming or Heavyweight. " +
		"You can also say list shows to hear everything we make."
	speechHelp3 = "Here's everything I can do. Say play the latest, followed by a show name. " +
		"Say play a favorite, followed by a show name. Say play an exclusive if you're a member. " +
		"Say pause, resume or start over while an episode is playing. Or say stop to leave."

	speechUnhandled        = "Sorry, I didn't get that. You can say help to hear what I can do."
	speechUnhandledShow    = "Sorry, I didn't catch the show name."
	speechUnhandledConfirm = "Sorry, I didn't catch that."
	speechUnhandledNumber  = "Sorry, that isn't one of the exclusives."

	speechUnsupported = "Sorry, I can't do that with podcasts yet."
	speechApology     = "Sorry, something went wrong on our end. Please try again in a little while."
	speechGoodbye     = "Goodbye."
	speechStartOver   = "Starting %s from the beginning."
	speechResuming    = "Resuming %s."
)

// questionPrompt is the prompt that asks q, and "" for QuestionNone.
func questionPrompt(q domain.Question) string {
	switch q {
	case domain.QuestionFavoriteShowTitle:
		return speechAskFavorite
	case domain.QuestionMostRecentShowTitle:
		return speechAskLatest
	case domain.QuestionConfirmResumePlayback:
		return speechResumeReprompt
	case domain.QuestionExclusiveNumber:
		return "Which exclusive would you like to hear? Say its number."
	}
	return ""
}

// helpText escalates with the number of consecutive help requests.
func helpText(streak int) string {
	switch {
	case streak <= 1:
		return speechHelp1
	case streak == 2:
		return speechHelp2
	default:
		return speechHelp3
	}
}

// joinList renders items as "a", "a and b" or "a, b, and c".
func joinList(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	case 2:
		return items[0] + " and " + items[1]
	}
	return strings.Join(items[:len(items)-1], ", ") + ", and " + items[len(items)-1]
}

// numberedList renders titles as "Number 1, a. Number 2, b."
func numberedList(titles []string) string {
	parts := make([]string, len(titles))
	for i, t := range titles {
		parts[i] = fmt.Sprintf("Number %d, %s.", i+1, t)
	}
	return strings.Join(parts, " ")
}
