// Package domain contains core domain types for the podcast skill.
package domain

// DialogueState is the step of a multi-turn conversation a session is in.
type DialogueState string

const (
	StateDefault                 DialogueState = "DEFAULT"
	StateAskForShow              DialogueState = "ASK_FOR_SHOW"
	StateQuestionConfirm         DialogueState = "QUESTION_CONFIRM"
	StateQuestionExclusiveNumber DialogueState = "QUESTION_EXCLUSIVE_NUMBER"
)

// DialogueStates lists every state in a fixed order.
var DialogueStates = []DialogueState{
	StateDefault,
	StateAskForShow,
	StateQuestionConfirm,
	StateQuestionExclusiveNumber,
}

// Valid reports whether s is a known dialogue state.
func (s DialogueState) Valid() bool {
	switch s {
	case StateDefault, StateAskForShow, StateQuestionConfirm, StateQuestionExclusiveNumber:
		return true
	}
	return false
}

// Question is the question currently posed to the user. The zero value means
// no question is active.
type Question string

const (
	QuestionNone                  Question = ""
	QuestionFavoriteShowTitle     Question = "FavoriteShowTitle"
	QuestionMostRecentShowTitle   Question = "MostRecentShowTitle"
	QuestionConfirmResumePlayback Question = "ConfirmResumePlayback"
	QuestionExclusiveNumber       Question = "ExclusiveNumber"
)

// Valid reports whether q is a known question or QuestionNone.
func (q Question) Valid() bool {
	switch q {
	case QuestionNone, QuestionFavoriteShowTitle, QuestionMostRecentShowTitle,
		QuestionConfirmResumePlayback, QuestionExclusiveNumber:
		return true
	}
	return false
}

// StateForQuestion returns the dialogue state a question is asked from.
func StateForQuestion(q Question) DialogueState {
	switch q {
	case QuestionFavoriteShowTitle, QuestionMostRecentShowTitle:
		return StateAskForShow
	case QuestionConfirmResumePlayback:
		return StateQuestionConfirm
	case QuestionExclusiveNumber:
		return StateQuestionExclusiveNumber
	default:
		return StateDefault
	}
}
