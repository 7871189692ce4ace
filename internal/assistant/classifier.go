// Package assistant implements the command pipeline core: classifying a
// free-text utterance into an intent and executing the intent's action.
package assistant

import (
	"strings"

	"github.com/vozlab/asistente-backend/internal/domain"
)

// Classify maps an utterance to an intent using ordered substring rules.
// The input is lowercased before matching; no other normalization is applied.
// Rules are evaluated first-match-wins, so overlapping phrases resolve by
// rule position: "busca en youtube la hora" is search_youtube, not clock.
func Classify(utterance string) domain.Intent {
	text := strings.ToLower(utterance)

	switch {
	case strings.Contains(text, "reproduce"):
		return domain.IntentPlay
	case strings.Contains(text, "busca en y"):
		return domain.IntentSearchYouTube
	case strings.Contains(text, "hora"):
		return domain.IntentClock
	case strings.Contains(text, "busca en") && !strings.Contains(text, "youtube"):
		return domain.IntentSearchWeb
	case strings.Contains(text, "dime") || strings.Contains(text, "qué es"):
		return domain.IntentLookupReference
	default:
		return domain.IntentUnknown
	}
}
