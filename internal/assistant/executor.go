package assistant

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/vozlab/asistente-backend/internal/domain"
)

const (
	youtubeSearchURL = "https://www.youtube.com/results?search_query="
	googleSearchURL  = "https://www.google.com/search?q="
)

// LookupResult is the outcome of an encyclopedia summary lookup.
type LookupResult struct {
	// Extract is the two-sentence summary when the lookup resolved uniquely.
	Extract string
	// Candidates lists alternative page titles when the term is ambiguous.
	Candidates []string
	// NotFound reports that no page matched the term.
	NotFound bool
}

// Summarizer resolves a term to an encyclopedia summary.
type Summarizer interface {
	Summarize(ctx context.Context, term string) (LookupResult, error)
}

// Result is what executing an intent produces. Opening the URL (when set)
// is the client's responsibility.
type Result struct {
	Response string
	URL      *string
	Success  bool
}

// Executor performs the side effect associated with a classified intent.
type Executor struct {
	lookup Summarizer
	now    func() time.Time
}

// NewExecutor creates an Executor backed by the given summary lookup.
func NewExecutor(lookup Summarizer) *Executor {
	return &Executor{lookup: lookup, now: time.Now}
}

// Execute runs the intent's action and returns a human-readable response.
// Failures inside the lookup surface as templated response text with
// Success=false, never as an error to the caller.
func (e *Executor) Execute(ctx context.Context, intent domain.Intent, utterance string) Result {
	text := strings.ToLower(utterance)

	switch intent {
	case domain.IntentPlay:
		query := stripTriggers(text, "reproduce")
		u := youtubeSearchURL + url.QueryEscape(query)
		return Result{
			Response: fmt.Sprintf("Reproduciendo %s", query),
			URL:      &u,
			Success:  true,
		}

	case domain.IntentSearchYouTube:
		query := stripTriggers(text, "busca en youtube", "busca en y")
		u := youtubeSearchURL + url.QueryEscape(query)
		return Result{
			Response: fmt.Sprintf("Buscando en YouTube: %s", query),
			URL:      &u,
			Success:  true,
		}

	case domain.IntentClock:
		return Result{
			Response: fmt.Sprintf("La hora actual es: %s", e.now().Format("15:04 PM")),
			Success:  true,
		}

	case domain.IntentSearchWeb:
		query := stripTriggers(text, "busca en", "google")
		u := googleSearchURL + url.QueryEscape(query)
		return Result{
			Response: fmt.Sprintf("Buscando: %s", query),
			URL:      &u,
			Success:  true,
		}

	case domain.IntentLookupReference:
		query := stripTriggers(text, "dime", "qué es")
		return e.executeLookup(ctx, query)

	default:
		return Result{Response: "No entendí el comando", Success: false}
	}
}

// executeLookup resolves an encyclopedia query. Ambiguity is a successful
// clarification, not a failure; only not-found and lookup errors report
// Success=false.
func (e *Executor) executeLookup(ctx context.Context, query string) Result {
	res, err := e.lookup.Summarize(ctx, query)
	if err != nil {
		return Result{
			Response: fmt.Sprintf("Ocurrió un error: %s", err.Error()),
			Success:  false,
		}
	}

	switch {
	case res.NotFound:
		return Result{
			Response: fmt.Sprintf("No encontré resultados para %s.", query),
			Success:  false,
		}
	case len(res.Candidates) > 0:
		options := res.Candidates
		if len(options) > 3 {
			options = options[:3]
		}
		return Result{
			Response: fmt.Sprintf("Hay varios resultados para %s. Por ejemplo: %s", query, strings.Join(options, ", ")),
			Success:  true,
		}
	default:
		return Result{
			Response: fmt.Sprintf("Según Wikipedia: %s", res.Extract),
			Success:  true,
		}
	}
}

// stripTriggers removes each trigger phrase from the text and trims the rest.
// Longer phrases must come first so "busca en youtube" is not left as "outube".
func stripTriggers(text string, triggers ...string) string {
	for _, t := range triggers {
		text = strings.ReplaceAll(text, t, "")
	}
	return strings.TrimSpace(text)
}
