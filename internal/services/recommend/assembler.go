package recommend

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	domainerrors "github.com/eventscout/chat-service/internal/domain/errors"
	"github.com/eventscout/chat-service/internal/domain/models"
	"github.com/eventscout/chat-service/internal/services/conversation"
	"github.com/eventscout/chat-service/internal/services/extraction"
	"github.com/eventscout/chat-service/internal/services/search"
	"github.com/eventscout/chat-service/internal/services/usage"
)

// Extraction failure policies.
const (
	PolicyDegrade = "degrade"
	PolicyFail    = "fail"
)

const defaultCity = "new york"

// searchBudget bounds the detached search run under singleflight.
const searchBudget = 30 * time.Second

// Input carries one chat request through the assembly pipeline.
type Input struct {
	Principal      models.Principal
	Message        string
	Provider       string
	IsInitial      bool
	ConversationID string
}

// Output is the assembled chat response before DTO mapping.
type Output struct {
	Message              string
	Recommendations      []models.Recommendation
	ProviderUsed         string
	CacheUsed            bool
	CacheAgeHours        *float64
	ExtractedPreferences *models.Preferences
	ExtractionSummary    string
	UsageStats           *models.UsageStats
	TrialExceeded        bool
	ConversationID       string
}

// Config holds the assembler dependencies.
type Config struct {
	Registry         *extraction.Registry
	Searcher         search.Searcher
	Cache            *Cache
	Conversations    conversation.Store
	Usage            *usage.Tracker
	ExtractionPolicy string
}

// Assembler orchestrates extraction, cache lookup, search, ranking, and
// response construction for chat requests.
type Assembler struct {
	registry         *extraction.Registry
	searcher         search.Searcher
	cache            *Cache
	conversations    conversation.Store
	usage            *usage.Tracker
	extractionPolicy string

	// group collapses concurrent cache misses for the same fingerprint
	// into a single external search.
	group singleflight.Group

	// now is swappable for tests.
	now func() time.Time
}

// NewAssembler creates the recommendation assembler.
func NewAssembler(cfg *Config) (*Assembler, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if cfg.Registry == nil {
		return nil, fmt.Errorf("extraction registry is required")
	}
	if cfg.Searcher == nil {
		return nil, fmt.Errorf("searcher is required")
	}
	if cfg.Cache == nil {
		return nil, fmt.Errorf("cache is required")
	}
	if cfg.Conversations == nil {
		return nil, fmt.Errorf("conversation store is required")
	}
	if cfg.Usage == nil {
		return nil, fmt.Errorf("usage tracker is required")
	}

	policy := cfg.ExtractionPolicy
	if policy == "" {
		policy = PolicyDegrade
	}
	if policy != PolicyDegrade && policy != PolicyFail {
		return nil, fmt.Errorf("unknown extraction policy: %s", policy)
	}

	return &Assembler{
		registry:         cfg.Registry,
		searcher:         cfg.Searcher,
		cache:            cfg.Cache,
		conversations:    cfg.Conversations,
		usage:            cfg.Usage,
		extractionPolicy: policy,
		now:              time.Now,
	}, nil
}

// Chat runs the full pipeline for one request. Permission and not-found
// failures surface as domain errors; capability failures degrade to a
// response with empty recommendations so the conversation survives.
func (a *Assembler) Chat(ctx context.Context, in Input) (*Output, error) {
	provider, err := a.registry.Get(in.Provider)
	if err != nil {
		return nil, err
	}

	// Ownership on an existing conversation is enforced before the trial
	// gate and before any quota is consumed: a foreign or unknown
	// conversation id is 403/404 even for an over-limit session.
	var conv *models.Conversation
	if in.ConversationID != "" && !in.IsInitial {
		conv, err = a.conversations.Get(ctx, in.ConversationID, in.Principal)
		if err != nil {
			return nil, err
		}
	}

	// Trial quota is checked before counting so the limit-hit request
	// itself is not consumed.
	if a.usage.Exceeded(in.Principal) {
		stats := a.usage.Stats(in.Principal)
		return &Output{
			Message: fmt.Sprintf(
				"🔒 You've reached your free trial limit of %d interactions! "+
					"Please register to continue using our service and keep your conversation history.",
				a.usage.TrialLimit(),
			),
			Recommendations: []models.Recommendation{},
			ProviderUsed:    in.Provider,
			UsageStats:      &stats,
			TrialExceeded:   true,
			ConversationID:  "temp",
		}, nil
	}

	var stats *models.UsageStats
	if in.Principal.IsAnonymous() {
		s := a.usage.Increment(in.Principal)
		stats = &s
	}

	if conv == nil {
		conv, err = a.conversations.Resolve(ctx, in.ConversationID, in.Principal, in.IsInitial)
		if err != nil {
			return nil, err
		}
	}
	history := conv.History

	prefs, extractionOK, err := a.extract(ctx, provider, in.Message, history)
	if err != nil {
		return nil, err
	}

	// Only a successful extraction is echoed back to the client; a degraded
	// run still searches but reports no extracted preferences.
	var extractedPrefs *models.Preferences
	if extractionOK {
		p := prefs
		extractedPrefs = &p
	}

	if err := a.conversations.AppendTurn(ctx, conv.ID, models.NewTurn(models.RoleUser, in.Message, extractedPrefs)); err != nil {
		return nil, err
	}

	// Resolve the city: extracted location first, then the deterministic
	// scan of the raw message.
	locationProvided := prefs.HasLocation()
	if !locationProvided {
		if city := extraction.ExtractLocation(in.Message); city != "" {
			prefs.Location = city
			locationProvided = true
		}
	}

	if in.IsInitial && !locationProvided {
		return a.respond(ctx, conv, &Output{
			Message:              askForLocationMessage(),
			Recommendations:      []models.Recommendation{},
			ProviderUsed:         in.Provider,
			ExtractedPreferences: extractedPrefs,
			UsageStats:           stats,
			ConversationID:       conv.ID,
		}, prefs)
	}

	locationNote := ""
	if !locationProvided {
		prefs.Location = defaultCity
		locationNote = " (I couldn't determine your location, so I'm defaulting to New York)"
	}

	recs, cacheUsed, cacheAge, searchFailed := a.recommendations(ctx, in.Message, prefs)
	models.SortByRelevance(recs)

	// The summary reflects what extraction actually resolved, not the
	// fallback city the search defaulted to.
	summary := ""
	if extractedPrefs != nil {
		summary = extractedPrefs.Summary()
	}

	out := &Output{
		Message:              responseMessage(prefs.Location, len(recs), locationNote, searchFailed),
		Recommendations:      recs,
		ProviderUsed:         in.Provider,
		CacheUsed:            cacheUsed,
		CacheAgeHours:        cacheAge,
		ExtractedPreferences: extractedPrefs,
		ExtractionSummary:    summary,
		UsageStats:           stats,
		ConversationID:       conv.ID,
	}
	return a.respond(ctx, conv, out, prefs)
}

// extract runs the provider under the configured failure policy. The
// boolean reports whether extraction actually succeeded.
func (a *Assembler) extract(ctx context.Context, provider extraction.Provider, message string, history []models.Turn) (models.Preferences, bool, error) {
	prefs, err := provider.Extract(ctx, message, history)
	if err == nil {
		return prefs.Normalize(), true, nil
	}

	if a.extractionPolicy == PolicyFail {
		return models.Preferences{}, false, domainerrors.NewExtractionUnavailableError(provider.Name(), err)
	}

	log.Warn().Err(err).Str("provider", provider.Name()).Msg("extraction failed, degrading to unfiltered search")
	return models.EmptyPreferences(), false, nil
}

// recommendations runs the cache-or-search leg. Concurrent misses for the
// same fingerprint share one search via singleflight.
func (a *Assembler) recommendations(ctx context.Context, query string, prefs models.Preferences) ([]models.Recommendation, bool, *float64, bool) {
	fingerprint := Fingerprint(prefs)

	entry, err := a.cache.Get(ctx, fingerprint)
	if err != nil {
		log.Warn().Err(err).Msg("cache read failed, falling through to search")
	}
	if entry != nil {
		age := entry.AgeHours(a.now())
		return entry.Recommendations, true, &age, false
	}

	result, err, _ := a.group.Do(fingerprint, func() (interface{}, error) {
		// The shared search outlives the first caller: it must not die
		// with that caller's request context, only with its own budget.
		searchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), searchBudget)
		defer cancel()

		events, err := a.searcher.Search(searchCtx, query, prefs)
		if err != nil {
			return nil, err
		}

		recs := formatRecommendations(events, prefs.Location)
		entry := models.CacheEntry{Recommendations: recs, ComputedAt: a.now()}
		if err := a.cache.Put(searchCtx, fingerprint, entry); err != nil {
			log.Warn().Err(err).Msg("cache write failed")
		}
		return recs, nil
	})
	if err != nil {
		log.Error().Err(err).Str("fingerprint", fingerprint).Msg("event search failed")
		return []models.Recommendation{}, false, nil, true
	}

	return result.([]models.Recommendation), false, nil, false
}

// respond persists the assistant turn and returns the output.
func (a *Assembler) respond(ctx context.Context, conv *models.Conversation, out *Output, prefs models.Preferences) (*Output, error) {
	turn := models.NewTurn(models.RoleAssistant, out.Message, &prefs)
	if err := a.conversations.AppendTurn(ctx, conv.ID, turn); err != nil {
		return nil, err
	}
	return out, nil
}

func formatRecommendations(events []search.Event, city string) []models.Recommendation {
	recs := make([]models.Recommendation, 0, len(events))
	for _, event := range events {
		data := make(map[string]interface{}, len(event)+1)
		for k, v := range event {
			data[k] = v
		}
		data["source"] = "realtime"

		recs = append(recs, models.Recommendation{
			Type:           "event",
			Data:           data,
			RelevanceScore: event.RelevanceScore(),
			Explanation:    fmt.Sprintf("Event in %s: %s", titleCity(city), event.Title()),
		})
	}
	return recs
}

func responseMessage(city string, count int, locationNote string, searchFailed bool) string {
	if count > 0 {
		return fmt.Sprintf(
			"🎉 Found %d events in %s that match your search!%s Check out the recommendations below ↓",
			count, titleCity(city), locationNote,
		)
	}
	msg := fmt.Sprintf(
		"😔 I couldn't find any events in %s matching your query.%s "+
			"Try asking about 'fashion events', 'music concerts', 'halloween parties', or 'free events'.",
		titleCity(city), locationNote,
	)
	if searchFailed {
		msg = fmt.Sprintf(
			"😔 Event search is temporarily unavailable for %s, please try again shortly.%s",
			titleCity(city), locationNote,
		)
	}
	return msg
}

func askForLocationMessage() string {
	return fmt.Sprintf(
		"I'd be happy to help you find events! To give you the best recommendations, "+
			"could you please tell me which city or area you're interested in? (e.g., %s, or a zipcode)",
		strings.Join(extraction.SupportedCities(), ", "),
	)
}

func titleCity(city string) string {
	words := strings.Fields(city)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
