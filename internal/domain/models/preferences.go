package models

import "strings"

// PreferenceNone is the sentinel for a preference field the extraction
// provider could not resolve.
const PreferenceNone = "none"

// Preferences holds the structured search intent extracted from a free-text
// message. Fields carry either a normalized lowercase value or "none".
type Preferences struct {
	Location  string `json:"location" bson:"location"`
	Date      string `json:"date" bson:"date"`
	Time      string `json:"time" bson:"time"`
	EventType string `json:"event_type" bson:"eventType"`
}

// EmptyPreferences returns preferences with every field unresolved.
func EmptyPreferences() Preferences {
	return Preferences{
		Location:  PreferenceNone,
		Date:      PreferenceNone,
		Time:      PreferenceNone,
		EventType: PreferenceNone,
	}
}

// Normalize lowercases all fields and replaces blanks with the "none"
// sentinel so that fingerprints stay stable across providers.
func (p Preferences) Normalize() Preferences {
	return Preferences{
		Location:  normalizeField(p.Location),
		Date:      normalizeField(p.Date),
		Time:      normalizeField(p.Time),
		EventType: normalizeField(p.EventType),
	}
}

// HasLocation reports whether a usable location was extracted.
func (p Preferences) HasLocation() bool {
	return p.Location != "" && p.Location != PreferenceNone
}

// Summary renders the human-readable extraction summary, e.g.
// "📍 new york • 📅 this weekend • 🎭 music". Unresolved fields are omitted;
// an empty string means nothing was resolved.
func (p Preferences) Summary() string {
	var parts []string
	if p.Location != "" && p.Location != PreferenceNone {
		parts = append(parts, "📍 "+p.Location)
	}
	if p.Date != "" && p.Date != PreferenceNone {
		parts = append(parts, "📅 "+p.Date)
	}
	if p.Time != "" && p.Time != PreferenceNone {
		parts = append(parts, "🕐 "+p.Time)
	}
	if p.EventType != "" && p.EventType != PreferenceNone {
		parts = append(parts, "🎭 "+p.EventType)
	}
	return strings.Join(parts, " • ")
}

func normalizeField(v string) string {
	v = strings.ToLower(strings.TrimSpace(v))
	if v == "" {
		return PreferenceNone
	}
	return v
}
