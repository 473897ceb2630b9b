// Package recommend assembles recommendation responses from extraction,
// cache, and search.
package recommend

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/eventscout/chat-service/internal/domain/models"
)

// Fingerprint derives the canonical cache key for a preference set. Fields
// are joined in a fixed order after normalization so the key is independent
// of how the extraction provider ordered or cased them. The "none" sentinel
// participates in the key: "anything in new york" and "music in new york"
// must not collide.
func Fingerprint(prefs models.Preferences) string {
	p := prefs.Normalize()
	canonical := strings.Join([]string{p.Location, p.Date, p.Time, p.EventType}, "|")
	sum := sha256.Sum256([]byte(canonical))
	return hex.EncodeToString(sum[:])
}
