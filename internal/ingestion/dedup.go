package ingestion

import (
	"strings"

	"github.com/rpattn/contactsvc/internal/domain"
)

// Deduplicator tracks composite contact identities seen within a single
// import call. Each import owns its own instance; nothing is shared across
// calls. Cross-file duplicates are not its concern — those are resolved by
// the storage upsert.
type Deduplicator struct {
	seen map[string]struct{}
}

// NewDeduplicator returns an empty per-import deduplicator.
func NewDeduplicator() *Deduplicator {
	return &Deduplicator{seen: make(map[string]struct{})}
}

// Observe reports whether the candidate's composite key was already seen in
// this import. The first observation records the key and returns false;
// repeats return true without mutating state.
func (d *Deduplicator) Observe(candidate domain.ContactCandidate) bool {
	key := CompositeKey(candidate)
	if _, ok := d.seen[key]; ok {
		return true
	}
	d.seen[key] = struct{}{}
	return false
}

// CompositeKey builds the identity key used for in-file dedup: upper-cased
// name joined with the already-normalized tax id and phone.
func CompositeKey(candidate domain.ContactCandidate) string {
	return strings.ToUpper(candidate.Name) + "|" + candidate.TaxID + "|" + candidate.Phone
}
