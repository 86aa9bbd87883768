package ledger

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// SequenceNumber is the display number assigned to one obligation
type SequenceNumber struct {
	ObligationID uuid.UUID
	Ordinal      int
	Label        string
}

// FormatSequenceLabel renders a display number, e.g. "INV-2025-007"
func FormatSequenceLabel(prefix string, year, ordinal int) string {
	return fmt.Sprintf("%s-%d-%03d", prefix, year, ordinal)
}

// AssignSequence numbers a full collection of obligations by creation order:
// ascending createdAt, ties broken by id lexical order. The mapping is
// recomputed from the whole collection, so it only serves read-side display
// of records that predate persisted sequence numbers. New obligations get a
// stable persisted number from the sequence counter instead.
func AssignSequence(prefix string, obligations []*Obligation) map[uuid.UUID]SequenceNumber {
	sorted := make([]*Obligation, len(obligations))
	copy(sorted, obligations)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].CreatedAt.Equal(sorted[j].CreatedAt) {
			return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
		}
		return strings.Compare(sorted[i].ID.String(), sorted[j].ID.String()) < 0
	})

	out := make(map[uuid.UUID]SequenceNumber, len(sorted))
	for i, o := range sorted {
		ordinal := i + 1
		out[o.ID] = SequenceNumber{
			ObligationID: o.ID,
			Ordinal:      ordinal,
			Label:        FormatSequenceLabel(prefix, o.CreatedAt.Year(), ordinal),
		}
	}
	return out
}
