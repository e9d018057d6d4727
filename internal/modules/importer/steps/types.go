package steps

import (
	"github.com/fieldlens/fieldlens-backend/internal/data/repos"
	"github.com/fieldlens/fieldlens-backend/internal/platform/logger"
)

// Deps is shared by every import step. The orchestrator owns the transaction
// and threads it through explicitly; repos here are bound to the base db and
// only hit it when handed a nil tx.
type Deps struct {
	Log   *logger.Logger
	Repos repos.All
}

// QuoteKey is the stable identity of a quote across runs: which session,
// which speaker, where in the recording. The project is implied by the
// session, and no grouping takes part, so a quote keeps its row (and its
// annotations) when clusters around it are renamed, split or merged.
type QuoteKey struct {
	SessionExternalID string
	ParticipantID     string
	StartTimecode     string
}

// fillEmpty is the field-level rule for merging human-editable values: an
// incoming value lands only in an empty field. A name a human already set,
// here or through the serving layer, always wins over the registry.
func fillEmpty(existing, incoming string) string {
	if existing != "" {
		return existing
	}
	return incoming
}
