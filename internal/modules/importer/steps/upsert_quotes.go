package steps

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/fieldlens/fieldlens-backend/internal/domain"
	"github.com/fieldlens/fieldlens-backend/internal/modules/importer/artifacts"
)

type UpsertQuotesInput struct {
	Project    *types.Project
	ImportedAt time.Time
	Sessions   map[string]*types.Session
	Clusters   []artifacts.ClusterDoc
	Themes     []artifacts.ThemeDoc
}

type UpsertQuotesOutput struct {
	// Quotes maps stable key to the row it resolved to. The same quote
	// appearing in a cluster and a theme resolves to the same entry.
	Quotes   map[QuoteKey]*types.Quote
	Inserted int
	Updated  int
	Skipped  int
}

// UpsertQuotes is the mark phase for quotes: every incoming quote either
// refreshes an existing row's pipeline-controlled fields or inserts a new
// row, and either way gets stamped with the run's generation timestamp.
// Annotation rows hanging off updated quotes are never touched.
func UpsertQuotes(ctx context.Context, deps Deps, tx *gorm.DB, input UpsertQuotesInput) (UpsertQuotesOutput, error) {
	log := deps.Log.With("step", "UpsertQuotes")
	out := UpsertQuotesOutput{Quotes: map[QuoteKey]*types.Quote{}}
	if input.Project == nil {
		return out, fmt.Errorf("upsert quotes: missing project")
	}

	docs := make([]artifacts.QuoteDoc, 0)
	for _, c := range input.Clusters {
		docs = append(docs, c.Quotes...)
	}
	for _, t := range input.Themes {
		docs = append(docs, t.Quotes...)
	}

	for _, doc := range docs {
		key, ok := keyForDoc(doc)
		if !ok {
			log.Warn("Skipping quote without a stable key",
				"session_id", doc.SessionID, "participant_id", doc.ParticipantID, "start_timecode", doc.StartTimecode)
			out.Skipped++
			continue
		}
		if _, seen := out.Quotes[key]; seen {
			continue
		}
		session := input.Sessions[key.SessionExternalID]
		if session == nil {
			log.Warn("Skipping quote referencing unresolved session", "session_id", key.SessionExternalID)
			out.Skipped++
			continue
		}

		row, err := deps.Repos.Quote.GetByStableKey(ctx, tx, session.ID, key.ParticipantID, key.StartTimecode)
		if err != nil {
			return out, fmt.Errorf("look up quote %v: %w", key, err)
		}
		stamp := input.ImportedAt
		if row == nil {
			row = &types.Quote{
				ID:            uuid.New(),
				ProjectID:     input.Project.ID,
				SessionID:     session.ID,
				SpeakerCode:   key.ParticipantID,
				StartTimecode: key.StartTimecode,
			}
			applyQuoteDoc(row, doc)
			row.LastImportedAt = &stamp
			if err := deps.Repos.Quote.Create(ctx, tx, row); err != nil {
				return out, fmt.Errorf("create quote %v: %w", key, err)
			}
			out.Inserted++
		} else {
			applyQuoteDoc(row, doc)
			row.LastImportedAt = &stamp
			if err := deps.Repos.Quote.Update(ctx, tx, row); err != nil {
				return out, fmt.Errorf("update quote %v: %w", key, err)
			}
			out.Updated++
		}
		out.Quotes[key] = row
	}

	log.Debug("Upserted quotes", "inserted", out.Inserted, "updated", out.Updated, "skipped", out.Skipped)
	return out, nil
}

func keyForDoc(doc artifacts.QuoteDoc) (QuoteKey, bool) {
	key := QuoteKey{
		SessionExternalID: strings.TrimSpace(doc.SessionID),
		ParticipantID:     strings.TrimSpace(doc.ParticipantID),
		StartTimecode:     strings.TrimSpace(doc.StartTimecode),
	}
	if key.SessionExternalID == "" || key.ParticipantID == "" || key.StartTimecode == "" {
		return QuoteKey{}, false
	}
	return key, true
}

// applyQuoteDoc overwrites the pipeline-controlled fields only. Everything
// human-owned lives in annotation tables keyed by quote id, so the row
// rewrite cannot clobber researcher work.
func applyQuoteDoc(row *types.Quote, doc artifacts.QuoteDoc) {
	row.EndTimecode = doc.EndTimecode
	row.Text = doc.Text
	row.VerbatimExcerpt = doc.VerbatimExcerpt
	row.TopicLabel = doc.TopicLabel
	row.QuoteType = doc.QuoteType
	row.ResearcherContext = doc.ResearcherContext
	row.Sentiment = doc.Sentiment
	row.Intensity = doc.Intensity
	row.SegmentIndex = doc.SegmentIndex
}
