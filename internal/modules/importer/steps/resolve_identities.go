package steps

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/fieldlens/fieldlens-backend/internal/domain"
	"github.com/fieldlens/fieldlens-backend/internal/modules/importer/artifacts"
	"github.com/fieldlens/fieldlens-backend/internal/modules/importer/transcript"
)

type ResolveIdentitiesInput struct {
	Project         *types.Project
	ImportedAt      time.Time
	Clusters        []artifacts.ClusterDoc
	Themes          []artifacts.ThemeDoc
	Topics          []artifacts.TopicBoundaryDoc
	TranscriptPaths map[string]string
	Registry        map[string]artifacts.ParticipantEntry
}

type ResolveIdentitiesOutput struct {
	// Sessions maps the pipeline's session identifier ("s1", ...) to its row.
	Sessions map[string]*types.Session
	// SessionExternalIDs is the full identifier set seen this run, sorted;
	// the reaper deletes everything outside it.
	SessionExternalIDs []string
}

// ResolveIdentities derives the session registry from every reference in the
// incoming artifacts and find-or-creates Session, SessionSpeaker and Person
// rows. Registry names are merged fill-only.
func ResolveIdentities(ctx context.Context, deps Deps, tx *gorm.DB, input ResolveIdentitiesInput) (ResolveIdentitiesOutput, error) {
	log := deps.Log.With("step", "ResolveIdentities")
	out := ResolveIdentitiesOutput{Sessions: map[string]*types.Session{}}
	if input.Project == nil {
		return out, fmt.Errorf("resolve identities: missing project")
	}

	sessionIDs, speakersBySession := collectReferences(input)
	out.SessionExternalIDs = sessionIDs

	for _, sid := range sessionIDs {
		var tr *transcript.Transcript
		if path, ok := input.TranscriptPaths[sid]; ok {
			parsed, err := transcript.ParseFile(sid, path, deps.Log)
			if err != nil {
				log.Warn("Skipping unreadable transcript", "session_id", sid, "error", err)
			} else {
				tr = parsed
			}
		}

		session, err := resolveSession(ctx, deps, tx, input, sid, tr)
		if err != nil {
			return out, err
		}
		out.Sessions[sid] = session

		// Segments are pipeline-owned and replaced wholesale; no transcript
		// this run means the session ends up with none.
		segStats := map[string]*speakerStats{}
		if err := replaceSegments(ctx, deps, tx, session, tr, segStats); err != nil {
			return out, err
		}
		if tr != nil {
			if err := upsertTranscriptSource(ctx, deps, tx, session, input, sid); err != nil {
				return out, err
			}
		}

		codes := map[string]bool{}
		for code := range segStats {
			codes[code] = true
		}
		for _, code := range speakersBySession[sid] {
			codes[code] = true
		}
		for _, code := range sortedKeys(codes) {
			if err := resolveSpeaker(ctx, deps, tx, session, code, segStats[code], input.Registry); err != nil {
				return out, err
			}
		}
	}

	log.Debug("Resolved identities", "project_id", input.Project.ID.String(), "sessions", len(sessionIDs))
	return out, nil
}

type speakerStats struct {
	words    int
	segments int
}

func collectReferences(input ResolveIdentitiesInput) ([]string, map[string][]string) {
	sessions := map[string]bool{}
	speakers := map[string]map[string]bool{}
	see := func(sid, code string) {
		sid = strings.TrimSpace(sid)
		if sid == "" {
			return
		}
		sessions[sid] = true
		if code = strings.TrimSpace(code); code != "" {
			if speakers[sid] == nil {
				speakers[sid] = map[string]bool{}
			}
			speakers[sid][code] = true
		}
	}
	for _, c := range input.Clusters {
		for _, q := range c.Quotes {
			see(q.SessionID, q.ParticipantID)
		}
	}
	for _, t := range input.Themes {
		for _, q := range t.Quotes {
			see(q.SessionID, q.ParticipantID)
		}
	}
	for _, b := range input.Topics {
		see(b.SessionID, "")
	}
	for sid := range input.TranscriptPaths {
		see(sid, "")
	}

	ids := sortedKeys(sessions)
	byID := make(map[string][]string, len(speakers))
	for sid, codes := range speakers {
		byID[sid] = sortedKeys(codes)
	}
	return ids, byID
}

func resolveSession(ctx context.Context, deps Deps, tx *gorm.DB, input ResolveIdentitiesInput, sid string, tr *transcript.Transcript) (*types.Session, error) {
	session, err := deps.Repos.Session.GetByProjectAndExternalID(ctx, tx, input.Project.ID, sid)
	if err != nil {
		return nil, fmt.Errorf("look up session %q: %w", sid, err)
	}
	if session == nil {
		session = &types.Session{
			ID:         uuid.New(),
			ProjectID:  input.Project.ID,
			ExternalID: sid,
		}
		applyTranscriptMeta(session, tr)
		if err := deps.Repos.Session.Create(ctx, tx, session); err != nil {
			return nil, fmt.Errorf("create session %q: %w", sid, err)
		}
		return session, nil
	}
	applyTranscriptMeta(session, tr)
	if err := deps.Repos.Session.Update(ctx, tx, session); err != nil {
		return nil, fmt.Errorf("update session %q: %w", sid, err)
	}
	return session, nil
}

// applyTranscriptMeta overwrites the pipeline-owned session metadata when a
// transcript supplied it this run. A vanished transcript clears the flag;
// date and duration are kept as the last known values.
func applyTranscriptMeta(session *types.Session, tr *transcript.Transcript) {
	if tr == nil {
		session.HasTranscript = false
		return
	}
	session.HasTranscript = true
	if tr.Date != nil {
		session.Date = tr.Date
	}
	if tr.DurationSeconds > 0 {
		session.DurationSeconds = tr.DurationSeconds
	}
	if tr.Source != "" {
		session.HasAudio = true
	}
}

func replaceSegments(ctx context.Context, deps Deps, tx *gorm.DB, session *types.Session, tr *transcript.Transcript, stats map[string]*speakerStats) error {
	if tr == nil {
		tr = &transcript.Transcript{SessionID: session.ExternalID}
	}
	rows := make([]*types.TranscriptSegment, 0, len(tr.Segments))
	for i, seg := range tr.Segments {
		end := seg.StartSeconds
		if i+1 < len(tr.Segments) {
			end = tr.Segments[i+1].StartSeconds
		} else if tr.DurationSeconds > seg.StartSeconds {
			end = tr.DurationSeconds
		}
		rows = append(rows, &types.TranscriptSegment{
			ID:           uuid.New(),
			SessionID:    session.ID,
			SpeakerCode:  seg.SpeakerCode,
			StartSeconds: seg.StartSeconds,
			EndSeconds:   end,
			Text:         seg.Text,
			Ordinal:      i,
		})
		st := stats[seg.SpeakerCode]
		if st == nil {
			st = &speakerStats{}
			stats[seg.SpeakerCode] = st
		}
		st.segments++
		st.words += len(strings.Fields(seg.Text))
	}
	if err := deps.Repos.TranscriptSegment.ReplaceForSession(ctx, tx, session.ID, rows); err != nil {
		return fmt.Errorf("replace segments for %q: %w", session.ExternalID, err)
	}
	return nil
}

func upsertTranscriptSource(ctx context.Context, deps Deps, tx *gorm.DB, session *types.Session, input ResolveIdentitiesInput, sid string) error {
	path := input.TranscriptPaths[sid]
	var size int64
	if info, err := os.Stat(path); err == nil {
		size = info.Size()
	}
	verifiedAt := input.ImportedAt
	row := &types.SourceFile{
		ID:         uuid.New(),
		SessionID:  session.ID,
		Kind:       "transcript",
		Path:       path,
		SizeBytes:  size,
		VerifiedAt: &verifiedAt,
	}
	if err := deps.Repos.SourceFile.UpsertBySessionKindPath(ctx, tx, row); err != nil {
		return fmt.Errorf("upsert source file for %q: %w", sid, err)
	}
	return nil
}

func resolveSpeaker(ctx context.Context, deps Deps, tx *gorm.DB, session *types.Session, code string, stats *speakerStats, registry map[string]artifacts.ParticipantEntry) error {
	speaker, err := deps.Repos.SessionSpeaker.GetBySessionAndCode(ctx, tx, session.ID, code)
	if err != nil {
		return fmt.Errorf("look up speaker %q: %w", code, err)
	}
	entry := registry[code]

	if speaker == nil {
		person := &types.Person{ID: uuid.New()}
		enrichPerson(person, entry)
		if _, err := deps.Repos.Person.Create(ctx, tx, []*types.Person{person}); err != nil {
			return fmt.Errorf("create person for %q: %w", code, err)
		}
		speaker = &types.SessionSpeaker{
			ID:        uuid.New(),
			SessionID: session.ID,
			PersonID:  person.ID,
			Code:      code,
			Role:      types.SpeakerRoleForCode(code),
		}
		if stats != nil {
			speaker.WordCount = stats.words
			speaker.SegmentCount = stats.segments
		}
		if err := deps.Repos.SessionSpeaker.Create(ctx, tx, speaker); err != nil {
			return fmt.Errorf("create speaker %q: %w", code, err)
		}
		return nil
	}

	updates := map[string]interface{}{
		"role": types.SpeakerRoleForCode(code),
	}
	if stats != nil {
		updates["word_count"] = stats.words
		updates["segment_count"] = stats.segments
	}
	if err := deps.Repos.SessionSpeaker.UpdateFields(ctx, tx, speaker.ID, updates); err != nil {
		return fmt.Errorf("update speaker %q: %w", code, err)
	}

	persons, err := deps.Repos.Person.GetByIDs(ctx, tx, []uuid.UUID{speaker.PersonID})
	if err != nil {
		return fmt.Errorf("look up person for %q: %w", code, err)
	}
	if len(persons) == 0 {
		return nil
	}
	person := persons[0]
	if enrichPerson(person, entry) {
		if err := deps.Repos.Person.Update(ctx, tx, person); err != nil {
			return fmt.Errorf("enrich person for %q: %w", code, err)
		}
	}
	return nil
}

// enrichPerson applies the registry entry fill-only and reports whether any
// field actually changed.
func enrichPerson(person *types.Person, entry artifacts.ParticipantEntry) bool {
	changed := false
	if v := fillEmpty(person.FullName, entry.FullName); v != person.FullName {
		person.FullName = v
		changed = true
	}
	if v := fillEmpty(person.ShortName, entry.ShortName); v != person.ShortName {
		person.ShortName = v
		changed = true
	}
	if v := fillEmpty(person.Role, entry.Role); v != person.Role {
		person.Role = v
		changed = true
	}
	if v := fillEmpty(person.Notes, entry.Notes); v != person.Notes {
		person.Notes = v
		changed = true
	}
	if len(person.Persona) == 0 && entry.Persona != "" {
		if raw, err := json.Marshal(entry.Persona); err == nil {
			person.Persona = raw
			changed = true
		}
	}
	return changed
}

func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
