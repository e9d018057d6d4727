package domain

import (
	"github.com/fieldlens/fieldlens-backend/internal/domain/research"
)

type Origin = research.Origin

const (
	OriginPipeline   = research.OriginPipeline
	OriginResearcher = research.OriginResearcher
)

const (
	SpeakerRoleParticipant = research.SpeakerRoleParticipant
	SpeakerRoleModerator   = research.SpeakerRoleModerator
	SpeakerRoleObserver    = research.SpeakerRoleObserver
	SpeakerRoleUnknown     = research.SpeakerRoleUnknown
)

const (
	ConflictKindScreenCluster = research.ConflictKindScreenCluster
	ConflictKindThemeGroup    = research.ConflictKindThemeGroup
)

type Project = research.Project
type Session = research.Session
type SourceFile = research.SourceFile
type Person = research.Person
type SessionSpeaker = research.SessionSpeaker
type TranscriptSegment = research.TranscriptSegment
type TopicBoundary = research.TopicBoundary
type Quote = research.Quote
type ScreenCluster = research.ScreenCluster
type ThemeGroup = research.ThemeGroup
type ClusterQuote = research.ClusterQuote
type ThemeQuote = research.ThemeQuote
type QuoteFlag = research.QuoteFlag
type QuoteTag = research.QuoteTag
type QuoteRevision = research.QuoteRevision
type QuoteBadgeRemoval = research.QuoteBadgeRemoval
type ImportConflict = research.ImportConflict

// SpeakerRoleForCode derives a speaker role from a code prefix.
func SpeakerRoleForCode(code string) string { return research.SpeakerRoleForCode(code) }
