package steps

import (
	"testing"

	types "github.com/fieldlens/fieldlens-backend/internal/domain"
	"github.com/fieldlens/fieldlens-backend/internal/modules/importer/artifacts"
)

func TestFillEmpty(t *testing.T) {
	if got := fillEmpty("", "Maya K."); got != "Maya K." {
		t.Fatalf("empty existing should take incoming, got %q", got)
	}
	if got := fillEmpty("Maya Krishnan", "Maya K."); got != "Maya Krishnan" {
		t.Fatalf("curated value must win, got %q", got)
	}
	if got := fillEmpty("Maya Krishnan", ""); got != "Maya Krishnan" {
		t.Fatalf("empty incoming must not clear, got %q", got)
	}
}

func TestEnrichPerson(t *testing.T) {
	person := &types.Person{FullName: "Maya Krishnan"}
	entry := artifacts.ParticipantEntry{
		FullName:  "Maya K.",
		ShortName: "Maya",
		Role:      "designer",
		Persona:   "power user",
	}

	if !enrichPerson(person, entry) {
		t.Fatalf("expected enrichment to report a change")
	}
	if person.FullName != "Maya Krishnan" {
		t.Fatalf("full name overwritten: %q", person.FullName)
	}
	if person.ShortName != "Maya" || person.Role != "designer" {
		t.Fatalf("empty fields not filled: %+v", person)
	}
	if len(person.Persona) == 0 {
		t.Fatalf("persona not filled")
	}

	// Second application with the same entry is a no-op.
	if enrichPerson(person, entry) {
		t.Fatalf("re-applying the same entry must not report a change")
	}
}

func TestEnrichPersonEmptyEntry(t *testing.T) {
	person := &types.Person{FullName: "Maya Krishnan", Notes: "interviewed twice"}
	if enrichPerson(person, artifacts.ParticipantEntry{}) {
		t.Fatalf("empty registry entry must not change anything")
	}
	if person.FullName != "Maya Krishnan" || person.Notes != "interviewed twice" {
		t.Fatalf("person mutated: %+v", person)
	}
}

func TestQuoteKeyForDoc(t *testing.T) {
	doc := artifacts.QuoteDoc{
		SessionID:     "s1",
		ParticipantID: "p1",
		StartTimecode: "00:12:40",
	}
	key, ok := keyForDoc(doc)
	if !ok {
		t.Fatalf("complete doc must yield a key")
	}
	want := QuoteKey{SessionExternalID: "s1", ParticipantID: "p1", StartTimecode: "00:12:40"}
	if key != want {
		t.Fatalf("key: got %+v want %+v", key, want)
	}

	for _, broken := range []artifacts.QuoteDoc{
		{ParticipantID: "p1", StartTimecode: "00:12:40"},
		{SessionID: "s1", StartTimecode: "00:12:40"},
		{SessionID: "s1", ParticipantID: "p1"},
	} {
		if _, ok := keyForDoc(broken); ok {
			t.Fatalf("incomplete doc must be rejected: %+v", broken)
		}
	}
}
