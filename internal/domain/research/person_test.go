package research

import "testing"

func TestSpeakerRoleForCode(t *testing.T) {
	cases := []struct {
		code string
		want string
	}{
		{"p1", SpeakerRoleParticipant},
		{"P3", SpeakerRoleParticipant},
		{"m1", SpeakerRoleModerator},
		{"o2", SpeakerRoleObserver},
		{"x9", SpeakerRoleUnknown},
		{"", SpeakerRoleUnknown},
	}
	for _, c := range cases {
		if got := SpeakerRoleForCode(c.code); got != c.want {
			t.Fatalf("SpeakerRoleForCode(%q): got %q want %q", c.code, got, c.want)
		}
	}
}

func TestOriginValid(t *testing.T) {
	if !OriginPipeline.Valid() || !OriginResearcher.Valid() {
		t.Fatalf("known origins must be valid")
	}
	if Origin("editor").Valid() {
		t.Fatalf("unknown origin must be invalid")
	}
	if Origin("").Valid() {
		t.Fatalf("empty origin must be invalid")
	}
}
