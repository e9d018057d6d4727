package transcript

import (
	"strings"
	"testing"

	"github.com/fieldlens/fieldlens-backend/internal/platform/logger"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return log
}

func TestParseHeaderAndEntries(t *testing.T) {
	raw := strings.Join([]string{
		"# Date: 2025-03-14",
		"# Duration: 00:43:12",
		"# Source: s1_recording.mp4",
		"",
		"[00:00:05] [m1] Welcome, thanks for joining.",
		"[00:00:12] [p1] Happy to be here.",
		"[00:12:40] [p1] The settings page confused me.",
	}, "\n")

	tr := Parse("s1", strings.NewReader(raw), testLogger(t))

	if tr.SessionID != "s1" {
		t.Fatalf("session id: got %q", tr.SessionID)
	}
	if tr.Date == nil || tr.Date.Format("2006-01-02") != "2025-03-14" {
		t.Fatalf("date: got %v", tr.Date)
	}
	if tr.DurationSeconds != 43*60+12 {
		t.Fatalf("duration: got %d", tr.DurationSeconds)
	}
	if tr.Source != "s1_recording.mp4" {
		t.Fatalf("source: got %q", tr.Source)
	}
	if len(tr.Segments) != 3 {
		t.Fatalf("segments: got %d", len(tr.Segments))
	}
	if tr.Segments[0].SpeakerCode != "m1" || tr.Segments[0].StartSeconds != 5 {
		t.Fatalf("segment 0: %+v", tr.Segments[0])
	}
	if tr.Segments[2].StartSeconds != 12*60+40 || tr.Segments[2].Text != "The settings page confused me." {
		t.Fatalf("segment 2: %+v", tr.Segments[2])
	}
}

func TestParseSkipsMalformedLines(t *testing.T) {
	raw := strings.Join([]string{
		"# Date: not-a-date",
		"# Duration: whenever",
		"garbage line with no timecode",
		"[99:99] [p1] bad timecode shape",
		"[00:01:00] [p1] good line",
		"[00:02:00] missing speaker bracket",
	}, "\n")

	tr := Parse("s2", strings.NewReader(raw), testLogger(t))

	if tr.Date != nil {
		t.Fatalf("bad date should be skipped, got %v", tr.Date)
	}
	if tr.DurationSeconds != 0 {
		t.Fatalf("bad duration should be skipped, got %d", tr.DurationSeconds)
	}
	if len(tr.Segments) != 1 {
		t.Fatalf("expected only the good line, got %d segments", len(tr.Segments))
	}
	if tr.Segments[0].Text != "good line" {
		t.Fatalf("segment: %+v", tr.Segments[0])
	}
}

func TestParseEmptyInput(t *testing.T) {
	tr := Parse("s3", strings.NewReader(""), testLogger(t))
	if len(tr.Segments) != 0 {
		t.Fatalf("expected no segments, got %d", len(tr.Segments))
	}
}

func TestParseTimecode(t *testing.T) {
	cases := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"00:00:00", 0, false},
		{"01:02:03", 3723, false},
		{"43:12", 43*60 + 12, false},
		{"12", 0, true},
		{"aa:bb:cc", 0, true},
		{"1:-2:3", 0, true},
		{"", 0, true},
	}
	for _, c := range cases {
		got, err := ParseTimecode(c.in)
		if c.wantErr {
			if err == nil {
				t.Fatalf("ParseTimecode(%q): expected error", c.in)
			}
			continue
		}
		if err != nil || got != c.want {
			t.Fatalf("ParseTimecode(%q): got %d err %v", c.in, got, err)
		}
	}
}

func TestFormatTimecode(t *testing.T) {
	if got := FormatTimecode(3723); got != "01:02:03" {
		t.Fatalf("FormatTimecode(3723): got %q", got)
	}
	if got := FormatTimecode(-5); got != "00:00:00" {
		t.Fatalf("FormatTimecode(-5): got %q", got)
	}
}
