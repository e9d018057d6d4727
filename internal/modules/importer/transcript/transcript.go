package transcript

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/fieldlens/fieldlens-backend/internal/platform/logger"
)

// Transcript is the decoded form of one session's transcript file: a comment
// header with session metadata followed by timecoded speaker entries.
type Transcript struct {
	SessionID       string
	Date            *time.Time
	DurationSeconds int
	Source          string
	Segments        []Segment
}

type Segment struct {
	SpeakerCode  string
	StartSeconds int
	Text         string
}

var (
	headerRe = regexp.MustCompile(`^#\s*([A-Za-z]+)\s*:\s*(.+?)\s*$`)
	entryRe  = regexp.MustCompile(`^\[(\d{1,2}):(\d{2}):(\d{2})\]\s*\[([A-Za-z][A-Za-z0-9]*)\]\s*(.*)$`)
)

// ParseFile decodes one transcript. The session id comes from the caller (the
// file name carries it). Unparseable lines are skipped, never fatal.
func ParseFile(sessionID, path string, log *logger.Logger) (*Transcript, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open transcript: %w", err)
	}
	defer f.Close()
	return Parse(sessionID, f, log), nil
}

func Parse(sessionID string, r io.Reader, log *logger.Logger) *Transcript {
	log = log.With("component", "transcript", "session_id", sessionID)
	out := &Transcript{SessionID: sessionID}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), " \t\r")
		if line == "" {
			continue
		}
		if m := headerRe.FindStringSubmatch(line); m != nil {
			applyHeader(out, m[1], m[2], log)
			continue
		}
		if m := entryRe.FindStringSubmatch(line); m != nil {
			h, _ := strconv.Atoi(m[1])
			mi, _ := strconv.Atoi(m[2])
			s, _ := strconv.Atoi(m[3])
			out.Segments = append(out.Segments, Segment{
				SpeakerCode:  m[4],
				StartSeconds: h*3600 + mi*60 + s,
				Text:         m[5],
			})
			continue
		}
		log.Debug("Skipping unrecognised transcript line", "line", line)
	}
	if err := scanner.Err(); err != nil {
		log.Warn("Transcript read stopped early", "error", err)
	}
	return out
}

func applyHeader(t *Transcript, key, value string, log *logger.Logger) {
	switch strings.ToLower(key) {
	case "date":
		for _, layout := range []string{"2006-01-02", "2006/01/02", "01/02/2006"} {
			if parsed, err := time.Parse(layout, value); err == nil {
				t.Date = &parsed
				return
			}
		}
		log.Debug("Skipping unparseable date header", "value", value)
	case "duration":
		if secs, err := ParseTimecode(value); err == nil {
			t.DurationSeconds = secs
			return
		}
		if secs, err := strconv.Atoi(value); err == nil && secs >= 0 {
			t.DurationSeconds = secs
			return
		}
		log.Debug("Skipping unparseable duration header", "value", value)
	case "source":
		t.Source = value
	default:
		log.Debug("Skipping unknown transcript header", "key", key)
	}
}

// ParseTimecode decodes "HH:MM:SS" or "MM:SS" into seconds.
func ParseTimecode(s string) (int, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, fmt.Errorf("malformed timecode %q", s)
	}
	total := 0
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("malformed timecode %q", s)
		}
		total = total*60 + n
	}
	return total, nil
}

// FormatTimecode renders seconds as "HH:MM:SS", the canonical timecode form
// used in quote stable keys.
func FormatTimecode(secs int) string {
	if secs < 0 {
		secs = 0
	}
	return fmt.Sprintf("%02d:%02d:%02d", secs/3600, secs/60%60, secs%60)
}
