package report

import (
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/jpcloudkit/sponsormap/internal/models"
)

// logLine matches the head of one prospection note: a bracketed
// timestamp followed by free text. Lines that do not match continue the
// previous note.
var logLine = regexp.MustCompile(`^\[(.+?)\]\s*(.*)$`)

const logTimeLayout = "02/01/2006 15:04"

// LogEntry is one timestamped prospection note.
type LogEntry struct {
	Timestamp   time.Time
	RawStamp    string
	Text        string
	EntityID    string
	EntityTitle string
}

// ParseLog splits an entity's append-only Comments field into entries.
// Unparseable timestamps keep their raw form and sort to the far past.
func ParseLog(e models.Entity) []LogEntry {
	if strings.TrimSpace(e.Comments) == "" {
		return nil
	}
	var entries []LogEntry
	var current *LogEntry
	for _, line := range strings.Split(e.Comments, "\n") {
		if m := logLine.FindStringSubmatch(line); m != nil {
			if current != nil {
				entries = append(entries, *current)
			}
			ts, err := time.Parse(logTimeLayout, m[1])
			if err != nil {
				ts = time.Time{}
			}
			current = &LogEntry{
				Timestamp:   ts,
				RawStamp:    m[1],
				Text:        m[2],
				EntityID:    e.ID.String(),
				EntityTitle: e.Title,
			}
			continue
		}
		if current != nil && strings.TrimSpace(line) != "" {
			current.Text += "\n" + line
		}
	}
	if current != nil {
		entries = append(entries, *current)
	}
	return entries
}

// AppendLogEntry prepends a stamped note to an existing Comments
// value, keeping the newest note on top.
func AppendLogEntry(comments string, at time.Time, text string) string {
	line := "[" + at.Format(logTimeLayout) + "] " + strings.TrimSpace(text)
	if strings.TrimSpace(comments) == "" {
		return line
	}
	return line + "\n" + comments
}

// BuildHistory flattens every entity's log into one feed, newest first.
func BuildHistory(entities []models.Entity) []LogEntry {
	var all []LogEntry
	for _, e := range entities {
		all = append(all, ParseLog(e)...)
	}
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Timestamp.After(all[j].Timestamp)
	})
	return all
}
