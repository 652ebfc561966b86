package logx

import (
	"encoding/json"
	"strings"

	"github.com/coreos/go-systemd/v22/journal"
	"github.com/rs/zerolog"
)

// journalWriter is a zerolog LevelWriter that forwards log lines to
// systemd-journald with level-mapped priorities. It decodes the JSON line
// so journal entries carry MESSAGE plus structured fields, not a JSON blob.
type journalWriter struct {
	min zerolog.Level
}

// newJournalWriter returns nil when no journal socket is present (non-systemd
// hosts, containers); Apply treats that as "sink unavailable".
func newJournalWriter(min zerolog.Level) *journalWriter {
	if !journal.Enabled() {
		return nil
	}
	return &journalWriter{min: min}
}

func (w *journalWriter) Write(p []byte) (int, error) {
	return w.WriteLevel(zerolog.InfoLevel, p)
}

func (w *journalWriter) WriteLevel(level zerolog.Level, p []byte) (int, error) {
	if level < w.min {
		return len(p), nil
	}

	msg, vars := splitJournalFields(p)
	if msg == "" {
		return len(p), nil
	}
	_ = journal.Send(msg, journalPriority(level), vars)
	return len(p), nil
}

func journalPriority(level zerolog.Level) journal.Priority {
	switch {
	case level >= zerolog.ErrorLevel:
		return journal.PriErr
	case level >= zerolog.WarnLevel:
		return journal.PriWarning
	case level >= zerolog.InfoLevel:
		return journal.PriInfo
	default:
		return journal.PriDebug
	}
}

// splitJournalFields best-effort decodes a zerolog JSON line into the
// journal MESSAGE and uppercased structured variables. Journald field names
// must match [A-Z0-9_]; anything else is skipped.
func splitJournalFields(p []byte) (string, map[string]string) {
	var m map[string]any
	if err := json.Unmarshal(p, &m); err != nil {
		return strings.TrimSpace(string(p)), nil
	}

	msg, _ := m["message"].(string)
	vars := make(map[string]string, len(m))
	for k, v := range m {
		switch k {
		case "time", "level", "message", "caller":
			continue
		}
		name := journalFieldName(k)
		if name == "" {
			continue
		}
		switch x := v.(type) {
		case string:
			vars[name] = x
		default:
			b, err := json.Marshal(v)
			if err == nil {
				vars[name] = string(b)
			}
		}
	}
	if len(vars) == 0 {
		vars = nil
	}
	return msg, vars
}

func journalFieldName(k string) string {
	var b strings.Builder
	for i := 0; i < len(k); i++ {
		c := k[i]
		switch {
		case c >= 'a' && c <= 'z':
			b.WriteByte(c - 'a' + 'A')
		case c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
			b.WriteByte(c)
		case c == '-' || c == '.' || c == '_':
			b.WriteByte('_')
		default:
			return ""
		}
	}
	s := b.String()
	if s == "" || s[0] == '_' || (s[0] >= '0' && s[0] <= '9') {
		return ""
	}
	return s
}
