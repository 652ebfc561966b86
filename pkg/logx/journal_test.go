package logx

import (
	"reflect"
	"testing"

	"github.com/coreos/go-systemd/v22/journal"
	"github.com/rs/zerolog"
)

func TestSplitJournalFields(t *testing.T) {
	t.Parallel()
	line := []byte(`{"time":"2026-01-01T00:00:00Z","level":"info","caller":"x.go:1",` +
		`"message":"notification created","variant":"dbus","count":3}`)

	msg, vars := splitJournalFields(line)
	if msg != "notification created" {
		t.Fatalf("msg = %q", msg)
	}
	want := map[string]string{"VARIANT": "dbus", "COUNT": "3"}
	if !reflect.DeepEqual(vars, want) {
		t.Fatalf("vars = %v, want %v", vars, want)
	}
}

func TestSplitJournalFieldsNonJSON(t *testing.T) {
	t.Parallel()
	msg, vars := splitJournalFields([]byte("plain line\n"))
	if msg != "plain line" {
		t.Fatalf("msg = %q", msg)
	}
	if vars != nil {
		t.Fatalf("vars = %v, want nil", vars)
	}
}

func TestJournalFieldName(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in, want string
	}{
		{"variant", "VARIANT"},
		{"dedup-window", "DEDUP_WINDOW"},
		{"a.b_c", "A_B_C"},
		{"_leading", ""},
		{"9lives", ""},
		{"emojié", ""},
	}
	for _, tt := range tests {
		if got := journalFieldName(tt.in); got != tt.want {
			t.Fatalf("journalFieldName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestJournalPriority(t *testing.T) {
	t.Parallel()
	tests := []struct {
		level zerolog.Level
		want  journal.Priority
	}{
		{zerolog.TraceLevel, journal.PriDebug},
		{zerolog.DebugLevel, journal.PriDebug},
		{zerolog.InfoLevel, journal.PriInfo},
		{zerolog.WarnLevel, journal.PriWarning},
		{zerolog.ErrorLevel, journal.PriErr},
		{zerolog.FatalLevel, journal.PriErr},
	}
	for _, tt := range tests {
		if got := journalPriority(tt.level); got != tt.want {
			t.Fatalf("journalPriority(%s) = %v, want %v", tt.level, got, tt.want)
		}
	}
}

func TestParseLevel(t *testing.T) {
	t.Parallel()
	if got := parseLevel("debug", zerolog.InfoLevel); got != zerolog.DebugLevel {
		t.Fatalf("parseLevel(debug) = %v", got)
	}
	if got := parseLevel("WARNING", zerolog.InfoLevel); got != zerolog.WarnLevel {
		t.Fatalf("parseLevel(WARNING) = %v", got)
	}
	if got := parseLevel("??", zerolog.ErrorLevel); got != zerolog.ErrorLevel {
		t.Fatalf("parseLevel fallback = %v", got)
	}
}

func TestNopLoggerIsSilent(t *testing.T) {
	t.Parallel()
	log := Nop()
	// Must not panic, must not write anywhere.
	log.Info("ignored", String("k", "v"), Err(nil))
	log.With(Int("n", 1)).Error("also ignored")
}
