package schedule

import (
	"testing"
	"time"
)

func TestParseVariants(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		raw      string
		kind     Kind
		source   string
		duration time.Duration
	}{
		{name: "cron", raw: "*/5 * * * *", kind: KindCron, source: "cron"},
		{name: "cron descriptor", raw: "@hourly", kind: KindCron, source: "cron"},
		{name: "prefixed cron", raw: "cron:0 0 * * *", kind: KindCron, source: "cron"},
		{name: "duration", raw: "10m", kind: KindInterval, source: "duration", duration: 10 * time.Minute},
		{name: "prefixed interval", raw: "interval:45s", kind: KindInterval, source: "duration", duration: 45 * time.Second},
		{name: "every prefix", raw: "every:01:30", kind: KindInterval, source: "hhmm", duration: 90 * time.Minute},
		{name: "hhmm", raw: "02:30", kind: KindInterval, source: "hhmm", duration: 150 * time.Minute},
		{name: "hhmm minutes only", raw: "00:50", kind: KindInterval, source: "hhmm", duration: 50 * time.Minute},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := Parse(tt.raw)
			if err != nil {
				t.Fatalf("Parse(%q) error: %v", tt.raw, err)
			}
			if got.Kind != tt.kind {
				t.Fatalf("Kind = %v, want %v", got.Kind, tt.kind)
			}
			if got.Source != tt.source {
				t.Fatalf("Source = %s, want %s", got.Source, tt.source)
			}
			if tt.kind == KindInterval && got.Every != tt.duration {
				t.Fatalf("Every = %v, want %v", got.Every, tt.duration)
			}
		})
	}
}

func TestParseInvalid(t *testing.T) {
	t.Parallel()
	for _, raw := range []string{
		"",
		"not-a-schedule",
		"cron:",
		"cron:not cron at all here",
		"interval:",
		"interval:-5m",
		"0s",
		"02:75",
	} {
		if _, err := Parse(raw); err == nil {
			t.Fatalf("Parse(%q): expected error", raw)
		}
	}
}

func TestCronValidatedAtParse(t *testing.T) {
	t.Parallel()
	// Five fields required; six is the Quartz style we do not accept.
	if _, err := Parse("0 0 0 * * *"); err == nil {
		t.Fatal("six-field cron accepted")
	}
}

func TestNextInterval(t *testing.T) {
	t.Parallel()
	spec, err := Parse("10m")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	from := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	if got := spec.Next(from); !got.Equal(from.Add(10 * time.Minute)) {
		t.Fatalf("Next = %v, want %v", got, from.Add(10*time.Minute))
	}
}

func TestNextCron(t *testing.T) {
	t.Parallel()
	spec, err := Parse("0 * * * *")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	from := time.Date(2026, 3, 1, 12, 30, 0, 0, time.UTC)
	want := time.Date(2026, 3, 1, 13, 0, 0, 0, time.UTC)
	if got := spec.Next(from); !got.Equal(want) {
		t.Fatalf("Next = %v, want %v", got, want)
	}
}

func TestNextZeroSpec(t *testing.T) {
	t.Parallel()
	if got := (Spec{Kind: KindInterval}).Next(time.Now()); !got.IsZero() {
		t.Fatalf("zero interval spec yielded %v", got)
	}
	if got := (Spec{Kind: KindCron, Cron: "garbage"}).Next(time.Now()); !got.IsZero() {
		t.Fatalf("invalid cron spec yielded %v", got)
	}
}
