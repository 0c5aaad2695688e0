package engine_test

import (
	"sync"
	"testing"
	"time"

	"parlez/engine"
)

func TestDayKeyUsesUTC(t *testing.T) {
	paris := time.FixedZone("CET", 1*60*60)
	// 00:30 in Paris is still the previous day in UTC.
	late := time.Date(2025, 3, 11, 0, 30, 0, 0, paris)
	if got := engine.DayKey(late); got != "2025-03-10" {
		t.Errorf("got %q, want 2025-03-10", got)
	}
}

func TestSameDayAcrossZones(t *testing.T) {
	ny := time.FixedZone("EST", -5*60*60)
	a := time.Date(2025, 3, 10, 23, 0, 0, 0, time.UTC)
	b := time.Date(2025, 3, 10, 20, 0, 0, 0, ny) // 01:00 UTC next day
	if engine.SameDay(a, b) {
		t.Error("expected different UTC days")
	}
	if !engine.SameDay(a, a.Add(30*time.Minute)) {
		t.Error("expected same UTC day")
	}
}

func TestPrevDayKey(t *testing.T) {
	cases := map[string]string{
		"2025-03-10": "2025-03-09",
		"2025-03-01": "2025-02-28",
		"2024-03-01": "2024-02-29",
		"2025-01-01": "2024-12-31",
		"garbage":    "",
	}
	for in, want := range cases {
		if got := engine.PrevDayKey(in); got != want {
			t.Errorf("PrevDayKey(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNormalizeConcurrent(t *testing.T) {
	inputs := map[string]string{
		"élève":  "eleve",
		"Ça va":  "ca va",
		"GARÇON": "garcon",
		"déjà":   "deja",
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for n := 0; n < 200; n++ {
				for in, want := range inputs {
					if got := engine.Normalize(in); got != want {
						t.Errorf("Normalize(%q) = %q, want %q", in, got, want)
					}
				}
			}
		}()
	}
	wg.Wait()
}

func TestNormalize(t *testing.T) {
	cases := map[string]string{
		"  Paris  ":    "paris",
		"élève":        "eleve",
		"Ça va":        "ca va",
		"GARÇON":       "garcon",
		"déjà":         "deja",
		"bonjour":      "bonjour",
		"Je M'Appelle": "je m'appelle",
	}
	for in, want := range cases {
		if got := engine.Normalize(in); got != want {
			t.Errorf("Normalize(%q) = %q, want %q", in, got, want)
		}
	}
}
