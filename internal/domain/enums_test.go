package domain

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseEnumsRejectUnknown(t *testing.T) {
	if _, err := ParseRole("superuser"); !IsValidation(err) {
		t.Errorf("role: want validation error, got %v", err)
	}
	if _, err := ParseDietaryType("vegan"); !IsValidation(err) {
		t.Errorf("dietary type: want validation error, got %v", err)
	}
	if _, err := ParseMenuStatus("draft"); !IsValidation(err) {
		t.Errorf("status: want validation error, got %v", err)
	}
	if r, err := ParseRole("admin"); err != nil || r != RoleAdmin {
		t.Errorf("ParseRole(admin) = %v, %v", r, err)
	}
}

func TestEnumsDecodeFromJSON(t *testing.T) {
	var in struct {
		Type   DietaryType `json:"type"`
		Status MenuStatus  `json:"status"`
		Date   Date        `json:"date"`
	}
	if err := json.Unmarshal([]byte(`{"type":"celiac-safe","status":"pending-confirmation","date":"2025-03-07"}`), &in); err != nil {
		t.Fatal(err)
	}
	if in.Type != DietCeliacSafe || in.Status != StatusPending || in.Date != "2025-03-07" {
		t.Fatalf("decoded %+v", in)
	}

	err := json.Unmarshal([]byte(`{"type":"vegan"}`), &in)
	if !IsValidation(err) {
		t.Fatalf("want validation error for unknown type, got %v", err)
	}
}

func TestParseDate(t *testing.T) {
	for _, bad := range []string{"", "2025-13-01", "07/03/2025", "2025-02-30"} {
		if _, err := ParseDate(bad); !IsValidation(err) {
			t.Errorf("%q: want validation error, got %v", bad, err)
		}
	}
	if d, err := ParseDate(" 2025-03-07 "); err != nil || d != "2025-03-07" {
		t.Errorf("ParseDate = %q, %v", d, err)
	}
}

func TestCalendarToday(t *testing.T) {
	loc := time.FixedZone("ART", -3*60*60)
	// 02:00 UTC 在 UTC-3 仍是前一天
	now := time.Date(2025, 3, 8, 2, 0, 0, 0, time.UTC)
	cal := Calendar{Loc: loc, Now: func() time.Time { return now }}
	if got := cal.Today(); got != "2025-03-07" {
		t.Fatalf("Today = %s, want 2025-03-07", got)
	}
	utc := Calendar{Now: func() time.Time { return now }}
	if got := utc.Today(); got != "2025-03-08" {
		t.Fatalf("UTC Today = %s, want 2025-03-08", got)
	}
}

func TestNewCalendarBadZone(t *testing.T) {
	if _, err := NewCalendar("Mars/Olympus"); err == nil {
		t.Fatal("want error for unknown zone")
	}
}
