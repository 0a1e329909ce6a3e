package catalog

import (
	"os"
	"path/filepath"
	"testing"
)

func testServices() []Service {
	return []Service{
		{ID: "cardiology_consultation", Name: "Cardiology Consultation", Category: CategoryCardiology, Price: 120, DurationMinutes: 45},
		{ID: "cardiac_stress_test", Name: "Cardiac Stress Test", Category: CategoryCardiology, Price: 150, DurationMinutes: 60},
		{ID: "heart_ultrasound", Name: "Heart Ultrasound", Category: CategoryCardiology, Price: 140, DurationMinutes: 30},
		{ID: "holter_monitoring", Name: "Holter Monitoring", Category: CategoryCardiology, Price: 90, DurationMinutes: 20},
		{ID: "gastroenterology_consultation", Name: "Gastroenterology Consultation", Category: CategoryGastroenterology, Price: 110, DurationMinutes: 40},
		{ID: "blood_analysis", Name: "Blood Analysis", Category: CategoryBloodTest, Price: 50, DurationMinutes: 20, PreparationNotes: "Fast for 8 hours before the test."},
	}
}

func TestNewStoreRejectsDuplicateIDs(t *testing.T) {
	services := testServices()
	services = append(services, Service{ID: "blood_analysis", Name: "Blood Analysis Copy", Category: CategoryBloodTest})
	if _, err := NewStore(services); err == nil {
		t.Fatal("expected duplicate id error")
	}
}

func TestLoadStoreFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "services.json")
	payload := `[{"id":"blood_analysis","name":"Blood Analysis","category":"blood-test","price":50,"duration_minutes":20}]`
	if err := os.WriteFile(path, []byte(payload), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	store, err := LoadStore(path)
	if err != nil {
		t.Fatalf("LoadStore returned error: %v", err)
	}
	svc, ok := store.Get("blood_analysis")
	if !ok {
		t.Fatal("expected blood_analysis to be present")
	}
	if svc.Price != 50 || svc.DurationMinutes != 20 {
		t.Fatalf("unexpected service payload: %+v", svc)
	}
}

func TestMatchCategory(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"I have chest pain and feel dizzy", CategoryCardiology},
		{"my stomach hurts after eating", CategoryGastroenterology},
		{"I need a blood test", CategoryBloodTest},
		{"there is a weird rash on my arm", CategoryDermatology},
		{"just a routine checkup please", CategoryGeneral},
		{"hello there", ""},
	}
	for _, tt := range tests {
		if got := MatchCategory(tt.text); got != tt.want {
			t.Fatalf("MatchCategory(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}

func TestMatchCategoryFirstMatchWins(t *testing.T) {
	// Mentions both heart and stomach; cardiology is earlier in the table.
	if got := MatchCategory("my heart races and my stomach hurts"); got != CategoryCardiology {
		t.Fatalf("expected cardiology to win, got %q", got)
	}
}

func TestListFiltersByCategory(t *testing.T) {
	store, err := NewStore(testServices())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	cardio := store.List(CategoryCardiology)
	if len(cardio) != 4 {
		t.Fatalf("expected 4 cardiology services, got %d", len(cardio))
	}
	all := store.List("")
	if len(all) != 6 {
		t.Fatalf("expected 6 services, got %d", len(all))
	}
}

func TestSuggestTopThreeRankedWithCatalogOrderTies(t *testing.T) {
	store, err := NewStore(testServices())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	got := store.Suggest(CategoryCardiology, "I have chest pain, can I book a cardiology consultation?")
	if len(got) != 3 {
		t.Fatalf("expected 3 suggestions, got %d", len(got))
	}
	// "cardiology" and "consultation" both appear in the text, so the
	// consultation outranks the rest; remaining ties keep catalog order.
	if got[0].ID != "cardiology_consultation" {
		t.Fatalf("expected consultation first, got %s", got[0].ID)
	}
	if got[1].ID != "cardiac_stress_test" || got[2].ID != "heart_ultrasound" {
		t.Fatalf("expected catalog-order ties, got %s, %s", got[1].ID, got[2].ID)
	}
}

func TestSuggestUnknownCategoryReturnsNil(t *testing.T) {
	store, err := NewStore(testServices())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	if got := store.Suggest("radiology", "anything"); got != nil {
		t.Fatalf("expected nil for unknown category, got %v", got)
	}
}
