package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

// Store is a read-only lookup of clinic services keyed by id.
type Store struct {
	services []Service
	byID     map[string]Service
}

// NewStore builds a store from a slice of services. Duplicate ids are
// rejected so later lookups are unambiguous.
func NewStore(services []Service) (*Store, error) {
	byID := make(map[string]Service, len(services))
	for _, svc := range services {
		if svc.ID == "" {
			return nil, fmt.Errorf("catalog: service %q has empty id", svc.Name)
		}
		if _, dup := byID[svc.ID]; dup {
			return nil, fmt.Errorf("catalog: duplicate service id %q", svc.ID)
		}
		byID[svc.ID] = svc
	}
	out := make([]Service, len(services))
	copy(out, services)
	return &Store{services: out, byID: byID}, nil
}

// LoadStore reads the service catalog from a JSON file.
func LoadStore(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read %s: %w", path, err)
	}
	var services []Service
	if err := json.Unmarshal(data, &services); err != nil {
		return nil, fmt.Errorf("catalog: parse %s: %w", path, err)
	}
	return NewStore(services)
}

// DefaultServices is the built-in catalog used when no services file is
// configured.
func DefaultServices() []Service {
	return []Service{
		{ID: "cardiology_consultation", Name: "Cardiology Consultation", Category: CategoryCardiology, Price: 120, DurationMinutes: 45, PreparationNotes: "Bring any prior ECG results."},
		{ID: "gastroenterology", Name: "Gastroenterology Consultation", Category: CategoryGastroenterology, Price: 110, DurationMinutes: 40},
		{ID: "blood_analysis", Name: "Blood Analysis", Category: CategoryBloodTest, Price: 45, DurationMinutes: 15, PreparationNotes: "Fast for 8 hours before the appointment."},
		{ID: "dermatology_consultation", Name: "Dermatology Consultation", Category: CategoryDermatology, Price: 95, DurationMinutes: 30},
		{ID: "general_checkup", Name: "General Checkup", Category: CategoryGeneral, Price: 80, DurationMinutes: 30},
	}
}

// Get returns the service with the given id.
func (s *Store) Get(id string) (Service, bool) {
	svc, ok := s.byID[id]
	return svc, ok
}

// List returns services, optionally filtered by category. Catalog order is
// preserved.
func (s *Store) List(category string) []Service {
	if category == "" {
		out := make([]Service, len(s.services))
		copy(out, s.services)
		return out
	}
	var out []Service
	for _, svc := range s.services {
		if svc.Category == category {
			out = append(out, svc)
		}
	}
	return out
}

// Suggest returns up to three services for the category, ranked by how many
// of the category's keywords appear in text. Ties keep catalog order.
func (s *Store) Suggest(category, text string) []Service {
	matches := s.List(category)
	if len(matches) == 0 {
		return nil
	}

	type ranked struct {
		svc   Service
		hits  int
		index int
	}
	rankedMatches := make([]ranked, 0, len(matches))
	for i, svc := range matches {
		rankedMatches = append(rankedMatches, ranked{svc: svc, hits: serviceHits(svc, text), index: i})
	}
	sort.SliceStable(rankedMatches, func(i, j int) bool {
		if rankedMatches[i].hits != rankedMatches[j].hits {
			return rankedMatches[i].hits > rankedMatches[j].hits
		}
		return rankedMatches[i].index < rankedMatches[j].index
	})

	limit := 3
	if len(rankedMatches) < limit {
		limit = len(rankedMatches)
	}
	out := make([]Service, 0, limit)
	for _, r := range rankedMatches[:limit] {
		out = append(out, r.svc)
	}
	return out
}
