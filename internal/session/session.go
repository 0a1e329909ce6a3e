// Package session holds per-conversation state: the transcript and the
// facts accumulated across turns.
package session

import "time"

// Transcript roles.
const (
	RolePatient   = "patient"
	RoleAssistant = "assistant"
)

// TranscriptEntry is one utterance in a session.
type TranscriptEntry struct {
	Role    string    `json:"role"`
	Content string    `json:"content"`
	At      time.Time `json:"at"`
}

// ExtractedFacts accumulates what the patient has told us. Fields are
// set-once: a later extraction never overwrites a field that already holds a
// value, which keeps a confirmed fact stable when the extractor mis-fires on
// a later turn. Only Reset clears them.
type ExtractedFacts struct {
	ServiceID string   `json:"service_id,omitempty"`
	Date      string   `json:"date,omitempty"`
	Time      string   `json:"time,omitempty"`
	Name      string   `json:"name,omitempty"`
	DOB       string   `json:"dob,omitempty"`
	Symptoms  []string `json:"symptoms,omitempty"`
}

// Merge folds newly extracted values into the accumulator. Empty incoming
// fields never clear anything; populated incoming fields only land on unset
// fields. Symptoms are a set union, except that a bare sentinel never
// dilutes concrete symptoms already recorded.
func (f *ExtractedFacts) Merge(update ExtractedFacts) {
	if f.ServiceID == "" && update.ServiceID != "" {
		f.ServiceID = update.ServiceID
	}
	if f.Date == "" && update.Date != "" {
		f.Date = update.Date
	}
	if f.Time == "" && update.Time != "" {
		f.Time = update.Time
	}
	if f.Name == "" && update.Name != "" {
		f.Name = update.Name
	}
	if f.DOB == "" && update.DOB != "" {
		f.DOB = update.DOB
	}
	for _, s := range update.Symptoms {
		if s == symptomSentinel && len(f.Symptoms) > 0 {
			continue
		}
		if !f.hasSymptom(s) {
			f.Symptoms = append(f.Symptoms, s)
		}
	}
	if len(f.Symptoms) > 1 {
		f.dropSymptom(symptomSentinel)
	}
}

// symptomSentinel mirrors the extractor's placeholder for "no recognizable
// symptom". It holds the set non-empty but yields to concrete symptoms.
const symptomSentinel = "general discomfort"

func (f *ExtractedFacts) dropSymptom(s string) {
	kept := f.Symptoms[:0]
	for _, have := range f.Symptoms {
		if have != s {
			kept = append(kept, have)
		}
	}
	f.Symptoms = kept
}

func (f *ExtractedFacts) hasSymptom(s string) bool {
	for _, have := range f.Symptoms {
		if have == s {
			return true
		}
	}
	return false
}

// Session is one patient conversation.
type Session struct {
	ID           string            `json:"id"`
	Facts        ExtractedFacts    `json:"facts"`
	Transcript   []TranscriptEntry `json:"transcript"`
	CreatedAt    time.Time         `json:"created_at"`
	LastActiveAt time.Time         `json:"last_active_at"`
}

// Append adds an utterance to the transcript, dropping the oldest entries
// once the limit is exceeded. limit <= 0 means unbounded.
func (s *Session) Append(role, content string, at time.Time, limit int) {
	s.Transcript = append(s.Transcript, TranscriptEntry{Role: role, Content: content, At: at})
	if limit > 0 && len(s.Transcript) > limit {
		s.Transcript = s.Transcript[len(s.Transcript)-limit:]
	}
	s.LastActiveAt = at
}

// Reset clears facts and transcript but keeps the session id alive.
func (s *Session) Reset(at time.Time) {
	s.Facts = ExtractedFacts{}
	s.Transcript = nil
	s.LastActiveAt = at
}
