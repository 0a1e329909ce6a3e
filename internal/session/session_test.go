package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMergeSetOnce(t *testing.T) {
	facts := ExtractedFacts{}

	facts.Merge(ExtractedFacts{Date: "2025-03-10"})
	assert.Equal(t, "2025-03-10", facts.Date)

	// A later extraction must not overwrite a confirmed fact.
	facts.Merge(ExtractedFacts{Date: "2025-03-11", Time: "10:00"})
	assert.Equal(t, "2025-03-10", facts.Date)
	assert.Equal(t, "10:00", facts.Time)

	// Empty incoming fields never clear anything.
	facts.Merge(ExtractedFacts{})
	assert.Equal(t, "2025-03-10", facts.Date)
	assert.Equal(t, "10:00", facts.Time)
}

func TestMergeSymptomsUnion(t *testing.T) {
	facts := ExtractedFacts{}

	facts.Merge(ExtractedFacts{Symptoms: []string{"chest pain"}})
	facts.Merge(ExtractedFacts{Symptoms: []string{"chest pain", "nausea"}})
	assert.Equal(t, []string{"chest pain", "nausea"}, facts.Symptoms)
}

func TestMergeSymptomSentinelYields(t *testing.T) {
	facts := ExtractedFacts{}

	facts.Merge(ExtractedFacts{Symptoms: []string{symptomSentinel}})
	assert.Equal(t, []string{symptomSentinel}, facts.Symptoms)

	// The sentinel never dilutes concrete symptoms and is dropped once
	// one arrives.
	facts.Merge(ExtractedFacts{Symptoms: []string{"fever"}})
	assert.Equal(t, []string{"fever"}, facts.Symptoms)
	facts.Merge(ExtractedFacts{Symptoms: []string{symptomSentinel}})
	assert.Equal(t, []string{"fever"}, facts.Symptoms)
}

func TestAppendTrimsTranscript(t *testing.T) {
	var sess Session
	at := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		sess.Append(RolePatient, "hello", at.Add(time.Duration(i)*time.Minute), 3)
	}
	assert.Len(t, sess.Transcript, 3)
	assert.Equal(t, at.Add(4*time.Minute), sess.LastActiveAt)
}

func TestResetClearsFactsAndTranscript(t *testing.T) {
	sess := Session{
		Facts:      ExtractedFacts{Date: "2025-03-10", Symptoms: []string{"fever"}},
		Transcript: []TranscriptEntry{{Role: RolePatient, Content: "hi"}},
	}
	at := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	sess.Reset(at)

	assert.Equal(t, ExtractedFacts{}, sess.Facts)
	assert.Nil(t, sess.Transcript)
	assert.Equal(t, at, sess.LastActiveAt)
}
