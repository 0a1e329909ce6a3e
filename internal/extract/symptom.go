package extract

import "strings"

// GeneralDiscomfort is the sentinel symptom used when nothing in the fixed
// vocabulary matches, so downstream code never sees an empty symptom set.
const GeneralDiscomfort = "general discomfort"

// symptomVocabulary is a deliberately coarse keyword list, not a medical
// model. Multi-word entries come before their single-word substrings so
// "chest pain" wins over "pain".
var symptomVocabulary = []string{
	"chest pain",
	"shortness of breath",
	"back pain",
	"sore throat",
	"stomach ache",
	"palpitations",
	"heartburn",
	"nausea",
	"vomiting",
	"diarrhea",
	"constipation",
	"bloating",
	"headache",
	"migraine",
	"dizziness",
	"fatigue",
	"fever",
	"cough",
	"rash",
	"itching",
	"acne",
	"swelling",
	"pain",
}

// Symptoms scans the utterance against the fixed vocabulary and returns the
// matched symptoms in vocabulary order. The result is never empty.
func Symptoms(text string) []string {
	lower := strings.ToLower(text)
	var found []string
	for _, symptom := range symptomVocabulary {
		if !strings.Contains(lower, symptom) {
			continue
		}
		subsumed := false
		for _, prior := range found {
			if strings.Contains(prior, symptom) {
				subsumed = true
				break
			}
		}
		if !subsumed {
			found = append(found, symptom)
		}
	}
	if len(found) == 0 {
		return []string{GeneralDiscomfort}
	}
	return found
}
