package extract

import (
	"regexp"
	"strings"
)

var (
	capitalizedNamePattern = regexp.MustCompile(`\b([A-Z][a-z]+(?:\s+[A-Z][a-z]+){1,3})\b`)
	introPhrasePattern     = regexp.MustCompile(`(?i)\b(?:my name is|i am|i'm|it is|it's|this is)\b`)
	namePunctuation        = regexp.MustCompile(`[^\p{L}\s'-]`)
)

// Name finds the patient's full name in the utterance. Extraction only runs
// when identityAsked is true, that is when the transcript shows the assistant
// already asked for a full name. Without that gate ordinary capitalized words
// ("Monday", "Cardiology") would be picked up as names.
func Name(text string, identityAsked bool) (string, bool) {
	if !identityAsked {
		return "", false
	}

	stripped := introPhrasePattern.ReplaceAllString(text, " ")
	if m := capitalizedNamePattern.FindStringSubmatch(stripped); m != nil {
		return m[1], true
	}

	// Fallback for all-lowercase replies like "jane marie doe".
	cleaned := strings.TrimSpace(namePunctuation.ReplaceAllString(stripped, " "))
	tokens := strings.Fields(cleaned)
	if len(tokens) < 2 || len(tokens) > 4 {
		return "", false
	}
	for i, tok := range tokens {
		tokens[i] = titleCase(tok)
	}
	return strings.Join(tokens, " "), true
}

func titleCase(token string) string {
	if token == "" {
		return token
	}
	lower := strings.ToLower(token)
	return strings.ToUpper(lower[:1]) + lower[1:]
}
