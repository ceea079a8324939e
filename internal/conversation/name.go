package conversation

import (
	"regexp"
	"strings"
)

// namePatterns match explicit introductions in Spanish and English.
// The captured group is the name itself.
var namePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^\s*me\s+llamo\s+(.+)$`),
	regexp.MustCompile(`(?i)^\s*mi\s+nombre\s+es\s+(.+)$`),
	regexp.MustCompile(`(?i)^\s*soy\s+(.+)$`),
	regexp.MustCompile(`(?i)^\s*my\s+name\s+is\s+(.+)$`),
	regexp.MustCompile(`(?i)^\s*i\s+am\s+(.+)$`),
	regexp.MustCompile(`(?i)^\s*i'm\s+(.+)$`),
}

// greetings and fillers that a short message must not be mistaken for a name.
var nameStoplist = map[string]struct{}{
	"hola":    {},
	"buenas":  {},
	"buenos":  {},
	"dias":    {},
	"días":    {},
	"tardes":  {},
	"noches":  {},
	"gracias": {},
	"ok":      {},
	"okay":    {},
	"si":      {},
	"sí":      {},
	"no":      {},
	"hello":   {},
	"hi":      {},
	"hey":     {},
	"thanks":  {},
	"cotizar": {},
	"precio":  {},
	"renta":   {},
	"info":    {},
}

var nonNameChars = regexp.MustCompile(`[0-9!?¿¡.,;:@#$%&*()\[\]{}<>/\\+=_"']`)

// ResolveName tries to pull the sender's name out of a free-text message.
// It accepts either an explicit introduction ("me llamo X", "my name is X")
// or a short one-to-two token message that is not a greeting or filler and
// contains no digits or punctuation.
func ResolveName(text string) (string, bool) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return "", false
	}

	for _, pattern := range namePatterns {
		if m := pattern.FindStringSubmatch(trimmed); m != nil {
			if name := cleanName(m[1]); name != "" {
				return name, true
			}
			return "", false
		}
	}

	tokens := strings.Fields(trimmed)
	if len(tokens) == 0 || len(tokens) > 2 {
		return "", false
	}
	if nonNameChars.MatchString(trimmed) {
		return "", false
	}
	for _, token := range tokens {
		if _, stopped := nameStoplist[strings.ToLower(token)]; stopped {
			return "", false
		}
	}

	return cleanName(trimmed), true
}

// cleanName title-cases each token and caps the name at three tokens so a
// trailing sentence after "soy ..." does not become part of the name.
func cleanName(raw string) string {
	raw = strings.TrimRight(strings.TrimSpace(raw), ".,!")
	tokens := strings.Fields(raw)
	if len(tokens) == 0 {
		return ""
	}
	if len(tokens) > 3 {
		tokens = tokens[:3]
	}
	for i, token := range tokens {
		runes := []rune(strings.ToLower(token))
		runes[0] = []rune(strings.ToUpper(string(runes[0])))[0]
		tokens[i] = string(runes)
	}
	return strings.Join(tokens, " ")
}
