package intent

import (
	"regexp"
	"strings"
)

// phonePattern accepts local Saudi numbers (05xxxxxxxx), bare international
// forms (9665xxxxxxxx, 009665xxxxxxxx) and a leading +. Separators are not
// part of the number; messages write them contiguously.
var phonePattern = regexp.MustCompile(`\+?\d{9,14}`)

var emailPattern = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)

// companyTriggers are the tokens that introduce a company name; the next one
// or two tokens are taken as the name.
var companyTriggers = []string{"شركة", "مؤسسة", "company", "corp"}

// companyNameTokens caps how many tokens after a trigger form the name.
const companyNameTokens = 2

// ExtractEntities runs the three fixed extractors over the message. It is
// independent of intent matching; missing entities stay zero-valued.
func ExtractEntities(message string) Entities {
	return Entities{
		Phone:   phonePattern.FindString(message),
		Email:   emailPattern.FindString(message),
		Company: extractCompany(message),
	}
}

// extractCompany looks for a trigger word ("شركة", "company", ...) and takes
// the adjacent tokens as the name, trimmed of punctuation.
func extractCompany(message string) string {
	tokens := strings.Fields(message)
	for i, tok := range tokens {
		if !isCompanyTrigger(tok) {
			continue
		}
		var name []string
		for j := i + 1; j < len(tokens) && len(name) < companyNameTokens; j++ {
			t := strings.Trim(tokens[j], ".,!?؟،:;\"'()")
			if t == "" {
				break
			}
			name = append(name, t)
		}
		if len(name) > 0 {
			return strings.Join(name, " ")
		}
	}
	return ""
}

func isCompanyTrigger(token string) bool {
	t := strings.ToLower(strings.Trim(token, ".,!?؟،:;\"'()"))
	for _, trigger := range companyTriggers {
		if t == trigger {
			return true
		}
	}
	return false
}
