package extract

import (
	"regexp"
	"strings"

	"predscan/internal/model"
)

// identifierPattern matches the record identifier grammar: a fixed prefix
// followed by a fixed digit count. K = 510(k), DEN = De Novo, P = PMA.
// Matching is case-insensitive; tokens not fitting the grammar are simply
// never matched, there is no malformed-identifier error path.
var identifierPattern = regexp.MustCompile(`(?i)\b(K\d{6}|DEN\d{6}|P\d{6})\b`)

// FindIdentifiers scans text for every identifier-shaped token and returns
// (offset, normalized identifier) pairs in document order. Context-free:
// zone intersection happens downstream in ClassifyCitations.
func FindIdentifiers(text string) []model.Mention {
	if text == "" {
		return nil
	}

	locs := identifierPattern.FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		return nil
	}

	mentions := make([]model.Mention, 0, len(locs))
	for _, loc := range locs {
		mentions = append(mentions, model.Mention{
			Identifier: Normalize(text[loc[0]:loc[1]]),
			Offset:     loc[0],
		})
	}

	return mentions
}

// Normalize canonicalizes an identifier token to its uppercase form.
func Normalize(id string) string {
	return strings.ToUpper(strings.TrimSpace(id))
}

// ValidIdentifier reports whether a string is a complete, well-formed
// identifier on its own.
func ValidIdentifier(id string) bool {
	loc := identifierPattern.FindStringIndex(id)
	return loc != nil && loc[0] == 0 && loc[1] == len(id)
}
