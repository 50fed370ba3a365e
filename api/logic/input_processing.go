/* input_processing.go
 * Contains the logic for tokenising user input and resolving pool references typed by users
 */

package logic

import (
	"sort"
	"strconv"
	"strings"

	apperrors "poolmanager-bot/api/errors"

	"github.com/go-andiamo/splitter"
	"github.com/lithammer/fuzzysearch/fuzzy"
)

var spaceSplitter = mustSplitter()

func mustSplitter() splitter.Splitter {
	// splitter instead of strings.Fields so quoted names like "Padel Martes" stay one token
	s, err := splitter.NewSplitter(' ', splitter.DoubleQuotes, splitter.LeftRightDoubleDoubleQuotes)
	if err != nil {
		panic(err)
	}
	return s
}

// Tokenize splits a message on spaces, keeping double-quoted sections together and stripping the quotes.
// Preconditions: Receives the raw message text
// Postconditions: Returns the non-empty tokens, or an invalid-input error for unbalanced quotes
func Tokenize(text string) ([]string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}

	parts, err := spaceSplitter.Split(text)
	if err != nil {
		return nil, apperrors.NewAppError(apperrors.CodeInvalidInput, "unbalanced quotes", err)
	}

	tokens := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(stripQuotes(part))
		if part == "" {
			continue
		}
		tokens = append(tokens, part)
	}
	return tokens, nil
}

func stripQuotes(s string) string {
	s = strings.ReplaceAll(s, "\"", "")
	s = strings.ReplaceAll(s, "“", "")
	s = strings.ReplaceAll(s, "”", "")
	return s
}

// Normalize lower-cases and trims a message the way command keywords are compared
func Normalize(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

// IsSelection reports whether the message is a bare list number
func IsSelection(normalized string) bool {
	if normalized == "" {
		return false
	}
	for _, r := range normalized {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// SelectionIndex converts a list number into a zero-based pool index. Numbers too large to
// parse come back as -1 so they fall into the out-of-range path
func SelectionIndex(normalized string) int {
	n, err := strconv.Atoi(normalized)
	if err != nil {
		return -1
	}
	return n - 1
}

// FindPoolID maps a reference to a pool id only when it names the pool exactly: the id itself, in any
// case, or a name that derives to it. Used where acting on the wrong pool cannot be undone
// Preconditions: Receives the user's reference and the ids of all pools
// Postconditions: Returns the matching id, a not-found error, or an invalid-input error when ref is empty
func FindPoolID(ref string, ids []string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", apperrors.InvalidInput("empty pool reference")
	}

	lowerRef := strings.ToLower(ref)
	derived := PoolIDFromName(ref)
	for _, id := range ids {
		if strings.ToLower(id) == lowerRef || id == derived {
			return id, nil
		}
	}
	return "", apperrors.NotFound("pool %q not found", ref)
}

// ResolvePoolID maps what a user typed to an existing pool id. An exact match as in FindPoolID wins;
// otherwise the closest fuzzy match is taken as long as it is not tied with another pool.
// Preconditions: Receives the user's reference and the ids of all pools
// Postconditions: Returns the matching id, a not-found error, or an invalid-input error when ambiguous
func ResolvePoolID(ref string, ids []string) (string, error) {
	id, err := FindPoolID(ref, ids)
	if err == nil || !apperrors.Is(err, apperrors.CodeNotFound) {
		return id, err
	}

	derived := PoolIDFromName(strings.TrimSpace(ref))
	ranks := fuzzy.RankFindNormalizedFold(derived, ids)
	if len(ranks) == 0 {
		return "", apperrors.NotFound("pool %q not found", ref)
	}
	sort.Sort(ranks)
	if len(ranks) > 1 && ranks[0].Distance == ranks[1].Distance {
		return "", apperrors.InvalidInput("pool %q is ambiguous between %s and %s", ref, ranks[0].Target, ranks[1].Target)
	}
	return ranks[0].Target, nil
}
