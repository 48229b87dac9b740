package model

import (
	"strings"

	"golang.org/x/text/cases"
)

// NormalizedName folds case and collapses whitespace so that two
// spellings of the same business name compare equal. This is the
// canonical form used for identity matching in both the deduplicator
// and the store.
func NormalizedName(s string) string {
	folded := cases.Fold().String(strings.TrimSpace(s))
	return strings.Join(strings.Fields(folded), " ")
}
