package mediatypes

import (
	"strings"

	"github.com/samber/lo"
)

// ExplodeTags splits a whitespace separated tag string into a normalized list.
func ExplodeTags(s string) []string {
	return NormalizeTags(strings.Fields(s))
}

// NormalizeTags trims, drops empties and removes duplicates while keeping
// first-seen order. Tag comparison is case-insensitive; the first spelling wins.
func NormalizeTags(tags []string) []string {
	trimmed := lo.Compact(lo.Map(tags, func(tag string, _ int) string {
		return strings.TrimSpace(tag)
	}))
	return lo.UniqBy(trimmed, strings.ToLower)
}
