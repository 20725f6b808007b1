package cache

import (
	"strconv"
	"strings"
	"unicode/utf16"
)

// Key namespaces. A full key is "<namespace>-<hash>".
const (
	NamespaceFlattenedSummary = "flattened-summary"
	NamespaceSummary          = "summary"
	NamespaceSimilarity       = "similarity"
)

// Hash is the 32 bit string hash used for cache keys: h = h*31 + c over the
// UTF-16 code units of s, wrapping on overflow. Keys written by earlier
// versions of the reader use the same hash, so it must not change.
func Hash(s string) int32 {
	var h int32
	for _, c := range utf16.Encode([]rune(s)) {
		h = h*31 + int32(c)
	}
	return h
}

// HashString renders Hash(s) in decimal.
func HashString(s string) string {
	return strconv.FormatInt(int64(Hash(s)), 10)
}

// FlattenedSummaryKey is the cache key of the flattened summary of text.
func FlattenedSummaryKey(text string) string {
	return NamespaceFlattenedSummary + "-" + HashString(text)
}

// SummaryKey is the cache key of the summary tree of text.
func SummaryKey(text string) string {
	return NamespaceSummary + "-" + HashString(text)
}

// SimilarityKey is the cache key of a similarity lookup. Targets are hashed as
// one concatenated string.
func SimilarityKey(source string, targets []string) string {
	return NamespaceSimilarity + "-" + similarityHash(source, targets)
}

func similarityHash(source string, targets []string) string {
	return HashString(source) + "-" + HashString(strings.Join(targets, ""))
}
