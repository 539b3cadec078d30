// Package dedup detects exact, canonical, and near-duplicate prompts.
//
// A prompt passes through three checks before it is accepted:
//  1. Exact match against previously accepted strings
//  2. Canonical hash match (whitespace and ?!. removed)
//  3. Token-set Jaccard similarity against every accepted prompt
//
// The Index and Judge are owned by a single generation run and are not safe
// for concurrent use.
package dedup

import "strings"

// canonicalPunct are the marks dropped from the canonical form.
const canonicalPunct = "?!."

// similarityPunct are the marks dropped before tokenizing for Jaccard.
var similarityPunct = strings.NewReplacer("?", "", "!", "")

// Normalize returns the canonical form of s: whitespace runs collapsed to a
// single space, leading and trailing space trimmed, and '?', '!', '.' removed.
// Word order and all other characters are preserved.
func Normalize(s string) string {
	fields := strings.Fields(s)
	out := fields[:0]
	for _, f := range fields {
		f = strings.Map(func(r rune) rune {
			if strings.ContainsRune(canonicalPunct, r) {
				return -1
			}
			return r
		}, f)
		if f != "" {
			out = append(out, f)
		}
	}
	return strings.Join(out, " ")
}

// Tokens splits s on whitespace after removing '?' and '!'.
func Tokens(s string) []string {
	return strings.Fields(similarityPunct.Replace(s))
}

// WordCount returns the number of whitespace-separated words in s.
func WordCount(s string) int {
	return len(strings.Fields(s))
}

// UniqueWords returns the number of distinct whitespace-separated words in s.
func UniqueWords(s string) int {
	seen := make(map[string]struct{})
	for _, w := range strings.Fields(s) {
		seen[w] = struct{}{}
	}
	return len(seen)
}
