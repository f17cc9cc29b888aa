// Package reference implements the citation token grammar used by assistant
// responses and the validator that gates every response before it leaves the
// service.
package reference

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/de-tools/blocks/pkg/models/domain"
)

const (
	inlinePrefix = "[REF:"
	inlineSuffix = "]"
)

var (
	tokenPattern  = regexp.MustCompile(`^(agg|rec):[A-Za-z0-9:-]+$`)
	inlinePattern = regexp.MustCompile(`^\[REF:(agg|rec):[A-Za-z0-9:-]+\]$`)
	extractor     = regexp.MustCompile(`\[REF:([^\]]+)\]`)
	anyCaseMarker = regexp.MustCompile(`(?i)\[ref:`)
)

// IsValidToken reports whether s is a bare token such as "agg:2025-09-19T10".
func IsValidToken(s string) bool {
	return tokenPattern.MatchString(s)
}

// IsValidInline reports whether s is a single inline marker such as
// "[REF:rec:6f1c...]". Markers are case-sensitive.
func IsValidInline(s string) bool {
	return inlinePattern.MatchString(s)
}

func ParseToken(s string) (domain.ReferenceToken, error) {
	if !IsValidToken(s) {
		return domain.ReferenceToken{}, fmt.Errorf("malformed reference token %q", s)
	}
	kind, id, _ := strings.Cut(s, ":")
	return domain.ReferenceToken{Kind: domain.ReferenceKind(kind), ID: id}, nil
}

// Extract returns the token text of every [REF:...] marker in text, in order of
// appearance. Duplicates are kept.
func Extract(text string) []string {
	matches := extractor.FindAllStringSubmatch(text, -1)
	tokens := make([]string, 0, len(matches))
	for _, m := range matches {
		tokens = append(tokens, m[1])
	}
	return tokens
}

// Dedupe keeps the first occurrence of every token.
func Dedupe(tokens []string) []string {
	seen := make(map[string]struct{}, len(tokens))
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// Reconcile rebuilds the references of resp from the markers present in its
// text. Malformed markers are left for Validate to reject.
func Reconcile(resp domain.AssistantResponse) domain.AssistantResponse {
	var refs []string
	for _, t := range Dedupe(Extract(resp.Response)) {
		if IsValidToken(t) {
			refs = append(refs, t)
		}
	}
	if refs == nil {
		refs = []string{}
	}
	resp.References = refs
	return resp
}
