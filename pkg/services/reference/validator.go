package reference

import (
	"fmt"
	"strings"

	"github.com/de-tools/blocks/pkg/apperrors"
	"github.com/de-tools/blocks/pkg/models/domain"
)

type ViolationKind string

const (
	ViolationUnknownReference   ViolationKind = "unknown_reference"
	ViolationMalformedToken     ViolationKind = "malformed_token"
	ViolationCaseMismatch       ViolationKind = "case_mismatch"
	ViolationDanglingReference  ViolationKind = "dangling_reference"
	ViolationDuplicateReference ViolationKind = "duplicate_reference"
)

// Violation is the first integrity problem found in a response. It is carried
// as the cause of a reference integrity error.
type Violation struct {
	Kind  ViolationKind
	Token string
}

func (v *Violation) Error() string {
	return fmt.Sprintf("%s %q", v.Kind, v.Token)
}

// Validate checks that every inline marker in resp.Response is well formed and
// listed in resp.References, and that every listed reference is well formed and
// cited inline exactly once in the list. An unterminated "[REF:" or an empty
// "[REF:]" counts as a malformed marker. The first violation in text order is
// returned.
func Validate(resp domain.AssistantResponse) error {
	listed := make(map[string]struct{}, len(resp.References))
	for _, ref := range resp.References {
		listed[ref] = struct{}{}
	}

	cited := make(map[string]struct{})
	text := resp.Response
	for _, loc := range anyCaseMarker.FindAllStringIndex(text, -1) {
		start := loc[0]
		prefix := text[start:loc[1]]
		rest := text[loc[1]:]

		end := strings.Index(rest, inlineSuffix)
		if end < 0 {
			return violation(ViolationMalformedToken, text[start:])
		}
		marker := text[start : loc[1]+end+1]
		if prefix != inlinePrefix {
			return violation(ViolationCaseMismatch, marker)
		}

		token := rest[:end]
		if !IsValidToken(token) {
			return violation(ViolationMalformedToken, marker)
		}
		if _, ok := listed[token]; !ok {
			return violation(ViolationUnknownReference, token)
		}
		cited[token] = struct{}{}
	}

	seen := make(map[string]struct{}, len(resp.References))
	for _, ref := range resp.References {
		if !IsValidToken(ref) {
			return violation(ViolationMalformedToken, ref)
		}
		if _, dup := seen[ref]; dup {
			return violation(ViolationDuplicateReference, ref)
		}
		seen[ref] = struct{}{}
		if _, ok := cited[ref]; !ok {
			return violation(ViolationDanglingReference, ref)
		}
	}

	return nil
}

func violation(kind ViolationKind, token string) error {
	v := &Violation{Kind: kind, Token: token}
	err := apperrors.ReferenceIntegrity(v.Error())
	err.Err = v
	return err
}
