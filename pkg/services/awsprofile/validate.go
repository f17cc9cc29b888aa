package awsprofile

import (
	"context"
	"regexp"
	"strings"

	"github.com/de-tools/blocks/pkg/apperrors"
)

var (
	regionPattern  = regexp.MustCompile(`^[a-z]{2}(-gov|-iso[a-z]?)?-[a-z]+-\d{1,2}$`)
	roleARNPattern = regexp.MustCompile(`^arn:aws(-cn|-us-gov)?:iam::\d{12}:role/[\w+=,.@/-]{1,512}$`)
)

// ConnectionRequest is a proposed connection from the onboarding wizard.
type ConnectionRequest struct {
	Profile string
	Region  string
	RoleARN string
}

type Issue struct {
	Field   string
	Message string
}

type ValidationResult struct {
	Valid   bool
	Profile string
	Region  string
	RoleARN string
	Issues  []Issue
}

// ValidateConnection checks req against the local profiles without calling AWS.
// Problems with the proposal are reported as issues; only a missing profile
// name is a request error.
func ValidateConnection(ctx context.Context, reg Registry, req ConnectionRequest) (ValidationResult, error) {
	name := strings.TrimSpace(req.Profile)
	if name == "" {
		return ValidationResult{}, apperrors.Validation("profile", "profile is required", "Pick one of the profiles returned by GET /aws/profiles")
	}

	result := ValidationResult{Profile: name, Region: strings.TrimSpace(req.Region), RoleARN: strings.TrimSpace(req.RoleARN)}

	profile, err := reg.GetProfile(ctx, name)
	switch {
	case apperrors.KindOf(err) == apperrors.KindNotFound:
		result.Issues = append(result.Issues, Issue{Field: "profile", Message: "profile not found in the shared AWS config or credentials file"})
	case err != nil:
		return ValidationResult{}, err
	default:
		if !profile.HasCredentials && !profile.SSO && profile.RoleARN == "" && profile.SourceProfile == "" {
			result.Issues = append(result.Issues, Issue{Field: "profile", Message: "profile has no credentials, SSO session or role configured"})
		}
		if result.Region == "" {
			result.Region = profile.Region
		}
	}

	switch {
	case result.Region == "":
		result.Issues = append(result.Issues, Issue{Field: "region", Message: "no region given and the profile has no default region"})
	case !regionPattern.MatchString(result.Region):
		result.Issues = append(result.Issues, Issue{Field: "region", Message: "region " + result.Region + " is not a valid AWS region name"})
	}

	if result.RoleARN != "" && !roleARNPattern.MatchString(result.RoleARN) {
		result.Issues = append(result.Issues, Issue{Field: "roleArn", Message: "role ARN must look like arn:aws:iam::123456789012:role/Name"})
	}

	result.Valid = len(result.Issues) == 0
	return result, nil
}
