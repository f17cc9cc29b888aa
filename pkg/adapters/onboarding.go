package adapters

import (
	"time"

	"github.com/de-tools/blocks/pkg/models/api"
	"github.com/de-tools/blocks/pkg/models/domain"
	"github.com/de-tools/blocks/pkg/services/awsprofile"
)

func MapAWSProfileDomainToApi(p awsprofile.Profile) api.AWSProfile {
	return api.AWSProfile{
		Name:           p.Name,
		Region:         p.Region,
		RoleARN:        p.RoleARN,
		SourceProfile:  p.SourceProfile,
		HasCredentials: p.HasCredentials,
		SSO:            p.SSO,
	}
}

func MapConnectionRequestApiToDomain(r api.ConnectionRequest) awsprofile.ConnectionRequest {
	return awsprofile.ConnectionRequest{Profile: r.Profile, Region: r.Region, RoleARN: r.RoleARN}
}

func MapConnectionValidationDomainToApi(v awsprofile.ValidationResult) api.ConnectionValidation {
	issues := make([]api.ConnectionIssue, 0, len(v.Issues))
	for _, i := range v.Issues {
		issues = append(issues, api.ConnectionIssue{Field: i.Field, Message: i.Message})
	}
	return api.ConnectionValidation{
		Valid:   v.Valid,
		Profile: v.Profile,
		Region:  v.Region,
		RoleARN: v.RoleARN,
		Issues:  issues,
	}
}

func MapPerformanceMarkApiToDomain(sessionID string, m api.PerformanceMark) domain.PerformanceMark {
	var ts time.Time
	if m.Timestamp != nil {
		ts = m.Timestamp.UTC()
	}
	return domain.PerformanceMark{
		Name:       m.Name,
		Value:      m.Value,
		Timestamp:  ts,
		SessionID:  sessionID,
		Attributes: m.Attributes,
	}
}
