package api

type AWSProfile struct {
	Name           string `json:"name"`
	Region         string `json:"region,omitempty"`
	RoleARN        string `json:"roleArn,omitempty"`
	SourceProfile  string `json:"sourceProfile,omitempty"`
	HasCredentials bool   `json:"hasCredentials"`
	SSO            bool   `json:"sso"`
}

type AWSProfilesResponse struct {
	Profiles []AWSProfile `json:"profiles"`
}

type ConnectionRequest struct {
	Profile string `json:"profile"`
	Region  string `json:"region,omitempty"`
	RoleARN string `json:"roleArn,omitempty"`
}

type ConnectionIssue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ConnectionValidation struct {
	Valid   bool              `json:"valid"`
	Profile string            `json:"profile"`
	Region  string            `json:"region,omitempty"`
	RoleARN string            `json:"roleArn,omitempty"`
	Issues  []ConnectionIssue `json:"issues"`
}
