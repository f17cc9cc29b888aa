package domain

// RequestContext identifies the caller of a request. It is passed explicitly to
// services rather than read off the transport request.
type RequestContext struct {
	RequestID string
	TenantID  string
}

type QueryRequest struct {
	Prompt         string
	ConversationID string
	Context        map[string]interface{}
	Stream         bool
}

type ResponseMeta struct {
	RequestID      string
	TenantID       string
	ConversationID string
	Day            CalendarDay
	Topics         []string
	DataSource     string
	Streamed       bool
}

type AssistantResponse struct {
	Response   string
	References []string
	Confidence float64
	Sources    []string
	Meta       ResponseMeta
}
