package api

type QueryRequest struct {
	Prompt         string                 `json:"prompt"`
	ConversationID string                 `json:"conversationId,omitempty"`
	Context        map[string]interface{} `json:"context,omitempty"`
	Stream         bool                   `json:"stream,omitempty"`
}

type ResponseMeta struct {
	RequestID      string   `json:"requestId"`
	TenantID       string   `json:"tenantId"`
	ConversationID string   `json:"conversationId,omitempty"`
	Day            string   `json:"day"`
	Topics         []string `json:"topics"`
	DataSource     string   `json:"dataSource"`
	Streamed       bool     `json:"streamed"`
}

type AssistantResponse struct {
	Response   string       `json:"response"`
	References []string     `json:"references"`
	Confidence float64      `json:"confidence,omitempty"`
	Sources    []string     `json:"sources,omitempty"`
	Meta       ResponseMeta `json:"meta"`
}

// StreamChunk is the payload of a "chunk" server-sent event.
type StreamChunk struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
}
