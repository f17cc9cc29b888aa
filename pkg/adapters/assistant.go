package adapters

import (
	"github.com/de-tools/blocks/pkg/models/api"
	"github.com/de-tools/blocks/pkg/models/domain"
)

func MapQueryRequestApiToDomain(r api.QueryRequest) domain.QueryRequest {
	return domain.QueryRequest{
		Prompt:         r.Prompt,
		ConversationID: r.ConversationID,
		Context:        r.Context,
		Stream:         r.Stream,
	}
}

func MapAssistantResponseDomainToApi(r domain.AssistantResponse) api.AssistantResponse {
	refs := r.References
	if refs == nil {
		refs = []string{}
	}
	topics := r.Meta.Topics
	if topics == nil {
		topics = []string{}
	}
	return api.AssistantResponse{
		Response:   r.Response,
		References: refs,
		Confidence: r.Confidence,
		Sources:    r.Sources,
		Meta: api.ResponseMeta{
			RequestID:      r.Meta.RequestID,
			TenantID:       r.Meta.TenantID,
			ConversationID: r.Meta.ConversationID,
			Day:            r.Meta.Day.String(),
			Topics:         topics,
			DataSource:     r.Meta.DataSource,
			Streamed:       r.Meta.Streamed,
		},
	}
}
