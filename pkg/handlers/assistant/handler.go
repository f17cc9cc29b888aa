package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/de-tools/blocks/pkg/adapters"
	"github.com/de-tools/blocks/pkg/apperrors"
	"github.com/de-tools/blocks/pkg/handlers/render"
	"github.com/de-tools/blocks/pkg/handlers/request"
	"github.com/de-tools/blocks/pkg/models/api"
	"github.com/de-tools/blocks/pkg/models/domain"
	"github.com/rs/zerolog"
)

const maxBodyBytes = 64 << 10

type Assistant interface {
	Query(ctx context.Context, rc domain.RequestContext, day domain.CalendarDay, req domain.QueryRequest) (domain.AssistantResponse, error)
}

type Handler struct {
	assistant Assistant
	now       func() time.Time
}

func NewHandler(assistant Assistant, now func() time.Time) *Handler {
	if now == nil {
		now = time.Now
	}
	return &Handler{assistant: assistant, now: now}
}

// Query answers POST /assistant/query. With "stream": true the answer is sent
// as server-sent events.
func (h *Handler) Query(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	rc := request.FromRequest(r)

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			render.Error(w, r, apperrors.Validation("body", "request body is too large", "Keep the request body under 64KiB"))
			return
		}
		render.Error(w, r, apperrors.Validation("body", "failed to read request body", ""))
		return
	}
	if err := validateBody(body); err != nil {
		render.Error(w, r, err)
		return
	}

	var req api.QueryRequest
	if err := json.Unmarshal(body, &req); err != nil {
		render.Error(w, r, apperrors.Validation("body", "request body must be a JSON object", ""))
		return
	}

	day, err := request.Day(r, h.now)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	resp, err := h.assistant.Query(ctx, rc, day, adapters.MapQueryRequestApiToDomain(req))
	if err != nil {
		render.Error(w, r, err)
		return
	}

	zerolog.Ctx(ctx).Debug().
		Str("request_id", rc.RequestID).
		Str("tenant", rc.TenantID).
		Int("references", len(resp.References)).
		Bool("stream", req.Stream).
		Msg("assistant query answered")

	out := adapters.MapAssistantResponseDomainToApi(resp)
	if req.Stream {
		stream(w, r, out)
		return
	}
	render.JSON(w, r, http.StatusOK, out)
}
