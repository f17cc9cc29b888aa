package telemetry

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/de-tools/blocks/pkg/adapters"
	"github.com/de-tools/blocks/pkg/apperrors"
	"github.com/de-tools/blocks/pkg/handlers/render"
	"github.com/de-tools/blocks/pkg/models/api"
	"github.com/de-tools/blocks/pkg/models/domain"
	"github.com/de-tools/blocks/pkg/telemetry"
	"github.com/rs/zerolog"
)

const (
	maxMarksPerRequest = 100
	eventHide          = "hide"
	eventUnload        = "unload"
)

type Collector interface {
	Record(ctx context.Context, mark domain.PerformanceMark) error
	OnHide(ctx context.Context) error
	SessionID() string
}

type Handler struct {
	collector Collector
}

func NewHandler(collector Collector) *Handler {
	return &Handler{collector: collector}
}

// RecordMarks accepts a batch of client performance marks. A "hide" or
// "unload" event flushes the server-side buffer after recording.
func (h *Handler) RecordMarks(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.PerformanceMarksRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 256<<10)).Decode(&req); err != nil {
		render.Error(w, r, apperrors.Validation("body", "request body must be a JSON object", `Send {"marks": [{"name": "...", "value": 12.5}]}`))
		return
	}
	if req.Event != "" && req.Event != eventHide && req.Event != eventUnload {
		render.Error(w, r, apperrors.Validation("event", "unknown lifecycle event "+req.Event, "Use hide or unload"))
		return
	}
	if len(req.Marks) > maxMarksPerRequest {
		render.Error(w, r, apperrors.Validation("marks", "too many marks", fmt.Sprintf("Send at most %d marks per request", maxMarksPerRequest)))
		return
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = h.collector.SessionID()
	}
	marks := make([]domain.PerformanceMark, 0, len(req.Marks))
	for i, m := range req.Marks {
		mark := adapters.MapPerformanceMarkApiToDomain(sessionID, m)
		if err := telemetry.ValidateMark(mark); err != nil {
			pub := apperrors.ToPublic(err)
			render.Error(w, r, apperrors.Validation(
				fmt.Sprintf("marks[%d].%s", i, apperrors.FieldOf(err)), pub.Message, pub.Hint))
			return
		}
		marks = append(marks, mark)
	}

	accepted := 0
	for _, mark := range marks {
		if err := h.collector.Record(ctx, mark); err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Str("mark", mark.Name).Msg("failed to record performance mark")
			continue
		}
		accepted++
	}
	if req.Event != "" {
		if err := h.collector.OnHide(ctx); err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Str("event", req.Event).Msg("failed to flush performance marks")
		}
	}

	render.JSON(w, r, http.StatusAccepted, api.PerformanceMarksResponse{
		Accepted:  accepted,
		SessionID: sessionID,
	})
}
