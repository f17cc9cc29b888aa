package render

import (
	"encoding/json"
	"net/http"

	"github.com/de-tools/blocks/pkg/apperrors"
	"github.com/de-tools/blocks/pkg/models/api"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

func JSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("failed to encode response")
	}
}

// Error writes the public envelope for err. Details of internal failures are
// logged, never returned.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	pub := apperrors.ToPublic(err)
	event := zerolog.Ctx(r.Context()).Warn()
	if pub.Status >= http.StatusInternalServerError {
		event = zerolog.Ctx(r.Context()).Error()
	}
	event.Err(err).Int("status", pub.Status).Str("code", pub.Code).Msg("request failed")

	body := api.ErrorBody{Code: pub.Code, Message: pub.Message, Hint: pub.Hint}
	if apperrors.KindOf(err) == apperrors.KindValidation {
		body.Field = apperrors.FieldOf(err)
	}
	JSON(w, r, pub.Status, api.ErrorResponse{
		Error:     body,
		RequestID: middleware.GetReqID(r.Context()),
	})
}
