package onboarding

import (
	"encoding/json"
	"net/http"

	"github.com/de-tools/blocks/pkg/adapters"
	"github.com/de-tools/blocks/pkg/apperrors"
	"github.com/de-tools/blocks/pkg/handlers/render"
	"github.com/de-tools/blocks/pkg/models/api"
	"github.com/de-tools/blocks/pkg/services/awsprofile"
	"github.com/rs/zerolog"
)

type Handler struct {
	profiles awsprofile.Registry
}

func NewHandler(profiles awsprofile.Registry) *Handler {
	return &Handler{profiles: profiles}
}

func (h *Handler) ListProfiles(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	profiles, err := h.profiles.GetProfiles(ctx)
	if err != nil {
		render.Error(w, r, apperrors.Internal(err))
		return
	}

	response := api.AWSProfilesResponse{Profiles: make([]api.AWSProfile, 0, len(profiles))}
	for _, p := range profiles {
		response.Profiles = append(response.Profiles, adapters.MapAWSProfileDomainToApi(p))
	}
	render.JSON(w, r, http.StatusOK, response)
}

func (h *Handler) ValidateConnection(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.ConnectionRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 16<<10)).Decode(&req); err != nil {
		render.Error(w, r, apperrors.Validation("body", "request body must be a JSON object", `Send {"profile": "...", "region": "..."}`))
		return
	}

	result, err := awsprofile.ValidateConnection(ctx, h.profiles, adapters.MapConnectionRequestApiToDomain(req))
	if err != nil {
		render.Error(w, r, err)
		return
	}
	if !result.Valid {
		zerolog.Ctx(ctx).Info().
			Str("profile", result.Profile).
			Int("issues", len(result.Issues)).
			Msg("aws connection rejected")
	}
	render.JSON(w, r, http.StatusOK, adapters.MapConnectionValidationDomainToApi(result))
}
