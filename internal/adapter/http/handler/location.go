package handler

import (
	"context"
	"math"
	"net/http"

	"github.com/Temutjin2k/pivot-location/internal/adapter/http/handler/dto"
	"github.com/Temutjin2k/pivot-location/internal/domain/models"
	"github.com/Temutjin2k/pivot-location/internal/domain/types"
	"github.com/Temutjin2k/pivot-location/pkg/logger"
	wrap "github.com/Temutjin2k/pivot-location/pkg/logger/wrapper"
	"github.com/Temutjin2k/pivot-location/pkg/validator"
	"github.com/google/uuid"
)

type LocationService interface {
	Verify(ctx context.Context, userID uuid.UUID, reported models.Coordinate, targetAddress string) (*models.VerificationOutcome, error)
	History(ctx context.Context, userID uuid.UUID) (*models.LocationHistory, error)
}

type Location struct {
	service LocationService
	log     logger.Logger
}

func NewLocation(service LocationService, log logger.Logger) *Location {
	return &Location{
		service: service,
		log:     log,
	}
}

// Verify godoc
// @Summary      Verify location
// @Description  Geocodes target_address and classifies the distance to the reported GPS fix as GREEN (<200m), YELLOW (<1000m) or RED.
// @Tags         Location
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      dto.VerifyLocationReq  true  "Reported position and target address"
// @Success      200      {object}  docs.VerifyLocationResponse
// @Failure      400      {object}  docs.ErrorResponse
// @Failure      401      {object}  docs.ErrorResponse
// @Failure      404      {object}  docs.ErrorResponse
// @Failure      500      {object}  docs.ErrorResponse
// @Router       /location/verify [post]
func (h *Location) Verify(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), types.ActionVerifyLocation)

	user := models.UserFromContext(ctx)
	if user.IsAnonymous() {
		unauthorizedResponse(w)
		return
	}

	var req dto.VerifyLocationReq
	if err := readJSON(w, r, &req); err != nil {
		h.log.Debug(ctx, "failed to read request body", "error", err.Error())
		badRequestResponse(w, err.Error())
		return
	}

	v := validator.New()
	if req.Validate(v); !v.Valid() {
		failedValidationResponse(w, v)
		return
	}

	outcome, err := h.service.Verify(ctx, user.ID, req.Coordinate(), req.Address())
	if err != nil {
		h.logFailure(ctx, "failed to verify location", err)
		serviceErrorResponse(w, err)
		return
	}

	response := envelope{
		"status":               "success",
		"user_id":              outcome.UserID,
		"productivity_status":  outcome.Status.String(),
		"distance_meters":      roundMeters(outcome.DistanceMeters),
		"verified_address":     outcome.VerifiedAddress,
		"verified_coordinates": outcome.VerifiedCoordinate,
		"proximity_details":    outcome.Proximity,
	}

	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		h.log.Error(ctx, "failed to write response", err)
	}
}

// History godoc
// @Summary      Last verified location
// @Description  Returns the caller and their last verified location. Location fields are null before the first verification.
// @Tags         Location
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  docs.LocationHistoryResponse
// @Failure      401  {object}  docs.ErrorResponse
// @Failure      404  {object}  docs.ErrorResponse
// @Failure      500  {object}  docs.ErrorResponse
// @Router       /location/history [get]
func (h *Location) History(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), types.ActionLocationHistory)

	user := models.UserFromContext(ctx)
	if user.IsAnonymous() {
		unauthorizedResponse(w)
		return
	}

	history, err := h.service.History(ctx, user.ID)
	if err != nil {
		h.logFailure(ctx, "failed to load location history", err)
		serviceErrorResponse(w, err)
		return
	}

	response := envelope{
		"status": "success",
		"user":   dto.NewHistoryUser(history),
	}

	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		h.log.Error(ctx, "failed to write response", err)
	}
}

// logFailure logs client errors at debug and everything else at error level.
func (h *Location) logFailure(ctx context.Context, msg string, err error) {
	ctx = wrap.ErrorCtx(ctx, err)
	if GetCode(err) < http.StatusInternalServerError {
		h.log.Debug(ctx, msg, "error", err.Error())
		return
	}
	h.log.Error(ctx, msg, err)
}

// roundMeters rounds to 2 decimals for display.
func roundMeters(d float64) float64 {
	return math.Round(d*100) / 100
}
