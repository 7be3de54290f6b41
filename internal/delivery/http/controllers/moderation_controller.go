package controllers

import (
	"log/slog"
	"net/http"

	"campusevents/internal/delivery/http/helpers"
	"campusevents/internal/delivery/http/middleware"
	"campusevents/internal/domain"
)

type ModerationController struct {
	Logger  *slog.Logger
	Service domain.ModerationService
}

func NewModerationController(logger *slog.Logger, svc domain.ModerationService) *ModerationController {
	return &ModerationController{
		Logger:  logger,
		Service: svc,
	}
}

// EventHistorySuccessResponse is the success response envelope for GET /moderation/events/{eventID}/history (200).
type EventHistorySuccessResponse struct {
	Data  []*domain.EventModerationHistory `json:"data"`
	Error *helpers.APIError                `json:"error"`
}

// ListEventHistory godoc
// @Summary Get an event's moderation history
// @Description Returns the event's status transitions in chronological order. Requires curator or admin.
// @Tags moderation
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} controllers.EventHistorySuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /moderation/events/{eventID}/history [get]
func (c *ModerationController) ListEventHistory(w http.ResponseWriter, r *http.Request) {
	eventID := pathUUID(w, r, "eventID")
	if eventID == "" {
		return
	}
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	entries, err := c.Service.ListEventHistory(r.Context(), eventID, actor)
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, entries)
}

// ApplicationHistorySuccessResponse is the success response envelope for GET /moderation/applications/{applicationID}/history (200).
type ApplicationHistorySuccessResponse struct {
	Data  []*domain.ApplicationHistory `json:"data"`
	Error *helpers.APIError            `json:"error"`
}

// ListApplicationHistory godoc
// @Summary Get an application's history
// @Description Returns the application's status transitions in chronological order. Requires curator or admin.
// @Tags moderation
// @Produce json
// @Security BearerAuth
// @Param applicationID path string true "Application ID (UUID)"
// @Success 200 {object} controllers.ApplicationHistorySuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /moderation/applications/{applicationID}/history [get]
func (c *ModerationController) ListApplicationHistory(w http.ResponseWriter, r *http.Request) {
	applicationID := pathUUID(w, r, "applicationID")
	if applicationID == "" {
		return
	}
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	entries, err := c.Service.ListApplicationHistory(r.Context(), applicationID, actor)
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, entries)
}
