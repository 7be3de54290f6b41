package controllers

import (
	"log/slog"
	"net/http"

	"campusevents/internal/delivery/http/helpers"
	"campusevents/internal/delivery/http/middleware"
	"campusevents/internal/domain"
)

type ApplicationController struct {
	Logger        *slog.Logger
	Service       domain.AdmissionService
	Notifications domain.NotificationService
}

func NewApplicationController(logger *slog.Logger, svc domain.AdmissionService, notifications domain.NotificationService) *ApplicationController {
	return &ApplicationController{
		Logger:        logger,
		Service:       svc,
		Notifications: notifications,
	}
}

// SubmitApplicationRequest is the request body for POST /events/{eventID}/applications.
type SubmitApplicationRequest struct {
	Motivation string `json:"motivation,omitempty"`
}

// ApplicationSuccessResponse is the success response envelope for single-application endpoints.
type ApplicationSuccessResponse struct {
	Data  *domain.EventApplication `json:"data"`
	Error *helpers.APIError        `json:"error"`
}

// Submit godoc
// @Summary Apply to attend an event
// @Description Submits an application for an approved event. When the event admits automatically the application is approved immediately, subject to capacity.
// @Tags applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param body body controllers.SubmitApplicationRequest true "Motivation (optional)"
// @Success 201 {object} controllers.ApplicationSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request or invalid_state"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (duplicate or event full)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/applications [post]
func (c *ApplicationController) Submit(w http.ResponseWriter, r *http.Request) {
	eventID := pathUUID(w, r, "eventID")
	if eventID == "" {
		return
	}
	var req SubmitApplicationRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	app, intents, err := c.Service.SubmitApplication(r.Context(), eventID, actor.UserID, req.Motivation)
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	if err := c.Notifications.Dispatch(r.Context(), intents); err != nil {
		c.Logger.ErrorContext(r.Context(), "notification dispatch failed", "application_id", app.ID, "err", err)
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, app)
}

// ListForEvent godoc
// @Summary List applications for an event
// @Description Lists every application for the event. Restricted to the event creator, curators, and admins.
// @Tags applications
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} controllers.ListApplicationsSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/applications [get]
func (c *ApplicationController) ListForEvent(w http.ResponseWriter, r *http.Request) {
	eventID := pathUUID(w, r, "eventID")
	if eventID == "" {
		return
	}
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	apps, err := c.Service.ListEventApplications(r.Context(), eventID, actor)
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, apps)
}

// ListApplicationsSuccessResponse is the success response envelope for application list endpoints (200).
type ListApplicationsSuccessResponse struct {
	Data  []*domain.EventApplication `json:"data"`
	Error *helpers.APIError          `json:"error"`
}

// ListMine godoc
// @Summary List my applications
// @Tags applications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.ListApplicationsSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /applications/mine [get]
func (c *ApplicationController) ListMine(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	apps, err := c.Service.ListMyApplications(r.Context(), actor.UserID)
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, apps)
}

// DecisionRequest is the request body for POST /applications/{applicationID}/decision.
type DecisionRequest struct {
	Decision string `json:"decision"`
	Comment  string `json:"comment,omitempty"`
}

// Validate implements helpers.Validator.
func (r *DecisionRequest) Validate() []string {
	switch domain.ApplicationStatus(r.Decision) {
	case domain.ApplicationApproved, domain.ApplicationRejected:
		return nil
	default:
		return []string{"decision must be approved or rejected"}
	}
}

// Decide godoc
// @Summary Decide an application
// @Description Approves or rejects a submitted application on an event that requires curator approval. Approval counts against capacity. Requires curator or admin.
// @Tags applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param applicationID path string true "Application ID (UUID)"
// @Param body body controllers.DecisionRequest true "Decision"
// @Success 200 {object} controllers.ApplicationSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request or invalid_state"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (event full)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /applications/{applicationID}/decision [post]
func (c *ApplicationController) Decide(w http.ResponseWriter, r *http.Request) {
	applicationID := pathUUID(w, r, "applicationID")
	if applicationID == "" {
		return
	}
	var req DecisionRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	app, intents, err := c.Service.DecideApplication(r.Context(), applicationID, domain.ApplicationStatus(req.Decision), actor, req.Comment)
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	if err := c.Notifications.Dispatch(r.Context(), intents); err != nil {
		c.Logger.ErrorContext(r.Context(), "notification dispatch failed", "application_id", applicationID, "err", err)
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, app)
}

// Withdraw godoc
// @Summary Withdraw an application
// @Description Withdraws the application, freeing its seat if it was approved. Idempotent. Allowed for the applicant, curators, and admins.
// @Tags applications
// @Produce json
// @Security BearerAuth
// @Param applicationID path string true "Application ID (UUID)"
// @Success 200 {object} controllers.ApplicationSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request or invalid_state"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /applications/{applicationID}/withdraw [post]
func (c *ApplicationController) Withdraw(w http.ResponseWriter, r *http.Request) {
	applicationID := pathUUID(w, r, "applicationID")
	if applicationID == "" {
		return
	}
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	app, err := c.Service.WithdrawApplication(r.Context(), applicationID, actor)
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, app)
}
