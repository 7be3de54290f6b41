package controllers

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"campusevents/internal/delivery/http/helpers"
	"campusevents/internal/delivery/http/middleware"
	"campusevents/internal/domain"
)

type EventController struct {
	Logger        *slog.Logger
	Service       domain.EventService
	Notifications domain.NotificationService
}

func NewEventController(logger *slog.Logger, svc domain.EventService, notifications domain.NotificationService) *EventController {
	return &EventController{
		Logger:        logger,
		Service:       svc,
		Notifications: notifications,
	}
}

// CreateEventRequest is the request body for POST /events.
type CreateEventRequest struct {
	Title                 string         `json:"title"`
	Description           string         `json:"description"`
	EventDate             string         `json:"event_date"`
	StartTime             string         `json:"start_time"`
	EndTime               string         `json:"end_time"`
	MaxParticipants       *int           `json:"max_participants,omitempty"`
	EventType             string         `json:"event_type,omitempty"`
	CuratorID             string         `json:"curator_id,omitempty"`
	RoomID                *string        `json:"room_id,omitempty"`
	ExternalLocation      *string        `json:"external_location,omitempty"`
	NeedApproveCandidates bool           `json:"need_approve_candidates"`

	parsedDate time.Time
}

// Validate implements helpers.Validator.
func (r *CreateEventRequest) Validate() []string {
	var errs []string
	r.Title = strings.TrimSpace(r.Title)
	if r.Title == "" {
		errs = append(errs, "title is required")
	}
	date, err := time.Parse("2006-01-02", r.EventDate)
	if err != nil {
		errs = append(errs, "event_date must be YYYY-MM-DD")
	} else {
		r.parsedDate = date
	}
	if !domain.ValidClockTime(r.StartTime) {
		errs = append(errs, "start_time must be HH:MM")
	}
	if !domain.ValidClockTime(r.EndTime) {
		errs = append(errs, "end_time must be HH:MM")
	}
	if r.MaxParticipants != nil && *r.MaxParticipants <= 0 {
		errs = append(errs, "max_participants must be positive")
	}
	if r.RoomID != nil && *r.RoomID != "" && !uuidRegex.MatchString(*r.RoomID) {
		errs = append(errs, "invalid room_id")
	}
	return errs
}

// EventSuccessResponse is the success response envelope for single-event endpoints.
type EventSuccessResponse struct {
	Data  *domain.Event     `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// CreateEvent godoc
// @Summary Create an event draft
// @Description Creates an event in the draft state, owned by the authenticated user.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body controllers.CreateEventRequest true "Event"
// @Success 201 {object} controllers.EventSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found (room)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events [post]
func (c *EventController) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req CreateEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	event := &domain.Event{
		Title:                 req.Title,
		Description:           req.Description,
		EventDate:             req.parsedDate,
		StartTime:             req.StartTime,
		EndTime:               req.EndTime,
		MaxParticipants:       req.MaxParticipants,
		EventType:             domain.EventType(req.EventType),
		CuratorID:             req.CuratorID,
		RoomID:                req.RoomID,
		ExternalLocation:      req.ExternalLocation,
		NeedApproveCandidates: req.NeedApproveCandidates,
	}
	if err := c.Service.CreateEvent(r.Context(), event, actor); err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, event)
}

// ListEventsSuccessResponse is the success response envelope for GET /events (200).
type ListEventsSuccessResponse struct {
	Data  []*domain.Event   `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// ListEvents godoc
// @Summary List events
// @Description Lists events, optionally filtered by status, date, or creator.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter by status"
// @Param date query string false "Filter by date (YYYY-MM-DD)"
// @Param creator_id query string false "Filter by creator"
// @Success 200 {object} controllers.ListEventsSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events [get]
func (c *EventController) ListEvents(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var filter domain.EventFilter
	if s := q.Get("status"); s != "" {
		status := domain.EventStatus(s)
		switch status {
		case domain.EventDraft, domain.EventPending, domain.EventApproved,
			domain.EventRejected, domain.EventCancelled, domain.EventCompleted:
			filter.Status = &status
		default:
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "unknown status")
			return
		}
	}
	if s := q.Get("date"); s != "" {
		date, err := time.Parse("2006-01-02", s)
		if err != nil {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "date must be YYYY-MM-DD")
			return
		}
		filter.Date = &date
	}
	filter.CreatorID = q.Get("creator_id")

	events, err := c.Service.ListEvents(r.Context(), filter)
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, events)
}

// GetEvent godoc
// @Summary Get an event
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} controllers.EventSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID} [get]
func (c *EventController) GetEvent(w http.ResponseWriter, r *http.Request) {
	eventID := pathUUID(w, r, "eventID")
	if eventID == "" {
		return
	}
	event, err := c.Service.GetEvent(r.Context(), eventID)
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

// TransitionRequest is the request body for POST /events/{eventID}/transition.
type TransitionRequest struct {
	TargetStatus string `json:"target_status"`
	Comment      string `json:"comment,omitempty"`
}

// Validate implements helpers.Validator.
func (r *TransitionRequest) Validate() []string {
	switch domain.EventStatus(r.TargetStatus) {
	case domain.EventPending, domain.EventApproved, domain.EventRejected, domain.EventCancelled:
		return nil
	case domain.EventCompleted:
		// Completion is driven by the sweep, never over HTTP.
		return []string{"completed is not a requestable target status"}
	default:
		return []string{"unknown target_status"}
	}
}

// Transition godoc
// @Summary Transition an event
// @Description Moves the event along its lifecycle (submit, approve, reject, cancel). Approval runs the booking conflict check; rejection requires a comment; cancellation withdraws approved applications.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param body body controllers.TransitionRequest true "Target status and optional comment"
// @Success 200 {object} controllers.EventSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request or invalid_state"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: booking_conflict"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/transition [post]
func (c *EventController) Transition(w http.ResponseWriter, r *http.Request) {
	eventID := pathUUID(w, r, "eventID")
	if eventID == "" {
		return
	}
	var req TransitionRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	event, intents, err := c.Service.Transition(r.Context(), eventID, domain.EventStatus(req.TargetStatus), actor, req.Comment)
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	if err := c.Notifications.Dispatch(r.Context(), intents); err != nil {
		c.Logger.ErrorContext(r.Context(), "notification dispatch failed", "event_id", eventID, "err", err)
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}
