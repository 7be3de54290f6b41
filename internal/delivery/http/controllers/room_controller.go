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

type RoomController struct {
	Logger  *slog.Logger
	Service domain.RoomService
}

func NewRoomController(logger *slog.Logger, svc domain.RoomService) *RoomController {
	return &RoomController{
		Logger:  logger,
		Service: svc,
	}
}

// RoomRequest is the request body for POST /rooms and PUT /rooms/{roomID}.
type RoomRequest struct {
	Name        string         `json:"name"`
	Capacity    int            `json:"capacity"`
	Location    string         `json:"location"`
	Equipment   map[string]any `json:"equipment,omitempty"`
	IsAvailable *bool          `json:"is_available,omitempty"`
}

// Validate implements helpers.Validator.
func (r *RoomRequest) Validate() []string {
	var errs []string
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		errs = append(errs, "name is required")
	}
	if r.Capacity <= 0 {
		errs = append(errs, "capacity must be positive")
	}
	return errs
}

// RoomSuccessResponse is the success response envelope for single-room endpoints.
type RoomSuccessResponse struct {
	Data  *domain.Room      `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// CreateRoom godoc
// @Summary Create a room
// @Description Adds a room to the registry. Requires the admin role.
// @Tags rooms
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body controllers.RoomRequest true "Room"
// @Success 201 {object} controllers.RoomSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (name taken)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /rooms [post]
func (c *RoomController) CreateRoom(w http.ResponseWriter, r *http.Request) {
	var req RoomRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	available := true
	if req.IsAvailable != nil {
		available = *req.IsAvailable
	}
	room := domain.NewRoom(req.Name, req.Capacity, req.Location, req.Equipment, available, time.Time{}, time.Time{})
	if err := c.Service.CreateRoom(r.Context(), room, actor); err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, room)
}

// ListRoomsSuccessResponse is the success response envelope for GET /rooms (200).
type ListRoomsSuccessResponse struct {
	Data  []*domain.Room    `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// ListRooms godoc
// @Summary List rooms
// @Tags rooms
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.ListRoomsSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /rooms [get]
func (c *RoomController) ListRooms(w http.ResponseWriter, r *http.Request) {
	rooms, err := c.Service.ListRooms(r.Context())
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, rooms)
}

// GetRoom godoc
// @Summary Get a room
// @Tags rooms
// @Produce json
// @Security BearerAuth
// @Param roomID path string true "Room ID (UUID)"
// @Success 200 {object} controllers.RoomSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /rooms/{roomID} [get]
func (c *RoomController) GetRoom(w http.ResponseWriter, r *http.Request) {
	roomID := pathUUID(w, r, "roomID")
	if roomID == "" {
		return
	}
	room, err := c.Service.GetRoom(r.Context(), roomID)
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, room)
}

// UpdateRoom godoc
// @Summary Update a room
// @Description Replaces the room's mutable fields. Requires the admin role.
// @Tags rooms
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param roomID path string true "Room ID (UUID)"
// @Param body body controllers.RoomRequest true "Room"
// @Success 200 {object} controllers.RoomSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /rooms/{roomID} [put]
func (c *RoomController) UpdateRoom(w http.ResponseWriter, r *http.Request) {
	roomID := pathUUID(w, r, "roomID")
	if roomID == "" {
		return
	}
	var req RoomRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	available := true
	if req.IsAvailable != nil {
		available = *req.IsAvailable
	}
	room := &domain.Room{
		ID:          roomID,
		Name:        req.Name,
		Capacity:    req.Capacity,
		Location:    req.Location,
		Equipment:   req.Equipment,
		IsAvailable: available,
	}
	updated, err := c.Service.UpdateRoom(r.Context(), room, actor)
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, updated)
}

// DeleteRoom godoc
// @Summary Delete a room
// @Description Removes the room from the registry. Requires the admin role.
// @Tags rooms
// @Produce json
// @Security BearerAuth
// @Param roomID path string true "Room ID (UUID)"
// @Success 200 {object} helpers.APIResponse "data is null"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /rooms/{roomID} [delete]
func (c *RoomController) DeleteRoom(w http.ResponseWriter, r *http.Request) {
	roomID := pathUUID(w, r, "roomID")
	if roomID == "" {
		return
	}
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	if err := c.Service.DeleteRoom(r.Context(), roomID, actor); err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, nil)
}

// SetAvailabilityRequest is the request body for POST /rooms/{roomID}/availability.
type SetAvailabilityRequest struct {
	IsAvailable bool `json:"is_available"`
}

// SetAvailability godoc
// @Summary Toggle room availability
// @Description Marks the room available or unavailable for new bookings. Existing bookings are unaffected. Requires the admin role.
// @Tags rooms
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param roomID path string true "Room ID (UUID)"
// @Param body body controllers.SetAvailabilityRequest true "Availability flag"
// @Success 200 {object} controllers.RoomSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /rooms/{roomID}/availability [post]
func (c *RoomController) SetAvailability(w http.ResponseWriter, r *http.Request) {
	roomID := pathUUID(w, r, "roomID")
	if roomID == "" {
		return
	}
	var req SetAvailabilityRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	room, err := c.Service.MarkAvailable(r.Context(), roomID, req.IsAvailable, actor)
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, room)
}

// RoomFreeResult is the data object returned by GET /rooms/{roomID}/free.
type RoomFreeResult struct {
	Free bool `json:"free"`
}

// RoomFreeSuccessResponse is the success response envelope for GET /rooms/{roomID}/free (200).
type RoomFreeSuccessResponse struct {
	Data  *RoomFreeResult   `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// CheckFree godoc
// @Summary Check whether a room is free
// @Description Reports whether no pending or approved event occupies the room for [start, end) on the given date. Back-to-back intervals do not conflict.
// @Tags rooms
// @Produce json
// @Security BearerAuth
// @Param roomID path string true "Room ID (UUID)"
// @Param date query string true "Date (YYYY-MM-DD)"
// @Param start query string true "Start time (HH:MM)"
// @Param end query string true "End time (HH:MM)"
// @Param exclude_event_id query string false "Event ID to ignore"
// @Success 200 {object} controllers.RoomFreeSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /rooms/{roomID}/free [get]
func (c *RoomController) CheckFree(w http.ResponseWriter, r *http.Request) {
	roomID := pathUUID(w, r, "roomID")
	if roomID == "" {
		return
	}
	q := r.URL.Query()
	date, err := time.Parse("2006-01-02", q.Get("date"))
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "date must be YYYY-MM-DD")
		return
	}
	start, end := q.Get("start"), q.Get("end")
	excludeEventID := q.Get("exclude_event_id")
	if excludeEventID != "" && !uuidRegex.MatchString(excludeEventID) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid exclude_event_id")
		return
	}

	free, err := c.Service.IsRoomFree(r.Context(), roomID, date, start, end, excludeEventID)
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, &RoomFreeResult{Free: free})
}
