package http

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"campusevents/internal/delivery/http/controllers"
	"campusevents/internal/delivery/http/helpers"
	"campusevents/internal/delivery/http/middleware"
	"campusevents/internal/domain"
)

// Controllers bundles every controller the router mounts.
type Controllers struct {
	Auth          *controllers.AuthController
	Room          *controllers.RoomController
	Event         *controllers.EventController
	Application   *controllers.ApplicationController
	Moderation    *controllers.ModerationController
	Notification  *controllers.NotificationController
}

// NewRouter initializes the HTTP router with all application routes.
func NewRouter(c Controllers, verifier domain.TokenVerifier) *http.ServeMux {
	mux := http.NewServeMux()

	auth := middleware.RequireAuth(verifier)
	admin := func(h http.HandlerFunc) http.HandlerFunc {
		return auth(middleware.RequireRole(domain.RoleAdmin)(h))
	}
	moderator := func(h http.HandlerFunc) http.HandlerFunc {
		return auth(middleware.RequireRole(domain.RoleCurator, domain.RoleAdmin)(h))
	}

	// Auth
	mux.HandleFunc("POST /auth/register", c.Auth.Register)
	mux.HandleFunc("POST /auth/login", c.Auth.Login)

	// Rooms
	mux.HandleFunc("POST /rooms", admin(c.Room.CreateRoom))
	mux.HandleFunc("GET /rooms", auth(c.Room.ListRooms))
	mux.HandleFunc("GET /rooms/{roomID}", auth(c.Room.GetRoom))
	mux.HandleFunc("PUT /rooms/{roomID}", admin(c.Room.UpdateRoom))
	mux.HandleFunc("DELETE /rooms/{roomID}", admin(c.Room.DeleteRoom))
	mux.HandleFunc("POST /rooms/{roomID}/availability", admin(c.Room.SetAvailability))
	mux.HandleFunc("GET /rooms/{roomID}/free", auth(c.Room.CheckFree))

	// Events
	mux.HandleFunc("POST /events", auth(c.Event.CreateEvent))
	mux.HandleFunc("GET /events", auth(c.Event.ListEvents))
	mux.HandleFunc("GET /events/{eventID}", auth(c.Event.GetEvent))
	mux.HandleFunc("POST /events/{eventID}/transition", auth(c.Event.Transition))

	// Applications
	mux.HandleFunc("POST /events/{eventID}/applications", auth(c.Application.Submit))
	mux.HandleFunc("GET /events/{eventID}/applications", auth(c.Application.ListForEvent))
	mux.HandleFunc("GET /applications/mine", auth(c.Application.ListMine))
	mux.HandleFunc("POST /applications/{applicationID}/decision", moderator(c.Application.Decide))
	mux.HandleFunc("POST /applications/{applicationID}/withdraw", auth(c.Application.Withdraw))

	// Moderation history
	mux.HandleFunc("GET /moderation/events/{eventID}/history", moderator(c.Moderation.ListEventHistory))
	mux.HandleFunc("GET /moderation/applications/{applicationID}/history", moderator(c.Moderation.ListApplicationHistory))

	// Notifications
	mux.HandleFunc("GET /notifications", auth(c.Notification.ListMine))
	mux.HandleFunc("POST /notifications/{notificationID}/read", auth(c.Notification.MarkRead))

	// Health
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		helpers.WriteJSONSuccess(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
