package http

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"doorlist/internal/delivery/http/controllers"
	"doorlist/internal/delivery/http/middleware"
	"doorlist/internal/domain"
)

// NewRouter initializes the HTTP router with all application routes
func NewRouter(
	verifier domain.TokenVerifier,
	authController *controllers.AuthController,
	eventController *controllers.EventController,
	guestController *controllers.GuestController,
	guardController *controllers.GuardController,
	checkInController *controllers.CheckInController,
) *http.ServeMux {
	mux := http.NewServeMux()

	auth := middleware.RequireAuth(verifier)

	// Auth
	mux.HandleFunc("POST /auth/signup", authController.SignUp)
	mux.HandleFunc("POST /auth/login", authController.Login)

	// Events
	mux.HandleFunc("POST /events", auth(eventController.CreateEvent))
	mux.HandleFunc("GET /events", auth(eventController.ListMyEvents))
	mux.HandleFunc("GET /events/{eventID}", auth(eventController.GetEvent))
	mux.HandleFunc("PATCH /events/{eventID}", auth(eventController.UpdateEvent))
	mux.HandleFunc("DELETE /events/{eventID}", auth(eventController.DeleteEvent))

	// Guest list
	mux.HandleFunc("POST /events/{eventID}/guests", auth(guestController.RegisterGuest))
	mux.HandleFunc("GET /events/{eventID}/guests", auth(guestController.ListGuests))
	mux.HandleFunc("PATCH /events/{eventID}/guests/{guestID}", auth(guestController.UpdateGuest))
	mux.HandleFunc("DELETE /events/{eventID}/guests/{guestID}", auth(guestController.RemoveGuest))

	// Attendee
	mux.HandleFunc("POST /events/{eventID}/attend", auth(guestController.ConfirmAttendance))
	mux.HandleFunc("GET /me/events", auth(guestController.ListMyGuestRecords))

	// Guards
	mux.HandleFunc("POST /events/{eventID}/guards", auth(guardController.AssignGuard))
	mux.HandleFunc("GET /events/{eventID}/guards", auth(guardController.ListGuards))
	mux.HandleFunc("DELETE /events/{eventID}/guards/{guardID}", auth(guardController.RevokeGuard))

	// Door check-in
	mux.HandleFunc("POST /events/{eventID}/checkin", auth(checkInController.CheckIn))

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	// Prometheus
	mux.Handle("GET /metrics", promhttp.Handler())

	return mux
}
