package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/sirupsen/logrus"
)

// Services carries the workflow services the router dispatches to.
type Services struct {
	Events        EventWorkflow
	Bookings      BookingWorkflow
	Changes       ChangeWorkflow
	Cancellations CancellationWorkflow
	Rooms         RoomCatalog
}

// NewRouter wires all routes and middleware.
func NewRouter(svcs Services, log *logrus.Logger, corsOrigins []string) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(RequestLogger(log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: corsOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "X-User-Id", "X-User-Roles"},
	}))
	r.Use(Identity)

	r.Get("/health", HealthHandler)
	r.Get("/rooms", HandleListRooms(svcs.Rooms))

	r.Route("/events", func(r chi.Router) {
		r.Post("/", HandleCreateEvent(svcs.Events))
		r.Get("/{eventID}", HandleGetEvent(svcs.Events))
		r.Post("/{eventID}/submit", HandleEventTransition(svcs.Events, EventWorkflow.Submit))
		r.Post("/{eventID}/approve", HandleEventTransition(svcs.Events, EventWorkflow.Approve))
		r.Post("/{eventID}/reject", HandleRejectEvent(svcs.Events))
		r.Post("/{eventID}/start", HandleEventTransition(svcs.Events, EventWorkflow.Start))
		r.Post("/{eventID}/complete", HandleEventTransition(svcs.Events, EventWorkflow.Complete))
	})

	r.Route("/requests", func(r chi.Router) {
		r.Post("/", HandleCreateRequest(svcs.Bookings))
		r.Get("/{requestID}", HandleGetRequest(svcs.Bookings))
	})

	r.Route("/details", func(r chi.Router) {
		r.Post("/{detailID}/approve", HandleApproveDetail(svcs.Bookings))
		r.Post("/{detailID}/reject", HandleRejectDetail(svcs.Bookings))
	})

	r.Route("/changes", func(r chi.Router) {
		r.Post("/", HandleCreateChange(svcs.Changes))
		r.Get("/{changeID}", HandleGetChange(svcs.Changes))
		r.Post("/{changeID}/approve", HandleApproveChange(svcs.Changes))
		r.Post("/{changeID}/reject", HandleRejectChange(svcs.Changes))
	})

	r.Route("/cancellations", func(r chi.Router) {
		r.Post("/", HandleCreateCancellation(svcs.Cancellations))
		r.Get("/{cancellationID}", HandleGetCancellation(svcs.Cancellations))
		r.Post("/{cancellationID}/approve", HandleApproveCancellation(svcs.Cancellations))
		r.Post("/{cancellationID}/reject", HandleRejectCancellation(svcs.Cancellations))
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, codeNotFound, "not found")
	})

	return r
}

// HealthHandler reports basic liveness for the service.
func HealthHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
