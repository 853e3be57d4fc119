package http

import (
	"net/http"
	"strings"

	"medical-clinic-api/internal/delivery/http/handler"
	"medical-clinic-api/internal/delivery/http/middleware"

	"github.com/gorilla/mux"
)

// Handlers groups every HTTP handler the router mounts.
type Handlers struct {
	Auth           *handler.AuthHandler
	Doctor         *handler.DoctorHandler
	Availability   *handler.AvailabilityHandler
	Appointment    *handler.AppointmentHandler
	Patient        *handler.PatientHandler
	AdminDoctor    *handler.AdminDoctorHandler
	AdminPatient   *handler.AdminPatientHandler
	Specialty      *handler.SpecialtyHandler
	SystemAlert    *handler.SystemAlertHandler
	Notification   *handler.NotificationHandler
	ActivityLog    *handler.ActivityLogHandler
	AdminDashboard *handler.AdminDashboardHandler
	// WebSocket serves the live admin feed.
	WebSocket http.Handler
}

type Router struct {
	router            *mux.Router
	handlers          Handlers
	authMiddleware    *middleware.AuthMiddleware
	corsMiddleware    *middleware.CORSMiddleware
	loggingMiddleware *middleware.LoggingMiddleware
}

func NewRouter(
	handlers Handlers,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
	loggingMiddleware *middleware.LoggingMiddleware,
) *Router {
	return &Router{
		router:            mux.NewRouter(),
		handlers:          handlers,
		authMiddleware:    authMiddleware,
		corsMiddleware:    corsMiddleware,
		loggingMiddleware: loggingMiddleware,
	}
}

// Setup registers every route. Paths are declared without a trailing slash;
// requests with one are normalised before routing.
func (r *Router) Setup() http.Handler {
	h := r.handlers

	// Health check
	r.router.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Public catalogue used by the registration form
	r.router.HandleFunc("/specialties", h.Specialty.List).Methods(http.MethodGet)

	// Auth routes (public)
	auth := r.router.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/register", h.Auth.Register).Methods(http.MethodPost)
	auth.HandleFunc("/login", h.Auth.Login).Methods(http.MethodPost)
	auth.HandleFunc("/token/refresh", h.Auth.RefreshToken).Methods(http.MethodPost)

	// Auth routes (protected)
	authProtected := r.router.PathPrefix("/auth").Subrouter()
	authProtected.Use(r.authMiddleware.Authenticate)
	authProtected.HandleFunc("/logout", h.Auth.Logout).Methods(http.MethodPost)
	authProtected.HandleFunc("/me", h.Auth.Me).Methods(http.MethodGet)

	// Any signed-in user
	shared := r.router.NewRoute().Subrouter()
	shared.Use(r.authMiddleware.Authenticate)
	shared.HandleFunc("/alerts", h.SystemAlert.Live).Methods(http.MethodGet)
	shared.HandleFunc("/notifications", h.Notification.ListMine).Methods(http.MethodGet)
	shared.HandleFunc("/notifications/{id:[0-9]+}/read", h.Notification.MarkMineRead).Methods(http.MethodPost)
	shared.HandleFunc("/patients/doctors", h.Patient.FindDoctors).Methods(http.MethodGet)
	shared.HandleFunc("/patients/doctors/{id}", h.Patient.GetDoctor).Methods(http.MethodGet)
	shared.HandleFunc("/patients/doctors/{id}/availability", h.Availability.ListForDoctor).Methods(http.MethodGet)

	// Doctor routes
	doctor := r.router.PathPrefix("/doctor").Subrouter()
	doctor.Use(r.authMiddleware.Authenticate)
	doctor.Use(middleware.RequireDoctor)
	doctor.HandleFunc("/profile", h.Doctor.GetProfile).Methods(http.MethodGet)
	doctor.HandleFunc("/profile", h.Doctor.UpdateProfile).Methods(http.MethodPut, http.MethodPatch)
	doctor.HandleFunc("/dashboard/stats", h.Doctor.DashboardStats).Methods(http.MethodGet)
	doctor.HandleFunc("/patients", h.Doctor.ListPatients).Methods(http.MethodGet)
	doctor.HandleFunc("/availability", h.Availability.ListMine).Methods(http.MethodGet)
	doctor.HandleFunc("/availability", h.Availability.Upsert).Methods(http.MethodPost)
	doctor.HandleFunc("/availability/{id:[0-9]+}", h.Availability.Update).Methods(http.MethodPut, http.MethodPatch)
	doctor.HandleFunc("/availability/{id:[0-9]+}", h.Availability.Delete).Methods(http.MethodDelete)
	doctor.HandleFunc("/appointments", h.Appointment.ListForDoctor).Methods(http.MethodGet)
	doctor.HandleFunc("/appointments/{id}", h.Appointment.Get).Methods(http.MethodGet)
	doctor.HandleFunc("/appointments/{id}", h.Appointment.UpdateByDoctor).Methods(http.MethodPut, http.MethodPatch)
	doctor.HandleFunc("/appointments/{id}", h.Appointment.Cancel).Methods(http.MethodDelete)

	// Patient routes
	patient := r.router.PathPrefix("/patients").Subrouter()
	patient.Use(r.authMiddleware.Authenticate)
	patient.Use(middleware.RequirePatient)
	patient.HandleFunc("/profile", h.Patient.GetProfile).Methods(http.MethodGet)
	patient.HandleFunc("/profile", h.Patient.UpdateProfile).Methods(http.MethodPut, http.MethodPatch)
	patient.HandleFunc("/appointments", h.Appointment.ListForPatient).Methods(http.MethodGet)
	patient.HandleFunc("/appointments", h.Appointment.Book).Methods(http.MethodPost)
	patient.HandleFunc("/appointments/{id}", h.Appointment.Get).Methods(http.MethodGet)
	patient.HandleFunc("/appointments/{id}", h.Appointment.Reschedule).Methods(http.MethodPut, http.MethodPatch)
	patient.HandleFunc("/appointments/{id}", h.Appointment.Cancel).Methods(http.MethodDelete)
	patient.HandleFunc("/appointments/{id}/slip", h.Appointment.Slip).Methods(http.MethodGet)

	// Admin routes (protected - admin only)
	admin := r.router.PathPrefix("/admin-api").Subrouter()
	admin.Use(r.authMiddleware.Authenticate)
	admin.Use(middleware.RequireAdmin)

	admin.Handle("/ws", h.WebSocket).Methods(http.MethodGet)
	admin.HandleFunc("/dashboard", h.AdminDashboard.Stats).Methods(http.MethodGet)
	admin.HandleFunc("/users/{id}/revoke-tokens", h.Auth.RevokeUserTokens).Methods(http.MethodPost)

	// Doctor management (admin)
	admin.HandleFunc("/doctors", h.AdminDoctor.List).Methods(http.MethodGet)
	admin.HandleFunc("/doctors", h.AdminDoctor.Create).Methods(http.MethodPost)
	admin.HandleFunc("/doctors/{id}", h.AdminDoctor.Get).Methods(http.MethodGet)
	admin.HandleFunc("/doctors/{id}", h.AdminDoctor.Update).Methods(http.MethodPut, http.MethodPatch)
	admin.HandleFunc("/doctors/{id}", h.AdminDoctor.Delete).Methods(http.MethodDelete)
	admin.HandleFunc("/doctors/{id}/approve", h.AdminDoctor.Approve).Methods(http.MethodPost)
	admin.HandleFunc("/doctors/{id}/block", h.AdminDoctor.Block).Methods(http.MethodPost)
	admin.HandleFunc("/doctors/{id}/unblock", h.AdminDoctor.Unblock).Methods(http.MethodPost)
	admin.HandleFunc("/doctors/{id}/availability", h.Availability.ListForDoctor).Methods(http.MethodGet)

	// Patient management (admin)
	admin.HandleFunc("/patients", h.AdminPatient.List).Methods(http.MethodGet)
	admin.HandleFunc("/patients", h.AdminPatient.Create).Methods(http.MethodPost)
	admin.HandleFunc("/patients/{id}", h.AdminPatient.Get).Methods(http.MethodGet)
	admin.HandleFunc("/patients/{id}", h.AdminPatient.Update).Methods(http.MethodPut, http.MethodPatch)
	admin.HandleFunc("/patients/{id}", h.AdminPatient.Delete).Methods(http.MethodDelete)
	admin.HandleFunc("/patients/{id}/approve", h.AdminPatient.Approve).Methods(http.MethodPost)
	admin.HandleFunc("/patients/{id}/block", h.AdminPatient.Block).Methods(http.MethodPost)
	admin.HandleFunc("/patients/{id}/unblock", h.AdminPatient.Unblock).Methods(http.MethodPost)

	// Appointment management (admin)
	admin.HandleFunc("/appointments", h.Appointment.ListAll).Methods(http.MethodGet)
	admin.HandleFunc("/appointments", h.Appointment.Book).Methods(http.MethodPost)
	admin.HandleFunc("/appointments/{id}", h.Appointment.Get).Methods(http.MethodGet)
	admin.HandleFunc("/appointments/{id}", h.Appointment.AdminUpdate).Methods(http.MethodPut, http.MethodPatch)
	admin.HandleFunc("/appointments/{id}", h.Appointment.Cancel).Methods(http.MethodDelete)
	admin.HandleFunc("/appointments/{id}/slip", h.Appointment.Slip).Methods(http.MethodGet)

	// Specialties
	admin.HandleFunc("/specialties", h.Specialty.List).Methods(http.MethodGet)
	admin.HandleFunc("/specialties", h.Specialty.Create).Methods(http.MethodPost)
	admin.HandleFunc("/specialties/{id:[0-9]+}", h.Specialty.Get).Methods(http.MethodGet)
	admin.HandleFunc("/specialties/{id:[0-9]+}", h.Specialty.Update).Methods(http.MethodPut, http.MethodPatch)
	admin.HandleFunc("/specialties/{id:[0-9]+}", h.Specialty.Delete).Methods(http.MethodDelete)

	// System alerts
	admin.HandleFunc("/system-alerts", h.SystemAlert.List).Methods(http.MethodGet)
	admin.HandleFunc("/system-alerts", h.SystemAlert.Create).Methods(http.MethodPost)
	admin.HandleFunc("/system-alerts/{id:[0-9]+}", h.SystemAlert.Get).Methods(http.MethodGet)
	admin.HandleFunc("/system-alerts/{id:[0-9]+}", h.SystemAlert.Update).Methods(http.MethodPut, http.MethodPatch)
	admin.HandleFunc("/system-alerts/{id:[0-9]+}", h.SystemAlert.Delete).Methods(http.MethodDelete)

	// Notifications
	admin.HandleFunc("/notifications", h.Notification.List).Methods(http.MethodGet)
	admin.HandleFunc("/notifications", h.Notification.Create).Methods(http.MethodPost)
	admin.HandleFunc("/notifications/{id:[0-9]+}", h.Notification.Get).Methods(http.MethodGet)
	admin.HandleFunc("/notifications/{id:[0-9]+}", h.Notification.Update).Methods(http.MethodPut, http.MethodPatch)
	admin.HandleFunc("/notifications/{id:[0-9]+}", h.Notification.Delete).Methods(http.MethodDelete)
	admin.HandleFunc("/notifications/{id:[0-9]+}/read", h.Notification.MarkRead).Methods(http.MethodPost)

	// Activity logs
	admin.HandleFunc("/activity-logs", h.ActivityLog.List).Methods(http.MethodGet)
	admin.HandleFunc("/activity-logs/{id:[0-9]+}", h.ActivityLog.Get).Methods(http.MethodGet)
	admin.HandleFunc("/activity-logs/{id:[0-9]+}", h.ActivityLog.Delete).Methods(http.MethodDelete)

	// CORS and request logging wrap the router so preflights and 404s pass through them too.
	return r.loggingMiddleware.Handle(r.corsMiddleware.Handle(trimTrailingSlash(r.router)))
}

// trimTrailingSlash lets "/auth/login/" and "/auth/login" reach the same route
// without a redirect, which would drop POST bodies.
func trimTrailingSlash(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if len(req.URL.Path) > 1 && strings.HasSuffix(req.URL.Path, "/") {
			req.URL.Path = strings.TrimRight(req.URL.Path, "/")
			if req.URL.Path == "" {
				req.URL.Path = "/"
			}
			req.URL.RawPath = ""
		}
		next.ServeHTTP(w, req)
	})
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}
