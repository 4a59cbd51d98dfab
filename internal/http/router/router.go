package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/visatide/identity-service/internal/health"
	"github.com/visatide/identity-service/internal/http/handler"
	"github.com/visatide/identity-service/internal/http/middleware"
	"github.com/visatide/identity-service/internal/http/response"
	"github.com/visatide/identity-service/internal/security"
)

type Dependencies struct {
	AuthHandler    *handler.AuthHandler
	UserHandler    *handler.UserHandler
	JWTManager     *security.JWTManager
	CORSOrigins    []string
	Readiness      *health.Checker
	AppName        string
	EnableOTelHTTP bool
}

func NewRouter(dep Dependencies) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.StructuredRequestLogger)
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.CORS(dep.CORSOrigins))
	r.Use(middleware.BodyLimit(1 << 20))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.Fail(w, r, http.StatusNotFound, response.SourceNotFound, "You have entered a black hole, find your way out!")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		response.Fail(w, r, http.StatusNotFound, response.SourceNotFound, "You have entered a black hole, find your way out!")
	})

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		response.Success(w, r, http.StatusOK, nil, "Welcome to "+dep.AppName+" server!!")
	})

	r.Get("/health/live", func(w http.ResponseWriter, r *http.Request) {
		response.Success(w, r, http.StatusOK, map[string]string{"status": "ok"}, "alive")
	})
	r.Get("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		if dep.Readiness == nil {
			response.Success(w, r, http.StatusOK, map[string]any{"checks": []any{}}, "ready")
			return
		}
		ready, results := dep.Readiness.Ready(r.Context())
		if ready {
			response.Success(w, r, http.StatusOK, map[string]any{"checks": results}, "ready")
			return
		}
		response.Fail(w, r, http.StatusServiceUnavailable, response.SourceInternal, "dependencies are not ready")
	})

	authn := middleware.AuthMiddleware(dep.JWTManager)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", dep.AuthHandler.Login)
			r.Post("/register", dep.UserHandler.Register)
			r.With(authn).Post("/add-staff", dep.UserHandler.AddStaff)
			r.With(authn).Patch("/change-password", dep.AuthHandler.ChangePassword)
			r.With(authn).Post("/generate-code", dep.AuthHandler.GenerateCode)
			r.With(authn).Post("/verify-code", dep.AuthHandler.VerifyCode)
		})

		r.Route("/users", func(r chi.Router) {
			r.Use(authn)
			r.With(middleware.RequirePolicy(middleware.AdminOnly())).Get("/", dep.UserHandler.List)
			r.Get("/me", dep.UserHandler.Me)
			r.Get("/me/notifications", dep.UserHandler.Notifications)
			r.With(middleware.RequirePolicy(middleware.AdminOrSelf("user_id"))).Get("/{user_id}", dep.UserHandler.GetByID)
			r.With(middleware.RequirePolicy(middleware.SelfOnly("user_id"))).Put("/{user_id}", dep.UserHandler.Update)
			r.With(middleware.RequirePolicy(middleware.AdminOnly())).Patch("/{user_id}/suspend", dep.UserHandler.Suspend)
		})
	})

	var h http.Handler = r
	if dep.EnableOTelHTTP {
		h = otelhttp.NewHandler(r, "http.server")
	}
	return h
}
