package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/httprate"
	"github.com/go-chi/jwtauth/v5"
	"github.com/unrolled/secure"

	"github.com/gestao-urbana/backoffice-go/internal/domain/user"
	"github.com/gestao-urbana/backoffice-go/internal/handler/http/middleware"
	"github.com/gestao-urbana/backoffice-go/internal/handler/http/response"
	"github.com/gestao-urbana/backoffice-go/internal/pkg/jwt"
)

// Handlers groups everything the router mounts.
type Handlers struct {
	Auth       AuthHandler
	Company    CompanyHandler
	User       UserHandler
	Employee   EmployeeHandler
	Attendance AttendanceHandler
	Payroll    PayrollHandler
	Production ProductionHandler
	Finance    FinanceHandler
	Inventory  InventoryHandler
	Dashboard  DashboardHandler
	Report     ReportHandler
	Snapshot   SnapshotHandler
}

type RouterOptions struct {
	AllowedOrigins []string
	Production     bool
	// AuthRateLimit is requests per minute per IP on /auth. Zero disables it.
	AuthRateLimit int
}

func NewRouter(logger *slog.Logger, JWTService jwt.Service, users middleware.UserLookup, h Handlers, opts RouterOptions) *chi.Mux {
	r := chi.NewRouter()
	if logger == nil {
		logger = slog.Default()
	}

	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token", middleware.CompanyHeader},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	secureMiddleware := secure.New(secure.Options{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
		ReferrerPolicy:     "strict-origin-when-cross-origin",
		SSLProxyHeaders:    map[string]string{"X-Forwarded-Proto": "https"},
		IsDevelopment:      !opts.Production,
	})
	r.Use(secureMiddleware.Handler)

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	capabilities := middleware.NewCapabilities(users)
	section := capabilities.Require

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			if opts.AuthRateLimit > 0 {
				r.Use(httprate.Limit(opts.AuthRateLimit, time.Minute,
					httprate.WithKeyFuncs(httprate.KeyByIP),
					httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
						response.TooManyRequests(w, "Too many authentication attempts, try again later")
					}),
				))
			}
			r.Post("/login", h.Auth.Login)
			r.Post("/refresh", h.Auth.RefreshToken)
			r.Post("/logout", h.Auth.Logout)
			r.Get("/login/oauth/google", h.Auth.LoginWithGoogle)
			r.Get("/oauth/callback/google", h.Auth.OAuthCallbackGoogle)
		})

		// EventSource cannot send headers, the stream authenticates with ?token=
		r.Get("/events", h.Snapshot.Events)

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired)
			r.Use(middleware.CompanyScope)

			r.Get("/session", h.Auth.Session)
			r.Post("/auth/events-token", h.Auth.EventsToken)

			r.Route("/companies", func(r chi.Router) {
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireGlobal)
					r.Get("/", h.Company.List)
					r.Post("/", h.Company.Create)
				})
			})

			// Everything below acts on a single company
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireCompany)

				r.Get("/snapshot", h.Snapshot.Get)

				r.Route("/company", func(r chi.Router) {
					r.Get("/", h.Company.Current)
					r.With(section(user.CapabilitySettings)).Put("/settings", h.Company.UpdateSettings)
				})

				r.Route("/users", func(r chi.Router) {
					r.Use(section(user.CapabilityManagement))
					r.Get("/", h.User.List)
					r.Post("/", h.User.Create)
					r.Put("/{id}/access", h.User.UpdateAccess)
				})

				r.Route("/employees", func(r chi.Router) {
					r.Use(section(user.CapabilityEmployees))
					r.Get("/", h.Employee.ListEmployees)
					r.Post("/", h.Employee.CreateEmployee)
					r.Get("/{id}", h.Employee.GetEmployee)
					r.Put("/{id}", h.Employee.UpdateEmployee)
					r.Post("/{id}/toggle-status", h.Employee.ToggleStatus)
				})

				r.Route("/attendance", func(r chi.Router) {
					r.Use(section(user.CapabilityEmployees))
					r.Get("/", h.Attendance.List)
					r.Post("/toggle", h.Attendance.Toggle)
					r.Post("/point", h.Attendance.SavePoint)
					r.Put("/{id}/values", h.Attendance.EditValues)
				})

				r.Route("/payroll", func(r chi.Router) {
					r.Use(section(user.CapabilityFinance))
					r.Get("/preview", h.Payroll.Preview)
					r.Post("/settle", h.Payroll.Settle)
				})

				r.Route("/production", func(r chi.Router) {
					r.Use(section(user.CapabilityProduction))
					r.Get("/areas", h.Production.ListAreas)
					r.Post("/areas", h.Production.CreateArea)
					r.Get("/areas/{id}", h.Production.GetArea)
					r.Put("/areas/{id}", h.Production.UpdateArea)
					r.Post("/areas/{id}/finish", h.Production.FinishArea)
					r.Post("/areas/{id}/services", h.Production.AddService)
					r.Delete("/areas/{id}/services/{serviceID}", h.Production.RemoveService)
					r.Get("/report", h.Production.Report)
					r.Get("/goals", h.Production.ListGoals)
					r.Put("/goals/{month}", h.Production.UpsertGoal)
				})

				r.Route("/finance", func(r chi.Router) {
					r.Use(section(user.CapabilityFinance))
					r.Get("/entries", h.Finance.List)
					r.Post("/entries", h.Finance.Post)
					r.Delete("/entries/{id}", h.Finance.Delete)
				})

				r.Route("/inventory", func(r chi.Router) {
					r.Use(section(user.CapabilityInventory))
					r.Get("/items", h.Inventory.ListItems)
					r.Post("/items", h.Inventory.CreateItem)
					r.Get("/items/critical", h.Inventory.CriticalItems)
					r.Put("/items/{id}", h.Inventory.UpdateItem)
					r.Get("/movements", h.Inventory.ListMovements)
					r.Post("/movements", h.Inventory.RegisterMovement)
					r.Post("/movements/{id}/reverse", h.Inventory.ReverseMovement)
				})

				r.Route("/dashboard", func(r chi.Router) {
					r.Use(section(user.CapabilityAnalytics))
					r.Get("/", h.Dashboard.Overview)
					r.Get("/summary", h.Dashboard.Summary)
				})

				r.With(section(user.CapabilityAI)).Post("/assistant/chat", h.Dashboard.Chat)

				r.Route("/reports", func(r chi.Router) {
					r.Use(section(user.CapabilityAnalytics))
					r.Get("/attendance-sheet", h.Report.AttendanceSheet)
					r.Get("/{domain}", h.Report.Export)
				})
			})
		})
	})
	return r
}
