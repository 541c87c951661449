// Package main provides the Formlane API server implementation.
package main

import (
	"log/slog"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"go.opentelemetry.io/otel/trace"

	"github.com/formlane/formlane/pkg/auth"
	"github.com/formlane/formlane/pkg/builder"
	"github.com/formlane/formlane/pkg/eventbus"
	"github.com/formlane/formlane/pkg/persistence"
	"github.com/formlane/formlane/pkg/services"
	"github.com/formlane/formlane/pkg/web"
)

type API struct {
	logger      *slog.Logger
	persistence persistence.Persistence
	eventBus    eventbus.EventBus
	authService *auth.Service
	tracer      trace.Tracer
	validate    *validator.Validate
}

func NewAPI(
	logger *slog.Logger,
	p persistence.Persistence,
	eventBus eventbus.EventBus,
	authService *auth.Service,
	tracer trace.Tracer,
) *API {
	return &API{
		logger:      logger,
		persistence: p,
		eventBus:    eventBus,
		authService: authService,
		tracer:      tracer,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (a *API) App() *fiber.App {
	formService := services.NewForm(a.persistence, a.eventBus, a.tracer, a.logger)
	responseService := services.NewResponse(a.persistence, a.eventBus, a.tracer, a.logger)

	builderManager := builder.NewManager(formService, a.logger)
	if err := builderManager.Start(); err != nil {
		a.logger.Error("Failed to start builder session janitor", "error", err)
	}

	handlers := web.NewAPIHandlers(formService, responseService, a.authService, a.validate)
	builderHandlers := web.NewBuilderHandlers(builderManager, a.validate)
	fillHandlers := web.NewFillHandlers(formService, responseService, a.validate)
	requireAuth := web.RequireAuth(a.authService.Tokens())

	app := fiber.New()
	app.Use(cors.New(cors.Config{
		AllowCredentials: true,
		AllowOrigins:     []string{"http://localhost:5173", "http://localhost:3000"},
	}))
	app.Use(logger.New(logger.Config{
		DisableColors: true,
	}))

	app.Get(healthcheck.DefaultLivenessEndpoint, healthcheck.NewHealthChecker())
	app.Get(healthcheck.DefaultReadinessEndpoint, healthcheck.NewHealthChecker())

	app.Get("/", func(c fiber.Ctx) error {
		return c.SendString("Formlane API")
	})

	form := app.Group("/form")
	form.Post("/create", handlers.CreateForm, requireAuth)
	form.Get("/share/:shareId", handlers.GetSharedForm)
	form.Get("/:id", handlers.GetForm, requireAuth)
	form.Delete("/:id", handlers.DeleteForm, requireAuth)

	builderGroup := app.Group("/builder")
	builderGroup.Get("/templates", builderHandlers.ListTemplates, requireAuth)
	builderGroup.Post("/session", builderHandlers.CreateSession, requireAuth)
	builderGroup.Get("/session/:id", builderHandlers.GetSession, requireAuth)
	builderGroup.Delete("/session/:id", builderHandlers.CloseSession, requireAuth)
	builderGroup.Put("/session/:id/title", builderHandlers.SetTitle, requireAuth)
	builderGroup.Put("/session/:id/preview", builderHandlers.SetPreviewMode, requireAuth)
	builderGroup.Post("/session/:id/fields", builderHandlers.AddField, requireAuth)
	builderGroup.Patch("/session/:id/fields/:fieldId", builderHandlers.UpdateField, requireAuth)
	builderGroup.Delete("/session/:id/fields/:fieldId", builderHandlers.RemoveField, requireAuth)
	builderGroup.Post("/session/:id/reorder", builderHandlers.ReorderFields, requireAuth)
	builderGroup.Post("/session/:id/steps", builderHandlers.AddStep, requireAuth)
	builderGroup.Delete("/session/:id/steps/:index", builderHandlers.RemoveStep, requireAuth)
	builderGroup.Post("/session/:id/save", builderHandlers.Save, requireAuth)
	builderGroup.Get("/session/:id/export", builderHandlers.Export, requireAuth)
	builderGroup.Post("/session/:id/import", builderHandlers.Import, requireAuth)
	builderGroup.Post("/session/:id/template", builderHandlers.LoadTemplate, requireAuth)

	fill := app.Group("/fill")
	fill.Post("/start/:shareId", fillHandlers.Start)
	fill.Get("/session/:id", fillHandlers.GetState)
	fill.Post("/session/:id/values", fillHandlers.SetValue)
	fill.Post("/session/:id/next", fillHandlers.Next)
	fill.Post("/session/:id/previous", fillHandlers.Previous)
	fill.Post("/session/:id/submit", fillHandlers.Submit)

	formres := app.Group("/formres")
	formres.Post("/add", handlers.AddResponse)
	formres.Get("/list", handlers.ListResponses, requireAuth)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", handlers.Register)
	authGroup.Post("/login", handlers.Login)
	authGroup.Post("/logout", handlers.Logout)
	authGroup.Get("/isAuthenticated", handlers.IsAuthenticated)
	authGroup.Post("/send-otp", handlers.SendVerifyOTP, requireAuth)
	authGroup.Post("/verify-email", handlers.VerifyEmail, requireAuth)
	authGroup.Post("/reset-password-otp", handlers.SendResetOTP)
	authGroup.Post("/reset-password", handlers.ResetPassword)

	app.Get("/health", handlers.HealthCheck)

	return app
}

func (a *API) Start(port int) error {
	app := a.App()

	return app.Listen(":" + strconv.Itoa(port))
}
