package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/nurudeen19/rag-fortress/internal/application/auth"
	"github.com/nurudeen19/rag-fortress/internal/application/retrieval"
	"github.com/nurudeen19/rag-fortress/internal/application/usecase"
	"github.com/nurudeen19/rag-fortress/internal/domain/entity"
	"github.com/nurudeen19/rag-fortress/pkg/config"
	"github.com/nurudeen19/rag-fortress/pkg/token"
)

// RouterDeps everything the router wires into handlers.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	UserUC      *usecase.UserUseCase
	DocumentUC  *usecase.DocumentUseCase
	ReportUC    *usecase.ErrorReportUseCase
	OverrideUC  *usecase.OverrideUseCase
	ActivityUC  *usecase.ActivityUseCase
	DirectoryUC *usecase.DirectoryUseCase
	Pipeline    *retrieval.Pipeline
	Recorder    *usecase.ActivityRecorder
	Issuer      *token.Issuer
	JWT         config.JWTConfig
}

// Router registers all API routes.
func Router(app *fiber.App, deps RouterDeps) {
	v1 := app.Group("/v1")

	// Auth (public; refresh and logout authenticate via the refresh cookie)
	authHandler := NewAuthHandler(deps.AuthUC, deps.JWT)
	authGroup := v1.Group("/auth")
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/refresh", authHandler.Refresh)
	authGroup.Post("/logout", authHandler.Logout)

	// Public directory: the registration form needs the department list.
	directoryHandler := NewDirectoryHandler(deps.DirectoryUC)
	v1.Get("/departments", directoryHandler.ListDepartments)

	// Everything below requires a valid access token.
	protected := v1.Group("/", AuthRequired(deps.Issuer))

	userHandler := NewUserHandler(deps.UserUC)
	protected.Get("/me", userHandler.Me)

	// Documents: upload and manage own files.
	docHandler := NewDocumentHandler(deps.DocumentUC)
	files := protected.Group("/files")
	files.Post("/upload", docHandler.Upload)
	files.Get("/list/my-uploads", docHandler.ListMine)
	files.Get("/:id", docHandler.GetByID)
	files.Delete("/:id", docHandler.Delete)

	// Question answering.
	queryHandler := NewQueryHandler(deps.Pipeline, deps.Recorder)
	protected.Post("/query", queryHandler.Ask)

	// Error reports: any user files and sees their own.
	reportHandler := NewErrorReportHandler(deps.ReportUC)
	reports := protected.Group("/error-reports")
	reports.Post("/", reportHandler.Create)
	reports.Get("/", reportHandler.ListMine)

	// Clearance overrides: any user requests, admins decide.
	overrideHandler := NewOverrideHandler(deps.OverrideUC)
	overrides := protected.Group("/overrides")
	overrides.Post("/", overrideHandler.Create)
	overrides.Get("/my-requests", overrideHandler.ListMine)

	// Admin-only surface.
	admin := protected.Group("/admin", RequireRole(entity.RoleAdmin))

	users := admin.Group("/users")
	users.Post("/", userHandler.Create)
	users.Get("/", userHandler.List)
	users.Get("/:id", userHandler.GetByID)
	users.Put("/:id", userHandler.Update)
	users.Delete("/:id", userHandler.Delete)

	adminReports := admin.Group("/error-reports")
	adminReports.Get("/", reportHandler.ListByStatus)
	adminReports.Patch("/:id", reportHandler.UpdateStatus)

	adminOverrides := admin.Group("/overrides")
	adminOverrides.Get("/", overrideHandler.ListByStatus)
	adminOverrides.Post("/:id/decide", overrideHandler.Decide)

	admin.Post("/departments", directoryHandler.CreateDepartment)
	admin.Get("/roles", directoryHandler.ListRoles)

	activityHandler := NewActivityHandler(deps.ActivityUC)
	admin.Get("/activity", activityHandler.List)
}
