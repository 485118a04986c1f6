package api

import (
	"context"
	"net/http"

	"github.com/julienschmidt/httprouter"

	apiContext "github.com/hlee18lee46/clearwhistlenew/internal/api/context"
	"github.com/hlee18lee46/clearwhistlenew/internal/api/handlers"
	"github.com/hlee18lee46/clearwhistlenew/internal/api/middleware"
)

type Dependencies struct {
	AuthHandler    *handlers.AuthHandler
	AdminHandler   *handlers.AdminHandler
	ReportHandler  *handlers.ReportHandler
	HealthHandler  *handlers.HealthHandler
	AuthMiddleware *middleware.AuthMiddleware
}

func NewRouter(deps *Dependencies) *httprouter.Router {
	router := httprouter.New()

	router.GET("/", wrap(deps.HealthHandler.Root))
	router.GET("/health", wrap(deps.HealthHandler.Check))

	router.POST("/login", wrap(deps.AuthHandler.Login))

	// Report intake and retrieval. Submission is public: anonymous reports
	// are a supported mode, not an auth gap.
	router.POST("/submit", wrap(deps.ReportHandler.Submit))
	router.POST("/submit_org", wrap(deps.ReportHandler.SubmitOrg))
	router.POST("/store-hash", wrap(deps.ReportHandler.StoreHash))
	router.GET("/report/:report_id", wrap(deps.ReportHandler.Get))

	// Admin surface
	authMid := deps.AuthMiddleware

	router.POST("/apply-admin", wrap(deps.AdminHandler.Apply))
	router.GET("/admin/reports",
		chain(deps.ReportHandler.List, authMid.Handle, middleware.RequireAdmin))
	router.POST("/admin/create-org",
		chain(deps.AdminHandler.CreateOrg, authMid.Handle, middleware.RequireAdmin))
	router.POST("/admin/create-user",
		chain(deps.AdminHandler.CreateUser, authMid.Handle, middleware.RequireAdmin))
	router.GET("/admin/org-users/:org_id",
		chain(deps.AdminHandler.ListOrgUsers, authMid.Handle, middleware.RequireAdmin))
	router.GET("/admin/pending-applications",
		chain(deps.AdminHandler.ListPendingApplications, authMid.Handle, middleware.RequireAdmin))
	router.POST("/admin/applications/:application_id/review",
		chain(deps.AdminHandler.ReviewApplication, authMid.Handle, middleware.RequireAdmin))

	return router
}

// Helper function to chain middlewares
func chain(handler http.HandlerFunc, middlewares ...func(http.HandlerFunc) http.HandlerFunc) httprouter.Handle {
	for i := len(middlewares) - 1; i >= 0; i-- {
		handler = middlewares[i](handler)
	}
	return wrap(handler)
}

// Convert http.HandlerFunc to httprouter.Handle
func wrap(handler http.HandlerFunc) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		// Inject params into context
		ctx := context.WithValue(r.Context(), apiContext.Params, ps)
		handler(w, r.WithContext(ctx))
	}
}
