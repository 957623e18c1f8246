package server

import (
	"net/http"

	"github.com/OFFIS-RIT/kgraph/internal/server/middleware"
	"github.com/OFFIS-RIT/kgraph/internal/server/routes"

	"github.com/labstack/echo/v4"
)

func RegisterRoutes(e *echo.Echo) {
	// Health check route
	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "OK")
	})

	nlpRoutes := e.Group("/nlp", middleware.AuthMiddleware)

	// Synchronous extraction
	nlpRoutes.POST("/graph", routes.PostGraphHandler, middleware.RequirePermission("nlp.graph"))
	nlpRoutes.POST("/ner", routes.PostNerHandler, middleware.RequirePermission("nlp.ner"))
	nlpRoutes.POST("/relations", routes.PostRelationsHandler, middleware.RequirePermission("nlp.relations"))
	nlpRoutes.GET("/schema", routes.GetSchemaHandler)

	// Graph jobs
	nlpRoutes.POST("/graph/jobs", routes.PostGraphJobHandler, middleware.RequirePermission("nlp.jobs"))
	nlpRoutes.GET("/graph/jobs/:id", routes.GetGraphJobHandler, middleware.RequirePermission("nlp.jobs"))
}
