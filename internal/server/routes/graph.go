package routes

import (
	"net/http"

	"github.com/OFFIS-RIT/kgraph/internal/server/middleware"
	"github.com/OFFIS-RIT/kgraph/pkg/common"
	"github.com/OFFIS-RIT/kgraph/pkg/graph"
	"github.com/OFFIS-RIT/kgraph/pkg/logger"

	"github.com/labstack/echo/v4"
)

type documentsRequest struct {
	Documents []common.Document `json:"documents" validate:"required"`
}

// bindDocuments binds and validates a documents request. It writes the
// error response itself and reports whether the handler may continue.
func bindDocuments(c echo.Context) ([]common.Document, bool, error) {
	data := new(documentsRequest)
	if err := c.Bind(data); err != nil {
		return nil, false, c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	if err := c.Validate(data); err != nil {
		return nil, false, c.JSON(http.StatusBadRequest, map[string]string{"error": "No documents"})
	}
	if err := graph.ValidateDocuments(data.Documents); err != nil {
		return nil, false, c.JSON(http.StatusBadRequest, map[string]string{"error": "No documents"})
	}
	return data.Documents, true, nil
}

func PostGraphHandler(c echo.Context) error {
	docs, ok, err := bindDocuments(c)
	if !ok {
		return err
	}

	app := c.(*middleware.AppContext).App
	result, err := app.Graph.BuildGraph(c.Request().Context(), docs)
	if err != nil {
		logger.Error("[Server] Failed to build graph", "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}
	if len(result.Nodes) == 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Missing data"})
	}

	return c.JSON(http.StatusOK, result)
}

func PostNerHandler(c echo.Context) error {
	docs, ok, err := bindDocuments(c)
	if !ok {
		return err
	}

	app := c.(*middleware.AppContext).App
	entities, err := app.Graph.ListEntities(c.Request().Context(), docs)
	if err != nil {
		logger.Error("[Server] Failed to list entities", "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}

	return c.JSON(http.StatusOK, entities)
}

func PostRelationsHandler(c echo.Context) error {
	type relationsRequest struct {
		Texts    []string `json:"texts" validate:"required"`
		Language string   `json:"language"`
	}

	data := new(relationsRequest)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	if err := c.Validate(data); err != nil || len(data.Texts) == 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "No texts"})
	}

	app := c.(*middleware.AppContext).App
	relations, err := app.Graph.ListRelations(c.Request().Context(), data.Texts, data.Language)
	if err != nil {
		logger.Error("[Server] Failed to list relations", "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}

	return c.JSON(http.StatusOK, relations)
}

func GetSchemaHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, common.GenerateSchema(&common.GraphResult{}))
}
