package routes

import (
	"errors"
	"net/http"

	"github.com/OFFIS-RIT/kgraph/internal/queue"
	"github.com/OFFIS-RIT/kgraph/internal/server/middleware"
	"github.com/OFFIS-RIT/kgraph/internal/storage"
	"github.com/OFFIS-RIT/kgraph/pkg/logger"

	"github.com/labstack/echo/v4"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

func PostGraphJobHandler(c echo.Context) error {
	app := c.(*middleware.AppContext).App
	if !app.JobsEnabled() {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": "Jobs are disabled"})
	}

	docs, ok, err := bindDocuments(c)
	if !ok {
		return err
	}

	jobID, err := gonanoid.New()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}

	err = queue.EnqueueGraphJob(c.Request().Context(), app.Queue, queue.GraphJobMsg{
		JobID:     jobID,
		Documents: docs,
	})
	if err != nil {
		logger.Error("[Server] Failed to enqueue graph job", "job_id", jobID, "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}

	logger.Info("[Server] Enqueued graph job", "job_id", jobID, "documents", len(docs))
	return c.JSON(http.StatusAccepted, map[string]string{"job_id": jobID})
}

func GetGraphJobHandler(c echo.Context) error {
	type getGraphJobParams struct {
		ID string `param:"id" validate:"required"`
	}

	app := c.(*middleware.AppContext).App
	if !app.JobsEnabled() {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": "Jobs are disabled"})
	}

	params := new(getGraphJobParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request params"})
	}
	if err := c.Validate(params); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request params"})
	}

	result, err := app.Results.Get(c.Request().Context(), params.ID)
	if errors.Is(err, storage.ErrNotFound) {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Job not found"})
	}
	if err != nil {
		logger.Error("[Server] Failed to load graph job", "job_id", params.ID, "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}

	return c.JSON(http.StatusOK, result)
}
