package middleware

import (
	"context"

	"github.com/OFFIS-RIT/kgraph/internal/queue"
	"github.com/OFFIS-RIT/kgraph/pkg/common"
	"github.com/OFFIS-RIT/kgraph/pkg/graph"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

type AppUser struct {
	Subject     string
	Role        string
	Permissions []string
}

// GraphService is the graph functionality served over HTTP.
type GraphService interface {
	BuildGraph(ctx context.Context, docs []common.Document) (*common.GraphResult, error)
	ListEntities(ctx context.Context, docs []common.Document) ([]graph.DocumentEntities, error)
	ListRelations(ctx context.Context, texts []string, language string) ([][]graph.RelationTriple, error)
}

// ResultReader loads finished job results.
type ResultReader interface {
	Get(ctx context.Context, jobID string) (*common.GraphResult, error)
}

// App holds the shared dependencies of all handlers. Queue and Results are
// nil when async jobs are disabled; KeyFunc is nil when JWT auth is off.
type App struct {
	Graph        GraphService
	Queue        queue.Publisher
	Results      ResultReader
	KeyFunc      jwt.Keyfunc
	MasterAPIKey string
}

// AuthEnabled reports whether requests must carry credentials.
func (a *App) AuthEnabled() bool {
	return a.KeyFunc != nil || a.MasterAPIKey != ""
}

// JobsEnabled reports whether async graph jobs are available.
func (a *App) JobsEnabled() bool {
	return a.Queue != nil && a.Results != nil
}

type AppContext struct {
	echo.Context
	App  *App
	User *AppUser
}

func AppContextMiddleware(app *App) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cc := &AppContext{c, app, nil}
			return next(cc)
		}
	}
}
