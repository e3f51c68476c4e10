// Package httpx wires the REST surface of the project record store.
package httpx

import (
	"github.com/gofiber/fiber/v2"

	"projectboard/internal/httpx/kit"
	"projectboard/internal/httpx/projects"
	"projectboard/internal/store"
)

// Providers carries the optional collaborators passed down to handlers.
type Providers = projects.Providers

// ErrorHandler is the app-level error handler; see kit.ErrorHandler.
func ErrorHandler() fiber.ErrorHandler { return kit.ErrorHandler() }

// Register mounts every route. The static /projects subpaths must be
// registered before the /projects/:id wildcard.
func Register(app *fiber.App, st *store.Store, providers ...*Providers) {
	var p *Providers
	if len(providers) > 0 {
		p = providers[0]
	}

	app.Get("/health", HealthHandler)

	app.Get("/projects", projects.ListHandler(st, p))
	app.Get("/projects/count", projects.CountHandler(st))
	app.Get("/projects/search", projects.SearchHandler(p))
	app.Get("/projects/name/:name", projects.GetByNameHandler(st))
	app.Get("/projects/:id", projects.GetByIDHandler(st))

	app.Post("/projects", projects.CreateHandler(st, p))
	app.Put("/projects", projects.UpdateHandler(st, p))
	app.Delete("/projects", projects.DeleteHandler(st, p))
}
