// Package projects provides the HTTP handlers for the project record store.
package projects

import (
	"context"
	"encoding/json"
	"net/url"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"

	"projectboard/internal/esx"
	"projectboard/internal/httpx/kit"
	"projectboard/internal/logx"
	"projectboard/internal/metrics"
	"projectboard/internal/mqx"
	"projectboard/internal/redisx"
	"projectboard/internal/store"
)

var handlerLogger = logx.GetScope("projects")

// Providers carries the optional collaborators; any of them may be nil.
type Providers struct {
	MQ  mqx.Publisher
	ES  *esx.Client
	RDB *redisx.Client
}

// UpdateProjectRequest is the body of PUT /projects: the update key plus the
// field mapping to apply.
// swagger:model UpdateProjectRequest
type UpdateProjectRequest struct {
	ProjectName string         `json:"projectName"`
	UpdatedData map[string]any `json:"updatedData"`
}

// DeleteProjectRequest is the body of DELETE /projects.
// swagger:model DeleteProjectRequest
type DeleteProjectRequest struct {
	ProjectName string `json:"projectName"`
}

func (p *Providers) afterMutation(ctx context.Context, event string, rec *store.ProjectRecord, name string) {
	if p == nil {
		return
	}
	redisx.InvalidateProjectList(ctx, p.RDB)
	if err := mqx.PublishProjectEvent(ctx, p.MQ, event, name); err != nil {
		handlerLogger.Sugar().Warnw("publish event failed", "event", event, "err", err)
	}
	if p.ES == nil {
		return
	}
	var err error
	if rec != nil {
		err = esx.IndexProject(ctx, p.ES, esx.DocFor(rec))
	}
	if err != nil {
		handlerLogger.Sugar().Warnw("es index failed", "project_name", name, "err", err)
	}
}

// ListHandler returns every project record as a plain array.
//
//	@Summary      List projects
//	@Tags         projects
//	@Produce      json
//	@Success      200  {array}  store.ProjectRecord
//	@Router       /projects [get]
func ListHandler(st *store.Store, p *Providers) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.Context(), 3*time.Second)
		defer cancel()

		if p != nil {
			if cached, ok := redisx.GetProjectList(ctx, p.RDB); ok {
				return c.JSON(cached)
			}
		}

		records, err := st.List(ctx)
		if err != nil {
			return kit.InternalError("query projects failed", err.Error())
		}
		if p != nil {
			redisx.SetProjectList(ctx, p.RDB, records)
		}
		return c.JSON(records)
	}
}

// CountHandler returns the total number of projects.
//
//	@Summary      Count projects
//	@Tags         projects
//	@Produce      json
//	@Success      200  {object}  map[string]int
//	@Router       /projects/count [get]
func CountHandler(st *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.Context(), 3*time.Second)
		defer cancel()
		n, err := st.Count(ctx)
		if err != nil {
			return kit.InternalError("count projects failed", err.Error())
		}
		return c.JSON(fiber.Map{"count": n})
	}
}

// GetByIDHandler returns one record by its surrogate id.
//
//	@Summary      Get project by id
//	@Tags         projects
//	@Produce      json
//	@Param        id  path  int  true  "record id"
//	@Success      200  {object}  store.ProjectRecord
//	@Failure      404  {object}  map[string]string
//	@Router       /projects/{id} [get]
func GetByIDHandler(st *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id < 1 {
			return kit.BadRequest("invalid project id", c.Params("id"))
		}
		ctx, cancel := context.WithTimeout(c.Context(), 3*time.Second)
		defer cancel()
		rec, err := st.GetByID(ctx, int64(id))
		if err != nil {
			return kit.StoreError(err, "query project failed")
		}
		return c.JSON(rec)
	}
}

// GetByNameHandler returns one record by its unique project name.
//
//	@Summary      Get project by name
//	@Tags         projects
//	@Produce      json
//	@Param        name  path  string  true  "project name"
//	@Success      200  {object}  store.ProjectRecord
//	@Failure      404  {object}  map[string]string
//	@Router       /projects/name/{name} [get]
func GetByNameHandler(st *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		name, err := decodeParam(c, "name")
		if err != nil || name == "" {
			return kit.BadRequest("invalid project name", c.Params("name"))
		}
		ctx, cancel := context.WithTimeout(c.Context(), 3*time.Second)
		defer cancel()
		rec, err := st.GetByName(ctx, name)
		if err != nil {
			return kit.StoreError(err, "query project failed")
		}
		return c.JSON(rec)
	}
}

// CreateHandler inserts a new record from the posted field set.
//
//	@Summary      Create project
//	@Tags         projects
//	@Accept       json
//	@Produce      json
//	@Success      201  {object}  map[string]string
//	@Failure      400  {object}  map[string]string
//	@Failure      409  {object}  map[string]string
//	@Router       /projects [post]
func CreateHandler(st *store.Store, p *Providers) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body map[string]any
		if err := json.Unmarshal(c.Body(), &body); err != nil || len(body) == 0 {
			return kit.BadRequest("project fields required", nil)
		}
		rec, err := store.FromFields(body)
		if err != nil {
			return kit.BadRequest(err.Error(), nil)
		}
		if strings.TrimSpace(rec.ProjectName) == "" || strings.TrimSpace(rec.Code) == "" {
			return kit.BadRequest("project_name and code required", nil)
		}

		ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
		defer cancel()
		if err := st.Create(ctx, rec); err != nil {
			metrics.IncrementProjectMutation("create", "failed")
			return kit.StoreError(err, "create project failed")
		}
		metrics.IncrementProjectMutation("create", "success")

		if created, err := st.GetByName(ctx, rec.ProjectName); err == nil {
			p.afterMutation(ctx, "project.created", created, rec.ProjectName)
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Project created successfully"})
	}
}

// UpdateHandler applies a partial update keyed by the original project name.
// The SET clause covers exactly the keys present in updatedData; the
// dashboard always sends the full draft.
//
//	@Summary      Update project by name
//	@Tags         projects
//	@Accept       json
//	@Produce      json
//	@Param        body  body  projects.UpdateProjectRequest  true  "update payload"
//	@Success      200  {object}  map[string]string
//	@Failure      400  {object}  map[string]string
//	@Failure      404  {object}  map[string]string
//	@Router       /projects [put]
func UpdateHandler(st *store.Store, p *Providers) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req UpdateProjectRequest
		if err := c.BodyParser(&req); err != nil || req.ProjectName == "" || len(req.UpdatedData) == 0 {
			return kit.BadRequest("Project name and updated data are required", nil)
		}

		ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
		defer cancel()
		if err := st.UpdateByName(ctx, req.ProjectName, req.UpdatedData); err != nil {
			metrics.IncrementProjectMutation("update", "failed")
			return kit.StoreError(err, "update project failed")
		}
		metrics.IncrementProjectMutation("update", "success")

		// The payload may rename the project; re-read under the new key.
		finalName := req.ProjectName
		if v, ok := req.UpdatedData["project_name"].(string); ok && v != "" {
			finalName = v
		}
		if updated, err := st.GetByName(ctx, finalName); err == nil {
			p.afterMutation(ctx, "project.updated", updated, finalName)
		}
		return c.JSON(fiber.Map{"message": "Project updated successfully"})
	}
}

// DeleteHandler removes one record keyed by project name.
//
//	@Summary      Delete project by name
//	@Tags         projects
//	@Accept       json
//	@Produce      json
//	@Param        body  body  projects.DeleteProjectRequest  true  "delete payload"
//	@Success      200  {object}  map[string]string
//	@Failure      400  {object}  map[string]string
//	@Failure      404  {object}  map[string]string
//	@Router       /projects [delete]
func DeleteHandler(st *store.Store, p *Providers) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req DeleteProjectRequest
		if err := c.BodyParser(&req); err != nil || req.ProjectName == "" {
			return kit.BadRequest("Project name is required", nil)
		}

		ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
		defer cancel()

		// Fetch first so the search index entry can be dropped by id.
		existing, getErr := st.GetByName(ctx, req.ProjectName)

		if err := st.DeleteByName(ctx, req.ProjectName); err != nil {
			metrics.IncrementProjectMutation("delete", "failed")
			return kit.StoreError(err, "delete project failed")
		}
		metrics.IncrementProjectMutation("delete", "success")

		p.afterMutation(ctx, "project.deleted", nil, req.ProjectName)
		if p != nil && p.ES != nil && getErr == nil {
			if err := esx.DeleteProject(ctx, p.ES, existing.ID); err != nil {
				handlerLogger.Sugar().Warnw("es delete failed", "project_name", req.ProjectName, "err", err)
			}
		}
		return c.JSON(fiber.Map{"message": "Project deleted successfully"})
	}
}

// SearchHandler queries the optional search index.
//
//	@Summary      Search projects
//	@Tags         projects
//	@Produce      json
//	@Param        q  query  string  true  "query text"
//	@Success      200  {object}  map[string]interface{}
//	@Router       /projects/search [get]
func SearchHandler(p *Providers) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if p == nil || p.ES == nil {
			return c.JSON(fiber.Map{"hits": []any{}})
		}
		q := c.Query("q")
		if q == "" {
			return kit.BadRequest("q required", nil)
		}
		from := c.QueryInt("offset", 0)
		size := lo.Clamp(c.QueryInt("limit", 20), 1, 100)
		ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
		defer cancel()
		res, err := esx.SearchProjects(ctx, p.ES, q, from, size)
		if err != nil {
			return kit.InternalError("es search failed", err.Error())
		}
		return c.JSON(res)
	}
}

func decodeParam(c *fiber.Ctx, name string) (string, error) {
	return url.PathUnescape(c.Params(name))
}
