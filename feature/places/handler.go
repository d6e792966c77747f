package places

import (
	"errors"
	"strconv"

	"georecon/core/gazetteer"
	"georecon/core/logger"
	"georecon/core/reconcile"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for lookups and reconciliation.
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes registers the places and reconcile routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	rec := app.Group("/reconcile")
	rec.Post("/", h.HandleReconcile)
	rec.Post("/batch", h.HandleReconcileBatch)

	group := app.Group("/places")
	group.Get("/lookup", h.HandleLookup)
	group.Post("/reload", h.HandleReload)
	group.Get("/:id", h.HandlePlace)
}

// ReconcileRequest is the body of POST /reconcile. Either Atoms or Field is required.
type ReconcileRequest struct {
	Atoms         []string `json:"atoms"`
	Field         string   `json:"field"`
	Type          string   `json:"type"`
	Strategy      string   `json:"strategy"`
	KeepAncestors *bool    `json:"keep_ancestors"`
	Explain       bool     `json:"explain"`
}

// BatchRequest is the body of POST /reconcile/batch.
type BatchRequest struct {
	Items         []reconcile.BatchItem `json:"items"`
	Strategy      string                `json:"strategy"`
	KeepAncestors *bool                 `json:"keep_ancestors"`
}

// options merges request overrides into the configured defaults.
func (h *Handler) options(strategy string, keep *bool) (reconcile.Options, error) {
	opts := h.service.Rules().Defaults()
	if strategy != "" {
		s, err := reconcile.ParseStrategy(strategy)
		if err != nil {
			return opts, err
		}
		opts.Strategy = s
	}
	if keep != nil {
		opts.KeepAncestors = *keep
	}
	return opts, nil
}

// errorStatus maps service errors to HTTP statuses.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotLoaded):
		return fiber.StatusServiceUnavailable
	case errors.Is(err, ErrPlaceNotFound):
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}

func (h *Handler) fail(c *fiber.Ctx, err error) error {
	status := errorStatus(err)
	if status >= fiber.StatusInternalServerError {
		logger.WithRayID(h.logger, c).Error("Request failed", zap.Error(err))
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

// HandleReconcile resolves one access point.
// @Summary Reconcile Access Point
// @Description Resolves a list of atoms, or a delimited field, to gazetteer places. Set explain to include per-atom candidates.
// @Tags reconcile
// @Accept json
// @Produce json
// @Param request body ReconcileRequest true "Atoms or field"
// @Success 200 {object} map[string]interface{} "Places"
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 503 {object} map[string]string "Index Not Loaded"
// @Security ApiKeyAuth
// @Router /reconcile [post]
func (h *Handler) HandleReconcile(c *fiber.Ctx) error {
	var req ReconcileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if len(req.Atoms) == 0 && req.Field == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "atoms or field is required"})
	}
	opts, err := h.options(req.Strategy, req.KeepAncestors)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	rules := h.service.Rules()
	if !rules.TypeAllowed(req.Type) {
		return c.JSON(fiber.Map{"places": []PlaceView{}, "skipped": true})
	}

	atoms := req.Atoms
	if len(atoms) == 0 {
		if rules.IsPerson(req.Field) {
			return c.JSON(fiber.Map{"places": []PlaceView{}, "person": true})
		}
		atoms = reconcile.SplitField(req.Field)
	}

	st, err := h.service.Current()
	if err != nil {
		return h.fail(c, err)
	}
	nodes, hit := st.Reconcile(c.Context(), atoms, opts)

	resp := fiber.Map{
		"places":     NewPlaceViews(nodes),
		"strategy":   opts.Strategy,
		"cache_hit":  hit,
		"generation": st.Meta.Generation,
	}
	if req.Explain {
		resp["trace"] = traceViews(st.Explain(atoms))
	}
	return c.JSON(resp)
}

func traceViews(traces []reconcile.AtomTrace) []TraceView {
	views := make([]TraceView, len(traces))
	for i, t := range traces {
		views[i] = TraceView{
			Raw:        t.Raw,
			Text:       t.Text,
			Dropped:    string(t.Dropped),
			Filtered:   t.Filtered,
			Candidates: NewPlaceViews(t.Candidates),
		}
	}
	return views
}

// HandleReconcileBatch resolves many access points.
// @Summary Reconcile Batch
// @Description Resolves many access points concurrently. Results keep item order.
// @Tags reconcile
// @Accept json
// @Produce json
// @Param request body BatchRequest true "Items"
// @Success 200 {object} reconcile.BatchResult
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 503 {object} map[string]string "Index Not Loaded"
// @Security ApiKeyAuth
// @Router /reconcile/batch [post]
func (h *Handler) HandleReconcileBatch(c *fiber.Ctx) error {
	var req BatchRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if len(req.Items) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "items is required"})
	}
	opts, err := h.options(req.Strategy, req.KeepAncestors)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	result, err := h.service.ReconcileBatch(c.Context(), req.Items, opts)
	if err != nil {
		return h.fail(c, err)
	}

	logger.WithRayID(h.logger, c).Info("Batch reconciled",
		zap.Int("total", result.Summary.Total),
		zap.Int("matched", result.Summary.Matched),
		zap.Int("ambiguous", result.Summary.Ambiguous),
		zap.Int("unmatched", result.Summary.Unmatched),
	)
	return c.JSON(result)
}

// HandleLookup lists every place registered under a name.
// @Summary Lookup Name
// @Description Lists every place indexed under the normalized name, most relevant first.
// @Tags places
// @Produce json
// @Param name query string true "Place name"
// @Success 200 {object} map[string]interface{} "Places"
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 503 {object} map[string]string "Index Not Loaded"
// @Security ApiKeyAuth
// @Router /places/lookup [get]
func (h *Handler) HandleLookup(c *fiber.Ctx) error {
	name := c.Query("name")
	if name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "name is required"})
	}

	nodes, err := h.service.Lookup(name)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{
		"name":       name,
		"normalized": gazetteer.Normalize(name),
		"places":     NewPlaceViews(nodes),
	})
}

// HandlePlace returns one place by id.
// @Summary Get Place
// @Description Returns one place with its lineage and indexed names.
// @Tags places
// @Produce json
// @Param id path int true "GeoNames id"
// @Success 200 {object} PlaceView
// @Failure 400 {object} map[string]string "Invalid Id"
// @Failure 404 {object} map[string]string "Not Found"
// @Failure 503 {object} map[string]string "Index Not Loaded"
// @Security ApiKeyAuth
// @Router /places/{id} [get]
func (h *Handler) HandlePlace(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid place id"})
	}

	st, err := h.service.Current()
	if err != nil {
		return h.fail(c, err)
	}
	n, err := st.Place(id)
	if err != nil {
		return h.fail(c, err)
	}

	view := NewPlaceView(n)
	view.Names = st.NamesOf(n)
	return c.JSON(view)
}

// HandleReload rebuilds the index from its source.
// @Summary Reload Index
// @Description Rebuilds the index from the configured source and swaps it in. On failure the current index stays in service.
// @Tags places
// @Produce json
// @Success 200 {object} map[string]interface{} "Reload Report"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Security ApiKeyAuth
// @Router /places/reload [post]
func (h *Handler) HandleReload(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)
	l.Info("Reloading index")

	st, err := h.service.Reload(c.Context())
	if err != nil {
		l.Error("Reload failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{
		"status":     "reloaded",
		"source":     st.Source,
		"generation": st.Meta.Generation,
		"nodes":      st.Index.Tree().Len(),
		"names":      st.Index.Len(),
	})
}
