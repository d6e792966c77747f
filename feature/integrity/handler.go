package integrity

import (
	"errors"

	"georecon/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for integrity checks.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the integrity routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/integrity")
	group.Get("/", h.HandleIntegrityCheck)
	group.Get("/snapshot", h.HandleSnapshotCheck)
	group.Get("/feed", h.HandleFeedCheck)
}

// HandleIntegrityCheck runs every check.
// @Summary Run All Integrity Checks
// @Description Performs the snapshot and feed checks without fixing anything.
// @Tags integrity
// @Produce json
// @Success 200 {object} map[string]interface{} "Combined Report"
// @Security ApiKeyAuth
// @Router /integrity [get]
func (h *Handler) HandleIntegrityCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	l.Info("Triggering all integrity checks")

	report := make(map[string]interface{})

	if snap, err := h.service.CheckSnapshot(c.Context(), false); err != nil {
		report["snapshot"] = map[string]interface{}{"status": "error", "error": err.Error()}
	} else {
		report["snapshot"] = snap
	}

	if feed, err := h.service.CheckFeed(); err != nil {
		status := "error"
		if errors.Is(err, ErrNoDatabase) {
			status = "skipped"
		}
		report["feed"] = map[string]interface{}{"status": status, "error": err.Error()}
	} else {
		report["feed"] = feed
	}

	return c.JSON(report)
}

// HandleSnapshotCheck inspects the snapshot store. ?verify=true decodes the latest
// snapshot; ?fix=true creates a missing bucket.
// @Summary Check Snapshot Store
// @Description Checks that the snapshot bucket exists and lists its snapshots.
// @Tags integrity
// @Produce json
// @Param verify query bool false "Decode the latest snapshot"
// @Param fix query bool false "Create a missing bucket"
// @Success 200 {object} checks.SnapshotReport
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Security ApiKeyAuth
// @Router /integrity/snapshot [get]
func (h *Handler) HandleSnapshotCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	fix := c.Query("fix") == "true"
	verify := c.Query("verify") == "true"

	report, err := h.service.CheckSnapshot(c.Context(), verify)
	if err != nil {
		l.Error("Snapshot check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	if !report.BucketExists {
		l.Warn("Snapshot bucket missing", zap.String("bucket", report.Bucket))

		if fix {
			l.Info("Attempting to create snapshot bucket")
			if err := h.service.FixSnapshot(c.Context()); err != nil {
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"error":   "Failed to create bucket",
					"details": err.Error(),
				})
			}
			return c.JSON(fiber.Map{
				"status": "fixed",
				"bucket": report.Bucket,
			})
		}
	}

	return c.JSON(report)
}

// HandleFeedCheck verifies the feed database schema. ?fix=true creates missing
// tables and columns.
// @Summary Check Feed Schema
// @Description Compares the feed tables against the expected schema.
// @Tags integrity
// @Produce json
// @Param fix query bool false "Migrate missing tables and columns"
// @Success 200 {object} checks.FeedReport
// @Failure 503 {object} map[string]string "No Database"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Security ApiKeyAuth
// @Router /integrity/feed [get]
func (h *Handler) HandleFeedCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	l.Info("Starting feed schema check")

	report, err := h.service.CheckFeed()
	if err != nil {
		l.Error("Feed schema check failed", zap.Error(err))
		return c.Status(feedErrorStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}

	if !report.Matched && c.Query("fix") == "true" {
		l.Info("Attempting to migrate feed tables")
		if err := h.service.FixFeed(); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error":   "Failed to migrate feed tables",
				"details": err.Error(),
			})
		}
		if report, err = h.service.CheckFeed(); err != nil {
			return c.Status(feedErrorStatus(err)).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(fiber.Map{"status": "fixed", "report": report})
	}

	return c.JSON(report)
}

func feedErrorStatus(err error) int {
	if errors.Is(err, ErrNoDatabase) {
		return fiber.StatusServiceUnavailable
	}
	return fiber.StatusInternalServerError
}
