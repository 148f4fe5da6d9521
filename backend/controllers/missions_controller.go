package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/Raficate/missions/backend/catalog"
	"github.com/Raficate/missions/backend/config"
	"github.com/Raficate/missions/backend/missions"
	"github.com/Raficate/missions/backend/models"
	"github.com/Raficate/missions/backend/store"
	"github.com/Raficate/missions/backend/utils"
)

type MissionsController struct {
	DB  *gorm.DB
	Cfg *config.Config
	Svc *missions.Service
}

func NewMissionsController(db *gorm.DB, cfg *config.Config, svc *missions.Service) *MissionsController {
	return &MissionsController{DB: db, Cfg: cfg, Svc: svc}
}

// resolveIdentity turns the request token into the caller's identity,
// enriched with the display-only profile fields from the users table.
func resolveIdentity(c *fiber.Ctx, cfg *config.Config, db *gorm.DB) (missions.Identity, error) {
	uid, err := utils.ExtractUserIDFromToken(c, cfg)
	if err != nil {
		return missions.Identity{}, err
	}

	var user models.User
	if err := db.Where("uid = ?", uid).First(&user).Error; err != nil {
		// Token is valid but the row is gone; the uid alone still
		// identifies the document.
		return missions.Identity{UID: uid}, nil
	}

	return missions.Identity{
		UID:         user.UID,
		DisplayName: user.DisplayName,
		Email:       user.Email,
		PhotoURL:    user.PhotoURL,
	}, nil
}

// serviceError maps the state-machine error taxonomy onto HTTP statuses.
func serviceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, missions.ErrNotAuthenticated):
		return utils.Unauthorized(c, "Unauthorized")
	case errors.Is(err, missions.ErrNoActiveMission):
		return utils.Conflict(c, "No mission assigned for today")
	case errors.Is(err, store.ErrPermissionDenied):
		return utils.Forbidden(c, "Store rejected the operation")
	case errors.Is(err, store.ErrUnavailable):
		return utils.ServiceUnavailable(c, "Could not reach the store, try again")
	case errors.Is(err, catalog.ErrUnavailable):
		return utils.ServiceUnavailable(c, "Mission catalog unavailable")
	default:
		return utils.InternalServerError(c, "Unexpected error")
	}
}

func missionJSON(m *models.Mission) interface{} {
	if m == nil {
		return nil
	}
	return fiber.Map{"id": m.ID, "text": m.Text}
}

// GetState godoc
// @Summary Get mission state
// @Description Returns the user's mission state, derived flags and today's mission if revealed
// @Tags missions
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} utils.ErrorResponse
// @Failure 503 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /missions/state [get]
func (mc *MissionsController) GetState(c *fiber.Ctx) error {
	ident, err := resolveIdentity(c, mc.Cfg, mc.DB)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	state, flags, err := mc.Svc.State(c.Context(), ident)
	if err != nil {
		return serviceError(c, err)
	}

	var today interface{}
	if m, ok := mc.Svc.TodayMission(state); ok {
		today = missionJSON(&m)
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"state":        state,
		"flags":        flags,
		"todayMission": today,
	})
}

// Reveal godoc
// @Summary Reveal today's mission
// @Description Assigns today's mission, or returns the one already assigned. Idempotent within a day.
// @Tags missions
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} utils.ErrorResponse
// @Failure 503 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /missions/reveal [post]
func (mc *MissionsController) Reveal(c *fiber.Ctx) error {
	ident, err := resolveIdentity(c, mc.Cfg, mc.DB)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	state, result, err := mc.Svc.Reveal(c.Context(), ident)
	if err != nil {
		return serviceError(c, err)
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"mission":         missionJSON(result.Mission),
		"alreadyRevealed": result.AlreadyRevealed,
		"allCompleted":    result.AllCompleted,
		"flags":           mc.Svc.Flags(state),
	})
}

// Complete godoc
// @Summary Complete today's mission
// @Description Marks today's revealed mission as completed. Idempotent.
// @Tags missions
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} utils.ErrorResponse
// @Failure 409 {object} utils.ErrorResponse
// @Failure 503 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /missions/complete [post]
func (mc *MissionsController) Complete(c *fiber.Ctx) error {
	ident, err := resolveIdentity(c, mc.Cfg, mc.DB)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	state, err := mc.Svc.Complete(c.Context(), ident)
	if err != nil {
		return serviceError(c, err)
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"state": state,
		"flags": mc.Svc.Flags(state),
	})
}

// Reset godoc
// @Summary Reset mission progress
// @Description Replaces the stored progress with a fresh empty state
// @Tags missions
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} utils.ErrorResponse
// @Failure 503 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /missions/reset [post]
func (mc *MissionsController) Reset(c *fiber.Ctx) error {
	ident, err := resolveIdentity(c, mc.Cfg, mc.DB)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	state, err := mc.Svc.Reset(c.Context(), ident)
	if err != nil {
		return serviceError(c, err)
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"state": state,
		"flags": mc.Svc.Flags(state),
	})
}

// History godoc
// @Summary Mission history
// @Description Returns seen and completed missions with completion dates
// @Tags missions
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} utils.ErrorResponse
// @Failure 503 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /missions/history [get]
func (mc *MissionsController) History(c *fiber.Ctx) error {
	ident, err := resolveIdentity(c, mc.Cfg, mc.DB)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	state, flags, err := mc.Svc.State(c.Context(), ident)
	if err != nil {
		return serviceError(c, err)
	}

	completed := make([]fiber.Map, 0, len(state.CompletedMissionIDs))
	for _, m := range mc.Svc.CompletedMissions(state) {
		entry := fiber.Map{"id": m.ID, "text": m.Text}
		if at, ok := mc.Svc.CompletedAt(state, m.ID); ok {
			entry["completedAt"] = at
		}
		completed = append(completed, entry)
	}

	seen := make([]fiber.Map, 0, len(state.SeenMissionIDs))
	for _, m := range mc.Svc.SeenMissions(state) {
		seen = append(seen, fiber.Map{"id": m.ID, "text": m.Text})
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"seen":      seen,
		"completed": completed,
		"flags":     flags,
	})
}
