package controllers

import (
	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/Raficate/missions/backend/config"
	"github.com/Raficate/missions/backend/models"
	"github.com/Raficate/missions/backend/store"
	"github.com/Raficate/missions/backend/utils"
)

type UserController struct {
	DB    *gorm.DB
	Cfg   *config.Config
	Store store.DocumentStore
}

func NewUserController(db *gorm.DB, cfg *config.Config, st store.DocumentStore) *UserController {
	return &UserController{DB: db, Cfg: cfg, Store: st}
}

type UpdateUserRequest struct {
	Email       string `json:"email" example:"user@example.com" format:"email"`
	DisplayName string `json:"display_name" example:"John Doe"`
	PhotoURL    string `json:"photo_url"`
	OldPassword string `json:"old_password" example:"oldPassword123" minLength:"8"`
	NewPassword string `json:"new_password" example:"newPassword123" minLength:"8"`
}

// GetProfile godoc
// @Summary Get user profile
// @Description Returns authenticated user's profile data
// @Tags users
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /user/profile [get]
func (uc *UserController) GetProfile(c *fiber.Ctx) error {
	uid, err := utils.ExtractUserIDFromToken(c, uc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var user models.User
	if err := uc.DB.Where("uid = ?", uid).First(&user).Error; err != nil {
		return utils.NotFound(c, "User not found")
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"uid":          user.UID,
		"username":     user.Username,
		"email":        user.Email,
		"display_name": user.DisplayName,
		"photo_url":    user.PhotoURL,
		"created_at":   user.CreatedAt,
	})
}

// UpdateProfile godoc
// @Summary Update user profile
// @Description Updates authenticated user's profile data
// @Tags users
// @Accept json
// @Produce json
// @Param input body UpdateUserRequest true "Profile update data"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 401 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /user/profile [put]
func (uc *UserController) UpdateProfile(c *fiber.Ctx) error {
	uid, err := utils.ExtractUserIDFromToken(c, uc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var input UpdateUserRequest
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	var user models.User
	if err := uc.DB.Where("uid = ?", uid).First(&user).Error; err != nil {
		return utils.NotFound(c, "User not found")
	}

	if input.Email != "" {
		user.Email = input.Email
	}
	if input.DisplayName != "" {
		user.DisplayName = input.DisplayName
	}
	if input.PhotoURL != "" {
		user.PhotoURL = input.PhotoURL
	}

	// Password change requires the old one
	if input.NewPassword != "" {
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.OldPassword)); err != nil {
			return utils.Unauthorized(c, "Invalid old password")
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			return utils.InternalServerError(c, "Could not hash password")
		}
		user.PasswordHash = string(hashed)
	}

	if err := uc.DB.Save(&user).Error; err != nil {
		return utils.InternalServerError(c, "Could not update user")
	}

	// Mirror the display fields into the mission document, when it exists
	if exists, err := uc.Store.Exists(c.Context(), uid); err == nil && exists {
		_ = uc.Store.UpdateProfile(c.Context(), uid, models.UserProfile{
			DisplayName: user.DisplayName,
			Email:       user.Email,
			PhotoURL:    user.PhotoURL,
		})
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"uid":          user.UID,
		"username":     user.Username,
		"email":        user.Email,
		"display_name": user.DisplayName,
		"photo_url":    user.PhotoURL,
	})
}
