package users

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/xyz-asif/medcamp/internal/middleware"
	"github.com/xyz-asif/medcamp/internal/pkg/access"
	"github.com/xyz-asif/medcamp/internal/pkg/logger"
	"github.com/xyz-asif/medcamp/internal/pkg/pagination"
	"github.com/xyz-asif/medcamp/internal/pkg/response"
	"github.com/xyz-asif/medcamp/internal/pkg/validator"
	apperrors "github.com/xyz-asif/medcamp/pkg/errors"
)

// Store is the slice of the user repository the handlers use.
type Store interface {
	Create(ctx context.Context, user *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context, search string, page pagination.Params) ([]User, int64, error)
	UpdateProfile(ctx context.Context, email string, fields bson.M) error
	UpdateRole(ctx context.Context, id primitive.ObjectID, role string) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type Handler struct {
	store Store
}

func NewHandler(store Store) *Handler {
	return &Handler{store: store}
}

const welcomeBack = "welcome back"

// Create godoc
// @Summary Save a user on sign-in
// @Description Inserts the user with role participant. An existing email is left untouched and insertedId is null.
// @Tags users
// @Accept json
// @Produce json
// @Param request body CreateUserRequest true "User"
// @Success 200 {object} response.APIResponse "Existing user"
// @Success 201 {object} response.APIResponse "New user"
// @Failure 400 {object} response.APIResponse
// @Router /users [post]
func (h *Handler) Create(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, validator.FirstError(err), "INVALID_REQUEST")
		return
	}

	ctx := c.Request.Context()
	email := NormalizeEmail(req.Email)

	existing, err := h.store.GetByEmail(ctx, email)
	if err != nil {
		logger.Error().Err(err).Str("email", email).Msg("lookup user")
		response.DatabaseError(c, "Failed to save user")
		return
	}
	if existing != nil {
		response.Success(c, gin.H{"insertedId": nil}, welcomeBack)
		return
	}

	user := &User{
		Email: email,
		Name:  strings.TrimSpace(req.Name),
		Image: req.Image,
		Role:  access.RoleParticipant,
	}
	if err := h.store.Create(ctx, user); err != nil {
		// lost the race against a concurrent sign-in for the same email
		if errors.Is(err, apperrors.ErrDuplicate) {
			response.Success(c, gin.H{"insertedId": nil}, welcomeBack)
			return
		}
		logger.Error().Err(err).Str("email", email).Msg("create user")
		response.DatabaseError(c, "Failed to save user")
		return
	}

	response.Created(c, gin.H{"insertedId": user.ID}, "User created")
}

// IsAdmin godoc
// @Summary Check admin role
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param email path string true "Email"
// @Success 200 {object} response.APIResponse
// @Failure 401 {object} response.APIResponse
// @Failure 403 {object} response.APIResponse
// @Router /user/admin/{email} [get]
func (h *Handler) IsAdmin(c *gin.Context) {
	h.hasRole(c, "admin", access.RoleAdmin)
}

// IsOrganizer godoc
// @Summary Check organizer role
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param email path string true "Email"
// @Success 200 {object} response.APIResponse
// @Failure 401 {object} response.APIResponse
// @Failure 403 {object} response.APIResponse
// @Router /user/organizer/{email} [get]
func (h *Handler) IsOrganizer(c *gin.Context) {
	h.hasRole(c, "organizer", access.RoleOrganizer)
}

func (h *Handler) hasRole(c *gin.Context, key, role string) {
	email := NormalizeEmail(c.Param(access.OwnerParam))
	if !validator.IsValidEmail(email) {
		response.BadRequest(c, "Invalid email", "INVALID_EMAIL")
		return
	}

	user, err := h.store.GetByEmail(c.Request.Context(), email)
	if err != nil {
		logger.Error().Err(err).Str("email", email).Msg("lookup user role")
		response.DatabaseError(c, "Failed to fetch user")
		return
	}

	response.Success(c, gin.H{key: user != nil && user.Role == role})
}

// Profile godoc
// @Summary Get own profile
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param email path string true "Email"
// @Success 200 {object} response.APIResponse{data=User}
// @Failure 404 {object} response.APIResponse
// @Router /user/{email} [get]
func (h *Handler) Profile(c *gin.Context) {
	email := NormalizeEmail(c.Param(access.OwnerParam))
	if !validator.IsValidEmail(email) {
		response.BadRequest(c, "Invalid email", "INVALID_EMAIL")
		return
	}

	user, err := h.store.GetByEmail(c.Request.Context(), email)
	if err != nil {
		logger.Error().Err(err).Str("email", email).Msg("get profile")
		response.DatabaseError(c, "Failed to fetch user")
		return
	}
	if user == nil {
		response.NotFound(c, "User not found", "USER_NOT_FOUND")
		return
	}

	response.Success(c, user)
}

// UpdateProfile godoc
// @Summary Update own profile
// @Description Only name and image can change
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param email path string true "Email"
// @Param request body UpdateProfileRequest true "Fields to change"
// @Success 200 {object} response.APIResponse{data=User}
// @Failure 400 {object} response.APIResponse
// @Failure 404 {object} response.APIResponse
// @Router /user/{email} [patch]
func (h *Handler) UpdateProfile(c *gin.Context) {
	email := NormalizeEmail(c.Param(access.OwnerParam))
	if !validator.IsValidEmail(email) {
		response.BadRequest(c, "Invalid email", "INVALID_EMAIL")
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, validator.FirstError(err), "INVALID_REQUEST")
		return
	}
	fields := req.ToSet()
	if len(fields) == 0 {
		response.BadRequest(c, "No fields to update", "EMPTY_UPDATE")
		return
	}

	ctx := c.Request.Context()
	if err := h.store.UpdateProfile(ctx, email, fields); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			response.NotFound(c, "User not found", "USER_NOT_FOUND")
			return
		}
		logger.Error().Err(err).Str("email", email).Msg("update profile")
		response.DatabaseError(c, "Failed to update user")
		return
	}

	user, err := h.store.GetByEmail(ctx, email)
	if err != nil || user == nil {
		response.Success(c, gin.H{"email": email}, "Profile updated")
		return
	}
	response.Success(c, user, "Profile updated")
}

// List godoc
// @Summary List users
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param search query string false "Name or email substring"
// @Param page query int false "Page number (default 1)"
// @Param limit query int false "Items per page (default 10, max 100)"
// @Success 200 {object} response.APIResponse{data=response.PageData{items=[]User}}
// @Failure 403 {object} response.APIResponse
// @Router /users [get]
func (h *Handler) List(c *gin.Context) {
	page := pagination.FromRequest(c.Query("page"), c.Query("limit"))
	search := strings.TrimSpace(c.Query("search"))

	users, total, err := h.store.List(c.Request.Context(), search, page)
	if err != nil {
		logger.Error().Err(err).Msg("list users")
		response.DatabaseError(c, "Failed to fetch users")
		return
	}

	response.Paginated(c, users, page, total)
}

// UpdateRole godoc
// @Summary Change a user's role
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Param request body UpdateRoleRequest true "Role"
// @Success 200 {object} response.APIResponse
// @Failure 400 {object} response.APIResponse
// @Failure 404 {object} response.APIResponse
// @Router /users/role/{id} [patch]
func (h *Handler) UpdateRole(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		response.InvalidID(c)
		return
	}

	var req UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, validator.FirstError(err), "INVALID_ROLE")
		return
	}

	if err := h.store.UpdateRole(c.Request.Context(), id, req.Role); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			response.NotFound(c, "User not found", "USER_NOT_FOUND")
			return
		}
		logger.Error().Err(err).Str("user_id", id.Hex()).Msg("update role")
		response.DatabaseError(c, "Failed to update role")
		return
	}

	logger.Info().Str("user_id", id.Hex()).Str("role", req.Role).Str("by", middleware.CurrentEmail(c)).Str("by_role", middleware.CurrentRole(c)).Msg("role changed")
	response.Success(c, gin.H{"id": id, "role": req.Role}, "Role updated")
}

// Delete godoc
// @Summary Delete a user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} response.APIResponse
// @Failure 404 {object} response.APIResponse
// @Router /users/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		response.InvalidID(c)
		return
	}

	if err := h.store.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			response.NotFound(c, "User not found", "USER_NOT_FOUND")
			return
		}
		logger.Error().Err(err).Str("user_id", id.Hex()).Msg("delete user")
		response.DatabaseError(c, "Failed to delete user")
		return
	}

	response.Success(c, gin.H{"deletedId": id}, "User deleted")
}
