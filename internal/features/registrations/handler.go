package registrations

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/xyz-asif/medcamp/internal/middleware"
	"github.com/xyz-asif/medcamp/internal/pkg/access"
	"github.com/xyz-asif/medcamp/internal/pkg/logger"
	"github.com/xyz-asif/medcamp/internal/pkg/pagination"
	"github.com/xyz-asif/medcamp/internal/pkg/response"
	"github.com/xyz-asif/medcamp/internal/pkg/validator"
	apperrors "github.com/xyz-asif/medcamp/pkg/errors"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Register godoc
// @Summary Register for a camp
// @Description The participant email is taken from the token. Increments the camp's participant count.
// @Tags registrations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body RegisterRequest true "Registration"
// @Success 201 {object} response.APIResponse{data=RegisteredCamp}
// @Failure 400 {object} response.APIResponse
// @Failure 404 {object} response.APIResponse
// @Failure 409 {object} response.APIResponse
// @Router /registeredCamp [post]
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, validator.FirstError(err), "INVALID_REQUEST")
		return
	}

	email := middleware.CurrentEmail(c)
	reg, err := h.service.Register(c.Request.Context(), email, req)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrBadRequest):
			response.BadRequest(c, "Invalid camp id", "INVALID_ID")
		case errors.Is(err, apperrors.ErrNotFound):
			response.NotFound(c, "Camp not found", "CAMP_NOT_FOUND")
		case errors.Is(err, apperrors.ErrDuplicate):
			response.Conflict(c, "Already registered for this camp", "ALREADY_REGISTERED")
		default:
			logger.Error().Err(err).Str("email", email).Str("camp_id", req.CampID).Msg("register for camp")
			response.FromError(c, err, "Failed to register")
		}
		return
	}

	logger.Info().Str("email", email).Str("camp_id", req.CampID).Msg("camp registration")
	response.Created(c, reg, "Registered")
}

// Mine godoc
// @Summary List own registrations
// @Tags registrations
// @Produce json
// @Security BearerAuth
// @Param email path string true "Email"
// @Param search query string false "Camp name substring"
// @Success 200 {object} response.APIResponse{data=[]RegisteredCamp}
// @Failure 403 {object} response.APIResponse
// @Router /registeredCamps/{email} [get]
func (h *Handler) Mine(c *gin.Context) {
	email := strings.ToLower(strings.TrimSpace(c.Param(access.OwnerParam)))
	if !validator.IsValidEmail(email) {
		response.BadRequest(c, "Invalid email", "INVALID_EMAIL")
		return
	}

	regs, err := h.service.ListByEmail(c.Request.Context(), email, strings.TrimSpace(c.Query("search")))
	if err != nil {
		logger.Error().Err(err).Str("email", email).Msg("list registrations")
		response.DatabaseError(c, "Failed to fetch registrations")
		return
	}

	response.Success(c, regs)
}

// List godoc
// @Summary List all registrations
// @Tags registrations
// @Produce json
// @Security BearerAuth
// @Param search query string false "Camp or participant name substring"
// @Param page query int false "Page number (default 1)"
// @Param limit query int false "Items per page (default 10, max 100)"
// @Success 200 {object} response.APIResponse{data=response.PageData{items=[]RegisteredCamp}}
// @Failure 403 {object} response.APIResponse
// @Router /registeredCamps [get]
func (h *Handler) List(c *gin.Context) {
	page := pagination.FromRequest(c.Query("page"), c.Query("limit"))

	regs, total, err := h.service.List(c.Request.Context(), strings.TrimSpace(c.Query("search")), page)
	if err != nil {
		logger.Error().Err(err).Msg("list all registrations")
		response.DatabaseError(c, "Failed to fetch registrations")
		return
	}

	response.Paginated(c, regs, page, total)
}

// Confirm godoc
// @Summary Confirm a registration
// @Tags registrations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Registration ID"
// @Success 200 {object} response.APIResponse
// @Failure 404 {object} response.APIResponse
// @Router /registeredCamp/confirm/{id} [patch]
func (h *Handler) Confirm(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		response.InvalidID(c)
		return
	}

	if err := h.service.Confirm(c.Request.Context(), id); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			response.NotFound(c, "Registration not found", "REGISTRATION_NOT_FOUND")
			return
		}
		logger.Error().Err(err).Str("registration_id", id.Hex()).Msg("confirm registration")
		response.DatabaseError(c, "Failed to confirm registration")
		return
	}

	response.Success(c, gin.H{"id": id, "confirmationStatus": ConfirmationConfirmed}, "Registration confirmed")
}

// Cancel godoc
// @Summary Delete a registration
// @Description Removes the registration and decrements the camp's participant count
// @Tags registrations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Registration ID"
// @Success 200 {object} response.APIResponse
// @Failure 404 {object} response.APIResponse
// @Router /registeredCamp/{id} [delete]
func (h *Handler) Cancel(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		response.InvalidID(c)
		return
	}

	if err := h.service.Cancel(c.Request.Context(), id); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			response.NotFound(c, "Registration not found", "REGISTRATION_NOT_FOUND")
			return
		}
		logger.Error().Err(err).Str("registration_id", id.Hex()).Msg("cancel registration")
		response.DatabaseError(c, "Failed to delete registration")
		return
	}

	response.Success(c, gin.H{"deletedId": id}, "Registration deleted")
}
