package camps

import (
	"context"
	"errors"
	"mime/multipart"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/xyz-asif/medcamp/internal/pkg/cloudinary"
	"github.com/xyz-asif/medcamp/internal/pkg/logger"
	"github.com/xyz-asif/medcamp/internal/pkg/response"
	"github.com/xyz-asif/medcamp/internal/pkg/validator"
	apperrors "github.com/xyz-asif/medcamp/pkg/errors"
)

// Store is the slice of the camp repository the handlers use.
type Store interface {
	List(ctx context.Context, search, sortBy string) ([]Camp, error)
	Popular(ctx context.Context, limit int) ([]Camp, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*Camp, error)
	Create(ctx context.Context, camp *Camp) error
	Update(ctx context.Context, id primitive.ObjectID, fields bson.M) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// ImageUploader stores camp banners. Optional.
type ImageUploader interface {
	UploadImage(ctx context.Context, file multipart.File, filename string) (*cloudinary.UploadResult, error)
}

type Handler struct {
	store    Store
	uploader ImageUploader
}

func NewHandler(store Store, uploader ImageUploader) *Handler {
	return &Handler{store: store, uploader: uploader}
}

// List godoc
// @Summary List camps
// @Description Filter by case-insensitive name substring and sort by mostRegistered, campFees or alphabetical
// @Tags camps
// @Produce json
// @Param search query string false "Name substring"
// @Param sortBy query string false "mostRegistered | campFees | alphabetical"
// @Success 200 {object} response.APIResponse{data=[]Camp}
// @Failure 500 {object} response.APIResponse
// @Router /camps [get]
func (h *Handler) List(c *gin.Context) {
	search := strings.TrimSpace(c.Query("search"))
	sortBy := strings.TrimSpace(c.Query("sortBy"))

	camps, err := h.store.List(c.Request.Context(), search, sortBy)
	if err != nil {
		logger.Error().Err(err).Msg("list camps")
		response.DatabaseError(c, "Failed to fetch camps")
		return
	}

	response.Success(c, camps)
}

// Popular godoc
// @Summary Popular camps
// @Description The six camps with the most participants
// @Tags camps
// @Produce json
// @Success 200 {object} response.APIResponse{data=[]Camp}
// @Router /popularCamps [get]
func (h *Handler) Popular(c *gin.Context) {
	camps, err := h.store.Popular(c.Request.Context(), PopularLimit)
	if err != nil {
		logger.Error().Err(err).Msg("popular camps")
		response.DatabaseError(c, "Failed to fetch camps")
		return
	}

	response.Success(c, camps)
}

// Get godoc
// @Summary Get a camp
// @Description Returns null data when the id is unknown
// @Tags camps
// @Produce json
// @Param id path string true "Camp ID"
// @Success 200 {object} response.APIResponse{data=Camp}
// @Failure 400 {object} response.APIResponse
// @Router /camp/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		response.InvalidID(c)
		return
	}

	camp, err := h.store.GetByID(c.Request.Context(), id)
	if err != nil {
		logger.Error().Err(err).Str("camp_id", id.Hex()).Msg("get camp")
		response.DatabaseError(c, "Failed to fetch camp")
		return
	}

	if camp == nil {
		response.Success(c, nil)
		return
	}
	response.Success(c, camp)
}

// Create godoc
// @Summary Create a camp
// @Tags camps
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateCampRequest true "Camp"
// @Success 201 {object} response.APIResponse{data=Camp}
// @Failure 400 {object} response.APIResponse
// @Failure 401 {object} response.APIResponse
// @Failure 403 {object} response.APIResponse
// @Router /camps [post]
func (h *Handler) Create(c *gin.Context) {
	var req CreateCampRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, validator.FirstError(err), "INVALID_REQUEST")
		return
	}

	camp := &Camp{
		Name:                   strings.TrimSpace(req.Name),
		Image:                  req.Image,
		Fees:                   req.Fees,
		DateTime:               req.DateTime,
		Location:               req.Location,
		HealthcareProfessional: req.HealthcareProfessional,
		Description:            req.Description,
	}

	if err := h.store.Create(c.Request.Context(), camp); err != nil {
		logger.Error().Err(err).Msg("create camp")
		response.DatabaseError(c, "Failed to create camp")
		return
	}

	response.Created(c, camp)
}

// Update godoc
// @Summary Update a camp
// @Description Only the supplied fields change
// @Tags camps
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Camp ID"
// @Param request body UpdateCampRequest true "Fields to change"
// @Success 200 {object} response.APIResponse{data=Camp}
// @Failure 400 {object} response.APIResponse
// @Failure 403 {object} response.APIResponse
// @Failure 404 {object} response.APIResponse
// @Router /update-camp/{id} [patch]
func (h *Handler) Update(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		response.InvalidID(c)
		return
	}

	var req UpdateCampRequest
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
	if err := h.store.Update(ctx, id, fields); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			response.NotFound(c, "Camp not found", "CAMP_NOT_FOUND")
			return
		}
		logger.Error().Err(err).Str("camp_id", id.Hex()).Msg("update camp")
		response.DatabaseError(c, "Failed to update camp")
		return
	}

	camp, err := h.store.GetByID(ctx, id)
	if err != nil || camp == nil {
		response.Success(c, gin.H{"id": id}, "Camp updated")
		return
	}
	response.Success(c, camp, "Camp updated")
}

// Delete godoc
// @Summary Delete a camp
// @Tags camps
// @Produce json
// @Security BearerAuth
// @Param id path string true "Camp ID"
// @Success 200 {object} response.APIResponse
// @Failure 403 {object} response.APIResponse
// @Failure 404 {object} response.APIResponse
// @Router /delete-camp/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		response.InvalidID(c)
		return
	}

	if err := h.store.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			response.NotFound(c, "Camp not found", "CAMP_NOT_FOUND")
			return
		}
		logger.Error().Err(err).Str("camp_id", id.Hex()).Msg("delete camp")
		response.DatabaseError(c, "Failed to delete camp")
		return
	}

	response.Success(c, gin.H{"deletedId": id}, "Camp deleted")
}

// UploadImage godoc
// @Summary Upload a camp image
// @Tags camps
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param image formData file true "Image file"
// @Success 201 {object} response.APIResponse{data=cloudinary.UploadResult}
// @Failure 400 {object} response.APIResponse
// @Failure 503 {object} response.APIResponse
// @Router /camps/image [post]
func (h *Handler) UploadImage(c *gin.Context) {
	if h.uploader == nil {
		response.ServiceUnavailable(c, "Image uploads are not configured", "UPLOADS_DISABLED")
		return
	}

	file, header, err := c.Request.FormFile("image")
	if err != nil {
		response.BadRequest(c, "Image file is required", "MISSING_FILE")
		return
	}
	defer file.Close()

	if err := cloudinary.ValidateImageFile(header); err != nil {
		response.BadRequest(c, err.Error(), "INVALID_FILE")
		return
	}

	result, err := h.uploader.UploadImage(c.Request.Context(), file, header.Filename)
	if err != nil {
		logger.Error().Err(err).Str("file", header.Filename).Msg("upload camp image")
		response.BadGateway(c, "Failed to upload image", "UPLOAD_FAILED")
		return
	}

	response.Created(c, result)
}
