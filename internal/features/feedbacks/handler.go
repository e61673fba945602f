package feedbacks

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/xyz-asif/medcamp/internal/middleware"
	"github.com/xyz-asif/medcamp/internal/pkg/logger"
	"github.com/xyz-asif/medcamp/internal/pkg/response"
	"github.com/xyz-asif/medcamp/internal/pkg/validator"
)

type Store interface {
	Create(ctx context.Context, f *Feedback) error
	List(ctx context.Context) ([]Feedback, error)
}

type Handler struct {
	store Store
}

func NewHandler(store Store) *Handler {
	return &Handler{store: store}
}

// List godoc
// @Summary List feedback
// @Tags feedback
// @Produce json
// @Success 200 {object} response.APIResponse{data=[]Feedback}
// @Router /feedbacks [get]
func (h *Handler) List(c *gin.Context) {
	feedbacks, err := h.store.List(c.Request.Context())
	if err != nil {
		logger.Error().Err(err).Msg("list feedbacks")
		response.DatabaseError(c, "Failed to fetch feedback")
		return
	}
	response.Success(c, feedbacks)
}

// Create godoc
// @Summary Leave feedback
// @Description Author email comes from the token. Rating is optional.
// @Tags feedback
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateFeedbackRequest true "Feedback"
// @Success 201 {object} response.APIResponse{data=Feedback}
// @Failure 400 {object} response.APIResponse
// @Router /feedback [post]
func (h *Handler) Create(c *gin.Context) {
	var req CreateFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, validator.FirstError(err), "INVALID_REQUEST")
		return
	}

	f := &Feedback{
		Email:    middleware.CurrentEmail(c),
		Name:     strings.TrimSpace(req.Name),
		CampName: strings.TrimSpace(req.CampName),
		Rating:   req.Rating,
		Content:  strings.TrimSpace(req.Content),
	}
	if f.Name == "" {
		if claims := middleware.CurrentClaims(c); claims != nil {
			f.Name = claims.Name
		}
	}
	if req.CampID != "" {
		id, err := primitive.ObjectIDFromHex(req.CampID)
		if err != nil {
			response.InvalidID(c)
			return
		}
		f.CampID = &id
	}

	if err := h.store.Create(c.Request.Context(), f); err != nil {
		logger.Error().Err(err).Str("email", f.Email).Msg("create feedback")
		response.DatabaseError(c, "Failed to save feedback")
		return
	}

	response.Created(c, f, "Thanks for the feedback")
}
