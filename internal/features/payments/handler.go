package payments

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/xyz-asif/medcamp/internal/middleware"
	"github.com/xyz-asif/medcamp/internal/pkg/access"
	"github.com/xyz-asif/medcamp/internal/pkg/logger"
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

// CreateIntent godoc
// @Summary Create a payment intent
// @Description Converts fees to minor units and asks the payment provider for a client secret
// @Tags payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body IntentRequest true "Fees in major units"
// @Success 200 {object} response.APIResponse{data=IntentResponse}
// @Failure 400 {object} response.APIResponse
// @Failure 502 {object} response.APIResponse
// @Router /create-payment-intent [post]
func (h *Handler) CreateIntent(c *gin.Context) {
	var req IntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Fees must be a positive amount", "INVALID_FEES")
		return
	}

	intent, err := h.service.CreateIntent(c.Request.Context(), req.Fees)
	if err != nil {
		if errors.Is(err, apperrors.ErrBadRequest) {
			response.BadRequest(c, "Fees must be a positive amount", "INVALID_FEES")
			return
		}
		logger.Error().Err(err).Float64("fees", req.Fees).Msg("create payment intent")
		response.FromError(c, err, "Payment provider unavailable")
		return
	}

	response.Success(c, intent)
}

// Record godoc
// @Summary Record a completed payment
// @Description Stores the payment and marks the registration paid. Safe to repeat.
// @Tags payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body RecordRequest true "Payment"
// @Success 200 {object} response.APIResponse{data=Payment} "Already recorded"
// @Success 201 {object} response.APIResponse{data=Payment}
// @Failure 403 {object} response.APIResponse
// @Failure 404 {object} response.APIResponse
// @Router /payment [post]
func (h *Handler) Record(c *gin.Context) {
	var req RecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, validator.FirstError(err), "INVALID_REQUEST")
		return
	}

	email := middleware.CurrentEmail(c)
	p, created, err := h.service.Record(c.Request.Context(), email, req)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrBadRequest):
			response.InvalidID(c)
		case errors.Is(err, apperrors.ErrNotFound):
			response.NotFound(c, "Registration not found", "REGISTRATION_NOT_FOUND")
		case errors.Is(err, apperrors.ErrForbidden):
			response.AuthorizationError(c, "Registration belongs to another participant")
		default:
			logger.Error().Err(err).Str("email", email).Str("registration_id", req.RegistrationID).Msg("record payment")
			response.FromError(c, err, "Failed to record payment")
		}
		return
	}

	if !created {
		response.Success(c, p, "Payment already recorded")
		return
	}
	logger.Info().Str("email", email).Str("transaction_id", p.TransactionID).Msg("payment recorded")
	response.Created(c, p, "Payment recorded")
}

// History godoc
// @Summary Payment history
// @Tags payments
// @Produce json
// @Security BearerAuth
// @Param email path string true "Email"
// @Success 200 {object} response.APIResponse{data=[]Payment}
// @Failure 403 {object} response.APIResponse
// @Router /payments/{email} [get]
func (h *Handler) History(c *gin.Context) {
	email := strings.ToLower(strings.TrimSpace(c.Param(access.OwnerParam)))
	if !validator.IsValidEmail(email) {
		response.BadRequest(c, "Invalid email", "INVALID_EMAIL")
		return
	}

	history, err := h.service.History(c.Request.Context(), email)
	if err != nil {
		logger.Error().Err(err).Str("email", email).Msg("payment history")
		response.DatabaseError(c, "Failed to fetch payments")
		return
	}

	response.Success(c, history)
}
