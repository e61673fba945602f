package auth

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/xyz-asif/medcamp/internal/pkg/logger"
	"github.com/xyz-asif/medcamp/internal/pkg/response"
	"github.com/xyz-asif/medcamp/internal/pkg/token"
	"github.com/xyz-asif/medcamp/internal/pkg/validator"
)

type Handler struct {
	tokens   *token.Service
	verifier IdentityVerifier
}

// NewHandler wires the token endpoint. A nil verifier issues tokens without checking an identity token.
func NewHandler(tokens *token.Service, verifier IdentityVerifier) *Handler {
	return &Handler{tokens: tokens, verifier: verifier}
}

// IssueToken godoc
// @Summary Issue an API token
// @Description Signs a token for the email. When an identity provider is configured, idToken must prove the same email.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body TokenRequest true "Identity"
// @Success 200 {object} response.APIResponse{data=TokenResponse}
// @Failure 400 {object} response.APIResponse
// @Failure 401 {object} response.APIResponse
// @Router /jwt [post]
func (h *Handler) IssueToken(c *gin.Context) {
	var req TokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, validator.FirstError(err), "INVALID_REQUEST")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	name := strings.TrimSpace(req.Name)

	if h.verifier != nil {
		if req.IDToken == "" {
			response.BadRequest(c, "idToken is required", "ID_TOKEN_REQUIRED")
			return
		}

		id, err := h.verifier.Verify(c.Request.Context(), req.IDToken)
		if err != nil {
			logger.Warn().Err(err).Str("email", email).Msg("identity token rejected")
			response.Unauthorized(c, "Invalid identity token", "INVALID_ID_TOKEN")
			return
		}
		if !strings.EqualFold(id.Email, email) {
			response.Unauthorized(c, "Identity token does not match email", "IDENTITY_MISMATCH")
			return
		}
		if name == "" {
			name = id.Name
		}
	}

	signed, err := h.tokens.Issue(email, name)
	if err != nil {
		logger.Error().Err(err).Str("email", email).Msg("issue token")
		response.InternalServerError(c, "Failed to issue token", "TOKEN_ERROR")
		return
	}

	response.Success(c, TokenResponse{
		Token:     signed,
		ExpiresIn: int64(h.tokens.Expiry().Seconds()),
	})
}
