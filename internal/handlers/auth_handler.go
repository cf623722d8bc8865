package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/medivault/medivault-api/internal/middleware"
	"github.com/medivault/medivault-api/internal/models"
	"github.com/medivault/medivault-api/internal/store"
	"github.com/medivault/medivault-api/internal/utils"
)

// RegisterRequest is the payload for both registration endpoints. ImrNumber
// is the doctor's medical-register number; patients leave it empty.
type RegisterRequest struct {
	Name         string `json:"Name" binding:"required"`
	PhoneNumber  string `json:"PhoneNumber" binding:"required"`
	Age          int    `json:"Age" binding:"required"`
	Gender       string `json:"Gender" binding:"required"`
	AadharNumber string `json:"AadharNumber" binding:"required"`
	Password     string `json:"password" binding:"required"`
	ImrNumber    string `json:"ImrNumber"`
}

// LoginRequest requires both the Aadhar number and the password.
type LoginRequest struct {
	AadharNumber string `json:"AadharNumber"`
	Password     string `json:"password"`
}

// Register creates an identity in the collection selected by role and
// returns it without the password or refresh token.
func (h *Handler) Register(role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.Fail(c, utils.BadRequest("Please enter all the required details"))
			return
		}
		if role == models.RoleDoctor && req.ImrNumber == "" {
			utils.Fail(c, utils.BadRequest("Please enter all the required details"))
			return
		}

		created, err := h.Identities.Create(c.Request.Context(), role, &models.Identity{
			Name:         req.Name,
			PhoneNumber:  req.PhoneNumber,
			Age:          req.Age,
			Gender:       req.Gender,
			AadharNumber: req.AadharNumber,
			Password:     req.Password,
			ImrNumber:    req.ImrNumber,
		})
		if err != nil {
			utils.Fail(c, mapStoreError(err))
			return
		}

		utils.Respond(c, http.StatusCreated, roleTitle(role)+" registered successfully", created.Sanitized())
	}
}

// Login verifies credentials, mints an access/refresh pair, persists the
// refresh token and sets both cookies.
func (h *Handler) Login(role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.AadharNumber == "" || req.Password == "" {
			utils.Fail(c, utils.BadRequest("Aadhar number and Password are required"))
			return
		}

		identity, err := h.Identities.FindByAadhar(c.Request.Context(), role, req.AadharNumber)
		if err != nil {
			if err == store.ErrNotFound {
				utils.Fail(c, utils.NotFound(roleTitle(role)+" not found. Please register first"))
				return
			}
			utils.Fail(c, err)
			return
		}

		if !utils.CheckPasswordHash(req.Password, identity.Password) {
			utils.Fail(c, utils.Unauthorized("Invalid user credentials"))
			return
		}

		accessToken, refreshToken, err := h.issueAndStoreTokens(c, role, identity)
		if err != nil {
			utils.Fail(c, err)
			return
		}

		h.setAuthCookies(c, accessToken, refreshToken)
		utils.Respond(c, http.StatusOK, "Login successful", gin.H{
			"user":         identity.Sanitized(),
			"accessToken":  accessToken,
			"refreshToken": refreshToken,
		})
	}
}

// Logout clears the stored refresh token and both cookies. It runs behind
// RequireAuth, so an identity is always attached here.
func (h *Handler) Logout(role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := middleware.CurrentIdentity(c)
		if !ok {
			utils.Fail(c, utils.Unauthorized("Unauthorized"))
			return
		}

		if err := h.Identities.SetRefreshToken(c.Request.Context(), role, identity.ID.Hex(), ""); err != nil {
			utils.Fail(c, err)
			return
		}

		h.clearAuthCookies(c)
		utils.Respond(c, http.StatusOK, "Logged out successfully", gin.H{})
	}
}

// Refresh rotates the token pair. The presented refresh token must equal the
// most recently stored one; anything else is rejected as used or expired.
func (h *Handler) Refresh(role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		incoming := h.extractRefreshToken(c)
		if incoming == "" {
			utils.Fail(c, utils.Unauthorized("Refresh token missing"))
			return
		}

		claims, err := h.Tokens.VerifyRefresh(incoming)
		if err != nil {
			// Expired and malformed collapse to one message for refresh.
			utils.Fail(c, utils.Unauthorized("Invalid or expired refresh token"))
			return
		}

		identity, err := h.Identities.FindByID(c.Request.Context(), role, claims.UserID)
		if err != nil {
			if err == store.ErrNotFound {
				utils.Fail(c, utils.NotFound(roleTitle(role)+" not found"))
				return
			}
			utils.Fail(c, err)
			return
		}

		if identity.RefreshToken != incoming {
			utils.Fail(c, utils.Unauthorized("Refresh token is used or expired"))
			return
		}

		accessToken, refreshToken, err := h.issueAndStoreTokens(c, role, identity)
		if err != nil {
			utils.Fail(c, err)
			return
		}

		h.setAuthCookies(c, accessToken, refreshToken)
		utils.Respond(c, http.StatusOK, "Access token refreshed", gin.H{
			"accessToken": accessToken,
		})
	}
}

func (h *Handler) issueAndStoreTokens(c *gin.Context, role models.Role, identity *models.Identity) (string, string, error) {
	accessToken, err := h.Tokens.IssueAccessToken(identity)
	if err != nil {
		return "", "", err
	}
	refreshToken, err := h.Tokens.IssueRefreshToken(identity)
	if err != nil {
		return "", "", err
	}
	if err := h.Identities.SetRefreshToken(c.Request.Context(), role, identity.ID.Hex(), refreshToken); err != nil {
		return "", "", err
	}
	return accessToken, refreshToken, nil
}

// Cookies are httpOnly+secure with SameSite=None so the browser sends them
// from the cross-origin frontend. Max-Age tracks each token's lifetime.
func (h *Handler) setAuthCookies(c *gin.Context, accessToken, refreshToken string) {
	c.SetSameSite(http.SameSiteNoneMode)
	c.SetCookie(middleware.AccessTokenCookie, accessToken, int(h.Tokens.AccessTTL().Seconds()), "/", "", true, true)
	c.SetCookie(middleware.RefreshTokenCookie, refreshToken, int(h.Tokens.RefreshTTL().Seconds()), "/", "", true, true)
}

func (h *Handler) clearAuthCookies(c *gin.Context) {
	c.SetSameSite(http.SameSiteNoneMode)
	c.SetCookie(middleware.AccessTokenCookie, "", -1, "/", "", true, true)
	c.SetCookie(middleware.RefreshTokenCookie, "", -1, "/", "", true, true)
}

func (h *Handler) extractRefreshToken(c *gin.Context) string {
	if cookie, err := c.Cookie(middleware.RefreshTokenCookie); err == nil && cookie != "" {
		return cookie
	}
	var body struct {
		RefreshToken string `json:"refreshToken"`
	}
	if err := c.ShouldBindJSON(&body); err == nil {
		return body.RefreshToken
	}
	return ""
}

func mapStoreError(err error) error {
	switch {
	case store.IsValidation(err):
		return utils.BadRequest(err.Error())
	case err == store.ErrDuplicateAadhar:
		return utils.Conflict("User with this Aadhar number already exists")
	case err == store.ErrNotFound:
		return utils.NotFound("Not found")
	default:
		return err
	}
}

func roleTitle(role models.Role) string {
	if role == models.RoleDoctor {
		return "Doctor"
	}
	return "Patient"
}
