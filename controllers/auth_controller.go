package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"google.golang.org/api/idtoken"
	"gorm.io/gorm"

	"github.com/vnkhanh/surveybot/config"
	"github.com/vnkhanh/surveybot/logger"
	"github.com/vnkhanh/surveybot/middleware"
	"github.com/vnkhanh/surveybot/models"
	"github.com/vnkhanh/surveybot/utils"
)

type CredentialsReq struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

type GoogleLoginReq struct {
	IDToken string `json:"id_token" form:"id_token"`
}

// validateGoogleToken được thay trong test.
var validateGoogleToken = idtoken.Validate

// isFormPost: request gửi từ <form> HTML (redirect), còn lại trả JSON.
func isFormPost(c *gin.Context) bool {
	ct := c.ContentType()
	return ct == "application/x-www-form-urlencoded" || ct == "multipart/form-data"
}

func bindCredentials(c *gin.Context) (CredentialsReq, bool) {
	var req CredentialsReq
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return req, false
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username and password are required"})
		return req, false
	}
	return req, true
}

func setSessionCookie(c *gin.Context, issuer models.Issuer) bool {
	token, err := utils.GenerateSessionToken(issuer.ID, config.App.SessionSecret, config.App.SessionTTL)
	if err != nil {
		logger.L.Error("generate session token failed", "issuer_id", issuer.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create session"})
		return false
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, token, int(config.App.SessionTTL.Seconds()), "/", "", config.App.CookieSecure, true)
	return true
}

func loggedIn(c *gin.Context, status int, issuer models.Issuer) {
	if isFormPost(c) {
		c.Redirect(http.StatusSeeOther, "/admin/dashboard")
		return
	}
	c.JSON(status, gin.H{"ok": true, "issuer": issuer})
}

// POST /admin/login
func Login(c *gin.Context) {
	req, ok := bindCredentials(c)
	if !ok {
		return
	}

	var issuer models.Issuer
	err := config.DB.Where("username = ?", req.Username).First(&issuer).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.L.Error("lookup issuer failed", "username", req.Username, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not sign in"})
		return
	}
	// Cùng một thông báo cho sai username và sai mật khẩu
	if err != nil || !utils.CheckPassword(issuer.PasswordHash, req.Password) {
		logger.L.Info("login rejected", "username", req.Username)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	if !setSessionCookie(c, issuer) {
		return
	}
	logger.L.Info("issuer signed in", "issuer_id", issuer.ID)
	loggedIn(c, http.StatusOK, issuer)
}

// POST /admin/signup
func Signup(c *gin.Context) {
	req, ok := bindCredentials(c)
	if !ok {
		return
	}

	var count int64
	config.DB.Model(&models.Issuer{}).Where("username = ?", req.Username).Count(&count)
	if count > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Username already exists"})
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not hash password"})
		return
	}

	issuer := models.Issuer{
		Username:     req.Username,
		PasswordHash: hash,
		CreatedAt:    utils.NowISO(),
	}
	if err := config.DB.Create(&issuer).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusConflict, gin.H{"error": "Username already exists"})
			return
		}
		logger.L.Error("create issuer failed", "username", req.Username, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create account"})
		return
	}

	if !setSessionCookie(c, issuer) {
		return
	}
	logger.L.Info("issuer signed up", "issuer_id", issuer.ID)
	loggedIn(c, http.StatusCreated, issuer)
}

// POST /admin/google/login
// Xác thực id_token của Google; email là username của issuer, tạo mới nếu chưa có.
func GoogleLogin(c *gin.Context) {
	if config.App.GoogleClientID == "" {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Google login is not configured"})
		return
	}

	var req GoogleLoginReq
	if err := c.ShouldBind(&req); err != nil || strings.TrimSpace(req.IDToken) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id_token is required"})
		return
	}

	payload, err := validateGoogleToken(c.Request.Context(), req.IDToken, config.App.GoogleClientID)
	if err != nil {
		logger.L.Info("google token rejected", "error", err)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid Google token"})
		return
	}
	email, _ := payload.Claims["email"].(string)
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Google account has no email"})
		return
	}

	var issuer models.Issuer
	err = config.DB.Where("username = ?", email).First(&issuer).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// Tài khoản Google không có mật khẩu đăng nhập: băm một chuỗi ngẫu nhiên
		hash, herr := utils.HashPassword(uuid.NewString())
		if herr != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create account"})
			return
		}
		issuer = models.Issuer{Username: email, PasswordHash: hash, CreatedAt: utils.NowISO()}
		err = config.DB.Create(&issuer).Error
	}
	if err != nil {
		logger.L.Error("google login failed", "email", email, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not sign in"})
		return
	}

	if !setSessionCookie(c, issuer) {
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "issuer": issuer})
}

// POST /admin/logout
func Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", config.App.CookieSecure, true)
	if isFormPost(c) {
		c.Redirect(http.StatusSeeOther, "/admin")
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// GET /api/me
func Me(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"issuer": middleware.CurrentIssuer(c)})
}
