package controllers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/streakhub/server/config"
	"github.com/streakhub/server/middleware"
	"github.com/streakhub/server/models"
	"github.com/streakhub/server/services"
	"github.com/streakhub/server/utils"
)

// AuthController handles Telegram-based login. There is no local
// registration: membership in the allowed group is the only credential.
type AuthController struct {
	db         *gorm.DB
	membership services.Membership
}

// NewAuthController creates a new controller instance.
func NewAuthController(db *gorm.DB, membership services.Membership) *AuthController {
	return &AuthController{db: db, membership: membership}
}

type telegramLoginRequest struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Username  string `json:"username"`
	PhotoURL  string `json:"photo_url"`
	AuthDate  int64  `json:"auth_date"`
	Hash      string `json:"hash"`
}

// TelegramLogin verifies a Telegram login widget payload, requires group
// membership, upserts the user and issues a JWT.
func (a *AuthController) TelegramLogin(ctx *gin.Context) {
	var req telegramLoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40001, "invalid request payload")
		return
	}

	cfg := config.Get()
	if !verifyTelegramSignature(cfg.TelegramBotToken, req) {
		utils.Error(ctx, http.StatusUnauthorized, 40101, "invalid telegram signature")
		return
	}

	authTime := time.Unix(req.AuthDate, 0)
	if time.Since(authTime) > 5*time.Minute {
		utils.Error(ctx, http.StatusUnauthorized, 40102, "telegram login expired")
		return
	}

	if !a.membership.IsMember(ctx.Request.Context(), req.ID) {
		utils.Error(ctx, http.StatusForbidden, 40301, "access restricted to community members")
		return
	}

	user, err := a.upsertUser(req.ID, req.FirstName, req.Username)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50001, "failed to persist user")
		return
	}

	token, err := utils.GenerateToken(user.ID, user.TelegramID, 72*time.Hour)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50002, "failed to generate token")
		return
	}

	utils.Success(ctx, gin.H{"token": token, "user": user})
}

// Me returns the current authenticated user's information.
func (a *AuthController) Me(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var user models.User
	if err := a.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40401, "user not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50003, "failed to load user")
		return
	}

	utils.Success(ctx, user)
}

// Logout revokes the presented token until its natural expiration.
func (a *AuthController) Logout(ctx *gin.Context) {
	authHeader := ctx.GetHeader("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 {
		utils.Error(ctx, http.StatusBadRequest, 40002, "missing bearer token")
		return
	}
	tokenStr := strings.TrimSpace(parts[1])

	claims, err := utils.ParseToken(tokenStr)
	if err != nil {
		utils.Error(ctx, http.StatusUnauthorized, 40105, "invalid token")
		return
	}

	utils.BlacklistToken(tokenStr, claims.ExpiresAt.Time)
	utils.Success(ctx, gin.H{"message": "logged out"})
}

// upsertUser creates the user on first login and refreshes display fields
// afterwards. The Telegram id never changes.
func (a *AuthController) upsertUser(telegramID int64, firstName, username string) (*models.User, error) {
	var user models.User
	err := a.db.Where("telegram_id = ?", telegramID).First(&user).Error
	if err == nil {
		user.FirstName = firstName
		user.Username = username
		if err := a.db.Save(&user).Error; err != nil {
			return nil, err
		}
		return &user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	user = models.User{
		TelegramID: telegramID,
		FirstName:  firstName,
		Username:   username,
	}
	if err := a.db.Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// verifyTelegramSignature checks the HMAC the login widget attaches to its
// payload, keyed by SHA256 of the bot token.
func verifyTelegramSignature(botToken string, req telegramLoginRequest) bool {
	if botToken == "" || req.Hash == "" {
		return false
	}

	fields := map[string]string{
		"id":        fmt.Sprintf("%d", req.ID),
		"auth_date": fmt.Sprintf("%d", req.AuthDate),
	}
	if req.FirstName != "" {
		fields["first_name"] = req.FirstName
	}
	if req.LastName != "" {
		fields["last_name"] = req.LastName
	}
	if req.Username != "" {
		fields["username"] = req.Username
	}
	if req.PhotoURL != "" {
		fields["photo_url"] = req.PhotoURL
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, k+"="+fields[k])
	}
	dataCheckString := strings.Join(lines, "\n")

	secret := sha256.Sum256([]byte(botToken))
	mac := hmac.New(sha256.New, secret[:])
	mac.Write([]byte(dataCheckString))
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(strings.ToLower(req.Hash)))
}

// getUserID extracts the authenticated user id set by the auth middleware.
func getUserID(ctx *gin.Context) (uint, bool) {
	v, exists := ctx.Get(middleware.ContextUserIDKey)
	if !exists {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}
