package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"net/http"
	"time"

	"github.com/abenfraj/menufique-sub001/config"
	"github.com/abenfraj/menufique-sub001/internal/api/httpx"
	"github.com/abenfraj/menufique-sub001/internal/domain/users"
	"github.com/abenfraj/menufique-sub001/internal/mail"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	bcryptCost     = 12
	resetTokenTTL  = time.Hour
	loginTokenTTL  = 24 * time.Hour
	genericResetOK = "If your email exists, you'll receive a reset link."
)

type Handler struct {
	DB     *gorm.DB
	Cfg    *config.Config
	Mailer mail.Mailer
	Log    zerolog.Logger
}

func NewHandler(db *gorm.DB, cfg *config.Config, mailer mail.Mailer, log zerolog.Logger) *Handler {
	return &Handler{DB: db, Cfg: cfg, Mailer: mailer, Log: log}
}

func isPasswordStrong(password string) bool {
	if len(password) < 8 {
		return false
	}
	hasLetter := false
	hasDigit := false
	for _, c := range password {
		switch {
		case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z':
			hasLetter = true
		case '0' <= c && c <= '9':
			hasDigit = true
		}
	}
	return hasLetter && hasDigit
}

func generateResetToken() string {
	bytes := make([]byte, 32)
	rand.Read(bytes)
	return hex.EncodeToString(bytes)
}

type userSummary struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Plan  string `json:"plan"`
}

func summarize(u *users.User) userSummary {
	return userSummary{ID: u.ID, Name: u.Name, Email: u.Email, Plan: u.Plan}
}

// POST /api/auth/register
func (h *Handler) Register(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
		Name     string `json:"name"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		httpx.Error(c, http.StatusBadRequest, httpx.BindMsg(err))
		return
	}

	if !isPasswordStrong(input.Password) {
		httpx.Error(c, http.StatusBadRequest, "Password must be at least 8 characters long and contain both letters and numbers")
		return
	}

	var existing users.User
	if err := h.DB.Where("email = ?", input.Email).First(&existing).Error; err == nil {
		httpx.Error(c, http.StatusConflict, "Email already registered")
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		httpx.Error(c, http.StatusInternalServerError, "Something went wrong")
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcryptCost)
	if err != nil {
		httpx.Error(c, http.StatusInternalServerError, "Failed to hash password")
		return
	}
	hashed := string(hashedPassword)

	user := users.User{
		Name:         input.Name,
		Email:        input.Email,
		Password:     &hashed,
		AuthProvider: "local",
		Plan:         users.PlanFree,
	}

	if err := h.DB.Create(&user).Error; err != nil {
		// A concurrent registration can slip past the pre-check and land on
		// the unique email index; anything else is a real failure.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			httpx.Error(c, http.StatusConflict, "Email already registered")
			return
		}
		h.Log.Error().Err(err).Msg("user insert failed")
		httpx.Error(c, http.StatusInternalServerError, "Something went wrong")
		return
	}

	mail.SendAsync(h.Log, h.Mailer, user.Email,
		"Welcome to Menufique",
		"Your account is ready. Create your first menu and share it with a QR code!")

	httpx.Data(c, http.StatusCreated, summarize(&user))
}

// POST /api/auth/login
func (h *Handler) Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		httpx.Error(c, http.StatusBadRequest, httpx.BindMsg(err))
		return
	}

	var user users.User
	if err := h.DB.Where("email = ?", input.Email).First(&user).Error; err != nil {
		httpx.Error(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	if user.Password == nil || *user.Password == "" {
		httpx.Error(c, http.StatusUnauthorized, "This account uses Google sign-in")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*user.Password), []byte(input.Password)); err != nil {
		httpx.Error(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	tokenString, err := h.issueAppJWT(&user)
	if err != nil {
		httpx.Error(c, http.StatusInternalServerError, "Could not create token")
		return
	}

	httpx.Data(c, http.StatusOK, gin.H{"token": tokenString, "user": summarize(&user)})
}

func (h *Handler) issueAppJWT(user *users.User) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"exp":     time.Now().Add(loginTokenTTL).Unix(),
	})
	return token.SignedString([]byte(h.Cfg.JWTSecret))
}

// POST /api/auth/forgot-password
//
// Always answers with the same generic message: the response must not reveal
// whether the address has an account.
func (h *Handler) RequestPasswordReset(c *gin.Context) {
	var body struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		httpx.Error(c, http.StatusBadRequest, httpx.BindMsg(err))
		return
	}

	var user users.User
	if err := h.DB.Where("email = ?", body.Email).First(&user).Error; err != nil {
		httpx.Data(c, http.StatusOK, gin.H{"message": genericResetOK})
		return
	}

	// One live token per email: new requests invalidate older ones.
	h.DB.Where("email = ?", user.Email).Delete(&users.PasswordResetToken{})

	token := generateResetToken()
	reset := users.PasswordResetToken{
		Email:     user.Email,
		Token:     token,
		ExpiresAt: time.Now().Add(resetTokenTTL),
	}
	if err := h.DB.Create(&reset).Error; err != nil {
		h.Log.Error().Err(err).Msg("failed to store reset token")
		httpx.Data(c, http.StatusOK, gin.H{"message": genericResetOK})
		return
	}

	resetLink := h.Cfg.AppURL + "/reset-password?token=" + token
	mail.SendAsync(h.Log, h.Mailer, user.Email,
		"Reset your Menufique password",
		"Click the following link to reset your password:\n\n"+resetLink+"\n\nThe link expires in one hour.")

	httpx.Data(c, http.StatusOK, gin.H{"message": genericResetOK})
}

// POST /api/auth/reset-password
func (h *Handler) ResetPassword(c *gin.Context) {
	var body struct {
		Token       string `json:"token" binding:"required"`
		NewPassword string `json:"new_password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		httpx.Error(c, http.StatusBadRequest, httpx.BindMsg(err))
		return
	}

	if !isPasswordStrong(body.NewPassword) {
		httpx.Error(c, http.StatusBadRequest, "Password must be at least 8 characters with letters and numbers")
		return
	}

	var reset users.PasswordResetToken
	err := h.DB.Where("token = ?", body.Token).First(&reset).Error
	if err != nil || reset.ExpiresAt.Before(time.Now()) {
		httpx.Error(c, http.StatusBadRequest, "Invalid or expired token")
		return
	}

	hashed, _ := bcrypt.GenerateFromPassword([]byte(body.NewPassword), bcryptCost)
	if err := h.DB.Model(&users.User{}).
		Where("email = ?", reset.Email).
		Update("password", string(hashed)).Error; err != nil {
		httpx.Error(c, http.StatusInternalServerError, "Failed to update password")
		return
	}

	h.DB.Delete(&reset)

	httpx.Data(c, http.StatusOK, gin.H{"message": "Password reset successful"})
}

// POST /api/auth/change-password
func (h *Handler) ChangePassword(c *gin.Context) {
	userID := c.GetUint("user_id")
	if userID == 0 {
		httpx.Error(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var body struct {
		OldPassword string `json:"old_password" binding:"required"`
		NewPassword string `json:"new_password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		httpx.Error(c, http.StatusBadRequest, httpx.BindMsg(err))
		return
	}

	if !isPasswordStrong(body.NewPassword) {
		httpx.Error(c, http.StatusBadRequest, "New password must be at least 8 characters with letters and numbers")
		return
	}

	var user users.User
	if err := h.DB.First(&user, userID).Error; err != nil {
		httpx.Error(c, http.StatusUnauthorized, "User not found")
		return
	}

	if user.Password == nil || *user.Password == "" {
		httpx.Error(c, http.StatusBadRequest, "This account does not have a password. Sign in with Google or set a password first.")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(*user.Password), []byte(body.OldPassword)); err != nil {
		httpx.Error(c, http.StatusUnauthorized, "Old password is incorrect")
		return
	}

	hashedNew, _ := bcrypt.GenerateFromPassword([]byte(body.NewPassword), bcryptCost)
	h.DB.Model(&user).Update("password", string(hashedNew))

	httpx.Data(c, http.StatusOK, gin.H{"message": "Password changed successfully"})
}

// GET /api/me
func (h *Handler) GetCurrentUser(c *gin.Context) {
	userID := c.GetUint("user_id")
	if userID == 0 {
		httpx.Error(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var user users.User
	if err := h.DB.First(&user, userID).Error; err != nil {
		httpx.Error(c, http.StatusNotFound, "User not found")
		return
	}

	httpx.Data(c, http.StatusOK, summarize(&user))
}
