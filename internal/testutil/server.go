package testutil

import (
	"sync"
	"testing"
	"time"

	"github.com/abenfraj/menufique-sub001/config"
	aiapi "github.com/abenfraj/menufique-sub001/internal/api/ai"
	"github.com/abenfraj/menufique-sub001/internal/api/imagesearch"
	routes "github.com/abenfraj/menufique-sub001/internal/app/http"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

const TestJWTSecret = "test-secret"

func TestConfig() *config.Config {
	return &config.Config{
		Port:          "0",
		JWTSecret:     TestJWTSecret,
		AppURL:        "http://localhost:5173",
		PublicBaseURL: "https://menufique.test",
	}
}

// RecordingMailer captures sends for assertions instead of hitting SMTP.
type RecordingMailer struct {
	mu    sync.Mutex
	Sends []RecordedMail
}

type RecordedMail struct {
	To      string
	Subject string
	Body    string
}

func (m *RecordingMailer) Send(to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sends = append(m.Sends, RecordedMail{To: to, Subject: subject, Body: body})
	return nil
}

func (m *RecordingMailer) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Sends)
}

// NewServer builds a router wired exactly like production, minus external
// services.
func NewServer(t *testing.T, db *gorm.DB, mailer *RecordingMailer) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := TestConfig()
	deps := &routes.Deps{
		DB:     db,
		Cfg:    cfg,
		Log:    zerolog.Nop(),
		Mailer: mailer,
		AI:     aiapi.NewClient("", ""),
		Images: imagesearch.NewClient("", ""),
	}

	r := gin.New()
	routes.RegisterRoutes(r, deps)
	return r
}

// BearerToken issues a JWT the auth middleware accepts for the given user.
func BearerToken(t *testing.T, userID uint, email string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"email":   email,
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(TestJWTSecret))
	if err != nil {
		t.Fatalf("sign test token: %v", err)
	}
	return "Bearer " + signed
}
