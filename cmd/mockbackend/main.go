// mockbackend is a stand-in for the remote school backend, used when
// developing the shell without tenant credentials. It issues bearer
// tokens, serves master data fixtures and accepts the notification and
// first-reset endpoints the shell consumes.
package main

import (
	"flag"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"edunest/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var jwtSecret = []byte("edunest-dev-secret")

type server struct {
	mu           sync.Mutex
	pushTokens   map[string]models.RegisterTokenRequest // userId -> registration
	passwords    map[string][]byte                      // userId -> bcrypt hash
	testRequests []models.TestPushRequest
}

func main() {
	addr := flag.String("addr", ":5199", "listen address")
	flag.Parse()

	s := &server{
		pushTokens: make(map[string]models.RegisterTokenRequest),
		passwords:  make(map[string][]byte),
	}

	r := gin.Default()

	r.POST("/Auth/login", s.login)
	r.POST("/Auth/first-reset", s.firstReset)

	authed := r.Group("/api")
	authed.Use(requireBearer())
	{
		authed.GET("/MasterData/classes", s.classes)
		authed.GET("/MasterData/subjects", s.subjects)
		authed.POST("/Notification/register-token", s.registerToken)
		authed.POST("/Notification/test", s.testPush)
	}

	log.Printf("mock backend listening on %s", *addr)
	if err := r.Run(*addr); err != nil {
		log.Fatalf("mock backend: %v", err)
	}
}

type loginRequest struct {
	UserID   string `json:"userId" binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role"`
}

// login mints a short-lived bearer token for any credentials. The role
// defaults to admin so every shell page is reachable in development.
func (s *server) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	role := req.Role
	if role == "" {
		role = models.RoleAdmin
	}

	claims := jwt.MapClaims{
		"sub":  req.UserID,
		"role": role,
		"exp":  time.Now().Add(24 * time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(jwtSecret)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to sign token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":    token,
		"role":     role,
		"userGuid": uuid.NewString(),
		"userId":   req.UserID,
	})
}

func (s *server) firstReset(c *gin.Context) {
	var req models.FirstResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to hash password"})
		return
	}
	s.mu.Lock()
	s.passwords[req.UserID] = hash
	s.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func requireBearer() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		raw := strings.TrimPrefix(header, "Bearer ")
		token, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return jwtSecret, nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		c.Next()
	}
}

func (s *server) classes(c *gin.Context) {
	c.JSON(http.StatusOK, []models.ClassRecord{
		{
			ID:      uuid.NewString(),
			Grade:   "7",
			Section: "A",
			Name:    "7A",
			ClassSubjects: []models.ClassSubject{
				{SubjectID: "m1", SubjectName: "Math"},
				{SubjectID: "s1", SubjectName: "Science"},
			},
		},
		{ID: uuid.NewString(), Grade: "8", Section: "B", Name: "8B"},
	})
}

func (s *server) subjects(c *gin.Context) {
	c.JSON(http.StatusOK, []models.SubjectRecord{
		{ID: "m1", Name: "Math"},
		{ID: "s1", Name: "Science"},
	})
}

func (s *server) registerToken(c *gin.Context) {
	var req models.RegisterTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s.mu.Lock()
	s.pushTokens[req.UserID] = req
	s.mu.Unlock()
	log.Printf("registered push token for %s (%s)", req.UserID, req.DeviceType)
	c.JSON(http.StatusOK, gin.H{"status": "registered"})
}

// testPush records the request; use cmd/pushtool for a real FCM send.
func (s *server) testPush(c *gin.Context) {
	var req models.TestPushRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s.mu.Lock()
	s.testRequests = append(s.testRequests, req)
	s.mu.Unlock()
	log.Printf("test push requested for token %s: %s", req.Token, req.Title)
	c.JSON(http.StatusOK, gin.H{"status": "queued"})
}
