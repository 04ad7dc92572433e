package auth

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/golang-jwt/jwt/v5"
	"github.com/kosefatih/e-ticaret-backend/middleware"
	"github.com/kosefatih/e-ticaret-backend/models"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.DeliveryAddress{}); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}
	return db
}

func newRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/auth/register", Register(db))
	r.POST("/api/auth/login", Login(db))
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

type authResponse struct {
	User struct {
		ID       uint   `json:"id"`
		Username string `json:"username"`
		Email    string `json:"email"`
		Role     string `json:"role"`
	} `json:"user"`
	Token string `json:"token"`
}

func TestRegisterAndLogin(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	db := newTestDB(t)
	r := newRouter(db)

	rr := doJSON(t, r, http.MethodPost, "/api/auth/register", gin.H{
		"username": "alice",
		"email":    "Alice@Example.com",
		"password": "secret123",
		"role":     "seller",
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("register: got status %d (%s)", rr.Code, rr.Body)
	}

	var reg authResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &reg); err != nil {
		t.Fatalf("failed to decode register response: %v", err)
	}
	if reg.User.Email != "alice@example.com" {
		t.Errorf("got email %q, want lowercased alice@example.com", reg.User.Email)
	}
	if reg.User.Role != "seller" {
		t.Errorf("got role %q, want seller", reg.User.Role)
	}
	if reg.Token == "" {
		t.Fatal("register must return a token")
	}

	// The stored password must be a hash, never the plaintext.
	var stored models.User
	if err := db.First(&stored, reg.User.ID).Error; err != nil {
		t.Fatalf("failed to load user: %v", err)
	}
	if stored.Password == "secret123" {
		t.Error("password stored in plaintext")
	}

	rr = doJSON(t, r, http.MethodPost, "/api/auth/login", gin.H{
		"email":    "alice@example.com",
		"password": "secret123",
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("login: got status %d (%s)", rr.Code, rr.Body)
	}
	var login authResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &login); err != nil {
		t.Fatalf("failed to decode login response: %v", err)
	}
	if login.User.ID != reg.User.ID || login.Token == "" {
		t.Errorf("unexpected login response: %s", rr.Body)
	}
}

func TestRegisterValidation(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	db := newTestDB(t)
	r := newRouter(db)

	if rr := doJSON(t, r, http.MethodPost, "/api/auth/register", gin.H{
		"username": "alice", "email": "alice@example.com", "password": "secret123",
	}); rr.Code != http.StatusCreated {
		t.Fatalf("seed register: got status %d (%s)", rr.Code, rr.Body)
	}

	tests := []struct {
		name string
		body gin.H
	}{
		{"duplicate email", gin.H{"username": "alice2", "email": "alice@example.com", "password": "secret123"}},
		{"duplicate email case-insensitive", gin.H{"username": "alice3", "email": "ALICE@example.com", "password": "secret123"}},
		{"invalid email", gin.H{"username": "bob", "email": "not-an-email", "password": "secret123"}},
		{"short password", gin.H{"username": "bob", "email": "bob@example.com", "password": "abc"}},
		{"unknown role", gin.H{"username": "bob", "email": "bob@example.com", "password": "secret123", "role": "superadmin"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := doJSON(t, r, http.MethodPost, "/api/auth/register", tt.body)
			if rr.Code != http.StatusBadRequest {
				t.Errorf("got status %d, want 400 (%s)", rr.Code, rr.Body)
			}
		})
	}
}

func TestRegisterDefaultsToCustomer(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	db := newTestDB(t)
	r := newRouter(db)

	rr := doJSON(t, r, http.MethodPost, "/api/auth/register", gin.H{
		"username": "bob", "email": "bob@example.com", "password": "secret123",
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("got status %d (%s)", rr.Code, rr.Body)
	}
	var reg authResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &reg); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if reg.User.Role != "customer" {
		t.Errorf("got role %q, want customer", reg.User.Role)
	}
}

func TestLoginFailures(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	db := newTestDB(t)
	r := newRouter(db)

	doJSON(t, r, http.MethodPost, "/api/auth/register", gin.H{
		"username": "alice", "email": "alice@example.com", "password": "secret123",
	})

	t.Run("unknown email", func(t *testing.T) {
		rr := doJSON(t, r, http.MethodPost, "/api/auth/login", gin.H{
			"email": "nobody@example.com", "password": "secret123",
		})
		if rr.Code != http.StatusNotFound {
			t.Errorf("got status %d, want 404 (%s)", rr.Code, rr.Body)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		rr := doJSON(t, r, http.MethodPost, "/api/auth/login", gin.H{
			"email": "alice@example.com", "password": "wrong-password",
		})
		if rr.Code != http.StatusUnauthorized {
			t.Errorf("got status %d, want 401 (%s)", rr.Code, rr.Body)
		}
	})
}

func TestTokenClaimsAndMiddleware(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, err := IssueToken(42, models.RoleAdmin)
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}

	parsed, err := jwt.Parse(token, func(*jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token does not verify: %v", err)
	}
	claims := parsed.Claims.(jwt.MapClaims)
	if claims["user_id"].(float64) != 42 {
		t.Errorf("got user_id %v, want 42", claims["user_id"])
	}
	if claims["role"].(string) != "admin" {
		t.Errorf("got role %v, want admin", claims["role"])
	}

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/admin", middleware.ValidateToken, middleware.RequireRole("admin"), func(c *gin.Context) {
		id, _ := c.Get("user_id")
		c.JSON(http.StatusOK, gin.H{"user_id": id})
	})

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"valid admin token", "Bearer " + token, http.StatusOK},
		{"missing header", "", http.StatusUnauthorized},
		{"garbage token", "Bearer not.a.jwt", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, req)
			if rr.Code != tt.want {
				t.Errorf("got status %d, want %d (%s)", rr.Code, tt.want, rr.Body)
			}
		})
	}

	t.Run("customer token is forbidden", func(t *testing.T) {
		customerToken, err := IssueToken(7, models.RoleCustomer)
		if err != nil {
			t.Fatalf("failed to issue token: %v", err)
		}
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.Header.Set("Authorization", "Bearer "+customerToken)
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)
		if rr.Code != http.StatusForbidden {
			t.Errorf("got status %d, want 403 (%s)", rr.Code, rr.Body)
		}
	})
}
