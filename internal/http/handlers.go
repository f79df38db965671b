package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harshlagwal/Wanderlust-backend/internal/domain"
	"github.com/harshlagwal/Wanderlust-backend/internal/log"
	"github.com/harshlagwal/Wanderlust-backend/internal/queue"
	"github.com/harshlagwal/Wanderlust-backend/internal/repo"
	"github.com/harshlagwal/Wanderlust-backend/internal/security"
)

// Store is the persistence surface the handlers need. *repo.Store implements
// it; tests substitute an in-memory fake.
type Store interface {
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)
	CreateUser(ctx context.Context, u *domain.User) error
	UpgradeLegacyUser(ctx context.Context, id primitive.ObjectID, name, passwordHash string) error
	SaveItinerary(ctx context.Context, it *domain.Itinerary) (primitive.ObjectID, error)
	ListItineraries(ctx context.Context, email string) ([]domain.Itinerary, error)
	SaveSearch(ctx context.Context, rec *domain.SearchRecord) error
	Ping(ctx context.Context) error
}

// RateLimiter is satisfied by repo.Redis. A nil limiter disables limiting.
type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

type Handler struct {
	Store           Store
	JWTSecret       string
	TokenTTL        time.Duration
	Limiter         RateLimiter
	RateLimitPerMin int
	Events          queue.Publisher
}

func NewHandler(store Store, jwtSecret string, limiter RateLimiter, rlPerMin int, pub queue.Publisher) *Handler {
	return &Handler{
		Store:           store,
		JWTSecret:       jwtSecret,
		TokenTTL:        security.TokenTTL,
		Limiter:         limiter,
		RateLimitPerMin: rlPerMin,
		Events:          pub,
	}
}

// allow applies the per-IP fixed window on the public auth routes. Limiter
// errors fail open: an unreachable Redis must not take down login.
func (h *Handler) allow(c *gin.Context, op string) bool {
	if h.Limiter == nil || h.RateLimitPerMin <= 0 {
		return true
	}
	ok, err := h.Limiter.Allow(c.Request.Context(), "rl:"+op+":"+c.ClientIP(), h.RateLimitPerMin, time.Minute)
	if err != nil {
		log.Warnf("[RATE] limiter unavailable: %v", err)
		return true
	}
	return ok
}

type signupReq struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResp struct {
	Success bool              `json:"success"`
	Token   string            `json:"token"`
	User    domain.PublicUser `json:"user"`
}

// Signup godoc
// @Summary Register a new user, or set the first password on a legacy account
// @Tags auth
// @Accept json
// @Produce json
// @Param payload body signupReq true "signup"
// @Success 201 {object} authResp
// @Failure 400 {object} map[string]any
// @Router /api/auth/signup [post]
func (h *Handler) Signup(c *gin.Context) {
	var in signupReq
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid json"})
		return
	}
	log.Infof("[AUTH] Signup attempt: %s", in.Email)

	if in.Email == "" || in.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "email and password are required"})
		return
	}
	if !h.allow(c, "signup") {
		c.JSON(http.StatusTooManyRequests, gin.H{"success": false, "message": "too many requests"})
		return
	}

	ctx := c.Request.Context()
	u, err := h.Store.FindUserByEmail(ctx, in.Email)
	if err != nil {
		log.Errorf("[AUTH] signup lookup: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server Error during signup", "error": err.Error()})
		return
	}

	switch {
	case u == nil:
		// brand new identity
		log.Infof("[AUTH] Creating new user: %s", in.Email)
		u = &domain.User{Name: in.Name, Email: in.Email, Provider: "local"}
		if err := u.SetPassword(in.Password); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server Error during signup"})
			return
		}
		if err := h.Store.CreateUser(ctx, u); err != nil {
			if errors.Is(err, repo.ErrDuplicate) {
				// lost a create/create race on the unique email index
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "User already exists"})
				return
			}
			log.Errorf("[AUTH] signup insert: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server Error during signup", "error": err.Error()})
			return
		}

	case !u.HasPassword():
		// legacy account: signup doubles as the one-time upgrade
		log.Infof("[AUTH] Upgrading legacy user: %s", in.Email)
		if err := u.SetPassword(in.Password); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server Error during signup"})
			return
		}
		if in.Name != "" {
			u.Name = in.Name
		}
		u.Provider = "local"
		if err := h.Store.UpgradeLegacyUser(ctx, u.ID, in.Name, u.PasswordHash); err != nil {
			log.Errorf("[AUTH] legacy upgrade: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server Error during signup", "error": err.Error()})
			return
		}

	default:
		log.Warnf("[AUTH] Signup failed: User already exists: %s", in.Email)
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "User already exists"})
		return
	}

	tok, err := security.MakeToken(h.JWTSecret, u.ID.Hex(), u.Email, h.TokenTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server Error during signup"})
		return
	}

	go h.Events.Publish(context.Background(), queue.Exchange, "user.registered",
		queue.UserRegistered{UserID: u.ID, Email: u.Email, Name: u.Name}, requestID(c))

	log.Infof("[AUTH] Signup successful: %s", in.Email)
	c.JSON(http.StatusCreated, authResp{Success: true, Token: tok, User: u.Public()})
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login godoc
// @Summary Authenticate user and get a token
// @Tags auth
// @Accept json
// @Produce json
// @Param payload body loginReq true "login"
// @Success 200 {object} authResp
// @Failure 400 {object} map[string]any
// @Router /api/auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var in loginReq
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid json"})
		return
	}
	log.Infof("[AUTH] Login attempt: %s", in.Email)

	if !h.allow(c, "login") {
		c.JSON(http.StatusTooManyRequests, gin.H{"success": false, "message": "too many requests"})
		return
	}

	u, err := h.Store.FindUserByEmail(c.Request.Context(), in.Email)
	if err != nil {
		log.Errorf("[AUTH] login lookup: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server Error during login", "error": err.Error()})
		return
	}
	if u == nil {
		// do not reveal whether the email exists
		log.Warnf("[AUTH] Login failed: User not found: %s", in.Email)
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid credentials"})
		return
	}
	if !u.HasPassword() {
		log.Warnf("[AUTH] Login failed: Legacy user needs to sign up to set password: %s", in.Email)
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Legacy account detected. Please use Signup to set a password."})
		return
	}
	if !u.CheckPassword(in.Password) {
		log.Warnf("[AUTH] Login failed: Password mismatch: %s", in.Email)
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid credentials"})
		return
	}

	tok, err := security.MakeToken(h.JWTSecret, u.ID.Hex(), u.Email, h.TokenTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server Error during login"})
		return
	}

	go h.Events.Publish(context.Background(), queue.Exchange, "user.loggedin",
		queue.UserLoggedIn{UserID: u.ID, Email: u.Email}, requestID(c))

	log.Infof("[AUTH] Login successful: %s", in.Email)
	c.JSON(http.StatusOK, authResp{Success: true, Token: tok, User: u.Public()})
}

type searchReq struct {
	UserEmail string `json:"userEmail"`
	Question  string `json:"question"`
}

// SaveSearch godoc
// @Summary Save a user search question
// @Tags search
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param payload body searchReq true "search"
// @Success 201 {object} domain.SearchRecord
// @Failure 400 {object} map[string]any
// @Router /api/search [post]
func (h *Handler) SaveSearch(c *gin.Context) {
	var in searchReq
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid json"})
		return
	}

	email := authEmail(c)
	if email == "" {
		email = in.UserEmail
	}

	rec := &domain.SearchRecord{UserEmail: email, Question: in.Question}
	if err := h.Store.SaveSearch(c.Request.Context(), rec); err != nil {
		var ve *repo.ValidationError
		if errors.As(err, &ve) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Database validation failed", "details": ve.Fields})
			return
		}
		log.Errorf("[SEARCH] save: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server Error while saving search"})
		return
	}
	c.JSON(http.StatusCreated, rec)
}

// Health godoc
// @Summary Liveness/readiness probe
// @Tags system
// @Produce json
// @Success 200 {object} map[string]any
// @Router /api/health [get]
func (h *Handler) Health(c *gin.Context) {
	if err := h.Store.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "up",
		"message": "Wanderlust Backend Reachable",
		"time":    time.Now().UTC(),
	})
}
