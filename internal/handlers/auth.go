package handlers

import (
	"context"
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/labstack/echo/v4"

	"github.com/GabrielASF2/lead-cental/pkg/auth"
	"github.com/GabrielASF2/lead-cental/pkg/events"
	"github.com/GabrielASF2/lead-cental/pkg/models"
	"github.com/GabrielASF2/lead-cental/pkg/tracing"
)

// DefaultRole is the role every registered user gets
const DefaultRole = "admin"

// UserStore is the user persistence the auth handler needs
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

// AuthHandler serves registration and login
type AuthHandler struct {
	users   UserStore
	issuer  *auth.TokenIssuer
	emitter *events.Emitter
	logger  ectologger.Logger
}

// NewAuthHandler creates the auth handler
func NewAuthHandler(users UserStore, issuer *auth.TokenIssuer, emitter *events.Emitter, logger ectologger.Logger) *AuthHandler {
	return &AuthHandler{
		users:   users,
		issuer:  issuer,
		emitter: emitter,
		logger:  logger,
	}
}

// RegisterRoutes registers the auth routes
func (h *AuthHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/register", h.Register)
	g.POST("/login", h.Login)
}

type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UserResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Configured bool   `json:"configured"`
}

type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// Register creates a new user and issues a token
func (h *AuthHandler) Register(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "AuthHandler.Register")
	defer span.End()

	req, err := BindRequest[RegisterRequest](c)
	if err != nil {
		return err
	}

	existing, err := h.users.GetByEmail(ctx, req.Email)
	if err != nil {
		return err
	}
	if existing != nil {
		return httperror.NewHTTPError(http.StatusConflict, "email is already registered")
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		h.logger.WithContext(ctx).WithError(err).Error("failed to hash password")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to create user")
	}

	user := &models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
	}
	if err := h.users.Create(ctx, user); err != nil {
		return err
	}

	h.emitter.EmitUserRegistered(ctx, user.ID, user.Email)

	token, err := h.issuer.Issue(user.ID, user.Name, DefaultRole)
	if err != nil {
		h.logger.WithContext(ctx).WithError(err).Error("failed to issue token")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to issue token")
	}

	h.logger.WithContext(ctx).WithField("user_id", user.ID).Info("registered user")
	return c.JSON(http.StatusCreated, AuthResponse{
		Token: token,
		User:  toUserResponse(user),
	})
}

// Login verifies credentials and issues a token
func (h *AuthHandler) Login(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "AuthHandler.Login")
	defer span.End()

	req, err := BindRequest[LoginRequest](c)
	if err != nil {
		return err
	}

	user, err := h.users.GetByEmail(ctx, req.Email)
	if err != nil {
		return err
	}
	if user == nil || !auth.CheckPassword(user.PasswordHash, req.Password) {
		return httperror.NewHTTPError(http.StatusUnauthorized, "invalid email or password")
	}

	token, err := h.issuer.Issue(user.ID, user.Name, DefaultRole)
	if err != nil {
		h.logger.WithContext(ctx).WithError(err).Error("failed to issue token")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to issue token")
	}

	return c.JSON(http.StatusOK, AuthResponse{
		Token: token,
		User:  toUserResponse(user),
	})
}

func toUserResponse(user *models.User) UserResponse {
	return UserResponse{
		ID:         user.ID.String(),
		Name:       user.Name,
		Email:      user.Email,
		Configured: user.Configured,
	}
}
