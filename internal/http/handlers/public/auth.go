package public

import (
	"errors"

	"github.com/phimart/phimart/internal/http/response"
	"github.com/phimart/phimart/internal/service"

	"github.com/gin-gonic/gin"
)

// RegisterRequest 注册请求
type RegisterRequest struct {
	Email       string `json:"email" binding:"required"`
	Password    string `json:"password" binding:"required,min=6"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Address     string `json:"address"`
	PhoneNumber string `json:"phone_number"`
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Register 用户注册
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	user, err := h.AuthService.Register(service.RegisterInput{
		Email:       req.Email,
		Password:    req.Password,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Address:     req.Address,
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailTaken):
			respondError(c, response.CodeConflict, "email already registered", nil)
		case errors.Is(err, service.ErrInvalidCredentials):
			respondError(c, response.CodeBadRequest, "invalid email or password", nil)
		default:
			respondError(c, response.CodeInternal, "register failed", err)
		}
		return
	}
	response.Success(c, user)
}

// Login 用户登录
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	result, err := h.AuthService.Login(req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			respondError(c, response.CodeUnauthorized, "invalid email or password", nil)
		case errors.Is(err, service.ErrUserDisabled):
			respondError(c, response.CodeUnauthorized, "user disabled", nil)
		default:
			respondError(c, response.CodeInternal, "login failed", err)
		}
		return
	}
	response.Success(c, result)
}

// GetCurrentUser 获取当前登录用户
func (h *Handler) GetCurrentUser(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	user, err := h.AuthService.GetUser(uid)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			respondError(c, response.CodeNotFound, "user not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "user fetch failed", err)
		return
	}
	response.Success(c, user)
}
