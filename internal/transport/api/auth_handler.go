package api

import (
	"context"
	"net/http"

	"github.com/fsdevblog/groph-bank/internal/domain"
	"github.com/fsdevblog/groph-bank/internal/service"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	userService UserServicer
}

func NewAuthHandler(userService UserServicer) *AuthHandler {
	return &AuthHandler{
		userService: userService,
	}
}

type UserRegisterParams struct {
	Name        string `binding:"required,min=1,max_bytes=255"    json:"name"`
	Email       string `binding:"required,email,max_bytes=255"    json:"email"`
	Phone       string `binding:"required,min=5,max=20"           json:"phone"`
	Password    string `binding:"required,min=6,max_bytes=72"     json:"password"`
	AccountType string `binding:"omitempty,oneof=savings current" json:"accountType"`
}

// Register POST RouteGroup + RegisterRoute. Регистрирует пользователя, открывает ему счет и аутентифицирует.
func (h *AuthHandler) Register(c *gin.Context) {
	var params UserRegisterParams
	if bindErr := c.ShouldBindJSON(&params); bindErr != nil {
		abortWithBindError(c, bindErr)
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	user, account, jwtToken, err := h.userService.Register(ctx, service.RegisterUserArgs{
		Name:        params.Name,
		Email:       params.Email,
		Phone:       params.Phone,
		Password:    params.Password,
		AccountType: domain.AccountType(params.AccountType),
	})
	if err != nil {
		abortWithServiceError(c, err)
		return
	}

	c.Header("Authorization", "Bearer "+jwtToken)
	c.JSON(http.StatusCreated, gin.H{
		"user":    newUserResponse(*user),
		"account": newAccountResponse(*account),
		"token":   jwtToken,
	})
}

type UserLoginParams struct {
	Email    string `binding:"required,email"        json:"email"`
	Password string `binding:"required,max_bytes=72" json:"password"`
}

// Login POST RouteGroup + LoginRoute. Аутентификация по паре email/пароль.
func (h *AuthHandler) Login(c *gin.Context) {
	var params UserLoginParams
	if bindErr := c.ShouldBindJSON(&params); bindErr != nil {
		abortWithBindError(c, bindErr)
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	user, token, err := h.userService.Login(ctx, service.LoginUserArgs{
		Email:    params.Email,
		Password: params.Password,
	})
	if err != nil {
		abortWithServiceError(c, err)
		return
	}

	c.Header("Authorization", "Bearer "+token)
	c.JSON(http.StatusOK, gin.H{"user": newUserResponse(*user), "token": token})
}
