package api

import (
	"context"
	"net/http"

	"github.com/fsdevblog/groph-bank/internal/repository/repoargs"
	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userService UserServicer
}

func NewUserHandler(userService UserServicer) *UserHandler {
	return &UserHandler{userService: userService}
}

// Profile GET RouteGroup + ProfileRoute.
func (h *UserHandler) Profile(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	user, account, err := h.userService.Profile(ctx, getUserIDFromContext(c))
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": newUserResponse(*user), "account": newAccountResponse(*account)})
}

type UpdateProfileParams struct {
	Name    *string `binding:"omitempty,min=1,max_bytes=255" json:"name"`
	Phone   *string `binding:"omitempty,min=5,max=20"        json:"phone"`
	Address *string `binding:"omitempty,max_bytes=500"       json:"address"`
}

// UpdateProfile PUT RouteGroup + ProfileRoute. Меняет только переданные поля.
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var params UpdateProfileParams
	if bindErr := c.ShouldBindJSON(&params); bindErr != nil {
		abortWithBindError(c, bindErr)
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	user, err := h.userService.UpdateProfile(ctx, getUserIDFromContext(c), repoargs.UpdateProfile{
		Name:    params.Name,
		Phone:   params.Phone,
		Address: params.Address,
	})
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": newUserResponse(*user)})
}

type LinkUPIParams struct {
	UPIID string `binding:"required,upi" json:"upiId"`
}

// LinkUPI POST RouteGroup + UPIRoute.
func (h *UserHandler) LinkUPI(c *gin.Context) {
	var params LinkUPIParams
	if bindErr := c.ShouldBindJSON(&params); bindErr != nil {
		abortWithBindError(c, bindErr)
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	user, err := h.userService.LinkUPI(ctx, getUserIDFromContext(c), params.UPIID)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": newUserResponse(*user)})
}

// UnlinkUPI DELETE RouteGroup + UPIRoute.
func (h *UserHandler) UnlinkUPI(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	user, err := h.userService.UnlinkUPI(ctx, getUserIDFromContext(c))
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": newUserResponse(*user)})
}
