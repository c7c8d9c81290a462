package api

import (
	"github.com/fsdevblog/groph-bank/internal/transport/api/middlewares"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// getUserIDFromContext берет из контекста gin ID текущего юзера. ID устанавливается в middlewares.AuthRequired.
// Если значения в контексте нет, вернется uuid.Nil.
func getUserIDFromContext(c *gin.Context) uuid.UUID {
	v, exist := c.Get(middlewares.CurrentUserIDKey)
	if !exist {
		return uuid.Nil
	}
	userID, ok := v.(uuid.UUID)
	if !ok {
		return uuid.Nil
	}
	return userID
}

type resourceURI struct {
	ID string `binding:"required,uuid" uri:"id"`
}

// bindResourceID разбирает :id из пути. При ошибке запрос уже прерван.
func bindResourceID(c *gin.Context) (uuid.UUID, bool) {
	var uri resourceURI
	if err := c.ShouldBindUri(&uri); err != nil {
		abortWithBindError(c, err)
		return uuid.Nil, false
	}
	id, err := uuid.Parse(uri.ID)
	if err != nil {
		abortWithBindError(c, err)
		return uuid.Nil, false
	}
	return id, true
}
