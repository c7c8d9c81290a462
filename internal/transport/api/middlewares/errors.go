package middlewares

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Errors рендерит первую ошибку из контекста в виде {"error": "..."}. Публичные ошибки отдаются как есть,
// у приватных наружу уходит только текст статуса. Клиент, явно запросивший text/plain, получает текст.
func Errors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Size() > 0 {
			return
		}

		status := c.Writer.Status()
		first := c.Errors[0]
		msg := strings.ToLower(http.StatusText(status))
		if first.IsType(gin.ErrorTypePublic) {
			msg = first.Error()
		}

		accept := c.GetHeader("Accept")
		if strings.Contains(accept, "text/plain") && !strings.Contains(accept, "application/json") {
			c.String(status, msg)
		} else {
			c.JSON(status, gin.H{"error": msg})
		}
		c.Abort()
	}
}
