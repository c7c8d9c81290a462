package api

import (
	"errors"
	"net/http"

	"github.com/fsdevblog/groph-bank/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// serviceErrors сопоставление доменных ошибок и http статусов. Порядок важен: ErrDuplicateActiveLoan и
// ErrDuplicateActiveCard проверяются раньше общего ErrDuplicateKey.
var serviceErrors = []struct {
	target error
	status int
}{
	{domain.ErrValidation, http.StatusUnprocessableEntity},
	{domain.ErrInsufficientBalance, http.StatusPaymentRequired},
	{domain.ErrDuplicateActiveLoan, http.StatusConflict},
	{domain.ErrDuplicateActiveCard, http.StatusConflict},
	{domain.ErrDuplicateKey, http.StatusConflict},
	{domain.ErrInvalidTransition, http.StatusConflict},
	{domain.ErrRecordNotFound, http.StatusNotFound},
	{domain.ErrAccessDenied, http.StatusForbidden},
	{domain.ErrInvalidCredentials, http.StatusUnauthorized},
}

// abortWithServiceError прерывает запрос со статусом, соответствующим ошибке сервиса. Известные ошибки
// отдаются клиенту коротким текстом, неизвестные - 500 без подробностей.
func abortWithServiceError(c *gin.Context, err error) {
	for _, se := range serviceErrors {
		if errors.Is(err, se.target) {
			_ = c.AbortWithError(se.status, publicError(err, se.target)).SetType(gin.ErrorTypePublic)
			return
		}
	}
	_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
}

// publicError отбрасывает обертки слоев, оставляя текст, безопасный для клиента.
func publicError(err, target error) error {
	var valErr *domain.ValidationError
	if errors.As(err, &valErr) {
		return valErr
	}
	var trErr *domain.TransitionError
	if errors.As(err, &trErr) {
		return trErr
	}
	return target
}

// abortWithBindError ошибки валидатора - 422 со списком полей, прочие ошибки разбора - 400.
func abortWithBindError(c *gin.Context, bindErr error) {
	var valErrs validator.ValidationErrors
	if errors.As(bindErr, &valErrs) {
		fields := make(map[string]string, len(valErrs))
		for _, fe := range valErrs {
			fields[fe.Field()] = fe.Tag()
		}
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{"error": domain.ErrValidation.Error(), "fields": fields})
		return
	}
	_ = c.AbortWithError(http.StatusBadRequest, bindErr).SetType(gin.ErrorTypeBind)
}
