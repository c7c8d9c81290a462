package mongorepo

import (
	"fmt"

	"github.com/fsdevblog/groph-bank/internal/domain"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/mongo"
)

// convertErr приводит ошибки драйвера к доменным: mongo.ErrNoDocuments - ErrRecordNotFound,
// нарушение уникального индекса или занятое сгенерированное значение - ErrDuplicateKey, прочее - ErrUnknown. Стек сохраняется.
func convertErr(err error, format string, formatArgs ...any) error {
	if err == nil {
		return nil
	}
	msg := fmt.Sprintf(format, formatArgs...)

	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return errors.Wrapf(domain.ErrRecordNotFound, "[mongorepo/%s]", msg)
	case mongo.IsDuplicateKeyError(err), errors.Is(err, errValueTaken):
		return errors.Wrapf(domain.ErrDuplicateKey, "[mongorepo/%s] %s", msg, err.Error())
	case errors.Is(err, errBadDocument):
		return errors.Wrapf(err, "[mongorepo/%s]", msg)
	}
	return errors.Wrapf(domain.ErrUnknown, "[mongorepo/%s] %s", msg, err.Error())
}
