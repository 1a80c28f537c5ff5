package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/balzampsilo-sys/tg-bot-10-02/internal/httperr"
)

var businessMessages = map[string]string{
	httperr.CodeNoServices:         "Нет доступных услуг.",
	httperr.CodeServiceUnavailable: "Услуга недоступна.",
	httperr.CodeLimitExceeded:      "Достигнут лимит активных записей.",
	httperr.CodeSlotTaken:          "Это время уже занято.",
	httperr.CodeAlreadyBlocked:     "Слот уже заблокирован.",
	httperr.CodeValidation:         "Некорректные данные.",
	httperr.CodeNotFound:           "Запись не найдена.",
	httperr.CodeForbidden:          "Недостаточно прав.",
	httperr.CodeRateLimited:        "Слишком много операций, попробуйте позже.",
	httperr.CodeDatabase:           "Внутренняя ошибка, попробуйте позже.",
}

// writeBusiness translates a use-case outcome into an HTTP response.
func writeBusiness(c *gin.Context, err error) {
	code := httperr.BusinessCode(err)
	msg, ok := businessMessages[code]
	if !ok {
		httperr.Internal(c, httperr.CodeDatabase, businessMessages[httperr.CodeDatabase])
		return
	}

	switch code {
	case httperr.CodeValidation, httperr.CodeNoServices, httperr.CodeServiceUnavailable:
		httperr.BadRequest(c, code, msg)
	case httperr.CodeNotFound:
		httperr.NotFound(c, code, msg)
	case httperr.CodeSlotTaken, httperr.CodeAlreadyBlocked, httperr.CodeLimitExceeded:
		httperr.Conflict(c, code, msg)
	case httperr.CodeForbidden:
		httperr.Forbidden(c, code, msg)
	case httperr.CodeRateLimited:
		httperr.TooManyRequests(c, code, msg)
	default:
		httperr.Internal(c, code, msg)
	}
}
