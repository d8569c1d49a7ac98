package request

import (
	"errors"
	"regexp"
	"strings"

	cErr "trac/internal/pkg/error"

	"github.com/go-playground/validator/v10"
)

// Validator dto 提供 "<Field>.<tag>" → 訊息 的對照
type Validator interface {
	GetMessages() ValidatorMessages
}

type ValidatorMessages map[string]string

var sliceIndex = regexp.MustCompile(`\[\d+\]`)

// GetError 依 dto 的自訂訊息轉換 validator 錯誤；多個欄位失敗時以 "; " 串接
func GetError(request any, err error) *cErr.Error {
	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) || len(fieldErrors) == 0 {
		return cErr.ValidateErr("Parameter error")
	}

	var messages ValidatorMessages
	if v, ok := request.(Validator); ok {
		messages = v.GetMessages()
	}

	descriptions := make([]string, 0, len(fieldErrors))
	for _, fe := range fieldErrors {
		field := sliceIndex.ReplaceAllString(fe.Field(), ".*")
		if message, ok := messages[field+"."+fe.Tag()]; ok {
			descriptions = append(descriptions, message)
			continue
		}
		descriptions = append(descriptions, fe.Error())
	}
	return cErr.ValidateErr(strings.Join(descriptions, "; "))
}
