package validate

import (
	"fmt"
	"reflect"
	"strings"

	"trac/internal/core"
	cErr "trac/internal/pkg/error"
	"trac/internal/pkg/request"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// 輸出格式化的 validator error（欄位 json 名/型別/規則列表）
func ValidationErrorResponse(obj interface{}, err error) string {
	if errs, ok := err.(validator.ValidationErrors); ok {
		var b strings.Builder
		b.WriteString("Validation error:\n")
		for _, fe := range errs {
			field := fieldName(obj, fe.StructField())
			ftype := fieldType(obj, fe.StructField())
			format := getFieldFormat(obj, fe.StructField())
			b.WriteString(fmt.Sprintf(" - Field \"%s\" (type: %s) failed the '%s' validation (rules: %v)\n",
				field, ftype, fe.Tag(), format))
		}
		return b.String()
	}
	return fmt.Sprintf("Validation error: %s", err.Error())
}

// fieldName json tag 優先，query struct 則用 form tag
func fieldName(obj interface{}, structField string) string {
	t := reflect.TypeOf(obj)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if f, ok := t.FieldByName(structField); ok {
		for _, key := range []string{"json", "form"} {
			tag := f.Tag.Get(key)
			if tag != "" && tag != "-" {
				return strings.Split(tag, ",")[0]
			}
		}
	}
	return structField
}

func fieldType(obj interface{}, structField string) string {
	t := reflect.TypeOf(obj)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if f, ok := t.FieldByName(structField); ok {
		return f.Type.Name()
	}
	return ""
}

func getFieldFormat(obj interface{}, structField string) []string {
	t := reflect.TypeOf(obj)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if f, ok := t.FieldByName(structField); ok {
		tag := f.Tag.Get("binding")
		if tag != "" {
			return strings.Split(tag, ",")
		}
	}
	return nil
}

func BindAndValidate(c *gin.Context, req any) (cause error, responseErr error) {
	if err := c.ShouldBindJSON(req); err != nil {
		return err, cErr.ValidateErr(ValidationErrorResponse(req, err))
	}
	return nil, nil
}

// BindQuery 綁定 query string；實作 request.Validator 的 dto 使用自訂訊息
func BindQuery(c *gin.Context, req any) (cause error, responseErr error) {
	if err := c.ShouldBindQuery(req); err != nil {
		if _, ok := req.(request.Validator); ok {
			appErr := request.GetError(req, err)
			return err, cErr.BadRequestQuery(appErr.ErrorDesc())
		}
		return err, cErr.BadRequestQuery(ValidationErrorResponse(req, err))
	}
	return nil, nil
}

// ParseDocumentID 路徑上的文件 id：非空、不含 '/'
func ParseDocumentID(c *gin.Context, key string) (id string, cause error, responseErr error) {
	id = strings.TrimSpace(c.Param(key))
	if !IsValidDocumentID(id) {
		err := fmt.Errorf("invalid %s %q", key, id)
		return "", err, cErr.ValidatePathParamsErr("invalid " + key)
	}
	return id, nil, nil
}

func IsValidDocumentID(id string) bool {
	return id != "" && !strings.Contains(id, "/")
}

// ===== Role =====
var validRoles = []core.Role{
	core.RoleOwner,
	core.RoleEmployee,
}

func IsValidRole(role string) bool {
	for _, v := range validRoles {
		if core.Role(role) == v {
			return true
		}
	}
	return false
}
