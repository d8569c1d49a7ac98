package error

import (
	"errors"
	"net/http"
)

// Error 對外回應的應用錯誤：HTTP 狀態、業務錯誤碼、簡短代號與說明
type Error struct {
	httpCode  int
	errorCode int
	errorMsg  string
	errorDesc string
}

func New(httpCode, errorCode int, errorMsg string, errorDesc string) *Error {
	return &Error{
		httpCode:  httpCode,
		errorCode: errorCode,
		errorMsg:  errorMsg,
		errorDesc: errorDesc,
	}
}

// As 從 error 鏈中取出 *Error
func As(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// From 非 *Error 一律視為內部錯誤
func From(err error) *Error {
	if appErr, ok := As(err); ok {
		return appErr
	}
	return InternalServer(err.Error())
}

func (e *Error) HttpCode() int     { return e.httpCode }
func (e *Error) ErrorCode() int    { return e.errorCode }
func (e *Error) ErrorDesc() string { return e.errorDesc }
func (e *Error) Error() string     { return e.errorMsg }

// ---- 400 ----

func ValidateErr(errorDesc string) *Error {
	return New(http.StatusBadRequest, BAD_REQUEST_BODY, "bad-request/body", errorDesc)
}

func ValidatePathParamsErr(errorDesc string) *Error {
	return New(http.StatusBadRequest, BAD_REQUEST_PARAMS, "bad-request/params", errorDesc)
}

func BadRequestQuery(errorDesc string) *Error {
	return New(http.StatusBadRequest, BAD_REQUEST_QUERY, "bad-request/query", errorDesc)
}

// ---- 401 / 403 ----

func Unauthorized(errorDesc string) *Error {
	return New(http.StatusUnauthorized, UNAUTHORIZED, "unauthorized", errorDesc)
}

func Forbidden(errorDesc string) *Error {
	return New(http.StatusForbidden, FORBIDDEN, "forbidden", errorDesc)
}

// ---- 404 ----

func NotFound(errorDesc string) *Error {
	return New(http.StatusNotFound, NOT_FOUND, "not-found", errorDesc)
}

// ---- 409 ----

// NoSession 尚未登入追蹤 session（需先 POST /api/session）
func NoSession(errorDesc string) *Error {
	return New(http.StatusConflict, NO_SESSION, "no-session", errorDesc)
}

// NoOrganization session 目前沒有追蹤中的組織
func NoOrganization(errorDesc string) *Error {
	return New(http.StatusConflict, NO_ORGANIZATION, "no-organization", errorDesc)
}

// ---- 5xx ----

func InternalServer(errorDesc string) *Error {
	return New(http.StatusInternalServerError, INTERNAL_ERROR, "internal-server-error", errorDesc)
}

func DatabaseError(errorDesc string) *Error {
	return New(http.StatusInternalServerError, DATABASE_ERROR, "database-error", errorDesc)
}

func ServiceUnavailable(errorDesc string) *Error {
	return New(http.StatusServiceUnavailable, SERVICE_UNAVAILABLE, "service-unavailable", errorDesc)
}

func GatewayTimeout(errorDesc string) *Error {
	return New(http.StatusGatewayTimeout, GATEWAY_TIMEOUT, "gateway-timeout", errorDesc)
}

// MapHttpStatusToError handler 只設定了狀態碼（例如 gin 的 404/405）時轉成應用錯誤
func MapHttpStatusToError(status int, desc string) *Error {
	switch status {
	case http.StatusBadRequest:
		return New(http.StatusBadRequest, BAD_REQUEST_BODY, "bad-request", desc)
	case http.StatusUnauthorized:
		return Unauthorized(desc)
	case http.StatusForbidden:
		return Forbidden(desc)
	case http.StatusNotFound:
		return NotFound(desc)
	case http.StatusMethodNotAllowed:
		return New(http.StatusMethodNotAllowed, METHOD_NOT_ALLOWED, "method-not-allowed", desc)
	case http.StatusConflict:
		return New(http.StatusConflict, CONFLICT, "conflict", desc)
	case http.StatusServiceUnavailable:
		return ServiceUnavailable(desc)
	case http.StatusGatewayTimeout:
		return GatewayTimeout(desc)
	default:
		return InternalServer(desc)
	}
}
