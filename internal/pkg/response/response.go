package response

import (
	"net/http"

	cErr "trac/internal/pkg/error"

	"github.com/gin-gonic/gin"
)

// handler 與 Response middleware 之間交換結果用的 gin.Context key
const (
	DataKey    = "data"
	MessageKey = "message"
)

const defaultMessage = "Request Success"

// Response 所有 API 的統一外層格式
type Response struct {
	RequestID   string `json:"requestID"`
	Code        int    `json:"code"`
	Data        any    `json:"data"`
	Message     string `json:"message"`
	Description string `json:"description"`
}

// Success 暫存結果，由 Response middleware 包裝輸出。
// data 為 gin.H 且帶 "message" 時，該字串取代預設訊息
func Success(c *gin.Context, data any) {
	message := defaultMessage
	if h, ok := data.(gin.H); ok {
		if s, ok := h[MessageKey].(string); ok && s != "" {
			message = s
			delete(h, MessageKey)
		}
	}
	c.Set(DataKey, data)
	c.Set(MessageKey, message)
	c.Abort()
}

// AbortWithError 交給 Recovery middleware 輸出錯誤
func AbortWithError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

func Fail(c *gin.Context, requestID string, httpCode, errorCode int, msg, desc string) {
	c.AbortWithStatusJSON(httpCode, Response{
		RequestID:   requestID,
		Code:        errorCode,
		Message:     msg,
		Description: desc,
	})
}

func FailByErr(c *gin.Context, requestID string, err error) {
	appErr, ok := cErr.As(err)
	if !ok {
		Fail(c, requestID, http.StatusInternalServerError, cErr.INTERNAL_ERROR, "internal-server-error", err.Error())
		return
	}
	Fail(c, requestID, appErr.HttpCode(), appErr.ErrorCode(), appErr.Error(), appErr.ErrorDesc())
}
