package validate

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"trac/internal/dto"
	cErr "trac/internal/pkg/error"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestContext(method, target, body string) *gin.Context {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, target, strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	return c
}

func TestIsValidDocumentID(t *testing.T) {
	assert.True(t, IsValidDocumentID("alice"))
	assert.True(t, IsValidDocumentID("2024-05-01_0900"))
	assert.False(t, IsValidDocumentID(""))
	assert.False(t, IsValidDocumentID("alice/2024-05-01"))
}

func TestIsValidRole(t *testing.T) {
	assert.True(t, IsValidRole("Owner"))
	assert.True(t, IsValidRole("Employee"))
	assert.False(t, IsValidRole("owner"))
	assert.False(t, IsValidRole("Admin"))
}

func TestParseDocumentID(t *testing.T) {
	c := newTestContext(http.MethodGet, "/employees/alice/detail", "")
	c.Params = gin.Params{{Key: "id", Value: " alice "}}

	id, cause, respErr := ParseDocumentID(c, "id")
	require.NoError(t, cause)
	require.NoError(t, respErr)
	assert.Equal(t, "alice", id)

	c.Params = gin.Params{{Key: "id", Value: "a/b"}}
	id, cause, respErr = ParseDocumentID(c, "id")
	assert.Empty(t, id)
	assert.Error(t, cause)
	var appErr *cErr.Error
	require.ErrorAs(t, respErr, &appErr)
	assert.Equal(t, http.StatusBadRequest, appErr.HttpCode())
	assert.Equal(t, cErr.BAD_REQUEST_PARAMS, appErr.ErrorCode())
}

func TestBindQuery_CustomMessage(t *testing.T) {
	c := newTestContext(http.MethodGet, "/detail?month=2024-13", "")

	var q dto.EmployeeDetailQueryDto
	cause, respErr := BindQuery(c, &q)
	assert.Error(t, cause)
	var appErr *cErr.Error
	require.ErrorAs(t, respErr, &appErr)
	assert.Equal(t, cErr.BAD_REQUEST_QUERY, appErr.ErrorCode())
	assert.Equal(t, "month must be formatted as yyyy-MM", appErr.ErrorDesc())

	c = newTestContext(http.MethodGet, "/detail?month=2024-05&joined=2024-04-01", "")
	q = dto.EmployeeDetailQueryDto{}
	cause, respErr = BindQuery(c, &q)
	require.NoError(t, cause)
	require.NoError(t, respErr)
	assert.Equal(t, "2024-05", q.Month)
	assert.Equal(t, "2024-04-01", q.Joined)
}

type signInBody struct {
	Name string `json:"displayName" binding:"required"`
}

func TestBindAndValidate(t *testing.T) {
	c := newTestContext(http.MethodPost, "/session", `{}`)
	var body signInBody
	cause, respErr := BindAndValidate(c, &body)
	assert.Error(t, cause)
	var appErr *cErr.Error
	require.ErrorAs(t, respErr, &appErr)
	assert.Contains(t, appErr.ErrorDesc(), `Field "displayName"`)
	assert.Contains(t, appErr.ErrorDesc(), "'required'")

	c = newTestContext(http.MethodPost, "/session", `{"displayName":"Olivia"}`)
	body = signInBody{}
	cause, respErr = BindAndValidate(c, &body)
	require.NoError(t, cause)
	require.NoError(t, respErr)
	assert.Equal(t, "Olivia", body.Name)
}
