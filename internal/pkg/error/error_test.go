package error

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAs_UnwrapsChain(t *testing.T) {
	wrapped := fmt.Errorf("load stats: %w", GatewayTimeout("first snapshot timed out"))

	appErr, ok := As(wrapped)
	require.True(t, ok)
	assert.Equal(t, http.StatusGatewayTimeout, appErr.HttpCode())
	assert.Equal(t, GATEWAY_TIMEOUT, appErr.ErrorCode())
	assert.Equal(t, "first snapshot timed out", appErr.ErrorDesc())

	_, ok = As(errors.New("plain"))
	assert.False(t, ok)
}

func TestFrom_PlainErrorIsInternal(t *testing.T) {
	appErr := From(errors.New("boom"))
	assert.Equal(t, http.StatusInternalServerError, appErr.HttpCode())
	assert.Equal(t, INTERNAL_ERROR, appErr.ErrorCode())
	assert.Equal(t, "boom", appErr.ErrorDesc())

	session := NoSession("sign in first")
	assert.Same(t, session, From(session))
}

func TestSessionErrorsAreConflicts(t *testing.T) {
	assert.Equal(t, http.StatusConflict, NoSession("").HttpCode())
	assert.Equal(t, NO_SESSION, NoSession("").ErrorCode())
	assert.Equal(t, http.StatusConflict, NoOrganization("").HttpCode())
	assert.Equal(t, NO_ORGANIZATION, NoOrganization("").ErrorCode())
}

func TestMapHttpStatusToError(t *testing.T) {
	cases := []struct {
		status int
		code   int
	}{
		{http.StatusBadRequest, BAD_REQUEST_BODY},
		{http.StatusUnauthorized, UNAUTHORIZED},
		{http.StatusForbidden, FORBIDDEN},
		{http.StatusNotFound, NOT_FOUND},
		{http.StatusMethodNotAllowed, METHOD_NOT_ALLOWED},
		{http.StatusConflict, CONFLICT},
		{http.StatusServiceUnavailable, SERVICE_UNAVAILABLE},
		{http.StatusGatewayTimeout, GATEWAY_TIMEOUT},
		{http.StatusTeapot, INTERNAL_ERROR},
	}
	for _, tc := range cases {
		t.Run(http.StatusText(tc.status), func(t *testing.T) {
			appErr := MapHttpStatusToError(tc.status, "desc")
			assert.Equal(t, tc.code, appErr.ErrorCode())
			assert.Equal(t, "desc", appErr.ErrorDesc())
		})
	}
	assert.Equal(t, http.StatusInternalServerError, MapHttpStatusToError(http.StatusTeapot, "").HttpCode())
}
