package tenant

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fieldservice/internal/apperr"
)

func TestResolveFailsWithoutTenant(t *testing.T) {
	_, err := Anonymous().Resolve()
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrMissingTenant))
}

func TestResolveReturnsBoundTenant(t *testing.T) {
	id, err := New(42, 7).Resolve()
	require.NoError(t, err)
	assert.Equal(t, uint(42), id)
}

func TestPeekDoesNotFail(t *testing.T) {
	_, ok := Anonymous().Peek()
	assert.False(t, ok)

	id, ok := New(42, 0).Peek()
	assert.True(t, ok)
	assert.Equal(t, uint(42), id)
}

func TestFromEcho(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	c := e.NewContext(req, httptest.NewRecorder())

	ctx := FromEcho(c)
	_, ok := ctx.Peek()
	assert.False(t, ok)

	c.Set("tenant_id", uint(5))
	c.Set("user_id", uint(9))
	ctx = FromEcho(c)

	id, err := ctx.Resolve()
	require.NoError(t, err)
	assert.Equal(t, uint(5), id)
	assert.Equal(t, uint(9), ctx.ActorID())
}
