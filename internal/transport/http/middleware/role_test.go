package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	jwtinfra "github.com/go-badge-engine/internal/infrastructure/jwt"
	"github.com/stretchr/testify/assert"
)

func serveWithRole(role string, allowed ...string) int {
	req := httptest.NewRequest(http.MethodPost, "/v1/internal/dispatch", nil)
	if role != "" {
		req = req.WithContext(WithClaims(context.Background(), &jwtinfra.Claims{UserID: "caller", Role: role}))
	}
	rr := httptest.NewRecorder()
	RequireRole(allowed...)(http.HandlerFunc(okHandler)).ServeHTTP(rr, req)
	return rr.Code
}

func TestRequireRole_NoClaimsInContext(t *testing.T) {
	assert.Equal(t, http.StatusUnauthorized, serveWithRole("", jwtinfra.RoleService))
}

func TestRequireRole_WrongRole(t *testing.T) {
	assert.Equal(t, http.StatusForbidden, serveWithRole("user", jwtinfra.RoleService))
}

func TestRequireRole_CorrectRole(t *testing.T) {
	assert.Equal(t, http.StatusOK, serveWithRole(jwtinfra.RoleService, jwtinfra.RoleService))
}

func TestRequireRole_MultipleAllowedRoles(t *testing.T) {
	assert.Equal(t, http.StatusOK, serveWithRole("admin", jwtinfra.RoleService, "admin"))
}
