package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"backend/internal/model"
)

func signTestToken(t *testing.T, role string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  "user-1",
		"role": role,
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString(GetJWTSecret())
	require.NoError(t, err)
	return signed
}

func permissionRouter(perms ...string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/guarded", RequirePermission(perms...), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func doRequest(r *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequirePermissionMissingToken(t *testing.T) {
	w := doRequest(permissionRouter("work_orders.read"), "")
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequirePermissionGrantsMatchingRole(t *testing.T) {
	w := doRequest(permissionRouter("requisitions.approve"), signTestToken(t, model.RoleCoordinator))
	require.Equal(t, http.StatusOK, w.Code)
}

func TestRequirePermissionDeniesMissingGrant(t *testing.T) {
	w := doRequest(permissionRouter("requisitions.approve"), signTestToken(t, model.RoleWorker))
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequirePermissionAdminBypass(t *testing.T) {
	w := doRequest(permissionRouter("requisitions.approve", "stock.adjust"), signTestToken(t, model.RoleAdministrator))
	require.Equal(t, http.StatusOK, w.Code)
}

func TestRequireRole(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/guarded", RequireRole(model.RoleAdministrator, model.RoleCoordinator), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	req.Header.Set("Authorization", "Bearer "+signTestToken(t, model.RoleWorker))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusForbidden, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/guarded", nil)
	req.Header.Set("Authorization", "Bearer "+signTestToken(t, model.RoleCoordinator))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestPermissionsForRoleAdminIsUnionOfAllGrants(t *testing.T) {
	admin := PermissionsForRole(model.RoleAdministrator)
	adminSet := make(map[string]bool, len(admin))
	for _, p := range admin {
		adminSet[p] = true
	}
	for role, perms := range rolePermissions {
		for _, p := range perms {
			require.Truef(t, adminSet[p], "admin missing %s granted to %s", p, role)
		}
	}
}
