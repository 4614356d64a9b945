package session

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v4"
	"github.com/rishia17/ecommerceweb/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

func TestFromTokenReadsUser(t *testing.T) {
	token := signedToken(t, jwt.MapClaims{"username": "rishi", "role": "admin"})
	s, err := FromToken(token)
	require.NoError(t, err)
	assert.True(t, s.Authenticated())
	assert.Equal(t, types.UserContext{
		LoginStatus: true,
		CurrentUser: types.User{UserName: "rishi", UserType: types.RoleAdmin},
	}, s.User())
}

func TestFromTokenUnknownRoleIsShopper(t *testing.T) {
	token := signedToken(t, jwt.MapClaims{"userName": "anna", "userType": "gmail"})
	s, err := FromToken(token)
	require.NoError(t, err)
	assert.Equal(t, types.RoleUser, s.Role())
}

func TestFromTokenGarbage(t *testing.T) {
	_, err := FromToken("not-a-jwt")
	assert.Error(t, err)
}

func TestEmptyTokenIsAnonymous(t *testing.T) {
	s, err := FromToken("")
	require.NoError(t, err)
	assert.False(t, s.Authenticated())
	assert.False(t, s.User().LoginStatus)
}

func TestClientSetsBearer(t *testing.T) {
	token := signedToken(t, jwt.MapClaims{"username": "rishi", "role": "user"})
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
	}))
	defer srv.Close()

	s, err := FromToken(token)
	require.NoError(t, err)
	res, err := s.Client(srv.Client()).Get(srv.URL)
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, "Bearer "+token, got)
}
