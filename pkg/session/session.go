// Package session carries the caller's bearer credential and user details
// into the catalog and cart clients.
package session

import (
	"fmt"
	"net/http"

	"github.com/golang-jwt/jwt/v4"
	"github.com/rishia17/ecommerceweb/pkg/types"
	"golang.org/x/oauth2"
)

type Context struct {
	tokens oauth2.TokenSource
	user   types.UserContext
}

// New wraps an already validated credential source together with the user it belongs to.
func New(tokens oauth2.TokenSource, user types.UserContext) *Context {
	return &Context{tokens: tokens, user: user}
}

// Anonymous has no credential and no logged in user.
func Anonymous() *Context {
	return &Context{user: types.UserContext{}}
}

// FromToken reads the user from the token claims. The signature is not
// checked here, the token was issued and validated by the login flow.
func FromToken(token string) (*Context, error) {
	if token == "" {
		return Anonymous(), nil
	}
	user, err := userFromClaims(token)
	if err != nil {
		return nil, err
	}
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"})
	return New(src, user), nil
}

func userFromClaims(token string) (types.UserContext, error) {
	claims := jwt.MapClaims{}
	_, _, err := jwt.NewParser().ParseUnverified(token, claims)
	if err != nil {
		return types.UserContext{}, fmt.Errorf("unable to read token claims: %w", err)
	}
	name := claimString(claims, "userName", "username")
	role := types.Role(claimString(claims, "userType", "role"))
	if !role.Valid() {
		role = types.RoleUser
	}
	return types.UserContext{
		LoginStatus: name != "",
		CurrentUser: types.User{UserName: name, UserType: role},
	}, nil
}

func claimString(claims jwt.MapClaims, keys ...string) string {
	for _, key := range keys {
		if v, ok := claims[key].(string); ok && v != "" {
			return v
		}
	}
	return ""
}

func (c *Context) User() types.UserContext {
	return c.user
}

func (c *Context) Role() types.Role {
	return c.user.Role()
}

func (c *Context) Authenticated() bool {
	return c.tokens != nil
}

// Client returns a client that adds the bearer header to every request.
// Timeouts and the transport of base are kept.
func (c *Context) Client(base *http.Client) *http.Client {
	if base == nil {
		base = http.DefaultClient
	}
	if c.tokens == nil {
		return base
	}
	return &http.Client{
		Transport: &oauth2.Transport{
			Source: oauth2.ReuseTokenSource(nil, c.tokens),
			Base:   base.Transport,
		},
		CheckRedirect: base.CheckRedirect,
		Jar:           base.Jar,
		Timeout:       base.Timeout,
	}
}
