package types

type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// ApiPrefix is the path segment selecting the endpoint variant, e.g. "user-api".
func (r Role) ApiPrefix() string {
	return string(r) + "-api"
}

type User struct {
	UserName string `json:"userName"`
	UserType Role   `json:"userType"`
}

type UserContext struct {
	LoginStatus bool `json:"loginStatus"`
	CurrentUser User `json:"currentUser"`
}

// Role falls back to the shopper variant when no user is logged in.
func (u UserContext) Role() Role {
	if u.LoginStatus && u.CurrentUser.UserType.Valid() {
		return u.CurrentUser.UserType
	}
	return RoleUser
}

func (u UserContext) CanAddToCart() bool {
	return u.LoginStatus && u.CurrentUser.UserType == RoleUser
}

type CartEntry struct {
	UserName  string `json:"userName"`
	ProductId string `json:"productId"`
}
