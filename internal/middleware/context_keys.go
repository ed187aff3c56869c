package middleware

import "github.com/gin-gonic/gin"

// accountIDKey is the key used to store the authenticated account's ID in the
// request context. roleKey carries the role claim from the access token.
const (
	accountIDKey = contextKey("accountID")
	roleKey      = contextKey("accountRole")
)

// GetAccountIDFromContext retrieves the authenticated account ID from the Gin
// context. It returns the account ID and a boolean indicating if it was found.
func GetAccountIDFromContext(c *gin.Context) (string, bool) {
	val := c.Request.Context().Value(accountIDKey)
	if val == nil {
		return "", false
	}
	accountID, ok := val.(string)
	if !ok || accountID == "" {
		return "", false
	}
	return accountID, true
}

// GetRoleFromContext retrieves the authenticated account's role claim from
// the Gin context.
func GetRoleFromContext(c *gin.Context) (string, bool) {
	val := c.Request.Context().Value(roleKey)
	if val == nil {
		return "", false
	}
	role, ok := val.(string)
	if !ok || role == "" {
		return "", false
	}
	return role, true
}
