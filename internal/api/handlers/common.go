// Package handlers provides HTTP request handlers for the ElectroGest API.
//
// Handlers are factory functions: they take the services they depend on and
// return a gin.HandlerFunc. Authentication middleware resolves the session
// before a handler runs and stores the caller's identity in the request
// context under IdentityKey.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/juniorxam/Gestaodevendas/internal/auth"
)

// IdentityKey is the gin context key the auth middleware stores the caller
// identity under.
const IdentityKey = "authIdentity"

// Identity is the authenticated caller as seen by handlers.
type Identity struct {
	Login string
	Name  string
	Level auth.AccessLevel
}

// CurrentIdentity returns the caller set by the auth middleware. Handlers
// behind the middleware can assume it is present; the zero Identity is
// returned otherwise.
func CurrentIdentity(c *gin.Context) Identity {
	if v, ok := c.Get(IdentityKey); ok {
		if id, ok := v.(Identity); ok {
			return id
		}
	}
	return Identity{}
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{
		"status":  "error",
		"message": message,
	})
}

func respondBadRequest(c *gin.Context, err error) {
	respondError(c, http.StatusBadRequest, err.Error())
}

func respondInternal(c *gin.Context, err error) {
	respondError(c, http.StatusInternalServerError, err.Error())
}
