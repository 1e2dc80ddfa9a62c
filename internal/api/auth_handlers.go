package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/juniorxam/Gestaodevendas/internal/api/handlers"
	"github.com/juniorxam/Gestaodevendas/internal/auth"
	"github.com/juniorxam/Gestaodevendas/internal/logging"
)

// handleLogin authenticates and issues a session token. Failures always
// answer 401 without distinguishing unknown logins from bad passwords.
func (s *Server) handleLogin(c *gin.Context) {
	var in struct {
		Login    string `json:"login" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": err.Error()})
		return
	}

	user, err := s.config.Auth.Login(c.Request.Context(), in.Login, in.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			s.config.Audit.Record(c.Request.Context(), in.Login, "LOGIN",
				"Tentativa de login inválida", "", c.ClientIP())
			c.JSON(http.StatusUnauthorized, gin.H{"status": "error", "message": "invalid credentials"})
			return
		}
		logging.Error("Login failed for %s: %v", in.Login, err)
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "login failed"})
		return
	}

	session, err := s.sessions.Create(user)
	if err != nil {
		logging.Error("Session creation failed for %s: %v", user.Login, err)
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "login failed"})
		return
	}

	s.config.Audit.Record(c.Request.Context(), user.Login, "LOGIN", "Login realizado", "", c.ClientIP())
	c.JSON(http.StatusOK, session)
}

// handleLogout revokes the caller's session token.
func (s *Server) handleLogout(c *gin.Context) {
	token := bearerToken(c)
	if session := s.sessions.Lookup(token); session != nil {
		s.config.Audit.Record(c.Request.Context(), session.Login, "LOGIN", "Logout realizado", "", c.ClientIP())
	}
	s.sessions.Revoke(token)
	c.JSON(http.StatusOK, gin.H{"status": "logged out"})
}

// handleChangePassword lets the caller change their own password. All of
// the caller's sessions are revoked; the client must log in again.
func (s *Server) handleChangePassword(c *gin.Context) {
	var in struct {
		Current string `json:"current" binding:"required"`
		New     string `json:"new" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": err.Error()})
		return
	}

	caller := handlers.CurrentIdentity(c)
	if err := s.config.Auth.ChangePassword(c.Request.Context(), caller.Login, in.Current, in.New); err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"status": "error", "message": "current password is wrong"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": err.Error()})
		return
	}

	s.sessions.RevokeUser(caller.Login)
	s.config.Audit.Record(c.Request.Context(), caller.Login, "USUARIOS", "Alterou a própria senha", "", c.ClientIP())
	c.JSON(http.StatusOK, gin.H{"status": "password changed"})
}

// handleWhoami returns the caller's identity.
func (s *Server) handleWhoami(c *gin.Context) {
	caller := handlers.CurrentIdentity(c)
	c.JSON(http.StatusOK, gin.H{
		"login": caller.Login,
		"name":  caller.Name,
		"level": caller.Level,
	})
}
