package web

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
)

const _sessionKey = "session"

// The dashboard is gated by a single shared password; there are no user
// accounts to hash against, so the check is a constant-time comparison
// with the configured secret.
func (h *Handlers) passwordMatches(candidate string) bool {
	return subtle.ConstantTimeCompare([]byte(candidate), []byte(h.cfg.AdminPassword)) == 1
}

func (h *Handlers) requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		session, ok := h.sessions.FromRequest(c.Request)
		if !ok {
			c.Redirect(http.StatusSeeOther, "/login")
			c.Abort()
			return
		}
		c.Set(_sessionKey, session)
		c.Next()
	}
}

func (h *Handlers) loginPage(c *gin.Context) {
	if _, ok := h.sessions.FromRequest(c.Request); ok {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}
	c.HTML(http.StatusOK, "login.html", gin.H{})
}

func (h *Handlers) login(c *gin.Context) {
	if !h.passwordMatches(c.PostForm("password")) {
		h.logger.Warnf("failed admin login from %s", c.ClientIP())
		c.HTML(http.StatusUnauthorized, "login.html", gin.H{"Error": "Wrong password."})
		return
	}

	session, err := h.sessions.Create()
	if err != nil {
		h.logger.Errorf("%s: can't create session", err)
		c.HTML(http.StatusInternalServerError, "login.html", gin.H{"Error": "Something went wrong, try again."})
		return
	}

	h.sessions.SetCookie(c.Writer, session.ID)
	c.Redirect(http.StatusSeeOther, "/")
}

func (h *Handlers) logout(c *gin.Context) {
	if session, ok := h.sessions.FromRequest(c.Request); ok {
		h.sessions.Delete(session.ID)
	}
	h.sessions.ClearCookie(c.Writer)
	c.Redirect(http.StatusSeeOther, "/login")
}

func sessionFrom(c *gin.Context) *Session {
	if v, ok := c.Get(_sessionKey); ok {
		if s, ok := v.(*Session); ok {
			return s
		}
	}
	return nil
}
