package handler

import "github.com/gin-gonic/gin"

// MustGetUserID reads the caller's user ID injected by the auth middleware.
// Routes behind JWTAuth always carry it.
func MustGetUserID(c *gin.Context) string {
	id, _ := c.Get("user_id")
	s, _ := id.(string)
	return s
}

// MustGetRole reads the caller's role injected by the auth middleware.
func MustGetRole(c *gin.Context) string {
	role, _ := c.Get("role")
	s, _ := role.(string)
	return s
}
