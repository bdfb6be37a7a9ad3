package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	corsAllowOrigin  = "*"
	corsAllowHeaders = "authorization, x-client-info, apikey, content-type"
	corsAllowMethods = "POST, OPTIONS"
)

// CORSMiddleware sets the permissive CORS headers browsers and the SMS gateway
// expect on every response, errors included.
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", corsAllowOrigin)
		c.Header("Access-Control-Allow-Headers", corsAllowHeaders)
		c.Next()
	}
}

// AllowMethodsHeader adds Access-Control-Allow-Methods for routes that advertise it.
func AllowMethodsHeader() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Methods", corsAllowMethods)
		c.Next()
	}
}

// PreflightEmpty answers OPTIONS with 200 and no body.
func PreflightEmpty(c *gin.Context) {
	c.Status(http.StatusOK)
}

// PreflightOK answers OPTIONS with 200 and the body "ok".
func PreflightOK(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}
