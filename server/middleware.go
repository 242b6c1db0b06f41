package server

import (
	"net/http"
	"strings"

	ratelimit "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"

	errs "github.com/eparana/eparana/errors"
	"github.com/eparana/eparana/server/response"
)

// Authorize gates the admin surface. With a JWT secret configured it expects
// a bearer token carrying role=ADMIN; without one the deployment is treated
// as single-operator and every caller is the local admin.
func (s *Server) Authorize() gin.HandlerFunc {
	return func(c *gin.Context) {
		secret := s.Config.JWTSecret
		if secret == "" {
			c.Set("role", "ADMIN")
			c.Set("userID", "local-admin")
			c.Next()
			return
		}

		accessToken := getTokenFromHeader(c)
		if accessToken == "" {
			respondAndAbort(c, "", http.StatusUnauthorized, nil, errs.New("Unauthorized", http.StatusUnauthorized))
			return
		}

		claims := jwt.MapClaims{}
		token, err := jwt.ParseWithClaims(accessToken, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errs.New("unexpected signing method", http.StatusUnauthorized)
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			respondAndAbort(c, "", http.StatusUnauthorized, nil, errs.New("Unauthorized", http.StatusUnauthorized))
			return
		}

		role, _ := claims["role"].(string)
		if role != "ADMIN" {
			respondAndAbort(c, "FORBIDDEN", http.StatusForbidden, nil, errs.New("FORBIDDEN", http.StatusForbidden))
			return
		}

		if id, ok := claims["id"].(string); ok {
			c.Set("userID", id)
		}
		c.Set("role", role)
		c.Next()
	}
}

func getTokenFromHeader(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "bearer ") {
		return authHeader[7:]
	}
	return ""
}

func respondAndAbort(c *gin.Context, message string, status int, data interface{}, e *errs.Error) {
	response.JSON(c, message, status, data, e)
	c.Abort()
}

func limitRateForSync(store ratelimit.Store) gin.HandlerFunc {
	return ratelimit.RateLimiter(store, &ratelimit.Options{
		ErrorHandler:   errs.ErrorHandler,
		KeyFunc:        keyFunc,
		BeforeResponse: nil,
	})
}

func keyFunc(c *gin.Context) string {
	if id, ok := c.Get("userID"); ok {
		if s, ok := id.(string); ok && s != "" {
			return "sync:" + s
		}
	}
	return "sync:" + c.ClientIP()
}
