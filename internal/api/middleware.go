package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"fitpoint/gym-app/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
)

// Context keys set by AuthMiddleware.
const (
	ContextUserUIDKey  = "userUid"
	ContextUserRoleKey = "userRole"
)

// jwtClaims mirrors the payload produced by authService.
type jwtClaims struct {
	UID  string      `json:"uid"`
	Role domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// AuthMiddleware creates a Gin middleware for JWT bearer authentication.
func AuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortWithError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authorization header is missing")
			return
		}

		// Expecting "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			abortWithError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authorization header format must be Bearer {token}")
			return
		}

		claims := &jwtClaims{}
		token, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(jwtSecret), nil
		})
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				abortWithError(c, http.StatusUnauthorized, "TOKEN_EXPIRED", "Token has expired")
			} else {
				abortWithError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid token")
			}
			return
		}

		if !token.Valid || claims.UID == "" || claims.Role == "" {
			abortWithError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid token or missing claims")
			return
		}

		c.Set(ContextUserUIDKey, claims.UID)
		c.Set(ContextUserRoleKey, claims.Role)
		c.Next()
	}
}

// RoleMiddleware restricts a route to the given roles. Must run AFTER
// AuthMiddleware.
func RoleMiddleware(allowedRoles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		roleRaw, exists := c.Get(ContextUserRoleKey)
		if !exists {
			abortWithError(c, http.StatusInternalServerError, "INTERNAL", "User role not found in context")
			return
		}
		userRole, ok := roleRaw.(domain.Role)
		if !ok {
			abortWithError(c, http.StatusInternalServerError, "INTERNAL", "Invalid user role type in context")
			return
		}

		for _, allowed := range allowedRoles {
			if userRole == allowed {
				c.Next()
				return
			}
		}
		abortWithError(c, http.StatusForbidden, "FORBIDDEN", "Insufficient permissions for this resource")
	}
}

// abortWithError returns a JSON error envelope and aborts the request.
// code is the machine-readable error kind; message is human-readable.
func abortWithError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, gin.H{"code": code, "error": message})
}

func getUserUIDFromContext(c *gin.Context) (string, error) {
	raw, exists := c.Get(ContextUserUIDKey)
	if !exists {
		return "", errors.New("user uid not found in context")
	}
	uid, ok := raw.(string)
	if !ok || uid == "" {
		return "", errors.New("invalid user uid in context")
	}
	return uid, nil
}

func getUserRoleFromContext(c *gin.Context) (domain.Role, error) {
	raw, exists := c.Get(ContextUserRoleKey)
	if !exists {
		return "", errors.New("user role not found in context")
	}
	role, ok := raw.(domain.Role)
	if !ok {
		return "", errors.New("invalid user role in context")
	}
	return role, nil
}
