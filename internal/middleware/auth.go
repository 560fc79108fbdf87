package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

var errMissingSubject = errors.New("token has no subject")

// AuthMiddleware admits requests carrying an HS256-family bearer token signed with
// jwtSecret. The token subject becomes the acting user for every voucher write and
// is attached to the request logger.
func AuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := GetLoggerFromCtx(c.Request.Context())

		raw, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			logger.Warn("Rejected request without bearer token", slog.String("path", c.Request.URL.Path))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header must be Bearer {token}"})
			return
		}

		userID, err := tokenSubject(raw, jwtSecret)
		if err != nil {
			logger.Warn("Rejected bearer token", slog.String("path", c.Request.URL.Path), slog.String("error", err.Error()))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": tokenErrorMessage(err)})
			return
		}

		withIdentity(c, userID, logger.With(slog.String("user_id", userID)))
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "bearer") || token == "" || strings.Contains(token, " ") {
		return "", false
	}
	return token, true
}

func tokenSubject(raw, secret string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil {
		return "", err
	}
	if claims.Subject == "" {
		return "", errMissingSubject
	}
	return claims.Subject, nil
}

func tokenErrorMessage(err error) string {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return "Token has expired"
	case errors.Is(err, jwt.ErrTokenNotValidYet):
		return "Token not valid yet"
	case errors.Is(err, errMissingSubject):
		return "Token does not identify a user"
	}
	return "Invalid token"
}

// withIdentity stores the user and the enriched logger on both the gin context and the
// request context, so handlers and services see the same values.
func withIdentity(c *gin.Context, userID string, logger *slog.Logger) {
	ctx := context.WithValue(c.Request.Context(), userIDKey, userID)
	ctx = context.WithValue(ctx, loggerCtxKey, logger)
	c.Request = c.Request.WithContext(ctx)

	c.Set(string(userIDKey), userID)
	c.Set(string(loggerKey), logger)
}
