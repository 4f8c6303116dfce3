package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/sitegrid-app/sitegrid-backend/pkg/auth/jwt"
	"github.com/sitegrid-app/sitegrid-backend/pkg/communication"
)

// AuthenticationMiddleware checks if the user login token is valid and responds with an error if it's not the case
type AuthenticationMiddleware struct {
	ResponseManager *communication.ResponseManager
	Secret          string
}

type key string

const (
	// KeyUserID the key for the request variable for getting the user id
	KeyUserID key = "userID"

	// KeyUserRole the key for the request variable for getting the user role
	KeyUserRole key = "userRole"
)

// Middleware gets called when a request needs to be authenticated
func (m *AuthenticationMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, r *http.Request) {
		extractedToken, err := extractTokenStringFromHeader(r)
		if err != nil {
			m.ResponseManager.RespondWithError(writer, http.StatusUnauthorized, "No authorization", err)
			return
		}
		claims := jwt.Claims{}
		token, err := jwt.Verify(extractedToken, jwt.TokenTypeAccess, m.Secret, jwt.AlgHS256, claims)
		if err != nil {
			m.ResponseManager.RespondWithError(writer, http.StatusUnauthorized, "Token invalid", err)
			return
		}

		newContext := context.WithValue(r.Context(), KeyUserID, token.Payload.Subject)
		newContext = context.WithValue(newContext, KeyUserRole, token.Payload.Role)
		next.ServeHTTP(writer, r.WithContext(newContext))
	})
}

// RequireRoles wraps a handler and only lets requests through whose authenticated role is one of the given roles
func (m *AuthenticationMiddleware) RequireRoles(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, r *http.Request) {
			role, _ := r.Context().Value(KeyUserRole).(string)

			for _, allowed := range roles {
				if role == allowed {
					next.ServeHTTP(writer, r)
					return
				}
			}

			m.ResponseManager.RespondWithError(writer, http.StatusForbidden,
				fmt.Sprintf("Role %s may not access this resource", role), nil)
		})
	}
}

func extractTokenStringFromHeader(r *http.Request) (string, error) {
	nonformatted := r.Header.Get("Authorization")
	if strings.TrimSpace(nonformatted) == "" {
		return "", errors.New("no authorization token specified")
	}

	tokenParts := strings.Fields(nonformatted)
	if tokenParts[0] != "Bearer" {
		return "", errors.New("token must be a bearer token")
	}

	if len(tokenParts) < 2 || strings.TrimSpace(tokenParts[1]) == "" {
		return "", errors.New("no authorization token specified")
	}

	return tokenParts[1], nil
}
