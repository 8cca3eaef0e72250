package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/ch10874/tasteforge-scraper/utils"
)

type contextKey string

const subjectCtxKey contextKey = "subject"

// RequireToken rejects requests without a valid bearer token signed with
// secret. An empty secret disables the check.
func RequireToken(secret string, next http.HandlerFunc) http.HandlerFunc {
	if secret == "" {
		return next
	}
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			utils.RespondError(w, nil, "Missing bearer token", http.StatusUnauthorized)
			return
		}

		subject, err := utils.ValidateToken(secret, strings.TrimSpace(token))
		if err != nil {
			utils.RespondError(w, nil, "Invalid token: "+err.Error(), http.StatusUnauthorized)
			return
		}

		next(w, r.WithContext(context.WithValue(r.Context(), subjectCtxKey, subject)))
	}
}

// SubjectFromContext returns the token subject stored by RequireToken.
func SubjectFromContext(ctx context.Context) (string, bool) {
	subject, ok := ctx.Value(subjectCtxKey).(string)
	return subject, ok
}

func logSubject(logger *strings.Builder, r *http.Request) {
	if subject, ok := SubjectFromContext(r.Context()); ok {
		utils.AddToLogMessagef(logger, "Client: %s", subject)
	}
}
