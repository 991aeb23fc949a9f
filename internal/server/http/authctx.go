package httpserver

import (
	"context"
	"net/http"
	"slices"
	"strings"

	"github.com/and161185/evote/internal/errs"
	"github.com/and161185/evote/internal/model"
)

type ctxKey string

const principalKey ctxKey = "evote.principal"

// WithPrincipal stores the authenticated principal in context.
func WithPrincipal(ctx context.Context, p model.Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// PrincipalFromCtx fetches the principal from context.
func PrincipalFromCtx(ctx context.Context) (model.Principal, bool) {
	p, ok := ctx.Value(principalKey).(model.Principal)
	return p, ok
}

// bearer extracts the access token from Authorization or the legacy x-auth-token header.
func bearer(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		scheme, tok, ok := strings.Cut(h, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(tok)
		}
		return ""
	}
	return strings.TrimSpace(r.Header.Get("x-auth-token"))
}

// authed requires a valid token and, when roles are given, one of those roles.
func (s *Server) authed(next http.HandlerFunc, roles ...string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tok := bearer(r)
		if tok == "" {
			s.fail(w, r, errs.ErrUnauthorized)
			return
		}
		p, err := s.tokens.Parse(tok)
		if err != nil {
			s.fail(w, r, errs.ErrUnauthorized)
			return
		}
		if len(roles) > 0 && !slices.Contains(roles, p.Role()) {
			s.fail(w, r, errs.ErrForbidden)
			return
		}
		next(w, r.WithContext(WithPrincipal(r.Context(), p)))
	}
}
