package middleware

import (
	"net/http"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"

	"github.com/quotemill/quotemill/internal/adapters/http/dto"
	"github.com/quotemill/quotemill/internal/platform/config"
)

// ContextKeyClaims is the gin context key under which extracted claims live.
const ContextKeyClaims = "claims"

// Header names used when AuthConfig leaves them unset.
const (
	defaultSubjectHeader = "X-User-ID"
	defaultRolesHeader   = "X-User-Roles"
	defaultScopesHeader  = "X-User-Scopes"
)

// Claims is the identity the gateway forwards after validating the caller's
// token. The subject becomes the owner ID on every quotation the caller
// touches.
type Claims struct {
	Subject     string
	Roles       []string
	Scopes      []string
	Permissions []string
}

// HasRole reports whether the role is present.
func (c *Claims) HasRole(role string) bool {
	return slices.Contains(c.Roles, role)
}

// HasAnyRole reports whether at least one of the roles is present.
func (c *Claims) HasAnyRole(roles ...string) bool {
	return slices.ContainsFunc(roles, c.HasRole)
}

// HasScope reports whether the scope is present.
func (c *Claims) HasScope(scope string) bool {
	return slices.Contains(c.Scopes, scope)
}

// HasAllScopes reports whether every scope is present.
func (c *Claims) HasAllScopes(scopes ...string) bool {
	for _, scope := range scopes {
		if !c.HasScope(scope) {
			return false
		}
	}
	return true
}

// HasAnyScope reports whether at least one of the scopes is present.
func (c *Claims) HasAnyScope(scopes ...string) bool {
	return slices.ContainsFunc(scopes, c.HasScope)
}

// HasPermission reports whether the permission is present.
func (c *Claims) HasPermission(perm string) bool {
	return slices.Contains(c.Permissions, perm)
}

// ExtractClaims reads the identity headers. Roles arrive comma-separated,
// scopes space-separated per the OAuth2 convention.
func ExtractClaims(c *gin.Context, cfg *config.AuthConfig) *Claims {
	subjectHeader, rolesHeader, scopesHeader := headerNames(cfg)

	claims := &Claims{Subject: c.GetHeader(subjectHeader)}

	if roles := c.GetHeader(rolesHeader); roles != "" {
		claims.Roles = splitTrimmed(roles, ",")
	}
	if scopes := c.GetHeader(scopesHeader); scopes != "" {
		claims.Scopes = strings.Fields(scopes)
	}

	return claims
}

func headerNames(cfg *config.AuthConfig) (subject, roles, scopes string) {
	subject, roles, scopes = defaultSubjectHeader, defaultRolesHeader, defaultScopesHeader
	if cfg == nil {
		return
	}
	if cfg.SubjectHeader != "" {
		subject = cfg.SubjectHeader
	}
	if cfg.RolesHeader != "" {
		roles = cfg.RolesHeader
	}
	if cfg.ScopesHeader != "" {
		scopes = cfg.ScopesHeader
	}
	return
}

// GetClaims returns the claims stored by RequireAuth, or nil.
func GetClaims(c *gin.Context) *Claims {
	if v, exists := c.Get(ContextKeyClaims); exists {
		if claims, ok := v.(*Claims); ok {
			return claims
		}
	}
	return nil
}

// RequireAuth rejects requests without an authenticated subject and stores
// the claims for downstream handlers.
func RequireAuth(cfg *config.AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := ExtractClaims(c, cfg)
		if claims.Subject == "" {
			abortWithForbidden(c, "authentication required")
			return
		}

		c.Set(ContextKeyClaims, claims)
		c.Next()
	}
}

// RequireRole requires the given role.
func RequireRole(cfg *config.AuthConfig, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !getOrExtractClaims(c, cfg).HasRole(role) {
			abortWithForbidden(c, "insufficient permissions: role "+role+" required")
			return
		}
		c.Next()
	}
}

// RequireAnyRole requires at least one of the given roles.
func RequireAnyRole(cfg *config.AuthConfig, roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !getOrExtractClaims(c, cfg).HasAnyRole(roles...) {
			abortWithForbidden(c, "insufficient permissions: one of roles ["+strings.Join(roles, ", ")+"] required")
			return
		}
		c.Next()
	}
}

// RequireScopes requires every one of the given scopes.
func RequireScopes(cfg *config.AuthConfig, scopes ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !getOrExtractClaims(c, cfg).HasAllScopes(scopes...) {
			abortWithForbidden(c, "insufficient permissions: scopes ["+strings.Join(scopes, ", ")+"] required")
			return
		}
		c.Next()
	}
}

// RequireAnyScope requires at least one of the given scopes.
func RequireAnyScope(cfg *config.AuthConfig, scopes ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !getOrExtractClaims(c, cfg).HasAnyScope(scopes...) {
			abortWithForbidden(c, "insufficient permissions: one of scopes ["+strings.Join(scopes, ", ")+"] required")
			return
		}
		c.Next()
	}
}

// RequirePermission requires the given fine-grained permission.
func RequirePermission(cfg *config.AuthConfig, perm string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !getOrExtractClaims(c, cfg).HasPermission(perm) {
			abortWithForbidden(c, "insufficient permissions: permission "+perm+" required")
			return
		}
		c.Next()
	}
}

// RequireAny passes when any of the check functions accepts the claims,
// giving routes OR-style authorization rules.
func RequireAny(cfg *config.AuthConfig, checks ...func(*Claims) bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := getOrExtractClaims(c, cfg)

		for _, check := range checks {
			if check(claims) {
				c.Next()
				return
			}
		}

		abortWithForbidden(c, "insufficient permissions")
	}
}

func getOrExtractClaims(c *gin.Context, cfg *config.AuthConfig) *Claims {
	if claims := GetClaims(c); claims != nil {
		return claims
	}

	claims := ExtractClaims(c, cfg)
	c.Set(ContextKeyClaims, claims)
	return claims
}

func abortWithForbidden(c *gin.Context, message string) {
	errResp := dto.NewErrorResponse(dto.ErrorCodeForbidden, message)

	if span := trace.SpanFromContext(c.Request.Context()); span.SpanContext().HasTraceID() {
		errResp.TraceID = span.SpanContext().TraceID().String()
	}

	c.AbortWithStatusJSON(http.StatusForbidden, errResp)
}

func splitTrimmed(s, sep string) []string {
	parts := strings.Split(s, sep)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
