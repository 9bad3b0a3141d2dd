package session

import (
	"context"
	"errors"
	"fiji/authority"
	"fiji/bizerror"
	"fiji/identity"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

const KeySecCtx = "SecCtx"

// LoadAuthorityFunc resolves the authorization view of uid, wired at bootstrap
// to the account package. Resolution happens on every authenticated request.
var LoadAuthorityFunc func(ctx context.Context, uid string) (*authority.Authority, Identity, error)

func FindSecurityContext(ctx *gin.Context) *Context {
	value, found := ctx.Get(KeySecCtx)
	if !found {
		return nil
	}
	secCtx, ok := value.(*Context)
	if !ok || secCtx.Token == "" {
		return nil
	}
	return secCtx
}

// MustFindSecurityContext is for handlers behind AuthFilter.
func MustFindSecurityContext(ctx *gin.Context) *Context {
	secCtx := FindSecurityContext(ctx)
	if secCtx == nil {
		panic(bizerror.ErrUnauthenticated)
	}
	return secCtx
}

func SaveSecurityContext(ctx *gin.Context, secCtx *Context) {
	if secCtx != nil && secCtx.Token != "" {
		ctx.Set(KeySecCtx, secCtx)
	}
}

// AuthFilter authenticates the bearer token (backend session token first,
// identity provider token as fallback) and injects the security context.
func AuthFilter() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		token := BearerToken(ctx)
		if token == "" {
			panic(bizerror.ErrUnauthenticated)
		}
		secCtx, err := BuildSecurityContext(ctx.Request.Context(), token)
		if err != nil {
			panic(err)
		}
		SaveSecurityContext(ctx, secCtx)
		ctx.Next()
	}
}

// RequirePermission declares the exact permission a route needs as a static
// (resource, action) pair resolved against the security context.
func RequirePermission(resource, action string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		secCtx := FindSecurityContext(ctx)
		if secCtx == nil {
			panic(bizerror.ErrUnauthenticated)
		}
		if !secCtx.HasPermission(resource, action) {
			panic(bizerror.ErrForbidden)
		}
		ctx.Next()
	}
}

func BearerToken(ctx *gin.Context) string {
	header := ctx.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(header[len("Bearer "):])
}

// BuildSecurityContext verifies the token and resolves the caller's authority.
func BuildSecurityContext(ctx context.Context, token string) (*Context, error) {
	var resolvedIdentity Identity
	if claims := VerifySessionToken(token); claims != nil {
		resolvedIdentity = Identity{UID: claims.UID}
	} else {
		claims, err := identity.VerifyIdentityFunc(ctx, token)
		if err != nil {
			return nil, TranslateIdentityError(err)
		}
		if claims.UID == "" {
			return nil, bizerror.ErrUnauthenticated
		}
		resolvedIdentity = Identity{UID: claims.UID, Email: claims.Email, DisplayName: claims.DisplayName}
	}

	auth, profileIdentity, err := LoadAuthorityFunc(ctx, resolvedIdentity.UID)
	if err != nil {
		return nil, err
	}
	if resolvedIdentity.Email == "" {
		resolvedIdentity.Email = profileIdentity.Email
	}
	if resolvedIdentity.DisplayName == "" {
		resolvedIdentity.DisplayName = profileIdentity.DisplayName
	}
	return &Context{Token: token, Identity: resolvedIdentity, Roles: auth.Roles,
		Privileges: auth.Privileges, Sysadmin: auth.Sysadmin, SigningTime: time.Now()}, nil
}

func TranslateIdentityError(err error) error {
	if errors.Is(err, identity.ErrTokenInvalid) || errors.Is(err, identity.ErrTokenRevoked) ||
		errors.Is(err, identity.ErrAccountDisabled) {
		return bizerror.ErrUnauthenticated
	}
	if errors.Is(err, identity.ErrServiceUnavailable) {
		return bizerror.ErrServiceUnavailable
	}
	return err
}
