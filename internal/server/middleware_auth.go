package server

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/samogera/BrightEco-Pay-sub000/internal/accountcontext"
	authdomain "github.com/samogera/BrightEco-Pay-sub000/internal/auth/domain"
	obscontext "github.com/samogera/BrightEco-Pay-sub000/internal/observability/context"
)

const accountContextKey = "account"

func bearerToken(c *gin.Context) string {
	header := strings.TrimSpace(c.GetHeader("Authorization"))
	if header == "" {
		return ""
	}
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return ""
	}
	return strings.TrimSpace(token)
}

// Authenticate resolves the bearer token if one is present. Routes that
// tolerate anonymous callers (support tickets) run with it alone; protected
// routes stack RequireAccount on top.
func (s *Server) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.Next()
			return
		}

		account, err := s.auth.ResolveSession(c.Request.Context(), token)
		if err != nil {
			AbortWithError(c, err)
			return
		}

		ctx := accountcontext.WithAccountID(c.Request.Context(), account.ID)
		ctx = obscontext.WithAccountID(ctx, account.ID.String())
		actor := "customer"
		if account.IsAdmin {
			actor = "admin"
		}
		ctx = obscontext.WithActor(ctx, actor, account.ID.String())
		c.Request = c.Request.WithContext(ctx)
		c.Set(accountContextKey, account)
		c.Set("account_id", account.ID.String())
		c.Next()
	}
}

// RequireAccount rejects unauthenticated callers.
func (s *Server) RequireAccount() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := currentAccount(c); !ok {
			AbortWithError(c, ErrUnauthorized)
			return
		}
		c.Next()
	}
}

// RequireAdmin rejects callers without the admin flag.
func (s *Server) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		account, ok := currentAccount(c)
		if !ok {
			AbortWithError(c, ErrUnauthorized)
			return
		}
		if !account.IsAdmin {
			AbortWithError(c, ErrForbidden)
			return
		}
		c.Next()
	}
}

func currentAccount(c *gin.Context) (*authdomain.Account, bool) {
	raw, ok := c.Get(accountContextKey)
	if !ok {
		return nil, false
	}
	account, ok := raw.(*authdomain.Account)
	if !ok || account == nil {
		return nil, false
	}
	return account, true
}
