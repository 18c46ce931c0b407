package middleware

import (
	"errors"
	"strings"

	"github.com/EstebanRsh/UP/internal/apierror"
	"github.com/EstebanRsh/UP/internal/model"
	"github.com/EstebanRsh/UP/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	ClaimsKey  = "claims"
	OwnerIDKey = "owner_customer_id"
)

// JWTClaims are the custom claims embedded in every access token. The role is
// validated here, once, so downstream handlers always see a member of the
// closed role set and never a raw claim map.
type JWTClaims struct {
	AccountID string `json:"account_id"`
	Subject   string `json:"subject"` // email or document used to log in
	Role      string `json:"role"`
	jwt.RegisteredClaims
}

// JWTAuth validates the Bearer token on every protected route. It rejects
// with a distinct sub-reason per failure mode so clients can tell an expired
// session from a malformed or forged token.
func JWTAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			abortAuth(c, apierror.Unauthenticated(apierror.AuthMissing, "authentication required"))
			return
		}

		tokenStr := strings.TrimPrefix(header, "Bearer ")
		claims := &JWTClaims{}
		token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		})

		if err != nil || !token.Valid {
			abortAuth(c, classifyTokenError(err))
			return
		}
		if !model.ValidRole(claims.Role) {
			abortAuth(c, apierror.Unauthenticated(apierror.AuthMalformed, "token carries an unknown role"))
			return
		}

		c.Set(ClaimsKey, claims)
		c.Next()
	}
}

func classifyTokenError(err error) *apierror.Error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return apierror.Unauthenticated(apierror.AuthExpired, "token has expired")
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrSignatureInvalid):
		return apierror.Unauthenticated(apierror.AuthBadSignature, "token signature is invalid")
	default:
		return apierror.Unauthenticated(apierror.AuthMalformed, "token is malformed")
	}
}

// RequireRole rejects requests whose role is not in the allowed list.
func RequireRole(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(c *gin.Context) {
		claims, ok := c.MustGet(ClaimsKey).(*JWTClaims)
		if !ok || !allowed[claims.Role] {
			abortAuth(c, apierror.Forbidden("insufficient role"))
			return
		}
		c.Next()
	}
}

// OwnerOrRoles admits privileged staff with full visibility, and customers
// restricted to their own records. A customer caller is resolved to their
// linked Customer id, stored in the context under OwnerIDKey; every query the
// handler runs afterwards must be scoped to that id. Cross-owner access and
// any non-listed role are reported as NotFound so the response never confirms
// that the resource exists.
func OwnerOrRoles(customers repository.CustomerRepository, privileged ...string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(privileged))
	for _, r := range privileged {
		allowed[r] = true
	}
	return func(c *gin.Context) {
		claims, ok := c.MustGet(ClaimsKey).(*JWTClaims)
		if !ok {
			abortAuth(c, apierror.Unauthenticated(apierror.AuthMissing, "authentication required"))
			return
		}

		if allowed[claims.Role] {
			c.Next() // full visibility, no ownership filter
			return
		}

		if claims.Role == model.RoleCustomer {
			accountID, err := uuid.Parse(claims.AccountID)
			if err != nil {
				abortAuth(c, apierror.Unauthenticated(apierror.AuthMalformed, "token carries no account id"))
				return
			}
			cust, err := customers.FindByAccountID(c.Request.Context(), accountID)
			if err != nil {
				// Account not linked to a customer record: rejected as an
				// authentication problem, matching how operators triage it.
				abortAuth(c, apierror.Unauthenticated(apierror.AuthMalformed, "account is not linked to a customer"))
				return
			}
			c.Set(OwnerIDKey, cust.ID)
			c.Next()
			return
		}

		abortAuth(c, apierror.NotFound("resource not found"))
	}
}

// GetClaims retrieves the typed claims from the gin context.
func GetClaims(c *gin.Context) *JWTClaims {
	claims, _ := c.MustGet(ClaimsKey).(*JWTClaims)
	return claims
}

// GetOwnerID returns the mandatory ownership filter for customer callers, or
// nil for privileged callers.
func GetOwnerID(c *gin.Context) *uuid.UUID {
	v, ok := c.Get(OwnerIDKey)
	if !ok {
		return nil
	}
	id, ok := v.(uuid.UUID)
	if !ok {
		return nil
	}
	return &id
}

func abortAuth(c *gin.Context, err *apierror.Error) {
	c.AbortWithStatusJSON(err.Status(), &apierror.APIError{Detail: err.Reason, Sub: err.Sub})
}
