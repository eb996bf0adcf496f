package middelware

import (
	"bizdesk-backend/models"
	"bizdesk-backend/repository"
	"bizdesk-backend/utils/logger"
	"bizdesk-backend/utils/token"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Impersonation channel names. These are wire contracts shared with the
// frontend and the edge layer.
const (
	ImpersonationCookieName = "impersonation-token"
	ImpersonationHeaderName = "x-impersonation-data"
)

// ImpersonationChannel identifies where an impersonation payload came from
type ImpersonationChannel string

const (
	ChannelNone   ImpersonationChannel = "none"
	ChannelHeader ImpersonationChannel = "header"
	ChannelCookie ImpersonationChannel = "cookie"
)

// ResolutionDiagnostic records why an impersonation payload was discarded.
// The resolver never fails a request over a bad payload; it records the
// diagnostic, logs it, and falls back to the base identity.
type ResolutionDiagnostic struct {
	Channel ImpersonationChannel
	Reason  string
	Err     error
}

// ImpersonationPropagator carries impersonation tokens across requests via
// an HTTP-only cookie, with an optional pre-decoded header channel for
// trusted internal callers.
type ImpersonationPropagator struct {
	Config *models.Config
	Logger logger.Logger
}

// NewImpersonationPropagator creates a new propagator
func NewImpersonationPropagator(cfg *models.Config, log logger.Logger) *ImpersonationPropagator {
	return &ImpersonationPropagator{
		Config: cfg,
		Logger: log,
	}
}

// Store sets the impersonation cookie on the response. Max-Age matches the
// token TTL, so browser-side expiry tracks signature expiry.
func (p *ImpersonationPropagator) Store(c *gin.Context, tokenString string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(
		ImpersonationCookieName,
		tokenString,
		int(p.Config.ImpersonationTTL.Seconds()),
		"/",
		"",
		p.Config.AppEnv == "production",
		true,
	)
	p.Logger.Debugf("Impersonation cookie set (ttl=%s)", p.Config.ImpersonationTTL)
}

// Clear overwrites the impersonation cookie with an empty value and a
// Max-Age of 0, invalidating it for future requests. Clearing is
// unconditional; no token verification is needed.
func (p *ImpersonationPropagator) Clear(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(
		ImpersonationCookieName,
		"",
		-1,
		"/",
		"",
		p.Config.AppEnv == "production",
		true,
	)
	p.Logger.Debug("Impersonation cookie cleared")
}

// ReadFromRequest returns the raw impersonation payload and the channel it
// arrived on. The header wins over the cookie when both are present: an
// upstream edge layer that already verified the signed cookie injects the
// decoded claims so downstream hops skip a second signature check. The
// header is only honored when the trusted-header capability is enabled.
func (p *ImpersonationPropagator) ReadFromRequest(c *gin.Context) (string, ImpersonationChannel) {
	if p.Config.TrustImpersonationHeader {
		if headerPayload := c.GetHeader(ImpersonationHeaderName); headerPayload != "" {
			return headerPayload, ChannelHeader
		}
	}

	cookieValue, err := c.Cookie(ImpersonationCookieName)
	if err != nil || cookieValue == "" {
		return "", ChannelNone
	}
	return cookieValue, ChannelCookie
}

// resolveClaims extracts and validates impersonation claims from the
// request. Header payloads are parsed only; cookie payloads go through
// full signature verification. A nil claims result with a non-nil
// diagnostic means "payload present but unusable".
func (p *ImpersonationPropagator) resolveClaims(c *gin.Context, signer *token.Signer) (*models.ImpersonationClaims, *ResolutionDiagnostic) {
	payload, channel := p.ReadFromRequest(c)
	if channel == ChannelNone {
		return nil, nil
	}

	switch channel {
	case ChannelHeader:
		var claims models.ImpersonationClaims
		if err := json.Unmarshal([]byte(payload), &claims); err != nil {
			return nil, &ResolutionDiagnostic{
				Channel: ChannelHeader,
				Reason:  "malformed header payload",
				Err:     err,
			}
		}
		return &claims, nil

	case ChannelCookie:
		claims, err := signer.Verify(payload)
		if err != nil {
			reason := "token verification failed"
			switch {
			case errors.Is(err, token.ErrTokenExpired):
				reason = "token expired"
			case errors.Is(err, token.ErrInvalidSignature):
				reason = "invalid token signature"
			case errors.Is(err, token.ErrMalformedToken):
				reason = "malformed token"
			}
			return nil, &ResolutionDiagnostic{
				Channel: ChannelCookie,
				Reason:  reason,
				Err:     err,
			}
		}
		return claims, nil
	}

	return nil, nil
}

// SessionResolver produces the effective identity for every request: the
// base identity established by the auth middleware, overlaid with
// impersonation claims when a valid payload is present. Must run after
// AuthMiddleware. Idempotent and side-effect-free: a corrupted or stale
// payload degrades to the base identity instead of failing the request.
func (p *ImpersonationPropagator) SessionResolver(signer *token.Signer, userRepo repository.UserRepositoryInterface) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := IdentityFromContext(c)
		if identity == nil {
			// No base session; impersonation can never apply
			c.Next()
			return
		}

		effective := &models.EffectiveIdentity{
			ID:          identity.ID,
			Email:       identity.Email,
			FirstName:   identity.FirstName,
			LastName:    identity.LastName,
			Role:        identity.Role,
			CompanyID:   identity.CompanyID,
			CompanyName: identity.CompanyName,
		}

		claims, diag := p.resolveClaims(c, signer)
		if diag != nil {
			p.Logger.Warnf("Discarding impersonation payload from %s: %s (%v)", diag.Channel, diag.Reason, diag.Err)
		}

		if claims != nil && claims.IsImpersonating {
			effective.ID = claims.ImpersonatedUserID
			effective.Email = claims.ImpersonatedEmail
			effective.Role = claims.ImpersonatedRole
			effective.CompanyID = &claims.CompanyID
			effective.CompanyName = &claims.CompanyName
			effective.IsImpersonating = true
			effective.OriginalUserID = claims.OriginalUserID
			effective.OriginalRole = claims.OriginalRole
			effective.OriginalEmail = claims.OriginalEmail

			// The acting super admin's display name is kept unless the
			// deployment opts into showing the impersonated admin's name.
			if p.Config.ImpersonationOverrideName && userRepo != nil {
				if users, err := userRepo.GetUser(claims.ImpersonatedUserID); err == nil && len(users) > 0 {
					effective.FirstName = users[0].FirstName
					effective.LastName = users[0].LastName
				}
			}

			p.Logger.Debugf("Request acting as %s on behalf of %s", effective.Email, effective.OriginalEmail)
		}

		c.Set(ContextKeyEffectiveIdentity, effective)
		c.Next()
	}
}

// IdentityFromContext returns the base identity established by the auth
// middleware, or nil when the request is unauthenticated.
func IdentityFromContext(c *gin.Context) *models.Identity {
	value, exists := c.Get(ContextKeyIdentity)
	if !exists {
		return nil
	}
	identity, ok := value.(*models.Identity)
	if !ok {
		return nil
	}
	return identity
}

// EffectiveIdentityFromContext returns the resolved effective identity for
// the request, or nil when the session resolver has not run.
func EffectiveIdentityFromContext(c *gin.Context) *models.EffectiveIdentity {
	value, exists := c.Get(ContextKeyEffectiveIdentity)
	if !exists {
		return nil
	}
	identity, ok := value.(*models.EffectiveIdentity)
	if !ok {
		return nil
	}
	return identity
}
