package middleware

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"trac/config"
	"trac/internal/core"
	cErr "trac/internal/pkg/error"
	"trac/internal/pkg/response"
	"trac/internal/telemetry"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"
)

var errMissingSubject = errors.New("token has no subject")

// Auth 驗證身分提供者簽發的 Bearer JWT（HMAC），通過後在 context 放入 core.Actor
type Auth struct {
	logger *zap.Logger
	trace  *telemetry.Trace
	secret []byte
	issuer string
}

func NewAuth(logger *zap.Logger, trace *telemetry.Trace, conf *config.Configuration) *Auth {
	if conf.Auth.JWTSecret == "" {
		logger.Warn("AUTH__JWT_SECRET is empty, every /api request will be rejected")
	}
	return &Auth{
		logger: logger,
		trace:  trace,
		secret: []byte(conf.Auth.JWTSecret),
		issuer: conf.Auth.Issuer,
	}
}

func (middleware *Auth) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		_, span, end := middleware.trace.WithSpan(c.Request.Context(), string(core.SpanAuthMiddleware))
		meta := core.TraceAuthMiddlewareMeta{Issuer: middleware.issuer}

		raw := bearerToken(c.GetHeader("Authorization"))
		if raw == "" {
			meta.Status = "missing_token"
			middleware.trace.ApplyTraceAttributes(span, meta)
			cause := cErr.Unauthorized("missing bearer token")
			end(cause)
			response.AbortWithError(c, cause)
			return
		}

		actor, err := middleware.Verify(raw)
		if err != nil {
			meta.Status = "invalid_token"
			middleware.trace.ApplyTraceAttributes(span, meta)
			middleware.logger.Info("[Auth] rejected token", zap.String("clientIP", c.ClientIP()), zap.Error(err))
			end(err)
			response.AbortWithError(c, cErr.Unauthorized("invalid bearer token"))
			return
		}

		meta.ActorID = actor.ID
		meta.Status = "success"
		middleware.trace.ApplyTraceAttributes(span, meta)
		end(nil)

		c.Set(core.ContextActorKey, actor)
		c.Next()
	}
}

// Verify 檢查簽章、有效期與 issuer；subject 即 actor id
func (middleware *Auth) Verify(raw string) (core.Actor, error) {
	if len(middleware.secret) == 0 {
		return core.Actor{}, errors.New("jwt secret not configured")
	}
	claims := &core.Claims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return middleware.secret, nil
	})
	if err != nil {
		return core.Actor{}, err
	}
	if middleware.issuer != "" && !claims.VerifyIssuer(middleware.issuer, true) {
		return core.Actor{}, fmt.Errorf("unexpected issuer %q", claims.Issuer)
	}
	if claims.Subject == "" {
		return core.Actor{}, errMissingSubject
	}
	return core.Actor{ID: claims.Subject, Email: claims.Email, Name: claims.Name}, nil
}

// IssueToken 以相同金鑰簽發 token（本機開發與測試）
func IssueToken(secret, issuer string, actor core.Actor, ttl time.Duration, now time.Time) (string, error) {
	claims := core.Claims{
		Email: actor.Email,
		Name:  actor.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   actor.ID,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// ActorFrom 取出 Auth 放入的 actor
func ActorFrom(c *gin.Context) (core.Actor, bool) {
	value, ok := c.Get(core.ContextActorKey)
	if !ok {
		return core.Actor{}, false
	}
	actor, ok := value.(core.Actor)
	return actor, ok
}

func bearerToken(header string) string {
	header = strings.TrimSpace(header)
	if len(header) < 7 || !strings.EqualFold(header[:7], "bearer ") {
		return ""
	}
	return strings.TrimSpace(header[7:])
}
