package middleware

import (
	"time"

	"trac/config"
	"trac/internal/core"
	"trac/internal/telemetry"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type corsMeta struct {
	AllowOrigins []string `trace:"http.cors.allow_origins"`
	AllowMethods []string `trace:"http.cors.allow_methods"`
	AllowCreds   bool     `trace:"http.cors.allow_credentials"`
}

type Cors struct {
	trace  *telemetry.Trace
	config cors.Config
}

// NewCors 未設定 origins 時允許所有來源，但不帶 credentials
func NewCors(trace *telemetry.Trace, conf *config.Configuration) *Cors {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Content-Type", "Authorization", "Traceparent", "X-Cloud-Trace-Context"},
		ExposeHeaders: []string{"X-App-Version"},
		MaxAge:        12 * time.Hour,
	}
	if origins := conf.App.AllowOrigins; len(origins) > 0 {
		cfg.AllowOrigins = origins
		cfg.AllowCredentials = true
	} else {
		cfg.AllowAllOrigins = true
	}
	return &Cors{trace: trace, config: cfg}
}

// CorsHandler 觀測用路徑不開 span，但仍套用 CORS（避免 preflight 失敗）
func (m *Cors) CorsHandler() gin.HandlerFunc {
	corsHandler := cors.New(m.config)
	origins := m.config.AllowOrigins
	if m.config.AllowAllOrigins {
		origins = []string{"*"}
	}
	meta := corsMeta{
		AllowOrigins: origins,
		AllowMethods: m.config.AllowMethods,
		AllowCreds:   m.config.AllowCredentials,
	}

	return func(c *gin.Context) {
		if skipObservability(c.FullPath()) {
			corsHandler(c)
			return
		}

		_, span, end := m.trace.WithSpan(c.Request.Context(), string(core.SpanCorsMiddleware))
		defer end(nil)
		m.trace.ApplyTraceAttributes(span, meta)

		corsHandler(c)
	}
}
