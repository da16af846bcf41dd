// Package http assembles the gin engine: middleware, API routes, uploaded
// media serving, and the single-page-application fallback.
package http

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/prabhaspasupuleti/multywavewebbackend/internal/config"
	"github.com/prabhaspasupuleti/multywavewebbackend/internal/http/handlers"
	"github.com/prabhaspasupuleti/multywavewebbackend/internal/mail"
	"github.com/prabhaspasupuleti/multywavewebbackend/internal/uploads"
)

// NewServer builds the gin engine with all routes registered. Dependencies
// are injected; nothing here reads process-global state.
func NewServer(cfg config.Config, conn *gorm.DB, store *uploads.Store, verifier handlers.TokenVerifier, sender mail.Sender) *gin.Engine {
	engine := gin.New()
	engine.Use(requestLogger(), gin.Recovery())
	engine.Use(cors.New(corsConfig(cfg.Server.Origins)))

	registerRoutes(engine, cfg, conn, store, verifier, sender)

	engine.Static("/uploads", store.Root())
	registerSPAFallback(engine, cfg.Server.StaticDir)

	return engine
}

// registerRoutes wires the API route groups.
func registerRoutes(engine *gin.Engine, cfg config.Config, conn *gorm.DB, store *uploads.Store, verifier handlers.TokenVerifier, sender mail.Sender) {
	authHandler := handlers.NewAuthHandler(conn, cfg.JWT)
	articleHandler := handlers.NewArticleHandler(conn, store)
	contactHandler := handlers.NewContactHandler(verifier, sender)

	auth := engine.Group("/api/auth")
	auth.POST("/login", authHandler.Login)

	articles := engine.Group("/api/articles")
	articles.GET("", articleHandler.List)
	articles.GET("/", articleHandler.List)

	authed := articles.Group("")
	authed.Use(AdminAuthMiddleware(conn, cfg.JWT))
	authed.POST("", articleHandler.Create)
	authed.POST("/", articleHandler.Create)
	authed.DELETE("/:id", articleHandler.Delete)

	engine.POST("/api/contact", contactHandler.Submit)
}

// corsConfig builds the CORS policy for the configured origins.
func corsConfig(origins []string) cors.Config {
	return cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
}

// registerSPAFallback serves the built front end for any unmatched GET
// path: an existing file under the static dir is served as-is, everything
// else falls back to the entry document for client-side routing.
func registerSPAFallback(engine *gin.Engine, staticDir string) {
	engine.NoRoute(func(c *gin.Context) {
		if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
			c.Status(http.StatusNotFound)
			return
		}
		requestPath := c.Request.URL.Path
		if strings.HasPrefix(requestPath, "/api/") || strings.HasPrefix(requestPath, "/uploads/") {
			c.Status(http.StatusNotFound)
			return
		}

		cleaned := path.Clean("/" + requestPath)
		candidate := filepath.Join(staticDir, filepath.FromSlash(cleaned))
		if info, errStat := os.Stat(candidate); errStat == nil && !info.IsDir() {
			c.File(candidate)
			return
		}
		c.File(filepath.Join(staticDir, "index.html"))
	})
}

// requestLogger emits one structured log line per request.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log.WithFields(log.Fields{
			"status":  c.Writer.Status(),
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"latency": time.Since(start).String(),
			"client":  c.ClientIP(),
		}).Info("request")
	}
}
