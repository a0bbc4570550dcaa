package main

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/carcare/carcarebot/internal"
	"github.com/carcare/carcarebot/internal/chat"
	apperrors "github.com/carcare/carcarebot/internal/errors"
	"github.com/carcare/carcarebot/internal/logger"
	"github.com/carcare/carcarebot/internal/store"
	"github.com/carcare/carcarebot/internal/ui"
)

const sessionIDKey = "session_id"

type routerDeps struct {
	chat          *chat.Service
	sessions      store.SessionStore
	logger        logger.Logger
	allowedOrigin string
	cookieName    string
	cookieTTL     time.Duration
}

func newRouter(d routerDeps) *gin.Engine {
	r := gin.New()
	r.Use(requestLogger(d.logger), recoverer(d.logger))

	// CORS with credentials for the SPA dev server
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", d.allowedOrigin)
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true, "time": time.Now().Format(time.RFC3339)})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	h := &handlers{routerDeps: d}
	s := r.Group("/", h.withSession)
	s.GET("/", h.page)
	s.POST("/chat", h.submitForm)
	s.POST("/clear", h.clearForm)

	s.GET("/api/model", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"model": d.chat.Model()})
	})
	s.GET("/api/messages", h.listMessages)
	s.POST("/api/messages", h.sendMessage)
	s.POST("/api/reset", h.reset)

	return r
}

type handlers struct {
	routerDeps
}

// withSession resolves the session cookie, issuing a new ID when absent.
func (h *handlers) withSession(c *gin.Context) {
	id, err := c.Cookie(h.cookieName)
	if err != nil || id == "" {
		id = uuid.NewString()
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookieName, id, int(h.cookieTTL.Seconds()), "/", "", false, true)
	c.Set(sessionIDKey, id)
	c.Next()
}

func (h *handlers) loadSession(c *gin.Context) (internal.Session, bool) {
	sess, err := h.sessions.Load(c.Request.Context(), c.GetString(sessionIDKey))
	if err != nil {
		h.fail(c, err)
		return internal.Session{}, false
	}
	return sess, true
}

func (h *handlers) saveSession(c *gin.Context, sess internal.Session) bool {
	if err := h.sessions.Save(c.Request.Context(), sess); err != nil {
		h.fail(c, err)
		return false
	}
	return true
}

func (h *handlers) fail(c *gin.Context, err error) {
	kind := apperrors.KindOf(err)
	h.logger.WithError(err).Error("request failed", map[string]interface{}{
		"error_kind": string(kind),
		"path":       c.Request.URL.Path,
	})
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": string(kind)})
}

func (h *handlers) page(c *gin.Context) {
	sess, ok := h.loadSession(c)
	if !ok {
		return
	}
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
	if err := ui.Render(c.Writer, ui.Page{Messages: sess.Messages}); err != nil {
		h.logger.WithError(err).Error("render failed", nil)
	}
}

func (h *handlers) submitForm(c *gin.Context) {
	sess, ok := h.loadSession(c)
	if !ok {
		return
	}
	sess, err := h.chat.Submit(c.Request.Context(), sess, c.PostForm("message"))
	if apperrors.Is(err, apperrors.KindEmptyQuery) {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}
	// A failed interaction log has already been reported; the page still updates.
	if !h.saveSession(c, sess) {
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

func (h *handlers) clearForm(c *gin.Context) {
	sess, ok := h.loadSession(c)
	if !ok {
		return
	}
	if !h.saveSession(c, h.chat.Clear(sess)) {
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

func (h *handlers) listMessages(c *gin.Context) {
	sess, ok := h.loadSession(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, internal.ChatHistory{Messages: sess.Messages})
}

func (h *handlers) sendMessage(c *gin.Context) {
	var req internal.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "content required"})
		return
	}
	sess, ok := h.loadSession(c)
	if !ok {
		return
	}

	sess, err := h.chat.Submit(c.Request.Context(), sess, req.Content)
	if apperrors.Is(err, apperrors.KindEmptyQuery) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "content required"})
		return
	}
	if !h.saveSession(c, sess) {
		return
	}
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, internal.SendMessageResponse{
		Reply: sess.Messages[len(sess.Messages)-1],
		Model: h.chat.Model(),
	})
}

// reset drops the stored session; the next load starts a fresh one.
func (h *handlers) reset(c *gin.Context) {
	if err := h.sessions.Delete(c.Request.Context(), c.GetString(sessionIDKey)); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func requestLogger(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info("request", map[string]interface{}{
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"latency_ms": time.Since(start).Milliseconds(),
		})
	}
}

func recoverer(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error("panic recovered in handler", map[string]interface{}{
					"panic": fmt.Sprint(r),
					"stack": string(debug.Stack()),
					"path":  c.Request.URL.Path,
				})
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": string(apperrors.KindInternal)})
			}
		}()
		c.Next()
	}
}
