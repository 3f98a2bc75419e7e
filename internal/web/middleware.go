package web

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// untrackedPrefixes are never counted as visits.
var untrackedPrefixes = []string{"/static/", "/admin", "/views/", "/favicon", "/privacy", "/healthz"}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}
		if c.Writer.Status() >= http.StatusInternalServerError {
			logger.Error("request", fields...)
			return
		}
		logger.Debug("request", fields...)
	}
}

// visitorTracking records page visits under a hashed client IP. Requests with
// a Do Not Track header are skipped.
func (s *Server) visitorTracking() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.analytics == nil || c.Request.Method != http.MethodGet || c.GetHeader("DNT") == "1" {
			c.Next()
			return
		}
		path := c.Request.URL.Path
		for _, prefix := range untrackedPrefixes {
			if strings.HasPrefix(path, prefix) {
				c.Next()
				return
			}
		}

		ip, ua := c.ClientIP(), c.GetHeader("User-Agent")
		go func() {
			if err := s.analytics.RecordVisit(context.Background(), ip, ua, path); err != nil {
				s.logger.Warn("recording visit", zap.Error(err))
			}
		}()
		c.Next()
	}
}
