package web

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const adminCookie = "admin_token"

func (s *Server) adminAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(adminCookie)
		if err != nil || subtle.ConstantTimeCompare([]byte(token), []byte(s.adminToken)) != 1 {
			c.Redirect(http.StatusFound, "/admin/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

// clientHash identifies the client in logs without recording its IP.
func (s *Server) clientHash(c *gin.Context) string {
	if s.analytics == nil {
		return "-"
	}
	return s.analytics.HashIP(c.ClientIP())
}

func (s *Server) adminRoutes(r *gin.Engine) {
	r.GET("/admin/login", func(c *gin.Context) {
		c.HTML(http.StatusOK, "admin-login.html", gin.H{"title": "Admin Login"})
	})

	r.POST("/admin/login", func(c *gin.Context) {
		user := c.PostForm("username")
		pass := c.PostForm("password")

		userOK := subtle.ConstantTimeCompare([]byte(user), []byte(s.cfg.Admin.Username)) == 1
		passOK := subtle.ConstantTimeCompare([]byte(pass), []byte(s.cfg.Admin.Password)) == 1
		if !userOK || !passOK {
			s.logger.Warn("failed admin login", zap.String("client", s.clientHash(c)))
			c.HTML(http.StatusUnauthorized, "admin-login.html", gin.H{
				"title": "Admin Login",
				"error": "Invalid credentials",
			})
			return
		}

		c.SetCookie(adminCookie, s.adminToken, 3600*24, "/admin", "", false, true)
		s.logger.Info("admin login", zap.String("client", s.clientHash(c)))
		c.Redirect(http.StatusFound, "/admin/dashboard")
	})

	r.GET("/admin/logout", func(c *gin.Context) {
		c.SetCookie(adminCookie, "", -1, "/admin", "", false, true)
		c.Redirect(http.StatusFound, "/admin/login")
	})

	admin := r.Group("/admin")
	admin.Use(s.adminAuth())

	admin.GET("/dashboard", func(c *gin.Context) {
		if s.analytics == nil {
			c.HTML(http.StatusServiceUnavailable, "admin-error.html", gin.H{"error": "Analytics are disabled"})
			return
		}
		stats, err := s.analytics.Stats(c.Request.Context())
		if err != nil {
			s.logger.Error("loading admin stats", zap.Error(err))
			c.HTML(http.StatusInternalServerError, "admin-error.html", gin.H{"error": "Failed to load statistics"})
			return
		}
		c.HTML(http.StatusOK, "admin-dashboard.html", gin.H{
			"stats":       stats,
			"activeViews": s.views.len(),
		})
	})

	admin.GET("/visitors", func(c *gin.Context) {
		if s.analytics == nil {
			c.HTML(http.StatusServiceUnavailable, "admin-error.html", gin.H{"error": "Analytics are disabled"})
			return
		}
		visitors, err := s.analytics.RecentVisitors(c.Request.Context(), 200)
		if err != nil {
			s.logger.Error("loading visitors", zap.Error(err))
			c.HTML(http.StatusInternalServerError, "admin-error.html", gin.H{"error": "Failed to load visitors"})
			return
		}
		c.HTML(http.StatusOK, "admin-visitors.html", gin.H{"visitors": visitors})
	})

	admin.GET("/api/stats", func(c *gin.Context) {
		if s.analytics == nil {
			abortWithError(c, http.StatusServiceUnavailable, "ANALYTICS_DISABLED", "analytics are disabled")
			return
		}
		stats, err := s.analytics.Stats(c.Request.Context())
		if err != nil {
			s.logger.Error("loading admin stats", zap.Error(err))
			abortWithError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to load statistics")
			return
		}
		c.JSON(http.StatusOK, stats)
	})

	admin.GET("/export/stats", func(c *gin.Context) {
		if s.analytics == nil {
			abortWithError(c, http.StatusServiceUnavailable, "ANALYTICS_DISABLED", "analytics are disabled")
			return
		}
		stats, err := s.analytics.Stats(c.Request.Context())
		if err != nil {
			abortWithError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to load statistics")
			return
		}
		c.Header("Content-Disposition", "attachment; filename=portfolio-stats.json")
		s.logger.Info("admin stats exported", zap.String("client", s.clientHash(c)))
		c.JSON(http.StatusOK, stats)
	})

	admin.POST("/privacy/cleanup", func(c *gin.Context) {
		if s.analytics == nil {
			abortWithError(c, http.StatusServiceUnavailable, "ANALYTICS_DISABLED", "analytics are disabled")
			return
		}
		removed, err := s.analytics.Cleanup(c.Request.Context(), s.cfg.Analytics.Retention())
		if err != nil {
			s.logger.Error("privacy cleanup", zap.Error(err))
			abortWithError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "cleanup failed")
			return
		}
		c.JSON(http.StatusOK, gin.H{"removed": removed})
	})
}
