package main

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vedohany200-source/attendance-system/internal/archive"
	"github.com/vedohany200-source/attendance-system/internal/attendance"
	"github.com/vedohany200-source/attendance-system/internal/auth"
	"github.com/vedohany200-source/attendance-system/internal/config"
	"github.com/vedohany200-source/attendance-system/internal/httpmiddleware"
	"github.com/vedohany200-source/attendance-system/internal/registry"
	"github.com/vedohany200-source/attendance-system/internal/report"
	"github.com/vedohany200-source/attendance-system/internal/rtstore"
	"github.com/vedohany200-source/attendance-system/internal/store"
)

func main() {
	cfg := config.Load()

	if cfg.Env == "production" || cfg.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := runHTTP(cfg); err != nil {
		log.Fatalf("http server failed: %v", err)
	}
}

func runHTTP(cfg config.App) error {
	reg := registry.Default()
	if cfg.DoctorsFile != "" {
		loaded, err := registry.LoadFile(cfg.DoctorsFile)
		if err != nil {
			return err
		}
		reg = loaded
		log.Printf("roster loaded from %s (%d doctors)", cfg.DoctorsFile, len(reg.All()))
	}

	redisClient := store.NewRedis(cfg.RedisAddr)

	var rt rtstore.Store
	if cfg.StoreBackend == "redis" {
		rt = rtstore.NewRedis(redisClient.Client)
	} else {
		rt = rtstore.NewMemory()
	}
	defer rt.Close()

	// Archive DB is optional; the tracker works without it.
	var archiveRepo *archive.Repository
	db, err := store.NewDB(cfg.DatabaseURL)
	if err != nil {
		log.Printf("warning: archive db not reachable: %v", err)
	} else {
		archiveRepo = archive.NewRepository(db.Client)
		defer db.Close()
	}

	loc := cfg.Location()
	trk := attendance.NewTracker(rt, loc, cfg.CheckInOpenHour)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		SkipPaths: []string{"/healthz", "/metrics"},
	}))
	r.Use(corsMiddleware())
	r.Use(securityHeaders())
	r.Use(httpmiddleware.NewRateLimiter(cfg.RateLimitPerMin).Middleware())

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.GET("/healthz", func(c *gin.Context) {
		redisHealthy := cfg.StoreBackend != "redis" || redisClient.Healthy(c.Request.Context())
		status := http.StatusOK
		if !redisHealthy {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, gin.H{"status": "ok", "redis": redisHealthy, "archive": archiveRepo != nil})
	})

	r.POST("/v1/login", func(c *gin.Context) {
		var req struct {
			Code string `json:"code" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		doctor, err := reg.Lookup(req.Code)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "الكود غير صحيح"})
			return
		}

		token, exp, err := auth.Issue(doctor.Code, doctor.Name, doctor.Admin, cfg.JWTIssuer, cfg.JWTSigningKey, cfg.SessionTTL)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "token issue failed"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"token":      token,
			"expires_at": exp.Unix(),
			"doctor": gin.H{
				"code":  doctor.Code,
				"name":  doctor.Name,
				"admin": doctor.Admin,
			},
		})
	})

	authGroup := r.Group("/v1", auth.DoctorAuth(cfg.JWTSigningKey, cfg.JWTIssuer))

	authGroup.POST("/checkin", func(c *gin.Context) {
		claims, _ := auth.FromContext(c)
		rec, err := trk.CheckIn(c.Request.Context(), claims.Code, claims.Name)
		if err != nil {
			writeTrackerError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   rec.Status(),
			"check_in": rec.CheckIn,
			"date":     rec.Date,
		})
	})

	authGroup.POST("/checkout", func(c *gin.Context) {
		claims, _ := auth.FromContext(c)
		rec, err := trk.CheckOut(c.Request.Context(), claims.Code)
		if err != nil {
			writeTrackerError(c, err)
			return
		}

		if archiveRepo != nil {
			go func(rec attendance.Record) {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := archiveRepo.InsertClosed(ctx, rec); err != nil {
					log.Printf("archive insert failed for %s: %v", rec.DoctorCode, err)
				}
			}(rec)
		}

		c.JSON(http.StatusOK, gin.H{
			"status":        attendance.StatusAbsent,
			"check_out":     rec.CheckOut,
			"working_hours": rec.WorkingHours,
		})
	})

	authGroup.GET("/status", func(c *gin.Context) {
		claims, _ := auth.FromContext(c)
		status, rec, err := trk.Status(c.Request.Context(), claims.Code)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		resp := gin.H{"status": status}
		if rec.Open() {
			resp["check_in"] = rec.CheckIn
			resp["working_time"] = attendance.FormatWorkingHours(time.Since(rec.CheckIn))
		}
		c.JSON(http.StatusOK, resp)
	})

	authGroup.POST("/vacation", func(c *gin.Context) {
		var req struct {
			Day string `json:"day" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		claims, _ := auth.FromContext(c)
		vac, err := trk.RequestVacation(c.Request.Context(), claims.Code, claims.Name, req.Day)
		if err != nil {
			writeTrackerError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"day":          vac.Day,
			"request_date": vac.RequestDate,
		})
	})

	// Live working-time stream for the doctor dashboard clock. One event
	// per second until checkout or client disconnect.
	authGroup.GET("/elapsed", func(c *gin.Context) {
		claims, _ := auth.FromContext(c)
		rec, err := trk.Live(c.Request.Context(), claims.Code)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if !rec.Open() {
			c.JSON(http.StatusConflict, gin.H{"error": "no open session"})
			return
		}

		ticker := attendance.NewElapsedTicker(rec.CheckIn, nil)
		defer ticker.Stop()

		// Stop streaming as soon as the session closes.
		cancel, err := rt.Subscribe(attendance.LivePath(claims.Code), func(string) {
			ctx, cancelRead := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancelRead()
			if latest, err := trk.Live(ctx, claims.Code); err == nil && !latest.Open() {
				ticker.Stop()
			}
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		defer cancel()

		c.Header("Content-Type", "text/event-stream")
		c.Header("Cache-Control", "no-cache")
		c.Stream(func(w io.Writer) bool {
			d, ok := <-ticker.C
			if !ok {
				return false
			}
			c.SSEvent("elapsed", attendance.FormatWorkingHours(d))
			return true
		})
	})

	adminGroup := authGroup.Group("/admin", auth.AdminOnly())

	adminGroup.GET("/status", func(c *gin.Context) {
		view, err := statusView(c, rt, reg, loc)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, view)
	})

	adminGroup.GET("/history", func(c *gin.Context) {
		snapshot, err := rt.Snapshot(c.Request.Context(), "attendance")
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"history": attendance.BuildHistoryView(reg, snapshot)})
	})

	adminGroup.GET("/vacations", func(c *gin.Context) {
		vacations, err := trk.Vacations(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"vacations": vacations})
	})

	adminGroup.GET("/summary", func(c *gin.Context) {
		view, err := statusView(c, rt, reg, loc)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.String(http.StatusOK, report.Summary(view))
	})

	adminGroup.GET("/export", func(c *gin.Context) {
		snapshot, err := rt.Snapshot(c.Request.Context(), "attendance")
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		buf, err := report.HistoryWorkbook(attendance.BuildHistoryView(reg, snapshot))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		filename := "attendance-" + time.Now().In(loc).Format("2006-01-02") + ".xlsx"
		c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
		c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
	})

	adminGroup.GET("/archive", func(c *gin.Context) {
		if archiveRepo == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "archive not configured"})
			return
		}
		limit, offset := 50, 0
		if v := c.Query("limit"); v != "" {
			if parsed, err := strconv.Atoi(v); err == nil {
				limit = parsed
			}
		}
		if v := c.Query("offset"); v != "" {
			if parsed, err := strconv.Atoi(v); err == nil {
				offset = parsed
			}
		}
		entries, err := archiveRepo.List(c.Request.Context(), c.Query("code"), limit, offset)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"entries": entries})
	})

	// Graceful shutdown
	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Starting server on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced shutdown: %v", err)
	}

	log.Println("Server exited")
	return nil
}

func statusView(c *gin.Context, rt rtstore.Store, reg *registry.Registry, loc *time.Location) (attendance.StatusView, error) {
	snapshot, err := rt.Snapshot(c.Request.Context(), "attendance")
	if err != nil {
		return attendance.StatusView{}, err
	}
	return attendance.BuildStatusView(reg, snapshot, time.Now().In(loc)), nil
}

func writeTrackerError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, attendance.ErrTooEarly), errors.Is(err, attendance.ErrInvalidDay):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, rtstore.ErrWrite):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// CORS middleware for browser requests
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin == "" {
			origin = "*"
		}

		c.Header("Access-Control-Allow-Origin", origin)
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		c.Header("Access-Control-Allow-Credentials", "true")
		c.Header("Access-Control-Max-Age", "86400")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// Security headers middleware
func securityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-XSS-Protection", "1; mode=block")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")

		if gin.Mode() == gin.ReleaseMode {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}

		c.Next()
	}
}
