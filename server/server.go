package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"DriftFM/auth"
	"DriftFM/cache"
	"DriftFM/config"
	"DriftFM/db"
	"DriftFM/logger"
	"DriftFM/player"
	"DriftFM/repository"
	"DriftFM/session"
	"DriftFM/storage"

	"github.com/gorilla/mux"
)

// Start initializes the playback engine and serves the control API.
func Start() {
	cfg := config.Load()

	logger.InitLogger(logger.Config{
		Level:      cfg.LogLevel,
		OutputPath: cfg.LogOutputPath,
		MaxSize:    cfg.LogMaxSize,
		MaxBackups: cfg.LogMaxBackups,
		MaxAge:     cfg.LogMaxAge,
		Compress:   true,
	})
	defer logger.Sync()

	auth.Init(cfg.JWTSecret)

	if err := cache.ConnectRedis(cfg); err != nil {
		logger.Fatal("failed to connect to Redis", logger.ErrorField(err))
	}
	defer cache.CloseRedis()

	if err := db.ConnectGormDB(cfg); err != nil {
		logger.Fatal("failed to connect to catalog database", logger.ErrorField(err))
	}
	defer db.CloseGormDB()

	if err := storage.InitMinio(cfg); err != nil {
		logger.Fatal("failed to initialize MinIO", logger.ErrorField(err))
	}

	tokens := auth.NewTokenHolder()
	gateway := session.NewHTTPGateway(cfg.SessionAPIBaseURL, tokens)

	history := player.NewHistory(cache.NewRedisHistoryStore())
	rehydrateCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := history.Rehydrate(rehydrateCtx); err != nil {
		logger.Warn("failed to rehydrate play history", logger.ErrorField(err))
	}
	cancel()

	output := player.NewClockOutput()
	coordinator := player.NewCoordinator(output, gateway, tokens, history)

	trackRepo := repository.NewGormTrackRepository(db.GormDB)
	resolver := storage.NewMediaResolver(storage.GetMinioClient(), cfg.MinioBucket)

	handler := NewAPIHandler(cfg, coordinator, tokens, trackRepo, resolver)

	router := mux.NewRouter()
	router.Use(corsMiddleware)

	// Playback control
	router.HandleFunc("/api/player/state", handler.StateHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/player/history", handler.HistoryHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/player/play", handler.PlayHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/player/queue", handler.QueueHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/player/toggle", handler.ToggleHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/player/next", handler.NextHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/player/previous", handler.PreviousHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/player/seek", handler.SeekHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/player/volume", handler.VolumeHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/player/shuffle", handler.ShuffleHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/player/repeat", handler.RepeatHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/player/ad/finish", handler.FinishAdHandler).Methods(http.MethodPost)

	// Identity
	router.HandleFunc("/api/auth/token", handler.SetTokenHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/auth/token", handler.ClearTokenHandler).Methods(http.MethodDelete)

	// State event stream
	router.HandleFunc("/ws/player", handler.PlayerStreamHandler)

	server := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("DriftFM server listening", logger.String("addr", cfg.ListenAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", logger.ErrorField(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	ctx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("forced shutdown", logger.ErrorField(err))
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS, HEAD")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Max-Age", "86400")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
