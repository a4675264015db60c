// Package main provides the entry point for the vidsplit service.
// @title vidsplit API
// @version 1.0
// @description Fetches video metadata through yt-dlp, picks the best separate video and audio streams, estimates the merged size and relays or merges the streams.
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url http://www.example.com/support
// @contact.email support@example.com

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:3000
// @BasePath /

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
// @description Optional API key, required only when API_KEY is set

package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/denisAlshanov/vidsplit/docs" // Import for swagger docs
	"github.com/denisAlshanov/vidsplit/internal/api/handlers"
	"github.com/denisAlshanov/vidsplit/internal/api/router"
	"github.com/denisAlshanov/vidsplit/internal/config"
	"github.com/denisAlshanov/vidsplit/internal/services/merge"
	"github.com/denisAlshanov/vidsplit/internal/services/relay"
	"github.com/denisAlshanov/vidsplit/internal/services/storage"
	"github.com/denisAlshanov/vidsplit/internal/services/ytdlp"
	"github.com/denisAlshanov/vidsplit/internal/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := utils.GetLogger()
	if err := utils.ConfigureLogger(cfg.Log.Level, cfg.Log.Format); err != nil {
		logger.WithError(err).Warn("Invalid logging settings, keeping defaults")
	}
	logger.Info("Starting vidsplit service")

	ctx := context.Background()

	cookiesFile := installCookies(cfg.YTDLP)
	ytdlpClient := ytdlp.NewClient(cfg.YTDLP.BinaryPath, cfg.YTDLP.MetadataTimeout, cookiesFile)

	streamRelay := relay.New(ytdlpClient, cfg.Relay.BufferSize, cfg.Relay.KillGrace)

	muxer := merge.NewFFmpegMuxer(cfg.Merge.FFmpegPath)
	if !muxer.Available() {
		logger.Warnf("ffmpeg not found at %q, server-side merge is disabled", muxer.Path)
	}
	orchestrator := merge.NewOrchestrator(muxer, cfg.Merge.TempDir)

	artifactStore, err := storage.NewStorage(ctx, &cfg.S3)
	if err != nil {
		logger.Fatalf("Failed to initialize storage: %v", err)
	}
	if artifactStore == nil {
		logger.Info("S3_BUCKET_NAME not set, merged files are only streamed")
	}

	mediaHandler := handlers.NewMediaHandler(ytdlpClient, cfg.Selection.DefaultQuality)
	streamHandler := handlers.NewStreamHandler(ytdlpClient, streamRelay, cfg.Selection.DefaultQuality)
	mergeHandler := handlers.NewMergeHandler(ytdlpClient, streamRelay, orchestrator, artifactStore, cfg.Merge, cfg.Selection.DefaultQuality)
	healthHandler := handlers.NewHealthHandler(ytdlpClient, muxer, artifactStore, streamRelay)

	r := router.NewRouter(cfg, mediaHandler, streamHandler, mergeHandler, healthHandler)

	go func() {
		logger.Infof("Starting server on %s:%s", cfg.Server.Host, cfg.Server.Port)
		if err := r.Start(); err != nil {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(ctx, cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := r.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Server shutdown did not complete: %v", err)
	}

	logger.WithField("active_streams", streamRelay.Active()).Info("Server shutdown complete")
}

// installCookies writes the cookie blob from the environment and returns the
// file yt-dlp should use, or "" to run without cookies.
func installCookies(cfg config.YTDLPConfig) string {
	logger := utils.GetLogger()

	if cfg.Cookies == "" {
		if _, err := os.Stat(cfg.CookiesPath); err == nil {
			logger.Infof("Using existing cookies file %s", cfg.CookiesPath)
			return cfg.CookiesPath
		}
		logger.Info("YT_COOKIES not set, running yt-dlp without cookies")
		return ""
	}

	count, err := ytdlp.InstallCookies(cfg.Cookies, cfg.CookiesPath)
	if err != nil {
		logger.WithError(err).Error("Failed to install cookies, running yt-dlp without cookies")
		return ""
	}

	logger.WithField("cookies", count).Infof("Cookies written to %s", cfg.CookiesPath)
	return cfg.CookiesPath
}
