package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"vehicletrack/internal/config"
	apphttp "vehicletrack/internal/http"
	"vehicletrack/internal/mail"
	"vehicletrack/internal/ratelimit"
	"vehicletrack/internal/repository/sqlite"
	"vehicletrack/internal/service"
	"vehicletrack/internal/storage"
	"vehicletrack/internal/token"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}

	if strings.TrimSpace(cfg.Auth.JWTSecret) == "" {
		logger.Fatalf("auth jwt secret is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := sqlite.Open(cfg.Database.Path)
	if err != nil {
		logger.Fatalf("open database: %v", err)
	}
	defer db.Close()

	userRepo := sqlite.NewUserRepository(db)
	vehicleRepo := sqlite.NewVehicleRepository(db)
	damageRepo := sqlite.NewDamageReportRepository(db)
	linkRepo := sqlite.NewSharedLinkRepository(db)
	settingsRepo := sqlite.NewSettingsRepository(db)

	for name, init := range map[string]func(context.Context) error{
		"user":          userRepo.Init,
		"vehicle":       vehicleRepo.Init,
		"damage report": damageRepo.Init,
		"shared link":   linkRepo.Init,
		"settings":      settingsRepo.Init,
	} {
		if err := init(ctx); err != nil {
			logger.Fatalf("init %s repository: %v", name, err)
		}
	}

	sender := buildSender(cfg, logger)
	limiter := ratelimit.NewLimiter(cfg.RateLimitWindow())
	tokens := token.NewIssuer(cfg.Auth.JWTSecret)

	authService := service.NewAuthService(userRepo, limiter, tokens, sender, logger, service.AuthConfig{
		OTPTTL:         cfg.OTPTTL(),
		VerifyTokenTTL: cfg.VerifyTokenTTL(),
		LoginTokenTTL:  cfg.LoginTokenTTL(),
		LoginMax:       cfg.RateLimit.LoginMax,
		OTPRequestMax:  cfg.RateLimit.OTPMax,
		MailTimeout:    cfg.MailTimeout(),
	})
	vehicleService := service.NewVehicleService(vehicleRepo, settingsRepo)
	shareService := service.NewShareService(linkRepo, vehicleRepo, cfg.App.BaseURL)
	settingsService := service.NewSettingsService(settingsRepo)

	storageSvc, err := buildStorage(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("setup storage: %v", err)
	}
	damageService := service.NewDamageService(damageRepo, vehicleRepo, storageSvc, cfg.Storage.Bucket, cfg.Storage.KeyPrefix, logger)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	handler := apphttp.NewHandler(
		authService,
		vehicleService,
		damageService,
		shareService,
		settingsService,
		tokens,
		logger,
	)
	handler.RegisterRoutes(router)

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: router,
	}

	go func() {
		logger.Infof("listening on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("http server: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warnf("http shutdown: %v", err)
	}

	logger.Info("bye")
}

func buildSender(cfg config.Config, logger *logrus.Logger) mail.Sender {
	if cfg.SMTP.Host == "" {
		logger.Warn("smtp host not configured, mail will be logged only")
		return &mail.LogSender{Logger: logger}
	}

	sender, err := mail.NewSMTPSender(mail.SMTPConfig{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Secure:   cfg.SMTP.Secure,
		User:     cfg.SMTP.User,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
		FromName: cfg.SMTP.FromName,
	})
	if err != nil {
		logger.Fatalf("setup mail sender: %v", err)
	}
	logger.Infof("sending mail via %s:%d", cfg.SMTP.Host, cfg.SMTP.Port)
	return sender
}

// buildStorage returns nil when no bucket is configured; photo routes then
// answer 503.
func buildStorage(ctx context.Context, cfg config.Config, logger *logrus.Logger) (storage.Service, error) {
	if cfg.Storage.Bucket == "" {
		logger.Warn("storage bucket not configured, photo attachments disabled")
		return nil, nil
	}

	loadOpts := []func(*awscfg.LoadOptions) error{
		awscfg.WithRegion(cfg.Storage.Region),
	}
	if cfg.AWS.Profile != "" {
		loadOpts = append(loadOpts, awscfg.WithSharedConfigProfile(cfg.AWS.Profile))
	}

	awsCfg, err := awscfg.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Storage.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Storage.Endpoint)
			o.UsePathStyle = true
		}
	})
	logger.Infof("using s3 bucket %s (region %s)", cfg.Storage.Bucket, cfg.Storage.Region)
	return storage.NewS3Service(client), nil
}
