package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"labelhub/internal/api"
	"labelhub/internal/auth"
	"labelhub/internal/config"
	"labelhub/internal/entity"
	"labelhub/internal/model"
	"labelhub/internal/service"
	"labelhub/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"
)

func main() {
	root := &cli.Command{
		Name:  "labelhub",
		Usage: "Record label back-office server",
		Commands: []*cli.Command{
			serveCommand(),
			seedCommand(),
			migrateRolesCommand(),
			createUserCommand(),
			purgeSessionsCommand(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return runServer(ctx)
		},
	}

	if err := root.Run(context.Background(), os.Args); err != nil {
		logrus.WithError(err).Fatal("command failed")
	}
}

// setup 读取配置、初始化日志并打开数据库
func setup() (config.Config, model.Repository, error) {
	cfg, err := config.ParseConfig()
	if err != nil {
		return cfg, nil, fmt.Errorf("parse config: %w", err)
	}
	configureLogger(cfg)

	repo, err := model.InitRepository(&cfg)
	if err != nil {
		return cfg, nil, fmt.Errorf("initialise repository: %w", err)
	}
	return cfg, repo, nil
}

func configureLogger(cfg config.Config) {
	if strings.EqualFold(cfg.LogFormat, "text") {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the HTTP server (default)",
		Action: func(ctx context.Context, c *cli.Command) error {
			return runServer(ctx)
		},
	}
}

func runServer(ctx context.Context) error {
	cfg, repo, err := setup()
	if err != nil {
		return err
	}

	if err := model.SeedCatalog(ctx, repo); err != nil {
		logrus.WithError(err).Warn("failed to seed permission catalog")
	}
	if _, err := model.BootstrapAdmin(ctx, repo, cfg); err != nil {
		logrus.WithError(err).Warn("failed to bootstrap admin user")
	}

	store, err := storage.NewStorage(cfg)
	if err != nil {
		return fmt.Errorf("initialise storage: %w", err)
	}

	httpHandler, err := api.NewHTTPHandler(cfg, repo, store)
	if err != nil {
		return fmt.Errorf("initialise http handler: %w", err)
	}
	if purged, err := httpHandler.Services().Auth.PurgeExpiredSessions(ctx); err != nil {
		logrus.WithError(err).Warn("failed to purge expired sessions")
	} else if purged > 0 {
		logrus.WithField("sessions", purged).Info("expired sessions purged")
	}

	// 设置Gin模式
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.MaxMultipartMemory = cfg.MaxUploadBytes + 1<<20

	// 添加中间件
	r.Use(LoggingMiddleware())
	r.Use(CORSMiddleware())
	r.Use(gin.Recovery())

	httpHandler.RegisterRoutes(r)

	serverHost := fmt.Sprintf("0.0.0.0:%s", cfg.HTTPPort)
	httpServer := &http.Server{
		Addr:              serverHost,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logrus.WithField("host", serverHost).Info("服务器启动")
		errCh <- httpServer.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logrus.WithField("signal", sig.String()).Info("shutting down")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("服务器启动失败: %w", err)
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

func seedCommand() *cli.Command {
	return &cli.Command{
		Name:  "seed",
		Usage: "Create the permission catalog, system roles and the initial admin",
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg, repo, err := setup()
			if err != nil {
				return err
			}
			if err := model.SeedCatalog(ctx, repo); err != nil {
				return err
			}
			created, err := model.BootstrapAdmin(ctx, repo, cfg)
			if err != nil {
				return err
			}
			fmt.Printf("catalog seeded, admin created: %t\n", created)
			return nil
		},
	}
}

func migrateRolesCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate-roles",
		Usage: "Assign the system role matching each user's legacy tier",
		Action: func(ctx context.Context, c *cli.Command) error {
			_, repo, err := setup()
			if err != nil {
				return err
			}
			if err := model.SeedCatalog(ctx, repo); err != nil {
				return err
			}
			updated, err := model.MigrateLegacyRoles(ctx, repo)
			if err != nil {
				return err
			}
			fmt.Printf("%d user(s) migrated\n", updated)
			return nil
		},
	}
}

func createUserCommand() *cli.Command {
	return &cli.Command{
		Name:  "create-user",
		Usage: "Create a back-office user",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "username", Required: true},
			&cli.StringFlag{Name: "email", Required: true},
			&cli.StringFlag{Name: "password", Required: true},
			&cli.StringFlag{Name: "display-name"},
			&cli.StringFlag{Name: "role", Value: entity.LegacyRoleUser, Usage: "user, editor or admin"},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			_, repo, err := setup()
			if err != nil {
				return err
			}
			tier := strings.ToLower(strings.TrimSpace(c.String("role")))
			switch tier {
			case entity.LegacyRoleUser, entity.LegacyRoleEditor, entity.LegacyRoleAdmin:
			default:
				return fmt.Errorf("unknown role %q", tier)
			}
			hash, err := auth.HashPassword(c.String("password"))
			if err != nil {
				return err
			}
			user := &entity.User{
				Username:     strings.TrimSpace(c.String("username")),
				Email:        strings.ToLower(strings.TrimSpace(c.String("email"))),
				PasswordHash: hash,
				DisplayName:  strings.TrimSpace(c.String("display-name")),
				LegacyRole:   tier,
				IsActive:     true,
			}
			if role, err := repo.GetRoleByName(ctx, tier); err == nil {
				user.RoleID = &role.ID
			}
			if err := repo.CreateUser(ctx, user); err != nil {
				return fmt.Errorf("create user: %w", err)
			}
			fmt.Printf("user %s created with id %d\n", user.Username, user.ID)
			return nil
		},
	}
}

func purgeSessionsCommand() *cli.Command {
	return &cli.Command{
		Name:  "purge-sessions",
		Usage: "Delete expired login sessions",
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg, repo, err := setup()
			if err != nil {
				return err
			}
			sessions, err := auth.NewManager(cfg.SecretKey, cfg.SessionIssuer, time.Duration(cfg.SessionTTLMinutes)*time.Minute)
			if err != nil {
				return err
			}
			purged, err := service.NewAuthService(repo, sessions).PurgeExpiredSessions(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("%d session(s) purged\n", purged)
			return nil
		},
	}
}

// CORSMiddleware CORS跨域中间件
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin == "" {
			origin = "*"
		}
		c.Header("Access-Control-Allow-Origin", origin)
		c.Header("Vary", "Origin")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")
		c.Header("Access-Control-Allow-Credentials", "true")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// LoggingMiddleware 日志记录中间件
func LoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		// 处理请求
		c.Next()
		// 记录请求结束
		duration := time.Since(start)
		logrus.WithFields(logrus.Fields{
			"method":    c.Request.Method,
			"path":      c.Request.URL.Path,
			"status":    c.Writer.Status(),
			"duration":  duration.String(),
			"size":      c.Writer.Size(),
			"client_ip": c.ClientIP(),
		}).Info("http_request")
	}
}
