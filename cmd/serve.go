package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/paradoks/clubhub/config"
	"github.com/paradoks/clubhub/controllers"
	"github.com/paradoks/clubhub/database"
	"github.com/paradoks/clubhub/mailer"
	"github.com/paradoks/clubhub/middleware"
	"github.com/paradoks/clubhub/routes"
	"github.com/paradoks/clubhub/services"
	"github.com/paradoks/clubhub/sessions"
	"github.com/paradoks/clubhub/storage"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var serveShutdownTimeout time.Duration

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Start the HTTP server. The schema is migrated on startup.

The server shuts down gracefully on SIGINT or SIGTERM, waiting up to
--shutdown-timeout for in-flight requests.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().DurationVar(&serveShutdownTimeout, "shutdown-timeout", 10*time.Second, "Maximum time to wait for requests to drain during shutdown")
	rootCmd.Flags().AddFlagSet(serveCmd.Flags())
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(env)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer database.Close(db)

	if err := database.AutoMigrate(db); err != nil {
		return err
	}

	codes, closeCodes, err := newCodeStore(env, db)
	if err != nil {
		return err
	}
	defer closeCodes()

	router, err := buildRouter(env, db, codes, logger)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + env.AppPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()
	logger.Info("clubhub started", "port", env.AppPort, "db_driver", env.DBDriver)

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), serveShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}

	logger.Info("clubhub stopped cleanly")
	return nil
}

// newCodeStore keeps pending registrations in redis when it is configured and
// in the database otherwise.
func newCodeStore(env *config.Env, db *gorm.DB) (services.CodeStore, func(), error) {
	if env.RedisAddr == "" {
		return services.NewGormCodeStore(db), func() {}, nil
	}

	client, err := database.GetRedisClient(env.RedisAddr, env.RedisPass, env.RedisDB)
	if err != nil {
		return nil, nil, fmt.Errorf("connect redis: %w", err)
	}
	return services.NewRedisCodeStore(client), func() { _ = client.Close() }, nil
}

func newSessionServices(env *config.Env, db *gorm.DB, logger *slog.Logger) (clubs, users *sessions.Service) {
	clubs = sessions.NewService(sessions.NewClubStore(db), sessions.ClubKind.WithCookie(env.ClubCookie), sessions.WithLogger(logger))
	users = sessions.NewService(sessions.NewUserStore(db), sessions.UserKind.WithCookie(env.UserCookie), sessions.WithLogger(logger))
	return clubs, users
}

func buildRouter(env *config.Env, db *gorm.DB, codes services.CodeStore, logger *slog.Logger) (*gin.Engine, error) {
	gin.SetMode(env.GinMode)
	if logger == nil {
		logger = slog.Default()
	}

	images, err := storage.NewImages(env.UploadDir, logger)
	if err != nil {
		return nil, err
	}

	clubSessions, userSessions := newSessionServices(env, db, logger)
	mail := mailer.New(env.SendGridAPIKey, env.MailFrom, env.MailFromName, logger)

	cfg := services.Config{
		BcryptCost:   env.BcryptCost,
		SessionHours: env.SessionHours,
		Logger:       logger,
	}
	clubs := services.NewClubService(db, clubSessions, images, cfg)
	users := services.NewUserService(db, userSessions, codes, mail, cfg)

	cookie := controllers.CookieConfig{
		Options: sessions.CookieOptions{Secure: env.CookieSecure},
		MaxAge:  time.Duration(env.SessionHours) * time.Hour,
	}
	h := routes.Handlers{
		Auth:         controllers.NewAuthController(clubs, clubSessions, cookie),
		User:         controllers.NewUserController(users, userSessions, cookie),
		Club:         controllers.NewClubController(clubs),
		Post:         controllers.NewPostController(services.NewPostService(db)),
		Announcement: controllers.NewAnnouncementController(services.NewAnnouncementService(db, cfg)),
		System:       controllers.NewSystemController(db, images),
	}

	return routes.NewEngine(logger, h, middleware.Identity(logger, userSessions, clubSessions)), nil
}
