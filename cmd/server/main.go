package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"yacht_charter_backend/internal/config"
	"yacht_charter_backend/internal/database"
	"yacht_charter_backend/internal/router"
	"yacht_charter_backend/internal/services"
	"yacht_charter_backend/internal/validation"
	"yacht_charter_backend/pkg/utils"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "yacht-charter",
		Short:         "Yacht charter marketplace backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.AddCommand(serveCmd(), migrateCmd(), expirePendingCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func setup() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	utils.InitLogger(cfg.LogLevel, cfg.LogFormat)
	return cfg, nil
}

func serveCmd() *cobra.Command {
	var migrate bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the pending booking expiry worker",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := setup()
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			db, err := database.Open(ctx, cfg.DB)
			if err != nil {
				return err
			}
			defer db.Close()
			if migrate {
				if err := database.ApplySchema(ctx, db); err != nil {
					return err
				}
			}

			gin.SetMode(cfg.GinMode)
			if err := validation.Register(); err != nil {
				return err
			}

			tokens := utils.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
			svc := router.NewServices(db, tokens)
			engine := router.NewEngine(cfg.CORSAllowedOrigins)
			router.Setup(engine, router.NewHandlers(svc), tokens)

			srv := &http.Server{Addr: ":" + cfg.Port, Handler: engine}

			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				utils.LogInfo("Server starting", map[string]interface{}{"port": cfg.Port, "api": "/api"})
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return fmt.Errorf("http server: %w", err)
				}
				return nil
			})
			if cfg.ExpiryEnabled {
				worker := services.NewExpiryWorker(svc.Booking, cfg.PendingBookingTTL, cfg.ExpirySweepInterval)
				g.Go(func() error { return worker.Run(gctx) })
			}
			g.Go(func() error {
				<-gctx.Done()
				utils.LogInfo("Shutting down server")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
				defer cancel()
				return srv.Shutdown(shutdownCtx)
			})
			return g.Wait()
		},
	}
	cmd.Flags().BoolVar(&migrate, "migrate", false, "apply the database schema before serving")
	return cmd
}

func migrateCmd() *cobra.Command {
	var printOnly bool
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create the database tables and indexes",
		RunE: func(cmd *cobra.Command, args []string) error {
			if printOnly {
				fmt.Fprint(cmd.OutOrStdout(), database.Schema())
				return nil
			}
			cfg, err := setup()
			if err != nil {
				return err
			}
			db, err := database.Open(cmd.Context(), cfg.DB)
			if err != nil {
				return err
			}
			defer db.Close()
			return database.ApplySchema(cmd.Context(), db)
		},
	}
	cmd.Flags().BoolVar(&printOnly, "print", false, "print the schema instead of applying it")
	return cmd
}

func expirePendingCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "expire-pending",
		Short: "Cancel unpaid pending bookings older than PENDING_BOOKING_TTL once",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := setup()
			if err != nil {
				return err
			}
			ttl, err := cmd.Flags().GetDuration("ttl")
			if err != nil {
				return err
			}
			if ttl <= 0 {
				ttl = cfg.PendingBookingTTL
			}
			db, err := database.Open(cmd.Context(), cfg.DB)
			if err != nil {
				return err
			}
			defer db.Close()

			tokens := utils.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
			n, err := router.NewServices(db, tokens).Booking.ExpirePendingBookings(cmd.Context(), ttl)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "expired %d pending bookings\n", n)
			return nil
		},
	}
	cmd.Flags().Duration("ttl", 0, "age after which unpaid pending bookings are cancelled (default PENDING_BOOKING_TTL)")
	return cmd
}
