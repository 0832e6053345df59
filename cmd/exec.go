package cmd

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"screening-rsvp/config"
	"screening-rsvp/handlers"
	"screening-rsvp/monitoring"
	"screening-rsvp/security"
	"screening-rsvp/services"
	"screening-rsvp/utils"

	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/plugins/migratecmd"
	"github.com/pocketbase/pocketbase/tools/types"
	pubnub "github.com/pubnub/go"

	_ "screening-rsvp/migrations"
)

func Start() error {
	app := pocketbase.New()

	// Load configuration
	cfg := config.LoadConfig()

	// Initialize Redis
	redisClient := utils.NewRedisClient(cfg.RedisURL, cfg.RedisPassword, cfg.RedisDB)
	defer redisClient.Close()

	// Initialize PubNub (optional, realtime notices are skipped without keys)
	var pn *pubnub.PubNub
	if cfg.PubNubPublishKey != "" && cfg.PubNubSubscribeKey != "" {
		pnConfig := pubnub.NewConfig()
		pnConfig.PublishKey = cfg.PubNubPublishKey
		pnConfig.SubscribeKey = cfg.PubNubSubscribeKey
		pnConfig.SecretKey = cfg.PubNubSecretKey
		pn = pubnub.NewPubNub(pnConfig)
	} else {
		slog.Info("PubNub keys not configured, realtime notices disabled")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize services. All writers to an event's roster share one locker.
	locks := services.NewEventLocker()
	metadataService := services.NewMetadataService(redisClient, cfg)
	rsvpService := services.NewRSVPService(app, pn, locks)
	inviteService := services.NewInviteService(app, locks)
	eventService := services.NewEventService(app, metadataService)
	requestService := services.NewScreeningRequestService(app, metadataService)
	exportService := services.NewExportService(inviteService, cfg.PublicBaseURL)

	limiter := security.NewRateLimiter(redisClient, cfg.RSVPRateLimit, cfg.RSVPRateWindow)

	// Initialize handlers
	inviteHandler := handlers.NewInviteHandler(rsvpService, inviteService, eventService, limiter)
	eventHandler := handlers.NewEventHandler(eventService, inviteService, requestService, limiter)
	adminHandler := handlers.NewAdminHandler(eventService, inviteService, requestService, exportService)

	// Enable migrations
	migratecmd.MustRegister(app, app.RootCmd, migratecmd.Config{
		Automigrate: true,
	})

	if cfg.EnableMetrics {
		monitoring.StartMetricsServer(cfg.MetricsPort)
	}

	// Keep the Prometheus occupancy gauges fresh even when nobody responds
	go refreshOccupancyGauges(ctx, app)

	// Setup graceful shutdown
	go handleShutdown(cancel)

	app.OnServe().BindFunc(func(e *core.ServeEvent) error {
		inviteHandler.RegisterRoutes(e)
		eventHandler.RegisterRoutes(e)
		adminHandler.RegisterRoutes(e)

		// Health check
		e.Router.GET("/health", func(e *core.RequestEvent) error {
			if err := utils.RedisHealthCheck(redisClient); err != nil {
				return e.JSON(503, map[string]string{
					"status": "unhealthy",
					"error":  err.Error(),
				})
			}
			return e.JSON(200, map[string]string{"status": "healthy"})
		})

		log.Println("Server routes registered")

		return e.Next()
	})

	// Start server
	if err := app.Start(); err != nil {
		log.Fatal(err)
	}
	return nil
}

// refreshOccupancyGauges recomputes seat gauges for upcoming events once a
// minute so dashboards recover after a restart.
func refreshOccupancyGauges(ctx context.Context, app *pocketbase.PocketBase) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		var rows []struct {
			EventID    string `db:"event"`
			Confirmed  int    `db:"confirmed"`
			Waitlisted int    `db:"waitlisted"`
		}
		err := app.DB().NewQuery(`
			SELECT i.event AS event,
				SUM(CASE WHEN i.status = 'yes' THEN 1 ELSE 0 END) AS confirmed,
				SUM(CASE WHEN i.status = 'waitlist' THEN 1 ELSE 0 END) AS waitlisted
			FROM invites i
			JOIN events e ON e.id = i.event
			WHERE e.starts_at >= {:now}
			GROUP BY i.event`).
			Bind(dbx.Params{"now": types.NowDateTime().String()}).
			All(&rows)
		if err != nil {
			slog.Error("refresh occupancy gauges", "error", err)
			continue
		}

		for _, row := range rows {
			monitoring.SetOccupancy(row.EventID, row.Confirmed, row.Waitlisted)
		}
	}
}

// handleShutdown handles graceful shutdown
func handleShutdown(cancel context.CancelFunc) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	log.Println("Shutdown signal received, cleaning up...")
	cancel()
}
