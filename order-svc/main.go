package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"table-ordering/config"
	"table-ordering/logging"
	httpapi "table-ordering/order-svc/internal/api/http"
	"table-ordering/order-svc/internal/domain"
	"table-ordering/order-svc/internal/service"
	"table-ordering/order-svc/internal/storage"
)

func main() {
	cfg := config.Load()
	logger := logging.New(cfg.LogLevel)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logging.IntoContext(ctx, logger)

	venue, err := config.LoadVenue(cfg.VenueFile)
	if err != nil {
		log.Fatal("Failed to load venue:", err)
	}
	tables, err := domain.NewTableSet(tableNumbers(venue.Tables))
	if err != nil {
		log.Fatal("Invalid table configuration:", err)
	}
	seed, err := seedMenu(venue.Menu)
	if err != nil {
		log.Fatal("Invalid seed menu:", err)
	}

	db := config.OpenPostgres(ctx, cfg, logger)
	defer db.Close()
	rdb := config.MustInitRedis(ctx, cfg)
	defer rdb.Close()

	repo := storage.NewPostgresRepository(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		logger.Warn("schema not ensured", slog.Any("error", err))
	}
	cache := storage.NewRedisCache(rdb, cfg.DeviceID)

	gateway := service.NewGateway(repo, cache, logger)
	var notifier service.Notifier = storage.NewLogNotifier(logger)
	if cfg.KafkaBroker != "" {
		publisher := storage.NewKafkaPublisher(config.NewKafkaWriter(cfg, storage.OrderEventsTopic))
		defer publisher.Close()
		feed := storage.NewKafkaFeed(config.NewKafkaReader(cfg, storage.OrderEventsTopic, "order-svc-"+cfg.DeviceID), logger)
		defer feed.Close()
		gateway.WithChangeFeed(publisher, feed)

		kafkaNotifier := storage.NewKafkaNotifier(config.NewKafkaWriter(cfg, storage.NotificationsTopic), logger)
		defer kafkaNotifier.Close()
		notifier = kafkaNotifier
	}

	catalog, err := service.LoadCatalog(ctx, gateway, seed, logger)
	if err != nil {
		log.Fatal("Failed to load menu:", err)
	}
	favorites := service.NewFavorites(cache, logger)
	if err := favorites.Load(ctx, catalog); err != nil {
		logger.Warn("favorites not loaded", slog.Any("error", err))
	}
	settings := service.NewSettings(cache, logger)
	settings.Load(ctx)

	adminEmail := cfg.AdminEmail
	if adminEmail == "" {
		adminEmail = venue.AdminEmail
	}
	profile := service.NewProfile(storage.NewPostgresIdentity(db), gateway, adminEmail, logger)

	session := service.NewSession(service.SessionConfig{
		Gateway:   gateway,
		Tables:    tables,
		Catalog:   catalog,
		Favorites: favorites,
		Notifier:  notifier,
		Logger:    logger,
	})
	if _, err := session.RefreshHistory(ctx); err != nil {
		logger.Warn("history not loaded", slog.Any("error", err))
	}
	watchDone := session.WatchOrders(ctx)

	handler := httpapi.NewHandler(session, catalog, tables, profile, settings, service.TableQRGenerator{}, logger)
	server := httpapi.NewServer(cfg.HTTPAddr, httpapi.NewRouter(handler))

	go func() {
		logger.Info("order service starting", slog.String("addr", cfg.HTTPAddr), slog.String("venue", venue.Name))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP server failed:", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", slog.Any("error", err))
	}
	<-watchDone
}

// tableNumbers prefers the explicit list over the range.
func tableNumbers(t config.TableConfig) []int {
	if len(t.Numbers) > 0 {
		return append([]int(nil), t.Numbers...)
	}
	return domain.TableRange(t.First, t.Last)
}

func seedMenu(entries []config.MenuEntry) ([]domain.MenuItem, error) {
	items := make([]domain.MenuItem, 0, len(entries))
	for _, e := range entries {
		item := domain.MenuItem{
			ID:          e.ID,
			Name:        e.Name,
			Description: e.Description,
			Price:       e.Price,
			Category:    domain.Category(e.Category),
			ImageName:   e.Image,
		}
		if err := item.Validate(); err != nil {
			return nil, fmt.Errorf("menu entry %q: %w", e.Name, err)
		}
		items = append(items, item)
	}
	return items, nil
}
