package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"security-monitor/internal/config"
	domainDevice "security-monitor/internal/domain/device"
	"security-monitor/internal/ingestion"
	"security-monitor/internal/logger"
	"security-monitor/internal/monitor"
	"security-monitor/internal/routes"
	deviceUsecase "security-monitor/internal/usecase/device"
	eventUsecase "security-monitor/internal/usecase/event"
	"security-monitor/internal/ws"
	pkgmqtt "security-monitor/pkg/mqtt"

	"security-monitor/internal/infrastructure/database/postgres"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(cfg.Server.Environment); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	db, err := postgres.NewDB(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	deviceRepo := postgres.NewDeviceRepository(db)
	eventRepo := postgres.NewEventRepository(db)

	hub := ws.NewHub()
	eventService := eventUsecase.NewService(eventRepo)
	deviceService := deviceUsecase.NewService(deviceRepo, eventRepo, hub)

	if cfg.Server.SeedDemoData {
		seedDemoDevices(deviceService, deviceRepo)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	liveness := monitor.NewLiveness(
		deviceRepo,
		eventRepo,
		hub,
		time.Duration(cfg.Monitor.TimeoutMinutes)*time.Minute,
		cfg.Monitor.SweepInterval,
	)
	go liveness.Run(ctx)

	if cfg.Simulator.Enabled {
		simulator := monitor.NewSimulator(deviceRepo, deviceService, cfg.Simulator.Interval)
		go simulator.Run(ctx)
	}

	var bridge *ingestion.MQTTBridge
	if cfg.MQTT.Enabled {
		bridge, err = ingestion.NewMQTTBridge(&ingestion.MQTTBridgeConfig{
			ClientConfig: &pkgmqtt.Config{
				Broker:               cfg.MQTT.Broker,
				ClientID:             cfg.MQTT.ClientID,
				Username:             cfg.MQTT.Username,
				Password:             cfg.MQTT.Password,
				CleanSession:         true,
				KeepAlive:            30 * time.Second,
				ConnectTimeout:       10 * time.Second,
				AutoReconnect:        true,
				MaxReconnectInterval: time.Minute,
			},
			StatusTopic:    cfg.MQTT.StatusTopic,
			HeartbeatTopic: cfg.MQTT.HeartbeatTopic,
			QoS:            byte(cfg.MQTT.QoS),
		}, deviceService)
		if err != nil {
			logger.Fatal("Failed to create MQTT bridge", zap.Error(err))
		}
		if err := bridge.Start(); err != nil {
			logger.Error("Failed to start MQTT bridge, continuing without it", zap.Error(err))
			bridge = nil
		}
	}

	router := routes.SetupRoutes(cfg, db, deviceService, eventService, hub)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Starting server", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server")
	cancel()
	if bridge != nil {
		bridge.Stop()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}

// seedDemoDevices registers a few well-known devices on an empty store so a
// fresh deployment has something to show on the dashboard.
func seedDemoDevices(service *deviceUsecase.Service, repo domainDevice.Repository) {
	ctx := context.Background()

	existing, err := repo.List(ctx)
	if err != nil {
		logger.Error("Failed to check for existing devices, skipping seed", zap.Error(err))
		return
	}
	if len(existing) > 0 {
		return
	}

	demo := []deviceUsecase.CreateDeviceRequest{
		{Name: "Room Window", Type: "window", Location: "Room 1"},
		{Name: "Front door", Type: "door", Location: "Main Entrance"},
		{Name: "Back door", Type: "door", Location: "Back Entrance"},
	}

	for i := range demo {
		if _, err := service.Create(ctx, &demo[i]); err != nil {
			logger.Error("Failed to seed demo device",
				zap.String("name", demo[i].Name),
				zap.Error(err),
			)
		}
	}

	logger.Info("Seeded demo devices", zap.Int("count", len(demo)))
}
