// Command server runs the vessel data synchronization service.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/GhanaNauticalnfo/snapper-sub001/internal/config"
	"github.com/GhanaNauticalnfo/snapper-sub001/internal/db"
	"github.com/GhanaNauticalnfo/snapper-sub001/internal/notify"
	"github.com/GhanaNauticalnfo/snapper-sub001/internal/server"
	"github.com/GhanaNauticalnfo/snapper-sub001/internal/store"
	"github.com/GhanaNauticalnfo/snapper-sub001/internal/synclog"
)

func main() {
	cfg := config.Load()

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(level)
	}

	database, err := db.Open(cfg.DataDir)
	if err != nil {
		logger.WithError(err).Fatal("failed to open database")
	}
	defer database.Close()

	if err := db.NewMigrator(database.DB).Up(); err != nil {
		logger.WithError(err).Fatal("failed to run migrations")
	}

	hub := notify.NewHub(logger)
	sinks := []notify.Sink{hub}

	var broker *notify.BrokerSink
	if cfg.MQTTURL != "" {
		broker = notify.NewBrokerSink(cfg.MQTTURL, cfg.MQTTClientID, cfg.MQTTTopic, logger)
		sinks = append(sinks, broker)
	}
	notifier := notify.NewNotifier(logger, sinks...)

	syncService := synclog.NewService(database.DB, notifier, logger)
	dataStore := store.NewStore(database.DB, syncService)

	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: server.New(syncService, dataStore, hub, logger).Router(),
	}

	go func() {
		logger.WithField("addr", cfg.HTTPAddr).Info("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.WithError(err).Warn("shutdown incomplete")
	}
	if broker != nil {
		broker.Close()
	}
}
