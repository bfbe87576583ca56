// Command nommie-server wires the database, orchestration, and realtime
// layers together and serves the WebSocket endpoint. It performs no game
// logic itself and serves only /ws and a /healthz probe; there are no
// HTTP routes for game commands.
package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"nommie/internal/ai"
	"nommie/internal/realtime"
	"nommie/internal/service"
	"nommie/internal/store"
	"nommie/pkg/config"
)

func main() {
	configPath := flag.String("config", ".", "directory to search for nommie.yaml")
	flag.Parse()

	log := logrus.StandardLogger()
	log.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.WithError(err).Fatal("nommie-server: failed to load configuration")
	}
	if level, lerr := logrus.ParseLevel(cfg.LogLevel); lerr == nil {
		log.SetLevel(level)
	}
	realtime.Configure(cfg.HeartbeatWrite, cfg.HeartbeatPong, cfg.HeartbeatPing)

	gdb, err := gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		log.WithError(err).Fatal("nommie-server: failed to open database")
	}
	if sqlDB, serr := gdb.DB(); serr == nil {
		sqlDB.SetMaxOpenConns(cfg.DatabaseMaxOpen)
	}
	if err := store.AutoMigrate(gdb); err != nil {
		log.WithError(err).Fatal("nommie-server: failed to migrate schema")
	}

	db := store.NewDatabase(gdb)
	games := store.NewGameRepo()
	rounds := store.NewRoundRepo()
	memberships := store.NewMembershipRepo()
	factory := ai.NewFactory()

	orch := service.NewOrchestrator(db, games, rounds, memberships, factory, cfg.AIMaxIterations, log)

	snapshots := realtime.NewSnapshotCache()
	registry := realtime.NewRegistry(snapshots, log)
	bcast := realtime.NewBroadcast(registry, snapshots, orch, memberships, log)
	orch.SetBroadcaster(bcast)

	handler := realtime.NewHandler(registry, bcast, orch, devAuthenticator, log)

	mux := http.NewServeMux()
	mux.Handle("/ws", handler)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	srv := &http.Server{Addr: cfg.ListenAddr, Handler: mux}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	go func() {
		log.WithField("addr", cfg.ListenAddr).Info("nommie-server: listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("nommie-server: server error")
		}
	}()

	<-ctx.Done()
	log.Info("nommie-server: shutting down")
	shutdownCtx, shutdownCancel := context.WithCancel(context.Background())
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("nommie-server: graceful shutdown failed")
	}
}

// devAuthenticator trusts a user_id query parameter. It is a placeholder
// for the session-cookie or bearer-token authentication a real deployment
// would front this with; wiring that in is outside this exercise's scope.
func devAuthenticator(r *http.Request) (int64, bool) {
	raw := r.URL.Query().Get("user_id")
	if raw == "" {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}
