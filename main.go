package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fleetdesk/internal/auth"
	"fleetdesk/internal/config"
	"fleetdesk/internal/export"
	api "fleetdesk/internal/http"
	"fleetdesk/internal/http/handlers"
	"fleetdesk/internal/mirror"
	"fleetdesk/internal/store"
	"fleetdesk/internal/store/mysqlstore"
)

func main() {
	env := config.LoadEnv()

	if env.CompanyName != "" {
		export.CompanyName = env.CompanyName
	}

	// MySQL when a DSN is configured, in-memory otherwise (dev / tests)
	var st store.Store
	if env.MySQLDSN != "" {
		db, err := config.ConnectDB(env.MySQLDSN)
		if err != nil {
			log.Fatalf("mysql connect failed: %v", err)
		}
		defer db.Close()
		st = mysqlstore.New(db, env.AppID)
		log.Printf("store: mysql app_id=%s", env.AppID)
	} else {
		st = store.NewMemory()
		log.Println("store: in-memory (no MYSQL_DSN configured)")
	}
	defer st.Close()

	authSvc := auth.Service{Store: st, Secret: []byte(env.JWTSecret)}
	sessions := mirror.NewRegistry(st)
	defer sessions.CloseAll()

	a := handlers.API{Auth: authSvc, Store: st, Sessions: sessions}
	r := api.NewRouter(env, a)

	srv := &http.Server{
		Addr:              env.AppAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       20 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("listening on http://localhost%s", env.AppAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("shutdown failed: %v", err)
	}

	log.Println("server stopped cleanly.")
}
