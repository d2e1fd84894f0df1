package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"nacospay/internal/clients"
	"nacospay/internal/config"
	"nacospay/internal/repository"
	"nacospay/internal/service"
	"nacospay/internal/transport/auth"
	"nacospay/internal/transport/rest"
	"nacospay/internal/transport/websocket"
	"nacospay/pkg/database/postgres"

	"github.com/go-chi/chi/v5"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using system env or defaults")
	}

	// top-level context which we can cancel on shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	cfg := config.Load()

	db := mustInitPostgres(cfg.Postgres)
	defer postgres.Close(db)

	if err := repository.Migrate(ctx, db); err != nil {
		log.Fatalf("migrate error: %v", err)
	}

	redisClient := mustInitRedis(cfg.Redis)
	defer redisClient.Close()

	storageClient, err := clients.NewLocalStorage(cfg.ReceiptDir, cfg.FilesPublicPrefix, cfg.ExternalURL)
	if err != nil {
		log.Fatalf("storage init error: %v", err)
	}

	var s3Client *clients.S3Client
	if cfg.S3.Enabled {
		s3Client, err = clients.NewS3Client(ctx, clients.S3Config{
			Endpoint:        cfg.S3.Endpoint,
			AccessKeyID:     cfg.S3.AccessKeyID,
			SecretAccessKey: cfg.S3.SecretAccessKey,
			Bucket:          cfg.S3.Bucket,
			UseSSL:          cfg.S3.UseSSL,
			Region:          cfg.S3.Region,
			Prefix:          cfg.S3.Prefix,
		})
		if err != nil {
			log.Fatalf("s3 init error: %v", err)
		}
	}

	paystackClient := clients.NewPaystackClient(clients.PaystackConfig{
		BaseURL:   cfg.Paystack.BaseURL,
		SecretKey: cfg.Paystack.SecretKey,
		PublicKey: cfg.Paystack.PublicKey,
		Timeout:   time.Duration(cfg.Paystack.Timeout) * time.Second,
	})

	wsHub := websocket.NewHub()
	go wsHub.Run(ctx)
	wsClient := clients.NewWebSocketClient(wsHub)

	memberRepo := repository.NewMemberRepository(db)
	tokenRepo := repository.NewAccessTokenRepository(db)
	ledgerRepo := repository.NewTransactionRepository(db)

	memberSvc := service.NewMemberService(memberRepo, tokenRepo, time.Duration(cfg.TokenTTLHours)*time.Hour)
	paymentSvc := service.NewPaymentService(ledgerRepo, paystackClient, redisClient, wsClient, time.Duration(cfg.IntentTTLMinutes)*time.Minute)
	statusSvc := service.NewStatusService(ledgerRepo, redisClient, time.Duration(cfg.DashboardTTL)*time.Second)
	receiptSvc := service.NewReceiptService(ledgerRepo, storageClient, s3Client, wsClient)

	tokenMiddleware := auth.TokenMiddleware(tokenRepo, memberRepo)

	handler := rest.NewHandler(memberSvc, paymentSvc, statusSvc, receiptSvc)
	router := handler.InitRouter(tokenMiddleware)

	// public root router: generated receipt downloads stay reachable without
	// a token (links may be opened outside the portal session)
	root := chi.NewRouter()

	root.Get("/files/{file}", func(w http.ResponseWriter, r *http.Request) {
		file := chi.URLParam(r, "file")
		path := filepath.Join(storageClient.BaseDir, filepath.Base(file))
		if _, err := os.Stat(path); err != nil {
			if os.IsNotExist(err) {
				http.NotFound(w, r)
				return
			}
			http.Error(w, "failed to access file", http.StatusInternalServerError)
			return
		}

		// prefer the original receipt filename in Content-Disposition
		orig := file
		if idx := strings.IndexByte(file, '_'); idx >= 0 {
			orig = file[idx+1:]
		}
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", orig))

		http.ServeFile(w, r, path)
	})

	// websocket endpoint: the token middleware already accepts a ?token=
	// query parameter, which is how browser websocket clients authenticate
	root.Group(func(r chi.Router) {
		r.Use(tokenMiddleware)
		r.Get("/ws", func(w http.ResponseWriter, r *http.Request) {
			member, err := auth.GetMember(r.Context())
			if err != nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			log.Printf("ws connected: member=%s", member.ID)
			wsHub.HandleWebSocket(w, r, member.ID)
		})
	})

	root.Mount("/", router)

	corsHandler := withCORS(root)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      corsHandler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	srvErr := make(chan error, 1)
	go func() {
		log.Printf("HTTP server listening on :%s\n", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			srvErr <- err
			return
		}
		srvErr <- nil
	}()

	// age out generated receipt files; members can regenerate from the ledger
	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := storageClient.CleanupOlderThan(time.Duration(cfg.ReceiptMaxAgeMin) * time.Minute); err != nil {
					log.Printf("storage cleanup error: %v", err)
				}
			}
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-srvErr:
		if err != nil {
			log.Fatalf("HTTP server error: %v", err)
		}
	case sig := <-stop:
		log.Printf("Shutdown signal received: %v", sig)

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("HTTP server Shutdown error: %v", err)
		}

		// stop the websocket hub and close clients promptly
		cancel()

		postgres.Close(db)
		redisClient.Close()

		log.Println("Shutdown complete")
	}
}

func mustInitPostgres(cfg config.PostgresConfig) *sql.DB {
	db, err := postgres.NewPostgresConnection(postgres.ConnectionInfo{
		Host:     cfg.Host,
		Port:     cfg.Port,
		Username: cfg.User,
		DBName:   cfg.DBName,
		SSLMode:  cfg.SSLMode,
		Password: cfg.Password,
	})
	if err != nil {
		log.Fatalf("postgres init error: %v", err)
	}
	return db
}

func mustInitRedis(cfg config.RedisConfig) *clients.RedisClient {
	client, err := clients.NewRedisClient(clients.RedisConfig{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		MaxRetries:  cfg.MaxRetries,
		DialTimeout: time.Duration(cfg.DialTimeout) * time.Second,
		Timeout:     time.Duration(cfg.Timeout) * time.Second,
		Prefix:      cfg.Prefix,
	})
	if err != nil {
		log.Fatalf("redis init error: %v", err)
	}
	return client
}

func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Vary", "Origin")

			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
