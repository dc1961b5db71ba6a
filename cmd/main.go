package main

import (
	"flag"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/mycontracts/backend/internal/api"
	"github.com/mycontracts/backend/internal/api/middleware"
	"github.com/mycontracts/backend/internal/config"
	"github.com/mycontracts/backend/internal/server"
)

// Build information (set via ldflags)
var (
	Version    = "dev"
	CommitHash = "unknown"
	BuildTime  = "unknown"
)

func main() {
	var showVersion = flag.Bool("version", false, "Show version information")
	var quiet = flag.Bool("quiet", false, "Disable logging output")
	flag.Parse()

	if *quiet {
		log.SetOutput(io.Discard)
	}

	if *showVersion {
		log.Printf("mycontracts backend\n")
		log.Printf("Version: %s\n", Version)
		log.Printf("Commit: %s\n", CommitHash)
		log.Printf("Built: %s\n", BuildTime)
		return
	}

	// .env is optional; real deployments configure the environment directly.
	godotenv.Load()
	cfg := config.Load()

	if cfg.JwksURI == "" && cfg.DevTokenSecret == "" {
		log.Fatal("Set JWKS_URI or DEV_TOKEN_SECRET so the API can validate tokens")
	}

	db, err := server.InitializeDB(cfg)
	if err != nil {
		log.Fatal("Failed to initialize database:", err)
	}
	defer db.Close()

	deploymentService, profileService := server.InitializeServices(db.GetDB())
	contractCatalog := server.InitializeCatalog(cfg)
	worker := server.InitializeWorker(cfg, deploymentService)
	authenticator := server.InitializeAuthenticator(cfg)

	apiServer := api.NewAPIServer(contractCatalog, deploymentService, profileService, worker)
	apiServer.SetupRoutes(middleware.AuthMiddleware(middleware.AuthConfig{
		JWTAuthenticator: authenticator,
	}))

	port, err := apiServer.Start(cfg.Port)
	if err != nil {
		log.Fatal("Failed to start API server:", err)
	}
	log.Printf("API server started on port %d\n", port)

	// Set up graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c

	log.Println("\nShutting down...")

	worker.Close()
	if err := apiServer.Shutdown(); err != nil {
		log.Printf("Error shutting down API server: %v", err)
	}

	log.Println("Server shut down successfully")
}
