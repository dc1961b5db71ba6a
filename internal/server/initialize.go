package server

import (
	"github.com/mycontracts/backend/internal/catalog"
	"github.com/mycontracts/backend/internal/config"
	"github.com/mycontracts/backend/internal/runner"
	"github.com/mycontracts/backend/internal/services"
	"github.com/mycontracts/backend/internal/utils"
	"gorm.io/gorm"
)

// InitializeDB opens the configured database: Postgres when
// DATABASE_URL is set, a local SQLite file otherwise.
func InitializeDB(cfg config.Config) (services.DBService, error) {
	if cfg.DatabaseURL != "" {
		return services.NewPostgresDBService(cfg.DatabaseURL)
	}
	return services.NewSqliteDBService(cfg.DatabasePath)
}

// InitializeServices wires the service layer over one DB handle.
func InitializeServices(db *gorm.DB) (services.DeploymentService, services.ProfileService) {
	deploymentService := services.NewDeploymentService(db)
	profileService := services.NewProfileService(db)
	return deploymentService, profileService
}

// InitializeCatalog builds the memoized catalog over the contracts
// repository checkout.
func InitializeCatalog(cfg config.Config) *catalog.Catalog {
	return catalog.New(catalog.NewManifestStore(), cfg.ContractsRepoPath, cfg.Networks)
}

// InitializeWorker builds the deployment runner and its worker pool.
func InitializeWorker(cfg config.Config, deployments services.DeploymentService) *runner.Worker {
	deployRunner := runner.NewRunner(deployments, cfg.ContractsRepoPath, cfg.DeployInterpreter, cfg.DeployTimeout)
	return runner.NewWorker(deployRunner, cfg.DeployWorkers, 64)
}

// InitializeAuthenticator picks the token validation backend: remote
// JWKS in production, a shared HMAC secret for local development.
func InitializeAuthenticator(cfg config.Config) *utils.JwtAuthenticator {
	if cfg.JwksURI != "" {
		return utils.NewJwtAuthenticator(cfg.JwksURI)
	}
	return utils.NewDevJwtAuthenticator(cfg.DevTokenSecret)
}
