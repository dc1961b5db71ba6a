package config

import (
	"os"
	"strconv"
	"time"

	"github.com/mycontracts/backend/internal/catalog"
)

// Config collects everything the process reads from the environment.
type Config struct {
	// Port is the HTTP listen port. Zero picks a random free port.
	Port int
	// DatabaseURL selects Postgres when set; otherwise DatabasePath
	// opens a local SQLite file.
	DatabaseURL  string
	DatabasePath string
	// ContractsRepoPath is the checkout of the external deployer
	// repository holding template manifests and the deploy script.
	ContractsRepoPath string
	// DeployInterpreter runs the deploy script (python3 by default).
	DeployInterpreter string
	// DeployTimeout bounds one deployment subprocess.
	DeployTimeout time.Duration
	// DeployWorkers is the number of concurrent deployment runners.
	DeployWorkers int
	// JwksURI enables JWKS-backed token validation when set.
	JwksURI string
	// DevTokenSecret enables HMAC-signed local dev tokens when set.
	DevTokenSecret string

	Networks []catalog.NetworkMetadata
}

// Load reads the configuration from environment variables, applying
// defaults for everything unset.
func Load() Config {
	return Config{
		Port:              envInt("PORT", 8080),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		DatabasePath:      envString("DATABASE_PATH", "mycontracts.db"),
		ContractsRepoPath: envString("CONTRACTS_REPO_PATH", "external/smart-ultra-deployer"),
		DeployInterpreter: envString("DEPLOY_INTERPRETER", "python3"),
		DeployTimeout:     envDuration("DEPLOY_TIMEOUT", 10*time.Minute),
		DeployWorkers:     envInt("DEPLOY_WORKERS", 2),
		JwksURI:           os.Getenv("JWKS_URI"),
		DevTokenSecret:    os.Getenv("DEV_TOKEN_SECRET"),
		Networks:          DefaultNetworks(),
	}
}

// DefaultNetworks is the static network metadata table, keyed by slug.
// Manager addresses come from the environment so deployments against a
// given chain can be pointed at the right manager contract.
func DefaultNetworks() []catalog.NetworkMetadata {
	return []catalog.NetworkMetadata{
		{
			Slug:           "ethereum",
			DisplayName:    catalog.NetworkLabel("ethereum"),
			ChainID:        1,
			RPCURL:         os.Getenv("ETHEREUM_RPC_URL"),
			ManagerAddress: os.Getenv("ETHEREUM_MANAGER_ADDRESS"),
		},
		{
			Slug:           "sepolia",
			DisplayName:    catalog.NetworkLabel("sepolia"),
			ChainID:        11155111,
			RPCURL:         os.Getenv("SEPOLIA_RPC_URL"),
			ManagerAddress: os.Getenv("SEPOLIA_MANAGER_ADDRESS"),
		},
		{
			Slug:           "polygon",
			DisplayName:    catalog.NetworkLabel("polygon"),
			ChainID:        137,
			RPCURL:         os.Getenv("POLYGON_RPC_URL"),
			ManagerAddress: os.Getenv("POLYGON_MANAGER_ADDRESS"),
		},
		{
			Slug:           "arbitrum",
			DisplayName:    catalog.NetworkLabel("arbitrum"),
			ChainID:        42161,
			RPCURL:         os.Getenv("ARBITRUM_RPC_URL"),
			ManagerAddress: os.Getenv("ARBITRUM_MANAGER_ADDRESS"),
		},
		{
			Slug:           "base",
			DisplayName:    catalog.NetworkLabel("base"),
			ChainID:        8453,
			RPCURL:         os.Getenv("BASE_RPC_URL"),
			ManagerAddress: os.Getenv("BASE_MANAGER_ADDRESS"),
		},
		{
			Slug:           "gnosis",
			DisplayName:    catalog.NetworkLabel("gnosis"),
			ChainID:        100,
			RPCURL:         os.Getenv("GNOSIS_RPC_URL"),
			ManagerAddress: os.Getenv("GNOSIS_MANAGER_ADDRESS"),
		},
	}
}

func envString(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return fallback
}
