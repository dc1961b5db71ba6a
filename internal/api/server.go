package api

import (
	"fmt"
	"net"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/mycontracts/backend/internal/catalog"
	"github.com/mycontracts/backend/internal/runner"
	"github.com/mycontracts/backend/internal/services"
)

type APIServer struct {
	app         *fiber.App
	catalog     *catalog.Catalog
	deployments services.DeploymentService
	profiles    services.ProfileService
	worker      *runner.Worker
	validate    *validator.Validate
	port        int
}

func NewAPIServer(cat *catalog.Catalog, deployments services.DeploymentService, profiles services.ProfileService, worker *runner.Worker) *APIServer {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	// Add middleware
	app.Use(cors.New())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "15:04:05",
		TimeZone:   "Local",
	}))

	return &APIServer{
		app:         app,
		catalog:     cat,
		deployments: deployments,
		profiles:    profiles,
		worker:      worker,
		validate:    validator.New(),
	}
}

// SetupRoutes registers all endpoints. The catalog is world-readable;
// everything touching deployments or profiles sits behind auth.
func (s *APIServer) SetupRoutes(auth fiber.Handler) {
	s.app.Get("/api/catalog", s.handleCatalog)
	s.app.Get("/api/networks", s.handleNetworks)

	protected := s.app.Group("/api", auth)
	protected.Post("/catalog/refresh", s.handleCatalogRefresh)
	protected.Get("/deployments", s.handleListDeployments)
	protected.Post("/deployments", s.handleCreateDeployment)
	protected.Get("/deployments/:id", s.handleGetDeployment)
	protected.Post("/deployments/:id/cancel", s.handleCancelDeployment)
	protected.Get("/profile", s.handleGetProfile)
	protected.Put("/profile", s.handleUpdateProfile)

	// Health check
	s.app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(map[string]string{"status": "ok"})
	})
}

// Start starts the server on the given port; port 0 picks a random
// available one.
func (s *APIServer) Start(port int) (int, error) {
	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return 0, fmt.Errorf("failed to listen on port %d: %w", port, err)
	}

	s.port = listener.Addr().(*net.TCPAddr).Port

	go func() {
		if err := s.app.Listener(listener); err != nil {
			fmt.Printf("Error starting API server: %v\n", err)
		}
	}()

	return s.port, nil
}

// Port returns the port the server is listening on.
func (s *APIServer) Port() int {
	return s.port
}

// Shutdown gracefully stops the server.
func (s *APIServer) Shutdown() error {
	return s.app.Shutdown()
}
