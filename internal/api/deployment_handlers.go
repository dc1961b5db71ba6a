package api

import (
	"encoding/json"
	"errors"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gofiber/fiber/v2"
	"github.com/mycontracts/backend/internal/api/middleware"
	"github.com/mycontracts/backend/internal/models"
	"github.com/mycontracts/backend/internal/runner"
	"gorm.io/gorm"
)

// reportScope is the JWT scope required to use the client-reported
// outcome channel. Plain ownership is not enough to assert a
// deployment result the server never observed.
const reportScope = "deployments:report"

type createDeploymentRequest struct {
	TemplateID           string      `validate:"required,max=128"`
	Network              string      `validate:"required,max=64"`
	FundingWallet        string      `validate:"required,max=128"`
	DeployerWallet       string      `validate:"max=128"`
	ConstructorArguments models.JSON `validate:"-"`

	// Client-reported outcome fields; Status set means the record is
	// created directly in a terminal state.
	Status          string
	TransactionHash string
	ContractAddress string
	ChainID         int64
	Metadata        models.JSON
}

// handleListDeployments returns the authenticated user's deployments,
// newest first.
func (s *APIServer) handleListDeployments(c *fiber.Ctx) error {
	user := middleware.GetAuthenticatedUser(c)
	limit := c.QueryInt("limit", 0)

	deployments, err := s.deployments.ListDeploymentsByUser(user.Sub, limit)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to list deployments"})
	}
	return c.JSON(fiber.Map{"deployments": deployments})
}

// handleGetDeployment returns one deployment owned by the caller.
func (s *APIServer) handleGetDeployment(c *fiber.Ctx) error {
	user := middleware.GetAuthenticatedUser(c)
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid deployment id"})
	}

	deployment, err := s.deployments.GetUserDeployment(uint(id), user.Sub)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(404).JSON(fiber.Map{"error": "Deployment not found"})
	}
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to load deployment"})
	}
	return c.JSON(deployment)
}

// handleCreateDeployment accepts a deployment request, either queuing
// it for the runner or, for trusted reporting clients, recording a
// terminal outcome directly.
func (s *APIServer) handleCreateDeployment(c *fiber.Ctx) error {
	user := middleware.GetAuthenticatedUser(c)

	req, errMsg := decodeCreateDeploymentRequest(c.Body())
	if errMsg != "" {
		return c.Status(400).JSON(fiber.Map{"error": errMsg})
	}

	if err := s.validate.Struct(req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid deployment request", "details": err.Error()})
	}
	if !common.IsHexAddress(req.FundingWallet) {
		return c.Status(400).JSON(fiber.Map{"error": "Funding wallet is not a valid address"})
	}
	if req.DeployerWallet != "" && !common.IsHexAddress(req.DeployerWallet) {
		return c.Status(400).JSON(fiber.Map{"error": "Deployer wallet is not a valid address"})
	}

	template, ok := s.catalog.FindTemplate(req.TemplateID)
	if !ok {
		return c.Status(400).JSON(fiber.Map{"error": "Unknown contract template"})
	}

	network := strings.ToLower(req.Network)
	if !s.networkOffered(network) {
		return c.Status(400).JSON(fiber.Map{"error": "Network is not available for deployment"})
	}

	record := &models.ContractDeployment{
		UserID:               user.Sub,
		TemplateID:           template.Identifier,
		TemplateName:         template.DisplayName,
		Network:              network,
		FundingWallet:        req.FundingWallet,
		DeployerWallet:       req.DeployerWallet,
		ConstructorArguments: req.ConstructorArguments,
		ManagerAddress:       s.resolveManagerAddress(template.DeploymentConfig, network),
		DeploymentMetadata:   req.Metadata,
	}
	if meta, ok := s.catalog.FindNetwork(network); ok {
		record.ChainID = meta.ChainID
	}

	// Trusted clients may report an outcome they observed themselves,
	// bypassing the runner entirely.
	if req.Status != "" {
		return s.createReportedDeployment(c, record, req)
	}

	if err := s.deployments.CreateDeployment(record); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to create deployment"})
	}

	if err := s.worker.Submit(record, template); err != nil {
		reason := "Deployment queue unavailable."
		if errors.Is(err, runner.ErrQueueFull) {
			reason = "Deployment queue is full, try again later."
		}
		if markErr := s.deployments.MarkFailed(record.ID, reason); markErr != nil {
			log.Printf("api: could not mark deployment %d failed: %v", record.ID, markErr)
		}
		record.Status = models.DeploymentStatusFailed
		record.StatusMessage = reason
		return c.Status(503).JSON(fiber.Map{"error": reason, "deployment": record})
	}

	return c.Status(201).JSON(record)
}

// createReportedDeployment persists a client-asserted terminal outcome.
// Requires the reporting scope on top of ownership.
func (s *APIServer) createReportedDeployment(c *fiber.Ctx, record *models.ContractDeployment, req createDeploymentRequest) error {
	user := middleware.GetAuthenticatedUser(c)
	if !user.HasScope(reportScope) {
		return c.Status(403).JSON(fiber.Map{"error": "Reporting deployment outcomes requires the deployments:report scope"})
	}

	status := models.DeploymentStatus(req.Status)
	if !status.IsTerminal() {
		return c.Status(400).JSON(fiber.Map{"error": "Reported status must be simulated, succeeded or failed"})
	}

	now := time.Now()
	record.Status = status
	record.StatusMessage = "Outcome reported by client."
	record.TransactionHash = req.TransactionHash
	record.ContractAddress = req.ContractAddress
	record.CompletedAt = &now
	if req.ChainID != 0 {
		record.ChainID = req.ChainID
	}

	if err := s.deployments.CreateDeployment(record); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to create deployment"})
	}
	return c.Status(201).JSON(record)
}

// handleCancelDeployment aborts an in-flight deployment, best effort.
func (s *APIServer) handleCancelDeployment(c *fiber.Ctx) error {
	user := middleware.GetAuthenticatedUser(c)
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid deployment id"})
	}

	deployment, err := s.deployments.GetUserDeployment(uint(id), user.Sub)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(404).JSON(fiber.Map{"error": "Deployment not found"})
	}
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to load deployment"})
	}

	if deployment.Status.IsTerminal() {
		return c.Status(409).JSON(fiber.Map{"error": "Deployment already completed"})
	}

	cancelled := s.worker.Cancel(deployment.ID)
	return c.Status(202).JSON(fiber.Map{
		"status":    "cancelling",
		"in_flight": cancelled,
	})
}

// decodeCreateDeploymentRequest reads the request body accepting both
// snake_case and camelCase key spellings. Returns a user-facing error
// message when the body is unusable.
func decodeCreateDeploymentRequest(body []byte) (createDeploymentRequest, string) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return createDeploymentRequest{}, "Request body must be a JSON object"
	}

	req := createDeploymentRequest{
		TemplateID:      pickString(raw, "template_id", "templateId"),
		Network:         pickString(raw, "network"),
		FundingWallet:   pickString(raw, "funding_wallet", "fundingWallet"),
		DeployerWallet:  pickString(raw, "deployer_wallet", "deployerWallet"),
		Status:          pickString(raw, "status"),
		TransactionHash: pickString(raw, "transaction_hash", "transactionHash"),
		ContractAddress: pickString(raw, "contract_address", "contractAddress"),
	}

	if value, ok := pickRaw(raw, "chain_id", "chainId"); ok {
		if err := json.Unmarshal(value, &req.ChainID); err != nil {
			return req, "Chain id must be a number"
		}
	}

	if value, ok := pickRaw(raw, "constructor_arguments", "constructorArguments"); ok {
		var args map[string]interface{}
		if err := json.Unmarshal(value, &args); err != nil {
			return req, "Constructor arguments must be a JSON object"
		}
		req.ConstructorArguments = args
	}

	if value, ok := pickRaw(raw, "metadata", "deployment_metadata", "deploymentMetadata"); ok {
		var meta map[string]interface{}
		if err := json.Unmarshal(value, &meta); err != nil {
			return req, "Metadata must be a JSON object"
		}
		req.Metadata = meta
	}

	return req, ""
}

func pickRaw(body map[string]json.RawMessage, keys ...string) (json.RawMessage, bool) {
	for _, key := range keys {
		if value, ok := body[key]; ok && string(value) != "null" {
			return value, true
		}
	}
	return nil, false
}

func pickString(body map[string]json.RawMessage, keys ...string) string {
	value, ok := pickRaw(body, keys...)
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(value, &s); err != nil {
		return ""
	}
	return s
}

// networkOffered checks the requested slug against the current catalog
// choices.
func (s *APIServer) networkOffered(slug string) bool {
	for _, choice := range s.catalog.NetworkChoices() {
		if choice.Slug == slug {
			return true
		}
	}
	return false
}

// resolveManagerAddress picks the manager contract for a network: the
// template's own managers map wins, then the static network metadata.
func (s *APIServer) resolveManagerAddress(deploymentConfig map[string]interface{}, network string) string {
	if managers, ok := deploymentConfig["managers"].(map[string]interface{}); ok {
		if address, ok := managers[network].(string); ok && address != "" {
			return address
		}
	}
	if meta, ok := s.catalog.FindNetwork(network); ok {
		return meta.ManagerAddress
	}
	return ""
}
