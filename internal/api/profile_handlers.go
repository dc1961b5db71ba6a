package api

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/gofiber/fiber/v2"
	"github.com/mycontracts/backend/internal/api/middleware"
	"github.com/mycontracts/backend/internal/services"
)

// handleGetProfile returns the caller's profile, creating it on first
// access.
func (s *APIServer) handleGetProfile(c *fiber.Ctx) error {
	user := middleware.GetAuthenticatedUser(c)

	profile, err := s.profiles.GetOrCreateProfile(user.Sub)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to load profile"})
	}
	return c.JSON(profile)
}

// handleUpdateProfile overwrites the caller's editable profile fields.
func (s *APIServer) handleUpdateProfile(c *fiber.Ctx) error {
	user := middleware.GetAuthenticatedUser(c)

	var update services.ProfileUpdate
	if err := c.BodyParser(&update); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := s.validate.Struct(update); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid profile", "details": err.Error()})
	}
	if update.WalletAddress != "" && !common.IsHexAddress(update.WalletAddress) {
		return c.Status(400).JSON(fiber.Map{"error": "Wallet address is not a valid address"})
	}
	if update.PreferredNetwork != "" {
		if _, ok := s.catalog.FindNetwork(update.PreferredNetwork); !ok {
			return c.Status(400).JSON(fiber.Map{"error": "Unknown preferred network"})
		}
	}

	profile, err := s.profiles.UpdateProfile(user.Sub, update)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to update profile"})
	}
	return c.JSON(profile)
}
