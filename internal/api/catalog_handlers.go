package api

import (
	"github.com/gofiber/fiber/v2"
)

// handleCatalog returns the template catalog plus the network choices
// for the deployment form.
func (s *APIServer) handleCatalog(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"templates": s.catalog.Templates(),
		"networks":  s.catalog.NetworkChoices(),
	})
}

// handleNetworks returns network metadata. ?all=true includes networks
// the current catalog does not offer.
func (s *APIServer) handleNetworks(c *fiber.Ctx) error {
	includeAll := c.QueryBool("all", false)
	return c.JSON(fiber.Map{
		"networks": s.catalog.NetworkMetadata(includeAll),
	})
}

// handleCatalogRefresh drops the cached scan so the next catalog read
// walks the manifest tree again.
func (s *APIServer) handleCatalogRefresh(c *fiber.Ctx) error {
	s.catalog.Reset()
	return c.JSON(fiber.Map{
		"status":    "ok",
		"templates": len(s.catalog.Templates()),
	})
}
