package catalog

import (
	"strings"
	"sync"
)

// defaultNetworkSlug is the last-resort network offered when neither the
// catalog nor the static configuration yields any.
const defaultNetworkSlug = "ethereum"

// networkLabels maps well-known network slugs to display labels. Slugs
// outside this table get a title-cased form of the slug itself.
var networkLabels = map[string]string{
	"ethereum": "Ethereum",
	"sepolia":  "Sepolia Testnet",
	"polygon":  "Polygon PoS",
	"arbitrum": "Arbitrum One",
	"optimism": "OP Mainnet",
	"base":     "Base",
	"gnosis":   "Gnosis Chain",
	"bsc":      "BNB Smart Chain",
}

// NetworkChoice is one selectable target network for the deployment form.
type NetworkChoice struct {
	Slug  string `json:"slug"`
	Label string `json:"label"`
}

// Catalog is a process-wide memoized view over the manifest scan and the
// static network configuration. It is constructed once by the
// composition root and shared; the scan runs at most once per Reset.
type Catalog struct {
	store    *ManifestStore
	repoRoot string
	networks []NetworkMetadata

	mu        sync.Mutex
	loaded    bool
	templates []ContractTemplate
}

// New creates a catalog over the given contracts repository root and
// static network set. Nothing is scanned until the first read.
func New(store *ManifestStore, repoRoot string, networks []NetworkMetadata) *Catalog {
	return &Catalog{
		store:    store,
		repoRoot: repoRoot,
		networks: networks,
	}
}

// Templates returns the cached template list, scanning on the first
// call. Concurrent first callers are serialized so the tree is walked
// only once. When the scan yields nothing the built-in fallback list is
// published instead.
func (c *Catalog) Templates() []ContractTemplate {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.loaded {
		templates := c.store.Scan(c.repoRoot)
		if len(templates) == 0 {
			templates = builtinTemplates()
		}
		c.templates = templates
		c.loaded = true
	}
	return c.templates
}

// Reset discards the cached scan result. The next read re-scans.
func (c *Catalog) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loaded = false
	c.templates = nil
}

// NetworkChoices aggregates the default networks of every template in
// catalog order, deduplicated by lowercase slug with first-seen order
// preserved. Falls back to the statically configured slugs, then to a
// single default.
func (c *Catalog) NetworkChoices() []NetworkChoice {
	var slugs []string
	seen := make(map[string]bool)
	for _, template := range c.Templates() {
		for _, network := range template.DefaultNetworks {
			slug := strings.ToLower(network)
			if !seen[slug] {
				seen[slug] = true
				slugs = append(slugs, slug)
			}
		}
	}

	if len(slugs) == 0 {
		for _, network := range c.networks {
			slug := strings.ToLower(network.Slug)
			if !seen[slug] {
				seen[slug] = true
				slugs = append(slugs, slug)
			}
		}
	}
	if len(slugs) == 0 {
		slugs = []string{defaultNetworkSlug}
	}

	choices := make([]NetworkChoice, len(slugs))
	for i, slug := range slugs {
		choices[i] = NetworkChoice{Slug: slug, Label: NetworkLabel(slug)}
	}
	return choices
}

// NetworkMetadata returns the static metadata of the offered networks.
// With includeAll set, every configured network is returned; otherwise
// only networks the current catalog actually offers.
func (c *Catalog) NetworkMetadata(includeAll bool) []NetworkMetadata {
	if includeAll {
		result := make([]NetworkMetadata, len(c.networks))
		copy(result, c.networks)
		return result
	}

	offered := make(map[string]bool)
	for _, choice := range c.NetworkChoices() {
		offered[choice.Slug] = true
	}

	var result []NetworkMetadata
	for _, network := range c.networks {
		if offered[strings.ToLower(network.Slug)] {
			result = append(result, network)
		}
	}
	return result
}

// FindNetwork looks up the static metadata for a slug.
func (c *Catalog) FindNetwork(slug string) (NetworkMetadata, bool) {
	slug = strings.ToLower(slug)
	for _, network := range c.networks {
		if strings.ToLower(network.Slug) == slug {
			return network, true
		}
	}
	return NetworkMetadata{}, false
}

// FindTemplate returns the first catalog entry with the given
// identifier. Duplicate identifiers are tolerated; the first wins.
func (c *Catalog) FindTemplate(identifier string) (ContractTemplate, bool) {
	for _, template := range c.Templates() {
		if template.Identifier == identifier {
			return template, true
		}
	}
	return ContractTemplate{}, false
}

// NetworkLabel resolves the display label for a network slug.
func NetworkLabel(slug string) string {
	if label, ok := networkLabels[strings.ToLower(slug)]; ok {
		return label
	}
	return titleCase(slug)
}
