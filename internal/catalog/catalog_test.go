package catalog

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testNetworks() []NetworkMetadata {
	return []NetworkMetadata{
		{Slug: "ethereum", DisplayName: "Ethereum", ChainID: 1, ManagerAddress: "0x1111111111111111111111111111111111111111"},
		{Slug: "polygon", DisplayName: "Polygon PoS", ChainID: 137},
		{Slug: "sepolia", DisplayName: "Sepolia Testnet", ChainID: 11155111},
	}
}

func TestTemplatesFallsBackToBuiltins(t *testing.T) {
	cat := New(NewManifestStore(), filepath.Join(t.TempDir(), "missing"), testNetworks())

	templates := cat.Templates()
	require.Len(t, templates, 3)
	assert.Equal(t, "time_locked_vault", templates[0].Identifier)
	assert.Equal(t, "staking_pool", templates[1].Identifier)
	assert.Equal(t, "dao_treasury", templates[2].Identifier)
}

func TestTemplatesIsMemoizedUntilReset(t *testing.T) {
	root := t.TempDir()
	cat := New(NewManifestStore(), root, testNetworks())

	first := cat.Templates()
	require.Len(t, first, 3) // empty tree, builtins

	// A manifest appearing after the first scan is invisible until Reset.
	writeManifest(t, filepath.Join(root, "fresh"), ManifestFilename, `{"id":"fresh","networks":["sepolia"]}`)
	cached := cat.Templates()
	assert.Equal(t, first, cached)
	assert.Same(t, &first[0], &cached[0])

	cat.Reset()
	rescanned := cat.Templates()
	require.Len(t, rescanned, 1)
	assert.Equal(t, "fresh", rescanned[0].Identifier)
}

func TestNetworkChoicesAggregatesInCatalogOrder(t *testing.T) {
	cat := New(NewManifestStore(), filepath.Join(t.TempDir(), "missing"), testNetworks())

	choices := cat.NetworkChoices()
	slugs := make([]string, len(choices))
	for i, choice := range choices {
		slugs[i] = choice.Slug
	}

	// Builtin order: vault(ethereum, polygon, arbitrum), staking(ethereum,
	// base), treasury(ethereum, polygon, gnosis). First seen wins.
	assert.Equal(t, []string{"ethereum", "polygon", "arbitrum", "base", "gnosis"}, slugs)
}

func TestNetworkChoicesDeduplicatesByLowercase(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, filepath.Join(root, "a"), ManifestFilename, `{"id":"a","networks":["Ethereum","ETHEREUM","polygon"]}`)

	cat := New(NewManifestStore(), root, testNetworks())
	choices := cat.NetworkChoices()
	require.Len(t, choices, 2)
	assert.Equal(t, "ethereum", choices[0].Slug)
	assert.Equal(t, "polygon", choices[1].Slug)
}

func TestNetworkChoicesFallsBackToConfiguredSlugs(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, filepath.Join(root, "plain"), ManifestFilename, `{"id":"plain"}`)

	cat := New(NewManifestStore(), root, testNetworks())
	choices := cat.NetworkChoices()
	require.Len(t, choices, 3)
	assert.Equal(t, "ethereum", choices[0].Slug)
	assert.Equal(t, "sepolia", choices[2].Slug)
}

func TestNetworkChoicesFallsBackToDefaultSlug(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, filepath.Join(root, "plain"), ManifestFilename, `{"id":"plain"}`)

	cat := New(NewManifestStore(), root, nil)
	choices := cat.NetworkChoices()
	require.Len(t, choices, 1)
	assert.Equal(t, "ethereum", choices[0].Slug)
}

func TestNetworkLabels(t *testing.T) {
	assert.Equal(t, "Ethereum", NetworkLabel("ethereum"))
	assert.Equal(t, "Gnosis Chain", NetworkLabel("GNOSIS"))
	assert.Equal(t, "Scroll Testnet", NetworkLabel("scroll_testnet"))
}

func TestNetworkMetadataFiltersToOfferedNetworks(t *testing.T) {
	cat := New(NewManifestStore(), filepath.Join(t.TempDir(), "missing"), testNetworks())

	// Builtins offer ethereum/polygon/arbitrum/base/gnosis; only the
	// first two are configured.
	offered := cat.NetworkMetadata(false)
	require.Len(t, offered, 2)
	assert.Equal(t, "ethereum", offered[0].Slug)
	assert.Equal(t, "polygon", offered[1].Slug)

	all := cat.NetworkMetadata(true)
	require.Len(t, all, 3)
	assert.Equal(t, "sepolia", all[2].Slug)
}

func TestFindTemplateReturnsFirstMatch(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, filepath.Join(root, "one"), ManifestFilename, `{"id":"dup","name":"First"}`)
	writeManifest(t, filepath.Join(root, "two"), ManifestFilename, `{"id":"dup","name":"Second"}`)

	cat := New(NewManifestStore(), root, testNetworks())
	template, ok := cat.FindTemplate("dup")
	require.True(t, ok)
	assert.Equal(t, "dup", template.Identifier)

	_, ok = cat.FindTemplate("nope")
	assert.False(t, ok)
}

func TestConcurrentFirstReadsScanOnce(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, filepath.Join(root, "a"), ManifestFilename, `{"id":"a"}`)

	cat := New(NewManifestStore(), root, testNetworks())

	results := make(chan []ContractTemplate, 8)
	for i := 0; i < 8; i++ {
		go func() {
			results <- cat.Templates()
		}()
	}

	first := <-results
	for i := 1; i < 8; i++ {
		next := <-results
		require.Len(t, next, 1)
		assert.Same(t, &first[0], &next[0])
	}
}
