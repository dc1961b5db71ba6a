package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeManifest(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

func TestScanMissingRootReturnsEmpty(t *testing.T) {
	store := NewManifestStore()

	templates := store.Scan(filepath.Join(t.TempDir(), "does-not-exist"))
	assert.Empty(t, templates)
}

func TestScanEmptyTreeReturnsEmpty(t *testing.T) {
	store := NewManifestStore()

	templates := store.Scan(t.TempDir())
	assert.Empty(t, templates)
}

func TestScanSkipsMalformedManifests(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, filepath.Join(root, "good"), ManifestFilename, `{"id":"vault","name":"Vault"}`)
	writeManifest(t, filepath.Join(root, "broken"), ManifestFilename, `{not json at all`)

	templates := NewManifestStore().Scan(root)
	require.Len(t, templates, 1)
	assert.Equal(t, "vault", templates[0].Identifier)
}

func TestScanDerivesIdentifierFromDirectory(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, filepath.Join(root, "escrow_wallet"), ManifestFilename, `{"description":"plain"}`)

	templates := NewManifestStore().Scan(root)
	require.Len(t, templates, 1)
	assert.Equal(t, "escrow_wallet", templates[0].Identifier)
	assert.Equal(t, "Escrow Wallet", templates[0].DisplayName)
}

func TestScanPrefersIdOverSlug(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, filepath.Join(root, "a"), ManifestFilename, `{"id":"primary","slug":"secondary"}`)

	templates := NewManifestStore().Scan(root)
	require.Len(t, templates, 1)
	assert.Equal(t, "primary", templates[0].Identifier)
}

func TestScanNetworksAcceptStringOrList(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, filepath.Join(root, "single"), ManifestFilename, `{"id":"single","networks":"ethereum"}`)
	writeManifest(t, filepath.Join(root, "many"), ManifestFilename, `{"id":"many","supportedNetworks":["polygon","base"]}`)

	templates := NewManifestStore().Scan(root)
	require.Len(t, templates, 2)

	byID := map[string]ContractTemplate{}
	for _, template := range templates {
		byID[template.Identifier] = template
	}
	assert.Equal(t, []string{"ethereum"}, byID["single"].DefaultNetworks)
	assert.Equal(t, []string{"polygon", "base"}, byID["many"].DefaultNetworks)
}

func TestScanConstructorSchemaVariants(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, filepath.Join(root, "raw"), ManifestFilename,
		`{"id":"raw","constructor":[{"name":"amount","type":"uint256"},{"type":"address"}]}`)
	writeManifest(t, filepath.Join(root, "wrapped"), ManifestFilename,
		`{"id":"wrapped","parameters":{"fields":[{"name":"owner","type":"address","required":false}]}}`)

	templates := NewManifestStore().Scan(root)
	require.Len(t, templates, 2)

	byID := map[string]ContractTemplate{}
	for _, template := range templates {
		byID[template.Identifier] = template
	}

	// The nameless entry is dropped.
	raw := byID["raw"]
	require.Len(t, raw.ConstructorSchema, 1)
	assert.Equal(t, "amount", raw.ConstructorSchema[0].Name)

	wrapped := byID["wrapped"]
	require.Len(t, wrapped.ConstructorSchema, 1)
	assert.Equal(t, "owner", wrapped.ConstructorSchema[0].Name)
	assert.False(t, wrapped.ConstructorSchema[0].Required)
}

func TestFieldSpecDefaults(t *testing.T) {
	spec, ok := decodeFieldSpec(map[string]interface{}{"name": "amount", "type": "uint256"})
	require.True(t, ok)

	assert.Equal(t, "amount", spec.Name)
	assert.Equal(t, "uint256", spec.Type)
	assert.Equal(t, "Amount", spec.Label)
	assert.True(t, spec.Required)
	assert.Nil(t, spec.Default)
}

func TestScanDeploymentConfigDefaultsAndManagers(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, filepath.Join(root, "bare"), ManifestFilename, `{"id":"bare"}`)
	writeManifest(t, filepath.Join(root, "managed"), ManifestFilename,
		`{"id":"managed","deploy":{"method":"deployViaFactory","managers":{"Ethereum":"0xAbC","POLYGON":"0xDeF"}}}`)

	templates := NewManifestStore().Scan(root)
	require.Len(t, templates, 2)

	byID := map[string]ContractTemplate{}
	for _, template := range templates {
		byID[template.Identifier] = template
	}

	assert.Equal(t, "deployTemplate", byID["bare"].DeploymentConfig["method"])

	managed := byID["managed"]
	assert.Equal(t, "deployViaFactory", managed.DeploymentConfig["method"])
	managers, ok := managed.DeploymentConfig["managers"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "0xAbC", managers["ethereum"])
	assert.Equal(t, "0xDeF", managers["polygon"])
}

func TestScanResolvesArtifactSubFile(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "token")
	writeManifest(t, dir, ManifestFilename,
		`{"id":"token","artifact":{"path":"build/Token.json"},"bytecode":"0xinline"}`)
	writeManifest(t, filepath.Join(dir, "build"), "Token.json",
		`{"abi":[{"type":"constructor"}],"bytecode":"0x6080"}`)

	templates := NewManifestStore().Scan(root)
	require.Len(t, templates, 1)
	assert.Equal(t, "0x6080", templates[0].Artifact.Bytecode)
	assert.NotNil(t, templates[0].Artifact.ABI)
}

func TestScanArtifactFallsBackToInline(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, filepath.Join(root, "token"), ManifestFilename,
		`{"id":"token","artifactPath":"missing.json","abi":[],"bytecode":"0xinline"}`)

	templates := NewManifestStore().Scan(root)
	require.Len(t, templates, 1)
	assert.Equal(t, "0xinline", templates[0].Artifact.Bytecode)
}

func TestScanToleratesDuplicateIdentifiers(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, filepath.Join(root, "one"), ManifestFilename, `{"id":"dup"}`)
	writeManifest(t, filepath.Join(root, "two"), ManifestFilename, `{"id":"dup"}`)

	templates := NewManifestStore().Scan(root)
	assert.Len(t, templates, 2)
}
