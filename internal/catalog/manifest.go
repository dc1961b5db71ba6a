package catalog

import (
	"encoding/json"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// ManifestFilename is the descriptor file the scanner looks for anywhere
// under the contracts repository.
const ManifestFilename = "manifest.json"

const defaultDeployMethod = "deployTemplate"

// ManifestStore loads contract templates from manifest files on disk.
// Malformed manifests are logged and skipped; Scan never fails.
type ManifestStore struct {
	filename string
}

// NewManifestStore creates a store scanning for the default manifest
// filename.
func NewManifestStore() *ManifestStore {
	return &ManifestStore{filename: ManifestFilename}
}

// Scan walks rootPath and returns one ContractTemplate per readable,
// well-formed manifest file. A missing root or an empty tree yields an
// empty slice, never an error.
func (s *ManifestStore) Scan(rootPath string) []ContractTemplate {
	if rootPath == "" {
		return nil
	}
	if info, err := os.Stat(rootPath); err != nil || !info.IsDir() {
		return nil
	}

	var templates []ContractTemplate
	filepath.WalkDir(rootPath, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if entry.IsDir() || entry.Name() != s.filename {
			return nil
		}

		manifest, err := loadManifest(path)
		if err != nil {
			log.Printf("catalog: skipping manifest %s: %v", path, err)
			return nil
		}
		templates = append(templates, decodeTemplate(manifest, path))
		return nil
	})

	return templates
}

func loadManifest(path string) (map[string]interface{}, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var manifest map[string]interface{}
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, err
	}
	return manifest, nil
}

// decodeTemplate maps a raw manifest into a ContractTemplate. The
// decode is total: every field falls back to a sensible default, and
// defective entries are dropped rather than aborting the scan.
func decodeTemplate(manifest map[string]interface{}, manifestPath string) ContractTemplate {
	dir := filepath.Dir(manifestPath)

	identifier := stringValue(manifest["id"])
	if identifier == "" {
		identifier = stringValue(manifest["slug"])
	}
	if identifier == "" {
		identifier = filepath.Base(dir)
	}

	displayName := stringValue(manifest["name"])
	if displayName == "" {
		displayName = titleCase(identifier)
	}

	networks := stringList(manifest["networks"])
	if networks == nil {
		networks = stringList(manifest["supportedNetworks"])
	}

	return ContractTemplate{
		Identifier:        identifier,
		DisplayName:       displayName,
		Description:       stringValue(manifest["description"]),
		DefaultNetworks:   networks,
		ConstructorSchema: decodeConstructorSchema(manifest),
		DeploymentConfig:  decodeDeploymentConfig(manifest),
		Artifact:          resolveArtifact(manifest, dir),
		ManifestPath:      manifestPath,
	}
}

// decodeConstructorSchema reads the first present of the
// constructor/parameters/inputs keys. Each may hold the field sequence
// directly or wrap it in an object under fields/inputs/parameters.
func decodeConstructorSchema(manifest map[string]interface{}) []FieldSpec {
	var raw interface{}
	for _, key := range []string{"constructor", "parameters", "inputs"} {
		if value, ok := manifest[key]; ok && value != nil {
			raw = value
			break
		}
	}
	if raw == nil {
		return nil
	}

	entries, ok := raw.([]interface{})
	if !ok {
		wrapper, isMap := raw.(map[string]interface{})
		if !isMap {
			return nil
		}
		for _, key := range []string{"fields", "inputs", "parameters"} {
			if value, isSeq := wrapper[key].([]interface{}); isSeq {
				entries = value
				break
			}
		}
	}

	var schema []FieldSpec
	for _, entry := range entries {
		field, isMap := entry.(map[string]interface{})
		if !isMap {
			continue
		}
		if spec, ok := decodeFieldSpec(field); ok {
			schema = append(schema, spec)
		}
	}
	return schema
}

// decodeDeploymentConfig merges the deploy/deployment/manager block over
// the defaults. Manager maps are normalized to lowercase network keys.
func decodeDeploymentConfig(manifest map[string]interface{}) map[string]interface{} {
	config := map[string]interface{}{
		"method": defaultDeployMethod,
	}

	for _, key := range []string{"deploy", "deployment", "manager"} {
		block, ok := manifest[key].(map[string]interface{})
		if !ok {
			continue
		}
		for k, v := range block {
			config[k] = v
		}
		break
	}

	if managers, ok := config["managers"].(map[string]interface{}); ok {
		normalized := make(map[string]interface{}, len(managers))
		for slug, address := range managers {
			normalized[strings.ToLower(slug)] = address
		}
		config["managers"] = normalized
	}

	return config
}

// resolveArtifact loads the compiled ABI and bytecode, either from a
// referenced sub-file or inline, with the manifest's own abi/bytecode
// keys as the fallback for anything the sub-file does not carry.
func resolveArtifact(manifest map[string]interface{}, dir string) Artifact {
	artifact := Artifact{
		ABI:      manifest["abi"],
		Bytecode: stringValue(manifest["bytecode"]),
	}

	path := artifactPath(manifest)
	if path == "" {
		return artifact
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(dir, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		log.Printf("catalog: artifact file %s unreadable: %v", path, err)
		return artifact
	}
	var contents map[string]interface{}
	if err := json.Unmarshal(data, &contents); err != nil {
		log.Printf("catalog: artifact file %s malformed: %v", path, err)
		return artifact
	}

	if abi, ok := contents["abi"]; ok && abi != nil {
		artifact.ABI = abi
	}
	if bytecode := stringValue(contents["bytecode"]); bytecode != "" {
		artifact.Bytecode = bytecode
	}
	return artifact
}

func artifactPath(manifest map[string]interface{}) string {
	switch value := manifest["artifact"].(type) {
	case string:
		return value
	case map[string]interface{}:
		if path := stringValue(value["path"]); path != "" {
			return path
		}
		return stringValue(value["file"])
	}
	return stringValue(manifest["artifactPath"])
}
