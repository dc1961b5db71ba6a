package catalog

import "strings"

// FieldSpec describes one constructor parameter of a contract template,
// used for form rendering and input validation.
type FieldSpec struct {
	Name        string      `json:"name"`
	Type        string      `json:"type"`
	Label       string      `json:"label"`
	Placeholder string      `json:"placeholder,omitempty"`
	Description string      `json:"description,omitempty"`
	Required    bool        `json:"required"`
	Default     interface{} `json:"default"`
}

// Artifact is the compiled contract output referenced by a manifest.
type Artifact struct {
	ABI      interface{} `json:"abi,omitempty"`
	Bytecode string      `json:"bytecode,omitempty"`
}

// ContractTemplate is one deployable contract blueprint. Templates are
// immutable once loaded; identity is the Identifier. Duplicate
// identifiers across manifests are tolerated.
type ContractTemplate struct {
	Identifier        string                 `json:"identifier"`
	DisplayName       string                 `json:"display_name"`
	Description       string                 `json:"description"`
	DefaultNetworks   []string               `json:"default_networks,omitempty"`
	ConstructorSchema []FieldSpec            `json:"constructor_schema,omitempty"`
	DeploymentConfig  map[string]interface{} `json:"deployment_config,omitempty"`
	Artifact          Artifact               `json:"artifact"`
	ManifestPath      string                 `json:"-"`
}

// NetworkMetadata describes one statically configured target network.
type NetworkMetadata struct {
	Slug           string `json:"slug"`
	DisplayName    string `json:"display_name"`
	ChainID        int64  `json:"chain_id"`
	RPCURL         string `json:"rpc_url,omitempty"`
	ManagerAddress string `json:"manager_address,omitempty"`
}

// decodeFieldSpec builds a FieldSpec from a raw manifest entry. Entries
// without a name are rejected. Required defaults to true unless the
// manifest says otherwise.
func decodeFieldSpec(raw map[string]interface{}) (FieldSpec, bool) {
	name := stringValue(raw["name"])
	if name == "" {
		return FieldSpec{}, false
	}

	spec := FieldSpec{
		Name:        name,
		Type:        stringValue(raw["type"]),
		Label:       stringValue(raw["label"]),
		Placeholder: stringValue(raw["placeholder"]),
		Description: stringValue(raw["description"]),
		Required:    true,
		Default:     raw["default"],
	}
	if spec.Type == "" {
		spec.Type = "string"
	}
	if spec.Label == "" {
		spec.Label = titleCase(name)
	}
	if required, ok := raw["required"].(bool); ok {
		spec.Required = required
	}
	return spec, true
}

func stringValue(v interface{}) string {
	s, _ := v.(string)
	return s
}

// stringList accepts either a single string or a sequence of values and
// returns them as strings. Non-string sequence entries are stringified
// only when they already are strings; everything else is dropped.
func stringList(v interface{}) []string {
	switch value := v.(type) {
	case string:
		if value == "" {
			return nil
		}
		return []string{value}
	case []interface{}:
		items := make([]string, 0, len(value))
		for _, item := range value {
			if s := stringValue(item); s != "" {
				items = append(items, s)
			}
		}
		if len(items) == 0 {
			return nil
		}
		return items
	}
	return nil
}

// titleCase converts an identifier like "time_locked_vault" into
// "Time Locked Vault".
func titleCase(s string) string {
	words := strings.FieldsFunc(s, func(r rune) bool {
		return r == '_' || r == ' ' || r == '-'
	})
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}
