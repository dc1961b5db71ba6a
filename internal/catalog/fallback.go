package catalog

// builtinTemplates keeps the UI operational until the external contracts
// repository is mounted.
func builtinTemplates() []ContractTemplate {
	return []ContractTemplate{
		{
			Identifier:      "time_locked_vault",
			DisplayName:     "Time Locked Vault",
			Description:     "Staged release of tokens or treasury funds on a fixed schedule.",
			DefaultNetworks: []string{"ethereum", "polygon", "arbitrum"},
			ConstructorSchema: []FieldSpec{
				{Name: "beneficiary", Type: "address", Label: "Beneficiary", Required: true},
				{Name: "release_timestamp", Type: "uint256", Label: "Release Timestamp", Required: true},
			},
			DeploymentConfig: map[string]interface{}{"method": defaultDeployMethod},
		},
		{
			Identifier:      "staking_pool",
			DisplayName:     "Staking Pool",
			Description:     "Configurable-yield staking pool for loyalty programs.",
			DefaultNetworks: []string{"ethereum", "base"},
			ConstructorSchema: []FieldSpec{
				{Name: "staking_token", Type: "address", Label: "Staking Token", Required: true},
				{Name: "reward_rate", Type: "uint256", Label: "Reward Rate", Required: true},
			},
			DeploymentConfig: map[string]interface{}{"method": defaultDeployMethod},
		},
		{
			Identifier:      "dao_treasury",
			DisplayName:     "DAO Treasury Multisig",
			Description:     "Multisig wallet template with yearly role rotation.",
			DefaultNetworks: []string{"ethereum", "polygon", "gnosis"},
			ConstructorSchema: []FieldSpec{
				{Name: "owners", Type: "address[]", Label: "Owners", Required: true},
				{Name: "threshold", Type: "uint256", Label: "Threshold", Required: true},
			},
			DeploymentConfig: map[string]interface{}{"method": defaultDeployMethod},
		},
	}
}
