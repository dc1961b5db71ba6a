package runner

import "regexp"

// txHashPattern matches the first 0x-prefixed run of at least 32 hex
// digits anywhere in the script output. Deploy scripts print the hash in
// free-form text, so this stays a heuristic.
var txHashPattern = regexp.MustCompile(`0x[0-9a-fA-F]{32,}`)

// ExtractTransactionHash returns the first transaction-hash-looking
// substring of output, or an empty string when none is present.
func ExtractTransactionHash(output string) string {
	return txHashPattern.FindString(output)
}
