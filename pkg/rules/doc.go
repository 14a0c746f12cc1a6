// Package rules models the exclusion rule list and evaluates it against the
// active build conditions.
//
// # Condition Conventions
//
// Each rule maps an asset path to an ordered list of condition tokens:
//
//   - `STORE_GOOGLEPLAY` - include the asset when the define is active
//   - `!DEBUG_BUILD` - include the asset when the define is NOT active
//
// Any satisfied token keeps the asset. The asset is excluded only when no
// token justifies inclusion. A rule without tokens never excludes and is
// dropped when the rule set is saved. Define names compare case-insensitively.
//
// # Rules File
//
// The rule set is persisted as TOML, YAML or JSON, chosen by file extension:
//
//	[[entries]]
//	asset_path = "Assets/StoreSpecific/GooglePlay"
//	defines = ["STORE_GOOGLEPLAY"]
//
//	[[entries]]
//	asset_path = "Assets/DebugTools"
//	defines = ["!DEBUG_BUILD"]
//
// JSON files use the editor schema (`assetPath`, `defines`).
//
// When several entries share an asset path, the first one is authoritative.
package rules
