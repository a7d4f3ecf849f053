// Package file provides the TOML-backed implementation of driven.ConfigStore.
//
// Configuration lives in config.toml inside the placemap config directory
// (~/.placemap by default). Nested tables are exposed as dot-notation keys,
// so [browser] settle_ms = 500 is read as "browser.settle_ms".
package file
