// Package file persists CLI configuration to a TOML file in the
// Codelime config directory. Keys use dot notation, e.g.
// "upload.batch_size" or "api.base_url".
package file
