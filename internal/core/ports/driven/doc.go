// Package driven defines the interfaces the core depends on: table
// loaders, the remote coding API, configuration and upload history.
// Implementations live under internal/loaders, internal/connectors and
// internal/adapters/driven.
package driven
