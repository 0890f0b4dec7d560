// Package services contains the core application services: assembling
// rows from loaded tables, batched uploads with reporting, project
// copying, question inheritance and credential resolution. Services
// depend on the driven ports only, never on concrete adapters.
package services
