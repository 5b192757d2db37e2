// Package cli wires the fieldctl commands: lookups against the field
// registry, schema validation, export, firmware version checks and metrics.
package cli
