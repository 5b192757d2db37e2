// Package registry owns the actuator field-code schema.
//
// Ownership boundary:
// - (namespace, kind, name) -> code tables for Command, Info and Feedback
// - group/role classification of control-loop fields
// - table validation and the API version marker
//
// Encoding values onto the wire is left to the codec that consumes this
// package.
package registry
