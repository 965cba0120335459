// Package model defines the data handed to the report writers.
//
// The central type is AssessmentData, an opaque mapping produced by an
// external VMware security assessment. This package does not impose a
// schema on it: keys are strings and values are whatever JSON or YAML can
// carry (nested mappings, sequences, scalars).
//
// Loading lives here too so that every consumer (CLI, history store,
// writers) sees the same decoded shape regardless of the input format.
package model
