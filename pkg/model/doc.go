// Package model defines the declarative form model shared by the validation
// schema, the state machine and the renderers. A FormModel lists its fields in
// display order; list fields carry the item fields repeated per entry. Rules
// use the canonical identifiers required/min/max/minLength/maxLength/pattern,
// plus email, matches, requiredIf and minItems, with string parameters so
// YAML, JSON and OpenAPI definitions all decode into the same shape.
// Conditional fields name their gate through VisibleWhen using the
// pkg/visibility expression syntax.
package model
