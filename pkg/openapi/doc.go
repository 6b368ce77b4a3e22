// Package openapi exposes the loader and parser contracts used to turn an
// OpenAPI request body into a form definition. Implementations live under
// internal/openapi so kin-openapi types never leak into the public API.
package openapi
