// Package openapi describes the booking submission endpoint as an OpenAPI 3
// document. The request schema is derived from the field registry and the
// validation rule table so the two cannot drift apart.
package openapi
