// Package api carries the OpenAPI document describing the HTTP surface.
package api

import _ "embed"

// OpenAPISpec is the OpenAPI 3 document served under /swagger. Embedding
// it keeps the route working regardless of the process working directory.
//
//go:embed openapi.json
var OpenAPISpec []byte
