package docs

import _ "embed"

// AsyncAPISpec documents the coaching WebSocket protocol. Served raw at
// /asyncapi.yaml; the OpenAPI spec above only covers the HTTP surface.
//
//go:embed asyncapi.yaml
var AsyncAPISpec []byte
