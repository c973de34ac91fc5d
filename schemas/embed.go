// Package schemas holds the JSON Schemas for files the CLI reads.
package schemas

import _ "embed"

// Draft is the JSON Schema of a draft file.
//
//go:embed draft.schema.json
var Draft string

// DraftFile is the schema's path relative to the repository root.
const DraftFile = "schemas/draft.schema.json"
