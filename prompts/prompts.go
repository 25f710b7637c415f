// Package prompts embeds the stage instruction files and exports them as strings.
package prompts

import _ "embed"

//go:embed query_writer.txt
var QueryWriter string

//go:embed reflection.txt
var Reflection string

//go:embed synthesis.txt
var Synthesis string
