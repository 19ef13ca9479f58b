// Package autoload registers every completion provider factory.
// Importing it for side effects is the only way providers get wired in.
package autoload

import (
	_ "concierge/pkg/llm/gemini"
	_ "concierge/pkg/llm/ollama"
	_ "concierge/pkg/llm/openailm"
)
