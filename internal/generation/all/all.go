// Package all registers every generation provider. Import it for side effects.
package all

import (
	_ "resumeflow/internal/generation/claude"
	_ "resumeflow/internal/generation/gemini"
	_ "resumeflow/internal/generation/openai"
	_ "resumeflow/internal/generation/vertex"
)
