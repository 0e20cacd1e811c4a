package providers

import (
	_ "github.com/Malathy01/LifecodeAI/src/ai/gemini"
	_ "github.com/Malathy01/LifecodeAI/src/ai/openai"
)
