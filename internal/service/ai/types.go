package ai

import "strings"

// ModelPreset represents the model usage preset
type ModelPreset string

const (
	PresetCreative ModelPreset = "creative" // 창의적 응답
	PresetPrecise  ModelPreset = "precise"  // 정확한 응답
	PresetBalanced ModelPreset = "balanced" // 균형잡힌 응답
)

// ParsePreset maps a config string to a preset, defaulting to creative.
func ParsePreset(raw string) ModelPreset {
	switch ModelPreset(strings.ToLower(strings.TrimSpace(raw))) {
	case PresetPrecise:
		return PresetPrecise
	case PresetBalanced:
		return PresetBalanced
	default:
		return PresetCreative
	}
}

// ModelConfig holds Gemini sampling parameters
type ModelConfig struct {
	Temperature      float32
	TopP             float32
	TopK             int
	MaxOutputTokens  int
	ResponseMimeType string // "application/json" or "text/plain"
}

// OpenAIConfig holds OpenAI-specific sampling parameters
type OpenAIConfig struct {
	Temperature float32
	MaxTokens   int
	TopP        float32
}

// GenerateMetadata describes which provider and model answered.
type GenerateMetadata struct {
	Provider string
	Model    string
}

// GenerateOptions selects the model and whether the provider is asked for
// JSON output.
type GenerateOptions struct {
	Model    string
	JSONMode bool
}

// GetPresetConfig returns the configuration for a preset
func GetPresetConfig(preset ModelPreset) ModelConfig {
	switch preset {
	case PresetCreative:
		// 매니페스트 전체를 한 번에 받으므로 출력 한도를 넉넉하게
		return ModelConfig{
			Temperature:     0.9,
			TopP:            0.95,
			TopK:            40,
			MaxOutputTokens: 4096,
		}
	case PresetPrecise:
		return ModelConfig{
			Temperature:     0.2,
			TopP:            0.9,
			TopK:            20,
			MaxOutputTokens: 4096,
		}
	case PresetBalanced:
		return ModelConfig{
			Temperature:     0.6,
			TopP:            0.95,
			TopK:            40,
			MaxOutputTokens: 4096,
		}
	default:
		return GetPresetConfig(PresetCreative)
	}
}

// GetOpenAIPresetConfig returns OpenAI configuration for a preset
func GetOpenAIPresetConfig(preset ModelPreset) OpenAIConfig {
	gemini := GetPresetConfig(preset)
	return OpenAIConfig{
		Temperature: gemini.Temperature,
		MaxTokens:   gemini.MaxOutputTokens,
		TopP:        gemini.TopP,
	}
}
