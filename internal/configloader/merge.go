package configloader

import "github.com/yaklabco/qfix/pkg/config"

// merge combines two configurations, with override taking precedence over base.
// Non-zero scalars and non-nil booleans in override replace those in base,
// so a later layer can switch a boolean off again.
func merge(base, override *config.Config) *config.Config {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}

	result := *base

	if override.LogLevel != "" {
		result.LogLevel = override.LogLevel
	}
	if override.Color != "" {
		result.Color = override.Color
	}
	if override.Root != "" {
		result.Root = override.Root
	}
	if override.Apply.Write != nil {
		result.Apply.Write = config.Bool(*override.Apply.Write)
	}
	if override.Apply.All != nil {
		result.Apply.All = config.Bool(*override.Apply.All)
	}

	return &result
}

// MergeAll merges multiple configurations in order, with later configs taking precedence.
func MergeAll(configs ...*config.Config) *config.Config {
	if len(configs) == 0 {
		return nil
	}

	result := configs[0]
	for i := 1; i < len(configs); i++ {
		result = merge(result, configs[i])
	}
	return result
}
