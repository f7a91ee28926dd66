package paths

import "github.com/matheus3301/localchat/internal/config"

// ResolveDataDir determines the data directory using precedence:
// 1. flagOverride (--data-dir flag)
// 2. config.toml data_dir
// 3. BaseDir()
func ResolveDataDir(flagOverride string, cfg *config.Config) string {
	if flagOverride != "" {
		return flagOverride
	}
	if cfg != nil && cfg.DataDir != "" {
		return cfg.DataDir
	}
	return BaseDir()
}
