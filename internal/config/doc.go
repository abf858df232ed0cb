// Package config handles loading and parsing the subdeck configuration file.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/subdeck/config.toml (default)
//  3. If the config file doesn't exist, fall back to Default()
//  4. If the file exists but fields are missing/empty, use defaults
//
// # Default Values
//
//   - Config file: ~/.config/subdeck/config.toml
//   - API endpoint: 127.0.0.1:3000
//   - Cache directory: ~/.cache/subdeck
//   - Log file: ~/.local/state/subdeck/subdeck.log
//   - Log level: info
//   - Poll interval: 30 seconds
//
// # TOML Format
//
//	api_bind = "127.0.0.1:3000"
//	api_token = ""
//	cache_dir = "~/.cache/subdeck"   # "-" disables the warm-start cache
//	log_file = "~/.local/state/subdeck/subdeck.log"
//	log_level = "info"
//	poll_seconds = 30
//
// All fields are optional. Values are trimmed and tilde expansion is applied
// to paths.
//
// # Error Handling
//
// Load returns errors for:
//   - Path expansion failures (e.g., cannot determine home directory)
//   - File read errors (except os.ErrNotExist, which triggers defaults)
//   - TOML parsing errors
//
// Missing config files are NOT an error.
//
// # Usage Example
//
//	cfg, err := config.Load("")
//	if err != nil {
//		return fmt.Errorf("load config: %w", err)
//	}
//	client, err := api.NewClient(cfg.APIBind, cfg.APIToken)
package config
