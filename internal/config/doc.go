// Package config loads cmdring settings: built-in defaults, an optional JSON
// file and a CMDRING_* environment overlay, in that order.
//
//	cfg, err := config.Load(path)
//	if err != nil { /* handle */ }
//	config.FromEnv(&cfg)
//	if err := cfg.Validate(); err != nil { /* handle */ }
package config
