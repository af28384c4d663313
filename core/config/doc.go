// Package config provides configuration management for gig-profile.
//
// Values come from environment variables, optionally overlaid from a .env file.
// Defaults live next to each setting as `default` struct tags and are registered
// with Viper by reflection, so a section only has to declare its fields.
//
// # Configuration Structure
//
//   - Server: users API port and API key
//   - Database: users API database (mysql, postgres or sqlite)
//   - Storage: S3/MinIO settings for the object-backed profile cache
//   - Log: level and encoding
//   - Remote: base URL, API key and timeout of the remote profile store
//   - Cache: local profile cache backend and its location
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Remote.BaseURL)
package config
