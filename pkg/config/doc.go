// Package config loads configuration structs from environment variables.
//
// It wraps github.com/caarlos0/env/v11 for struct tag parsing and
// github.com/joho/godotenv for dotenv files. Parse builds a fresh value and
// accepts a variable prefix, dotenv files, or an explicit environment map.
// Load caches one value per type for the lifetime of the process, which suits
// settings read once at startup:
//
//	var cfg upload.Config
//	config.MustLoad(&cfg)
package config
