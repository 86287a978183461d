// Package config provides configuration loading and validation for the
// agentflow binaries.
//
// It uses Viper to load configuration from a config.yml discovered in
// standard locations (or an explicit path), loads .env files via godotenv,
// and lets environment variables override file values.
//
// # Usage
//
//	cfg, err := config.Load()
//
// Environment variables map onto nested keys by underscore splitting,
// so BACKEND_LLM_MODEL overrides backend.llm.model.
package config
