// Package config handles configuration loading for taskdock.
//
// # Overview
//
// Configuration is loaded from YAML files with environment variable expansion.
// The package provides validation and sensible defaults.
//
// # Configuration File
//
// Default locations (in order):
//
//  1. Path from TASKDOCK_CONFIG environment variable
//  2. ~/.config/taskdock/taskdock.yaml
//
// On first `taskdock serve` (or `taskdock init`) the file is created with a
// freshly generated signing secret.
//
// # Environment Variable Expansion
//
// Configuration values can reference environment variables:
//
//	auth:
//	  jwt_secret: "${TASKDOCK_JWT_SECRET}"
//
// Syntax: ${VAR_NAME}
//
// # Configuration Sections
//
// Server settings:
//
//	server:
//	  http_addr: "127.0.0.1:8990"
//
// Database:
//
//	database:
//	  path: "/var/lib/taskdock/taskdock.db"
//
// Authentication:
//
//	auth:
//	  jwt_secret: "${TASKDOCK_JWT_SECRET}"  # generated on first run
//	  token_ttl: "24h"                      # lifetime of issued tokens
//
// Logging:
//
//	logging:
//	  level: "info"   # debug, info, warn, error
//	  format: "text"  # text, json
//
// # Usage
//
// Load configuration:
//
//	cfg, err := config.Load(path)
//	if err != nil {
//	    log.Fatal(err)
//	}
package config
