// Package config loads the service configuration from an HCL file.
//
// Every setting has a default, so an empty or missing file yields a working
// single-session service on :8080. Expressions may read the process
// environment through the env object:
//
//	listen    = "0.0.0.0:${env.PORT}"
//	log_level = "debug"
//
//	grid {
//	  size                = 10
//	  blocked_probability = 0.1
//	  layout              = "aisles"
//	  seed                = 42
//	}
//
//	search {
//	  termination    = "adjacent"
//	  traversal      = "aisles"
//	  cache_size     = 1024
//	  max_expansions = 100000
//	}
//
//	docks = [[0, 1], [1, 0]]
package config
