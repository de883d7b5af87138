package config

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors for configuration handling
var (
	ErrConfigNotFound = goerr.New("configuration file not found")
	ErrInvalidLogger  = goerr.New("invalid logger configuration")
)
