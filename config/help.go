package config

import (
	"flag"
	"fmt"
)

const HelpMessage = `
Pivot location verification service

Usage:
  pivot [--mode=location-service] [--config-path=config.yaml] [--env-file=.env]
  pivot --help

Options:
  --mode          Service mode (default: location-service)
  --config-path   Path to the YAML config file, flattened into env vars (default: config.yaml)
  --env-file      Path to a .env file loaded before the config file (default: .env)
  --help          Show this screen

Main environment variables:
  AUTH_JWT_SECRET          HS256 secret shared with the auth service (required)
  STORAGE_DRIVER           postgres | sqlite (default: sqlite)
  STORAGE_LOCATION_STORE   redis | dynamodb, overrides where location records live
  GEOCODER_PROVIDER        nominatim | locationiq (default: nominatim)
  GEOCODER_TIMEOUT         geocoding request timeout (default: 10s)
  EVENTS_DRIVER            none | rabbitmq | mqtt (default: none)
  HTTP_PORT                listen port (default: 5000)
  LOG_LEVEL                DEBUG | INFO | WARN | ERROR (default: INFO)
`

func PrintHelp() {
	if HelpMessage != "" {
		fmt.Printf("%s", HelpMessage)
	} else {
		flag.Usage()
	}
}
