// Package config loads service configuration from environment variables.
//
// It wraps github.com/joho/godotenv, which reads optional .env files, and
// github.com/caarlos0/env/v11, which maps variables onto struct fields by tag.
// Every infrastructure package (pg, redis, mongo, opensearch, httpserver)
// exposes a Config struct with env tags that can be loaded with Load:
//
//	var cfg pg.Config
//	if err := config.Load(&cfg); err != nil {
//	    return err
//	}
//
// Tests pass WithEnvironment to parse from a map without touching the
// process environment. Failures wrap ErrParsingConfig or ErrLoadingEnvFile.
package config
