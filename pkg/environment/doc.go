// Package environment parses the APP_ENV setting into a typed Environment.
//
// The logger factory uses it to pick output format and level:
//
//	env := environment.Parse(cfg.AppEnv)
//	log := logger.New(logger.WithEnvironment(env, "accessd"))
package environment
