package config

import (
	"errors"
	"fmt"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var defaultEnvLoaded sync.Once

type loadOptions struct {
	files   []string
	prefix  string
	environ map[string]string
}

// Option adjusts a single Load call.
type Option func(*loadOptions)

// WithEnvFiles loads the given .env files into the process environment before
// parsing instead of the default ".env". Missing files are an error.
func WithEnvFiles(files ...string) Option {
	return func(o *loadOptions) { o.files = append(o.files, files...) }
}

// WithPrefix prepends prefix to every env tag of the target struct.
func WithPrefix(prefix string) Option {
	return func(o *loadOptions) { o.prefix = prefix }
}

// WithEnvironment parses from the given map instead of the process
// environment. No .env file is read.
func WithEnvironment(environ map[string]string) Option {
	return func(o *loadOptions) { o.environ = environ }
}

// Load populates v from environment variables according to its env tags.
//
// The default ".env" file in the working directory is read once per process
// if it exists; values already present in the environment take precedence.
//
//	var cfg struct {
//		Addr   string `env:"HTTP_ADDR" envDefault:":8080"`
//		Secret string `env:"SESSION_JWT_SECRET,required"`
//	}
//	if err := config.Load(&cfg); err != nil {
//		return err
//	}
func Load[T any](v *T, opts ...Option) error {
	if v == nil {
		return ErrNilPointer
	}

	var o loadOptions
	for _, opt := range opts {
		opt(&o)
	}

	switch {
	case o.environ != nil:
	case len(o.files) > 0:
		if err := godotenv.Load(o.files...); err != nil {
			return errors.Join(ErrLoadingEnvFile, err)
		}
	default:
		defaultEnvLoaded.Do(func() {
			// .env is optional
			_ = godotenv.Load()
		})
	}

	if err := env.ParseWithOptions(v, env.Options{
		Environment: o.environ,
		Prefix:      o.prefix,
	}); err != nil {
		return errors.Join(ErrParsingConfig, err)
	}
	return nil
}

// MustLoad works like Load but panics on failure. Use it for configuration
// the process cannot start without.
func MustLoad[T any](v *T, opts ...Option) {
	if err := Load(v, opts...); err != nil {
		panic(fmt.Sprintf("failed to load required configuration: %v", err))
	}
}
