package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// FileSystem abstracts the file lookups made by LoadConfig.
type FileSystem interface {
	Exists(path string) bool
	LoadEnv(path string) error
}

type osFileSystem struct{}

func (osFileSystem) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// LoadEnv never overrides variables already set in the process.
func (osFileSystem) LoadEnv(path string) error {
	return godotenv.Load(path)
}

// Files are the config and env files a load resolved to. Empty means none.
type Files struct {
	ConfigFile string
	EnvFile    string
}

type loaderOptions struct {
	fs         FileSystem
	configFile string
	envFile    string
	envPrefix  string
	prefixSet  bool
}

// Option configures LoadConfig.
type Option func(*loaderOptions)

// WithFileSystem replaces the OS file system, mostly for tests.
func WithFileSystem(fs FileSystem) Option {
	return func(o *loaderOptions) { o.fs = fs }
}

// WithConfigFile sets an explicit config file. It must exist.
func WithConfigFile(path string) Option {
	return func(o *loaderOptions) { o.configFile = path }
}

// WithEnvFile sets an explicit .env file.
func WithEnvFile(path string) Option {
	return func(o *loaderOptions) { o.envFile = path }
}

// WithEnvPrefix sets the prefix environment variables must carry to be
// bound. The default is the upper-cased service name plus "_". An empty
// prefix binds every variable.
func WithEnvPrefix(prefix string) Option {
	return func(o *loaderOptions) {
		o.envPrefix = prefix
		o.prefixSet = true
	}
}

// Resolve finds the config and env files for serviceName without loading them.
func Resolve(serviceName string, opts ...Option) Files {
	o := newLoaderOptions(serviceName, opts)
	return resolve(serviceName, o)
}

// LoadConfig loads configuration for serviceName into cfg.
//
// Sources, lowest precedence first: the config file (config.yml or
// <service>.yml in the working directory, ./config or ./cmd/<service>),
// then environment variables carrying the service prefix, including those
// loaded from a .env file. ISOCLIENT_CLIENT_BASE_URL binds to
// client.base_url, client_base_url, and the other nesting variants.
func LoadConfig(serviceName string, cfg any, opts ...Option) error {
	o := newLoaderOptions(serviceName, opts)
	files := resolve(serviceName, o)

	v := viper.New()
	if files.ConfigFile != "" {
		v.SetConfigFile(files.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config file %s: %w", files.ConfigFile, err)
		}
	}

	if files.EnvFile != "" {
		if err := o.fs.LoadEnv(files.EnvFile); err != nil {
			return fmt.Errorf("loading env file %s: %w", files.EnvFile, err)
		}
	}
	bindEnv(v, o.envPrefix, os.Environ())

	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("unmarshaling config for %s: %w", serviceName, err)
	}
	return nil
}

func newLoaderOptions(serviceName string, opts []Option) *loaderOptions {
	o := &loaderOptions{}
	for _, opt := range opts {
		opt(o)
	}
	if o.fs == nil {
		o.fs = osFileSystem{}
	}
	if !o.prefixSet {
		o.envPrefix = DefaultEnvPrefix(serviceName)
	}
	return o
}

// DefaultEnvPrefix returns "MY_SVC_" for "my-svc".
func DefaultEnvPrefix(serviceName string) string {
	if serviceName == "" {
		return ""
	}
	return strings.ToUpper(strings.ReplaceAll(serviceName, "-", "_")) + "_"
}

func resolve(serviceName string, o *loaderOptions) Files {
	files := Files{ConfigFile: o.configFile, EnvFile: o.envFile}
	if files.ConfigFile == "" {
		files.ConfigFile = firstExisting(o.fs, []string{
			"./config.yml",
			fmt.Sprintf("./%s.yml", serviceName),
			fmt.Sprintf("./config/%s.yml", serviceName),
			fmt.Sprintf("./cmd/%s/config.yml", serviceName),
			"./config/config.yml",
		})
	}
	if files.EnvFile == "" {
		files.EnvFile = firstExisting(o.fs, []string{
			fmt.Sprintf("./.env.%s", serviceName),
			fmt.Sprintf("./cmd/%s/.env", serviceName),
			"./.env",
		})
	} else if !o.fs.Exists(files.EnvFile) {
		files.EnvFile = ""
	}
	return files
}

func firstExisting(fs FileSystem, paths []string) string {
	for _, p := range paths {
		if fs.Exists(p) {
			return p
		}
	}
	return ""
}

// bindEnv sets every key variant of each prefixed variable. Explicit Set
// outranks the config file in viper.
func bindEnv(v *viper.Viper, prefix string, environ []string) {
	for _, kv := range environ {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(key, prefix) {
			continue
		}
		key = strings.TrimPrefix(key, prefix)
		if key == "" {
			continue
		}
		for _, variant := range keyVariants(key) {
			v.Set(variant, value)
		}
	}
}

// keyVariants expands an env key into the viper keys it may address:
//
//	CLIENT_BASE_URL -> client_base_url, client.base.url, client.base_url, client_base.url
func keyVariants(envKey string) []string {
	lower := strings.ToLower(envKey)
	parts := strings.Split(lower, "_")
	if len(parts) == 1 {
		return []string{lower}
	}

	variants := []string{lower, strings.Join(parts, ".")}
	for i := 1; i < len(parts); i++ {
		head := strings.Join(parts[:i], ".")
		variants = append(variants, head+"."+strings.Join(parts[i:], "_"))
		variants = append(variants, strings.Join(parts[:i], "_")+"."+strings.Join(parts[i:], "."))
	}

	seen := make(map[string]struct{}, len(variants))
	out := variants[:0]
	for _, v := range variants {
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
