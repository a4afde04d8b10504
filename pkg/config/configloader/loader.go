package configloader

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigFile is used when no config file path is given.
const DefaultConfigFile = "config.yaml"

type Validator interface {
	Validate() error
}

// Options controls where configuration is read from.
type Options struct {
	// ConfigFile is the YAML file path, DefaultConfigFile when empty.
	ConfigFile string
	// EnvFile is the dotenv file path, ".env" when empty.
	EnvFile string
	// Defaults are loaded first and overridden by every other source.
	Defaults map[string]any
}

// Load reads configuration for the given service.
// Sources by increasing priority: defaults, YAML file, .env file, system environment.
// Environment variables are prefixed with <SERVICE_NAME>_, e.g. PRODUCT_SERVER_PORT -> server.port.
func Load[T Validator](serviceName string, opts Options) (T, error) {
	var cfg T
	k := koanf.New(".")

	configFile := opts.ConfigFile
	if configFile == "" {
		configFile = DefaultConfigFile
	}
	envFile := opts.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	envPrefix := fmt.Sprintf("%s_", strings.ToUpper(serviceName))

	// 0. Built-in defaults, the lowest priority
	if len(opts.Defaults) > 0 {
		if err := k.Load(confmap.Provider(opts.Defaults, "."), nil); err != nil {
			return cfg, fmt.Errorf("error loading default config: %w", err)
		}
	}

	// 1. Load configuration from yaml file
	if err := k.Load(file.Provider(configFile), yaml.Parser()); err != nil {
		if !os.IsNotExist(err) {
			log.Printf("WARN: error loading YAML config file '%s': %v", configFile, err)
		}
	}

	// 2. Load environment variables from .env file
	envTransformer := KeyTransformer(envPrefix)
	if envFileMap, err := godotenv.Read(envFile); err == nil {
		envMap := make(map[string]any)
		for key, value := range envFileMap {
			envMap[envTransformer(key)] = value
		}
		if err := k.Load(confmap.Provider(envMap, "."), nil); err != nil {
			log.Printf("WARN: error loading .env config: %v", err)
		}
	} else if !os.IsNotExist(err) {
		log.Printf("WARN: error reading .env file: %v", err)
	}

	// 3. Load environment variables from the system, the highest priority
	if err := k.Load(env.Provider(envPrefix, ".", envTransformer), nil); err != nil {
		log.Printf("WARN: error loading system env vars: %v", err)
	}

	// 4. Unmarshal the configuration into the Config struct
	if err := k.Unmarshal("", &cfg); err != nil {
		return cfg, fmt.Errorf("error unmarshalling config: %w", err)
	}

	// 5. Validate the configuration
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// KeyTransformer maps PREFIX_SECTION_KEY style variables to section.key paths.
func KeyTransformer(envPrefix string) func(string) string {
	prefix := strings.ToLower(envPrefix)
	return func(key string) string {
		key = strings.ToLower(key)
		key = strings.TrimPrefix(key, prefix)
		return strings.ReplaceAll(key, "_", ".")
	}
}
