package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

const keyEnv = "ENV"
const envLocal = "local"

const (
	defaultPort             = "8089"
	defaultBoostWeight      = 10.0
	defaultFacetSize        = 10
	defaultSuggestionSize   = 10
	defaultPageSize         = 10
	defaultMaxPageSize      = 100
	defaultListenerWorkers  = 4
	defaultInsertChannel    = "hotel.insert"
	defaultDeleteChannel    = "hotel.delete"
	defaultCatalogPath      = "./data/catalog.db"
	defaultServiceName      = "hotelfinder"
	defaultLogLevel         = "info"
	defaultShutdownTimeoutS = 10
)

type Config struct {
	config *viper.Viper
}

// Load reads config/config.<env>.yaml when it can be found and lets environment variables
// override it. With an empty env, ENV is used, then "local".
func Load(env string) (*Config, error) {

	if len(env) == 0 {
		if env = os.Getenv(keyEnv); len(env) == 0 {
			env = envLocal
		}
	}

	configPath, err := getConfigPath(env)

	viperConfig := viper.New()
	if err == nil {
		viperConfig.SetConfigFile(configPath)
		if err := viperConfig.ReadInConfig(); err != nil {
			slog.Warn(fmt.Sprintf("error reading config file, %s", err))
		}
	}
	viperConfig.AutomaticEnv()
	setDefaults(viperConfig)

	cfg := &Config{
		config: viperConfig,
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", defaultPort)
	v.SetDefault("server.service_name", defaultServiceName)
	v.SetDefault("server.shutdown_timeout_sec", defaultShutdownTimeoutS)
	v.SetDefault("log.level", defaultLogLevel)
	v.SetDefault("database.catalog_path", defaultCatalogPath)
	v.SetDefault("search.boost_weight", defaultBoostWeight)
	v.SetDefault("search.facet_size", defaultFacetSize)
	v.SetDefault("search.suggestion_size", defaultSuggestionSize)
	v.SetDefault("search.default_page_size", defaultPageSize)
	v.SetDefault("search.max_page_size", defaultMaxPageSize)
	v.SetDefault("listener.workers", defaultListenerWorkers)
	v.SetDefault("listener.insert_channel", defaultInsertChannel)
	v.SetDefault("listener.delete_channel", defaultDeleteChannel)
}

// getString prefers the upper-case environment variable over the nested config key.
func (c *Config) getString(envKey string, key string) string {
	value := c.config.GetString(envKey)
	if len(value) == 0 {
		value = c.config.GetString(key)
	}
	return value
}

func (c *Config) getInt(envKey string, key string) int {
	if c.config.IsSet(envKey) {
		return c.config.GetInt(envKey)
	}
	return c.config.GetInt(key)
}

func (c *Config) GetPort() string {
	return c.getString("PORT", "server.port")
}

func (c *Config) GetServiceName() string {
	return c.getString("SERVICE_NAME", "server.service_name")
}

func (c *Config) GetShutdownTimeoutSec() int {
	return c.getInt("SHUTDOWN_TIMEOUT_SEC", "server.shutdown_timeout_sec")
}

func (c *Config) GetLogLevel() string {
	return c.getString("LOG_LEVEL", "log.level")
}

func (c *Config) GetCatalogPath() string {
	return c.getString("CATALOG_PATH", "database.catalog_path")
}

// GetIndexPath returns the on-disk bleve index location. Empty means an in-memory index.
func (c *Config) GetIndexPath() string {
	return c.getString("INDEX_PATH", "database.index_path")
}

func (c *Config) GetBoostWeight() float64 {
	if c.config.IsSet("BOOST_WEIGHT") {
		return c.config.GetFloat64("BOOST_WEIGHT")
	}
	return c.config.GetFloat64("search.boost_weight")
}

func (c *Config) GetFacetSize() int {
	return c.getInt("FACET_SIZE", "search.facet_size")
}

func (c *Config) GetSuggestionSize() int {
	return c.getInt("SUGGESTION_SIZE", "search.suggestion_size")
}

func (c *Config) GetDefaultPageSize() int {
	return c.getInt("DEFAULT_PAGE_SIZE", "search.default_page_size")
}

func (c *Config) GetMaxPageSize() int {
	return c.getInt("MAX_PAGE_SIZE", "search.max_page_size")
}

// GetRedisAddr returns the change-event broker address. Empty means events stay in-process.
func (c *Config) GetRedisAddr() string {
	return c.getString("REDIS_ADDR", "redis.addr")
}

func (c *Config) GetRedisPassword() string {
	return c.getString("REDIS_PASSWORD", "redis.password")
}

func (c *Config) GetRedisDB() int {
	return c.getInt("REDIS_DB", "redis.db")
}

func (c *Config) GetListenerWorkers() int {
	return c.getInt("LISTENER_WORKERS", "listener.workers")
}

func (c *Config) GetInsertChannel() string {
	return c.getString("INSERT_CHANNEL", "listener.insert_channel")
}

func (c *Config) GetDeleteChannel() string {
	return c.getString("DELETE_CHANNEL", "listener.delete_channel")
}

func getProjectRoot() (string, error) {
	currentDir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current working directory: %w", err)
	}

	for {
		configDir := filepath.Join(currentDir, "config")
		if info, err := os.Stat(configDir); err == nil && info.IsDir() {
			return currentDir, nil
		}

		parent := filepath.Dir(currentDir)

		if parent == currentDir {
			break
		}

		currentDir = parent
	}

	return "", fmt.Errorf("could not find project root (directory containing 'config' folder)")
}

func getConfigPath(env string) (string, error) {
	configFile := fmt.Sprintf("config.%s.yaml", env)

	projectRoot, err := getProjectRoot()
	if err != nil {
		slog.Warn("failed to find project root with config directory, will use environment variables instead", "err", err.Error())
		return "", fmt.Errorf("failed to find project root: %w", err)
	}
	configPath := filepath.Join(projectRoot, "config", configFile)
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		slog.Warn("failed to find config file within config directory, will use environment variables instead", "err", err.Error())
		return "", fmt.Errorf("config file does not exist: %s", configPath)
	}

	return configPath, nil
}
