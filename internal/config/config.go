package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// MemoryConfig holds in-memory/JSON storage backend settings
type MemoryConfig struct {
	OutputDir      string `json:"outputDir" mapstructure:"outputDir"`
	CompressOutput bool   `json:"compressOutput" mapstructure:"compressOutput"`
}

// StorageConfig selects and parameterizes the run storage backend.
type StorageConfig struct {
	Type   string       `json:"type" mapstructure:"type"`
	Memory MemoryConfig `json:"memory" mapstructure:"memory"`
}

// OTelConfig holds OpenTelemetry export settings.
type OTelConfig struct {
	Enabled      bool          `json:"enabled" mapstructure:"enabled"`
	ServiceName  string        `json:"serviceName" mapstructure:"serviceName"`
	BatchTimeout time.Duration `json:"batchTimeout" mapstructure:"batchTimeout"`
	Endpoint     string        `json:"endpoint" mapstructure:"endpoint"`
	Insecure     bool          `json:"insecure" mapstructure:"insecure"`
}

// Load reads configuration from JSON file and sets default values.
// configDir is the directory containing the config file.
func Load(configDir string) error {
	// Set default values
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logsDir", "./hytempologs")

	viper.SetDefault("storage.type", "memory")
	viper.SetDefault("storage.memory.outputDir", "./runs")
	viper.SetDefault("storage.memory.compressOutput", false)

	viper.SetDefault("db.host", "localhost")
	viper.SetDefault("db.port", "5432")
	viper.SetDefault("db.username", "postgres")
	viper.SetDefault("db.password", "postgres")
	viper.SetDefault("db.database", "hytempo")
	viper.SetDefault("db.sqlitePath", "./hytempo.db")

	viper.SetDefault("influx.enabled", false)
	viper.SetDefault("influx.host", "localhost")
	viper.SetDefault("influx.port", "8086")
	viper.SetDefault("influx.protocol", "http")
	viper.SetDefault("influx.token", "supersecrettoken")
	viper.SetDefault("influx.org", "hytempo-metrics")

	viper.SetDefault("graylog.enabled", false)
	viper.SetDefault("graylog.address", "localhost:12201")

	viper.SetDefault("simulation.step", 0.05)
	viper.SetDefault("simulation.maxSteps", 8000)
	viper.SetDefault("simulation.launchAltitude", 0.0)

	viper.SetDefault("swarm.count", 0)
	viper.SetDefault("swarm.workers", 0)
	viper.SetDefault("swarm.seed", 1)

	viper.SetDefault("design.diameter", 0.16)
	viper.SetDefault("design.burnTime", 10.0)
	viper.SetDefault("design.thrust", 3000.0)
	viper.SetDefault("design.mixtureRatio", 4.0)
	viper.SetDefault("design.chamberPressure", 3.0e6)
	viper.SetDefault("design.expansionRatio", 5.0)
	viper.SetDefault("design.pressurantPressure", 0.0)
	viper.SetDefault("design.close", "")
	viper.SetDefault("design.closeTarget", 0.0)
	viper.SetDefault("design.closeBounds.min", 0.0)
	viper.SetDefault("design.closeBounds.max", 0.0)
	viper.SetDefault("design.tankLength", 0.0)
	viper.SetDefault("design.massFlow", 0.0)

	viper.SetDefault("template.name", "hytempo")
	viper.SetDefault("template.fuel", "ethanol")
	viper.SetDefault("template.oxidizer", "nitrousoxide")
	viper.SetDefault("template.pressurant", "nitrogen")
	viper.SetDefault("template.engineMass", 4.0)
	viper.SetDefault("template.engineLength", 0.3)

	viper.SetDefault("data.ceaTable", "./data/cea.csv")
	viper.SetDefault("data.dragTable", "./data/drag.csv")
	viper.SetDefault("data.policy", "fail")

	viper.SetDefault("output.plotsDir", "./plots")

	viper.SetDefault("site.latitude", 0.0)
	viper.SetDefault("site.longitude", 0.0)
	viper.SetDefault("site.elevation", 0.0)

	viper.SetDefault("otel.enabled", false)
	viper.SetDefault("otel.serviceName", "hytempo")
	viper.SetDefault("otel.endpoint", "")
	viper.SetDefault("otel.insecure", true)
	viper.SetDefault("otel.batchTimeout", "5s")

	viper.SetConfigName("hytempo.cfg.json")
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	err := viper.ReadInConfig()
	if err != nil {
		return fmt.Errorf("error reading config file: %v", err)
	}

	return nil
}

// Storage assembles the storage backend configuration from viper.
func Storage() StorageConfig {
	return StorageConfig{
		Type: viper.GetString("storage.type"),
		Memory: MemoryConfig{
			OutputDir:      viper.GetString("storage.memory.outputDir"),
			CompressOutput: viper.GetBool("storage.memory.compressOutput"),
		},
	}
}

// OTel assembles the OpenTelemetry configuration from viper.
func OTel() OTelConfig {
	return OTelConfig{
		Enabled:      viper.GetBool("otel.enabled"),
		ServiceName:  viper.GetString("otel.serviceName"),
		BatchTimeout: viper.GetDuration("otel.batchTimeout"),
		Endpoint:     viper.GetString("otel.endpoint"),
		Insecure:     viper.GetBool("otel.insecure"),
	}
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value.
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a bool config value.
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// GetFloat64 returns a float config value.
func GetFloat64(key string) float64 {
	return viper.GetFloat64(key)
}
