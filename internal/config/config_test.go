package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_WithValidConfigFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	cfg := `{
		"logLevel": "debug",
		"db": { "host": "10.0.0.1", "port": "5433" },
		"simulation": { "step": 0.01 }
	}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "hytempo.cfg.json"), []byte(cfg), 0644))

	err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "debug", viper.GetString("logLevel"))
	assert.Equal(t, "10.0.0.1", viper.GetString("db.host"))
	assert.Equal(t, "5433", viper.GetString("db.port"))
	assert.Equal(t, 0.01, viper.GetFloat64("simulation.step"))
}

func TestLoad_DefaultValues(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "hytempo.cfg.json"), []byte(`{}`), 0644))

	err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "info", viper.GetString("logLevel"))
	assert.Equal(t, "./hytempologs", viper.GetString("logsDir"))
	assert.Equal(t, "localhost", viper.GetString("db.host"))
	assert.Equal(t, "5432", viper.GetString("db.port"))
	assert.Equal(t, "postgres", viper.GetString("db.username"))
	assert.Equal(t, "postgres", viper.GetString("db.password"))
	assert.Equal(t, "hytempo", viper.GetString("db.database"))
	assert.Equal(t, "./hytempo.db", viper.GetString("db.sqlitePath"))
	assert.Equal(t, "", viper.GetString("design.close"))
	assert.Equal(t, false, viper.GetBool("influx.enabled"))
	assert.Equal(t, "localhost", viper.GetString("influx.host"))
	assert.Equal(t, "8086", viper.GetString("influx.port"))
	assert.Equal(t, "memory", viper.GetString("storage.type"))
	assert.Equal(t, "./runs", viper.GetString("storage.memory.outputDir"))
	assert.Equal(t, false, viper.GetBool("storage.memory.compressOutput"))
	assert.Equal(t, 0.05, viper.GetFloat64("simulation.step"))
	assert.Equal(t, 8000, viper.GetInt("simulation.maxSteps"))
	assert.Equal(t, 0.0, viper.GetFloat64("simulation.launchAltitude"))
	assert.Equal(t, false, viper.GetBool("otel.enabled"))
	assert.Equal(t, "hytempo", viper.GetString("otel.serviceName"))
	assert.Equal(t, "5s", viper.GetString("otel.batchTimeout"))
	assert.Equal(t, "", viper.GetString("otel.endpoint"))
	assert.Equal(t, true, viper.GetBool("otel.insecure"))
}

func TestLoad_MissingFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	err := Load("/nonexistent/path")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestGetString(t *testing.T) {
	t.Cleanup(viper.Reset)
	viper.Set("testKey", "testValue")
	assert.Equal(t, "testValue", GetString("testKey"))
}

func TestGetInt(t *testing.T) {
	t.Cleanup(viper.Reset)
	viper.Set("testInt", 42)
	assert.Equal(t, 42, GetInt("testInt"))
}

func TestGetBool(t *testing.T) {
	t.Cleanup(viper.Reset)
	viper.Set("testBool", true)
	assert.Equal(t, true, GetBool("testBool"))
}

func TestGetFloat64(t *testing.T) {
	t.Cleanup(viper.Reset)
	viper.Set("testFloat", 3.5)
	assert.Equal(t, 3.5, GetFloat64("testFloat"))
}

func TestStorage_Defaults(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "hytempo.cfg.json"), []byte(`{}`), 0644))
	require.NoError(t, Load(dir))

	cfg := Storage()
	assert.Equal(t, "memory", cfg.Type)
	assert.Equal(t, "./runs", cfg.Memory.OutputDir)
	assert.Equal(t, false, cfg.Memory.CompressOutput)
}

func TestStorage_Override(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	cfg := `{
		"storage": {
			"type": "gorm",
			"memory": { "outputDir": "/tmp/out", "compressOutput": true }
		}
	}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "hytempo.cfg.json"), []byte(cfg), 0644))
	require.NoError(t, Load(dir))

	sc := Storage()
	assert.Equal(t, "gorm", sc.Type)
	assert.Equal(t, "/tmp/out", sc.Memory.OutputDir)
	assert.Equal(t, true, sc.Memory.CompressOutput)
}

func TestOTel_Defaults(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "hytempo.cfg.json"), []byte(`{}`), 0644))
	require.NoError(t, Load(dir))

	cfg := OTel()
	assert.Equal(t, false, cfg.Enabled)
	assert.Equal(t, "hytempo", cfg.ServiceName)
	assert.Equal(t, 5*time.Second, cfg.BatchTimeout)
	assert.Equal(t, "", cfg.Endpoint)
	assert.Equal(t, true, cfg.Insecure)
}
