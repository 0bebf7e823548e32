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
		"simulation": { "shots": 50000, "workers": 4 },
		"server": { "port": 9090 }
	}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "moasim.cfg.json"), []byte(cfg), 0644))

	err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "debug", viper.GetString("logLevel"))
	assert.Equal(t, 50000, viper.GetInt("simulation.shots"))
	assert.Equal(t, 4, viper.GetInt("simulation.workers"))
	assert.Equal(t, 9090, viper.GetInt("server.port"))
}

func TestLoad_DefaultValues(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "moasim.cfg.json"), []byte(`{}`), 0644))

	err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "info", viper.GetString("logLevel"))
	assert.Equal(t, "./moasimlogs", viper.GetString("logsDir"))
	assert.Equal(t, 10000, viper.GetInt("simulation.shots"))
	assert.Equal(t, 100, viper.GetInt("simulation.displayShots"))
	assert.Equal(t, 0, viper.GetInt("simulation.workers"))
	assert.Equal(t, "0.0.0.0", viper.GetString("server.host"))
	assert.Equal(t, 8080, viper.GetInt("server.port"))
	assert.Equal(t, "", viper.GetString("export.outputDir"))
	assert.Equal(t, false, viper.GetBool("influx.enabled"))
	assert.Equal(t, "localhost", viper.GetString("influx.host"))
	assert.Equal(t, "8086", viper.GetString("influx.port"))
	assert.Equal(t, "moasim-metrics", viper.GetString("influx.org"))
	assert.Equal(t, false, viper.GetBool("graylog.enabled"))
	assert.Equal(t, "localhost:12201", viper.GetString("graylog.address"))
	assert.Equal(t, false, viper.GetBool("otel.enabled"))
	assert.Equal(t, "moasim", viper.GetString("otel.serviceName"))
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

func TestGetSimulationConfig_Defaults(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "moasim.cfg.json"), []byte(`{}`), 0644))
	require.NoError(t, Load(dir))

	cfg := GetSimulationConfig()
	assert.Equal(t, 10000, cfg.Shots)
	assert.Equal(t, 100, cfg.DisplayShots)
	assert.Equal(t, 0, cfg.Workers)
}

func TestGetSimulationConfig_Override(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	cfg := `{
		"simulation": { "shots": 200000, "displayShots": 250, "workers": 8 }
	}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "moasim.cfg.json"), []byte(cfg), 0644))
	require.NoError(t, Load(dir))

	sc := GetSimulationConfig()
	assert.Equal(t, 200000, sc.Shots)
	assert.Equal(t, 250, sc.DisplayShots)
	assert.Equal(t, 8, sc.Workers)
}

func TestGetServerConfig(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	cfg := `{ "server": { "host": "127.0.0.1", "port": 3000 } }`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "moasim.cfg.json"), []byte(cfg), 0644))
	require.NoError(t, Load(dir))

	sc := GetServerConfig()
	assert.Equal(t, "127.0.0.1", sc.Host)
	assert.Equal(t, 3000, sc.Port)
}

func TestGetOTelConfig_Defaults(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "moasim.cfg.json"), []byte(`{}`), 0644))
	require.NoError(t, Load(dir))

	cfg := GetOTelConfig()
	assert.Equal(t, false, cfg.Enabled)
	assert.Equal(t, "moasim", cfg.ServiceName)
	assert.Equal(t, 5*time.Second, cfg.BatchTimeout)
	assert.Equal(t, "", cfg.Endpoint)
	assert.Equal(t, true, cfg.Insecure)
}

func TestGetOTelConfig_Override(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	cfg := `{
		"otel": {
			"enabled": true,
			"serviceName": "my-service",
			"batchTimeout": "30s",
			"endpoint": "localhost:4317",
			"insecure": false
		}
	}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "moasim.cfg.json"), []byte(cfg), 0644))
	require.NoError(t, Load(dir))

	oc := GetOTelConfig()
	assert.Equal(t, true, oc.Enabled)
	assert.Equal(t, "my-service", oc.ServiceName)
	assert.Equal(t, 30*time.Second, oc.BatchTimeout)
	assert.Equal(t, "localhost:4317", oc.Endpoint)
	assert.Equal(t, false, oc.Insecure)
}

func TestGetInfluxConfig_Override(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	cfg := `{
		"influx": {
			"enabled": true,
			"protocol": "https",
			"host": "influx.example.com",
			"port": "8087",
			"token": "secret",
			"org": "range-metrics"
		}
	}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "moasim.cfg.json"), []byte(cfg), 0644))
	require.NoError(t, Load(dir))

	ic := GetInfluxConfig()
	assert.Equal(t, true, ic.Enabled)
	assert.Equal(t, "https", ic.Protocol)
	assert.Equal(t, "influx.example.com", ic.Host)
	assert.Equal(t, "8087", ic.Port)
	assert.Equal(t, "secret", ic.Token)
	assert.Equal(t, "range-metrics", ic.Org)
}

func TestGetGraylogConfig(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	cfg := `{ "graylog": { "enabled": true, "address": "gl.example.com:12201" } }`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "moasim.cfg.json"), []byte(cfg), 0644))
	require.NoError(t, Load(dir))

	gc := GetGraylogConfig()
	assert.Equal(t, true, gc.Enabled)
	assert.Equal(t, "gl.example.com:12201", gc.Address)
}
