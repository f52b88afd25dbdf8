package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/linjuya-lu/device_telnet_go/internal/attribute"
	"github.com/linjuya-lu/device_telnet_go/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromDriverConfigs_Defaults(t *testing.T) {
	c, err := config.FromDriverConfigs(nil)
	require.NoError(t, err)
	assert.Equal(t, config.Default(), c)
	assert.Equal(t, "127.0.0.1:23", c.Address())
	assert.Equal(t, "Username:", c.UsernamePrompt)
	assert.Equal(t, "Password:", c.PasswordPrompt)
	assert.Equal(t, "> ", c.Prompt)
	assert.Equal(t, "GET _VARNAME_", c.ReadCommand)
	assert.Equal(t, "SET _VARNAME_ TO _VALUE_", c.WriteCommand)
	assert.Equal(t, 10*time.Second, c.ReadTimeout)
	assert.Equal(t, "Telnet-Console", c.ProfileName)
}

func TestFromDriverConfigs_Overrides(t *testing.T) {
	c, err := config.FromDriverConfigs(map[string]string{
		"Host":           "10.0.0.5",
		"Port":           "2323",
		"Username":       "bob",
		"UsernamePrompt": "Login:",
		"PasswordPrompt": "",
		"Prompt":         "$ ",
		"ReadTimeout":    "250ms",
		"StripEcho":      "true",
		"MqttBroker":     "tcp://broker:1883",
		"ProfileName":    "Lab-Console",
	})
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.5:2323", c.Address())
	assert.Equal(t, "bob", c.Username)
	assert.Equal(t, "Login:", c.UsernamePrompt)
	assert.Empty(t, c.PasswordPrompt)
	assert.Equal(t, "$ ", c.Prompt)
	assert.Equal(t, 250*time.Millisecond, c.ReadTimeout)
	assert.True(t, c.StripEcho)
	assert.Equal(t, "tcp://broker:1883", c.MQTT.Broker)
	assert.Equal(t, "device-telnet", c.MQTT.ClientID)
	assert.Equal(t, "Lab-Console", c.ProfileName)
}

func TestFromDriverConfigs_Invalid(t *testing.T) {
	tests := []struct {
		name string
		m    map[string]string
	}{
		{"port", map[string]string{"Port": "telnet"}},
		{"port range", map[string]string{"Port": "70000"}},
		{"timeout", map[string]string{"ReadTimeout": "soon"}},
		{"strip echo", map[string]string{"StripEcho": "maybe"}},
		{"empty prompt", map[string]string{"Prompt": ""}},
		{"transport", map[string]string{"Transport": "ssh"}},
		{"serial device", map[string]string{"Transport": "serial"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.FromDriverConfigs(tt.m)
			assert.Error(t, err)
		})
	}
}

func TestParseAttributes(t *testing.T) {
	specs, err := config.ParseAttributes(`[
		{"name": "temp", "data_type": "DevDouble", "min_value": 0, "max_value": "100", "unit": "degC"},
		{"name": "enabled", "data_type": "DevBoolean", "write_type": "READ_WRITE"},
		{"name": "label"}
	]`)
	require.NoError(t, err)
	require.Len(t, specs, 3)
	assert.Equal(t, attribute.Spec{Name: "temp", DataType: "DevDouble", MinValue: "0", MaxValue: "100", Unit: "degC"}, specs[0])
	assert.Equal(t, "READ_WRITE", specs[1].WriteType)
	assert.Equal(t, attribute.Spec{Name: "label"}, specs[2])

	specs, err = config.ParseAttributes("")
	require.NoError(t, err)
	assert.Empty(t, specs)
}

func TestParseAttributes_Malformed(t *testing.T) {
	_, err := config.ParseAttributes(`[{"name": "temp",`)
	assert.Error(t, err)

	_, err = config.ParseAttributes(`[{"name": ["temp"]}]`)
	assert.Error(t, err)
}

func TestLoadAttributesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "attributes.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
Attributes:
  - name: temp
    data_type: DevDouble
    min_value: "0"
    max_value: "50"
  - name: mode
    write_type: READ
`), 0o600))

	specs, err := config.LoadAttributesFile(path)
	require.NoError(t, err)
	require.Len(t, specs, 2)
	assert.Equal(t, attribute.Spec{Name: "temp", DataType: "DevDouble", MinValue: "0", MaxValue: "50"}, specs[0])
	assert.Equal(t, attribute.Spec{Name: "mode", WriteType: "READ"}, specs[1])

	_, err = config.LoadAttributesFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	specs, err = config.LoadAttributesFile("")
	require.NoError(t, err)
	assert.Nil(t, specs)
}

func TestParseAttribute(t *testing.T) {
	s, err := config.ParseAttribute(`{"name": "volume", "data_type": "DevLong", "min_value": 0, "max_value": 11}`)
	require.NoError(t, err)
	assert.Equal(t, attribute.Spec{Name: "volume", DataType: "DevLong", MinValue: "0", MaxValue: "11"}, s)

	_, err = config.ParseAttribute(`not json`)
	assert.Error(t, err)
}
