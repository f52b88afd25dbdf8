package config

import (
	"fmt"
	"strconv"
	"time"
)

// Driver 配置段中的键名
const (
	KeyHost                  = "Host"
	KeyPort                  = "Port"
	KeyUsername              = "Username"
	KeyUsernamePrompt        = "UsernamePrompt"
	KeyPassword              = "Password"
	KeyPasswordPrompt        = "PasswordPrompt"
	KeyInitCommand           = "InitCommand"
	KeyReadCommand           = "ReadCommand"
	KeyWriteCommand          = "WriteCommand"
	KeyPrompt                = "Prompt"
	KeyInitDynamicAttributes = "InitDynamicAttributes"
	KeyAttributesFile        = "AttributesFile"
	KeyReadTimeout           = "ReadTimeout"
	KeyStripEcho             = "StripEcho"
	KeyTransport             = "Transport"
	KeySerialDevice          = "SerialDevice"
	KeyBaudrate              = "Baudrate"
	KeyMqttBroker            = "MqttBroker"
	KeyMqttClientID          = "MqttClientID"
	KeyMqttTopicPrefix       = "MqttTopicPrefix"
	KeyProfileName           = "ProfileName"
)

// DefaultProfileName res/profiles 中随服务发布的 profile
const DefaultProfileName = "Telnet-Console"

// Default 返回全部默认值
func Default() SessionConfig {
	return SessionConfig{
		Host:           "127.0.0.1",
		Port:           23,
		UsernamePrompt: "Username:",
		PasswordPrompt: "Password:",
		ReadCommand:    "GET _VARNAME_",
		WriteCommand:   "SET _VARNAME_ TO _VALUE_",
		Prompt:         "> ",
		ReadTimeout:    10 * time.Second,
		Transport:      TransportTCP,
		ProfileName:    DefaultProfileName,
		Serial:         SerialConfig{Baudrate: 9600},
		MQTT:           MQTTConfig{ClientID: "device-telnet", TopicPrefix: "edgex/telnet"},
	}
}

// FromDriverConfigs 把 SDK 提供的 Driver 配置段解析为 SessionConfig。
// 未出现的键保持默认值；出现但为空的提示符表示跳过对应的登录步骤。
func FromDriverConfigs(m map[string]string) (SessionConfig, error) {
	c := Default()

	str := func(key string, dst *string) {
		if v, ok := m[key]; ok {
			*dst = v
		}
	}
	str(KeyHost, &c.Host)
	str(KeyUsername, &c.Username)
	str(KeyUsernamePrompt, &c.UsernamePrompt)
	str(KeyPassword, &c.Password)
	str(KeyPasswordPrompt, &c.PasswordPrompt)
	str(KeyInitCommand, &c.InitCommand)
	str(KeyReadCommand, &c.ReadCommand)
	str(KeyWriteCommand, &c.WriteCommand)
	str(KeyPrompt, &c.Prompt)
	str(KeyInitDynamicAttributes, &c.InitDynamicAttributes)
	str(KeyAttributesFile, &c.AttributesFile)
	str(KeyTransport, &c.Transport)
	str(KeySerialDevice, &c.Serial.Device)
	str(KeyMqttBroker, &c.MQTT.Broker)
	str(KeyMqttClientID, &c.MQTT.ClientID)
	str(KeyMqttTopicPrefix, &c.MQTT.TopicPrefix)
	str(KeyProfileName, &c.ProfileName)

	var err error
	if v := m[KeyPort]; v != "" {
		if c.Port, err = strconv.Atoi(v); err != nil {
			return c, fmt.Errorf("invalid %s %q: %w", KeyPort, v, err)
		}
	}
	if v := m[KeyBaudrate]; v != "" {
		if c.Serial.Baudrate, err = strconv.Atoi(v); err != nil {
			return c, fmt.Errorf("invalid %s %q: %w", KeyBaudrate, v, err)
		}
	}
	if v := m[KeyReadTimeout]; v != "" {
		if c.ReadTimeout, err = time.ParseDuration(v); err != nil {
			return c, fmt.Errorf("invalid %s %q: %w", KeyReadTimeout, v, err)
		}
	}
	if v := m[KeyStripEcho]; v != "" {
		if c.StripEcho, err = strconv.ParseBool(v); err != nil {
			return c, fmt.Errorf("invalid %s %q: %w", KeyStripEcho, v, err)
		}
	}

	return c, c.Validate()
}

// Validate 检查无法在运行时恢复的配置错误
func (c SessionConfig) Validate() error {
	if c.Prompt == "" {
		return fmt.Errorf("%s must not be empty", KeyPrompt)
	}
	if c.ReadTimeout <= 0 {
		return fmt.Errorf("%s must be positive, got %s", KeyReadTimeout, c.ReadTimeout)
	}
	switch c.Transport {
	case TransportTCP:
		if c.Port <= 0 || c.Port > 65535 {
			return fmt.Errorf("%s %d out of range", KeyPort, c.Port)
		}
	case TransportSerial:
		if c.Serial.Device == "" {
			return fmt.Errorf("%s is required when %s=%s", KeySerialDevice, KeyTransport, TransportSerial)
		}
	default:
		return fmt.Errorf("unknown %s %q, supported are: %s, %s", KeyTransport, c.Transport, TransportTCP, TransportSerial)
	}
	return nil
}
