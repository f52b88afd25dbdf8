// internal/driver/init.go
package driver

import (
	"fmt"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/edgexfoundry/go-mod-core-contracts/v4/clients/logger"
	"github.com/linjuya-lu/device_telnet_go/internal/attribute"
	"github.com/linjuya-lu/device_telnet_go/internal/config"
	"github.com/linjuya-lu/device_telnet_go/internal/mqttclient"
	"github.com/linjuya-lu/device_telnet_go/internal/session"
)

// InitializeBridge 负责：
//  1. 解析 InitDynamicAttributes（JSON）和 AttributesFile（YAML）
//  2. 创建会话并逐个注册属性，任一失败即返回
//  3. 配置了 MqttBroker 时连接 MQTT 并挂上镜像
//
// 不在这里建立 telnet 连接，也不同步设备 profile，两者都由 Start 完成。
func InitializeBridge(cfg config.SessionConfig, lc logger.LoggingClient, opts ...session.Option) (*session.Bridge, mqtt.Client, error) {
	// 1. 载入属性描述
	specs, err := config.ParseAttributes(cfg.InitDynamicAttributes)
	if err != nil {
		return nil, nil, err
	}
	fromFile, err := config.LoadAttributesFile(cfg.AttributesFile)
	if err != nil {
		return nil, nil, err
	}
	specs = append(specs, fromFile...)

	// 2. MQTT 镜像
	var client mqtt.Client
	if cfg.MQTT.Broker != "" {
		client, err = mqttclient.NewClient(mqttclient.ClientOptions{
			Broker:   cfg.MQTT.Broker,
			ClientID: cfg.MQTT.ClientID,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("init mqtt mirror: %w", err)
		}
		source := cfg.Address()
		if cfg.Transport == config.TransportSerial {
			source = cfg.Serial.Device
		}
		mirror := mqttclient.NewMirror(client, cfg.MQTT.TopicPrefix, source, lc)
		opts = append(opts, session.WithObserver(mirror))
		lc.Infof("mirroring attribute values to %s under %s", cfg.MQTT.Broker, cfg.MQTT.TopicPrefix)
	}

	// 3. 注册属性，内置资源名不能被属性占用
	opts = append(opts, session.WithReservedNames(ResourceTime, ResourceState,
		ResourceAddDynamicAttribute, ResourcePublish, ResourceReconnect))
	b := session.NewBridge(cfg, lc, opts...)
	if err := registerAll(b, specs); err != nil {
		if client != nil {
			client.Disconnect(250)
		}
		return nil, nil, err
	}
	return b, client, nil
}

func registerAll(b *session.Bridge, specs []attribute.Spec) error {
	for _, s := range specs {
		if err := b.AddDynamicAttribute(s); err != nil {
			return fmt.Errorf("register attribute %q: %w", s.Name, err)
		}
	}
	return nil
}
