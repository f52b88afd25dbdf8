// internal/mqttclient/mqttclient.go
package mqttclient

import (
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// ClientOptions 配置 MQTT 客户端行为
// Broker: tcp://host:port
// ClientID: 客户端标识
// Username/Password: 可选认证
type ClientOptions struct {
	Broker         string
	ClientID       string
	Username       string
	Password       string
	KeepAlive      time.Duration
	ConnectTimeout time.Duration
}

// NewClient 根据传入的配置创建并连接 MQTT 客户端
func NewClient(opts ClientOptions) (mqtt.Client, error) {
	if opts.KeepAlive == 0 {
		opts.KeepAlive = 60 * time.Second
	}
	if opts.ConnectTimeout == 0 {
		opts.ConnectTimeout = 10 * time.Second
	}
	p := mqtt.NewClientOptions().
		AddBroker(opts.Broker).
		SetClientID(opts.ClientID).
		SetCleanSession(true).
		// 自动重连，心跳，超时
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second).
		SetKeepAlive(opts.KeepAlive).
		SetPingTimeout(10 * time.Second)
	if opts.Username != "" {
		p.SetUsername(opts.Username)
	}
	if opts.Password != "" {
		p.SetPassword(opts.Password)
	}

	client := mqtt.NewClient(p)
	token := client.Connect()
	if ok := token.WaitTimeout(opts.ConnectTimeout); !ok {
		return nil, fmt.Errorf("mqtt connect to %s timeout after %s", opts.Broker, opts.ConnectTimeout)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("mqtt connect to %s: %w", opts.Broker, err)
	}
	return client, nil
}
