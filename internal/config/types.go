package config

import (
	"net"
	"strconv"
	"time"
)

// 连接方式
const (
	TransportTCP    = "tcp"
	TransportSerial = "serial"
)

// SerialConfig 串口控制台参数，Transport=serial 时生效
type SerialConfig struct {
	Device   string // 串口设备节点
	Baudrate int    // 波特率
}

// MQTTConfig 属性值镜像到 MQTT，Broker 为空时关闭
type MQTTConfig struct {
	Broker      string // tcp://host:port
	ClientID    string // 客户端标识
	TopicPrefix string // 主题前缀
}

// SessionConfig 启动时加载一次的只读配置，重连复用同一份
type SessionConfig struct {
	Host           string
	Port           int
	Username       string
	UsernamePrompt string
	Password       string
	PasswordPrompt string
	InitCommand    string
	ReadCommand    string
	WriteCommand   string
	Prompt         string

	// InitDynamicAttributes JSON 数组，启动时逐个注册
	InitDynamicAttributes string
	// AttributesFile 同样的属性列表，YAML 文件形式
	AttributesFile string

	ReadTimeout time.Duration
	// StripEcho 控制台回显命令时丢弃响应的第一行
	StripEcho bool
	Transport string

	// ProfileName 动态属性同步到的 EdgeX 设备 profile
	ProfileName string

	Serial SerialConfig
	MQTT   MQTTConfig
}

// Address 返回 host:port
func (c SessionConfig) Address() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}
