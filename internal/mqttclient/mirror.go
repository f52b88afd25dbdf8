package mqttclient

import (
	"encoding/json"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/edgexfoundry/go-mod-core-contracts/v4/clients/logger"
	"github.com/google/uuid"
)

const publishTimeout = 2 * time.Second

// 镜像事件类型
const (
	EventRead    = "read"
	EventPublish = "publish"
)

// EdgexMessage 是 EdgeX MessageBus 的通用消息格式
type EdgexMessage struct {
	ApiVersion    string      `json:"apiVersion"`
	ReceivedTopic string      `json:"receivedTopic,omitempty"`
	CorrelationID string      `json:"correlationID"`
	RequestID     string      `json:"requestID"`
	ErrorCode     int         `json:"errorCode"`
	Payload       interface{} `json:"payload,omitempty"`
	ContentType   string      `json:"contentType"`
}

// AttributePayload 是 payload 部分的结构
type AttributePayload struct {
	Source    string `json:"source"`    // 远端控制台地址
	Attribute string `json:"attribute"` // 属性名
	Event     string `json:"event"`     // read / publish
	Value     any    `json:"value"`
	Timestamp int64  `json:"timestamp"` // Unix 纳秒
}

// Publisher 是 mqtt.Client 中镜像用到的部分
type Publisher interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
}

// Mirror 把属性读取和下发结果转发到 <prefix>/<attribute>/<event>
type Mirror struct {
	pub    Publisher
	prefix string
	source string
	lc     logger.LoggingClient
	now    func() time.Time
}

func NewMirror(pub Publisher, prefix, source string, lc logger.LoggingClient) *Mirror {
	return &Mirror{pub: pub, prefix: prefix, source: source, lc: lc, now: time.Now}
}

func (m *Mirror) AttributeRead(name string, value any) {
	m.publish(name, EventRead, value)
}

func (m *Mirror) AttributePublished(name, value string) {
	m.publish(name, EventPublish, value)
}

// Topic 返回属性某类事件的主题
func (m *Mirror) Topic(name, event string) string {
	return m.prefix + "/" + name + "/" + event
}

func (m *Mirror) publish(name, event string, value any) {
	msg := EdgexMessage{
		ApiVersion:    "v3",
		CorrelationID: uuid.NewString(),
		RequestID:     uuid.NewString(),
		Payload: AttributePayload{
			Source:    m.source,
			Attribute: name,
			Event:     event,
			Value:     value,
			Timestamp: m.now().UnixNano(),
		},
		ContentType: "application/json",
	}
	body, err := json.Marshal(msg)
	if err != nil {
		m.lc.Errorf("mqtt mirror: marshal %s: %v", name, err)
		return
	}
	topic := m.Topic(name, event)
	tok := m.pub.Publish(topic, 0, false, body)
	if !tok.WaitTimeout(publishTimeout) {
		m.lc.Warnf("mqtt mirror: publish to %s timeout", topic)
		return
	}
	if err := tok.Error(); err != nil {
		m.lc.Warnf("mqtt mirror: publish to %s: %v", topic, err)
	}
}
