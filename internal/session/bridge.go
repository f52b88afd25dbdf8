// Package session 实现基于提示符的 telnet 会话协议：
// 连接、登录、初始化命令，以及把属性读写翻译成模板命令。
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/edgexfoundry/go-mod-core-contracts/v4/clients/logger"
	"github.com/linjuya-lu/device_telnet_go/internal/attribute"
	"github.com/linjuya-lu/device_telnet_go/internal/config"
	"github.com/linjuya-lu/device_telnet_go/internal/transport"
)

// ConnectTimeout 建立连接的固定超时
const ConnectTimeout = 10 * time.Second

var (
	ErrNotReady     = errors.New("session not ready")
	ErrAccessDenied = errors.New("access denied")
	ErrReservedName = errors.New("attribute name is reserved")
)

// Dialer 建立到远端控制台的字节通道
type Dialer func(ctx context.Context, cfg config.SessionConfig) (transport.Conn, error)

// Observer 在读取成功和下发成功后收到通知
type Observer interface {
	AttributeRead(name string, value any)
	AttributePublished(name, value string)
}

// Bridge 独占唯一的连接和属性表；所有命令+响应周期在 mu 内串行执行
type Bridge struct {
	mu       sync.Mutex
	cfg      config.SessionConfig
	registry *attribute.Registry
	tr       *transport.Transport
	state    atomic.Int32

	dial     Dialer
	observer Observer
	reserved map[string]struct{}
	now      func() time.Time
	lc       logger.LoggingClient
}

type Option func(*Bridge)

// WithDialer 替换默认的 TCP/串口拨号
func WithDialer(d Dialer) Option {
	return func(b *Bridge) { b.dial = d }
}

func WithObserver(o Observer) Option {
	return func(b *Bridge) { b.observer = o }
}

func WithClock(now func() time.Time) Option {
	return func(b *Bridge) { b.now = now }
}

// WithReservedNames 禁止以这些名称注册属性，例如宿主自带的资源名
func WithReservedNames(names ...string) Option {
	return func(b *Bridge) {
		for _, n := range names {
			b.reserved[n] = struct{}{}
		}
	}
}

// NewBridge 创建处于 Disconnected 状态的会话
func NewBridge(cfg config.SessionConfig, lc logger.LoggingClient, opts ...Option) *Bridge {
	b := &Bridge{
		cfg:      cfg,
		registry: attribute.NewRegistry(),
		dial:     DefaultDialer,
		now:      time.Now,
		reserved: make(map[string]struct{}),
		lc:       lc,
	}
	for _, o := range opts {
		o(b)
	}
	return b
}

// DefaultDialer 按 Transport 配置打开 TCP 或串口
func DefaultDialer(ctx context.Context, cfg config.SessionConfig) (transport.Conn, error) {
	if cfg.Transport == config.TransportSerial {
		return transport.OpenSerial(transport.SerialPort{Device: cfg.Serial.Device, Baudrate: cfg.Serial.Baudrate})
	}
	return transport.Dial(ctx, cfg.Address(), ConnectTimeout)
}

func (b *Bridge) State() State {
	return State(b.state.Load())
}

func (b *Bridge) setState(s State) {
	b.state.Store(int32(s))
}

// DeviceState 对外报告的设备状态
func (b *Bridge) DeviceState() string {
	return b.State().DeviceState()
}

// Time 当前时间
func (b *Bridge) Time() time.Time {
	return b.now()
}

// AddDynamicAttribute 注册一个新属性；名称为空时什么也不做
func (b *Bridge) AddDynamicAttribute(spec attribute.Spec) error {
	if _, ok := b.reserved[spec.Name]; ok {
		return fmt.Errorf("%w: %s", ErrReservedName, spec.Name)
	}
	d, err := b.registry.Register(spec)
	if err != nil {
		return err
	}
	if d != nil {
		b.lc.Infof("added dynamic attribute %s (%s, %s)", d.Name, d.Type, d.Access)
	}
	return nil
}

// Attribute 返回属性描述的副本
func (b *Bridge) Attribute(name string) (attribute.Descriptor, error) {
	return b.registry.Get(name)
}

// Attributes 返回所有已注册的属性名
func (b *Bridge) Attributes() []string {
	return b.registry.Names()
}

// Reconnect 丢弃旧连接并重新走完 连接 → 登录 → 初始化 流程
func (b *Bridge) Reconnect(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.closeLocked()
	b.setState(Connecting)
	b.lc.Infof("Connecting to %s", b.target())

	dctx, cancel := context.WithTimeout(ctx, ConnectTimeout)
	defer cancel()
	conn, err := b.dial(dctx, b.cfg)
	if err != nil {
		b.setState(Failed)
		if !errors.Is(err, transport.ErrConnection) {
			err = fmt.Errorf("%w: %v", transport.ErrConnection, err)
		}
		return err
	}
	b.tr = transport.New(conn, b.target(), b.cfg.ReadTimeout, b.lc)

	if err := b.login(); err != nil {
		b.fail()
		return err
	}
	b.setState(Ready)
	b.lc.Infof("session to %s ready", b.target())
	return nil
}

func (b *Bridge) login() error {
	c := b.cfg
	if c.Username != "" && c.UsernamePrompt != "" {
		b.setState(AuthenticatingUsername)
		if _, err := b.tr.ReadUntil(c.UsernamePrompt); err != nil {
			return err
		}
		if err := b.tr.SendLine(c.Username); err != nil {
			return err
		}
	}
	if c.Password != "" && c.PasswordPrompt != "" {
		b.setState(AuthenticatingPassword)
		if _, err := b.tr.ReadUntil(c.PasswordPrompt); err != nil {
			return err
		}
		if err := b.tr.SendLine(c.Password); err != nil {
			return err
		}
	}

	b.setState(Initializing)
	banner, err := b.tr.ReadUntil(c.Prompt)
	if err != nil {
		return err
	}
	b.lc.Debugf("login banner: %q", banner)

	if c.InitCommand != "" {
		out, err := b.exchange(c.InitCommand)
		if err != nil {
			return err
		}
		b.lc.Debugf("init command %q: %q", c.InitCommand, out)
	}
	return nil
}

// ReadAttribute 发送读命令并把提示符之前的响应解析为声明类型
func (b *Bridge) ReadAttribute(name string) (any, error) {
	b.mu.Lock()
	v, err := b.readLocked(name)
	b.mu.Unlock()
	if err != nil {
		return nil, err
	}
	// 观察者在锁外通知，慢的镜像不会拖住后续命令
	if b.observer != nil {
		b.observer.AttributeRead(name, v)
	}
	return v, nil
}

func (b *Bridge) readLocked(name string) (any, error) {
	d, err := b.registry.Get(name)
	if err != nil {
		return nil, err
	}
	if !d.Access.Readable() {
		return nil, fmt.Errorf("%w: %s is %s", ErrAccessDenied, name, d.Access)
	}
	if err := b.checkReady(); err != nil {
		return nil, err
	}

	text, err := b.exchange(RenderRead(b.cfg.ReadCommand, name))
	if err != nil {
		return nil, err
	}
	v, err := attribute.Decode(d.Type, text)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	b.lc.Debugf("read value %s: %v", name, v)
	return v, nil
}

// WriteAttribute 暂存 value 的文本形式然后下发。
// 下发失败时暂存值保持为本次写入的值，不回滚。
func (b *Bridge) WriteAttribute(name string, value any) error {
	b.mu.Lock()
	staged, err := b.writeLocked(name, value)
	b.mu.Unlock()
	if err != nil {
		return err
	}
	b.notifyPublished(name, staged)
	return nil
}

func (b *Bridge) writeLocked(name string, value any) (string, error) {
	d, err := b.registry.Get(name)
	if err != nil {
		return "", err
	}
	if !d.Access.Writable() {
		return "", fmt.Errorf("%w: %s is %s", ErrAccessDenied, name, d.Access)
	}
	if err := attribute.CheckBounds(d, value); err != nil {
		return "", err
	}
	if err := b.registry.Stage(name, attribute.Encode(value)); err != nil {
		return "", err
	}
	return b.publishLocked(name)
}

// Publish 把属性当前的暂存值下发到远端
func (b *Bridge) Publish(name string) error {
	b.mu.Lock()
	staged, err := b.publishLocked(name)
	b.mu.Unlock()
	if err != nil {
		return err
	}
	b.notifyPublished(name, staged)
	return nil
}

// publishLocked 返回实际下发的暂存值
func (b *Bridge) publishLocked(name string) (string, error) {
	d, err := b.registry.Get(name)
	if err != nil {
		return "", err
	}
	if err := b.checkReady(); err != nil {
		return "", err
	}
	b.lc.Infof("Publish variable %s: %s", name, d.Staged)
	// 响应内容只用于重新对齐到提示符边界
	out, err := b.exchange(RenderWrite(b.cfg.WriteCommand, name, d.Staged))
	if err != nil {
		return "", err
	}
	b.lc.Debugf("publish %s response: %q", name, out)
	return d.Staged, nil
}

func (b *Bridge) notifyPublished(name, staged string) {
	if b.observer != nil {
		b.observer.AttributePublished(name, staged)
	}
}

// exchange 发送一行命令并读到下一个提示符
func (b *Bridge) exchange(cmd string) (string, error) {
	// 上一条命令超时，先把它迟到的响应读掉，避免答非所问
	if err := b.tr.Resync(b.cfg.Prompt); err != nil {
		b.transportError(err)
		return "", err
	}
	if err := b.tr.SendLine(cmd); err != nil {
		b.transportError(err)
		return "", err
	}
	out, err := b.tr.ReadUntil(b.cfg.Prompt)
	if err != nil {
		b.transportError(err)
		return "", err
	}
	if b.cfg.StripEcho {
		out = stripEcho(out, cmd)
	}
	return out, nil
}

func stripEcho(out, cmd string) string {
	first, rest, _ := strings.Cut(out, "\n")
	if strings.TrimSpace(first) != strings.TrimSpace(cmd) {
		return out
	}
	return strings.TrimSpace(rest)
}

// transportError 连接断开进入 Failed；读超时保持当前状态
func (b *Bridge) transportError(err error) {
	if errors.Is(err, transport.ErrConnectionLost) {
		b.lc.Errorf("connection to %s lost: %v", b.target(), err)
		b.fail()
		return
	}
	b.lc.Warnf("%s: %v", b.target(), err)
}

func (b *Bridge) checkReady() error {
	if s := b.State(); s != Ready {
		return fmt.Errorf("%w: state %s", ErrNotReady, s)
	}
	return nil
}

func (b *Bridge) fail() {
	b.closeLocked()
	b.setState(Failed)
}

func (b *Bridge) closeLocked() {
	if b.tr != nil {
		if err := b.tr.Close(); err != nil {
			b.lc.Debugf("close %s: %v", b.tr.Name(), err)
		}
		b.tr = nil
	}
}

// Close 关闭连接，状态回到 Disconnected
func (b *Bridge) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closeLocked()
	b.setState(Disconnected)
	return nil
}

func (b *Bridge) target() string {
	if b.cfg.Transport == config.TransportSerial {
		return b.cfg.Serial.Device
	}
	return b.cfg.Address()
}
