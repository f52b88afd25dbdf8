// Package transport 持有与远端控制台之间唯一的一条字节通道，
// 提供连接、按行发送以及读到分隔符为止的原语。
package transport

import (
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"strings"
	"time"

	"github.com/edgexfoundry/go-mod-core-contracts/v4/clients/logger"
)

// DefaultReadTimeout 未配置读超时时使用
const DefaultReadTimeout = 10 * time.Second

var (
	ErrConnection     = errors.New("connection error")
	ErrReadTimeout    = errors.New("read timeout")
	ErrConnectionLost = errors.New("connection lost")
)

// Conn 是底层字节通道：TCP socket 或串口
type Conn interface {
	io.ReadWriteCloser
}

type readDeadliner interface {
	SetReadDeadline(t time.Time) error
}

type writeDeadliner interface {
	SetWriteDeadline(t time.Time) error
}

// Transport 在 Conn 之上维护读缓存，提示符之后多读到的字节留给下一次读取
type Transport struct {
	conn        Conn
	name        string
	readTimeout time.Duration
	buf         []byte
	// stale 上一次读超时后，远端迟到的响应可能还在路上
	stale bool
	lc    logger.LoggingClient
}

// New 包装一条已建立的连接；readTimeout<=0 时使用 DefaultReadTimeout
func New(conn Conn, name string, readTimeout time.Duration, lc logger.LoggingClient) *Transport {
	if readTimeout <= 0 {
		readTimeout = DefaultReadTimeout
	}
	return &Transport{conn: conn, name: name, readTimeout: readTimeout, lc: lc}
}

// Name 返回逻辑名称，如 "127.0.0.1:23"
func (t *Transport) Name() string {
	return t.name
}

// SendLine 以 ASCII 写出 text 并追加换行
func (t *Transport) SendLine(text string) error {
	if w, ok := t.conn.(writeDeadliner); ok {
		_ = w.SetWriteDeadline(time.Now().Add(t.readTimeout))
	}
	n, err := io.WriteString(t.conn, text+"\n")
	if err != nil {
		return fmt.Errorf("%w: write to %s: %v", ErrConnectionLost, t.name, err)
	}
	t.lc.Tracef("⇨ %s wrote %d bytes", t.name, n)
	return nil
}

// ReadUntil 阻塞直到 delimiter 出现或读超时。
// 返回分隔符之前的文本（去掉首尾空白），分隔符本身被消费。
func (t *Transport) ReadUntil(delimiter string) (string, error) {
	frame, err := t.ReadFrame(PromptParser(delimiter))
	if err != nil {
		return "", fmt.Errorf("waiting for %q: %w", delimiter, err)
	}
	return strings.TrimSpace(string(frame)), nil
}

// Stale 报告上一次读取是否以超时结束且尚未 Resync
func (t *Transport) Stale() bool {
	return t.stale
}

// Resync 在读超时之后、发送下一条命令之前调用。
// 最多等待一个读超时周期，丢弃迟到的响应直到 delimiter；
// 期间远端一直没有输出则清空缓存，认为该命令已被远端丢弃。
func (t *Transport) Resync(delimiter string) error {
	if !t.stale {
		return nil
	}
	out, err := t.ReadUntil(delimiter)
	t.stale = false
	switch {
	case err == nil:
		t.lc.Debugf("%s: discarded late response %q", t.name, out)
	case errors.Is(err, ErrReadTimeout):
		t.buf = nil
		t.lc.Debugf("%s: no late response, buffer discarded", t.name)
	default:
		return err
	}
	return nil
}

// ReadFrame 持续读取直到 parse 从缓存中取出一帧
func (t *Transport) ReadFrame(parse FrameParser) ([]byte, error) {
	deadline := time.Now().Add(t.readTimeout)
	tmp := make([]byte, 4096)
	for {
		frame, rest, err := parse(t.buf)
		if err != nil {
			// 出错直接丢弃整个缓存
			t.buf = nil
			return nil, err
		}
		if frame != nil {
			t.buf = rest
			return frame, nil
		}
		if !time.Now().Before(deadline) {
			t.stale = true
			return nil, fmt.Errorf("%w after %s on %s", ErrReadTimeout, t.readTimeout, t.name)
		}

		if r, ok := t.conn.(readDeadliner); ok {
			_ = r.SetReadDeadline(deadline)
		}
		n, err := t.conn.Read(tmp)
		if n > 0 {
			t.buf = append(t.buf, tmp[:n]...)
			t.lc.Tracef("⇦ %s read %d bytes", t.name, n)
		}
		if err != nil {
			if isTimeout(err) {
				continue
			}
			return nil, fmt.Errorf("%w: read from %s: %v", ErrConnectionLost, t.name, err)
		}
	}
}

// Close 关闭底层连接并清空缓存
func (t *Transport) Close() error {
	t.buf = nil
	t.stale = false
	if t.conn == nil {
		return nil
	}
	return t.conn.Close()
}

func isTimeout(err error) bool {
	if errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
