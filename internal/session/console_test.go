package session_test

import (
	"bufio"
	"context"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/linjuya-lu/device_telnet_go/internal/config"
	"github.com/linjuya-lu/device_telnet_go/internal/session"
	"github.com/linjuya-lu/device_telnet_go/internal/transport"
)

// fakeConsole 在 net.Pipe 的另一端按脚本扮演远端控制台，并记录收到的每一行
type fakeConsole struct {
	conn net.Conn
	r    *bufio.Reader

	mu    sync.Mutex
	lines []string
	dials int
	done  chan struct{}
}

// startConsole 返回一个只会成功一次的 Dialer；script 在后台运行直到返回
func startConsole(t *testing.T, script func(c *fakeConsole)) (*fakeConsole, session.Dialer) {
	t.Helper()
	client, server := net.Pipe()
	c := &fakeConsole{conn: server, r: bufio.NewReader(server), done: make(chan struct{})}
	go func() {
		defer close(c.done)
		script(c)
	}()
	t.Cleanup(func() {
		_ = client.Close()
		_ = server.Close()
		<-c.done
	})
	dial := func(ctx context.Context, cfg config.SessionConfig) (transport.Conn, error) {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.dials++
		return client, nil
	}
	return c, dial
}

func (c *fakeConsole) send(s string) bool {
	_, err := c.conn.Write([]byte(s))
	return err == nil
}

// readLine 读取一行并记录；对端关闭时返回 false
func (c *fakeConsole) readLine() (string, bool) {
	line, err := c.r.ReadString('\n')
	if err != nil {
		return "", false
	}
	c.mu.Lock()
	c.lines = append(c.lines, line)
	c.mu.Unlock()
	return line, true
}

// drain 记录剩余的所有行直到对端关闭
func (c *fakeConsole) drain() {
	for {
		if _, ok := c.readLine(); !ok {
			return
		}
	}
}

func (c *fakeConsole) received() []string {
	<-c.done
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.lines...)
}

func testConfig() config.SessionConfig {
	cfg := config.Default()
	cfg.ReadTimeout = 2 * time.Second
	return cfg
}
