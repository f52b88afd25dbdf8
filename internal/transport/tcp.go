package transport

import (
	"context"
	"fmt"
	"net"
	"time"
)

// Dial 打开到 address 的 TCP 连接；超时或被拒绝都返回 ErrConnection
func Dial(ctx context.Context, address string, timeout time.Duration) (Conn, error) {
	d := net.Dialer{Timeout: timeout}
	c, err := d.DialContext(ctx, "tcp", address)
	if err != nil {
		return nil, fmt.Errorf("%w: dial %s: %v", ErrConnection, address, err)
	}
	return c, nil
}
