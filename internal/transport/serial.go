package transport

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/tarm/serial"
)

// serialPollInterval 串口单次读阻塞的上限，整体超时由 Transport 控制
const serialPollInterval = 500 * time.Millisecond

// SerialPort 描述一个串口控制台
type SerialPort struct {
	Device   string // 串口设备节点，例如 "/dev/ttyUSB0"
	Baudrate int    // 波特率
}

// serialConn 把串口读超时返回的 EOF 视为“暂无数据”
type serialConn struct {
	port *serial.Port
}

// OpenSerial 打开并配置串口，作为与 TCP 同等的控制台通道
func OpenSerial(cfg SerialPort) (Conn, error) {
	sc := &serial.Config{
		Name:        cfg.Device,
		Baud:        cfg.Baudrate,
		ReadTimeout: serialPollInterval,
	}
	p, err := serial.OpenPort(sc)
	if err != nil {
		return nil, fmt.Errorf("%w: open serial %s: %v", ErrConnection, cfg.Device, err)
	}
	return &serialConn{port: p}, nil
}

func (s *serialConn) Read(b []byte) (int, error) {
	n, err := s.port.Read(b)
	if errors.Is(err, io.EOF) {
		return n, nil
	}
	return n, err
}

func (s *serialConn) Write(b []byte) (int, error) {
	n, err := s.port.Write(b)
	if err != nil {
		return n, fmt.Errorf("serial write failed: %w", err)
	}
	return n, nil
}

func (s *serialConn) Close() error {
	return s.port.Close()
}
