package session

import "fmt"

// State 会话状态机
//
//	Disconnected → Connecting → AuthenticatingUsername → AuthenticatingPassword → Initializing → Ready
//
// 任意状态遇到不可恢复的传输错误都进入 Failed，只能通过 Reconnect 恢复。
type State int32

const (
	Disconnected State = iota
	Connecting
	AuthenticatingUsername
	AuthenticatingPassword
	Initializing
	Ready
	Failed
)

func (s State) String() string {
	switch s {
	case Disconnected:
		return "Disconnected"
	case Connecting:
		return "Connecting"
	case AuthenticatingUsername:
		return "Authenticating(username)"
	case AuthenticatingPassword:
		return "Authenticating(password)"
	case Initializing:
		return "Initializing"
	case Ready:
		return "Ready"
	case Failed:
		return "Failed"
	}
	return fmt.Sprintf("State(%d)", int32(s))
}

// 对外报告的设备状态
const (
	DeviceStateInit  = "INITIALIZING"
	DeviceStateOn    = "ON"
	DeviceStateFault = "FAULT"
)

// DeviceState 把会话状态映射为设备状态：Ready 之前为 INITIALIZING
func (s State) DeviceState() string {
	switch s {
	case Ready:
		return DeviceStateOn
	case Failed:
		return DeviceStateFault
	}
	return DeviceStateInit
}
