package session_test

import (
	"testing"

	"github.com/linjuya-lu/device_telnet_go/internal/session"
	"github.com/stretchr/testify/assert"
)

func TestRenderRead(t *testing.T) {
	assert.Equal(t, "GET temp", session.RenderRead(session.DefaultReadCommand, "temp"))
	assert.Equal(t, "temp temp", session.RenderRead("_VARNAME_ _VARNAME_", "temp"))
	assert.Equal(t, "STATUS", session.RenderRead("STATUS", "temp"))
}

func TestRenderWrite(t *testing.T) {
	assert.Equal(t, "SET temp TO 42", session.RenderWrite(session.DefaultWriteCommand, "temp", "42"))
	assert.Equal(t, "temp=1;temp?", session.RenderWrite("_VARNAME_=_VALUE_;_VARNAME_?", "temp", "1"))
	assert.Equal(t, "RESET", session.RenderWrite("RESET", "temp", "1"))
}

func TestRenderWrite_SubstitutedTextIsLiteral(t *testing.T) {
	assert.Equal(t, "SET a_VALUE_b TO $1", session.RenderWrite(session.DefaultWriteCommand, "a_VALUE_b", "$1"))
}

func TestStateDeviceState(t *testing.T) {
	for _, s := range []session.State{session.Disconnected, session.Connecting, session.AuthenticatingUsername, session.AuthenticatingPassword, session.Initializing} {
		assert.Equal(t, session.DeviceStateInit, s.DeviceState(), s.String())
	}
	assert.Equal(t, session.DeviceStateOn, session.Ready.DeviceState())
	assert.Equal(t, session.DeviceStateFault, session.Failed.DeviceState())
	assert.Equal(t, "Authenticating(username)", session.AuthenticatingUsername.String())
}
