package driver

import (
	stderrors "errors"

	"github.com/edgexfoundry/go-mod-core-contracts/v4/errors"
	"github.com/linjuya-lu/device_telnet_go/internal/attribute"
	"github.com/linjuya-lu/device_telnet_go/internal/session"
	"github.com/linjuya-lu/device_telnet_go/internal/transport"
)

// toEdgeX 把会话层的错误归类为 EdgeX 错误类型
func toEdgeX(message string, err error) errors.EdgeX {
	return errors.NewCommonEdgeX(errorKind(err), message, err)
}

func errorKind(err error) errors.ErrKind {
	is := func(targets ...error) bool {
		for _, t := range targets {
			if stderrors.Is(err, t) {
				return true
			}
		}
		return false
	}
	switch {
	case is(attribute.ErrUnknownAttribute):
		return errors.KindEntityDoesNotExist
	case is(attribute.ErrDuplicateAttribute, session.ErrReservedName):
		return errors.KindDuplicateName
	case is(attribute.ErrUnsupportedType, attribute.ErrUnsupportedAccessMode, attribute.ErrInvalidValueFormat,
		attribute.ErrOutOfRange, session.ErrAccessDenied):
		return errors.KindContractInvalid
	case is(transport.ErrConnection, transport.ErrReadTimeout, transport.ErrConnectionLost, session.ErrNotReady):
		return errors.KindCommunicationError
	}
	// SDK 返回的错误保留原有类型
	if k := errors.Kind(err); k != errors.KindUnknown {
		return k
	}
	return errors.KindServerError
}
