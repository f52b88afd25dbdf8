// -*- Mode: Go; indent-tabs-mode: t -*-
//
// Copyright (C) 2025 YourCompany
//
// SPDX-License-Identifier: Apache-2.0

package driver

import (
	"fmt"

	"github.com/edgexfoundry/device-sdk-go/v4/pkg/models"
	"github.com/edgexfoundry/go-mod-core-contracts/v4/common"
	"github.com/linjuya-lu/device_telnet_go/internal/attribute"
)

// edgexValueType 属性声明类型对应的 EdgeX 值类型
func edgexValueType(t attribute.ValueType) string {
	switch t {
	case attribute.Boolean:
		return common.ValueTypeBool
	case attribute.Integer:
		return common.ValueTypeInt64
	case attribute.Double:
		return common.ValueTypeFloat64
	case attribute.Float:
		return common.ValueTypeFloat32
	}
	return common.ValueTypeString
}

// attributeValue 把读取到的类型值封装成 CommandValue 上报
func attributeValue(d attribute.Descriptor, v any) (*models.CommandValue, error) {
	cv, err := models.NewCommandValue(d.Name, edgexValueType(d.Type), v)
	if err != nil {
		return nil, fmt.Errorf("creating %s CommandValue for %s: %w", d.Type, d.Name, err)
	}
	return cv, nil
}

// writeValue 取出上层下发的值，并按属性声明类型重新解析。
// 字符串写入数值属性时同样经过解析校验。
func writeValue(d attribute.Descriptor, param *models.CommandValue) (any, error) {
	var (
		raw any
		err error
	)

	// 根据 CV 类型取值
	switch param.Type {
	case common.ValueTypeBool:
		raw, err = param.BoolValue()
	case common.ValueTypeString:
		raw, err = param.StringValue()
	case common.ValueTypeInt8:
		raw, err = param.Int8Value()
	case common.ValueTypeInt16:
		raw, err = param.Int16Value()
	case common.ValueTypeInt32:
		raw, err = param.Int32Value()
	case common.ValueTypeInt64:
		raw, err = param.Int64Value()
	case common.ValueTypeUint8:
		raw, err = param.Uint8Value()
	case common.ValueTypeUint16:
		raw, err = param.Uint16Value()
	case common.ValueTypeUint32:
		raw, err = param.Uint32Value()
	case common.ValueTypeUint64:
		raw, err = param.Uint64Value()
	case common.ValueTypeFloat32:
		raw, err = param.Float32Value()
	case common.ValueTypeFloat64:
		raw, err = param.Float64Value()
	default:
		return nil, fmt.Errorf("%w: cannot write %s to %s", attribute.ErrUnsupportedType, param.Type, d.Name)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: invalid %s write for %s: %v", attribute.ErrInvalidValueFormat, param.Type, d.Name, err)
	}

	v, err := attribute.Decode(d.Type, attribute.Encode(raw))
	if err != nil {
		return nil, fmt.Errorf("write %s: %w", d.Name, err)
	}
	return v, nil
}
