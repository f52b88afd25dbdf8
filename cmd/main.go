// -*- Mode: Go; indent-tabs-mode: t -*-
//
// Copyright (C) 2018-2022 IOTech Ltd
//
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"github.com/edgexfoundry/device-sdk-go/v4/pkg/startup"

	device_telnet "github.com/linjuya-lu/device_telnet_go"
	"github.com/linjuya-lu/device_telnet_go/internal/driver"
)

const (
	serviceName string = "device-telnet"
)

func main() {
	d := driver.NewTelnetDeviceDriver()
	startup.Bootstrap(serviceName, device_telnet.Version, d)
}
