// -*- Mode: Go; indent-tabs-mode: t -*-
//
// Copyright (C) 2019-2023 IOTech Ltd
//
// SPDX-License-Identifier: Apache-2.0

// Package driver provides an implementation of a ProtocolDriver interface
// on top of a prompt-driven telnet session.
package driver

import (
	"context"
	"fmt"
	"sync"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/edgexfoundry/device-sdk-go/v4/pkg/interfaces"
	dsModels "github.com/edgexfoundry/device-sdk-go/v4/pkg/models"
	"github.com/edgexfoundry/go-mod-core-contracts/v4/clients/logger"
	"github.com/edgexfoundry/go-mod-core-contracts/v4/common"
	"github.com/edgexfoundry/go-mod-core-contracts/v4/models"
	"github.com/linjuya-lu/device_telnet_go/internal/config"
	"github.com/linjuya-lu/device_telnet_go/internal/session"
)

// 内置资源，其余资源名都按动态属性处理
const (
	ResourceTime                = "Time"
	ResourceState               = "State"
	ResourceAddDynamicAttribute = "AddDynamicAttribute"
	ResourcePublish             = "Publish"
	ResourceReconnect           = "Reconnect"
)

type TelnetDriver struct {
	lc          logger.LoggingClient
	sdk         interfaces.DeviceServiceSDK
	profiles    profileStore
	profileName string
	bridge      *session.Bridge
	mqttClient  mqtt.Client
}

var once sync.Once
var driver *TelnetDriver

func NewTelnetDeviceDriver() interfaces.ProtocolDriver {
	once.Do(func() {
		driver = new(TelnetDriver)
	})
	return driver
}

func (d *TelnetDriver) Initialize(sdk interfaces.DeviceServiceSDK) error {
	d.sdk = sdk
	d.lc = sdk.LoggingClient()

	cfg, err := config.FromDriverConfigs(sdk.DriverConfigs())
	if err != nil {
		return fmt.Errorf("failed to load driver config: %w", err)
	}

	b, client, err := InitializeBridge(cfg, d.lc)
	if err != nil {
		return fmt.Errorf("failed to init telnet bridge: %w", err)
	}
	d.bridge = b
	d.mqttClient = client
	d.profiles = sdk
	d.profileName = cfg.ProfileName
	return nil
}

// Start 把启动时注册的属性同步进设备 profile，然后建立会话。
// Initialize 早于 SDK 载入 profile，所以同步放在这里。
// 连接失败只记录日志，设备保持 FAULT，等待 Reconnect 命令。
func (d *TelnetDriver) Start() error {
	if err := d.syncProfile(d.registeredDescriptors()...); err != nil {
		d.lc.Errorf("dynamic attributes are not reachable through profile %s: %v", d.profileName, err)
	}
	if err := d.bridge.Reconnect(context.Background()); err != nil {
		d.lc.Errorf("initial connect failed, write %s to retry: %v", ResourceReconnect, err)
		return nil
	}
	d.lc.Infof("telnet bridge is %s", d.bridge.DeviceState())
	return nil
}

func (d *TelnetDriver) HandleReadCommands(deviceName string, protocols map[string]models.ProtocolProperties, reqs []dsModels.CommandRequest) ([]*dsModels.CommandValue, error) {
	res := make([]*dsModels.CommandValue, len(reqs))
	for i, req := range reqs {
		cv, err := d.read(req.DeviceResourceName)
		if err != nil {
			return nil, toEdgeX(fmt.Sprintf("failed to read %s.%s", deviceName, req.DeviceResourceName), err)
		}
		res[i] = cv
	}
	return res, nil
}

func (d *TelnetDriver) read(resName string) (*dsModels.CommandValue, error) {
	switch resName {
	case ResourceTime:
		t := d.bridge.Time()
		return dsModels.NewCommandValue(resName, common.ValueTypeFloat64, float64(t.UnixNano())/1e9)
	case ResourceState:
		return dsModels.NewCommandValue(resName, common.ValueTypeString, d.bridge.DeviceState())
	}

	v, err := d.bridge.ReadAttribute(resName)
	if err != nil {
		return nil, err
	}
	desc, err := d.bridge.Attribute(resName)
	if err != nil {
		return nil, err
	}
	return attributeValue(desc, v)
}

func (d *TelnetDriver) HandleWriteCommands(deviceName string, protocols map[string]models.ProtocolProperties, reqs []dsModels.CommandRequest,
	params []*dsModels.CommandValue) error {
	if len(params) != len(reqs) {
		return fmt.Errorf("got %d write values for %d resources", len(params), len(reqs))
	}
	for i, req := range reqs {
		resName := req.DeviceResourceName
		if err := d.write(resName, params[i]); err != nil {
			return toEdgeX(fmt.Sprintf("failed to write %s.%s", deviceName, resName), err)
		}
		d.lc.Debugf("wrote %s.%s", deviceName, resName)
	}
	return nil
}

func (d *TelnetDriver) write(resName string, param *dsModels.CommandValue) error {
	switch resName {
	case ResourceAddDynamicAttribute:
		text, err := param.StringValue()
		if err != nil {
			return err
		}
		spec, err := config.ParseAttribute(text)
		if err != nil {
			return err
		}
		if err := d.bridge.AddDynamicAttribute(spec); err != nil || spec.Name == "" {
			return err
		}
		desc, err := d.bridge.Attribute(spec.Name)
		if err != nil {
			return err
		}
		return d.syncProfile(desc)
	case ResourcePublish:
		name, err := param.StringValue()
		if err != nil {
			return err
		}
		return d.bridge.Publish(name)
	case ResourceReconnect:
		ok, err := param.BoolValue()
		if err != nil || !ok {
			return err
		}
		return d.bridge.Reconnect(context.Background())
	}

	desc, err := d.bridge.Attribute(resName)
	if err != nil {
		return err
	}
	v, err := writeValue(desc, param)
	if err != nil {
		return err
	}
	return d.bridge.WriteAttribute(resName, v)
}

func (d *TelnetDriver) Stop(force bool) error {
	d.lc.Info("TelnetDriver.Stop: device-telnet driver is stopping...")
	if d.bridge != nil {
		_ = d.bridge.Close()
	}
	if d.mqttClient != nil {
		d.mqttClient.Disconnect(250)
	}
	return nil
}

func (d *TelnetDriver) AddDevice(deviceName string, protocols map[string]models.ProtocolProperties, adminState models.AdminState) error {
	d.lc.Debugf("a new Device is added: %s", deviceName)
	return nil
}

func (d *TelnetDriver) UpdateDevice(deviceName string, protocols map[string]models.ProtocolProperties, adminState models.AdminState) error {
	d.lc.Debugf("Device %s is updated", deviceName)
	return nil
}

func (d *TelnetDriver) RemoveDevice(deviceName string, protocols map[string]models.ProtocolProperties) error {
	d.lc.Debugf("Device %s is removed", deviceName)
	return nil
}

func (d *TelnetDriver) Discover() error {
	return fmt.Errorf("driver's Discover function isn't implemented")
}

func (d *TelnetDriver) ValidateDevice(device models.Device) error {
	d.lc.Debug("Driver's ValidateDevice function isn't implemented")
	return nil
}
