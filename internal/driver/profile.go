package driver

import (
	"fmt"

	"github.com/edgexfoundry/go-mod-core-contracts/v4/common"
	"github.com/edgexfoundry/go-mod-core-contracts/v4/models"
	"github.com/linjuya-lu/device_telnet_go/internal/attribute"
)

// profileStore 是 DeviceServiceSDK 中读写设备 profile 的部分
type profileStore interface {
	GetProfileByName(name string) (models.DeviceProfile, error)
	UpdateDeviceProfile(profile models.DeviceProfile) error
}

// deviceResource 由属性描述生成 profile 中的设备资源
func deviceResource(d attribute.Descriptor) models.DeviceResource {
	props := models.ResourceProperties{
		ValueType: edgexValueType(d.Type),
		ReadWrite: readWrite(d.Access),
		Units:     d.Unit,
	}
	if d.Bounds != nil {
		minV, maxV := d.Bounds.Min, d.Bounds.Max
		props.Minimum = &minV
		props.Maximum = &maxV
	}
	return models.DeviceResource{
		Name:        d.Name,
		Description: fmt.Sprintf("dynamic attribute %s (%s)", d.Name, d.Type),
		Properties:  props,
	}
}

func readWrite(m attribute.AccessMode) string {
	switch m {
	case attribute.ReadOnly:
		return common.ReadWrite_R
	case attribute.WriteOnly:
		return common.ReadWrite_W
	}
	return common.ReadWrite_RW
}

// mergeResources 把尚未出现在 profile 中的属性追加为设备资源，返回新增个数。
// 同名资源保持 profile 中的原样。
func mergeResources(profile *models.DeviceProfile, descs []attribute.Descriptor) int {
	existing := make(map[string]struct{}, len(profile.DeviceResources))
	for _, r := range profile.DeviceResources {
		existing[r.Name] = struct{}{}
	}
	// 不改动 SDK 缓存里的底层数组
	resources := append([]models.DeviceResource(nil), profile.DeviceResources...)
	added := 0
	for _, d := range descs {
		if _, ok := existing[d.Name]; ok {
			continue
		}
		existing[d.Name] = struct{}{}
		resources = append(resources, deviceResource(d))
		added++
	}
	profile.DeviceResources = resources
	return added
}

// syncProfile 让宿主的设备 profile 包含这些属性，否则 SDK 会在调用驱动之前拒绝读写
func (d *TelnetDriver) syncProfile(descs ...attribute.Descriptor) error {
	if d.profiles == nil || d.profileName == "" || len(descs) == 0 {
		return nil
	}
	profile, err := d.profiles.GetProfileByName(d.profileName)
	if err != nil {
		return fmt.Errorf("get profile %s: %w", d.profileName, err)
	}
	added := mergeResources(&profile, descs)
	if added == 0 {
		return nil
	}
	if err := d.profiles.UpdateDeviceProfile(profile); err != nil {
		return fmt.Errorf("update profile %s: %w", d.profileName, err)
	}
	d.lc.Infof("added %d dynamic resources to profile %s", added, d.profileName)
	return nil
}

// registeredDescriptors 返回会话中全部属性的描述
func (d *TelnetDriver) registeredDescriptors() []attribute.Descriptor {
	names := d.bridge.Attributes()
	descs := make([]attribute.Descriptor, 0, len(names))
	for _, n := range names {
		desc, err := d.bridge.Attribute(n)
		if err != nil {
			continue
		}
		descs = append(descs, desc)
	}
	return descs
}
