package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/linjuya-lu/device_telnet_go/internal/attribute"
	"gopkg.in/yaml.v2"
)

// ParseAttributes 解析 InitDynamicAttributes 中的 JSON 数组。
// min_value/max_value 既可写成字符串也可写成数字。
func ParseAttributes(text string) ([]attribute.Spec, error) {
	if text == "" {
		return nil, nil
	}
	var raw []map[string]any
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return nil, fmt.Errorf("parse %s: %w", KeyInitDynamicAttributes, err)
	}

	specs := make([]attribute.Spec, 0, len(raw))
	for i, item := range raw {
		s, err := specFromMap(item)
		if err != nil {
			return nil, fmt.Errorf("parse %s: element %d: %w", KeyInitDynamicAttributes, i, err)
		}
		specs = append(specs, s)
	}
	return specs, nil
}

// ParseAttribute 解析单个属性描述的 JSON 对象
func ParseAttribute(text string) (attribute.Spec, error) {
	var raw map[string]any
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return attribute.Spec{}, fmt.Errorf("parse attribute: %w", err)
	}
	return specFromMap(raw)
}

func specFromMap(item map[string]any) (attribute.Spec, error) {
	var s attribute.Spec
	fields := []struct {
		key string
		dst *string
	}{
		{"name", &s.Name},
		{"data_type", &s.DataType},
		{"min_value", &s.MinValue},
		{"max_value", &s.MaxValue},
		{"unit", &s.Unit},
		{"write_type", &s.WriteType},
	}
	for _, f := range fields {
		v, err := scalarString(item[f.key])
		if err != nil {
			return attribute.Spec{}, fmt.Errorf("field %q: %w", f.key, err)
		}
		*f.dst = v
	}
	return s, nil
}

func scalarString(v any) (string, error) {
	switch x := v.(type) {
	case nil:
		return "", nil
	case string:
		return x, nil
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), nil
	case bool:
		return strconv.FormatBool(x), nil
	}
	return "", fmt.Errorf("unexpected %T", v)
}

// LoadAttributesFile 从 YAML 文件读取属性列表：
//
//	Attributes:
//	  - name: temp
//	    data_type: DevDouble
func LoadAttributesFile(path string) ([]attribute.Spec, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read attributes file: %w", err)
	}
	cfg := struct {
		Attributes []attribute.Spec `yaml:"Attributes"`
	}{}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse attributes file %s: %w", path, err)
	}
	return cfg.Attributes, nil
}
