// Package attribute 维护动态属性的元数据，并负责线路文本与类型值之间的转换。
package attribute

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownAttribute      = errors.New("unknown attribute")
	ErrDuplicateAttribute    = errors.New("attribute already registered")
	ErrUnsupportedType       = errors.New("unsupported data type")
	ErrUnsupportedAccessMode = errors.New("unsupported write type")
	ErrInvalidValueFormat    = errors.New("invalid value format")
	ErrOutOfRange            = errors.New("value out of range")
)

// ValueType 属性声明的逻辑类型，注册后不可修改
type ValueType int

const (
	String ValueType = iota
	Boolean
	Integer
	Double
	Float
)

// 注册时接受的类型名称
const (
	TypeNameBoolean = "DevBoolean"
	TypeNameInteger = "DevLong"
	TypeNameDouble  = "DevDouble"
	TypeNameFloat   = "DevFloat"
	TypeNameString  = "DevString"
)

var valueTypeNames = map[ValueType]string{
	Boolean: TypeNameBoolean,
	Integer: TypeNameInteger,
	Double:  TypeNameDouble,
	Float:   TypeNameFloat,
	String:  TypeNameString,
}

func (t ValueType) String() string {
	if n, ok := valueTypeNames[t]; ok {
		return n
	}
	return fmt.Sprintf("ValueType(%d)", int(t))
}

// ParseValueType 把配置里的类型名转换为 ValueType，空串默认 DevString
func ParseValueType(name string) (ValueType, error) {
	switch name {
	case TypeNameBoolean:
		return Boolean, nil
	case TypeNameInteger:
		return Integer, nil
	case TypeNameDouble:
		return Double, nil
	case TypeNameFloat:
		return Float, nil
	case TypeNameString, "":
		return String, nil
	}
	return String, fmt.Errorf("%w: given data type %q, supported are: DevBoolean, DevLong, DevDouble, DevFloat, DevString",
		ErrUnsupportedType, name)
}

// AccessMode 属性的读写方式，注册后不可修改
type AccessMode int

const (
	ReadWrite AccessMode = iota
	ReadOnly
	WriteOnly
	ReadWithWrite
)

const (
	AccessNameRead          = "READ"
	AccessNameWrite         = "WRITE"
	AccessNameReadWrite     = "READ_WRITE"
	AccessNameReadWithWrite = "READ_WITH_WRITE"
)

func (m AccessMode) String() string {
	switch m {
	case ReadOnly:
		return AccessNameRead
	case WriteOnly:
		return AccessNameWrite
	case ReadWrite:
		return AccessNameReadWrite
	case ReadWithWrite:
		return AccessNameReadWithWrite
	}
	return fmt.Sprintf("AccessMode(%d)", int(m))
}

// Readable 报告该模式是否允许读
func (m AccessMode) Readable() bool {
	return m != WriteOnly
}

// Writable 报告该模式是否允许写
func (m AccessMode) Writable() bool {
	return m != ReadOnly
}

// ParseAccessMode 把配置里的写类型名转换为 AccessMode，空串默认 READ_WRITE
func ParseAccessMode(name string) (AccessMode, error) {
	switch name {
	case AccessNameRead:
		return ReadOnly, nil
	case AccessNameWrite:
		return WriteOnly, nil
	case AccessNameReadWrite, "":
		return ReadWrite, nil
	case AccessNameReadWithWrite:
		return ReadWithWrite, nil
	}
	return ReadWrite, fmt.Errorf("%w: given write type %q, supported are: READ, WRITE, READ_WRITE, READ_WITH_WRITE",
		ErrUnsupportedAccessMode, name)
}

// Spec 是注册请求，字段与 init_dynamic_attributes 的 JSON 描述一一对应
type Spec struct {
	Name      string `json:"name" yaml:"name"`
	DataType  string `json:"data_type" yaml:"data_type"`
	MinValue  string `json:"min_value" yaml:"min_value"`
	MaxValue  string `json:"max_value" yaml:"max_value"`
	Unit      string `json:"unit" yaml:"unit"`
	WriteType string `json:"write_type" yaml:"write_type"`
}

// Bounds 数值属性的取值范围
type Bounds struct {
	Min float64
	Max float64
}

// Descriptor 一个已注册的动态属性
type Descriptor struct {
	Name   string
	Type   ValueType
	Access AccessMode
	Bounds *Bounds
	Unit   string
	// Staged 最近一次本地写入的文本值，不论是否已成功下发
	Staged string
}
