package attribute

import (
	"fmt"
	"sort"
	"strconv"
	"sync"
)

// Registry 是一个简单的内存表：属性名 → Descriptor
type Registry struct {
	mu    sync.RWMutex
	attrs map[string]*Descriptor
}

// NewRegistry 返回一个空表
func NewRegistry() *Registry {
	return &Registry{attrs: make(map[string]*Descriptor)}
}

// Register 校验并登记一个新属性。
// 名称为空时静默忽略；只有 min/max 都给出且不相等时才设置范围；unit 非空才设置。
// 返回 nil Descriptor 表示被忽略。
func (r *Registry) Register(spec Spec) (*Descriptor, error) {
	if spec.Name == "" {
		return nil, nil
	}
	t, err := ParseValueType(spec.DataType)
	if err != nil {
		return nil, err
	}
	access, err := ParseAccessMode(spec.WriteType)
	if err != nil {
		return nil, err
	}

	d := &Descriptor{Name: spec.Name, Type: t, Access: access, Unit: spec.Unit}
	if spec.MinValue != "" && spec.MaxValue != "" && spec.MinValue != spec.MaxValue {
		minV, err := strconv.ParseFloat(spec.MinValue, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: min_value %q of %s", ErrInvalidValueFormat, spec.MinValue, spec.Name)
		}
		maxV, err := strconv.ParseFloat(spec.MaxValue, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: max_value %q of %s", ErrInvalidValueFormat, spec.MaxValue, spec.Name)
		}
		if minV > maxV {
			return nil, fmt.Errorf("%w: min_value %s above max_value %s of %s", ErrInvalidValueFormat, spec.MinValue, spec.MaxValue, spec.Name)
		}
		d.Bounds = &Bounds{Min: minV, Max: maxV}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.attrs[spec.Name]; ok {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateAttribute, spec.Name)
	}
	r.attrs[spec.Name] = d
	out := *d
	return &out, nil
}

// Get 返回属性的副本
func (r *Registry) Get(name string) (Descriptor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.attrs[name]
	if !ok {
		return Descriptor{}, fmt.Errorf("%w: %s", ErrUnknownAttribute, name)
	}
	return *d, nil
}

// Stage 覆盖暂存值，不会访问远端
func (r *Registry) Stage(name, text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.attrs[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownAttribute, name)
	}
	d.Staged = text
	return nil
}

// Names 按字典序返回所有属性名
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.attrs))
	for n := range r.attrs {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.attrs)
}

// CheckBounds 对带范围的数值属性校验待写入的值
func CheckBounds(d Descriptor, v any) error {
	if d.Bounds == nil {
		return nil
	}
	var f float64
	switch x := v.(type) {
	case int64:
		f = float64(x)
	case float64:
		f = x
	case float32:
		f = float64(x)
	default:
		return nil
	}
	if f < d.Bounds.Min || f > d.Bounds.Max {
		return fmt.Errorf("%w: %s=%v not in [%v, %v]", ErrOutOfRange, d.Name, v, d.Bounds.Min, d.Bounds.Max)
	}
	return nil
}
