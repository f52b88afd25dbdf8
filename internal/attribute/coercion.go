package attribute

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Decode 按声明类型解析远端返回的文本
//   - Boolean: 不区分大小写的 true/false，否则按浮点数解析、截断取整，非零为真
//   - Integer: 先按浮点数解析再向零截断，"3.9" 得到 3
//   - Double/Float: 直接按浮点数解析
//   - String: 原样返回
func Decode(t ValueType, text string) (any, error) {
	switch t {
	case Boolean:
		switch strings.ToLower(strings.TrimSpace(text)) {
		case "true":
			return true, nil
		case "false":
			return false, nil
		}
		i, err := truncate(text)
		if err != nil {
			return nil, err
		}
		return i != 0, nil
	case Integer:
		return truncate(text)
	case Double:
		f, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: parse %s from %q", ErrInvalidValueFormat, t, text)
		}
		return f, nil
	case Float:
		f, err := strconv.ParseFloat(strings.TrimSpace(text), 32)
		if err != nil {
			return nil, fmt.Errorf("%w: parse %s from %q", ErrInvalidValueFormat, t, text)
		}
		return float32(f), nil
	case String:
		return text, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, t)
}

func truncate(text string) (int64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%w: %q is not numeric", ErrInvalidValueFormat, text)
	}
	f = math.Trunc(f)
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, fmt.Errorf("%w: %q overflows integer", ErrInvalidValueFormat, text)
	}
	return int64(f), nil
}

// Encode 返回写命令里使用的纯文本形式
func Encode(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case int:
		return strconv.FormatInt(int64(x), 10)
	case int8:
		return strconv.FormatInt(int64(x), 10)
	case int16:
		return strconv.FormatInt(int64(x), 10)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case int64:
		return strconv.FormatInt(x, 10)
	case uint:
		return strconv.FormatUint(uint64(x), 10)
	case uint8:
		return strconv.FormatUint(uint64(x), 10)
	case uint16:
		return strconv.FormatUint(uint64(x), 10)
	case uint32:
		return strconv.FormatUint(uint64(x), 10)
	case uint64:
		return strconv.FormatUint(x, 10)
	case float32:
		return formatFloat(float64(x), 32)
	case float64:
		return formatFloat(x, 64)
	case fmt.Stringer:
		return x.String()
	}
	return fmt.Sprint(v)
}

// formatFloat 最短可往返的十进制表示，整数值保留 ".0"（30.0 -> "30.0"）
func formatFloat(f float64, bitSize int) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return strconv.FormatFloat(f, 'g', -1, bitSize)
	}
	abs := math.Abs(f)
	var s string
	if abs == 0 || (abs >= 1e-4 && abs < 1e16) {
		s = strconv.FormatFloat(f, 'f', -1, bitSize)
	} else {
		s = strconv.FormatFloat(f, 'e', -1, bitSize)
	}
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}
