package model

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Kind 单元格取值类型
type Kind uint8

const (
	KindNull Kind = iota
	KindNumber
	KindString
	KindBool
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	default:
		return "null"
	}
}

// Value 行内单个字段的取值（数字 / 字符串 / 布尔 / 空）
type Value struct {
	kind Kind
	num  float64
	str  string
	b    bool
}

// NullValue 空值
func NullValue() Value { return Value{} }

// NumberValue 数值
func NumberValue(f float64) Value { return Value{kind: KindNumber, num: f} }

// StringValue 字符串
func StringValue(s string) Value { return Value{kind: KindString, str: s} }

// BoolValue 布尔值
func BoolValue(b bool) Value { return Value{kind: KindBool, b: b} }

// ValueOf 将 Go 原生值转换为 Value，不支持的类型按 fmt 输出转为字符串
func ValueOf(v any) Value {
	switch x := v.(type) {
	case nil:
		return NullValue()
	case Value:
		return x
	case float64:
		return NumberValue(x)
	case float32:
		return NumberValue(float64(x))
	case int:
		return NumberValue(float64(x))
	case int32:
		return NumberValue(float64(x))
	case int64:
		return NumberValue(float64(x))
	case uint:
		return NumberValue(float64(x))
	case uint32:
		return NumberValue(float64(x))
	case uint64:
		return NumberValue(float64(x))
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return StringValue(x.String())
		}
		return NumberValue(f)
	case string:
		return StringValue(x)
	case bool:
		return BoolValue(x)
	default:
		return StringValue(fmt.Sprint(x))
	}
}

// Kind 返回取值类型
func (v Value) Kind() Kind { return v.kind }

// IsNull 是否为空值
func (v Value) IsNull() bool { return v.kind == KindNull }

// Number 数值访问，非数值返回 false
func (v Value) Number() (float64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	return v.num, true
}

// Str 字符串访问，非字符串返回 false
func (v Value) Str() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.str, true
}

// Bool 布尔访问，非布尔返回 false
func (v Value) Bool() (bool, bool) {
	if v.kind != KindBool {
		return false, false
	}
	return v.b, true
}

// IsString 判断是否为指定字符串
func (v Value) IsString(s string) bool {
	return v.kind == KindString && v.str == s
}

// Equal 严格相等：类型与取值都相同
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNumber:
		return v.num == o.num
	case KindString:
		return v.str == o.str
	case KindBool:
		return v.b == o.b
	default:
		return true
	}
}

// String 展示文本（用于图表分类轴）
func (v Value) String() string {
	switch v.kind {
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindString:
		return v.str
	case KindBool:
		return strconv.FormatBool(v.b)
	default:
		return ""
	}
}

// Interface 转回 Go 原生值
func (v Value) Interface() any {
	switch v.kind {
	case KindNumber:
		return v.num
	case KindString:
		return v.str
	case KindBool:
		return v.b
	default:
		return nil
	}
}

// MarshalJSON 按 JSON 原生标量输出，NaN/Inf 输出为 null
func (v Value) MarshalJSON() ([]byte, error) {
	if v.kind == KindNumber && (math.IsNaN(v.num) || math.IsInf(v.num, 0)) {
		return []byte("null"), nil
	}
	return json.Marshal(v.Interface())
}

// UnmarshalJSON 解析 JSON 标量
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch raw.(type) {
	case nil, float64, string, bool:
		*v = ValueOf(raw)
		return nil
	default:
		return fmt.Errorf("unsupported cell value: %s", string(data))
	}
}
