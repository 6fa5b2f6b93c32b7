package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Row 一行表格数据：列名到取值的有序映射
// 列顺序保持表头 / JSON 中的原始顺序，分类列推断依赖该顺序
type Row struct {
	keys   []string
	values map[string]Value
}

// RowOf 以 key, value 交替的参数构造一行
func RowOf(kv ...any) Row {
	var r Row
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			panic(fmt.Sprintf("RowOf: key at %d is %T, want string", i, kv[i]))
		}
		r.Set(key, ValueOf(kv[i+1]))
	}
	return r
}

// Len 列数
func (r Row) Len() int { return len(r.keys) }

// Keys 列名（按原始顺序）
func (r Row) Keys() []string {
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

// Has 是否定义了该列
func (r Row) Has(key string) bool {
	_, ok := r.values[key]
	return ok
}

// Get 取值，未定义返回空值与 false
func (r Row) Get(key string) (Value, bool) {
	v, ok := r.values[key]
	return v, ok
}

// Value 取值，未定义返回空值
func (r Row) Value(key string) Value {
	return r.values[key]
}

// Number 取数值字段，未定义或非数值返回 false
func (r Row) Number(key string) (float64, bool) {
	v, ok := r.values[key]
	if !ok {
		return 0, false
	}
	return v.Number()
}

// Set 设置字段，新列追加在末尾
func (r *Row) Set(key string, v Value) {
	if r.values == nil {
		r.values = make(map[string]Value)
	}
	if _, ok := r.values[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.values[key] = v
}

// Clone 浅拷贝，修改副本不影响原行
func (r Row) Clone() Row {
	out := Row{
		keys:   make([]string, len(r.keys)),
		values: make(map[string]Value, len(r.values)),
	}
	copy(out.keys, r.keys)
	for k, v := range r.values {
		out.values[k] = v
	}
	return out
}

// MarshalJSON 按列顺序输出 JSON 对象
func (r Row) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := r.values[k].MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON 解析 JSON 对象并保留键顺序
func (r *Row) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return errors.New("row must be a JSON object")
	}

	*r = Row{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("unexpected row key token %v", tok)
		}
		var raw any
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("decode field %q: %w", key, err)
		}
		switch raw.(type) {
		case nil, json.Number, string, bool:
			r.Set(key, ValueOf(raw))
		default:
			return fmt.Errorf("field %q: nested values are not supported", key)
		}
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}
