package utils

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// FlexInt nhận số hoặc chuỗi số trong JSON (form HTML gửi "3" thay vì 3).
// Set = có gửi field; Valid = parse được thành số nguyên.
type FlexInt struct {
	Set   bool
	Valid bool
	Value int
}

func (n *FlexInt) UnmarshalJSON(data []byte) error {
	n.Set = true
	n.Valid = false
	data = bytes.TrimSpace(data)
	// null hoặc ""
	if string(data) == "null" || string(data) == `""` {
		return nil
	}

	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case float64:
		if v == float64(int(v)) {
			n.Value = int(v)
			n.Valid = true
		}
	case string:
		if i, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			n.Value = i
			n.Valid = true
		}
	}
	return nil
}

func (n FlexInt) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.Value)
}

// ParseFlexInt dùng cho form-urlencoded.
func ParseFlexInt(s string) FlexInt {
	s = strings.TrimSpace(s)
	if s == "" {
		return FlexInt{}
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return FlexInt{Set: true}
	}
	return FlexInt{Set: true, Valid: true, Value: i}
}
