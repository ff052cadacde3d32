package models

import (
	"database/sql/driver"
	"fmt"
	"strings"
)

// ModeList stores a set of lesson modes as a comma-separated text column.
type ModeList []LessonMode

func (l ModeList) Contains(m LessonMode) bool {
	for _, v := range l {
		if v == m {
			return true
		}
	}
	return false
}

func (l ModeList) Value() (driver.Value, error) {
	parts := make([]string, len(l))
	for i, m := range l {
		parts[i] = string(m)
	}
	return strings.Join(parts, ","), nil
}

func (l *ModeList) Scan(src any) error {
	var s string
	switch v := src.(type) {
	case nil:
		*l = nil
		return nil
	case string:
		s = v
	case []byte:
		s = string(v)
	default:
		return fmt.Errorf("unsupported mode list type %T", src)
	}
	if s == "" {
		*l = nil
		return nil
	}
	parts := strings.Split(s, ",")
	out := make(ModeList, 0, len(parts))
	for _, p := range parts {
		out = append(out, LessonMode(strings.TrimSpace(p)))
	}
	*l = out
	return nil
}
