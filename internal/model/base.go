package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// ── JSON 列 ──
// PostgreSQL 使用 JSONB，SQLite 使用 TEXT，统一以 JSON 文本读写

func scanJSON(name string, src interface{}, dst interface{}) error {
	var raw []byte
	switch v := src.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("%s.Scan: unsupported type %T", name, src)
	}
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("%s.Scan: %w", name, err)
	}
	return nil
}

func valueJSON(v interface{}) (driver.Value, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func jsonDataType(db *gorm.DB) string {
	if db.Dialector.Name() == "postgres" {
		return "JSONB"
	}
	return "TEXT"
}

// StringList 字符串数组 JSON 列（适宜作物列表、已完成任务）
type StringList []string

// Scan 实现 sql.Scanner
func (l *StringList) Scan(src interface{}) error {
	if src == nil {
		*l = StringList{}
		return nil
	}
	var out []string
	if err := scanJSON("StringList", src, &out); err != nil {
		return err
	}
	if out == nil {
		out = []string{}
	}
	*l = out
	return nil
}

// Value 实现 driver.Valuer，nil 写为 []
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	return valueJSON([]string(l))
}

// GormDBDataType 按方言选择列类型
func (StringList) GormDBDataType(db *gorm.DB, _ *schema.Field) string { return jsonDataType(db) }

// Contains 精确字符串匹配
func (l StringList) Contains(s string) bool {
	for _, v := range l {
		if v == s {
			return true
		}
	}
	return false
}

// BaseModel 通用审计字段
type BaseModel struct {
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	CreatedBy *string   `gorm:"type:uuid"                          json:"created_by,omitempty"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
	UpdatedBy *string   `gorm:"type:uuid"                          json:"updated_by,omitempty"`
}
