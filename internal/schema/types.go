package schema

import "errors"

// ErrInvalidSchema 结构性非法的 schema 描述（致命，中止分析）
var ErrInvalidSchema = errors.New("invalid schema description")

// Column 列信息
type Column struct {
	Name       string
	Type       string // 原始关系型类型，保留大小写
	MappedType string // 映射后的 Cassandra 类型
	Nullable   bool
}

// ForeignKey 外键
type ForeignKey struct {
	Column    string
	RefTable  string
	RefColumn string
}

// Table 表信息
type Table struct {
	Name        string
	Columns     []Column // 保留声明顺序
	PrimaryKey  []string // 主键列，保留声明顺序，可为空
	ForeignKeys []ForeignKey
}

// Column 按名查找列
func (t *Table) Column(name string) *Column {
	for i := range t.Columns {
		if t.Columns[i].Name == name {
			return &t.Columns[i]
		}
	}
	return nil
}

// HasColumn 判断列是否存在
func (t *Table) HasColumn(name string) bool {
	return t.Column(name) != nil
}

// ColumnNames 所有列名，按声明顺序
func (t *Table) ColumnNames() []string {
	names := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		names = append(names, c.Name)
	}
	return names
}

// IsPrimaryKey 判断列是否属于主键
func (t *Table) IsPrimaryKey(name string) bool {
	for _, pk := range t.PrimaryKey {
		if pk == name {
			return true
		}
	}
	return false
}

// Model 关系模型，加载后不可变
type Model struct {
	Tables []Table

	byName map[string]*Table
}

// NewModel 由表列表构建模型，程序化构造入口
func NewModel(tables ...Table) *Model {
	m := &Model{Tables: tables, byName: make(map[string]*Table)}
	for i := range m.Tables {
		m.byName[m.Tables[i].Name] = &m.Tables[i]
	}
	return m
}

// Table 按名查找表
func (m *Model) Table(name string) *Table {
	return m.byName[name]
}

// TableNames 所有表名，按载入顺序
func (m *Model) TableNames() []string {
	names := make([]string, 0, len(m.Tables))
	for _, t := range m.Tables {
		names = append(names, t.Name)
	}
	return names
}

// WarningKind 警告类别
type WarningKind string

const (
	WarnTypeMapping            WarningKind = "type_mapping"
	WarnMissingPrimaryKey      WarningKind = "missing_primary_key"
	WarnDanglingReference      WarningKind = "dangling_reference"
	WarnUnresolvedRelationship WarningKind = "unresolved_relationship"
)

// Warning 非致命问题，随结果一并上报
type Warning struct {
	Kind    WarningKind `json:"kind"`
	Table   string      `json:"table,omitempty"`
	Column  string      `json:"column,omitempty"`
	Message string      `json:"message"`
}
