package schema

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Format schema 描述格式
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// 外部 schema 描述的结构，未知字段忽略
type schemaInput struct {
	Tables []tableInput `json:"tables" yaml:"tables"`
}

type tableInput struct {
	Name        string        `json:"name" yaml:"name"`
	Columns     []columnInput `json:"columns" yaml:"columns"`
	ForeignKeys []fkInput     `json:"foreign_keys" yaml:"foreign_keys"`
}

type columnInput struct {
	Name       string `json:"name" yaml:"name"`
	Type       string `json:"type" yaml:"type"`
	Nullable   *bool  `json:"nullable" yaml:"nullable"`         // 缺省为 true
	PrimaryKey bool   `json:"primary_key" yaml:"primary_key"`   // 缺省为 false
}

type fkInput struct {
	Column     string   `json:"column" yaml:"column"`
	References refInput `json:"references" yaml:"references"`
}

type refInput struct {
	Table  string `json:"table" yaml:"table"`
	Column string `json:"column" yaml:"column"`
}

// Loader 关系模型加载器
type Loader struct {
	logger *zap.Logger
}

// NewLoader 创建加载器
func NewLoader(logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{logger: logger}
}

// LoadFile 从文件加载，按扩展名区分 JSON / YAML
func (l *Loader) LoadFile(path string) (*Model, []Warning, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read schema file: %w", err)
	}
	format := FormatJSON
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		format = FormatYAML
	}
	return l.Load(data, format)
}

// Load 解析 schema 描述并构建关系模型。
// 只有结构性错误（解析失败、表/列缺名、缺类型、表名重复）返回 error；
// 未识别类型与缺失主键降级为 Warning。
func (l *Loader) Load(data []byte, format Format) (*Model, []Warning, error) {
	var input schemaInput
	var err error
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, &input)
	default:
		err = json.Unmarshal(data, &input)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidSchema, err)
	}

	model := &Model{byName: make(map[string]*Table)}
	seen := make(map[string]bool)
	var warnings []Warning

	for i, ti := range input.Tables {
		if ti.Name == "" {
			return nil, nil, fmt.Errorf("%w: table #%d has no name", ErrInvalidSchema, i)
		}
		if seen[ti.Name] {
			return nil, nil, fmt.Errorf("%w: duplicate table %q", ErrInvalidSchema, ti.Name)
		}
		seen[ti.Name] = true

		table := Table{Name: ti.Name}
		for j, ci := range ti.Columns {
			if ci.Name == "" {
				return nil, nil, fmt.Errorf("%w: table %q column #%d has no name", ErrInvalidSchema, ti.Name, j)
			}
			if ci.Type == "" {
				return nil, nil, fmt.Errorf("%w: column %q.%q has no type", ErrInvalidSchema, ti.Name, ci.Name)
			}

			mapped, known := MapType(ci.Type)
			if !known {
				msg := fmt.Sprintf("unknown data type %q, defaulting to text", ci.Type)
				if hint := SuggestType(ci.Type); hint != "" {
					msg += fmt.Sprintf(" (did you mean %q?)", hint)
				}
				warnings = append(warnings, Warning{
					Kind:    WarnTypeMapping,
					Table:   ti.Name,
					Column:  ci.Name,
					Message: msg,
				})
				l.logger.Warn("未识别的数据类型，回退为 text",
					zap.String("table", ti.Name),
					zap.String("column", ci.Name),
					zap.String("type", ci.Type))
			}

			nullable := true
			if ci.Nullable != nil {
				nullable = *ci.Nullable
			}
			table.Columns = append(table.Columns, Column{
				Name:       ci.Name,
				Type:       ci.Type,
				MappedType: mapped,
				Nullable:   nullable,
			})
			// 主键列保留声明顺序，后续据此切分分区键与聚簇列
			if ci.PrimaryKey {
				table.PrimaryKey = append(table.PrimaryKey, ci.Name)
			}
		}

		if len(table.PrimaryKey) == 0 {
			warnings = append(warnings, Warning{
				Kind:    WarnMissingPrimaryKey,
				Table:   ti.Name,
				Message: fmt.Sprintf("table %q has no primary key, an implicit 'id' key will be used", ti.Name),
			})
			l.logger.Warn("表缺少主键，将使用隐式 id 分区键", zap.String("table", ti.Name))
		}

		for _, fi := range ti.ForeignKeys {
			table.ForeignKeys = append(table.ForeignKeys, ForeignKey{
				Column:    fi.Column,
				RefTable:  fi.References.Table,
				RefColumn: fi.References.Column,
			})
		}

		model.Tables = append(model.Tables, table)
	}
	for i := range model.Tables {
		model.byName[model.Tables[i].Name] = &model.Tables[i]
	}

	l.logger.Info("schema 加载完成",
		zap.Int("tables", len(model.Tables)),
		zap.Int("warnings", len(warnings)))
	return model, warnings, nil
}
