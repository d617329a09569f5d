package analyzer

// CassandraColumn 列定义，保留插入顺序
type CassandraColumn struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// CassandraTable 宽列表定义。创建后不再修改：后续分析只新增表，不编辑已有表
type CassandraTable struct {
	Name              string            `json:"name"`
	Columns           []CassandraColumn `json:"columns"`
	PartitionKey      []string          `json:"partition_key"`       // 非空，顺序即分区边界
	ClusteringColumns []string          `json:"clustering_columns"`  // 顺序即分区内排序
	Denormalized      bool              `json:"denormalized,omitempty"`
	SourceTables      []string          `json:"source_tables,omitempty"`
	QueryPattern      string            `json:"query_pattern,omitempty"` // 推荐查询
}

// HasColumn 判断列是否已存在
func (t *CassandraTable) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c.Name == name {
			return true
		}
	}
	return false
}

// setColumn 设置列类型，已存在则原位覆盖（对齐字典语义）
func (t *CassandraTable) setColumn(name, typ string) {
	for i := range t.Columns {
		if t.Columns[i].Name == name {
			t.Columns[i].Type = typ
			return
		}
	}
	t.Columns = append(t.Columns, CassandraColumn{Name: name, Type: typ})
}

// TableScore 单表评分
type TableScore struct {
	Table  string   `json:"table"`
	Score  float64  `json:"score"`
	Issues []string `json:"issues"`
}

// CategoryScore 类别评分：各表未加权平均
type CategoryScore struct {
	Category string       `json:"category"`
	Score    float64      `json:"score"`
	Details  []TableScore `json:"details"`
}

// 评分类别
const (
	CategoryPrimaryKeys     = "primary_keys"
	CategoryDataTypes       = "data_types"
	CategoryDenormalization = "denormalization"
	CategoryQueryPatterns   = "query_patterns"
)

// Scorecard 最佳实践评分卡。每次分析重新计算，不持久化
type Scorecard struct {
	Overall    float64         `json:"overall"`
	Categories []CategoryScore `json:"categories"`
}

// Category 按名查找类别评分
func (s *Scorecard) Category(name string) *CategoryScore {
	for i := range s.Categories {
		if s.Categories[i].Category == name {
			return &s.Categories[i]
		}
	}
	return nil
}

// Recommendation 优化建议，顺序反映生成次序而非严重程度
type Recommendation struct {
	Category     string `json:"category"`
	Table        string `json:"table"`
	Summary      string `json:"summary"`
	Details      string `json:"details"`
	SuggestedFix string `json:"suggested_fix"`
}

// PairCount 查询中共同出现的表对频次（诊断用）
type PairCount struct {
	A     string `json:"a"`
	B     string `json:"b"`
	Count int    `json:"count"`
}
