package analyzer

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"cassandra-modeler/internal/graph"
	"cassandra-modeler/internal/query"
	"cassandra-modeler/internal/schema"
)

// Synthesizer 反规范化合成器。
// 已处理表对的集合归属于单次合成上下文，跨 schema 的多次分析互不干扰
type Synthesizer struct {
	model     *schema.Model
	g         *graph.Graph
	logger    *zap.Logger
	processed map[string]bool // parent|child
}

// NewSynthesizer 创建合成器
func NewSynthesizer(model *schema.Model, g *graph.Graph, logger *zap.Logger) *Synthesizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Synthesizer{
		model:     model,
		g:         g,
		logger:    logger,
		processed: make(map[string]bool),
	}
}

// Synthesize 基于访问模式与外键关系合成反规范化表。
// 每个已解析的 (parent, child) 对只合成一次，重复遇到同一对不再处理
func (s *Synthesizer) Synthesize(patterns []query.Pattern) ([]CassandraTable, []schema.Warning) {
	var tables []CassandraTable
	var warnings []schema.Warning

	for _, pair := range s.candidatePairs(patterns) {
		parent, child, fkCol, ok := s.resolveDirection(pair[0], pair[1])
		if !ok {
			warnings = append(warnings, schema.Warning{
				Kind:  schema.WarnUnresolvedRelationship,
				Table: pair[0],
				Message: fmt.Sprintf("no direct parent-child relationship found between %s and %s, skipping denormalization",
					pair[0], pair[1]),
			})
			s.logger.Warn("表对之间没有可解析的外键方向，跳过",
				zap.String("a", pair[0]), zap.String("b", pair[1]))
			continue
		}

		key := parent.Name + "|" + child.Name
		if s.processed[key] {
			continue
		}
		s.processed[key] = true

		tables = append(tables, s.parentWithChild(parent, child, fkCol))
		tables = append(tables, s.childByParent(parent, child, fkCol))
		s.logger.Info("已合成反规范化表",
			zap.String("parent", parent.Name), zap.String("child", child.Name))
	}
	return tables, warnings
}

// candidatePairs 候选表对：同一查询涉及 ≥2 张已知表即成候选。
// 是否存在外键关系交由方向解析判定，无关系的对在那里给出诊断。
// 按无序对去重，保留首见顺序
func (s *Synthesizer) candidatePairs(patterns []query.Pattern) [][2]string {
	var pairs [][2]string
	seen := make(map[string]bool)
	for _, p := range patterns {
		if len(p.Tables) < 2 {
			continue
		}
		for i := 0; i < len(p.Tables); i++ {
			for j := i + 1; j < len(p.Tables); j++ {
				a, b := p.Tables[i], p.Tables[j]
				if s.model.Table(a) == nil || s.model.Table(b) == nil {
					continue
				}
				key := pairKey(a, b)
				if seen[key] {
					continue
				}
				seen[key] = true
				pairs = append(pairs, [2]string{a, b})
			}
		}
	}
	return pairs
}

// resolveDirection 解析父子方向：被引用方为父。
// 两表互相引用时按表名字典序取小者为父，保证结果与插入顺序无关
func (s *Synthesizer) resolveDirection(a, b string) (parent, child *schema.Table, fkCol string, ok bool) {
	aRefsB := s.firstEdge(a, b)
	bRefsA := s.firstEdge(b, a)

	var parentName, childName string
	var edge *graph.Edge
	switch {
	case aRefsB != nil && bRefsA != nil:
		if a < b {
			parentName, childName, edge = a, b, bRefsA
		} else {
			parentName, childName, edge = b, a, aRefsB
		}
	case aRefsB != nil:
		parentName, childName, edge = b, a, aRefsB
	case bRefsA != nil:
		parentName, childName, edge = a, b, bRefsA
	default:
		return nil, nil, "", false
	}

	parent = s.model.Table(parentName)
	child = s.model.Table(childName)
	if parent == nil || child == nil {
		return nil, nil, "", false
	}
	return parent, child, edge.FromColumn, true
}

// firstEdge from -> to 方向的第一条外键边
func (s *Synthesizer) firstEdge(from, to string) *graph.Edge {
	for _, e := range s.g.Edges() {
		if e.From == from && e.To == to {
			return &e
		}
	}
	return nil
}

// parentWithChild 合成 {parent}_with_{child}：父表分区，子行聚簇于父分区内。
// 子列加 {child}_ 前缀避免与父列冲突，外键列不带入
func (s *Synthesizer) parentWithChild(parent, child *schema.Table, fkCol string) CassandraTable {
	childPrefix := strings.ToLower(child.Name) + "_"
	t := CassandraTable{
		Name:         strings.ToLower(parent.Name) + "_with_" + strings.ToLower(child.Name),
		Denormalized: true,
		SourceTables: []string{parent.Name, child.Name},
	}

	for _, c := range parent.Columns {
		t.setColumn(strings.ToLower(c.Name), c.MappedType)
	}
	for _, c := range child.Columns {
		if c.Name == fkCol {
			continue
		}
		t.setColumn(childPrefix+strings.ToLower(c.Name), c.MappedType)
	}

	if len(parent.PrimaryKey) > 0 {
		t.PartitionKey = []string{strings.ToLower(parent.PrimaryKey[0])}
	} else {
		t.PartitionKey = []string{ImplicitKeyColumn}
		if !t.HasColumn(ImplicitKeyColumn) {
			t.setColumn(ImplicitKeyColumn, "uuid")
		}
	}
	for _, pk := range child.PrimaryKey {
		if pk != fkCol {
			t.ClusteringColumns = append(t.ClusteringColumns, childPrefix+strings.ToLower(pk))
		}
	}
	return t
}

// childByParent 合成 {child}_by_{parent}：按父键查询子行的物化表。
// 父键列保留原名，不加前缀
func (s *Synthesizer) childByParent(parent, child *schema.Table, fkCol string) CassandraTable {
	t := CassandraTable{
		Name:         strings.ToLower(child.Name) + "_by_" + strings.ToLower(parent.Name),
		Denormalized: true,
		SourceTables: []string{parent.Name, child.Name},
	}

	for _, c := range child.Columns {
		t.setColumn(strings.ToLower(c.Name), c.MappedType)
	}

	parentKey := ImplicitKeyColumn
	parentKeyType := "uuid"
	if len(parent.PrimaryKey) > 0 {
		parentKey = strings.ToLower(parent.PrimaryKey[0])
		if col := parent.Column(parent.PrimaryKey[0]); col != nil {
			parentKeyType = col.MappedType
		}
	}
	t.setColumn(parentKey, parentKeyType)
	t.PartitionKey = []string{parentKey}

	for _, pk := range child.PrimaryKey {
		if pk != fkCol {
			t.ClusteringColumns = append(t.ClusteringColumns, strings.ToLower(pk))
		}
	}
	t.QueryPattern = fmt.Sprintf("SELECT * FROM %s WHERE %s = ?", t.Name, parentKey)
	return t
}

func pairKey(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return a + "|" + b
}
