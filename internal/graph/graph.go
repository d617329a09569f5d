package graph

import (
	"fmt"

	"github.com/texttheater/golang-levenshtein/levenshtein"
	"go.uber.org/zap"

	"cassandra-modeler/internal/schema"
)

// Edge 外键边：表 -> 被引用表。同一对表之间的多个外键保留为平行边
type Edge struct {
	From       string `json:"from"`
	FromColumn string `json:"from_column"`
	To         string `json:"to"`
	ToColumn   string `json:"to_column"`
}

// Graph 表关系有向图。只读视图，悬空外键在构建时剔除
type Graph struct {
	nodes   []string
	nodeSet map[string]bool
	edges   []Edge
	out     map[string][]string // 去重后的出边邻居，保留首见顺序
	in      map[string][]string
}

// Build 由关系模型构建关系图。引用不存在的表/列的外键被排除并产生警告
func Build(model *schema.Model, logger *zap.Logger) (*Graph, []schema.Warning) {
	if logger == nil {
		logger = zap.NewNop()
	}
	g := &Graph{
		nodeSet: make(map[string]bool),
		out:     make(map[string][]string),
		in:      make(map[string][]string),
	}
	var warnings []schema.Warning

	for _, t := range model.Tables {
		g.addNode(t.Name)
	}

	for _, t := range model.Tables {
		for _, fk := range t.ForeignKeys {
			ref := model.Table(fk.RefTable)
			if ref == nil {
				msg := fmt.Sprintf("foreign key %s.%s references unknown table %q",
					t.Name, fk.Column, fk.RefTable)
				if hint := nearestName(fk.RefTable, model.TableNames()); hint != "" {
					msg += fmt.Sprintf(" (did you mean %q?)", hint)
				}
				warnings = append(warnings, schema.Warning{
					Kind: schema.WarnDanglingReference, Table: t.Name, Column: fk.Column, Message: msg,
				})
				logger.Warn("外键引用了不存在的表，已从关系图剔除",
					zap.String("table", t.Name), zap.String("references", fk.RefTable))
				continue
			}
			if fk.RefColumn != "" && !ref.HasColumn(fk.RefColumn) {
				warnings = append(warnings, schema.Warning{
					Kind: schema.WarnDanglingReference, Table: t.Name, Column: fk.Column,
					Message: fmt.Sprintf("foreign key %s.%s references unknown column %s.%s",
						t.Name, fk.Column, fk.RefTable, fk.RefColumn),
				})
				logger.Warn("外键引用了不存在的列，已从关系图剔除",
					zap.String("table", t.Name),
					zap.String("references", fk.RefTable+"."+fk.RefColumn))
				continue
			}
			g.addEdge(Edge{From: t.Name, FromColumn: fk.Column, To: fk.RefTable, ToColumn: fk.RefColumn})
		}
	}
	return g, warnings
}

func (g *Graph) addNode(name string) {
	if !g.nodeSet[name] {
		g.nodeSet[name] = true
		g.nodes = append(g.nodes, name)
	}
}

func (g *Graph) addEdge(e Edge) {
	g.edges = append(g.edges, e)
	if !containsString(g.out[e.From], e.To) {
		g.out[e.From] = append(g.out[e.From], e.To)
	}
	if !containsString(g.in[e.To], e.From) {
		g.in[e.To] = append(g.in[e.To], e.From)
	}
}

// Nodes 所有表节点，按载入顺序
func (g *Graph) Nodes() []string { return g.nodes }

// Edges 所有外键边（平行边保留）
func (g *Graph) Edges() []Edge { return g.edges }

// HasNode 判断表是否在图中
func (g *Graph) HasNode(name string) bool { return g.nodeSet[name] }

// Related 判断两表之间任一方向是否存在外键关系
func (g *Graph) Related(a, b string) bool {
	return containsString(g.out[a], b) || containsString(g.out[b], a)
}

// Degree 表的入度与出度（按去重后的邻居计）
func (g *Graph) Degree(table string) (in, out int) {
	return len(g.in[table]), len(g.out[table])
}

// SelfReferences 自引用外键（层级数据）
func (g *Graph) SelfReferences() []Edge {
	var refs []Edge
	for _, e := range g.edges {
		if e.From == e.To {
			refs = append(refs, e)
		}
	}
	return refs
}

// nearestName 编辑距离 ≤2 的最接近候选名
func nearestName(name string, candidates []string) string {
	bestDist := 3
	best := ""
	for _, c := range candidates {
		d := levenshtein.DistanceForStrings([]rune(name), []rune(c), levenshtein.DefaultOptions)
		if d < bestDist {
			bestDist = d
			best = c
		}
	}
	return best
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
