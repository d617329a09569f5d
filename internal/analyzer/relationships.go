package analyzer

import (
	"go.uber.org/zap"

	"cassandra-modeler/internal/graph"
	"cassandra-modeler/internal/schema"
)

// Junction 连接表：至少引用两张不同表的外键、且列数不超过阈值的表
type Junction struct {
	Table           string   `json:"table"`
	ConnectedTables []string `json:"connected_tables"`
}

// SelfReference 自引用外键，层级数据的信号
type SelfReference struct {
	Table  string `json:"table"`
	Column string `json:"column"`
}

// Connectivity 表的连接度统计
type Connectivity struct {
	Table            string `json:"table"`
	InReferences     int    `json:"in_references"`
	OutReferences    int    `json:"out_references"`
	TotalConnections int    `json:"total_connections"`
}

// Relationships 关系结构分析结果
type Relationships struct {
	OneToMany        []graph.Edge
	Junctions        []Junction
	SelfRefs         []SelfReference
	Chains           [][]string
	HighConnectivity []Connectivity
}

// AnalyzeRelationships 在外键图上做结构分析：连接表、自引用、关系链与高连接度表
func AnalyzeRelationships(model *schema.Model, g *graph.Graph, maxHops, connectivityThreshold int, logger *zap.Logger) *Relationships {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Relationships{
		Chains: g.Chains(maxHops),
	}

	for _, name := range g.Nodes() {
		in, out := g.Degree(name)
		if in+out > connectivityThreshold {
			r.HighConnectivity = append(r.HighConnectivity, Connectivity{
				Table:            name,
				InReferences:     in,
				OutReferences:    out,
				TotalConnections: in + out,
			})
		}
	}

	junctionOf := make(map[string]bool)
	for _, t := range model.Tables {
		if len(t.ForeignKeys) >= 2 && len(t.Columns) <= 4 {
			var refs []string
			for _, fk := range t.ForeignKeys {
				if g.HasNode(fk.RefTable) && !containsString(refs, fk.RefTable) {
					refs = append(refs, fk.RefTable)
				}
			}
			if len(refs) >= 2 {
				r.Junctions = append(r.Junctions, Junction{Table: t.Name, ConnectedTables: refs})
				junctionOf[t.Name] = true
			}
		}
		for _, fk := range t.ForeignKeys {
			if fk.RefTable == t.Name {
				r.SelfRefs = append(r.SelfRefs, SelfReference{Table: t.Name, Column: fk.Column})
			}
		}
	}

	// 连接表发出的外键边归入多对多，不再计为一对多
	for _, e := range g.Edges() {
		if junctionOf[e.From] && containsJunctionTarget(r.Junctions, e.From, e.To) {
			continue
		}
		r.OneToMany = append(r.OneToMany, e)
	}

	logger.Debug("关系结构分析完成",
		zap.Int("one_to_many", len(r.OneToMany)),
		zap.Int("junctions", len(r.Junctions)),
		zap.Int("self_refs", len(r.SelfRefs)),
		zap.Int("chains", len(r.Chains)))
	return r
}

// JunctionFor 按连接表名查找
func (r *Relationships) JunctionFor(table string) *Junction {
	for i := range r.Junctions {
		if r.Junctions[i].Table == table {
			return &r.Junctions[i]
		}
	}
	return nil
}

func containsJunctionTarget(junctions []Junction, from, to string) bool {
	for _, j := range junctions {
		if j.Table == from && containsString(j.ConnectedTables, to) {
			return true
		}
	}
	return false
}
