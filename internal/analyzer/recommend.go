package analyzer

import (
	"fmt"
	"strings"

	"github.com/jinzhu/inflection"
	"go.uber.org/zap"

	"cassandra-modeler/internal/config"
	"cassandra-modeler/internal/graph"
	"cassandra-modeler/internal/query"
	"cassandra-modeler/internal/schema"
)

// 建议类别，直接出现在报告里
const (
	RecPrimaryKeys  = "Primary Keys"
	RecDataTypes    = "Data Types"
	RecDenorm       = "Denormalization"
	RecQueryAlign   = "Query Patterns"
	RecManyToMany   = "Many-to-Many Relationships"
	RecHierarchical = "Hierarchical Data"
)

// Recommender 优化建议生成器。六个生成轮按固定顺序执行：
// 主键、数据类型、反规范化、查询对齐、多对多、层级数据
type Recommender struct {
	model  *schema.Model
	g      *graph.Graph
	rel    *Relationships
	opts   *config.Options
	logger *zap.Logger
}

// NewRecommender 创建建议生成器
func NewRecommender(model *schema.Model, g *graph.Graph, rel *Relationships, opts *config.Options, logger *zap.Logger) *Recommender {
	if opts == nil {
		opts = config.Default()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Recommender{model: model, g: g, rel: rel, opts: opts, logger: logger}
}

// Generate 生成全部建议
func (r *Recommender) Generate(card *Scorecard, patterns []query.Pattern) []Recommendation {
	var recs []Recommendation
	recs = append(recs, r.primaryKeyRecs(card)...)
	recs = append(recs, r.dataTypeRecs()...)
	recs = append(recs, r.denormRecs(patterns)...)
	recs = append(recs, r.queryAlignRecs(card, patterns)...)
	recs = append(recs, r.manyToManyRecs(patterns)...)
	recs = append(recs, r.hierarchyRecs()...)
	r.logger.Info("建议生成完成", zap.Int("count", len(recs)))
	return recs
}

// primaryKeyRecs 主键类别得分低于阈值的表
func (r *Recommender) primaryKeyRecs(card *Scorecard) []Recommendation {
	var recs []Recommendation
	cat := card.Category(CategoryPrimaryKeys)
	if cat == nil {
		return nil
	}
	for _, d := range cat.Details {
		if d.Score >= r.opts.PKScoreThreshold {
			continue
		}
		recs = append(recs, Recommendation{
			Category:     RecPrimaryKeys,
			Table:        d.Table,
			Summary:      fmt.Sprintf("Improve primary key design for table '%s'", d.Table),
			Details:      strings.Join(d.Issues, "; "),
			SuggestedFix: r.pkSuggestion(d.Table),
		})
	}
	return recs
}

func (r *Recommender) pkSuggestion(tableName string) string {
	t := r.model.Table(tableName)
	if t == nil || len(t.PrimaryKey) == 0 {
		return "Add a UUID column as partition key, e.g., PRIMARY KEY (id, created_at)"
	}
	if len(t.PrimaryKey) == 1 {
		pk := t.PrimaryKey[0]
		for _, c := range t.Columns {
			if schema.IsTimestampLike(c.Type) {
				return fmt.Sprintf("Use composite key with %s as partition key and %s as clustering column: PRIMARY KEY((%s), %s)",
					pk, c.Name, pk, c.Name)
			}
		}
		return fmt.Sprintf("Add a timestamp column for clustering and use: PRIMARY KEY((%s), timestamp_column)", pk)
	}
	return "Current primary key structure is suitable for Cassandra"
}

// dataTypeRecs 每个问题类型列一条建议
func (r *Recommender) dataTypeRecs() []Recommendation {
	var recs []Recommendation
	for i := range r.model.Tables {
		t := &r.model.Tables[i]
		for _, issue := range schema.ProblematicColumns(t) {
			recs = append(recs, Recommendation{
				Category:     RecDataTypes,
				Table:        t.Name,
				Summary:      fmt.Sprintf("Replace %s with a more Cassandra-friendly type", issue.Type),
				Details:      fmt.Sprintf("%s: %s", issue.Column, issue.Reason),
				SuggestedFix: typeSuggestion(issue.Type),
			})
		}
	}
	return recs
}

func typeSuggestion(colType string) string {
	lower := strings.ToLower(colType)
	switch {
	case strings.Contains(lower, "float") || strings.Contains(lower, "real"):
		return "Replace with 'decimal' or use scaled integers stored as 'bigint' for precise calculations"
	case strings.Contains(lower, "decimal"):
		if scale, ok := schema.DecimalScale(lower); ok {
			multiplier := 1
			for i := 0; i < scale; i++ {
				multiplier *= 10
			}
			return fmt.Sprintf("Convert to 'bigint' and multiply values by %d to preserve precision", multiplier)
		}
		return "Convert to 'bigint' with appropriate scaling factor"
	case strings.Contains(lower, "datetime"):
		return "Use 'timestamp' type in Cassandra"
	case strings.Contains(lower, "varchar") || strings.Contains(lower, "char"):
		return "Use 'text' type in Cassandra"
	case strings.Contains(lower, "enum"):
		return "Replace with 'text' type in Cassandra"
	case strings.Contains(lower, "json"):
		return "Use 'text' type and handle JSON serialization in application code"
	default:
		return fmt.Sprintf("Review if '%s' has a direct Cassandra equivalent", colType)
	}
}

// denormRecs 高频参与 join 的表。只统计出现次数达到阈值的前若干张
func (r *Recommender) denormRecs(patterns []query.Pattern) []Recommendation {
	if len(patterns) == 0 {
		return nil
	}
	inJoins := newColumnCounter()
	for _, p := range patterns {
		if !p.IsJoin() {
			continue
		}
		for _, t := range p.Tables {
			inJoins.add(t)
		}
	}

	var recs []Recommendation
	for _, table := range inJoins.topN(r.opts.TopN) {
		if inJoins.count(table) < r.opts.JoinRecThreshold {
			continue
		}
		joinedWith := newColumnCounter()
		for _, p := range patterns {
			if !p.IsJoin() || !p.References(table) {
				continue
			}
			for _, other := range p.Tables {
				if other != table {
					joinedWith.add(other)
				}
			}
		}
		top := joinedWith.topN(3)
		if len(top) == 0 {
			continue
		}
		var described []string
		for _, t := range top {
			described = append(described, fmt.Sprintf("%s (%d times)", t, joinedWith.count(t)))
		}
		recs = append(recs, Recommendation{
			Category:     RecDenorm,
			Table:        table,
			Summary:      fmt.Sprintf("Denormalize data from related tables into '%s'", table),
			Details:      fmt.Sprintf("Table '%s' is joined with %s", table, strings.Join(described, ", ")),
			SuggestedFix: r.denormSuggestion(table, top),
		})
	}
	return recs
}

// denormSuggestion 按外键方向决定建议：被引用方内嵌或收集引用方数据
func (r *Recommender) denormSuggestion(mainTable string, relatedTables []string) string {
	var parts []string
	for _, relTable := range relatedTables {
		var edges []graph.Edge
		for _, e := range r.g.Edges() {
			if (e.From == mainTable && e.To == relTable) || (e.From == relTable && e.To == mainTable) {
				edges = append(edges, e)
			}
		}
		switch {
		case len(edges) == 1:
			e := edges[0]
			if e.From == mainTable {
				parts = append(parts, fmt.Sprintf("Duplicate '%s' data into '%s' to eliminate joins", mainTable, relTable))
				continue
			}
			rel := r.model.Table(relTable)
			var nonKey []string
			if rel != nil {
				for _, c := range rel.Columns {
					if c.Name != e.FromColumn {
						nonKey = append(nonKey, c.Name)
					}
				}
			}
			if len(nonKey) <= r.opts.EmbedColumnLimit {
				parts = append(parts, fmt.Sprintf("Embed '%s' data (columns: %s) directly into '%s'",
					relTable, strings.Join(nonKey, ", "), mainTable))
			} else {
				parts = append(parts, fmt.Sprintf("Use a collection (list, set, or map) in '%s' to store related '%s' data",
					mainTable, relTable))
			}
		case len(edges) == 0:
			parts = append(parts, fmt.Sprintf("Create a denormalized table combining '%s' and '%s'", mainTable, relTable))
		}
	}
	if len(parts) == 0 {
		return "No specific denormalization needed"
	}
	return strings.Join(parts, "; ")
}

// queryAlignRecs 查询对齐类别低分、且高频 WHERE 列不在主键中的表
func (r *Recommender) queryAlignRecs(card *Scorecard, patterns []query.Pattern) []Recommendation {
	if len(patterns) == 0 {
		return nil
	}
	cat := card.Category(CategoryQueryPatterns)
	if cat == nil {
		return nil
	}
	var recs []Recommendation
	for _, d := range cat.Details {
		if d.Score >= r.opts.QueryScoreThreshold {
			continue
		}
		t := r.model.Table(d.Table)
		if t == nil {
			continue
		}
		var misaligned []string
		for _, col := range filterCounter(patterns, t, false).topN(3) {
			if !containsString(t.PrimaryKey, col) {
				misaligned = append(misaligned, col)
			}
		}
		if len(misaligned) == 0 {
			continue
		}
		recs = append(recs, Recommendation{
			Category: RecQueryAlign,
			Table:    d.Table,
			Summary:  "Align table design with query patterns",
			Details: fmt.Sprintf("Columns frequently used in WHERE clauses (%s) are not part of the primary key",
				strings.Join(misaligned, ", ")),
			SuggestedFix: querySuggestion(t, misaligned),
		})
	}
	return recs
}

func querySuggestion(t *schema.Table, misaligned []string) string {
	if len(misaligned) == 0 {
		return "Current primary key aligns with query patterns"
	}
	primary := misaligned[0]
	if len(t.PrimaryKey) == 0 {
		if len(misaligned) > 1 {
			return fmt.Sprintf("Create a primary key using '%s' as partition key and %s as clustering columns",
				primary, strings.Join(misaligned[1:], ", "))
		}
		return fmt.Sprintf("Create a primary key using '%s' as partition key", primary)
	}
	if len(t.PrimaryKey) == 1 {
		return fmt.Sprintf("Consider a composite key with '%s' and '%s' or create a secondary table with '%s' as partition key",
			t.PrimaryKey[0], primary, primary)
	}
	return fmt.Sprintf("Create a secondary table with '%s' as partition key to support this query pattern", primary)
}

// manyToManyRecs 每张连接表一条建议
func (r *Recommender) manyToManyRecs(patterns []query.Pattern) []Recommendation {
	var recs []Recommendation
	for _, j := range r.rel.Junctions {
		recs = append(recs, Recommendation{
			Category:     RecManyToMany,
			Table:        j.Table,
			Summary:      "Replace junction table with duplicated data",
			Details:      fmt.Sprintf("Junction table '%s' connects %s", j.Table, strings.Join(j.ConnectedTables, ", ")),
			SuggestedFix: r.m2mSuggestion(j, patterns),
		})
	}
	return recs
}

// m2mSuggestion 根据访问模式判断哪一侧是查询主导方；
// 判断不出方向时给出双向方案
func (r *Recommender) m2mSuggestion(j Junction, patterns []query.Pattern) string {
	if len(j.ConnectedTables) < 2 {
		return "Not enough connected tables identified for many-to-many relationship"
	}
	t1, t2 := j.ConnectedTables[0], j.ConnectedTables[1]

	if len(patterns) > 0 {
		whereCounts := newColumnCounter()
		for _, p := range patterns {
			if !p.References(j.Table) || (!p.References(t1) && !p.References(t2)) {
				continue
			}
			for _, col := range p.FilterColumns {
				whereCounts.add(col)
			}
		}
		var fkToT1, fkToT2 string
		for _, e := range r.g.Edges() {
			if e.From != j.Table {
				continue
			}
			if e.To == t1 && fkToT1 == "" {
				fkToT1 = e.FromColumn
			} else if e.To == t2 && fkToT2 == "" {
				fkToT2 = e.FromColumn
			}
		}
		if fkToT1 != "" && fkToT2 != "" {
			if whereCounts.count(fkToT1) > whereCounts.count(fkToT2) {
				return fmt.Sprintf("Create a collection in '%s' (e.g., set '%s_ids') to store related '%s' IDs and duplicate data from '%s'",
					t1, inflection.Singular(t2), t2, j.Table)
			}
			return fmt.Sprintf("Create a collection in '%s' (e.g., set '%s_ids') to store related '%s' IDs and duplicate data from '%s'",
				t2, inflection.Singular(t1), t1, j.Table)
		}
	}
	return fmt.Sprintf("Option 1: Create a collection in '%s' to store related '%s' IDs; Option 2: Create a collection in '%s' to store related '%s' IDs",
		t1, t2, t2, t1)
}

// hierarchyRecs 每个自引用一条建议
func (r *Recommender) hierarchyRecs() []Recommendation {
	var recs []Recommendation
	for _, ref := range r.rel.SelfRefs {
		recs = append(recs, Recommendation{
			Category: RecHierarchical,
			Table:    ref.Table,
			Summary:  "Restructure hierarchical data",
			Details:  fmt.Sprintf("Table '%s' has a self-reference on column '%s'", ref.Table, ref.Column),
			SuggestedFix: fmt.Sprintf("For hierarchical data in '%s', consider: "+
				"1) Materialized paths: store the full path to each node; "+
				"2) Adjacency lists: store all children IDs in a collection; "+
				"3) Nested sets: store left/right indexes for efficient subtree queries", ref.Table),
		})
	}
	return recs
}
