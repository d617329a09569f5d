package analyzer

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"cassandra-modeler/internal/config"
	"cassandra-modeler/internal/query"
	"cassandra-modeler/internal/schema"
)

// Scorer 最佳实践评分器。四个类别各自按表打分后取未加权平均，
// 总分为类别得分的加权和
type Scorer struct {
	model  *schema.Model
	rel    *Relationships
	opts   *config.Options
	logger *zap.Logger
}

// NewScorer 创建评分器
func NewScorer(model *schema.Model, rel *Relationships, opts *config.Options, logger *zap.Logger) *Scorer {
	if opts == nil {
		opts = config.Default()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scorer{model: model, rel: rel, opts: opts, logger: logger}
}

// Score 计算评分卡
func (s *Scorer) Score(patterns []query.Pattern) *Scorecard {
	card := &Scorecard{
		Categories: []CategoryScore{
			s.scorePrimaryKeys(),
			s.scoreDataTypes(),
			s.scoreDenormalization(patterns),
			s.scoreQueryPatterns(patterns),
		},
	}
	card.Overall = card.Category(CategoryPrimaryKeys).Score*s.opts.WeightPrimaryKeys +
		card.Category(CategoryDataTypes).Score*s.opts.WeightDataTypes +
		card.Category(CategoryDenormalization).Score*s.opts.WeightDenormalization +
		card.Category(CategoryQueryPatterns).Score*s.opts.WeightQueryPatterns

	s.logger.Info("评分完成", zap.Float64("overall", card.Overall))
	return card
}

// scorePrimaryKeys 主键构成：无主键 0 分，单列且高基数 80，单列低基数 50，复合键 100
func (s *Scorer) scorePrimaryKeys() CategoryScore {
	var details []TableScore
	for i := range s.model.Tables {
		t := &s.model.Tables[i]
		ts := TableScore{Table: t.Name}
		switch {
		case len(t.PrimaryKey) == 0:
			ts.Score = 0
			ts.Issues = append(ts.Issues, "No primary key defined")
		case len(t.PrimaryKey) == 1:
			if schema.IsIdentifierLike(t.Column(t.PrimaryKey[0])) {
				ts.Score = 80
				ts.Issues = append(ts.Issues, "Single-column primary key is OK but could be improved with composite keys")
			} else {
				ts.Score = 50
				ts.Issues = append(ts.Issues, "Single-column primary key may lead to hotspots if not high-cardinality")
			}
		default:
			ts.Score = 100
			ts.Issues = append(ts.Issues, "Good: Composite primary key")
		}
		details = append(details, ts)
	}
	return newCategoryScore(CategoryPrimaryKeys, details)
}

// scoreDataTypes 数据类型：每个问题列按系数扣分，下限 0
func (s *Scorer) scoreDataTypes() CategoryScore {
	var details []TableScore
	for i := range s.model.Tables {
		t := &s.model.Tables[i]
		problems := schema.ProblematicColumns(t)
		ts := TableScore{
			Table: t.Name,
			Score: clamp(100 - float64(len(problems))*s.opts.TypePenalty),
		}
		if len(problems) == 0 {
			ts.Issues = append(ts.Issues, "No data type issues")
		}
		for _, p := range problems {
			ts.Issues = append(ts.Issues, fmt.Sprintf("%s (%s): %s", p.Column, p.Type, p.Reason))
		}
		details = append(details, ts)
	}
	return newCategoryScore(CategoryDataTypes, details)
}

// scoreDenormalization 反规范化需求。
// 有查询时按 join 模式计：join 越多越需要反规范化，分越低。
// 无查询时退回结构信号：关系链、一对多与多对多按系数扣分
func (s *Scorer) scoreDenormalization(patterns []query.Pattern) CategoryScore {
	var details []TableScore
	for i := range s.model.Tables {
		t := &s.model.Tables[i]
		if len(patterns) > 0 {
			details = append(details, s.denormFromJoins(t, patterns))
		} else {
			details = append(details, s.denormFromStructure(t))
		}
	}
	return newCategoryScore(CategoryDenormalization, details)
}

func (s *Scorer) denormFromJoins(t *schema.Table, patterns []query.Pattern) TableScore {
	ts := TableScore{Table: t.Name}
	joins := joinCount(patterns, t.Name)
	if joins == 0 {
		ts.Score = 100
		ts.Issues = append(ts.Issues, "Table not involved in joins, no denormalization needed")
		return ts
	}
	ts.Score = clamp(100 - float64(joins)*s.opts.JoinPenalty)
	ts.Issues = append(ts.Issues, fmt.Sprintf("Table involved in %d join patterns, consider denormalization", joins))
	for _, p := range patterns {
		if !p.IsJoin() || !p.References(t.Name) {
			continue
		}
		var others []string
		for _, other := range p.Tables {
			if other != t.Name {
				others = append(others, other)
			}
		}
		if len(others) > 0 {
			ts.Issues = append(ts.Issues, fmt.Sprintf("Consider denormalizing data from %s into %s",
				strings.Join(others, ", "), t.Name))
		}
	}
	return ts
}

func (s *Scorer) denormFromStructure(t *schema.Table) TableScore {
	ts := TableScore{Table: t.Name}

	var chainPartners []string
	chainCount := 0
	for _, chain := range s.rel.Chains {
		if !containsString(chain, t.Name) {
			continue
		}
		chainCount++
		for _, other := range chain {
			if other != t.Name && !containsString(chainPartners, other) {
				chainPartners = append(chainPartners, other)
			}
		}
	}
	if chainCount > s.opts.MaxChainCount {
		chainCount = s.opts.MaxChainCount
	}

	var o2mPartners []string
	o2mCount := 0
	for _, e := range s.rel.OneToMany {
		if e.From == t.Name {
			o2mCount++
			if !containsString(o2mPartners, e.To) {
				o2mPartners = append(o2mPartners, e.To)
			}
		} else if e.To == t.Name {
			o2mCount++
			if !containsString(o2mPartners, e.From) {
				o2mPartners = append(o2mPartners, e.From)
			}
		}
	}

	var m2mPartners []string
	m2mCount := 0
	for _, j := range s.rel.Junctions {
		if j.Table == t.Name {
			m2mCount++
			for _, c := range j.ConnectedTables {
				if !containsString(m2mPartners, c) {
					m2mPartners = append(m2mPartners, c)
				}
			}
		} else if containsString(j.ConnectedTables, t.Name) {
			m2mCount++
			if !containsString(m2mPartners, j.Table) {
				m2mPartners = append(m2mPartners, j.Table)
			}
			for _, c := range j.ConnectedTables {
				if c != t.Name && !containsString(m2mPartners, c) {
					m2mPartners = append(m2mPartners, c)
				}
			}
		}
	}

	factor := chainCount + o2mCount + m2mCount
	ts.Score = clamp(100 - float64(factor)*s.opts.RelationshipPenalty)
	if factor == 0 {
		ts.Issues = append(ts.Issues, "Table has no relationships, no denormalization needed")
		return ts
	}
	if chainCount > 0 {
		ts.Issues = append(ts.Issues, fmt.Sprintf("Table part of %d relationship chains with %s",
			chainCount, strings.Join(chainPartners, ", ")))
	}
	if o2mCount > 0 {
		ts.Issues = append(ts.Issues, fmt.Sprintf("Table has one-to-many relationships with %s",
			strings.Join(o2mPartners, ", ")))
	}
	if m2mCount > 0 {
		ts.Issues = append(ts.Issues, fmt.Sprintf("Table involved in many-to-many relationships with %s",
			strings.Join(m2mPartners, ", ")))
	}
	return ts
}

// scoreQueryPatterns 查询对齐度。未被查询的表给中性 50 分。
// 被查询的表从 50 起算：主键出现在高频 WHERE 列 +20 否则 −20，
// 多个非键列高频过滤 −15，主键参与排序 +10，非键列参与排序 −10，截断到 [0,100]
func (s *Scorer) scoreQueryPatterns(patterns []query.Pattern) CategoryScore {
	var details []TableScore
	for i := range s.model.Tables {
		t := &s.model.Tables[i]
		ts := TableScore{Table: t.Name}
		if len(tablePatterns(patterns, t.Name)) == 0 {
			ts.Score = 50
			if len(patterns) == 0 {
				ts.Issues = append(ts.Issues, "No query patterns provided to evaluate")
			} else {
				ts.Issues = append(ts.Issues, "Table not found in query patterns")
			}
			details = append(details, ts)
			continue
		}

		topWhere := filterCounter(patterns, t, false).topN(s.opts.TopN)
		topOrder := orderCounter(patterns, t).topN(s.opts.TopN)

		pkInWhere, nonPKInWhere := 0, 0
		for _, c := range t.Columns {
			if !containsString(topWhere, c.Name) {
				continue
			}
			if t.IsPrimaryKey(c.Name) {
				pkInWhere++
			} else {
				nonPKInWhere++
			}
		}
		pkInOrder, nonPKInOrder := 0, 0
		for _, c := range t.Columns {
			if !containsString(topOrder, c.Name) {
				continue
			}
			if t.IsPrimaryKey(c.Name) {
				pkInOrder++
			} else {
				nonPKInOrder++
			}
		}

		score := 50.0
		if pkInWhere > 0 {
			score += 20
			ts.Issues = append(ts.Issues, "Good: Primary key column(s) used in WHERE conditions")
		} else {
			score -= 20
			ts.Issues = append(ts.Issues, "Issue: Primary key not used in WHERE conditions")
		}
		if nonPKInWhere > 2 {
			score -= 15
			ts.Issues = append(ts.Issues, "Issue: Multiple non-primary key columns used in WHERE conditions")
		}
		if pkInOrder > 0 {
			score += 10
			ts.Issues = append(ts.Issues, "Good: Primary key column(s) used in ORDER BY")
		} else if nonPKInOrder > 0 {
			score -= 10
			ts.Issues = append(ts.Issues, "Issue: Non-primary key columns used in ORDER BY")
		}

		ts.Score = clamp(score)
		details = append(details, ts)
	}
	return newCategoryScore(CategoryQueryPatterns, details)
}

func newCategoryScore(name string, details []TableScore) CategoryScore {
	cs := CategoryScore{Category: name, Details: details}
	if len(details) == 0 {
		return cs
	}
	sum := 0.0
	for _, d := range details {
		sum += d.Score
	}
	cs.Score = sum / float64(len(details))
	return cs
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
