package analyzer

import (
	"sort"
	"strings"

	"go.uber.org/zap"

	"cassandra-modeler/internal/config"
	"cassandra-modeler/internal/graph"
	"cassandra-modeler/internal/query"
	"cassandra-modeler/internal/schema"
)

// 连接度超过该值的表进入高连接度清单
const connectivityThreshold = 3

// Result 一次完整分析的产出
type Result struct {
	// Design 目标宽列模型：基表转换在前，合成的反规范化表在后
	Design []CassandraTable `json:"design"`
	// KeyPlans 各基表的键推导结果，含备选分区键建议
	KeyPlans map[string]KeyPlan `json:"key_plans"`
	// PairCounts 查询中共同出现的表对，按频次降序，取前若干
	PairCounts      []PairCount      `json:"pair_counts,omitempty"`
	Relationships   *Relationships   `json:"relationships"`
	Scorecard       *Scorecard       `json:"scorecard"`
	Recommendations []Recommendation `json:"recommendations"`
	Warnings        []schema.Warning `json:"warnings,omitempty"`
}

// Table 按名查找设计中的表
func (r *Result) Table(name string) *CassandraTable {
	for i := range r.Design {
		if r.Design[i].Name == name {
			return &r.Design[i]
		}
	}
	return nil
}

// Analyzer 转换与评估的编排器
type Analyzer struct {
	opts   *config.Options
	logger *zap.Logger
}

// New 创建分析器
func New(opts *config.Options, logger *zap.Logger) *Analyzer {
	if opts == nil {
		opts = config.Default()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Analyzer{opts: opts, logger: logger}
}

// Analyze 执行完整流程：关系图、基表转换、反规范化合成、结构分析、评分与建议。
// patterns 可以为空，此时跳过模式驱动的环节并退回结构信号
func (a *Analyzer) Analyze(model *schema.Model, patterns []query.Pattern) *Result {
	res := &Result{KeyPlans: make(map[string]KeyPlan)}

	g, warnings := graph.Build(model, a.logger)
	res.Warnings = append(res.Warnings, warnings...)

	for i := range model.Tables {
		t := &model.Tables[i]
		plan := DeriveKeys(t, patterns)
		res.KeyPlans[t.Name] = plan
		res.Design = append(res.Design, convertTable(t, plan))
		if plan.ImplicitID {
			a.logger.Warn("表无主键，使用隐式 id 分区键", zap.String("table", t.Name))
		}
		if plan.AlternatePartitionKey != "" {
			a.logger.Info("访问模式提示了备选分区键",
				zap.String("table", t.Name), zap.String("column", plan.AlternatePartitionKey))
		}
	}

	synth := NewSynthesizer(model, g, a.logger)
	tables, synthWarnings := synth.Synthesize(patterns)
	res.Design = append(res.Design, tables...)
	res.Warnings = append(res.Warnings, synthWarnings...)

	res.PairCounts = countPairs(patterns, a.opts.TopN)
	res.Relationships = AnalyzeRelationships(model, g, a.opts.MaxChainHops, connectivityThreshold, a.logger)
	res.Scorecard = NewScorer(model, res.Relationships, a.opts, a.logger).Score(patterns)
	res.Recommendations = NewRecommender(model, g, res.Relationships, a.opts, a.logger).Generate(res.Scorecard, patterns)

	a.logger.Info("分析完成",
		zap.Int("tables", len(res.Design)),
		zap.Int("recommendations", len(res.Recommendations)),
		zap.Float64("overall_score", res.Scorecard.Overall))
	return res
}

// convertTable 基表直转：列名小写、类型映射，键来自推导结果。
// 隐式分区键列不存在时补一个 uuid 列
func convertTable(t *schema.Table, plan KeyPlan) CassandraTable {
	ct := CassandraTable{Name: strings.ToLower(t.Name)}
	for _, c := range t.Columns {
		ct.setColumn(strings.ToLower(c.Name), c.MappedType)
	}
	for _, k := range plan.PartitionKey {
		ct.PartitionKey = append(ct.PartitionKey, strings.ToLower(k))
	}
	for _, k := range plan.ClusteringColumns {
		ct.ClusteringColumns = append(ct.ClusteringColumns, strings.ToLower(k))
	}
	if plan.ImplicitID && !ct.HasColumn(ImplicitKeyColumn) {
		ct.setColumn(ImplicitKeyColumn, "uuid")
	}
	return ct
}

// countPairs 统计查询中共同出现的表对（无序），降序取前 n，并列按首见
func countPairs(patterns []query.Pattern, n int) []PairCount {
	counts := make(map[[2]string]int)
	var order [][2]string
	for _, p := range patterns {
		seen := make(map[[2]string]bool)
		for i := 0; i < len(p.Tables); i++ {
			for j := i + 1; j < len(p.Tables); j++ {
				a, b := p.Tables[i], p.Tables[j]
				if a > b {
					a, b = b, a
				}
				key := [2]string{a, b}
				if seen[key] {
					continue
				}
				seen[key] = true
				if counts[key] == 0 {
					order = append(order, key)
				}
				counts[key]++
			}
		}
	}
	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	if len(order) > n {
		order = order[:n]
	}
	var out []PairCount
	for _, key := range order {
		out = append(out, PairCount{A: key[0], B: key[1], Count: counts[key]})
	}
	return out
}
