package analyzer

import (
	"cassandra-modeler/internal/query"
	"cassandra-modeler/internal/schema"
)

// ImplicitKeyColumn 缺少主键时使用的隐式分区键列
const ImplicitKeyColumn = "id"

// KeyPlan 单表键推导结果
type KeyPlan struct {
	PartitionKey      []string
	ClusteringColumns []string
	// ImplicitID 为 true 时分区键来自隐式 id 列而非声明主键
	ImplicitID bool
	// AlternatePartitionKey 来自访问模式的备选分区键建议。
	// 已有分区键时绝不静默替换，只作记录
	AlternatePartitionKey string
}

// DeriveKeys 推导分区键与聚簇列。
// 缺省取声明主键：首列为分区键，其余按序为聚簇列。
// 有访问模式涉及该表时做一轮补充：显式键始终优先，模式信号只填补空缺
func DeriveKeys(t *schema.Table, patterns []query.Pattern) KeyPlan {
	plan := KeyPlan{}
	if len(t.PrimaryKey) > 0 {
		plan.PartitionKey = []string{t.PrimaryKey[0]}
		plan.ClusteringColumns = append(plan.ClusteringColumns, t.PrimaryKey[1:]...)
	}

	if len(tablePatterns(patterns, t.Name)) > 0 {
		adjustFromPatterns(t, patterns, &plan)
	}

	if len(plan.PartitionKey) == 0 {
		plan.PartitionKey = []string{ImplicitKeyColumn}
		plan.ImplicitID = true
	}
	return plan
}

// adjustFromPatterns 基于访问模式的补充轮
func adjustFromPatterns(t *schema.Table, patterns []query.Pattern, plan *KeyPlan) {
	// 1. 最高频 WHERE 列（只计真实列，并列取首见）。
	// 分区键已存在时仅作建议记录，为空时才采纳
	if most := filterCounter(patterns, t, true).mostCommon(); most != "" {
		inKey := containsString(plan.PartitionKey, most) || containsString(plan.ClusteringColumns, most)
		if !inKey {
			if len(plan.PartitionKey) == 0 {
				plan.PartitionKey = []string{most}
			} else {
				plan.AlternatePartitionKey = most
			}
		}
	}

	// 2. ORDER BY 列按首见顺序补进聚簇列，已在键中的跳过
	for _, p := range patterns {
		if !p.References(t.Name) {
			continue
		}
		for _, col := range p.OrderColumns {
			if !t.HasColumn(col) {
				continue
			}
			if containsString(plan.PartitionKey, col) || containsString(plan.ClusteringColumns, col) {
				continue
			}
			plan.ClusteringColumns = append(plan.ClusteringColumns, col)
		}
	}
}
