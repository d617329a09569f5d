package analyzer

import (
	"sort"

	"cassandra-modeler/internal/query"
	"cassandra-modeler/internal/schema"
)

// columnCounter 列频次统计，记住首见顺序以保证并列时结果稳定
type columnCounter struct {
	counts map[string]int
	order  []string
}

func newColumnCounter() *columnCounter {
	return &columnCounter{counts: make(map[string]int)}
}

func (c *columnCounter) add(col string) {
	if _, seen := c.counts[col]; !seen {
		c.order = append(c.order, col)
	}
	c.counts[col]++
}

// mostCommon 频次最高的列，并列取首见。空计数返回 ""
func (c *columnCounter) mostCommon() string {
	best := ""
	bestCount := 0
	for _, col := range c.order {
		if c.counts[col] > bestCount {
			best = col
			bestCount = c.counts[col]
		}
	}
	return best
}

// topN 频次前 n 的列，并列按首见顺序
func (c *columnCounter) topN(n int) []string {
	cols := make([]string, len(c.order))
	copy(cols, c.order)
	sort.SliceStable(cols, func(i, j int) bool {
		return c.counts[cols[i]] > c.counts[cols[j]]
	})
	if len(cols) > n {
		cols = cols[:n]
	}
	return cols
}

func (c *columnCounter) count(col string) int { return c.counts[col] }

// tablePatterns 过滤出涉及指定表的访问模式
func tablePatterns(patterns []query.Pattern, table string) []query.Pattern {
	var out []query.Pattern
	for _, p := range patterns {
		if p.References(table) {
			out = append(out, p)
		}
	}
	return out
}

// filterCounter 统计涉及该表的查询中的 WHERE 列，只计真实存在的列
func filterCounter(patterns []query.Pattern, t *schema.Table, realOnly bool) *columnCounter {
	c := newColumnCounter()
	for _, p := range patterns {
		if !p.References(t.Name) {
			continue
		}
		for _, col := range p.FilterColumns {
			if realOnly && !t.HasColumn(col) {
				continue
			}
			c.add(col)
		}
	}
	return c
}

// orderCounter 统计涉及该表的查询中的 ORDER BY 列
func orderCounter(patterns []query.Pattern, t *schema.Table) *columnCounter {
	c := newColumnCounter()
	for _, p := range patterns {
		if !p.References(t.Name) {
			continue
		}
		for _, col := range p.OrderColumns {
			c.add(col)
		}
	}
	return c
}

// joinCount 表出现在多少个跨表查询模式中
func joinCount(patterns []query.Pattern, table string) int {
	n := 0
	for _, p := range patterns {
		if p.IsJoin() && p.References(table) {
			n++
		}
	}
	return n
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
