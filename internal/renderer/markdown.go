package renderer

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"cassandra-modeler/internal/analyzer"
)

// MarkdownRenderer 优化报告渲染器
type MarkdownRenderer struct{}

// NewMarkdownRenderer 创建渲染器
func NewMarkdownRenderer() *MarkdownRenderer {
	return &MarkdownRenderer{}
}

// Render 渲染完整优化报告
func (m *MarkdownRenderer) Render(res *analyzer.Result) string {
	var sb strings.Builder

	sb.WriteString("# Cassandra 模式优化报告\n\n")
	sb.WriteString(fmt.Sprintf("- 报告编号: %s\n", uuid.NewString()))
	sb.WriteString(fmt.Sprintf("- 生成时间: %s\n\n", time.Now().Format("2006-01-02 15:04:05")))

	sb.WriteString(fmt.Sprintf("## 总评分: %.1f/100\n\n", res.Scorecard.Overall))
	sb.WriteString(overallAssessment(res.Scorecard.Overall) + "\n\n")

	sb.WriteString("## 类别评分\n\n")
	sb.WriteString("| 类别 | 得分 | 评估 |\n")
	sb.WriteString("|------|------|------|\n")
	for _, cat := range res.Scorecard.Categories {
		sb.WriteString(fmt.Sprintf("| %s | %.1f | %s |\n", cat.Category, cat.Score, bandOf(cat.Score)))
	}
	sb.WriteString("\n")

	sb.WriteString("## 逐表明细\n\n")
	for _, cat := range res.Scorecard.Categories {
		sb.WriteString(fmt.Sprintf("### %s\n\n", cat.Category))
		for _, d := range cat.Details {
			sb.WriteString(fmt.Sprintf("- **%s** (%.0f)\n", d.Table, d.Score))
			for _, issue := range d.Issues {
				sb.WriteString(fmt.Sprintf("  - %s\n", issue))
			}
		}
		sb.WriteString("\n")
		m.renderChecklist(&sb, cat.Category)
	}

	if len(res.Recommendations) > 0 {
		sb.WriteString("## 优化建议\n\n")
		for i, rec := range res.Recommendations {
			sb.WriteString(fmt.Sprintf("### %d. [%s] %s\n\n", i+1, rec.Category, rec.Summary))
			sb.WriteString(fmt.Sprintf("- 表: `%s`\n", rec.Table))
			sb.WriteString(fmt.Sprintf("- 问题: %s\n", rec.Details))
			sb.WriteString(fmt.Sprintf("- 修改建议: %s\n\n", rec.SuggestedFix))
		}
	}

	m.renderDiagnostics(&sb, res)
	sb.WriteString(m.Summary(res.Design))
	return sb.String()
}

// 各类别的最佳实践清单
var categoryChecklists = map[string]struct {
	title string
	items []string
}{
	analyzer.CategoryPrimaryKeys: {
		title: "Cassandra Primary Key Best Practices",
		items: []string{
			"Partition keys should distribute data evenly across nodes",
			"Avoid high-cardinality partition keys to prevent hotspots",
			"Use composite keys (partition key + clustering columns) for efficient data retrieval",
			"Order clustering columns based on query patterns",
			"Keep related data in the same partition to minimize reads",
		},
	},
	analyzer.CategoryDataTypes: {
		title: "Cassandra Data Type Best Practices",
		items: []string{
			"Use text instead of varchar for string data",
			"Prefer bigint over decimal for numeric values requiring precision",
			"Use collections (list, set, map) for small groups of related data",
			"Use UUID type for globally unique identifiers",
			"Avoid using floating-point types for exact calculations",
		},
	},
	analyzer.CategoryDenormalization: {
		title: "Cassandra Denormalization Best Practices",
		items: []string{
			"Design tables around query patterns, not entity relationships",
			"Duplicate data across tables to minimize joins",
			"Use collections for one-to-few relationships",
			"Create separate tables for each query pattern",
			"Accept data duplication to optimize read performance",
		},
	},
	analyzer.CategoryQueryPatterns: {
		title: "Cassandra Query Pattern Best Practices",
		items: []string{
			"Design tables based on specific query requirements",
			"Include all filtering columns in primary key",
			"Order clustering columns based on sorting needs",
			"Create separate tables for different access patterns",
			"Avoid secondary indexes except for low-cardinality columns",
		},
	},
}

// renderChecklist 类别最佳实践清单
func (m *MarkdownRenderer) renderChecklist(sb *strings.Builder, category string) {
	cl, ok := categoryChecklists[category]
	if !ok {
		return
	}
	sb.WriteString(fmt.Sprintf("**%s:**\n\n", cl.title))
	for _, item := range cl.items {
		sb.WriteString(fmt.Sprintf("- %s\n", item))
	}
	sb.WriteString("\n")
}

// renderDiagnostics 高连接度表、查询表对与加载警告
func (m *MarkdownRenderer) renderDiagnostics(sb *strings.Builder, res *analyzer.Result) {
	if rel := res.Relationships; rel != nil && len(rel.HighConnectivity) > 0 {
		sb.WriteString("## 高连接度表\n\n")
		sb.WriteString("| 表 | 入引用 | 出引用 | 总连接数 |\n")
		sb.WriteString("|----|--------|--------|----------|\n")
		for _, c := range rel.HighConnectivity {
			sb.WriteString(fmt.Sprintf("| %s | %d | %d | %d |\n",
				c.Table, c.InReferences, c.OutReferences, c.TotalConnections))
		}
		sb.WriteString("\n")
	}

	if len(res.PairCounts) > 0 {
		sb.WriteString("## 查询中共同出现的表对\n\n")
		for _, p := range res.PairCounts {
			sb.WriteString(fmt.Sprintf("- `%s` + `%s`: %d 次\n", p.A, p.B, p.Count))
		}
		sb.WriteString("\n")
	}

	if len(res.Warnings) > 0 {
		sb.WriteString("## 警告\n\n")
		for _, w := range res.Warnings {
			sb.WriteString(fmt.Sprintf("- [%s] %s\n", w.Kind, w.Message))
		}
		sb.WriteString("\n")
	}
}

// Summary 访问模式摘要：生成的表、键结构与查询实践
func (m *MarkdownRenderer) Summary(design []analyzer.CassandraTable) string {
	var sb strings.Builder

	sb.WriteString("## 生成的表\n\n")
	for _, t := range design {
		sb.WriteString(fmt.Sprintf("### %s\n\n", t.Name))
		if t.Denormalized {
			sb.WriteString(fmt.Sprintf("- 反规范化来源: %s\n", strings.Join(t.SourceTables, ", ")))
		}
		sb.WriteString(fmt.Sprintf("- 分区键: %s\n", strings.Join(t.PartitionKey, ", ")))
		if len(t.ClusteringColumns) > 0 {
			sb.WriteString(fmt.Sprintf("- 聚簇列: %s\n", strings.Join(t.ClusteringColumns, ", ")))
		}
		if t.QueryPattern != "" {
			sb.WriteString(fmt.Sprintf("- 推荐查询: `%s`\n", t.QueryPattern))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("## Cassandra 查询最佳实践\n\n")
	sb.WriteString("1. **Always query by partition key** to avoid full cluster scans\n")
	sb.WriteString("2. **Use prepared statements** for better performance\n")
	sb.WriteString("3. **Be mindful of data consistency** when updating denormalized data\n")
	sb.WriteString("4. **Consider time-to-live (TTL)** for data that should expire\n")
	sb.WriteString("5. **Monitor partition sizes** to avoid hotspots\n\n")

	var decisions []string
	for _, t := range design {
		if t.Denormalized {
			decisions = append(decisions, fmt.Sprintf("- **%s**: Denormalized to optimize queries across %s",
				t.Name, strings.Join(t.SourceTables, " and ")))
		}
	}
	if len(decisions) > 0 {
		sb.WriteString("## 建模决策\n\n")
		sb.WriteString(strings.Join(decisions, "\n"))
		sb.WriteString("\n")
	}

	return sb.String()
}

func overallAssessment(score float64) string {
	switch {
	case score >= 80:
		return "EXCELLENT: This schema is well-suited for Cassandra with minor optimizations needed."
	case score >= 60:
		return "GOOD: This schema can work with Cassandra but needs moderate optimizations."
	default:
		return "NEEDS WORK: Significant optimizations required for effective Cassandra implementation."
	}
}

func bandOf(score float64) string {
	switch {
	case score >= 80:
		return "Excellent"
	case score >= 60:
		return "Good"
	case score >= 40:
		return "Fair"
	default:
		return "Needs Improvement"
	}
}
