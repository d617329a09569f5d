package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"cassandra-modeler/internal/analyzer"
	"cassandra-modeler/internal/config"
	"cassandra-modeler/internal/graph"
	"cassandra-modeler/internal/query"
	"cassandra-modeler/internal/renderer"
	"cassandra-modeler/internal/schema"
)

var (
	schemaFile  string
	queriesFile string
	configFile  string
	outputDir   string
	verbose     bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "cassandra-modeler",
		Short: "关系模型到 Cassandra 宽列模型的转换与评估工具",
		Long:  "分析关系型数据库 schema 与查询访问模式，生成反规范化的 Cassandra 数据模型、CQL DDL 与最佳实践评估报告",
	}

	convertCmd := &cobra.Command{
		Use:   "convert",
		Short: "转换 schema 并生成 CQL",
		Run:   runConvert,
	}
	analyzeCmd := &cobra.Command{
		Use:   "analyze",
		Short: "评估 schema 并生成优化报告",
		Run:   runAnalyze,
	}

	for _, cmd := range []*cobra.Command{convertCmd, analyzeCmd} {
		cmd.Flags().StringVarP(&schemaFile, "input", "i", "", "输入 schema 文件 (JSON/YAML)")
		cmd.Flags().StringVarP(&queriesFile, "queries", "q", "", "查询模式文件，每行一条 SQL")
		cmd.Flags().StringVarP(&configFile, "config", "c", "", "配置文件 (YAML)")
		cmd.Flags().StringVarP(&outputDir, "output", "o", "./output", "输出目录")
		cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "输出调试日志")
		cmd.MarkFlagRequired("input")
	}

	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(analyzeCmd)

	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

func newLogger() *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}
	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("创建日志器失败: %v", err)
	}
	return logger
}

// prepare 加载配置、schema 与查询模式并执行分析
func prepare(logger *zap.Logger) (*schema.Model, *analyzer.Result, *config.Options) {
	opts, err := config.Load(configFile)
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	fmt.Println("📥 加载 schema...")
	model, warnings, err := schema.NewLoader(logger).LoadFile(schemaFile)
	if err != nil {
		log.Fatalf("加载 schema 失败: %v", err)
	}
	fmt.Printf("✓ 发现 %d 个表\n", len(model.Tables))
	for _, w := range warnings {
		fmt.Printf("⚠️  %s\n", w.Message)
	}

	var patterns []query.Pattern
	if queriesFile != "" {
		patterns, err = query.NewExtractor(logger).ExtractFile(queriesFile)
		if err != nil {
			log.Fatalf("加载查询模式失败: %v", err)
		}
		fmt.Printf("✓ 加载 %d 条查询模式\n", len(patterns))
	} else {
		fmt.Println("ℹ️  未提供查询模式，使用结构信号分析")
	}

	fmt.Println("\n🔨 分析并转换...")
	res := analyzer.New(opts, logger).Analyze(model, patterns)
	for _, w := range res.Warnings {
		fmt.Printf("⚠️  %s\n", w.Message)
	}
	return model, res, opts
}

func runConvert(cmd *cobra.Command, args []string) {
	logger := newLogger()
	defer logger.Sync()

	model, res, opts := prepare(logger)
	fmt.Printf("✓ 生成 %d 个 Cassandra 表\n", len(res.Design))

	fmt.Println("\n📝 生成输出文件...")
	mustMkdir(outputDir)

	cql := renderer.NewCQLRenderer(opts).Render(res.Design)
	writeOut("cassandra_schema.cql", []byte(cql))

	md := renderer.NewMarkdownRenderer()
	summary := "# Cassandra 访问模式摘要\n\n" + md.Summary(res.Design)
	writeOut("access_patterns.md", []byte(summary))

	g, _ := graph.Build(model, logger)
	mermaid := renderer.NewMermaidRenderer().Render(model, g)
	writeOut("er.mmd", []byte(mermaid))

	fmt.Println("\n✅ 转换完成！")
}

func runAnalyze(cmd *cobra.Command, args []string) {
	logger := newLogger()
	defer logger.Sync()

	_, res, _ := prepare(logger)

	fmt.Printf("✓ 总评分 %.1f/100，共 %d 条建议\n", res.Scorecard.Overall, len(res.Recommendations))

	fmt.Println("\n📝 生成输出文件...")
	mustMkdir(outputDir)

	report := renderer.NewMarkdownRenderer().Render(res)
	writeOut("report.md", []byte(report))

	scorecard, err := json.MarshalIndent(res.Scorecard, "", "  ")
	if err != nil {
		log.Fatalf("序列化评分卡失败: %v", err)
	}
	writeOut("scorecard.json", scorecard)

	fmt.Println("\n✅ 分析完成！")
}

func mustMkdir(dir string) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		log.Fatalf("创建输出目录失败: %v", err)
	}
}

func writeOut(name string, data []byte) {
	path := filepath.Join(outputDir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		log.Fatalf("写入 %s 失败: %v", path, err)
	}
	fmt.Printf("✓ %s\n", path)
}
