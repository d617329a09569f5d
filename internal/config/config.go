package config

import (
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
)

// Options 分析器参数。可由 YAML 文件与环境变量覆盖，缺省值即最佳实践评分的标准权重。
// 环境变量优先于 YAML
type Options struct {
	// 四个评分类别的权重，总和应为 1
	WeightPrimaryKeys     float64 `yaml:"weight_primary_keys" env:"MODELER_WEIGHT_PRIMARY_KEYS" env-default:"0.30"`
	WeightDataTypes       float64 `yaml:"weight_data_types" env:"MODELER_WEIGHT_DATA_TYPES" env-default:"0.20"`
	WeightDenormalization float64 `yaml:"weight_denormalization" env:"MODELER_WEIGHT_DENORMALIZATION" env-default:"0.25"`
	WeightQueryPatterns   float64 `yaml:"weight_query_patterns" env:"MODELER_WEIGHT_QUERY_PATTERNS" env-default:"0.25"`

	// 扣分系数
	JoinPenalty         float64 `yaml:"join_penalty" env:"MODELER_JOIN_PENALTY" env-default:"15"`          // 每个 join 模式
	RelationshipPenalty float64 `yaml:"relationship_penalty" env:"MODELER_RELATIONSHIP_PENALTY" env-default:"10"` // 每个结构性关系
	TypePenalty         float64 `yaml:"type_penalty" env:"MODELER_TYPE_PENALTY" env-default:"20"`          // 每个问题类型列

	// 搜索与报告上限，约束稠密图上的枚举成本
	MaxChainHops  int `yaml:"max_chain_hops" env:"MODELER_MAX_CHAIN_HOPS" env-default:"3"`
	MaxChainCount int `yaml:"max_chain_count" env:"MODELER_MAX_CHAIN_COUNT" env-default:"5"` // 单表链归属计数上限
	TopN          int `yaml:"top_n" env:"MODELER_TOP_N" env-default:"5"`

	// 建议生成阈值
	PKScoreThreshold    float64 `yaml:"pk_score_threshold" env:"MODELER_PK_SCORE_THRESHOLD" env-default:"70"`
	QueryScoreThreshold float64 `yaml:"query_score_threshold" env:"MODELER_QUERY_SCORE_THRESHOLD" env-default:"60"`
	JoinRecThreshold    int     `yaml:"join_rec_threshold" env:"MODELER_JOIN_REC_THRESHOLD" env-default:"2"`
	EmbedColumnLimit    int     `yaml:"embed_column_limit" env:"MODELER_EMBED_COLUMN_LIMIT" env-default:"3"` // 内嵌 vs 集合的非键列阈值

	// CQL 输出
	Keyspace          string `yaml:"keyspace" env:"MODELER_KEYSPACE" env-default:"converted_schema"`
	ReplicationFactor int    `yaml:"replication_factor" env:"MODELER_REPLICATION_FACTOR" env-default:"3"`
}

// Load 加载配置。path 为空时只读环境变量与缺省值
func Load(path string) (*Options, error) {
	opts := &Options{}
	if path != "" {
		if err := cleanenv.ReadConfig(path, opts); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		return opts, nil
	}
	if err := cleanenv.ReadEnv(opts); err != nil {
		return nil, fmt.Errorf("read env config: %w", err)
	}
	return opts, nil
}

// Default 全缺省配置
func Default() *Options {
	opts, err := Load("")
	if err != nil {
		// 缺省值解析失败属于编程错误
		panic(err)
	}
	return opts
}
