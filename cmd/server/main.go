package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"cassandra-modeler/internal/analyzer"
	"cassandra-modeler/internal/config"
	"cassandra-modeler/internal/graph"
	"cassandra-modeler/internal/query"
	"cassandra-modeler/internal/renderer"
	"cassandra-modeler/internal/schema"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // 允许跨域
	},
}

// ModelingRequest 建模请求：schema 内容直接放在请求体里
type ModelingRequest struct {
	Schema  string   `json:"schema"`           // JSON 或 YAML 格式的 schema
	Format  string   `json:"format,omitempty"` // json/yaml，缺省 json
	Queries []string `json:"queries,omitempty"`
}

// ModelingTask 建模任务
type ModelingTask struct {
	ID        string          `json:"id"`
	Status    string          `json:"status"` // pending/running/completed/failed
	Progress  int             `json:"progress"`
	Message   string          `json:"message"`
	Result    *ModelingResult `json:"result,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`

	request ModelingRequest
}

// ModelingResult 建模结果
type ModelingResult struct {
	CQL             string                     `json:"cql"`
	Report          string                     `json:"report"`
	ErMermaid       string                     `json:"er_mermaid"`
	Scorecard       *analyzer.Scorecard        `json:"scorecard"`
	Recommendations []analyzer.Recommendation  `json:"recommendations"`
	Warnings        []schema.Warning           `json:"warnings,omitempty"`
	Stats           map[string]int             `json:"stats"`
}

var (
	tasks   = make(map[string]*ModelingTask)
	tasksMu sync.RWMutex
	logger  *zap.Logger
	opts    *config.Options
)

func main() {
	var err error
	logger, err = zap.NewProduction()
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	opts, err = config.Load(os.Getenv("MODELER_CONFIG"))
	if err != nil {
		logger.Fatal("加载配置失败", zap.Error(err))
	}

	http.Handle("/", http.FileServer(http.Dir("web/static")))

	http.HandleFunc("/api/analyze", handleAnalyze)
	http.HandleFunc("/api/task/", handleTaskStatus)
	http.HandleFunc("/api/ws", handleWebSocket)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	fmt.Printf("🚀 Cassandra Modeler Web Server\n")
	fmt.Printf("📡 服务地址: http://localhost:%s\n\n", port)

	logger.Info("服务启动", zap.String("port", port))
	log.Fatal(http.ListenAndServe(":"+port, nil))
}

// handleAnalyze 创建建模任务
func handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req ModelingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Schema == "" {
		http.Error(w, "schema is required", http.StatusBadRequest)
		return
	}

	task := &ModelingTask{
		ID:        uuid.NewString(),
		Status:    "pending",
		Message:   "任务已创建，等待执行...",
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
		request:   req,
	}

	tasksMu.Lock()
	tasks[task.ID] = task
	tasksMu.Unlock()

	go runModeling(task)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"task_id": task.ID,
		"status":  task.Status,
	})
}

// handleTaskStatus 查询任务状态
func handleTaskStatus(w http.ResponseWriter, r *http.Request) {
	taskID := filepath.Base(r.URL.Path)

	tasksMu.RLock()
	task, exists := tasks[taskID]
	tasksMu.RUnlock()

	if !exists {
		http.Error(w, "Task not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(task)
}

// handleWebSocket 持续推送任务状态，任务结束后关闭
func handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warn("WebSocket 升级失败", zap.Error(err))
		return
	}
	defer conn.Close()

	taskID := r.URL.Query().Get("task_id")
	if taskID == "" {
		return
	}

	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for range ticker.C {
		tasksMu.RLock()
		task, exists := tasks[taskID]
		tasksMu.RUnlock()

		if !exists {
			break
		}
		if err := conn.WriteJSON(task); err != nil {
			break
		}
		if task.Status == "completed" || task.Status == "failed" {
			break
		}
	}
}

// runModeling 执行建模任务
func runModeling(task *ModelingTask) {
	updateTask := func(status string, progress int, message string) {
		tasksMu.Lock()
		task.Status = status
		task.Progress = progress
		task.Message = message
		task.UpdatedAt = time.Now()
		tasksMu.Unlock()
	}

	req := task.request
	updateTask("running", 10, "正在解析 schema...")

	format := schema.Format(req.Format)
	if format == "" {
		format = schema.FormatJSON
	}
	model, warnings, err := schema.NewLoader(logger).Load([]byte(req.Schema), format)
	if err != nil {
		updateTask("failed", 10, fmt.Sprintf("解析 schema 失败: %v", err))
		return
	}

	updateTask("running", 30, fmt.Sprintf("发现 %d 个表，解析查询模式...", len(model.Tables)))

	var patterns []query.Pattern
	extractor := query.NewExtractor(logger)
	for _, q := range req.Queries {
		patterns = append(patterns, extractor.Extract(q))
	}

	updateTask("running", 50, "分析并转换...")
	res := analyzer.New(opts, logger).Analyze(model, patterns)
	res.Warnings = append(warnings, res.Warnings...)

	updateTask("running", 80, "生成输出...")

	g, _ := graph.Build(model, logger)
	result := &ModelingResult{
		CQL:             renderer.NewCQLRenderer(opts).Render(res.Design),
		Report:          renderer.NewMarkdownRenderer().Render(res),
		ErMermaid:       renderer.NewMermaidRenderer().Render(model, g),
		Scorecard:       res.Scorecard,
		Recommendations: res.Recommendations,
		Warnings:        res.Warnings,
		Stats: map[string]int{
			"source_tables":    len(model.Tables),
			"cassandra_tables": len(res.Design),
			"query_patterns":   len(patterns),
			"recommendations":  len(res.Recommendations),
		},
	}

	tasksMu.Lock()
	task.Result = result
	tasksMu.Unlock()

	updateTask("completed", 100, "建模完成")
	logger.Info("任务完成",
		zap.String("task_id", task.ID),
		zap.Int("tables", len(res.Design)),
		zap.Float64("overall_score", res.Scorecard.Overall))
}
