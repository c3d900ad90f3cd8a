// nurseopt 是排班优化核心的命令行入口：从 stdin 或文件读取一份 JSON 请求
// （optimize/reoptimize/recheck 三选一），把响应 JSON 写到 stdout。核心本身
// 不提供 HTTP 传输层（见 SPEC_FULL.md §6），这个 CLI 是"host 之上的 JSON over
// HTTP surface"的最简替身：把同样的三个操作暴露成一次性的进程调用。
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/nurseopt/core/internal/audit"
	"github.com/nurseopt/core/internal/config"
	"github.com/nurseopt/core/pkg/controller"
	apperrors "github.com/nurseopt/core/pkg/errors"
	"github.com/nurseopt/core/pkg/logger"
	"github.com/nurseopt/core/pkg/model"
	"github.com/nurseopt/core/pkg/rulecompiler"
)

// 构建信息，通过 ldflags 注入
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// instanceRequest 是三个操作共用的建模输入片段，直接对应 rulecompiler.Request
type instanceRequest struct {
	Year     int                     `json:"year"`
	Month    int                     `json:"month"`
	Nurses   []model.NurseRecord     `json:"nurses"`
	Demand   []model.DemandOverride  `json:"demand_overrides,omitempty"`
	Defaults model.DemandDefaults    `json:"defaults"`
	Policy   model.Policy            `json:"policy"`
}

// optimizeRequest 对应 spec §6 的 optimize 请求体
type optimizeRequest struct {
	instanceRequest
	Alternatives int `json:"alternatives"`
}

// reoptimizeRequest 对应 spec §6 的 reoptimize 请求体
type reoptimizeRequest struct {
	instanceRequest
	Base         []model.AssignmentEntry `json:"base_assignment"`
	Pinned       []model.AssignmentEntry `json:"pinned_cells"`
	Alternatives int                     `json:"alternatives"`
}

// recheckRequest 对应 spec §6 的 recheck 请求体
type recheckRequest struct {
	instanceRequest
	Assignment []model.AssignmentEntry `json:"assignment"`
}

type outcomeResponse struct {
	Status      string                  `json:"status"`
	Solutions   []model.Solution        `json:"solutions,omitempty"`
	Infeasible  *model.InfeasibleReport `json:"infeasible,omitempty"`
}

func main() {
	op := flag.String("op", "optimize", "操作类型: optimize | reoptimize | recheck")
	inputPath := flag.String("in", "-", "请求 JSON 文件路径，'-' 表示标准输入")
	outputPath := flag.String("out", "-", "响应 JSON 输出路径，'-' 表示标准输出")
	showVersion := flag.Bool("version", false, "打印版本信息并退出")
	flag.Parse()

	if *showVersion {
		fmt.Printf("nurseopt %s (build %s, commit %s)\n", Version, BuildTime, GitCommit)
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "加载配置失败:", err)
		os.Exit(1)
	}
	logger.Init(logger.Config{Level: cfg.App.LogLevel, Format: "console"})

	recorder, err := audit.New(cfg.Audit)
	if err != nil {
		logger.Warn().Err(err).Msg("审计记录器初始化失败，将以不记录方式继续运行")
		recorder = nil
	}
	if recorder != nil {
		defer recorder.Close()
	}

	var auditRecorder controller.AuditRecorder
	if recorder != nil {
		auditRecorder = recorder
	}
	ctl := controller.New(auditRecorder)

	if err := run(ctl, *op, *inputPath, *outputPath); err != nil {
		logger.Error().Err(err).Msg("请求处理失败")
		writeError(*outputPath, err)
		os.Exit(1)
	}
}

func readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

func writeOutput(path string, payload any) error {
	blob, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("序列化响应失败: %w", err)
	}
	if path == "-" {
		_, err := os.Stdout.Write(append(blob, '\n'))
		return err
	}
	return os.WriteFile(path, blob, 0o644)
}

func writeError(path string, err error) {
	_ = writeOutput(path, map[string]any{
		"status":  "ERROR",
		"code":    apperrors.GetCode(err),
		"message": err.Error(),
	})
}

func compileInstance(r instanceRequest) (*model.ProblemInstance, error) {
	return rulecompiler.Compile(rulecompiler.Request{
		Year:     r.Year,
		Month:    r.Month,
		Nurses:   r.Nurses,
		Demand:   r.Demand,
		Defaults: r.Defaults,
		Policy:   r.Policy,
	})
}

func outcomeToResponse(o *controller.Outcome) *outcomeResponse {
	if o.Infeasible != nil {
		return &outcomeResponse{Status: "INFEASIBLE", Infeasible: o.Infeasible}
	}
	return &outcomeResponse{Status: "OK", Solutions: o.Solutions}
}

func handleOptimize(ctx context.Context, ctl *controller.Controller, raw []byte) (any, error) {
	var req optimizeRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return nil, apperrors.InvalidInput("body", "无法解析 optimize 请求: "+err.Error())
	}
	inst, err := compileInstance(req.instanceRequest)
	if err != nil {
		return nil, err
	}
	k := req.Alternatives
	if k < 1 {
		k = 1
	}
	outcome, err := ctl.Optimize(ctx, inst, k)
	if err != nil {
		return nil, err
	}
	return outcomeToResponse(outcome), nil
}

func handleReoptimize(ctx context.Context, ctl *controller.Controller, raw []byte) (any, error) {
	var req reoptimizeRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return nil, apperrors.InvalidInput("body", "无法解析 reoptimize 请求: "+err.Error())
	}
	inst, err := compileInstance(req.instanceRequest)
	if err != nil {
		return nil, err
	}
	base := model.FromEntries(inst, req.Base)
	k := req.Alternatives
	if k < 1 {
		k = 1
	}
	outcome, err := ctl.Reoptimize(ctx, base, req.Pinned, inst, k)
	if err != nil {
		return nil, err
	}
	return outcomeToResponse(outcome), nil
}

func handleRecheck(_ context.Context, ctl *controller.Controller, raw []byte) (any, error) {
	var req recheckRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return nil, apperrors.InvalidInput("body", "无法解析 recheck 请求: "+err.Error())
	}
	inst, err := compileInstance(req.instanceRequest)
	if err != nil {
		return nil, err
	}
	a := model.FromEntries(inst, req.Assignment)
	return ctl.Recheck(inst, a), nil
}

type handlerFunc func(ctx context.Context, ctl *controller.Controller, raw []byte) (any, error)

var handlers = map[string]handlerFunc{
	"optimize":   handleOptimize,
	"reoptimize": handleReoptimize,
	"recheck":    handleRecheck,
}

func run(ctl *controller.Controller, op, inputPath, outputPath string) error {
	raw, err := readInput(inputPath)
	if err != nil {
		return fmt.Errorf("读取请求失败: %w", err)
	}

	handler, ok := handlers[op]
	if !ok {
		return apperrors.InvalidInput("op", fmt.Sprintf("未知操作: %s", op))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	response, err := handler(ctx, ctl, raw)
	if err != nil {
		return err
	}
	return writeOutput(outputPath, response)
}
