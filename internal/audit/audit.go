// Package audit 提供可选的求解审计记录器：core 本身不持有持久化状态
// （spec §6 "Persisted artefact layout"），但宿主可以注入一个 Recorder 把
// 每次 optimize/reoptimize 调用的结果落到 Postgres，供事后审计与容量规划。
package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"github.com/nurseopt/core/internal/config"
	"github.com/nurseopt/core/pkg/logger"
)

// Recorder 把一次 optimize/reoptimize 调用的结果写入 solve_audit 表，
// 实现 pkg/controller.AuditRecorder
type Recorder struct {
	db *sql.DB
}

// New 建立数据库连接并确保 solve_audit 表存在；cfg.Enabled=false 时返回
// (nil, nil)，调用方应把 nil Recorder 当作"不记录"处理
func New(cfg config.AuditConfig) (*Recorder, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("打开审计数据库连接失败: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("审计数据库连接测试失败: %w", err)
	}

	if err := ensureSchema(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("初始化 solve_audit 表失败: %w", err)
	}

	logger.Info().Str("host", cfg.Host).Str("database", cfg.Name).Msg("审计数据库连接成功")
	return &Recorder{db: db}, nil
}

func ensureSchema(ctx context.Context, db *sql.DB) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS solve_audit (
	id           UUID PRIMARY KEY,
	year         INT NOT NULL,
	month        INT NOT NULL,
	status       TEXT NOT NULL,
	plan_count   INT NOT NULL,
	recorded_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_solve_audit_period ON solve_audit (year, month);
`
	_, err := db.ExecContext(ctx, ddl)
	return err
}

// RecordSolve 实现 pkg/controller.AuditRecorder；每条记录分配一个独立的
// UUID 主键（而非自增 id），使多个 core 实例并发写入时无需协调序列。
// 失败时只记录日志，从不让审计写入拖垮求解调用本身。
func (r *Recorder) RecordSolve(ctx context.Context, year, month int, status string, planCount int) {
	if r == nil || r.db == nil {
		return
	}
	id := uuid.New()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO solve_audit (id, year, month, status, plan_count) VALUES ($1, $2, $3, $4, $5)`,
		id, year, month, status, planCount,
	)
	if err != nil {
		logger.Warn().Err(err).Str("run_id", id.String()).Int("year", year).Int("month", month).Msg("写入求解审计记录失败")
	}
}

// RecordSolveDetail 写入与 RecordSolve 相同列的一行记录；summary 会被序列化为
// JSON，但不写入数据库，只在插入失败时随警告日志输出。不属于 AuditRecorder
// 接口。返回分配给该条记录的 run id，便于调用方在日志中关联。
func (r *Recorder) RecordSolveDetail(ctx context.Context, year, month int, status string, planCount int, summary any) uuid.UUID {
	id := uuid.New()
	if r == nil || r.db == nil {
		return id
	}
	blob, err := json.Marshal(summary)
	if err != nil {
		logger.Warn().Err(err).Str("run_id", id.String()).Msg("序列化求解审计摘要失败")
		return id
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO solve_audit (id, year, month, status, plan_count) VALUES ($1, $2, $3, $4, $5)`,
		id, year, month, status, planCount,
	)
	if err != nil {
		logger.Warn().Err(err).Str("run_id", id.String()).RawJSON("summary", blob).Msg("写入求解审计详情失败")
	}
	return id
}

// Close 关闭底层数据库连接
func (r *Recorder) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}
