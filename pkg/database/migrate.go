package database

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
)

// 排班库表结构迁移脚本（users/departments/shift_types/agent_shifts/
// break_schedule_rules/break_schedule_entries）
//
//go:embed migrations/*.sql
var migrationsFS embed.FS

// RunMigrations 将排班库表结构迁移到最新版本
// 幂等：已在最新版本时为空操作
func RunMigrations(db *sql.DB, logger *zap.Logger) error {
	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("加载迁移文件失败: %w", err)
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("创建迁移驱动失败: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return fmt.Errorf("初始化迁移实例失败: %w", err)
	}

	from := schemaVersionOf(m)

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("执行迁移失败: %w", err)
	}

	version, dirty, _ := m.Version()
	if dirty {
		logger.Warn("排班库迁移处于 dirty 状态，需人工介入",
			zap.Uint("schema_version", version))
		return nil
	}
	logger.Info("排班库迁移完成",
		zap.String("from", from),
		zap.Uint("schema_version", version))
	return nil
}

// schemaVersionOf 读取当前版本号用于日志，空库返回 "none"
func schemaVersionOf(m *migrate.Migrate) string {
	version, _, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return "none"
	}
	return fmt.Sprintf("%d", version)
}
