package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/notsura/agro/config"
	"github.com/notsura/agro/pkg/database"
	applogger "github.com/notsura/agro/pkg/logger"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "agroctl",
	Short: "AgroAssist maintenance CLI",
	Long:  "agroctl runs schema migrations, loads the built-in crop catalog and scores soil/season/water combinations offline.",
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
	SilenceUsage: true,
}

// Execute 执行根命令
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ./config/config.yaml)")

	rootCmd.AddCommand(migrateCmd, seedCmd, scoreCmd)
}

// env 子命令共用的运行环境
type env struct {
	cfg    *config.Config
	logger *zap.Logger
	db     *gorm.DB
}

func (e *env) Close() {
	if sqlDB, err := e.db.DB(); err == nil {
		sqlDB.Close()
	}
	e.logger.Sync()
}

func bootstrap() (*env, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}

	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		return nil, err
	}

	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		return nil, err
	}

	return &env{cfg: cfg, logger: logger, db: db}, nil
}
