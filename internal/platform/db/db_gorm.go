package db

import (
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	advisoradapters "fx_backend/internal/feature/advisor/adapters"
)

// OpenDB はトレース永続化用のデータベース接続を開きます。
// postgresDSN が空の場合はローカルのSQLiteファイルを使用します。
// 接続できるまで最大60秒リトライし、それでも失敗したら起動を中断します。
func OpenDB(postgresDSN, sqlitePath string) *gorm.DB {
	if sqlitePath == "" {
		sqlitePath = "fx_traces.db"
	}

	// 重複run_idの検出にドライバ非依存のエラー変換が要る
	gormCfg := &gorm.Config{TranslateError: true}

	open := func() (*gorm.DB, error) {
		if postgresDSN != "" {
			return gorm.Open(postgres.Open(postgresDSN), gormCfg)
		}
		return gorm.Open(sqlite.Open(sqlitePath), gormCfg)
	}

	var (
		conn *gorm.DB
		err  error
	)

	deadline := time.Now().Add(60 * time.Second)
	for {
		conn, err = open()
		if err == nil {
			break
		}
		if time.Now().After(deadline) {
			log.Fatalf("DB connect failed after 60s: %v", err)
		}
		log.Printf("DB connect failed, retrying...: %v", err)
		time.Sleep(3 * time.Second)
	}

	if err := conn.AutoMigrate(&advisoradapters.TraceModel{}); err != nil {
		log.Fatalf("failed to migrate: %v", err)
	}

	return conn
}
