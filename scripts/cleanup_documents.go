// 手动触发过期文档清理脚本
//
// 清理任务已集成到主应用的后台定时任务中（按 documents.cleanup_minutes 周期执行）。
// 此脚本仅用于手动触发，例如调小保留时长后想立即清理存量文件。
//
// 用法: go run scripts/cleanup_documents.go

package main

import (
	"context"
	"log"
	"time"

	"study_buddy_backend/internal/config"
	"study_buddy_backend/internal/repository"
	"study_buddy_backend/internal/service"
	"study_buddy_backend/pkg/database"
	"study_buddy_backend/pkg/logger"
)

func main() {
	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("无法读取配置文件: %v", err)
	}

	logger.InitLogger(cfg)

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		log.Fatalf("数据库连接失败: %v", err)
	}

	storage := service.NewStorageService(cfg)
	docs := repository.NewDocumentRepository(db)
	documentService := service.NewDocumentService(docs, storage, time.Duration(cfg.Documents.MaxAgeHours)*time.Hour)

	log.Println("手动触发过期文档清理...")
	if err := documentService.CleanupExpired(context.Background()); err != nil {
		log.Fatalf("清理失败: %v", err)
	}
	log.Println("完成！")
}
