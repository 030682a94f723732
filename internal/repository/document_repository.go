package repository

import (
	"time"

	"study_buddy_backend/internal/model"

	"gorm.io/gorm"
)

type DocumentRepository struct {
	DB *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) *DocumentRepository {
	return &DocumentRepository{DB: db}
}

func (r *DocumentRepository) Create(doc *model.GeneratedDocument) error {
	return r.DB.Create(doc).Error
}

func (r *DocumentRepository) FindByFilename(filename string) (*model.GeneratedDocument, error) {
	var doc model.GeneratedDocument
	err := r.DB.Where("filename = ?", filename).First(&doc).Error
	return &doc, err
}

// FindOlderThan 返回生成时间早于 cutoff 的文档记录，供清理任务使用
func (r *DocumentRepository) FindOlderThan(cutoff time.Time) ([]model.GeneratedDocument, error) {
	var docs []model.GeneratedDocument
	err := r.DB.Where("created_at < ?", cutoff).Find(&docs).Error
	return docs, err
}

func (r *DocumentRepository) Delete(doc *model.GeneratedDocument) error {
	return r.DB.Unscoped().Delete(doc).Error
}
