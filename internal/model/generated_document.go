package model

// GeneratedDocument 记录一次文档生成的产物，供下载和过期清理使用
type GeneratedDocument struct {
	BaseModel
	Filename string `gorm:"size:100;uniqueIndex;not null" json:"filename"`
	Format   string `gorm:"size:10;not null" json:"format"`
	UserID   uint   `gorm:"index" json:"userId"`
}

func (GeneratedDocument) TableName() string {
	return "generated_documents"
}
