package model

import (
	"time"
)

// swagger:model User
type User struct {
	BaseModel
	Username string `gorm:"size:100;uniqueIndex;not null" json:"username"`
	Name     string `gorm:"size:100" json:"name"`
	Email    string `gorm:"size:100;uniqueIndex;not null" json:"email"`
	// Password 为空表示仅通过联合登录创建的账号
	Password    string    `gorm:"size:100" json:"-"`
	GoogleID    string    `gorm:"size:100;index" json:"-"`
	MicrosoftID string    `gorm:"size:100;index" json:"-"`
	Language    string    `gorm:"size:10;default:'en'" json:"language"`
	LastLogin   time.Time `gorm:"default:CURRENT_TIMESTAMP(3)" json:"lastLogin"`
}

func (User) TableName() string {
	return "users"
}
