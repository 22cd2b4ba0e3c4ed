package domain

import (
	"time"
)

type Role string

const (
	RoleCrew      Role = "普通船员"
	RoleFirstMate Role = "大副"
	RoleCaptain   Role = "船长"
)

type User struct {
	ID               int64     `json:"id"`
	Username         string    `json:"username"`
	PasswordHash     string    `json:"-"`
	FullName         string    `json:"fullName"`
	Email            string    `json:"email"`
	Role             Role      `json:"role"`
	IsActive         bool      `json:"isActive"`
	Reminder1Minutes int32     `json:"reminder1Minutes"` // 第一段提前提醒时间（分钟），0 表示关闭
	Reminder2Minutes int32     `json:"reminder2Minutes"` // 第二段提前提醒时间（分钟），0 表示关闭
	CreatedAt        time.Time `json:"createdAt"`
	Version          int32     `json:"-"`
}
