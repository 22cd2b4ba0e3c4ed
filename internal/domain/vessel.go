package domain

import "time"

type Vessel struct {
	ID                     int64     `json:"id"`
	Name                   string    `json:"name"`
	CheckInIntervalMinutes int32     `json:"checkInIntervalMinutes"` // 值班打卡间隔（分钟）
	CreatedAt              time.Time `json:"createdAt"`
	Version                int32     `json:"-"`
}
