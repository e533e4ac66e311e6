package models

import (
	"time"

	"gorm.io/datatypes"
)

type AdminAction string

const (
	ActionCreate     AdminAction = "create"
	ActionBulkCreate AdminAction = "bulk_create"
	ActionUpdate     AdminAction = "update"
	ActionDelete     AdminAction = "delete"
)

// AdminLog records one politician write. Nickname and PoliticianName are
// snapshots so the entry stays readable after either row changes.
type AdminLog struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	AdminID        uint           `gorm:"index;not null" json:"admin_id"`
	Admin          *Admin         `gorm:"foreignKey:AdminID" json:"admin,omitempty"`
	Nickname       string         `gorm:"size:256;not null" json:"nickname"`
	PoliticianID   *uint          `gorm:"index" json:"politician_id"`
	PoliticianName *string        `gorm:"size:64" json:"politician_name"`
	Action         AdminAction    `gorm:"size:20;not null" json:"action"`
	Detail         datatypes.JSON `json:"detail,omitempty"`
	CreatedAt      time.Time      `gorm:"index" json:"created_at"`
}
