package models

import (
	"time"
)

// Admin is an administrator account. HashedRefreshToken and UUIDJti are
// either both set (an active session) or both nil.
type Admin struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	Email              string    `gorm:"size:256;uniqueIndex;not null" json:"email"`
	Nickname           string    `gorm:"size:256;uniqueIndex;not null" json:"nickname"`
	Password           string    `gorm:"size:256;not null" json:"-"`
	HashedRefreshToken *string   `gorm:"size:256" json:"-"`
	UUIDJti            *string   `gorm:"column:uuid_jti;size:256" json:"-"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

type AdminInfo struct {
	ID       uint   `json:"id"`
	Email    string `json:"email"`
	Nickname string `json:"nickname"`
}

func NewAdmin(email, hashedPassword, nickname string) *Admin {
	return &Admin{
		Email:    email,
		Password: hashedPassword,
		Nickname: nickname,
	}
}

func (a *Admin) UpdateToken(hashedRefreshToken, jti string) {
	a.HashedRefreshToken = &hashedRefreshToken
	a.UUIDJti = &jti
}

func (a *Admin) ClearToken() {
	a.HashedRefreshToken = nil
	a.UUIDJti = nil
}

func (a *Admin) HasSession() bool {
	return a.HashedRefreshToken != nil && a.UUIDJti != nil
}

func (a *Admin) Info() AdminInfo {
	return AdminInfo{ID: a.ID, Email: a.Email, Nickname: a.Nickname}
}
