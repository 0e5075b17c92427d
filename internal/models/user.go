package models

import "gorm.io/datatypes"

type User struct {
	BaseModel
	Name         string                      `json:"name"`
	Email        string                      `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string                      `gorm:"not null" json:"-"`
	Role         UserRole                    `gorm:"type:varchar(20);not null" json:"role"`
	Permissions  datatypes.JSONSlice[string] `json:"permissions,omitempty"`
}

func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	cp := *u
	cp.Permissions = cloneStrings(u.Permissions)
	return &cp
}
