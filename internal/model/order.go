package model

import "time"

type Order struct {
	BaseModel
	OrderDate time.Time `gorm:"not null" json:"orderDate"`
	Quantity  int       `gorm:"not null" json:"quantity"`

	ProductID uint     `gorm:"not null;index" json:"productId"`
	Product   *Product `gorm:"constraint:OnDelete:CASCADE;" json:"product,omitempty"`
	UserID    uint     `gorm:"not null;index" json:"userId"`
	User      *User    `gorm:"constraint:OnDelete:CASCADE;" json:"user,omitempty"`
}
