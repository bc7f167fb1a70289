package model

type Supplier struct {
	BaseModel
	Name          string `gorm:"type:varchar(255);not null" json:"name"`
	ContactPerson string `gorm:"type:varchar(255);not null" json:"contactPerson"`
	Email         string `gorm:"type:varchar(255)" json:"email"`
	Phone         string `gorm:"type:varchar(50);not null" json:"phone"`
	Address       string `gorm:"type:text" json:"address"`

	Products []Product `json:"-"`
}
