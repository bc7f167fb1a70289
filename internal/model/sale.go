package model

import "time"

// Sale is one line item of a sale batch. ProductName is a snapshot taken at sale time,
// so history survives later product edits and deletes.
type Sale struct {
	SaleID          uint      `gorm:"primaryKey;column:sale_id" json:"saleId"`
	ProductName     string    `gorm:"type:varchar(255);not null" json:"productName"`
	QuantitySold    int       `gorm:"not null" json:"quantitySold"`
	TotalBillAmount float64   `gorm:"not null" json:"totalBillAmount"`
	ProfitEarned    float64   `gorm:"not null" json:"profitEarned"`
	Timestamp       time.Time `gorm:"column:sold_at;not null;index" json:"timestamp"`
}
