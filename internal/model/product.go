package model

// Product is a sellable item. Price is the cost price; SellingPrice is what a sale bills.
type Product struct {
	BaseModel
	Name         string  `gorm:"type:varchar(255);not null" json:"name"`
	Description  string  `gorm:"type:text" json:"description"`
	Price        float64 `gorm:"not null;default:0" json:"price"`
	SellingPrice float64 `gorm:"not null;default:0" json:"sellingPrice"`
	Stock        int     `gorm:"not null;default:0;check:stock >= 0" json:"stock"`

	SupplierID *uint     `gorm:"index" json:"supplierId,omitempty"`
	Supplier   *Supplier `gorm:"constraint:OnDelete:CASCADE;" json:"supplier,omitempty"`
}

// ProductSaleInfo is the trimmed view used by point-of-sale screens
type ProductSaleInfo struct {
	ID           uint    `json:"id"`
	Name         string  `json:"name"`
	SellingPrice float64 `json:"sellingPrice"`
	Price        float64 `json:"price"`
	Quantity     int     `json:"quantity"`
}

func (p *Product) ToSaleInfo() ProductSaleInfo {
	return ProductSaleInfo{
		ID:           p.ID,
		Name:         p.Name,
		SellingPrice: p.SellingPrice,
		Price:        p.Price,
		Quantity:     p.Stock,
	}
}
