package cutting

// ProductOrder is keyed by the (Factory, SO, PO) triple and always points at
// an existing Product row.
type ProductOrder struct {
	OrderID         uint   `gorm:"column:OrderID;primaryKey;autoIncrement"`
	ProductId       uint   `gorm:"column:ProductId;not null"`
	Factory         string `gorm:"column:Factory;type:varchar(32);uniqueIndex:idx_order_factory_so_po"`
	SO              string `gorm:"column:SO;type:varchar(64);uniqueIndex:idx_order_factory_so_po"`
	PO              string `gorm:"column:PO;type:varchar(64);uniqueIndex:idx_order_factory_so_po"`
	MasterWorkOrder string `gorm:"column:MasterWorkOrder;type:varchar(64)"`
	LastNo          string `gorm:"column:LastNo;type:varchar(64)"`
	Process         string `gorm:"column:Process;type:varchar(64)"`
}

func (ProductOrder) TableName() string {
	return "ProductOrder"
}
