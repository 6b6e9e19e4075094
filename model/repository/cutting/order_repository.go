package cutting

import (
	"errors"

	"gorm.io/gorm"

	entity "github.com/NguyenNhatCP/cuttingsync/model/entity/cutting"
)

// OrderRepository resolves ProductOrder rows by the (Factory, SO, PO) triple.
type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// OrderAttributes carries the descriptive columns written when an order row
// is first created. They are never rewritten by later syncs.
type OrderAttributes struct {
	MasterWorkOrder string
	LastNo          string
	Process         string
}

// Resolve returns the OrderID for (factory, so, po), inserting a new row
// referencing productID on first sight.
func (r *OrderRepository) Resolve(productID uint, factory, so, po string, attrs OrderAttributes) (uint, error) {
	var o entity.ProductOrder
	err := r.db.Where("Factory = ? AND SO = ? AND PO = ?", factory, so, po).Take(&o).Error
	if err == nil {
		return o.OrderID, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, err
	}
	o = entity.ProductOrder{
		ProductId:       productID,
		Factory:         factory,
		SO:              so,
		PO:              po,
		MasterWorkOrder: attrs.MasterWorkOrder,
		LastNo:          attrs.LastNo,
		Process:         attrs.Process,
	}
	if err := r.db.Create(&o).Error; err != nil {
		return 0, err
	}
	return o.OrderID, nil
}
