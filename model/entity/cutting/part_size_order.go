package cutting

// PartSizeOrder is the fact row linking part, order and size. Rows are
// written once and never updated; quantities reflect the first sync that saw
// the triple.
type PartSizeOrder struct {
	PartId     uint    `gorm:"column:PartId;primaryKey;autoIncrement:false"`
	OrderId    uint    `gorm:"column:OrderId;primaryKey;autoIncrement:false"`
	SizeId     uint    `gorm:"column:SizeId;primaryKey;autoIncrement:false"`
	MaterialId uint    `gorm:"column:MaterialId;not null"`
	SizeQty    int     `gorm:"column:SizeQty"`
	Unit       string  `gorm:"column:Unit;type:varchar(16)"`
	UnitUsage  float64 `gorm:"column:UnitUsage"`
	TargetCut  int     `gorm:"column:TargetCut"`
}

func (PartSizeOrder) TableName() string {
	return "PartSizeOrder"
}
