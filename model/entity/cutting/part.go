package cutting

// Part is keyed by (PartCode, PartName); the upstream planning system reuses
// part codes across differently named parts.
type Part struct {
	PartID   uint   `gorm:"column:PartID;primaryKey;autoIncrement"`
	PartCode string `gorm:"column:PartCode;type:varchar(64);uniqueIndex:idx_part_code_name"`
	PartName string `gorm:"column:PartName;type:varchar(128);uniqueIndex:idx_part_code_name"`
}

func (Part) TableName() string {
	return "Part"
}
