package cutting

type Size struct {
	SizeID uint   `gorm:"column:SizeID;primaryKey;autoIncrement"`
	Size   string `gorm:"column:Size;type:varchar(32);uniqueIndex"`
}

func (Size) TableName() string {
	return "Size"
}
