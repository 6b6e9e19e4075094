package cutting

type Material struct {
	MaterialID   uint   `gorm:"column:MaterialID;primaryKey;autoIncrement"`
	MaterialCode string `gorm:"column:MaterialCode;type:varchar(64);uniqueIndex"`
	MaterialName string `gorm:"column:MaterialName;type:varchar(128)"`
}

func (Material) TableName() string {
	return "Material"
}
