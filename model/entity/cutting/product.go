package cutting

type Product struct {
	ProductID uint   `gorm:"column:ProductID;primaryKey;autoIncrement"`
	ART       string `gorm:"column:ART;type:varchar(64);uniqueIndex"`
	Model     string `gorm:"column:Model;type:varchar(128)"`
}

func (Product) TableName() string {
	return "Product"
}
