package cutting

import (
	"gorm.io/gorm"

	entity "github.com/NguyenNhatCP/cuttingsync/model/entity/cutting"
)

// FactRepository writes PartSizeOrder rows. A triple that already exists is
// left untouched: values are captured at first insert only.
type FactRepository struct {
	db *gorm.DB
}

func NewFactRepository(db *gorm.DB) *FactRepository {
	return &FactRepository{db: db}
}

// InsertOnce inserts the fact row unless a row for its (PartId, OrderId,
// SizeId) triple already exists. Returns true when a row was written.
func (r *FactRepository) InsertOnce(f entity.PartSizeOrder) (bool, error) {
	var count int64
	err := r.db.Model(&entity.PartSizeOrder{}).
		Where("PartId = ? AND OrderId = ? AND SizeId = ?", f.PartId, f.OrderId, f.SizeId).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}
	if err := r.db.Create(&f).Error; err != nil {
		return false, err
	}
	return true, nil
}
