package cutting

import (
	"errors"

	"gorm.io/gorm"

	"github.com/NguyenNhatCP/cuttingsync/core/cache"
	entity "github.com/NguyenNhatCP/cuttingsync/model/entity/cutting"
)

// DimensionRepository resolves reference rows by natural key, inserting on
// first sight and returning the surrogate id either way. Resolved ids are
// cached for the lifetime of the repository, which matches one sync run;
// no row is ever updated or deleted.
type DimensionRepository struct {
	db  *gorm.DB
	ids *cache.IDCache
}

func NewDimensionRepository(db *gorm.DB) *DimensionRepository {
	return &DimensionRepository{db: db, ids: cache.NewIDCache()}
}

// ResolveProduct returns the ProductID for an ART code.
func (r *DimensionRepository) ResolveProduct(art, model string) (uint, error) {
	key := cache.Key("product", art)
	if id, ok := r.ids.Get(key); ok {
		return id, nil
	}
	var p entity.Product
	err := r.db.Where("ART = ?", art).Take(&p).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, err
		}
		p = entity.Product{ART: art, Model: model}
		if err := r.db.Create(&p).Error; err != nil {
			return 0, err
		}
	}
	r.ids.Put(key, p.ProductID)
	return p.ProductID, nil
}

// ResolveMaterial returns the MaterialID for a material code.
func (r *DimensionRepository) ResolveMaterial(code, name string) (uint, error) {
	key := cache.Key("material", code)
	if id, ok := r.ids.Get(key); ok {
		return id, nil
	}
	var m entity.Material
	err := r.db.Where("MaterialCode = ?", code).Take(&m).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, err
		}
		m = entity.Material{MaterialCode: code, MaterialName: name}
		if err := r.db.Create(&m).Error; err != nil {
			return 0, err
		}
	}
	r.ids.Put(key, m.MaterialID)
	return m.MaterialID, nil
}

// ResolveSize returns the SizeID for a size label.
func (r *DimensionRepository) ResolveSize(label string) (uint, error) {
	key := cache.Key("size", label)
	if id, ok := r.ids.Get(key); ok {
		return id, nil
	}
	var s entity.Size
	err := r.db.Where("Size = ?", label).Take(&s).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, err
		}
		s = entity.Size{Size: label}
		if err := r.db.Create(&s).Error; err != nil {
			return 0, err
		}
	}
	r.ids.Put(key, s.SizeID)
	return s.SizeID, nil
}

// ResolvePart returns the PartID for a (code, name) pair.
func (r *DimensionRepository) ResolvePart(code, name string) (uint, error) {
	key := cache.Key("part", code, name)
	if id, ok := r.ids.Get(key); ok {
		return id, nil
	}
	var p entity.Part
	err := r.db.Where("PartCode = ? AND PartName = ?", code, name).Take(&p).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, err
		}
		p = entity.Part{PartCode: code, PartName: name}
		if err := r.db.Create(&p).Error; err != nil {
			return 0, err
		}
	}
	r.ids.Put(key, p.PartID)
	return p.PartID, nil
}
