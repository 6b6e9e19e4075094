package sync

import (
	"fmt"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/NguyenNhatCP/cuttingsync/core/auditlog"
	"github.com/NguyenNhatCP/cuttingsync/core/logging"
	"github.com/NguyenNhatCP/cuttingsync/core/metrics"
	cuttingEntity "github.com/NguyenNhatCP/cuttingsync/model/entity/cutting"
	cuttingRepo "github.com/NguyenNhatCP/cuttingsync/model/repository/cutting"
)

// BatchInserter drives the per-record resolution pipeline for one chunk of
// records. A failure in any record is logged with its identifying fields and
// skipped; the rest of the chunk proceeds.
type BatchInserter struct {
	dims   *cuttingRepo.DimensionRepository
	orders *cuttingRepo.OrderRepository
	facts  *cuttingRepo.FactRepository
	audit  *auditlog.Logger
	log    zerolog.Logger
}

func NewBatchInserter(db *gorm.DB, audit *auditlog.Logger) *BatchInserter {
	return &BatchInserter{
		dims:   cuttingRepo.NewDimensionRepository(db),
		orders: cuttingRepo.NewOrderRepository(db),
		facts:  cuttingRepo.NewFactRepository(db),
		audit:  audit,
		log:    logging.NewLogger("sync.inserter"),
	}
}

// InsertChunk processes records in their original order and returns the
// number of records that succeeded and the number skipped on error.
func (b *BatchInserter) InsertChunk(records []Record) (inserted, failed int) {
	for _, rec := range records {
		if err := b.insertRecord(rec); err != nil {
			failed++
			metrics.RecordFailures.Inc()
			b.audit.Error("Insert failed for ART=%s, Part=%s, Size=%s: %v", rec.ART, rec.PartName, rec.Size, err)
			b.log.Warn().Err(err).Str("art", rec.ART).Str("part", rec.PartName).Str("size", rec.Size).Msg("record skipped")
			continue
		}
		inserted++
		metrics.RecordsInserted.Inc()
		b.audit.Success("Inserted: ART=%s, Part=%s, Size=%s", rec.ART, rec.PartName, rec.Size)
	}
	return inserted, failed
}

// insertRecord resolves the record's dimensions in the fixed order
// Product → Material → Order → Size → Part, then writes the fact row.
func (b *BatchInserter) insertRecord(rec Record) error {
	productID, err := b.dims.ResolveProduct(rec.ART, rec.Model)
	if err != nil {
		return fmt.Errorf("resolve product: %w", err)
	}
	materialID, err := b.dims.ResolveMaterial(rec.MaterialsID, rec.MaterialsName)
	if err != nil {
		return fmt.Errorf("resolve material: %w", err)
	}
	orderID, err := b.orders.Resolve(productID, rec.Factory, rec.SO, rec.PO, cuttingRepo.OrderAttributes{
		MasterWorkOrder: rec.MasterWorkOrder,
		LastNo:          rec.LastNo,
		Process:         rec.Process,
	})
	if err != nil {
		return fmt.Errorf("resolve order: %w", err)
	}
	sizeID, err := b.dims.ResolveSize(rec.Size)
	if err != nil {
		return fmt.Errorf("resolve size: %w", err)
	}
	partID, err := b.dims.ResolvePart(rec.PartID, rec.PartName)
	if err != nil {
		return fmt.Errorf("resolve part: %w", err)
	}

	_, err = b.facts.InsertOnce(cuttingEntity.PartSizeOrder{
		PartId:     partID,
		OrderId:    orderID,
		SizeId:     sizeID,
		MaterialId: materialID,
		SizeQty:    rec.SizeQty,
		Unit:       rec.Unit,
		// UnitUsage mirrors TargetCut; the source's own usage field has never
		// been populated upstream.
		UnitUsage: rec.TargetCut,
		TargetCut: int(rec.TargetCut),
	})
	if err != nil {
		return fmt.Errorf("insert fact: %w", err)
	}
	return nil
}

// chunkRecords splits records into contiguous slices of at most size,
// preserving order.
func chunkRecords(records []Record, size int) [][]Record {
	if size <= 0 || len(records) == 0 {
		return nil
	}
	chunks := make([][]Record, 0, (len(records)+size-1)/size)
	for start := 0; start < len(records); start += size {
		end := start + size
		if end > len(records) {
			end = len(records)
		}
		chunks = append(chunks, records[start:end])
	}
	return chunks
}
