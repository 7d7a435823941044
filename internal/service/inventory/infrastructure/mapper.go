package infrastructure

import "tienda/internal/service/inventory/domain"

// toDomainStockRecord 将数据库模型转换为领域模型
func toDomainStockRecord(model *StockRecordModel) *domain.StockRecord {
	if model == nil {
		return nil
	}
	return &domain.StockRecord{
		ID:        model.ID,
		ProductID: model.ProductID,
		Quantity:  model.Quantity,
	}
}

// fromDomainStockRecord 将领域模型转换为数据库模型
func fromDomainStockRecord(record *domain.StockRecord) *StockRecordModel {
	if record == nil {
		return nil
	}
	return &StockRecordModel{
		ID:        record.ID,
		ProductID: record.ProductID,
		Quantity:  record.Quantity,
	}
}
