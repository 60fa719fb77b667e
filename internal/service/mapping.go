package service

import (
	"fertilabel/internal/dto"
	"fertilabel/internal/model"
)

func toQueueItemResponse(it model.QueueItem) dto.QueueItemResponse {
	return dto.QueueItemResponse{
		ID:                   it.ID.String(),
		Order:                it.Order,
		Placa:                it.Placa,
		Carrier:              it.Carrier,
		ProductName:          it.ProductName,
		Quantity:             it.Quantity,
		OrderNumber:          it.OrderNumber,
		Status:               string(it.Status),
		LabelIssued:          deref(it.LabelIssued),
		TermIssued:           deref(it.TermIssued),
		SampleLabelDelivered: deref(it.SampleLabelDelivered),
		ImportedAt:           it.ImportedAt,
	}
}

func toQueueItemResponses(items []model.QueueItem) []dto.QueueItemResponse {
	out := make([]dto.QueueItemResponse, len(items))
	for i, it := range items {
		out[i] = toQueueItemResponse(it)
	}
	return out
}

func toProductResponse(p model.Product) dto.ProductResponse {
	return dto.ProductResponse{
		ID:          p.ID,
		Code:        p.Code,
		Name:        p.Name,
		ClientName:  p.ClientName,
		MapaReg:     p.MapaReg,
		Application: p.Application,
		Category:    p.Category,
		Nature:      p.Nature,
		Composition: dto.CompositionDTO(p.Composition),
		EpBa:        p.EpBa,
	}
}

func toRecordResponse(r model.GenerationRecord) dto.GenerationRecordResponse {
	return dto.GenerationRecordResponse{
		ID:                   r.ID.String(),
		Timestamp:            r.Timestamp,
		ProductName:          r.ProductName,
		ProductCode:          r.ProductCode,
		ProductNature:        r.ProductNature,
		ClientName:           r.ClientName,
		Lote:                 r.Lote,
		Placa:                r.Placa,
		Tonelada:             r.Tonelada,
		LabelsQuantity:       r.LabelsQuantity,
		TermGenerated:        r.TermGenerated,
		LabelGenerated:       r.LabelGenerated,
		DriverName:           r.DriverName,
		DriverCPF:            r.DriverCPF,
		Carrier:              r.Carrier,
		SealsQuantity:        r.SealsQuantity,
		Date:                 r.Date,
		Time:                 r.Time,
		SampleLabelDelivered: r.SampleLabelDelivered,
		OrderNumber:          r.OrderNumber,
	}
}

func sessionFromDTO(s dto.LabelSessionDTO) model.LabelSession {
	return model.LabelSession(s)
}

func deref(b *bool) bool { return b != nil && *b }

func ptr[T any](v T) *T { return &v }
