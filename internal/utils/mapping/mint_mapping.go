package mapping

import (
	"github.com/dr9911/CBDC-sub000/internal/core/domain"
	"github.com/dr9911/CBDC-sub000/internal/models"
)

// ToModelMintRequest converts a domain MintRequest to its model shape.
// The approval set is carried separately in mint_approvals rows.
func ToModelMintRequest(d domain.MintRequest) models.MintRequest {
	return models.MintRequest{
		RequestID:         d.RequestID,
		RequestedBy:       d.RequestedBy,
		Amount:            d.Amount,
		Purpose:           d.Purpose,
		DocumentDate:      d.DocumentDate,
		Status:            string(d.Status),
		RequiredApprovals: d.RequiredApprovals,
		ResolvedBy:        d.ResolvedBy,
		ResolutionReason:  d.ResolutionReason,
		AuditFields:       ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainMintRequest converts a model MintRequest plus its approver IDs to the domain shape.
func ToDomainMintRequest(m models.MintRequest, approvals []string) domain.MintRequest {
	return domain.MintRequest{
		RequestID:         m.RequestID,
		RequestedBy:       m.RequestedBy,
		Amount:            m.Amount,
		Purpose:           m.Purpose,
		DocumentDate:      m.DocumentDate,
		Status:            domain.MintStatus(m.Status),
		Approvals:         approvals,
		RequiredApprovals: m.RequiredApprovals,
		ResolvedBy:        m.ResolvedBy,
		ResolutionReason:  m.ResolutionReason,
		AuditFields:       ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainSupplyRegistry converts a model SupplyRegistry to the domain shape.
func ToDomainSupplyRegistry(m models.SupplyRegistry) domain.SupplyRegistry {
	return domain.SupplyRegistry{
		TotalMinted:       m.TotalMinted,
		Distributed:       m.Distributed,
		BankNotesIssued:   m.BankNotesIssued,
		BankNotesRedeemed: m.BankNotesRedeemed,
		LastUpdatedAt:     m.LastUpdatedAt,
		LastUpdatedBy:     m.LastUpdatedBy,
	}
}

// ToDomainNotification converts a model Notification to the domain shape.
func ToDomainNotification(m models.Notification) domain.Notification {
	return domain.Notification{
		NotificationID: m.NotificationID,
		UserID:         m.UserID,
		Type:           domain.NotificationType(m.Type),
		PayloadRef:     m.PayloadRef,
		Read:           m.Read,
		CreatedAt:      m.CreatedAt,
	}
}

// ToDomainNotificationSlice converts model Notifications to domain Notifications.
func ToDomainNotificationSlice(ms []models.Notification) []domain.Notification {
	ds := make([]domain.Notification, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainNotification(m)
	}
	return ds
}
