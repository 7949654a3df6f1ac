package dashboard

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go-workforce/internal/leave"
	"go-workforce/internal/material"
	"go-workforce/internal/medical"
	"go-workforce/internal/notification"
	"go-workforce/internal/payment"
	"go-workforce/internal/workflow"
)

// Source reads the pending requests of one family. ids are employee ids for
// employee-owned families and project ids for project-scoped ones.
type Source interface {
	Family() workflow.Family
	Count(ctx context.Context, companyID int64, ids []int64) (int64, error)
	List(ctx context.Context, companyID int64, ids []int64) ([]PendingItem, error)
}

func requestedAt(v string) time.Time {
	t, _ := time.Parse(time.RFC3339, v)
	return t
}

type leaveSource struct{ svc leave.Service }

func LeaveSource(svc leave.Service) Source { return leaveSource{svc: svc} }

func (leaveSource) Family() workflow.Family { return workflow.FamilyLeave }

func (s leaveSource) Count(ctx context.Context, companyID int64, ids []int64) (int64, error) {
	return s.svc.CountPendingFor(ctx, companyID, ids)
}

func (s leaveSource) List(ctx context.Context, companyID int64, ids []int64) ([]PendingItem, error) {
	items, err := s.svc.ListPendingFor(ctx, companyID, ids)
	if err != nil {
		return nil, err
	}
	out := make([]PendingItem, 0, len(items))
	for _, r := range items {
		out = append(out, PendingItem{
			Family:          workflow.FamilyLeave,
			ID:              r.ID,
			ReferenceNumber: r.ReferenceNumber,
			EmployeeID:      r.EmployeeID,
			Summary:         fmt.Sprintf("%s %s to %s (%d days)", r.LeaveType, r.FromDate, r.ToDate, r.TotalDays),
			RequestedAt:     requestedAt(r.RequestedAt),
			Request:         r,
		})
	}
	return out, nil
}

type paymentSource struct{ svc payment.Service }

func PaymentSource(svc payment.Service) Source { return paymentSource{svc: svc} }

func (paymentSource) Family() workflow.Family { return workflow.FamilyPayment }

func (s paymentSource) Count(ctx context.Context, companyID int64, ids []int64) (int64, error) {
	return s.svc.CountPendingFor(ctx, companyID, ids)
}

func (s paymentSource) List(ctx context.Context, companyID int64, ids []int64) ([]PendingItem, error) {
	items, err := s.svc.ListPendingFor(ctx, companyID, ids)
	if err != nil {
		return nil, err
	}
	out := make([]PendingItem, 0, len(items))
	for _, r := range items {
		out = append(out, PendingItem{
			Family:          workflow.FamilyPayment,
			ID:              r.ID,
			ReferenceNumber: r.ReferenceNumber,
			EmployeeID:      r.EmployeeID,
			Summary:         r.RequestType + " " + notification.FormatAmount(r.Currency, r.Amount),
			RequestedAt:     requestedAt(r.RequestedAt),
			Request:         r,
		})
	}
	return out, nil
}

type medicalSource struct{ svc medical.Service }

func MedicalSource(svc medical.Service) Source { return medicalSource{svc: svc} }

func (medicalSource) Family() workflow.Family { return workflow.FamilyMedicalClaim }

func (s medicalSource) Count(ctx context.Context, companyID int64, ids []int64) (int64, error) {
	return s.svc.CountPendingFor(ctx, companyID, ids)
}

func (s medicalSource) List(ctx context.Context, companyID int64, ids []int64) ([]PendingItem, error) {
	items, err := s.svc.ListPendingFor(ctx, companyID, ids)
	if err != nil {
		return nil, err
	}
	out := make([]PendingItem, 0, len(items))
	for _, r := range items {
		out = append(out, PendingItem{
			Family:          workflow.FamilyMedicalClaim,
			ID:              r.ID,
			ReferenceNumber: r.ReferenceNumber,
			EmployeeID:      r.EmployeeID,
			Summary:         fmt.Sprintf("%s %s, %d receipts", r.ClaimType, notification.FormatAmount(r.Currency, r.ClaimAmount), len(r.Receipts)),
			RequestedAt:     requestedAt(r.RequestedAt),
			Request:         r,
		})
	}
	return out, nil
}

type materialSource struct {
	svc    material.Service
	family workflow.Family
}

// MaterialSource serves one of the project-scoped families.
func MaterialSource(svc material.Service, family workflow.Family) Source {
	return materialSource{svc: svc, family: family}
}

func (s materialSource) Family() workflow.Family { return s.family }

func (s materialSource) Count(ctx context.Context, companyID int64, ids []int64) (int64, error) {
	return s.svc.CountPendingFor(ctx, companyID, ids, s.family)
}

func (s materialSource) List(ctx context.Context, companyID int64, ids []int64) ([]PendingItem, error) {
	items, err := s.svc.ListPendingFor(ctx, companyID, ids, s.family)
	if err != nil {
		return nil, err
	}
	out := make([]PendingItem, 0, len(items))
	for _, r := range items {
		projectID := r.ProjectID
		out = append(out, PendingItem{
			Family:          s.family,
			ID:              r.ID,
			ReferenceNumber: r.ReferenceNumber,
			EmployeeID:      r.EmployeeID,
			ProjectID:       &projectID,
			Summary:         strings.Join(strings.Fields(fmt.Sprintf("%d %s %s", r.Quantity, r.Unit, r.ItemName)), " "),
			RequestedAt:     requestedAt(r.RequestedAt),
			Request:         r,
		})
	}
	return out, nil
}
