package payment_test

import (
	"context"
	"testing"
	"time"

	"go-workforce/internal/approval/approvaltest"
	"go-workforce/internal/employee"
	"go-workforce/internal/notification"
	"go-workforce/internal/payment"
	paymenterrors "go-workforce/internal/payment/errors"
	paymentMock "go-workforce/internal/payment/mock"
	"go-workforce/internal/shared/counter"
	counterMock "go-workforce/internal/shared/counter/mock"
	"go-workforce/internal/team"
	"go-workforce/internal/workflow"
	workflowerrors "go-workforce/internal/workflow/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"
)

const (
	companyID       int64 = 1
	workerPrincipal int64 = 11
	superPrincipal  int64 = 55
	workerID        int64 = 107
	supervisorID    int64 = 500
)

var fixedNow = time.Date(2026, 2, 20, 9, 0, 0, 0, time.UTC)

type serviceDeps struct {
	sqlMock  sqlmock.Sqlmock
	repo     *paymentMock.MockRepository
	counter  *counterMock.MockRepository
	notifier *approvaltest.Notifier
	service  payment.Service
}

func setupServiceTest(t *testing.T) *serviceDeps {
	t.Helper()
	ctrl := gomock.NewController(t)

	db, sqlMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	identity := approvaltest.Identity{
		workerPrincipal: {ID: workerID, CompanyID: companyID, FullName: "Ravi Kumar", Status: employee.StatusActive},
		superPrincipal:  {ID: supervisorID, CompanyID: companyID, FullName: "Tan Wei", Status: employee.StatusActive},
	}
	members := approvaltest.Members{
		supervisorID: team.NewMembership([]int64{1003}, []int64{workerID}),
	}
	notifier := &approvaltest.Notifier{}
	repo := paymentMock.NewMockRepository(ctrl)
	counterRepo := counterMock.NewMockRepository(ctrl)

	return &serviceDeps{
		sqlMock:  sqlMock,
		repo:     repo,
		counter:  counterRepo,
		notifier: notifier,
		service:  payment.NewService(db, repo, counterRepo, identity, approvaltest.Engine(members, notifier, fixedNow)),
	}
}

func pendingPayment() *payment.PaymentRequest {
	return &payment.PaymentRequest{
		ID:          8,
		CompanyID:   companyID,
		EmployeeID:  workerID,
		RequestType: payment.TypeAdvancePayment,
		Amount:      50000,
		Currency:    "SGD",
		Lifecycle:   workflow.Lifecycle{Status: workflow.StatusPending, CreatedBy: workerPrincipal},
		CreatedAt:   fixedNow,
	}
}

func TestPaymentService_Create(t *testing.T) {
	ctx := context.Background()
	deps := setupServiceTest(t)
	deps.sqlMock.ExpectBegin()
	deps.sqlMock.ExpectCommit()

	deps.counter.EXPECT().WithTx(gomock.Any()).Return(deps.counter)
	deps.counter.EXPECT().NextValue(ctx, counter.PaymentRequest).Return(int64(8), nil)
	deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
	deps.repo.EXPECT().Create(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, p *payment.PaymentRequest) error {
		assert.Equal(t, workerID, p.EmployeeID)
		assert.Equal(t, payment.DefaultCurrency, p.Currency)
		assert.Equal(t, "DBS", p.BankDetails.BankName)
		return nil
	})

	resp, err := deps.service.Create(ctx, workerPrincipal, payment.CreatePaymentRequest{
		RequestType: payment.TypeAdvancePayment,
		Amount:      50000,
		Reason:      "rent deposit",
		BankDetails: payment.BankDetailsRequest{AccountName: "Ravi Kumar", AccountNumber: "001-234", BankName: "DBS"},
	})
	require.NoError(t, err)
	assert.Equal(t, "PAY-000008", resp.ReferenceNumber)
	assert.Equal(t, workflow.StatusPending, resp.Status)
	assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
}

func TestPaymentService_Decide(t *testing.T) {
	ctx := context.Background()

	t.Run("partial approval", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.repo.EXPECT().FindByIDAndCompany(ctx, companyID, int64(8)).Return(pendingPayment(), nil)
		deps.repo.EXPECT().TransitionStatus(ctx, int64(8), workflow.StatusPending, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ int64, _ string, patch map[string]any) (bool, error) {
				assert.Equal(t, int64(30000), patch["approved_amount"])
				return true, nil
			})

		amount := int64(30000)
		resp, err := deps.service.Decide(ctx, superPrincipal, 8, payment.DecidePaymentRequest{Action: "approve", ApprovedAmount: &amount})
		require.NoError(t, err)
		assert.Equal(t, workflow.StatusApproved, resp.Status)
		require.NotNil(t, resp.Request.ApprovedAmount)
		assert.Equal(t, int64(30000), *resp.Request.ApprovedAmount)

		change, ok := deps.notifier.Last()
		require.True(t, ok)
		assert.Equal(t, "SGD 300.00", change.Context[notification.KeyAmount])
	})

	t.Run("approved amount above requested", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.repo.EXPECT().FindByIDAndCompany(ctx, companyID, int64(8)).Return(pendingPayment(), nil)

		amount := int64(60000)
		_, err := deps.service.Decide(ctx, superPrincipal, 8, payment.DecidePaymentRequest{Action: "approve", ApprovedAmount: &amount})
		assert.ErrorIs(t, err, paymenterrors.ErrApprovedAmountTooHigh)
	})

	t.Run("submitter with excess amount is forbidden", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.repo.EXPECT().FindByIDAndCompany(ctx, companyID, int64(8)).Return(pendingPayment(), nil)

		amount := int64(60000)
		_, err := deps.service.Decide(ctx, workerPrincipal, 8, payment.DecidePaymentRequest{Action: "approve", ApprovedAmount: &amount})
		assert.ErrorIs(t, err, workflowerrors.ErrNotSupervisor)
	})

	t.Run("reject ignores approved amount", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.repo.EXPECT().FindByIDAndCompany(ctx, companyID, int64(8)).Return(pendingPayment(), nil)
		deps.repo.EXPECT().TransitionStatus(ctx, int64(8), workflow.StatusPending, gomock.Any()).Return(true, nil)

		amount := int64(60000)
		resp, err := deps.service.Decide(ctx, superPrincipal, 8, payment.DecidePaymentRequest{Action: "reject", Remarks: "duplicate", ApprovedAmount: &amount})
		require.NoError(t, err)
		assert.Equal(t, workflow.StatusRejected, resp.Status)
	})

	t.Run("reject leaves approved amount unset", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.repo.EXPECT().FindByIDAndCompany(ctx, companyID, int64(8)).Return(pendingPayment(), nil)
		deps.repo.EXPECT().TransitionStatus(ctx, int64(8), workflow.StatusPending, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ int64, _ string, patch map[string]any) (bool, error) {
				assert.NotContains(t, patch, "approved_amount")
				return true, nil
			})

		resp, err := deps.service.Decide(ctx, superPrincipal, 8, payment.DecidePaymentRequest{Action: "reject", Remarks: "budget freeze"})
		require.NoError(t, err)
		assert.Equal(t, workflow.StatusRejected, resp.Status)
		assert.Nil(t, resp.Request.ApprovedAmount)
	})

	t.Run("not found", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.repo.EXPECT().FindByIDAndCompany(ctx, companyID, int64(8)).Return(nil, gorm.ErrRecordNotFound)

		_, err := deps.service.Decide(ctx, superPrincipal, 8, payment.DecidePaymentRequest{Action: "approve"})
		assert.ErrorIs(t, err, paymenterrors.ErrPaymentNotFound)
	})
}

func TestPaymentService_Process(t *testing.T) {
	ctx := context.Background()

	t.Run("pending cannot be processed", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.repo.EXPECT().FindByIDAndCompany(ctx, companyID, int64(8)).Return(pendingPayment(), nil)

		_, err := deps.service.Process(ctx, superPrincipal, 8, payment.ProcessPaymentRequest{})
		assert.ErrorIs(t, err, workflowerrors.ErrNotApproved)
	})

	t.Run("approved is processed", func(t *testing.T) {
		deps := setupServiceTest(t)
		approved := pendingPayment()
		approved.Status = workflow.StatusApproved
		deps.repo.EXPECT().FindByIDAndCompany(ctx, companyID, int64(8)).Return(approved, nil)
		deps.repo.EXPECT().TransitionStatus(ctx, int64(8), workflow.StatusApproved, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ int64, _ string, patch map[string]any) (bool, error) {
				assert.Equal(t, workflow.StatusProcessed, patch["status"])
				assert.Equal(t, "TRX-991", patch["payment_reference"])
				assert.Contains(t, patch, "processed_at")
				return true, nil
			})

		resp, err := deps.service.Process(ctx, superPrincipal, 8, payment.ProcessPaymentRequest{PaymentReference: " TRX-991 "})
		require.NoError(t, err)
		assert.Equal(t, workflow.StatusProcessed, resp.Status)
		assert.Equal(t, "TRX-991", resp.PaymentReference)
		assert.NotNil(t, resp.ProcessedAt)

		change, ok := deps.notifier.Last()
		require.True(t, ok)
		assert.Equal(t, workflow.StatusProcessed, change.NewStatus)
	})
}
