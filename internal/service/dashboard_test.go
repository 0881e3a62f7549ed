package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YusovID/agency-backoffice/internal/domain"
)

func TestDashboardService_Summary(t *testing.T) {
	ctx := context.Background()
	monthStart := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)

	contacts := new(ContactRepositoryMock)
	projects := new(ProjectRepositoryMock)
	tasks := new(TaskRepositoryMock)
	revenue := new(RevenueRepositoryMock)
	svc := NewDashboardService(discardLogger(), fixedClock, contacts, projects, tasks, revenue)

	contacts.On("CountContactsByStatus", ctx).Return([]domain.CountByStatus{
		{Status: "NEW", Count: 4},
		{Status: "WON", Count: 2},
	}, nil).Once()
	contacts.On("CountContactsSince", ctx, monthStart).Return(3, nil).Once()
	projects.On("CountProjectsByStatus", ctx, domain.ProjectStatusInProgress).Return(5, nil).Once()
	tasks.On("CountOpenTasks", ctx).Return(17, nil).Once()
	revenue.On("SumRevenue", ctx, monthStart, testNow).Return(domain.MoneyTotals{
		Revenue: decimal.RequireFromString("9000"),
		Costs:   decimal.RequireFromString("2500.25"),
	}, nil).Once()

	summary, err := svc.Summary(ctx)
	require.NoError(t, err)

	assert.Equal(t, 6, summary.Leads.Total)
	assert.Equal(t, 3, summary.Leads.NewThisMonth)
	assert.Equal(t, map[string]int{"NEW": 4, "WON": 2}, summary.Leads.ByStatus)
	assert.Equal(t, 5, summary.ActiveProjects)
	assert.Equal(t, 17, summary.OpenTasks)
	assert.Equal(t, "6499.75", summary.Revenue.NetProfit.String())
	assert.Equal(t, monthStart, summary.Revenue.StartDate)

	contacts.AssertExpectations(t)
	projects.AssertExpectations(t)
	tasks.AssertExpectations(t)
	revenue.AssertExpectations(t)
}

func TestDashboardService_Summary_Error(t *testing.T) {
	ctx := context.Background()
	contacts := new(ContactRepositoryMock)
	svc := NewDashboardService(discardLogger(), fixedClock, contacts, new(ProjectRepositoryMock), new(TaskRepositoryMock), new(RevenueRepositoryMock))

	contacts.On("CountContactsByStatus", ctx).Return(nil, errors.New("db down")).Once()

	_, err := svc.Summary(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to count contacts")
}
