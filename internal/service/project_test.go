package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/YusovID/agency-backoffice/internal/apperrors"
	"github.com/YusovID/agency-backoffice/internal/domain"
	"github.com/YusovID/agency-backoffice/internal/validation"
)

func TestProjectService_Create(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 2, 0)
	negative := decimal.RequireFromString("-1")
	budget := decimal.RequireFromString("12000.50")

	testCases := []struct {
		name       string
		in         domain.ProjectInput
		wantErrors []string
	}{
		{
			name: "defaults to planning",
			in:   domain.ProjectInput{Name: "Storefront", Budget: &budget, StartDate: &start, EndDate: &end},
		},
		{
			name:       "end before start",
			in:         domain.ProjectInput{Name: "Storefront", StartDate: &end, EndDate: &start},
			wantErrors: []string{"field 'endDate' must not be before 'startDate'"},
		},
		{
			name: "negative budget and bad dates",
			in:   domain.ProjectInput{Name: "Storefront", Budget: &negative, StartDate: &end, EndDate: &start},
			wantErrors: []string{
				"field 'endDate' must not be before 'startDate'",
				"field 'budget' must not be negative",
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			projects := new(ProjectRepositoryMock)
			svc := NewProjectService(discardLogger(), projects)

			if tc.wantErrors == nil {
				projects.On("CreateProject", ctx, mock.MatchedBy(func(p *domain.Project) bool {
					return p.Status == domain.ProjectStatusPlanning &&
						p.Budget.Valid && p.Budget.Decimal.Equal(budget)
				})).Return(&domain.Project{ID: "p-1", Status: domain.ProjectStatusPlanning}, nil).Once()
			}

			p, err := svc.Create(ctx, tc.in)

			if tc.wantErrors != nil {
				var vErr *validation.ValidationError
				require.ErrorAs(t, err, &vErr)
				assert.Equal(t, tc.wantErrors, vErr.Errors)
				projects.AssertNotCalled(t, "CreateProject", mock.Anything, mock.Anything)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, "p-1", p.ID)
			projects.AssertExpectations(t)
		})
	}
}

func TestProjectService_Create_UnknownContact(t *testing.T) {
	ctx := context.Background()
	projects := new(ProjectRepositoryMock)
	svc := NewProjectService(discardLogger(), projects)

	contactID := "c-missing"
	projects.On("CreateProject", ctx, mock.Anything).Return(nil, apperrors.NotFound("contact", contactID)).Once()

	_, err := svc.Create(ctx, domain.ProjectInput{Name: "x", ContactID: &contactID})
	require.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestProjectService_Update_ClearsBudget(t *testing.T) {
	ctx := context.Background()
	projects := new(ProjectRepositoryMock)
	svc := NewProjectService(discardLogger(), projects)

	projects.On("UpdateProject", ctx, mock.MatchedBy(func(p *domain.Project) bool {
		return p.ID == "p-1" && !p.Budget.Valid && p.Status == domain.ProjectStatusInProgress
	})).Return(&domain.Project{ID: "p-1"}, nil).Once()

	_, err := svc.Update(ctx, "p-1", domain.ProjectInput{Name: "x", Status: domain.ProjectStatusInProgress})
	require.NoError(t, err)
	projects.AssertExpectations(t)
}

func TestProjectService_GetAndDelete_NotFound(t *testing.T) {
	ctx := context.Background()
	projects := new(ProjectRepositoryMock)
	svc := NewProjectService(discardLogger(), projects)

	projects.On("GetProjectDetails", ctx, "p-x").Return(nil, apperrors.NotFound("project", "p-x")).Once()
	projects.On("DeleteProject", ctx, "p-x").Return(apperrors.NotFound("project", "p-x")).Once()

	_, err := svc.Get(ctx, "p-x")
	require.ErrorIs(t, err, apperrors.ErrNotFound)
	require.ErrorIs(t, svc.Delete(ctx, "p-x"), apperrors.ErrNotFound)
}
