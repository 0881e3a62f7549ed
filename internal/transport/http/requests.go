package http

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/YusovID/agency-backoffice/internal/domain"
	"github.com/YusovID/agency-backoffice/internal/report"
	"github.com/YusovID/agency-backoffice/internal/service"
)

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type generateReportRequest struct {
	ProjectID      string `json:"projectId" validate:"required,uuid"`
	Type           string `json:"type" validate:"required,oneof=MONTHLY QUARTERLY OTHER"`
	Period         string `json:"period" validate:"omitempty,oneof=current previous"`
	IncludeTasks   bool   `json:"includeTasks"`
	IncludeMetrics bool   `json:"includeMetrics"`
	IncludeRevenue bool   `json:"includeRevenue"`
}

func (req generateReportRequest) params() service.GenerateParams {
	period := report.PeriodSelector(req.Period)
	if period == "" {
		period = report.PeriodCurrent
	}

	return service.GenerateParams{
		ProjectID:      req.ProjectID,
		Type:           domain.ReportType(req.Type),
		Period:         period,
		IncludeTasks:   req.IncludeTasks,
		IncludeMetrics: req.IncludeMetrics,
		IncludeRevenue: req.IncludeRevenue,
	}
}

// leadRequest is the public contact form.
type leadRequest struct {
	Name            string `json:"name" validate:"required,max=200"`
	Email           string `json:"email" validate:"required,email,max=254"`
	Phone           string `json:"phone" validate:"omitempty,phone"`
	Company         string `json:"company" validate:"max=200"`
	ServiceInterest string `json:"serviceInterest" validate:"max=100"`
	BudgetRange     string `json:"budgetRange" validate:"max=50"`
	Message         string `json:"message" validate:"max=5000"`
	Source          string `json:"source" validate:"max=50"`
}

func (req leadRequest) input() domain.ContactInput {
	return domain.ContactInput{
		Name:            req.Name,
		Email:           req.Email,
		Phone:           req.Phone,
		Company:         req.Company,
		ServiceInterest: req.ServiceInterest,
		BudgetRange:     req.BudgetRange,
		Message:         req.Message,
		Source:          req.Source,
	}
}

type contactRequest struct {
	leadRequest
	Notes string `json:"notes" validate:"max=5000"`
}

func (req contactRequest) input() domain.ContactInput {
	in := req.leadRequest.input()
	in.Notes = req.Notes

	return in
}

type contactStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=NEW CONTACTED QUALIFIED PROPOSAL WON LOST"`
}

type projectRequest struct {
	Name        string           `json:"name" validate:"required,max=200"`
	Description string           `json:"description" validate:"max=5000"`
	Status      string           `json:"status" validate:"omitempty,oneof=PLANNING IN_PROGRESS ON_HOLD COMPLETED CANCELLED"`
	Progress    int              `json:"progress" validate:"min=0,max=100"`
	Budget      *decimal.Decimal `json:"budget"`
	URL         string           `json:"url" validate:"omitempty,url"`
	StartDate   *time.Time       `json:"startDate"`
	EndDate     *time.Time       `json:"endDate"`
	ContactID   *string          `json:"contactId" validate:"omitempty,uuid"`
	ManagerName string           `json:"managerName" validate:"max=200"`
}

func (req projectRequest) input() domain.ProjectInput {
	return domain.ProjectInput{
		Name:        req.Name,
		Description: req.Description,
		Status:      domain.ProjectStatus(req.Status),
		Progress:    req.Progress,
		Budget:      req.Budget,
		URL:         req.URL,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		ContactID:   req.ContactID,
		ManagerName: req.ManagerName,
	}
}

type taskRequest struct {
	Title        string     `json:"title" validate:"required,max=200"`
	Description  string     `json:"description" validate:"max=5000"`
	Status       string     `json:"status" validate:"omitempty,oneof=TODO IN_PROGRESS REVIEW COMPLETED PENDING"`
	Priority     string     `json:"priority" validate:"omitempty,oneof=LOW MEDIUM HIGH URGENT"`
	AssigneeName string     `json:"assigneeName" validate:"max=200"`
	DueDate      *time.Time `json:"dueDate"`
}

func (req taskRequest) input() domain.TaskInput {
	return domain.TaskInput{
		Title:        req.Title,
		Description:  req.Description,
		Status:       domain.TaskStatus(req.Status),
		Priority:     domain.TaskPriority(req.Priority),
		AssigneeName: req.AssigneeName,
		DueDate:      req.DueDate,
	}
}

type revenueRequest struct {
	Amount      *decimal.Decimal `json:"amount" validate:"required"`
	Costs       *decimal.Decimal `json:"costs"`
	Date        *time.Time       `json:"date" validate:"required"`
	Source      string           `json:"source" validate:"required,max=100"`
	Description string           `json:"description" validate:"max=5000"`
	ProjectID   *string          `json:"projectId" validate:"omitempty,uuid"`
	ContactID   *string          `json:"contactId" validate:"omitempty,uuid"`
}

func (req revenueRequest) input() domain.RevenueInput {
	in := domain.RevenueInput{
		Amount:      *req.Amount,
		Costs:       decimal.Zero,
		Date:        *req.Date,
		Source:      req.Source,
		Description: req.Description,
		ProjectID:   req.ProjectID,
		ContactID:   req.ContactID,
	}

	if req.Costs != nil {
		in.Costs = *req.Costs
	}

	return in
}

type metricRequest struct {
	URL        string     `json:"url" validate:"required,url"`
	PageViews  int        `json:"pageViews" validate:"min=0"`
	Sessions   int        `json:"sessions" validate:"min=0"`
	BounceRate float64    `json:"bounceRate" validate:"min=0,max=100"`
	RecordedAt *time.Time `json:"recordedAt"`
}

func (req metricRequest) input() domain.MetricInput {
	return domain.MetricInput{
		URL:        req.URL,
		PageViews:  req.PageViews,
		Sessions:   req.Sessions,
		BounceRate: req.BounceRate,
		RecordedAt: req.RecordedAt,
	}
}
