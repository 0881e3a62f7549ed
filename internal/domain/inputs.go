package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type ContactInput struct {
	Name            string
	Email           string
	Phone           string
	Company         string
	ServiceInterest string
	BudgetRange     string
	Message         string
	Source          string
	Notes           string
}

type ProjectInput struct {
	Name        string
	Description string
	Status      ProjectStatus
	Progress    int
	Budget      *decimal.Decimal
	URL         string
	StartDate   *time.Time
	EndDate     *time.Time
	ContactID   *string
	ManagerName string
}

type TaskInput struct {
	Title        string
	Description  string
	Status       TaskStatus
	Priority     TaskPriority
	AssigneeName string
	DueDate      *time.Time
}

type RevenueInput struct {
	Amount      decimal.Decimal
	Costs       decimal.Decimal
	Date        time.Time
	Source      string
	Description string
	ProjectID   *string
	ContactID   *string
}

type MetricInput struct {
	URL        string
	PageViews  int
	Sessions   int
	BounceRate float64
	RecordedAt *time.Time
}

type ContactFilter struct {
	PageRequest
	Status ContactStatus
	Search string
}

type ProjectFilter struct {
	PageRequest
	Status ProjectStatus
	Search string
}

type RevenueFilter struct {
	PageRequest
	ProjectID string
	Source    string
	From      *time.Time
	To        *time.Time
}

type MetricFilter struct {
	PageRequest
	URL string
}

// ReportFilter narrows the report listing. Project matches a project id
// or, failing that, a project name fragment.
type ReportFilter struct {
	PageRequest
	Type    ReportType
	Project string
	Search  string
}

type DashboardSummary struct {
	Leads          LeadStats    `json:"leads"`
	ActiveProjects int          `json:"activeProjects"`
	OpenTasks      int          `json:"openTasks"`
	Revenue        MonthRevenue `json:"revenue"`
}

type LeadStats struct {
	Total        int            `json:"total"`
	NewThisMonth int            `json:"newThisMonth"`
	ByStatus     map[string]int `json:"byStatus"`
}

type MonthRevenue struct {
	StartDate time.Time       `json:"startDate"`
	EndDate   time.Time       `json:"endDate"`
	Revenue   decimal.Decimal `json:"revenue"`
	Costs     decimal.Decimal `json:"costs"`
	NetProfit decimal.Decimal `json:"netProfit"`
}
