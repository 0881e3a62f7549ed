package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Money goes over the wire as JSON numbers, not strings.
	decimal.MarshalJSONWithoutQuotes = true
}

type ContactStatus string

const (
	ContactStatusNew       ContactStatus = "NEW"
	ContactStatusContacted ContactStatus = "CONTACTED"
	ContactStatusQualified ContactStatus = "QUALIFIED"
	ContactStatusProposal  ContactStatus = "PROPOSAL"
	ContactStatusWon       ContactStatus = "WON"
	ContactStatusLost      ContactStatus = "LOST"
)

// contactTransitions lists the statuses a lead may move to from each status.
var contactTransitions = map[ContactStatus][]ContactStatus{
	ContactStatusNew:       {ContactStatusContacted, ContactStatusLost},
	ContactStatusContacted: {ContactStatusQualified, ContactStatusLost},
	ContactStatusQualified: {ContactStatusProposal, ContactStatusLost},
	ContactStatusProposal:  {ContactStatusWon, ContactStatusLost},
}

// CanTransitionTo reports whether a lead in status s may be moved to next.
// Setting the current status again is not a transition.
func (s ContactStatus) CanTransitionTo(next ContactStatus) bool {
	for _, allowed := range contactTransitions[s] {
		if allowed == next {
			return true
		}
	}

	return false
}

type Contact struct {
	ID              string        `db:"id" json:"id"`
	Name            string        `db:"name" json:"name"`
	Email           string        `db:"email" json:"email"`
	Phone           string        `db:"phone" json:"phone,omitempty"`
	Company         string        `db:"company" json:"company,omitempty"`
	ServiceInterest string        `db:"service_interest" json:"serviceInterest,omitempty"`
	BudgetRange     string        `db:"budget_range" json:"budgetRange,omitempty"`
	Message         string        `db:"message" json:"message,omitempty"`
	Source          string        `db:"source" json:"source"`
	Status          ContactStatus `db:"status" json:"status"`
	Score           int           `db:"score" json:"score"`
	Notes           string        `db:"notes" json:"notes,omitempty"`
	CreatedAt       time.Time     `db:"created_at" json:"createdAt"`
	UpdatedAt       time.Time     `db:"updated_at" json:"updatedAt"`
}

type ProjectStatus string

const (
	ProjectStatusPlanning   ProjectStatus = "PLANNING"
	ProjectStatusInProgress ProjectStatus = "IN_PROGRESS"
	ProjectStatusOnHold     ProjectStatus = "ON_HOLD"
	ProjectStatusCompleted  ProjectStatus = "COMPLETED"
	ProjectStatusCancelled  ProjectStatus = "CANCELLED"
)

type Project struct {
	ID          string              `db:"id" json:"id"`
	Name        string              `db:"name" json:"name"`
	Description string              `db:"description" json:"description,omitempty"`
	Status      ProjectStatus       `db:"status" json:"status"`
	Progress    int                 `db:"progress" json:"progress"`
	Budget      decimal.NullDecimal `db:"budget" json:"budget"`
	URL         string              `db:"url" json:"url,omitempty"`
	StartDate   *time.Time          `db:"start_date" json:"startDate"`
	EndDate     *time.Time          `db:"end_date" json:"endDate"`
	ContactID   *string             `db:"contact_id" json:"contactId"`
	ManagerName string              `db:"manager_name" json:"managerName,omitempty"`
	CreatedAt   time.Time           `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time           `db:"updated_at" json:"updatedAt"`
}

// ProjectDetails is a project loaded together with its contact and every task.
type ProjectDetails struct {
	Project
	Contact *Contact `json:"contact"`
	Tasks   []Task   `json:"tasks"`
}

type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "TODO"
	TaskStatusInProgress TaskStatus = "IN_PROGRESS"
	TaskStatusReview     TaskStatus = "REVIEW"
	TaskStatusCompleted  TaskStatus = "COMPLETED"
	TaskStatusPending    TaskStatus = "PENDING"
)

type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "LOW"
	TaskPriorityMedium TaskPriority = "MEDIUM"
	TaskPriorityHigh   TaskPriority = "HIGH"
	TaskPriorityUrgent TaskPriority = "URGENT"
)

type Task struct {
	ID           string       `db:"id" json:"id"`
	ProjectID    string       `db:"project_id" json:"projectId"`
	Title        string       `db:"title" json:"title"`
	Description  string       `db:"description" json:"description,omitempty"`
	Status       TaskStatus   `db:"status" json:"status"`
	Priority     TaskPriority `db:"priority" json:"priority"`
	AssigneeName string       `db:"assignee_name" json:"assigneeName,omitempty"`
	DueDate      *time.Time   `db:"due_date" json:"dueDate"`
	CreatedAt    time.Time    `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time    `db:"updated_at" json:"updatedAt"`
}

// RevenueEntry belongs to a project or directly to a contact, never both.
type RevenueEntry struct {
	ID          string          `db:"id" json:"id"`
	Amount      decimal.Decimal `db:"amount" json:"amount"`
	Costs       decimal.Decimal `db:"costs" json:"costs"`
	Date        time.Time       `db:"date" json:"date"`
	Source      string          `db:"source" json:"source"`
	Description string          `db:"description" json:"description,omitempty"`
	ProjectID   *string         `db:"project_id" json:"projectId"`
	ContactID   *string         `db:"contact_id" json:"contactId"`
	CreatedAt   time.Time       `db:"created_at" json:"createdAt"`
}

// WebsiteMetric is a traffic snapshot for one URL. It is matched to
// projects by URL, there is no foreign key.
type WebsiteMetric struct {
	ID         string    `db:"id" json:"id"`
	URL        string    `db:"url" json:"url"`
	PageViews  int       `db:"page_views" json:"pageViews"`
	Sessions   int       `db:"sessions" json:"sessions"`
	BounceRate float64   `db:"bounce_rate" json:"bounceRate"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
}

type ReportType string

const (
	ReportTypeMonthly   ReportType = "MONTHLY"
	ReportTypeQuarterly ReportType = "QUARTERLY"
	ReportTypeOther     ReportType = "OTHER"
)

// Report is immutable once stored, except for SentAt which is set once.
type Report struct {
	ID          string     `db:"id" json:"id"`
	Title       string     `db:"title" json:"title"`
	Type        ReportType `db:"type" json:"type"`
	Content     Content    `db:"content" json:"content"`
	GeneratedAt time.Time  `db:"generated_at" json:"generatedAt"`
	SentAt      *time.Time `db:"sent_at" json:"sentAt"`
	ProjectID   string     `db:"project_id" json:"projectId"`
	ProjectName string     `db:"project_name" json:"projectName,omitempty"`
}

// CountByStatus is one row of a GROUP BY status query.
type CountByStatus struct {
	Status string `db:"status"`
	Count  int    `db:"count"`
}

type MoneyTotals struct {
	Revenue decimal.Decimal `db:"revenue" json:"revenue"`
	Costs   decimal.Decimal `db:"costs" json:"costs"`
}
