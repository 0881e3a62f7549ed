package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Content is the frozen document stored with a Report.
type Content struct {
	Project  ProjectSnapshot `json:"project"`
	Period   Period          `json:"period"`
	Sections Sections        `json:"sections"`
}

// Value stores the document as JSON text; lib/pq would send []byte as bytea.
func (c Content) Value() (driver.Value, error) {
	b, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("marshal report content: %w", err)
	}

	return string(b), nil
}

func (c *Content) Scan(src any) error {
	var b []byte

	switch v := src.(type) {
	case []byte:
		b = v
	case string:
		b = []byte(v)
	case nil:
		return errors.New("report content is null")
	default:
		return fmt.Errorf("unsupported report content type %T", src)
	}

	return json.Unmarshal(b, c)
}

type ProjectSnapshot struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description,omitempty"`
	Status      ProjectStatus    `json:"status"`
	Progress    int              `json:"progress"`
	Budget      *decimal.Decimal `json:"budget,omitempty"`
	URL         string           `json:"url,omitempty"`
	ManagerName string           `json:"managerName,omitempty"`
	StartDate   *time.Time       `json:"startDate,omitempty"`
	EndDate     *time.Time       `json:"endDate,omitempty"`
	Contact     *ContactSnapshot `json:"contact,omitempty"`
}

type ContactSnapshot struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Company string `json:"company,omitempty"`
}

type Period struct {
	StartDate time.Time  `json:"startDate"`
	EndDate   time.Time  `json:"endDate"`
	Type      ReportType `json:"type"`
}

// Sections holds one entry per requested section. A nil entry means the
// section was not requested and is left out of the JSON entirely; it never
// means "zero activity".
type Sections struct {
	Tasks   *TasksSummary            `json:"tasks,omitempty"`
	Metrics *Section[MetricsSummary] `json:"metrics,omitempty"`
	Revenue *Section[RevenueSummary] `json:"revenue,omitempty"`
}

// Section is the outcome of one aggregator: a summary, a "no data" message,
// or the error the aggregator recovered from. It encodes as the bare summary,
// {"message": ...} or {"error": ...}.
type Section[T any] struct {
	Data    *T
	Message string
	Error   string
}

func SectionOK[T any](v T) *Section[T] {
	return &Section[T]{Data: &v}
}

func SectionMessage[T any](msg string) *Section[T] {
	return &Section[T]{Message: msg}
}

func SectionError[T any](msg string) *Section[T] {
	return &Section[T]{Error: msg}
}

func (s Section[T]) Failed() bool { return s.Error != "" }

func (s Section[T]) MarshalJSON() ([]byte, error) {
	switch {
	case s.Error != "":
		return json.Marshal(map[string]string{"error": s.Error})
	case s.Data == nil:
		return json.Marshal(map[string]string{"message": s.Message})
	default:
		return json.Marshal(s.Data)
	}
}

func (s *Section[T]) UnmarshalJSON(b []byte) error {
	var probe struct {
		Error   *string `json:"error"`
		Message *string `json:"message"`
	}
	if err := json.Unmarshal(b, &probe); err != nil {
		return err
	}

	switch {
	case probe.Error != nil:
		*s = Section[T]{Error: *probe.Error}
	case probe.Message != nil:
		*s = Section[T]{Message: *probe.Message}
	default:
		var v T
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}

		*s = Section[T]{Data: &v}
	}

	return nil
}

// decoded records the summary keys that were absent or null in a stored
// document. Summaries built by the aggregators have every key.
type decoded struct {
	missing map[string]struct{}
}

// Has reports whether key carried a value. Absent is not zero.
func (d decoded) Has(key string) bool {
	_, gone := d.missing[key]
	return !gone
}

func missingKeys(b []byte, keys ...string) (map[string]struct{}, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, err
	}

	var missing map[string]struct{}
	for _, k := range keys {
		if v, ok := raw[k]; !ok || string(v) == "null" {
			if missing == nil {
				missing = make(map[string]struct{})
			}
			missing[k] = struct{}{}
		}
	}

	return missing, nil
}

type TasksSummary struct {
	decoded

	Total          int       `json:"total"`
	Completed      int       `json:"completed"`
	InProgress     int       `json:"inProgress"`
	Todo           int       `json:"todo"`
	Review         int       `json:"review"`
	Pending        int       `json:"pending"`
	CompletionRate float64   `json:"completionRate"`
	Tasks          []TaskRow `json:"tasks"`
}

type TaskRow struct {
	Title     string       `json:"title"`
	Status    TaskStatus   `json:"status"`
	Priority  TaskPriority `json:"priority"`
	Assignee  string       `json:"assignee,omitempty"`
	CreatedAt time.Time    `json:"createdAt"`
	DueDate   *time.Time   `json:"dueDate,omitempty"`
}

type MetricsSummary struct {
	decoded

	TotalPageViews  int64     `json:"totalPageViews"`
	TotalSessions   int64     `json:"totalSessions"`
	AvgBounceRate   float64   `json:"avgBounceRate"`
	PagesPerSession float64   `json:"pagesPerSession"`
	DataPoints      int       `json:"dataPoints"`
	FirstSnapshotAt time.Time `json:"firstSnapshotAt"`
	LastSnapshotAt  time.Time `json:"lastSnapshotAt"`
}

type RevenueSummary struct {
	decoded

	TotalRevenue decimal.Decimal `json:"totalRevenue"`
	TotalCosts   decimal.Decimal `json:"totalCosts"`
	NetProfit    decimal.Decimal `json:"netProfit"`
	ProfitMargin float64         `json:"profitMargin"`
	EntryCount   int             `json:"entryCount"`
	BySource     []SourceTotal   `json:"bySource"`
}

type SourceTotal struct {
	Source  string          `json:"source"`
	Revenue decimal.Decimal `json:"revenue"`
	Costs   decimal.Decimal `json:"costs"`
}

func (s *TasksSummary) UnmarshalJSON(b []byte) error {
	type plain TasksSummary

	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}

	missing, err := missingKeys(b, "total", "completed", "inProgress", "todo", "review", "pending", "completionRate")
	if err != nil {
		return err
	}

	*s = TasksSummary(p)
	s.missing = missing

	return nil
}

func (s *MetricsSummary) UnmarshalJSON(b []byte) error {
	type plain MetricsSummary

	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}

	missing, err := missingKeys(b, "totalPageViews", "totalSessions", "avgBounceRate", "pagesPerSession", "dataPoints")
	if err != nil {
		return err
	}

	*s = MetricsSummary(p)
	s.missing = missing

	return nil
}

func (s *RevenueSummary) UnmarshalJSON(b []byte) error {
	type plain RevenueSummary

	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}

	missing, err := missingKeys(b, "totalRevenue", "totalCosts", "netProfit", "profitMargin", "entryCount")
	if err != nil {
		return err
	}

	*s = RevenueSummary(p)
	s.missing = missing

	return nil
}
