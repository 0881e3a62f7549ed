package http

import (
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/oapi-codegen/runtime"

	"github.com/YusovID/agency-backoffice/internal/domain"
	"github.com/YusovID/agency-backoffice/internal/validation"
)

// optionalQuery binds one form-style query parameter. A missing parameter
// yields nil.
func optionalQuery[T any](q url.Values, name string) (*T, error) {
	var v *T
	if err := runtime.BindQueryParameter("form", true, false, name, q, &v); err != nil {
		return nil, &validation.ValidationError{
			Errors: []string{fmt.Sprintf("query parameter '%s' is invalid", name)},
		}
	}

	return v, nil
}

func valueOrZero[T any](v *T) T {
	var zero T
	if v == nil {
		return zero
	}

	return *v
}

// optionalTime parses an RFC 3339 timestamp or a YYYY-MM-DD date. A plain
// date used as an upper bound covers the whole day.
func optionalTime(q url.Values, name string, endOfDay bool) (*time.Time, error) {
	raw, err := optionalQuery[string](q, name)
	if err != nil || raw == nil {
		return nil, err
	}

	if t, err := time.Parse(time.RFC3339, *raw); err == nil {
		return &t, nil
	}

	t, err := time.Parse(time.DateOnly, *raw)
	if err != nil {
		return nil, &validation.ValidationError{
			Errors: []string{fmt.Sprintf("query parameter '%s' must be a date", name)},
		}
	}

	if endOfDay {
		t = t.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}

	return &t, nil
}

func pageRequest(q url.Values) (domain.PageRequest, error) {
	page, err := optionalQuery[int](q, "page")
	if err != nil {
		return domain.PageRequest{}, err
	}

	limit, err := optionalQuery[int](q, "limit")
	if err != nil {
		return domain.PageRequest{}, err
	}

	return domain.NewPageRequest(valueOrZero(page), valueOrZero(limit)), nil
}

func reportFilter(q url.Values) (domain.ReportFilter, error) {
	page, err := pageRequest(q)
	if err != nil {
		return domain.ReportFilter{}, err
	}

	reportType, err := optionalQuery[string](q, "type")
	if err != nil {
		return domain.ReportFilter{}, err
	}

	project, err := optionalQuery[string](q, "project")
	if err != nil {
		return domain.ReportFilter{}, err
	}

	search, err := optionalQuery[string](q, "search")
	if err != nil {
		return domain.ReportFilter{}, err
	}

	return domain.ReportFilter{
		PageRequest: page,
		Type:        domain.ReportType(valueOrZero(reportType)),
		Project:     valueOrZero(project),
		Search:      valueOrZero(search),
	}, nil
}

func contactFilter(q url.Values) (domain.ContactFilter, error) {
	page, err := pageRequest(q)
	if err != nil {
		return domain.ContactFilter{}, err
	}

	status, err := optionalQuery[string](q, "status")
	if err != nil {
		return domain.ContactFilter{}, err
	}

	search, err := optionalQuery[string](q, "search")
	if err != nil {
		return domain.ContactFilter{}, err
	}

	return domain.ContactFilter{
		PageRequest: page,
		Status:      domain.ContactStatus(valueOrZero(status)),
		Search:      valueOrZero(search),
	}, nil
}

func projectFilter(q url.Values) (domain.ProjectFilter, error) {
	page, err := pageRequest(q)
	if err != nil {
		return domain.ProjectFilter{}, err
	}

	status, err := optionalQuery[string](q, "status")
	if err != nil {
		return domain.ProjectFilter{}, err
	}

	search, err := optionalQuery[string](q, "search")
	if err != nil {
		return domain.ProjectFilter{}, err
	}

	return domain.ProjectFilter{
		PageRequest: page,
		Status:      domain.ProjectStatus(valueOrZero(status)),
		Search:      valueOrZero(search),
	}, nil
}

// revenueFilter accepts from/to as RFC 3339 timestamps or plain dates.
func revenueFilter(q url.Values) (domain.RevenueFilter, error) {
	page, err := pageRequest(q)
	if err != nil {
		return domain.RevenueFilter{}, err
	}

	projectID, err := optionalQuery[string](q, "projectId")
	if err != nil {
		return domain.RevenueFilter{}, err
	}

	source, err := optionalQuery[string](q, "source")
	if err != nil {
		return domain.RevenueFilter{}, err
	}

	if projectID != nil {
		if err := uuid.Validate(*projectID); err != nil {
			return domain.RevenueFilter{}, &validation.ValidationError{
				Errors: []string{"query parameter 'projectId' must be a valid id"},
			}
		}
	}

	from, err := optionalTime(q, "from", false)
	if err != nil {
		return domain.RevenueFilter{}, err
	}

	to, err := optionalTime(q, "to", true)
	if err != nil {
		return domain.RevenueFilter{}, err
	}

	return domain.RevenueFilter{
		PageRequest: page,
		ProjectID:   valueOrZero(projectID),
		Source:      valueOrZero(source),
		From:        from,
		To:          to,
	}, nil
}

func metricFilter(q url.Values) (domain.MetricFilter, error) {
	page, err := pageRequest(q)
	if err != nil {
		return domain.MetricFilter{}, err
	}

	u, err := optionalQuery[string](q, "url")
	if err != nil {
		return domain.MetricFilter{}, err
	}

	return domain.MetricFilter{PageRequest: page, URL: valueOrZero(u)}, nil
}
