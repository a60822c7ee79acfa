package netprofiler

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/bitdogg/EOC-NetProfiler/internal/domain"
)

// templateID is the appliance's generic single-query report template.
const templateID = 184

// --- API request/response types ---

type timeFrame struct {
	Start      int64  `json:"start"`
	End        int64  `json:"end"`
	Resolution string `json:"resolution,omitempty"`
}

type queryRequest struct {
	Realm               string              `json:"realm"`
	Centricity          string              `json:"centricity,omitempty"`
	GroupBy             string              `json:"group_by"`
	Columns             []string            `json:"columns"`
	SortColumn          string              `json:"sort_column,omitempty"`
	Limit               int                 `json:"limit,omitempty"`
	DataFilter          []string            `json:"data_filter,omitempty"`
	QueryColumnsGroupBy string              `json:"query_columns_group_by,omitempty"`
	QueryColumns        []map[string]string `json:"query_columns,omitempty"`
}

type trafficExpression struct {
	Filter string `json:"filter,omitempty"`
}

type reportCriteria struct {
	TimeFrame         timeFrame          `json:"time_frame"`
	TrafficExpression *trafficExpression `json:"traffic_expression,omitempty"`
	Query             queryRequest       `json:"query"`
}

type reportRequest struct {
	TemplateID int            `json:"template_id"`
	Criteria   reportCriteria `json:"criteria"`
}

type reportInfo struct {
	ID      int64   `json:"id"`
	Status  string  `json:"status"`
	Percent float64 `json:"percent"`
}

type queryInfo struct {
	ID       string `json:"id"`
	ActualT0 int64  `json:"actual_t0"`
	ActualT1 int64  `json:"actual_t1"`
}

type queryData struct {
	Data [][]any `json:"data"`
}

// --- domain.ReportClient implementation ---

// Submit creates an asynchronous report on the appliance. args.Groupby must
// already be an id (see ResolveGroupby); Submit makes exactly one request.
func (c *Client) Submit(ctx context.Context, args *domain.ReportArgs) (*domain.ReportHandle, error) {
	body := reportRequest{
		TemplateID: templateID,
		Criteria: reportCriteria{
			TimeFrame: timeFrame{
				Start:      args.TimeFilter.Start.Unix(),
				End:        args.TimeFilter.End.Unix(),
				Resolution: args.Resolution,
			},
			Query: queryRequest{
				Realm:               args.Realm,
				Centricity:          args.Centricity,
				GroupBy:             args.Groupby,
				Columns:             args.Columns,
				SortColumn:          args.SortCol,
				Limit:               args.Limit,
				DataFilter:          args.DataFilter,
				QueryColumnsGroupBy: args.QueryColumnsGroupby,
				QueryColumns:        args.QueryColumns,
			},
		},
	}
	if args.TrafficExpr != "" {
		body.Criteria.TrafficExpression = &trafficExpression{Filter: args.TrafficExpr}
	}

	var out reportInfo
	resp, err := c.doJSON(ctx, http.MethodPost, apiPrefix+"/reporting/reports", body, &out)
	if err != nil {
		return nil, fmt.Errorf("failed to create report: %w", err)
	}

	id := strconv.FormatInt(out.ID, 10)
	if out.ID == 0 {
		// Some firmware answers 201 with only a Location header.
		loc := resp.Header.Get("Location")
		if loc == "" {
			return nil, fmt.Errorf("failed to create report: no report id in response")
		}
		id = path.Base(loc)
	}
	return &domain.ReportHandle{ID: id, Args: args}, nil
}

// Status returns the report's completion state.
func (c *Client) Status(ctx context.Context, h *domain.ReportHandle) (*domain.ReportStatus, error) {
	var out reportInfo
	if _, err := c.doJSON(ctx, http.MethodGet, apiPrefix+"/reporting/reports/"+h.ID, nil, &out); err != nil {
		return nil, fmt.Errorf("failed to get report %s status: %w", h.ID, err)
	}
	return &domain.ReportStatus{Percent: out.Percent, Status: strings.ToLower(out.Status)}, nil
}

// Data returns the rows of the report's first query.
func (c *Client) Data(ctx context.Context, h *domain.ReportHandle, columns []string) ([][]any, error) {
	q, err := c.firstQuery(ctx, h)
	if err != nil {
		return nil, err
	}

	p := fmt.Sprintf("%s/reporting/reports/%s/queries/%s.json", apiPrefix, h.ID, q.ID)
	if len(columns) > 0 {
		p += "?columns=" + url.QueryEscape(strings.Join(columns, ","))
	}

	var out queryData
	if _, err := c.doJSON(ctx, http.MethodGet, p, nil, &out); err != nil {
		return nil, fmt.Errorf("failed to get report %s data: %w", h.ID, err)
	}
	return out.Data, nil
}

// ActualWindow returns the time window the first query actually covered.
func (c *Client) ActualWindow(ctx context.Context, h *domain.ReportHandle) (domain.TimeFilter, error) {
	q, err := c.firstQuery(ctx, h)
	if err != nil {
		return domain.TimeFilter{}, err
	}
	return domain.TimeFilter{
		Start: time.Unix(q.ActualT0, 0).UTC(),
		End:   time.Unix(q.ActualT1, 0).UTC(),
	}, nil
}

func (c *Client) firstQuery(ctx context.Context, h *domain.ReportHandle) (*queryInfo, error) {
	if h.QueryID != "" {
		var q queryInfo
		p := fmt.Sprintf("%s/reporting/reports/%s/queries/%s", apiPrefix, h.ID, h.QueryID)
		if _, err := c.doJSON(ctx, http.MethodGet, p, nil, &q); err != nil {
			return nil, fmt.Errorf("failed to get report %s query: %w", h.ID, err)
		}
		return &q, nil
	}

	var out []queryInfo
	if _, err := c.doJSON(ctx, http.MethodGet, apiPrefix+"/reporting/reports/"+h.ID+"/queries", nil, &out); err != nil {
		return nil, fmt.Errorf("failed to list report %s queries: %w", h.ID, err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("report %s has no queries: %w", h.ID, domain.ErrNotFound)
	}
	h.QueryID = out[0].ID
	return &out[0], nil
}
