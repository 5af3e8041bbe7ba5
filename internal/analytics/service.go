package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	pkgerrors "github.com/aisynapse/synapse-backend/pkg/errors"
	"github.com/aisynapse/synapse-backend/pkg/pagination"
)

// Entry is the dashboard view of one metric sample.
type Entry struct {
	ID          uuid.UUID       `json:"id"`
	ProjectID   uuid.UUID       `json:"project_id"`
	MetricName  string          `json:"metric_name"`
	MetricValue json.RawMessage `json:"metric_value"`
	Timestamp   time.Time       `json:"timestamp"`
	Project     ProjectSummary  `json:"project"`
}

type ProjectSummary struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

// Page is one slice of the caller's samples. NextCursor is empty on the last page.
type Page struct {
	Entries    []Entry `json:"entries"`
	NextCursor string  `json:"next_cursor,omitempty"`
}

type Service interface {
	List(ctx context.Context, userID uuid.UUID, params pagination.Params) (*Page, error)
}

type ServiceParams struct {
	Repo Repository
}

type service struct {
	repo Repository
}

func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("analytics repo required")
	}
	return &service{repo: params.Repo}, nil
}

// List returns the caller's samples newest first.
func (s *service) List(ctx context.Context, userID uuid.UUID, params pagination.Params) (*Page, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	records, err := s.repo.ListForUser(ctx, userID, pagination.LimitWithBuffer(params.Limit), cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list analytics")
	}

	records, next := pagination.Trim(records, params.Limit, func(rec EntryRecord) pagination.Cursor {
		return pagination.Cursor{At: rec.Timestamp, ID: rec.ID}
	})
	page := &Page{Entries: make([]Entry, 0, len(records)), NextCursor: next}
	for _, rec := range records {
		page.Entries = append(page.Entries, Entry{
			ID:          rec.ID,
			ProjectID:   rec.ProjectID,
			MetricName:  rec.MetricName,
			MetricValue: json.RawMessage(rec.MetricValue),
			Timestamp:   rec.Timestamp,
			Project: ProjectSummary{
				Name:        rec.ProjectName,
				Description: rec.ProjectDescription,
			},
		})
	}
	return page, nil
}
