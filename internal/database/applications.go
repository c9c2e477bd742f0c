package database

import (
	"context"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
)

var applicationColumns = []string{
	"id", "created_at", "updated_at",
	"partner_id", "partner_name", "bank_name", "customer_name", "property_type", "project_name",
	"monthly_income", "loan_amount", "collateral_value", "ltv", "credit_score",
	"status", "status_group", "last_status_updated", "officer_name",
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// CreateApplication inserts a new case. Returns ErrCaseIDTaken when the id exists.
func (s *sqlxStore) CreateApplication(ctx context.Context, app *Application) error {
	if app == nil {
		return fmt.Errorf("cannot save nil application")
	}
	if app.ID == "" {
		return fmt.Errorf("application must have an id")
	}
	if app.CustomerName == "" {
		return fmt.Errorf("application must have a customer name")
	}

	affected, err := s.exec(ctx, s.db, s.builder.
		Insert("applications").
		Columns(applicationColumns...).
		Values(
			app.ID, app.CreatedAt, app.UpdatedAt,
			app.PartnerID, app.PartnerName, app.BankName, app.CustomerName, app.PropertyType, app.ProjectName,
			app.MonthlyIncome, app.LoanAmount, app.CollateralValue, app.LTV, app.CreditScore,
			app.Status, string(app.StatusGroup), app.LastStatusUpdated, app.OfficerName,
		).
		Suffix("ON CONFLICT (id) DO NOTHING"))
	if err != nil {
		s.logFailure(ctx, "Error creating application", err, "case_id", app.ID)
		return fmt.Errorf("failed to create application %s: %w", app.ID, err)
	}
	if affected == 0 {
		s.logger.WarnContext(ctx, "Case id collision", "case_id", app.ID)
		return ErrCaseIDTaken
	}

	s.logger.InfoContext(ctx, "Application created", "case_id", app.ID, "partner_id", app.PartnerID)
	return nil
}

// FindApplication matches query against the id exactly or the customer name by substring.
func (s *sqlxStore) FindApplication(ctx context.Context, query string) (*Application, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}

	pattern := "%" + likeEscaper.Replace(query) + "%"
	nameMatch := sq.Expr("customer_name "+s.dialect.likeOperator()+` ? ESCAPE '\'`, pattern)

	var app Application
	found, err := s.get(ctx, &app, s.builder.
		Select(applicationColumns...).
		From("applications").
		Where(sq.Or{sq.Eq{"id": query}, nameMatch}).
		OrderByClause("CASE WHEN id = ? THEN 0 ELSE 1 END", query).
		OrderBy("created_at DESC").
		Limit(1))
	if err != nil {
		s.logFailure(ctx, "Error finding application", err, "query", query)
		return nil, fmt.Errorf("failed to find application for %q: %w", query, err)
	}
	if !found {
		s.logger.DebugContext(ctx, "No application matched", "query", query)
		return nil, nil
	}
	return &app, nil
}

// GetApplicationByID returns a case by id, or nil when it does not exist.
func (s *sqlxStore) GetApplicationByID(ctx context.Context, id string) (*Application, error) {
	if id == "" {
		return nil, nil
	}

	var app Application
	found, err := s.get(ctx, &app, s.builder.
		Select(applicationColumns...).
		From("applications").
		Where(sq.Eq{"id": id}))
	if err != nil {
		s.logFailure(ctx, "Error getting application", err, "case_id", id)
		return nil, fmt.Errorf("failed to get application %s: %w", id, err)
	}
	if !found {
		return nil, nil
	}
	return &app, nil
}

// ListApplications returns cases newest first.
func (s *sqlxStore) ListApplications(ctx context.Context, filter ApplicationFilter) ([]Application, error) {
	query := s.builder.
		Select(applicationColumns...).
		From("applications").
		OrderBy("created_at DESC", "id DESC")
	if filter.StatusGroup != "" {
		query = query.Where(sq.Eq{"status_group": filter.StatusGroup})
	}

	apps := []Application{}
	if err := s.selectAll(ctx, &apps, query); err != nil {
		s.logFailure(ctx, "Error listing applications", err, "status_group", filter.StatusGroup)
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	return apps, nil
}

// UpdateApplicationStatus overwrites status, group, credit score and officer name.
// Collateral value and LTV keep their stored value unless the update carries one.
func (s *sqlxStore) UpdateApplicationStatus(ctx context.Context, update StatusUpdate) error {
	if update.ID == "" {
		return fmt.Errorf("status update must have a case id")
	}

	affected, err := s.exec(ctx, s.db, s.builder.
		Update("applications").
		Set("status", update.Status).
		Set("status_group", string(update.StatusGroup)).
		Set("credit_score", update.CreditScore).
		Set("officer_name", update.OfficerName).
		Set("collateral_value", sq.Expr("COALESCE(?, collateral_value)", update.CollateralValue)).
		Set("ltv", sq.Expr("COALESCE(?, ltv)", update.LTV)).
		Set("last_status_updated", update.UpdatedAt).
		Set("updated_at", update.UpdatedAt).
		Where(sq.Eq{"id": update.ID}))
	if err != nil {
		s.logFailure(ctx, "Error updating application status", err, "case_id", update.ID)
		return fmt.Errorf("failed to update application %s: %w", update.ID, err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	s.logger.InfoContext(ctx, "Application status updated",
		"case_id", update.ID, "status", update.Status, "status_group", update.StatusGroup)
	return nil
}

// DeleteApplication removes a case row. Its logs are removed separately with DeleteLogsForCase.
func (s *sqlxStore) DeleteApplication(ctx context.Context, id string) error {
	affected, err := s.exec(ctx, s.db, s.builder.
		Delete("applications").
		Where(sq.Eq{"id": id}))
	if err != nil {
		s.logFailure(ctx, "Error deleting application", err, "case_id", id)
		return fmt.Errorf("failed to delete application %s: %w", id, err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	s.logger.InfoContext(ctx, "Application deleted", "case_id", id)
	return nil
}
