package monthly

import (
	"context"
	"database/sql"
	"time"

	"go-timesheet/internal/shared/period"
	"go-timesheet/internal/timesheet"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Marker flags monthly records for the refresh scan. It implements
// timesheet.RefreshMarker and timesheet.EntryCreatedListener.
type Marker struct {
	repo   Repository
	logger *zap.Logger
}

func NewMarker(repo Repository, logger ...*zap.Logger) *Marker {
	l := zap.L().Named("monthly.marker")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("monthly.marker")
	}
	return &Marker{repo: repo, logger: l}
}

// MarkNeedRefresh creates the month containing date when missing and flags it together
// with every later month of the employee.
func (m *Marker) MarkNeedRefresh(ctx context.Context, tx *sql.Tx, employeeID uuid.UUID, date time.Time) error {
	repo := m.repo
	if tx != nil {
		repo = repo.WithTx(tx)
	}
	month := period.MonthOf(date)
	if err := repo.EnsureMonth(ctx, employeeID, month); err != nil {
		m.logger.Error("ensure month failed",
			zap.String("employee_id", employeeID.String()),
			zap.String("month", month.String()),
			zap.Error(err),
		)
		return err
	}
	flagged, err := repo.MarkNeedRefreshFrom(ctx, employeeID, month)
	if err != nil {
		return err
	}
	m.logger.Debug("months flagged for refresh",
		zap.String("employee_id", employeeID.String()),
		zap.String("from", month.String()),
		zap.Int64("flagged", flagged),
	)
	return nil
}

func (m *Marker) OnEntryCreated(ctx context.Context, tx *sql.Tx, evt timesheet.EntryCreated) error {
	return m.MarkNeedRefresh(ctx, tx, evt.Entry.EmployeeID, evt.Entry.EntryDate)
}
