package monthly

import (
	"context"
	"database/sql"
	"time"

	"go-timesheet/internal/shared/period"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=monthly_repo.go -destination=mock/monthly_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	FindByEmployeeMonth(ctx context.Context, employeeID uuid.UUID, month period.Month) (*MonthlyTimesheet, error)
	Save(ctx context.Context, m *MonthlyTimesheet) error
	// EnsureMonth creates the record of month if missing, leaving an existing one untouched.
	EnsureMonth(ctx context.Context, employeeID uuid.UUID, month period.Month) error
	// MarkNeedRefreshFrom flags month and every later month of the employee.
	MarkNeedRefreshFrom(ctx context.Context, employeeID uuid.UUID, month period.Month) (int64, error)
	// FindDue lists flagged records ordered by employee, year and month.
	FindDue(ctx context.Context, limit int) ([]MonthlyTimesheet, error)
	// FindDueBefore lists the employee's flagged records older than month, oldest first.
	FindDueBefore(ctx context.Context, employeeID uuid.UUID, month period.Month) ([]MonthlyTimesheet, error)
	// MarkLeaveIncremented records the month's accrual once; false means it was already recorded.
	MarkLeaveIncremented(ctx context.Context, employeeID uuid.UUID, month period.Month, days decimal.Decimal, at time.Time) (bool, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) conn(ctx context.Context) *gorm.DB {
	db := r.db.WithContext(ctx)
	if r.tx != nil {
		db.Statement.ConnPool = r.tx
	}
	return db
}

func (r *repository) FindByEmployeeMonth(ctx context.Context, employeeID uuid.UUID, month period.Month) (*MonthlyTimesheet, error) {
	var m MonthlyTimesheet
	err := r.conn(ctx).
		Where("employee_id = ?", employeeID).
		Where("year = ? AND month = ?", month.Year, int(month.Month)).
		First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *repository) Save(ctx context.Context, m *MonthlyTimesheet) error {
	return r.conn(ctx).Save(m).Error
}

func (r *repository) EnsureMonth(ctx context.Context, employeeID uuid.UUID, month period.Month) error {
	return r.conn(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "employee_id"}, {Name: "year"}, {Name: "month"}},
			DoNothing: true,
		}).
		Create(newMonthlyTimesheet(employeeID, month)).Error
}

func (r *repository) MarkNeedRefreshFrom(ctx context.Context, employeeID uuid.UUID, month period.Month) (int64, error) {
	res := r.conn(ctx).
		Model(&MonthlyTimesheet{}).
		Where("employee_id = ?", employeeID).
		Where("(year > ? OR (year = ? AND month >= ?))", month.Year, month.Year, int(month.Month)).
		Where("need_refresh = ?", false).
		Update("need_refresh", true)
	return res.RowsAffected, res.Error
}

func (r *repository) FindDue(ctx context.Context, limit int) ([]MonthlyTimesheet, error) {
	var rows []MonthlyTimesheet
	err := r.conn(ctx).
		Where("need_refresh = ?", true).
		Order("employee_id ASC, year ASC, month ASC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindDueBefore(ctx context.Context, employeeID uuid.UUID, month period.Month) ([]MonthlyTimesheet, error) {
	var rows []MonthlyTimesheet
	err := r.conn(ctx).
		Where("employee_id = ?", employeeID).
		Where("need_refresh = ?", true).
		Where("(year < ? OR (year = ? AND month < ?))", month.Year, month.Year, int(month.Month)).
		Order("year ASC, month ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) MarkLeaveIncremented(ctx context.Context, employeeID uuid.UUID, month period.Month, days decimal.Decimal, at time.Time) (bool, error) {
	res := r.conn(ctx).
		Model(&MonthlyTimesheet{}).
		Where("employee_id = ?", employeeID).
		Where("year = ? AND month = ?", month.Year, int(month.Month)).
		Where("leave_incremented_at IS NULL").
		Updates(map[string]any{
			"leave_incremented_at": at,
			"leave_increment_days": days,
			"need_refresh":         true,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
