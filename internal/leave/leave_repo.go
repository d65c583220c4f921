package leave

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

//go:generate mockgen -source=leave_repo.go -destination=mock/leave_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	FindApprovedInRange(ctx context.Context, employeeID uuid.UUID, from, to time.Time) ([]Leave, error)
	// SumApprovedDaysInRange totals approved annual leave days clipped to [from, to].
	SumApprovedDaysInRange(ctx context.Context, employeeID uuid.UUID, from, to time.Time) (decimal.Decimal, error)
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

func (r *repository) FindApprovedInRange(ctx context.Context, employeeID uuid.UUID, from, to time.Time) ([]Leave, error) {
	var rows []Leave
	err := r.conn(ctx).
		Where("employee_id = ?", employeeID).
		Where("leave_type = ?", TypeAnnual).
		Where("status = ?", StatusApproved).
		Where("NOT (end_date < ? OR start_date > ?)", from.Format("2006-01-02"), to.Format("2006-01-02")).
		Order("start_date ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) SumApprovedDaysInRange(ctx context.Context, employeeID uuid.UUID, from, to time.Time) (decimal.Decimal, error) {
	rows, err := r.FindApprovedInRange(ctx, employeeID, from, to)
	if err != nil {
		return decimal.Zero, err
	}

	total := 0
	for _, l := range rows {
		total += l.DaysWithin(from, to)
	}
	return decimal.NewFromInt(int64(total)), nil
}
