package employee

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

//go:generate mockgen -source=employee_repo.go -destination=mock/employee_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	FindByID(ctx context.Context, id uuid.UUID) (*Employee, error)
	// FindEligible lists employees that batch runs should process, ordered by id.
	FindEligible(ctx context.Context) ([]Employee, error)
	IncrementAvailableLeaveDays(ctx context.Context, id uuid.UUID, days decimal.Decimal) error
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

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*Employee, error) {
	var e Employee
	err := r.conn(ctx).First(&e, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *repository) FindEligible(ctx context.Context) ([]Employee, error) {
	var rows []Employee
	err := r.conn(ctx).
		Where("employment_status <> ?", StatusTerminated).
		Order("id").
		Find(&rows).Error
	return rows, err
}

func (r *repository) IncrementAvailableLeaveDays(ctx context.Context, id uuid.UUID, days decimal.Decimal) error {
	res := r.conn(ctx).
		Model(&Employee{}).
		Where("id = ?", id).
		UpdateColumn("available_leave_days", gorm.Expr("available_leave_days + ?", days))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
