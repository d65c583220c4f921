package timesheet

import (
	"context"
	"database/sql"
	"time"

	"go-timesheet/internal/shared/period"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const batchInsertSize = 100

//go:generate mockgen -source=timesheet_repo.go -destination=mock/timesheet_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	FindByEmployeeAndDate(ctx context.Context, employeeID uuid.UUID, date time.Time) (*Entry, error)
	FindByEmployeeMonth(ctx context.Context, employeeID uuid.UUID, month period.Month) ([]Entry, error)
	FindExistingDates(ctx context.Context, employeeID uuid.UUID, from, to time.Time) ([]time.Time, error)
	Create(ctx context.Context, e *Entry) error
	// CreateMissing inserts rows in one statement, skipping (employee, date) pairs that
	// already exist, and returns only the rows that were actually inserted.
	CreateMissing(ctx context.Context, rows []Entry) ([]Entry, error)
	Update(ctx context.Context, e *Entry) error
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

func (r *repository) FindByEmployeeAndDate(ctx context.Context, employeeID uuid.UUID, date time.Time) (*Entry, error) {
	var e Entry
	err := r.conn(ctx).
		Where("employee_id = ?", employeeID).
		Where("entry_date = ?", date.Format(period.DateLayout)).
		First(&e).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *repository) FindByEmployeeMonth(ctx context.Context, employeeID uuid.UUID, month period.Month) ([]Entry, error) {
	var rows []Entry
	err := r.conn(ctx).
		Where("employee_id = ?", employeeID).
		Where("entry_date BETWEEN ? AND ?",
			month.FirstDay(time.UTC).Format(period.DateLayout),
			month.LastDay(time.UTC).Format(period.DateLayout),
		).
		Order("entry_date ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindExistingDates(ctx context.Context, employeeID uuid.UUID, from, to time.Time) ([]time.Time, error) {
	var dates []time.Time
	err := r.conn(ctx).
		Model(&Entry{}).
		Where("employee_id = ?", employeeID).
		Where("entry_date BETWEEN ? AND ?", from.Format(period.DateLayout), to.Format(period.DateLayout)).
		Order("entry_date ASC").
		Pluck("entry_date", &dates).Error
	return dates, err
}

func (r *repository) Create(ctx context.Context, e *Entry) error {
	return r.conn(ctx).Create(e).Error
}

func (r *repository) CreateMissing(ctx context.Context, rows []Entry) ([]Entry, error) {
	if len(rows) == 0 {
		return nil, nil
	}

	res := r.conn(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "employee_id"}, {Name: "entry_date"}},
			DoNothing: true,
		}).
		CreateInBatches(&rows, batchInsertSize)
	if res.Error != nil {
		return nil, res.Error
	}
	if int(res.RowsAffected) == len(rows) {
		return rows, nil
	}

	// A concurrent writer won some dates: keep only the ids that made it in.
	ids := make([]uuid.UUID, len(rows))
	for i, row := range rows {
		ids[i] = row.ID
	}
	var inserted []uuid.UUID
	if err := r.conn(ctx).Model(&Entry{}).Where("id IN ?", ids).Pluck("id", &inserted).Error; err != nil {
		return nil, err
	}
	keep := make(map[uuid.UUID]struct{}, len(inserted))
	for _, id := range inserted {
		keep[id] = struct{}{}
	}
	out := make([]Entry, 0, len(inserted))
	for _, row := range rows {
		if _, ok := keep[row.ID]; ok {
			out = append(out, row)
		}
	}
	return out, nil
}

func (r *repository) Update(ctx context.Context, e *Entry) error {
	return r.conn(ctx).Save(e).Error
}
