package workschedule

import (
	"context"
	"sort"

	"gorm.io/gorm"
)

//go:generate mockgen -source=workschedule_repo.go -destination=mock/workschedule_repo_mock.go -package=mock
type Repository interface {
	FindAll(ctx context.Context) ([]WorkSchedule, error)
	FindByWeekday(ctx context.Context, weekday Weekday) (*WorkSchedule, error)
	Create(ctx context.Context, s *WorkSchedule) error
	Update(ctx context.Context, s *WorkSchedule) error
	Delete(ctx context.Context, weekday Weekday) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindAll(ctx context.Context) ([]WorkSchedule, error) {
	var rows []WorkSchedule
	if err := r.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, err
	}
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].Weekday.Index() < rows[j].Weekday.Index()
	})
	return rows, nil
}

func (r *repository) FindByWeekday(ctx context.Context, weekday Weekday) (*WorkSchedule, error) {
	var s WorkSchedule
	err := r.db.WithContext(ctx).
		Where("weekday = ?", weekday).
		First(&s).Error
	return &s, err
}

func (r *repository) Create(ctx context.Context, s *WorkSchedule) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *repository) Update(ctx context.Context, s *WorkSchedule) error {
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *repository) Delete(ctx context.Context, weekday Weekday) error {
	res := r.db.WithContext(ctx).
		Where("weekday = ?", weekday).
		Delete(&WorkSchedule{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
