package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sangkips/atelier-api/internal/domain/entity"
	domainRepo "github.com/sangkips/atelier-api/internal/domain/repository"
	"github.com/sangkips/atelier-api/pkg/pagination"
	"gorm.io/gorm"
)

type customerRepository struct {
	db *gorm.DB
}

// NewCustomerRepository creates a new customer repository
func NewCustomerRepository(db *gorm.DB) domainRepo.CustomerRepository {
	return &customerRepository{db: db}
}

func (r *customerRepository) Create(ctx context.Context, customer *entity.Customer) error {
	return r.db.WithContext(ctx).Create(customer).Error
}

func (r *customerRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	var customer entity.Customer
	err := r.db.WithContext(ctx).First(&customer, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &customer, err
}

func (r *customerRepository) GetByEmail(ctx context.Context, email string) (*entity.Customer, error) {
	var customer entity.Customer
	err := r.db.WithContext(ctx).First(&customer, "LOWER(email) = LOWER(?)", email).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &customer, err
}

func (r *customerRepository) Update(ctx context.Context, customer *entity.Customer) error {
	return r.db.WithContext(ctx).Save(customer).Error
}

func (r *customerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.Customer{}, "id = ?", id).Error
}

func (r *customerRepository) List(ctx context.Context, params *pagination.Params, search string) ([]entity.Customer, int64, error) {
	var customers []entity.Customer
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Customer{}).
		Scopes(Search(search, "name", "email", "phone"))

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Scopes(Paginate(params)).
		Order("name ASC").
		Find(&customers).Error

	return customers, total, err
}

func (r *customerRepository) All(ctx context.Context) ([]entity.Customer, error) {
	var customers []entity.Customer
	err := r.db.WithContext(ctx).Order("name ASC").Find(&customers).Error
	return customers, err
}

type subscriberRepository struct {
	db *gorm.DB
}

// NewSubscriberRepository creates a new subscriber repository
func NewSubscriberRepository(db *gorm.DB) domainRepo.SubscriberRepository {
	return &subscriberRepository{db: db}
}

func (r *subscriberRepository) Create(ctx context.Context, subscriber *entity.Subscriber) error {
	return r.db.WithContext(ctx).Create(subscriber).Error
}

func (r *subscriberRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Subscriber, error) {
	var subscriber entity.Subscriber
	err := r.db.WithContext(ctx).First(&subscriber, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &subscriber, err
}

func (r *subscriberRepository) GetByEmail(ctx context.Context, email string) (*entity.Subscriber, error) {
	var subscriber entity.Subscriber
	err := r.db.WithContext(ctx).First(&subscriber, "LOWER(email) = LOWER(?)", email).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &subscriber, err
}

func (r *subscriberRepository) Update(ctx context.Context, subscriber *entity.Subscriber) error {
	return r.db.WithContext(ctx).Save(subscriber).Error
}

func (r *subscriberRepository) List(ctx context.Context, params *domainRepo.SubscriberFilterParams) ([]entity.Subscriber, int64, error) {
	var subscribers []entity.Subscriber
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Subscriber{}).
		Scopes(Search(params.Search, "name", "email", "phone"))

	if params.Source != nil {
		query = query.Where("source = ?", *params.Source)
	}
	if params.Active != nil {
		query = query.Where("is_active = ?", *params.Active)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Scopes(Paginate(params.Pagination)).
		Order("subscribed_at DESC").
		Find(&subscribers).Error

	return subscribers, total, err
}

func (r *subscriberRepository) ListActive(ctx context.Context, ids []uuid.UUID) ([]entity.Subscriber, error) {
	var subscribers []entity.Subscriber
	query := r.db.WithContext(ctx).Where("is_active = ?", true)
	if len(ids) > 0 {
		query = query.Where("id IN ?", ids)
	}
	err := query.Order("name ASC").Find(&subscribers).Error
	return subscribers, err
}
