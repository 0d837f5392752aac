package services

import (
	"context"
	"errors"

	"liff-member-backend/config"
	"liff-member-backend/models"

	"gorm.io/gorm"
)

// GormCustomerStore reads and writes the customers table directly.
type GormCustomerStore struct {
	db *gorm.DB
}

func NewGormCustomerStore(db *gorm.DB) *GormCustomerStore {
	return &GormCustomerStore{db: db}
}

func (s *GormCustomerStore) FindByLineID(ctx context.Context, lineID string) (*models.Customer, error) {
	var customer models.Customer
	err := s.db.WithContext(ctx).Where("line_id = ?", lineID).First(&customer).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCustomerNotFound
	}
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

func (s *GormCustomerStore) InsertCustomer(ctx context.Context, customer *models.Customer) error {
	return s.db.WithContext(ctx).Create(customer).Error
}

// LocalIdentityProvider keeps email/password identities in the auth_users table.
type LocalIdentityProvider struct {
	db *gorm.DB
}

func NewLocalIdentityProvider(db *gorm.DB) *LocalIdentityProvider {
	return &LocalIdentityProvider{db: db}
}

func (p *LocalIdentityProvider) Name() string {
	return config.IdentityLocal
}

func (p *LocalIdentityProvider) CreateIdentity(ctx context.Context, email, password string) (*Identity, error) {
	user := models.AuthUser{Email: email, Password: password}
	if err := p.db.WithContext(ctx).Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errors.New("User already registered")
		}
		return nil, err
	}
	return &Identity{ID: user.ID, Email: user.Email}, nil
}

func (p *LocalIdentityProvider) DeleteIdentity(ctx context.Context, id string) error {
	result := p.db.WithContext(ctx).Delete(&models.AuthUser{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrIdentityNotFound
	}
	return nil
}
