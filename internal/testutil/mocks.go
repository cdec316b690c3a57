// Package testutil provides hand-written mock repositories for service and
// handler tests.
package testutil

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/kqmdigital/mortgage-calculator-sub000/internal/domain"
	"github.com/shopspring/decimal"
)

// MockUserRepository is a mock implementation of domain.UserRepository
type MockUserRepository struct {
	Users    map[string]*domain.User
	ByID     map[uuid.UUID]*domain.User
	CreateFn func(auth0ID, email string, name *string) (*domain.User, error)
}

// NewMockUserRepository creates a new MockUserRepository
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		Users: make(map[string]*domain.User),
		ByID:  make(map[uuid.UUID]*domain.User),
	}
}

// GetByID retrieves a user by ID
func (m *MockUserRepository) GetByID(id uuid.UUID) (*domain.User, error) {
	if user, ok := m.ByID[id]; ok {
		return user, nil
	}
	return nil, domain.ErrUserNotFound
}

// GetByAuth0ID retrieves a user by Auth0 ID
func (m *MockUserRepository) GetByAuth0ID(auth0ID string) (*domain.User, error) {
	if user, ok := m.Users[auth0ID]; ok {
		return user, nil
	}
	return nil, domain.ErrUserNotFound
}

// CreateOrGetByAuth0ID creates or retrieves a user by Auth0 ID
func (m *MockUserRepository) CreateOrGetByAuth0ID(auth0ID, email string, name *string) (*domain.User, error) {
	if m.CreateFn != nil {
		return m.CreateFn(auth0ID, email, name)
	}
	if user, ok := m.Users[auth0ID]; ok {
		return user, nil
	}
	user := &domain.User{
		ID:      uuid.New(),
		Auth0ID: auth0ID,
		Email:   email,
		Name:    name,
		Role:    domain.RoleAdvisor,
	}
	m.Users[auth0ID] = user
	m.ByID[user.ID] = user
	return user, nil
}

// UpdateName updates only the user's name by Auth0 ID
func (m *MockUserRepository) UpdateName(auth0ID string, name string) (*domain.User, error) {
	user, ok := m.Users[auth0ID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	user.Name = &name
	return user, nil
}

// TouchLastSeen updates the user's last-seen timestamp
func (m *MockUserRepository) TouchLastSeen(auth0ID string) error {
	user, ok := m.Users[auth0ID]
	if !ok {
		return domain.ErrUserNotFound
	}
	now := time.Now()
	user.LastSeenAt = &now
	return nil
}

// AddUser adds a user to the mock repository (helper for tests)
func (m *MockUserRepository) AddUser(user *domain.User) {
	m.Users[user.Auth0ID] = user
	m.ByID[user.ID] = user
}

// MockBankRepository is a mock implementation of domain.BankRepository
type MockBankRepository struct {
	Banks  map[int32]*domain.Bank
	NextID int32
}

// NewMockBankRepository creates a new MockBankRepository
func NewMockBankRepository() *MockBankRepository {
	return &MockBankRepository{
		Banks:  make(map[int32]*domain.Bank),
		NextID: 1,
	}
}

// Create creates a new bank
func (m *MockBankRepository) Create(bank *domain.Bank) (*domain.Bank, error) {
	bank.ID = m.NextID
	m.NextID++
	bank.CreatedAt = time.Now()
	bank.UpdatedAt = bank.CreatedAt
	m.Banks[bank.ID] = bank
	return bank, nil
}

// GetByID retrieves a bank by ID
func (m *MockBankRepository) GetByID(id int32) (*domain.Bank, error) {
	bank, ok := m.Banks[id]
	if !ok || bank.DeletedAt != nil {
		return nil, domain.ErrBankNotFound
	}
	return bank, nil
}

// GetAll retrieves all active banks ordered by ID
func (m *MockBankRepository) GetAll() ([]*domain.Bank, error) {
	var banks []*domain.Bank
	for _, bank := range m.Banks {
		if bank.DeletedAt == nil {
			banks = append(banks, bank)
		}
	}
	sort.Slice(banks, func(i, j int) bool { return banks[i].ID < banks[j].ID })
	return banks, nil
}

// Update updates an existing bank
func (m *MockBankRepository) Update(bank *domain.Bank) (*domain.Bank, error) {
	existing, ok := m.Banks[bank.ID]
	if !ok || existing.DeletedAt != nil {
		return nil, domain.ErrBankNotFound
	}
	bank.UpdatedAt = time.Now()
	m.Banks[bank.ID] = bank
	return bank, nil
}

// UpdateLogoPath sets the logo object path on a bank
func (m *MockBankRepository) UpdateLogoPath(id int32, logoPath string) (*domain.Bank, error) {
	bank, ok := m.Banks[id]
	if !ok || bank.DeletedAt != nil {
		return nil, domain.ErrBankNotFound
	}
	bank.LogoPath = &logoPath
	bank.UpdatedAt = time.Now()
	return bank, nil
}

// SoftDelete marks a bank as deleted
func (m *MockBankRepository) SoftDelete(id int32) error {
	bank, ok := m.Banks[id]
	if !ok || bank.DeletedAt != nil {
		return domain.ErrBankNotFound
	}
	now := time.Now()
	bank.DeletedAt = &now
	return nil
}

// MockRatePackageRepository is a mock implementation of domain.RatePackageRepository
type MockRatePackageRepository struct {
	Packages map[int32]*domain.RatePackage
	NextID   int32
}

// NewMockRatePackageRepository creates a new MockRatePackageRepository
func NewMockRatePackageRepository() *MockRatePackageRepository {
	return &MockRatePackageRepository{
		Packages: make(map[int32]*domain.RatePackage),
		NextID:   1,
	}
}

// GetByID retrieves a rate package by ID
func (m *MockRatePackageRepository) GetByID(id int32) (*domain.RatePackage, error) {
	pkg, ok := m.Packages[id]
	if !ok || pkg.DeletedAt != nil {
		return nil, domain.ErrRatePackageNotFound
	}
	return pkg, nil
}

// GetAll retrieves all active rate packages ordered by ID
func (m *MockRatePackageRepository) GetAll() ([]*domain.RatePackage, error) {
	var packages []*domain.RatePackage
	for _, pkg := range m.Packages {
		if pkg.DeletedAt == nil {
			packages = append(packages, pkg)
		}
	}
	sort.Slice(packages, func(i, j int) bool { return packages[i].ID < packages[j].ID })
	return packages, nil
}

// GetByLoanType retrieves active packages matching loan and property type
func (m *MockRatePackageRepository) GetByLoanType(loanType, propertyType string) ([]*domain.RatePackage, error) {
	var packages []*domain.RatePackage
	for _, pkg := range m.Packages {
		if pkg.DeletedAt == nil && pkg.LoanType == loanType && pkg.PropertyType == propertyType {
			packages = append(packages, pkg)
		}
	}
	sort.Slice(packages, func(i, j int) bool { return packages[i].ID < packages[j].ID })
	return packages, nil
}

// Create creates a new rate package
func (m *MockRatePackageRepository) Create(pkg *domain.RatePackage) (*domain.RatePackage, error) {
	pkg.ID = m.NextID
	m.NextID++
	pkg.CreatedAt = time.Now()
	pkg.UpdatedAt = pkg.CreatedAt
	m.Packages[pkg.ID] = pkg
	return pkg, nil
}

// Update updates an existing rate package
func (m *MockRatePackageRepository) Update(pkg *domain.RatePackage) (*domain.RatePackage, error) {
	existing, ok := m.Packages[pkg.ID]
	if !ok || existing.DeletedAt != nil {
		return nil, domain.ErrRatePackageNotFound
	}
	pkg.UpdatedAt = time.Now()
	m.Packages[pkg.ID] = pkg
	return pkg, nil
}

// SoftDelete marks a rate package as deleted
func (m *MockRatePackageRepository) SoftDelete(id int32) error {
	pkg, ok := m.Packages[id]
	if !ok || pkg.DeletedAt != nil {
		return domain.ErrRatePackageNotFound
	}
	now := time.Now()
	pkg.DeletedAt = &now
	return nil
}

// AddPackage adds a rate package to the mock repository (helper for tests)
func (m *MockRatePackageRepository) AddPackage(pkg *domain.RatePackage) {
	if pkg.ID == 0 {
		pkg.ID = m.NextID
		m.NextID++
	} else if pkg.ID >= m.NextID {
		m.NextID = pkg.ID + 1
	}
	m.Packages[pkg.ID] = pkg
}

// MockReferenceRateRepository is a mock implementation of domain.ReferenceRateRepository
type MockReferenceRateRepository struct {
	Rates    map[string]*domain.ReferenceRate
	NextID   int32
	GetAllFn func() ([]*domain.ReferenceRate, error)
}

// NewMockReferenceRateRepository creates a new MockReferenceRateRepository
func NewMockReferenceRateRepository() *MockReferenceRateRepository {
	return &MockReferenceRateRepository{
		Rates:  make(map[string]*domain.ReferenceRate),
		NextID: 1,
	}
}

// GetAll retrieves the full reference-rate table
func (m *MockReferenceRateRepository) GetAll() ([]*domain.ReferenceRate, error) {
	if m.GetAllFn != nil {
		return m.GetAllFn()
	}
	var rates []*domain.ReferenceRate
	for _, rate := range m.Rates {
		rates = append(rates, rate)
	}
	sort.Slice(rates, func(i, j int) bool { return rates[i].RateType < rates[j].RateType })
	return rates, nil
}

// Upsert creates or updates the value for a reference rate type
func (m *MockReferenceRateRepository) Upsert(rateType string, value decimal.Decimal) (*domain.ReferenceRate, error) {
	if rate, ok := m.Rates[rateType]; ok {
		rate.RateValue = value
		rate.UpdatedAt = time.Now()
		return rate, nil
	}
	rate := &domain.ReferenceRate{
		ID:        m.NextID,
		RateType:  rateType,
		RateValue: value,
		UpdatedAt: time.Now(),
	}
	m.NextID++
	m.Rates[rateType] = rate
	return rate, nil
}

// SetRate seeds a reference rate (helper for tests)
func (m *MockReferenceRateRepository) SetRate(rateType string, value float64) {
	_, _ = m.Upsert(rateType, decimal.NewFromFloat(value))
}

// MockReportRepository is a mock implementation of domain.ReportRepository
type MockReportRepository struct {
	Reports  map[uuid.UUID]*domain.Report
	CreateFn func(report *domain.Report) (*domain.Report, error)
}

// NewMockReportRepository creates a new MockReportRepository
func NewMockReportRepository() *MockReportRepository {
	return &MockReportRepository{
		Reports: make(map[uuid.UUID]*domain.Report),
	}
}

// Create records metadata for a generated report
func (m *MockReportRepository) Create(report *domain.Report) (*domain.Report, error) {
	if m.CreateFn != nil {
		return m.CreateFn(report)
	}
	if report.ID == uuid.Nil {
		report.ID = uuid.New()
	}
	report.CreatedAt = time.Now()
	m.Reports[report.ID] = report
	return report, nil
}

// GetByID retrieves a report by ID
func (m *MockReportRepository) GetByID(id uuid.UUID) (*domain.Report, error) {
	if report, ok := m.Reports[id]; ok {
		return report, nil
	}
	return nil, domain.ErrReportNotFound
}

// GetByUser retrieves all reports generated by a user, newest first
func (m *MockReportRepository) GetByUser(userID uuid.UUID) ([]*domain.Report, error) {
	var reports []*domain.Report
	for _, report := range m.Reports {
		if report.UserID == userID {
			reports = append(reports, report)
		}
	}
	sort.Slice(reports, func(i, j int) bool { return reports[i].CreatedAt.After(reports[j].CreatedAt) })
	return reports, nil
}

// MockObjectStore is an in-memory implementation of storage.ObjectStore
type MockObjectStore struct {
	Objects   map[string][]byte
	UploadErr error
	DeleteErr error
}

// NewMockObjectStore creates a new MockObjectStore
func NewMockObjectStore() *MockObjectStore {
	return &MockObjectStore{
		Objects: make(map[string][]byte),
	}
}

// Upload stores data in memory under objectPath
func (m *MockObjectStore) Upload(ctx context.Context, objectPath string, data io.Reader, contentType string, size int64) (string, error) {
	if m.UploadErr != nil {
		return "", m.UploadErr
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(data); err != nil {
		return "", err
	}
	m.Objects[objectPath] = buf.Bytes()
	return objectPath, nil
}

// Delete removes an object
func (m *MockObjectStore) Delete(ctx context.Context, objectPath string) error {
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	delete(m.Objects, objectPath)
	return nil
}

// GeneratePresignedURL returns a deterministic fake URL for the object
func (m *MockObjectStore) GeneratePresignedURL(ctx context.Context, objectPath string, expiry time.Duration) (string, error) {
	return fmt.Sprintf("https://storage.test/%s?expires=%d", objectPath, int64(expiry.Seconds())), nil
}
