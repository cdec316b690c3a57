package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/kqmdigital/mortgage-calculator-sub000/internal/domain"
	"github.com/kqmdigital/mortgage-calculator-sub000/internal/repository/storage"
	"github.com/kqmdigital/mortgage-calculator-sub000/internal/websocket"
)

const (
	MaxLogoSize   = 2 * 1024 * 1024 // 2MB
	LogoMaxWidth  = 400
	logoURLExpiry = time.Hour
)

var (
	ErrLogoTooLarge      = errors.New("logo too large. Maximum size is 2MB")
	ErrLogoInvalidFormat = errors.New("invalid logo format. Supported: JPEG, PNG")
	ErrLogoInvalidData   = errors.New("invalid logo image data")
)

var allowedLogoExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// BankService handles bank reference data and logo uploads. Updates are
// broadcast over WebSocket so clients can refresh their bank lists.
type BankService struct {
	bankRepo  domain.BankRepository
	store     storage.ObjectStore
	publisher websocket.EventPublisher
}

// NewBankService creates a new BankService
func NewBankService(bankRepo domain.BankRepository, store storage.ObjectStore, publisher websocket.EventPublisher) *BankService {
	if publisher == nil {
		publisher = &websocket.NoOpPublisher{}
	}
	return &BankService{bankRepo: bankRepo, store: store, publisher: publisher}
}

// BankWithLogo is a bank plus a presigned logo URL when a logo exists
type BankWithLogo struct {
	*domain.Bank
	LogoURL string `json:"logoUrl,omitempty"`
}

// CreateBank creates a new bank
func (s *BankService) CreateBank(name, code string) (*domain.Bank, error) {
	bank := &domain.Bank{
		Name: strings.TrimSpace(name),
		Code: strings.TrimSpace(code),
	}
	if err := bank.Validate(); err != nil {
		return nil, err
	}
	return s.bankRepo.Create(bank)
}

// GetBanks retrieves all active banks with presigned logo URLs
func (s *BankService) GetBanks(ctx context.Context) ([]*BankWithLogo, error) {
	banks, err := s.bankRepo.GetAll()
	if err != nil {
		return nil, err
	}

	result := make([]*BankWithLogo, len(banks))
	for i, bank := range banks {
		result[i] = s.withLogo(ctx, bank)
	}
	return result, nil
}

// GetBankByID retrieves a bank by ID with its presigned logo URL
func (s *BankService) GetBankByID(ctx context.Context, id int32) (*BankWithLogo, error) {
	bank, err := s.bankRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	return s.withLogo(ctx, bank), nil
}

// UpdateBank updates a bank's name and code
func (s *BankService) UpdateBank(id int32, name, code string) (*domain.Bank, error) {
	existing, err := s.bankRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	existing.Name = strings.TrimSpace(name)
	existing.Code = strings.TrimSpace(code)
	if err := existing.Validate(); err != nil {
		return nil, err
	}
	updated, err := s.bankRepo.Update(existing)
	if err != nil {
		return nil, err
	}
	s.publisher.Publish(websocket.BankUpdated(updated))
	return updated, nil
}

// DeleteBank soft-deletes a bank
func (s *BankService) DeleteBank(id int32) error {
	if _, err := s.bankRepo.GetByID(id); err != nil {
		return err
	}
	return s.bankRepo.SoftDelete(id)
}

// UploadLogo validates, resizes and stores a bank logo, then records its
// object path on the bank row. Logos are normalized to PNG no wider than
// LogoMaxWidth.
func (s *BankService) UploadLogo(ctx context.Context, bankID int32, data []byte, filename string) (*domain.Bank, error) {
	bank, err := s.bankRepo.GetByID(bankID)
	if err != nil {
		return nil, err
	}

	img, err := validateLogo(data, filename)
	if err != nil {
		return nil, err
	}

	if img.Bounds().Dx() > LogoMaxWidth {
		img = imaging.Resize(img, LogoMaxWidth, 0, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode logo: %w", err)
	}

	objectPath := fmt.Sprintf("logos/%d/%s.png", bank.ID, uuid.New())
	if _, err := s.store.Upload(ctx, objectPath, bytes.NewReader(buf.Bytes()), "image/png", int64(buf.Len())); err != nil {
		return nil, fmt.Errorf("upload logo: %w", err)
	}

	// Old logo is replaced, not versioned
	if bank.LogoPath != nil {
		_ = s.store.Delete(ctx, *bank.LogoPath)
	}

	updated, err := s.bankRepo.UpdateLogoPath(bank.ID, objectPath)
	if err != nil {
		return nil, err
	}
	s.publisher.Publish(websocket.BankUpdated(updated))
	return updated, nil
}

func (s *BankService) withLogo(ctx context.Context, bank *domain.Bank) *BankWithLogo {
	result := &BankWithLogo{Bank: bank}
	if bank.LogoPath != nil && s.store != nil {
		if url, err := s.store.GeneratePresignedURL(ctx, *bank.LogoPath, logoURLExpiry); err == nil {
			result.LogoURL = url
		}
	}
	return result
}

func validateLogo(data []byte, filename string) (image.Image, error) {
	if len(data) > MaxLogoSize {
		return nil, ErrLogoTooLarge
	}
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedLogoExtensions[ext] {
		return nil, ErrLogoInvalidFormat
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, ErrLogoInvalidData
	}
	return img, nil
}
