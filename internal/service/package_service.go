package service

import (
	"sort"

	"github.com/kqmdigital/mortgage-calculator-sub000/internal/calc"
	"github.com/kqmdigital/mortgage-calculator-sub000/internal/domain"
	"github.com/kqmdigital/mortgage-calculator-sub000/internal/websocket"
	"github.com/rs/zerolog/log"
)

// PackageService resolves rate packages against the current reference-rate
// table: listing, recommendation ranked by average first-2-year cost, and
// side-by-side comparison. Admin mutations are broadcast over WebSocket.
type PackageService struct {
	packageRepo domain.RatePackageRepository
	refRateRepo domain.ReferenceRateRepository
	publisher   websocket.EventPublisher
}

// NewPackageService creates a new PackageService
func NewPackageService(packageRepo domain.RatePackageRepository, refRateRepo domain.ReferenceRateRepository, publisher websocket.EventPublisher) *PackageService {
	if publisher == nil {
		publisher = &websocket.NoOpPublisher{}
	}
	return &PackageService{
		packageRepo: packageRepo,
		refRateRepo: refRateRepo,
		publisher:   publisher,
	}
}

// ResolvedPackage is a rate package with its per-year effective rates
// resolved against the reference-rate table. Display rates are floored at
// zero; the raw average drives ranking and comparison.
type ResolvedPackage struct {
	Package          *domain.RatePackage `json:"package"`
	YearlyRates      []float64           `json:"yearlyRates"`
	ThereafterRate   float64             `json:"thereafterRate"`
	AverageFirst2Yrs float64             `json:"averageFirst2Years"`
}

// GetPackages retrieves all active rate packages
func (s *PackageService) GetPackages() ([]*domain.RatePackage, error) {
	return s.packageRepo.GetAll()
}

// GetPackageByID retrieves a single rate package
func (s *PackageService) GetPackageByID(id int32) (*domain.RatePackage, error) {
	return s.packageRepo.GetByID(id)
}

// CreatePackage creates a new rate package
func (s *PackageService) CreatePackage(pkg *domain.RatePackage) (*domain.RatePackage, error) {
	if err := validatePackage(pkg); err != nil {
		return nil, err
	}
	created, err := s.packageRepo.Create(pkg)
	if err != nil {
		return nil, err
	}
	s.publisher.Publish(websocket.RatePackageCreated(created))
	return created, nil
}

// UpdatePackage updates an existing rate package
func (s *PackageService) UpdatePackage(pkg *domain.RatePackage) (*domain.RatePackage, error) {
	if _, err := s.packageRepo.GetByID(pkg.ID); err != nil {
		return nil, err
	}
	if err := validatePackage(pkg); err != nil {
		return nil, err
	}
	updated, err := s.packageRepo.Update(pkg)
	if err != nil {
		return nil, err
	}
	s.publisher.Publish(websocket.RatePackageUpdated(updated))
	return updated, nil
}

// DeletePackage soft-deletes a rate package
func (s *PackageService) DeletePackage(id int32) error {
	if _, err := s.packageRepo.GetByID(id); err != nil {
		return err
	}
	if err := s.packageRepo.SoftDelete(id); err != nil {
		return err
	}
	s.publisher.Publish(websocket.RatePackageDeleted(map[string]int32{"id": id}))
	return nil
}

// Recommend returns packages matching the loan and property type that
// accept the loan amount, ranked by average first-2-year effective rate
// ascending. Display rates are floored at zero.
func (s *PackageService) Recommend(loanType, propertyType string, loanAmount float64) ([]*ResolvedPackage, error) {
	if loanAmount <= 0 {
		return nil, domain.ErrPrincipalInvalid
	}

	packages, err := s.packageRepo.GetByLoanType(loanType, propertyType)
	if err != nil {
		return nil, err
	}

	refTable, err := s.referenceRateTable()
	if err != nil {
		return nil, err
	}

	var resolved []*ResolvedPackage
	for _, pkg := range packages {
		if pkg.MinLoanAmount.InexactFloat64() > loanAmount {
			continue
		}
		resolved = append(resolved, s.resolve(pkg, refTable, true))
	}

	sort.SliceStable(resolved, func(i, j int) bool {
		return resolved[i].AverageFirst2Yrs < resolved[j].AverageFirst2Yrs
	})
	return resolved, nil
}

// Compare resolves the named packages with raw (unfloored) effective rates
// and builds an amortization schedule for each over the requested tenor.
func (s *PackageService) Compare(packageIDs []int32, loanAmount float64, tenorYears int) ([]*PackageComparison, error) {
	if err := validateLoanInput(loanAmount, tenorYears, 0); err != nil {
		return nil, err
	}

	refTable, err := s.referenceRateTable()
	if err != nil {
		return nil, err
	}

	comparisons := make([]*PackageComparison, 0, len(packageIDs))
	for _, id := range packageIDs {
		pkg, err := s.packageRepo.GetByID(id)
		if err != nil {
			return nil, err
		}

		resolved := s.resolve(pkg, refTable, false)
		schedule := calc.BuildAmortizationSchedule(
			loanAmount,
			packageRateSchedule(resolved, tenorYears),
			tenorYears,
			0,
		)
		comparisons = append(comparisons, &PackageComparison{
			ResolvedPackage: resolved,
			Schedule:        schedule,
		})
	}
	return comparisons, nil
}

// PackageComparison pairs a resolved package with its amortization schedule
type PackageComparison struct {
	*ResolvedPackage
	Schedule calc.AmortizationSchedule `json:"schedule"`
}

func (s *PackageService) referenceRateTable() (map[string]float64, error) {
	rates, err := s.refRateRepo.GetAll()
	if err != nil {
		return nil, err
	}
	table := domain.ReferenceRateTable(rates)
	return table, nil
}

// resolve evaluates all six terms of a package. Unknown reference rates
// resolve to zero; that is surfaced as a warning, not an error, so a stale
// package row cannot take the whole listing down.
func (s *PackageService) resolve(pkg *domain.RatePackage, refTable map[string]float64, floored bool) *ResolvedPackage {
	terms := pkg.Terms()
	s.warnUnknownReferences(pkg, terms, refTable)

	evaluate := calc.EffectiveRate
	if floored {
		evaluate = calc.EffectiveRateFloored
	}

	yearly := make([]float64, 5)
	for y := calc.TermYear(1); y <= 5; y++ {
		yearly[y-1] = evaluate(terms, y, refTable)
	}

	return &ResolvedPackage{
		Package:          pkg,
		YearlyRates:      yearly,
		ThereafterRate:   evaluate(terms, calc.TermYearThereafter, refTable),
		AverageFirst2Yrs: calc.AverageFirst2Years(terms, refTable),
	}
}

func (s *PackageService) warnUnknownReferences(pkg *domain.RatePackage, terms calc.PackageRates, refTable map[string]float64) {
	for year, term := range terms {
		if term.RateType == calc.RateTypeFixed {
			continue
		}
		if _, ok := refTable[term.RateType]; !ok {
			log.Warn().
				Int32("package_id", pkg.ID).
				Int("year", int(year)).
				Str("rate_type", term.RateType).
				Msg("Unknown reference rate, treating as zero")
		}
	}
}

// packageRateSchedule turns resolved yearly rates into the year-keyed rate
// schedule the amortization builder consumes.
func packageRateSchedule(resolved *ResolvedPackage, tenorYears int) calc.RateSchedule {
	entries := make([]calc.YearRate, 0, 6)
	for i, rate := range resolved.YearlyRates {
		entries = append(entries, calc.YearRate{Year: i + 1, Rate: rate})
	}
	entries = append(entries, calc.YearRate{Thereafter: true, Rate: resolved.ThereafterRate})
	return calc.ScheduledRates(entries)
}

func validatePackage(pkg *domain.RatePackage) error {
	if pkg.BankID <= 0 || pkg.Name == "" {
		return domain.ErrInvalidInput
	}
	switch pkg.LoanType {
	case domain.LoanTypeNewPurchase, domain.LoanTypeRefinance, domain.LoanTypeBUC:
	default:
		return domain.ErrInvalidInput
	}
	switch pkg.PropertyType {
	case domain.PropertyTypePrivate, domain.PropertyTypeHDB, domain.PropertyTypeEC:
	default:
		return domain.ErrInvalidInput
	}
	return nil
}
