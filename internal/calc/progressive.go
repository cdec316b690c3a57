package calc

import (
	"math"
	"time"
)

// Milestone is one stage of the progressive payment catalogue with its
// cash/CPF vs bank-loan allocation resolved.
type Milestone struct {
	Label          string  `json:"label"`
	Percent        float64 `json:"percent"`
	CashOnly       bool    `json:"cashOnly"`
	IsTOP          bool    `json:"isTop"`
	IsCSC          bool    `json:"isCsc"`
	Duration       int     `json:"duration"`    // estimated months until the next stage
	ProjectMonth   int     `json:"projectMonth"` // absolute construction-calendar month
	StageAmount    float64 `json:"stageAmount"`
	BankLoanAmount float64 `json:"bankLoanAmount"`
	CashCPFAmount  float64 `json:"cashCpfAmount"`
	BankLoanMonth  *int    `json:"bankLoanMonth,omitempty"` // relative loan-servicing month, nil without a drawdown
}

// DrawdownEntry is one bank-loan disbursement in loan-servicing time.
type DrawdownEntry struct {
	Label         string  `json:"label"`
	BankLoanMonth int     `json:"bankLoanMonth"`
	Amount        float64 `json:"amount"`
	ProjectMonth  int     `json:"projectMonth"`
}

// ProgressiveMonth is one row of the progressive monthly servicing schedule.
// Drawdowns are added to the outstanding balance before interest accrues for
// the month.
type ProgressiveMonth struct {
	Month            int     `json:"month"`
	Rate             float64 `json:"rate"`
	Drawdown         float64 `json:"drawdown"`
	BeginningBalance float64 `json:"beginningBalance"`
	Payment          float64 `json:"payment"`
	Interest         float64 `json:"interest"`
	Principal        float64 `json:"principal"`
	EndingBalance    float64 `json:"endingBalance"`
}

// ProgressiveSchedule is the full result of BuildProgressiveSchedule.
type ProgressiveSchedule struct {
	Timeline      Timeline           `json:"timeline"`
	Milestones    []Milestone        `json:"milestones"`
	Drawdowns     []DrawdownEntry    `json:"drawdowns"`
	Monthly       []ProgressiveMonth `json:"monthly"`
	TotalBankLoan float64            `json:"totalBankLoan"`
	TotalCashCPF  float64            `json:"totalCashCpf"`
	TotalInterest float64            `json:"totalInterest"`
	TotalPayable  float64            `json:"totalPayable"`
}

type milestoneSpec struct {
	label    string
	percent  float64
	cashOnly bool
	isTOP    bool
	isCSC    bool
}

// milestoneCatalogue is the fixed BUC payment plan: two cash-only
// preliminaries, six weighted construction stages, TOP and CSC.
// Percentages sum to 100.
var milestoneCatalogue = []milestoneSpec{
	{label: "Grant of Option to Purchase", percent: 5, cashOnly: true},
	{label: "Signing of Sale & Purchase Agreement", percent: 15, cashOnly: true},
	{label: "Completion of foundation work", percent: 10},
	{label: "Completion of reinforced concrete framework", percent: 10},
	{label: "Completion of partition walls", percent: 5},
	{label: "Completion of roofing and ceiling", percent: 5},
	{label: "Completion of door and window frames, electrical wiring and plumbing", percent: 5},
	{label: "Completion of car park, roads and drains", percent: 5},
	{label: "Temporary Occupation Permit", percent: 25, isTOP: true},
	{label: "Certificate of Statutory Completion", percent: 15, isCSC: true},
}

// BuildProgressiveSchedule allocates each BUC milestone between cash/CPF and
// bank loan, derives the bank-loan drawdown month per milestone, then runs
// the monthly servicing recurrence with drawdowns landing mid-schedule.
func BuildProgressiveSchedule(purchasePrice, loanAmount float64, tenorYears int, rates RateSchedule, otp, top *time.Time) ProgressiveSchedule {
	timeline := DeriveTimeline(otp, top)
	milestones := buildMilestones(purchasePrice, timeline)
	allocateBankLoan(milestones, purchasePrice, loanAmount)
	drawdowns := deriveDrawdownMonths(milestones)

	s := ProgressiveSchedule{
		Timeline:   timeline,
		Milestones: milestones,
		Drawdowns:  drawdowns,
	}
	for _, m := range milestones {
		s.TotalBankLoan += m.BankLoanAmount
		s.TotalCashCPF += m.CashCPFAmount
	}

	s.Monthly = buildProgressiveMonthly(drawdowns, tenorYears, rates)
	for _, row := range s.Monthly {
		s.TotalInterest += row.Interest
	}
	s.TotalPayable = purchasePrice + s.TotalInterest
	return s
}

// buildMilestones instantiates the fixed catalogue against a purchase price
// and the derived timeline. Project months: OTP at 1, S&P at 2, stages
// advance cumulatively by their estimated durations, TOP sits at the end of
// construction and CSC twelve months after.
func buildMilestones(purchasePrice float64, timeline Timeline) []Milestone {
	durations := MilestoneDurations(timeline.ConstructionMonths)

	milestones := make([]Milestone, len(milestoneCatalogue))
	stageIdx := 0
	running := 2 // after the S&P month
	for i, entry := range milestoneCatalogue {
		m := Milestone{
			Label:       entry.label,
			Percent:     entry.percent,
			CashOnly:    entry.cashOnly,
			IsTOP:       entry.isTOP,
			IsCSC:       entry.isCSC,
			StageAmount: purchasePrice * entry.percent / 100,
		}
		switch {
		case entry.cashOnly:
			m.ProjectMonth = i + 1 // OTP month 1, S&P month 2
		case entry.isTOP:
			m.ProjectMonth = 2 + timeline.ConstructionMonths
		case entry.isCSC:
			m.ProjectMonth = 2 + timeline.ConstructionMonths + 12
		default:
			m.Duration = durations[stageIdx]
			running += m.Duration
			m.ProjectMonth = running
			stageIdx++
		}
		milestones[i] = m
	}
	return milestones
}

// allocateBankLoan applies the allocation rule per non-cash-only milestone in
// order: once the remaining stages fit entirely within the loan ceiling the
// milestone is fully loan-funded; before that, the loan covers only the part
// of cumulative spend that exceeds the buyer's own cash/CPF budget.
func allocateBankLoan(milestones []Milestone, purchasePrice, loanAmount float64) {
	cashBudget := purchasePrice - loanAmount

	cumulative := 0.0
	for i := range milestones {
		m := &milestones[i]
		cumulative += m.StageAmount
		if m.CashOnly {
			m.CashCPFAmount = m.StageAmount
			continue
		}

		remaining := 0.0
		for _, later := range milestones[i:] {
			if !later.CashOnly {
				remaining += later.StageAmount
			}
		}

		var loan float64
		switch {
		case remaining <= loanAmount:
			loan = m.StageAmount
		case cumulative > cashBudget:
			loan = math.Min(math.Max(cumulative-cashBudget, 0), m.StageAmount)
		}
		if loan < 0.01 {
			loan = 0
		}
		m.BankLoanAmount = loan
		m.CashCPFAmount = m.StageAmount - loan
	}
}

// deriveDrawdownMonths assigns relative loan-servicing months to milestones
// with a positive loan amount. The chain advances from the nearest prior
// milestone that received a month, by that milestone's estimated duration;
// CSC is pinned to twelve months after TOP.
func deriveDrawdownMonths(milestones []Milestone) []DrawdownEntry {
	var drawdowns []DrawdownEntry
	var prevMonth *int
	prevDuration := 0
	var topMonth *int

	for i := range milestones {
		m := &milestones[i]
		if m.CashOnly || m.BankLoanAmount <= 0 {
			continue
		}

		var month int
		switch {
		case m.IsCSC && topMonth != nil:
			month = *topMonth + 12
		case prevMonth == nil:
			month = 1
		default:
			month = *prevMonth + prevDuration
		}

		m.BankLoanMonth = &month
		if m.IsTOP {
			topMonth = &month
		}
		if !m.IsCSC {
			prevMonth = &month
			prevDuration = m.Duration
		}

		drawdowns = append(drawdowns, DrawdownEntry{
			Label:         m.Label,
			BankLoanMonth: month,
			Amount:        m.BankLoanAmount,
			ProjectMonth:  m.ProjectMonth,
		})
	}
	return drawdowns
}

// buildProgressiveMonthly runs the servicing recurrence over the loan tenor.
// Each month's payment re-amortizes the current balance over the months
// remaining at the current effective rate.
func buildProgressiveMonthly(drawdowns []DrawdownEntry, tenorYears int, rates RateSchedule) []ProgressiveMonth {
	if len(drawdowns) == 0 {
		return nil
	}

	drawdownByMonth := make(map[int]float64, len(drawdowns))
	firstDrawdown := drawdowns[0].BankLoanMonth
	for _, d := range drawdowns {
		drawdownByMonth[d.BankLoanMonth] += d.Amount
		if d.BankLoanMonth < firstDrawdown {
			firstDrawdown = d.BankLoanMonth
		}
	}

	totalMonths := tenorYears * 12
	var rows []ProgressiveMonth
	balance := 0.0

	for month := 1; month <= totalMonths; month++ {
		drawdown := drawdownByMonth[month]
		balance += drawdown
		if balance <= 0 || month < firstDrawdown {
			continue
		}

		rate := rates.RateForYear((month - 1) / 12)
		payment := AnnuityPayment(balance, rate, totalMonths-month+1)
		interest := balance * rate / 100 / 12
		principal := math.Min(payment-interest, balance)

		rows = append(rows, ProgressiveMonth{
			Month:            month,
			Rate:             rate,
			Drawdown:         drawdown,
			BeginningBalance: balance,
			Payment:          payment,
			Interest:         interest,
			Principal:        principal,
			EndingBalance:    math.Max(0, balance-principal),
		})

		balance = math.Max(0, balance-principal)
		if balance <= balanceEpsilon && month >= firstDrawdown {
			break
		}
	}
	return rows
}
