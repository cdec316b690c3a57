package calc

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMilestoneCatalogue_PercentagesSumTo100(t *testing.T) {
	s := BuildProgressiveSchedule(800000, 600000, 25, FlatRate(3), nil, nil)

	sum := 0.0
	for _, m := range s.Milestones {
		sum += m.Percent
	}
	assert.Equal(t, 100.0, sum)
}

func TestBuildProgressiveSchedule_DefaultTimeline(t *testing.T) {
	// 75% LTV on a 1M purchase with no dates supplied.
	s := BuildProgressiveSchedule(1000000, 750000, 25, FlatRate(4), nil, nil)

	assert.Equal(t, 37, s.Timeline.ConstructionMonths)
	assert.False(t, s.Timeline.Calculated)

	otp, snp := s.Milestones[0], s.Milestones[1]
	assert.True(t, otp.CashOnly)
	assert.True(t, snp.CashOnly)
	assert.Zero(t, otp.BankLoanAmount)
	assert.Zero(t, snp.BankLoanAmount)
	assert.Equal(t, 50000.0, otp.CashCPFAmount)
	assert.Equal(t, 150000.0, snp.CashCPFAmount)

	// Late-stage milestones fit under the loan ceiling and are fully funded.
	top := s.Milestones[len(s.Milestones)-2]
	csc := s.Milestones[len(s.Milestones)-1]
	assert.True(t, top.IsTOP)
	assert.True(t, csc.IsCSC)
	assert.InDelta(t, 250000, top.BankLoanAmount, 0.01)
	assert.InDelta(t, 150000, csc.BankLoanAmount, 0.01)
}

func TestBuildProgressiveSchedule_LoanCeiling(t *testing.T) {
	cases := []struct {
		name          string
		purchasePrice float64
		loanAmount    float64
	}{
		{"75 percent", 1000000, 750000},
		{"55 percent", 1500000, 825000},
		{"20 percent", 900000, 180000},
		{"80 percent", 1200000, 960000},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			s := BuildProgressiveSchedule(c.purchasePrice, c.loanAmount, 30, FlatRate(3.5), nil, nil)

			var totalLoan float64
			for _, m := range s.Milestones {
				totalLoan += m.BankLoanAmount
				assert.InDelta(t, m.StageAmount, m.BankLoanAmount+m.CashCPFAmount, 1e-6)
			}
			// The schedule disburses the full approved amount, never more.
			assert.InDelta(t, c.loanAmount, totalLoan, 0.01)
			assert.InDelta(t, c.loanAmount, s.TotalBankLoan, 0.01)
			assert.InDelta(t, c.purchasePrice-c.loanAmount, s.TotalCashCPF, 0.01)
		})
	}
}

func TestBuildProgressiveSchedule_DrawdownMonths(t *testing.T) {
	s := BuildProgressiveSchedule(1000000, 750000, 25, FlatRate(4), nil, nil)

	// Default 37-month window gives stage durations 10,10,5,5,5,5. The first
	// funded stage draws at month 1 and each later stage advances by the
	// prior stage's duration.
	require.Len(t, s.Drawdowns, 8)
	months := make([]int, len(s.Drawdowns))
	for i, d := range s.Drawdowns {
		months[i] = d.BankLoanMonth
	}
	assert.Equal(t, []int{1, 11, 21, 26, 31, 36, 41, 53}, months)
}

func TestBuildProgressiveSchedule_CSCDrawdownOffset(t *testing.T) {
	// Whatever the timeline, CSC draws exactly twelve months after TOP.
	for _, loan := range []float64{400000, 600000, 750000} {
		s := BuildProgressiveSchedule(1000000, loan, 25, FlatRate(3), nil, nil)

		var topMonth, cscMonth *int
		for _, m := range s.Milestones {
			if m.IsTOP {
				topMonth = m.BankLoanMonth
			}
			if m.IsCSC {
				cscMonth = m.BankLoanMonth
			}
		}
		require.NotNil(t, topMonth)
		require.NotNil(t, cscMonth)
		assert.Equal(t, *topMonth+12, *cscMonth)
	}
}

func TestBuildProgressiveSchedule_MonthlyRecurrence(t *testing.T) {
	s := BuildProgressiveSchedule(1000000, 750000, 25, FlatRate(4), nil, nil)

	require.NotEmpty(t, s.Monthly)
	first := s.Monthly[0]
	assert.Equal(t, 1, first.Month)
	assert.InDelta(t, 50000, first.Drawdown, 0.01)
	assert.InDelta(t, 50000, first.BeginningBalance, 0.01)
	// Interest accrues on the post-drawdown balance.
	assert.InDelta(t, 50000*0.04/12, first.Interest, 1e-6)

	for i, row := range s.Monthly {
		assert.GreaterOrEqual(t, row.EndingBalance, 0.0, "month %d", row.Month)
		expected := math.Max(0, row.BeginningBalance-row.Principal)
		assert.InDelta(t, expected, row.EndingBalance, 1e-9, "month %d", row.Month)
		if i > 0 && row.Drawdown == 0 {
			assert.LessOrEqual(t, row.EndingBalance, row.BeginningBalance, "month %d", row.Month)
		}
	}

	last := s.Monthly[len(s.Monthly)-1]
	assert.LessOrEqual(t, last.EndingBalance, balanceEpsilon+1e-6)
}

func TestBuildProgressiveSchedule_ZeroLoan(t *testing.T) {
	s := BuildProgressiveSchedule(1000000, 0, 25, FlatRate(4), nil, nil)

	assert.Empty(t, s.Drawdowns)
	assert.Empty(t, s.Monthly)
	assert.Zero(t, s.TotalBankLoan)
	assert.Zero(t, s.TotalInterest)
	assert.InDelta(t, 1000000, s.TotalCashCPF, 0.01)
	assert.InDelta(t, 1000000, s.TotalPayable, 0.01)
}

func TestBuildProgressiveSchedule_Idempotent(t *testing.T) {
	a := BuildProgressiveSchedule(850000, 680000, 30, FlatRate(3.25), nil, nil)
	b := BuildProgressiveSchedule(850000, 680000, 30, FlatRate(3.25), nil, nil)

	assert.Equal(t, a.TotalBankLoan, b.TotalBankLoan)
	assert.Equal(t, a.TotalInterest, b.TotalInterest)
	assert.Equal(t, a.Drawdowns, b.Drawdowns)
	assert.Equal(t, a.Monthly, b.Monthly)
}
