package accounting

import (
	"testing"

	"github.com/quintalabs/bizcore/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func debitLine(accountID string, amount int64) domain.JournalLine {
	return domain.JournalLine{AccountID: accountID, Debit: decimal.NewFromInt(amount), Credit: decimal.Zero}
}

func creditLine(accountID string, amount int64) domain.JournalLine {
	return domain.JournalLine{AccountID: accountID, Debit: decimal.Zero, Credit: decimal.NewFromInt(amount)}
}

func TestSignedAmount(t *testing.T) {
	tests := []struct {
		name        string
		line        domain.JournalLine
		accountType domain.AccountType
		expected    int64
	}{
		{"debit to asset increases", debitLine("a", 100), domain.Asset, 100},
		{"credit to asset decreases", creditLine("a", 100), domain.Asset, -100},
		{"debit to expense increases", debitLine("a", 50), domain.Expense, 50},
		{"credit to expense decreases", creditLine("a", 50), domain.Expense, -50},
		{"debit to liability decreases", debitLine("a", 75), domain.Liability, -75},
		{"credit to liability increases", creditLine("a", 75), domain.Liability, 75},
		{"debit to equity decreases", debitLine("a", 30), domain.Equity, -30},
		{"credit to equity increases", creditLine("a", 30), domain.Equity, 30},
		{"debit to revenue decreases", debitLine("a", 200), domain.Revenue, -200},
		{"credit to revenue increases", creditLine("a", 200), domain.Revenue, 200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			signed, err := SignedAmount(tt.line, tt.accountType)
			require.NoError(t, err)
			assert.True(t, signed.Equal(decimal.NewFromInt(tt.expected)), "expected %d, got %s", tt.expected, signed)
		})
	}
}

func TestSignedAmountUnknownType(t *testing.T) {
	_, err := SignedAmount(debitLine("a", 10), domain.AccountType("BOGUS"))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown account type")
}

func TestTotals(t *testing.T) {
	lines := []domain.JournalLine{
		debitLine("a", 60),
		debitLine("b", 40),
		creditLine("c", 100),
	}

	debits, credits := Totals(lines)
	assert.True(t, debits.Equal(decimal.NewFromInt(100)))
	assert.True(t, credits.Equal(decimal.NewFromInt(100)))
}

func TestValidateLines(t *testing.T) {
	t.Run("valid pair", func(t *testing.T) {
		err := ValidateLines([]domain.JournalLine{debitLine("a", 100), creditLine("b", 100)})
		assert.NoError(t, err)
	})

	t.Run("fewer than two lines", func(t *testing.T) {
		err := ValidateLines([]domain.JournalLine{debitLine("a", 100)})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "at least two lines")
	})

	t.Run("single account on both sides", func(t *testing.T) {
		err := ValidateLines([]domain.JournalLine{debitLine("a", 100), creditLine("a", 100)})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "two different accounts")
	})

	t.Run("both debit and credit set", func(t *testing.T) {
		bad := domain.JournalLine{AccountID: "a", Debit: decimal.NewFromInt(10), Credit: decimal.NewFromInt(10)}
		err := ValidateLines([]domain.JournalLine{bad, creditLine("b", 10)})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "exactly one of debit or credit")
	})

	t.Run("neither side set", func(t *testing.T) {
		empty := domain.JournalLine{AccountID: "a", Debit: decimal.Zero, Credit: decimal.Zero}
		err := ValidateLines([]domain.JournalLine{empty, creditLine("b", 10)})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "exactly one of debit or credit")
	})

	t.Run("negative amount", func(t *testing.T) {
		negative := domain.JournalLine{AccountID: "a", Debit: decimal.NewFromInt(-5), Credit: decimal.Zero}
		err := ValidateLines([]domain.JournalLine{negative, creditLine("b", 5)})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "must not be negative")
	})
}

func TestBalanceChanges(t *testing.T) {
	lines := []domain.JournalLine{
		debitLine("cash", 100),
		debitLine("cash", 50),
		creditLine("revenue", 150),
	}
	accountTypes := map[string]domain.AccountType{
		"cash":    domain.Asset,
		"revenue": domain.Revenue,
	}

	changes, err := BalanceChanges(lines, accountTypes)
	require.NoError(t, err)
	assert.Len(t, changes, 2)
	assert.True(t, changes["cash"].Equal(decimal.NewFromInt(150)), "repeated lines against one account must aggregate")
	assert.True(t, changes["revenue"].Equal(decimal.NewFromInt(150)))
}

func TestBalanceChangesMissingAccountType(t *testing.T) {
	lines := []domain.JournalLine{debitLine("ghost", 10), creditLine("cash", 10)}
	_, err := BalanceChanges(lines, map[string]domain.AccountType{"cash": domain.Asset})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "account type not found")
}
