package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateInstallmentCount(t *testing.T) {
	tests := []struct {
		name    string
		n       int
		wantErr bool
	}{
		{"zero means no installments", 0, false},
		{"one is rejected", 1, true},
		{"negative is rejected", -3, true},
		{"two is the minimum group", 2, false},
		{"upper bound", MaxInstallmentCount, false},
		{"above upper bound", MaxInstallmentCount + 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateInstallmentCount(tt.n)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidInstallmentCount)
				assert.ErrorIs(t, err, ErrInvalidInput)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSplitAmount_Even(t *testing.T) {
	parts, err := SplitAmount(decimal.RequireFromString("300.00"), 3)
	require.NoError(t, err)
	require.Len(t, parts, 3)
	for _, p := range parts {
		assert.Equal(t, "100.00", p.StringFixed(2))
	}
}

func TestSplitAmount_RemainderGoesToFirstParts(t *testing.T) {
	parts, err := SplitAmount(decimal.RequireFromString("100.00"), 3)
	require.NoError(t, err)
	assert.Equal(t, "33.34", parts[0].StringFixed(2))
	assert.Equal(t, "33.33", parts[1].StringFixed(2))
	assert.Equal(t, "33.33", parts[2].StringFixed(2))
}

func TestSplitAmount_SumIsExact(t *testing.T) {
	amounts := []string{"0.07", "1.00", "10.01", "99.99", "1234.56", "100000.03"}
	for _, a := range amounts {
		amount := decimal.RequireFromString(a)
		for n := 2; n <= 7; n++ {
			parts, err := SplitAmount(amount, n)
			if amount.Shift(2).IntPart() < int64(n) {
				assert.ErrorIs(t, err, ErrInvalidAmount, "amount %s n %d", a, n)
				continue
			}
			require.NoError(t, err)
			sum := decimal.Zero
			for _, p := range parts {
				assert.True(t, p.GreaterThan(decimal.Zero))
				sum = sum.Add(p)
			}
			assert.True(t, sum.Equal(amount), "amount %s n %d sum %s", a, n, sum)
		}
	}
}

func TestSplitAmount_TooSmall(t *testing.T) {
	_, err := SplitAmount(decimal.RequireFromString("0.01"), 2)
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestExpandInstallments_ThreeWaySplit(t *testing.T) {
	groupID := uuid.New()
	base := &Transaction{
		TenantID:    1,
		CategoryID:  7,
		Amount:      decimal.RequireFromString("300.00"),
		Date:        time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		Kind:        KindExpense,
		Description: "Laptop",
	}

	rows, err := ExpandInstallments(base, 3, groupID)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	expectedDates := []string{"2024-01-15", "2024-02-14", "2024-03-15"}
	expectedDescriptions := []string{"Laptop (1/3)", "Laptop (2/3)", "Laptop (3/3)"}

	sum := decimal.Zero
	for i, row := range rows {
		assert.Equal(t, "100.00", row.Amount.StringFixed(2))
		assert.Equal(t, expectedDates[i], row.Date.Format("2006-01-02"))
		assert.Equal(t, expectedDescriptions[i], row.Description)
		assert.Equal(t, int32(i+1), row.InstallmentIndex)
		assert.Equal(t, int32(3), row.InstallmentCount)
		require.NotNil(t, row.InstallmentGroupID)
		assert.Equal(t, groupID, *row.InstallmentGroupID)
		assert.Equal(t, int32(7), row.CategoryID)
		assert.Equal(t, KindExpense, row.Kind)
		sum = sum.Add(row.Amount)
	}
	assert.Equal(t, "300.00", sum.StringFixed(2))
}

func TestExpandInstallments_IndicesAreContiguous(t *testing.T) {
	base := &Transaction{
		Amount: decimal.RequireFromString("1000.01"),
		Date:   time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC),
		Kind:   KindExpense,
	}

	for n := 2; n <= 24; n++ {
		rows, err := ExpandInstallments(base, n, uuid.New())
		require.NoError(t, err)

		seen := make(map[int32]bool)
		for _, row := range rows {
			assert.False(t, seen[row.InstallmentIndex], "duplicate index %d", row.InstallmentIndex)
			seen[row.InstallmentIndex] = true
		}
		for i := int32(1); i <= int32(n); i++ {
			assert.True(t, seen[i], "missing index %d for n=%d", i, n)
		}
	}
}

func TestExpandInstallments_EmptyDescription(t *testing.T) {
	base := &Transaction{
		Amount: decimal.RequireFromString("20.00"),
		Date:   time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		Kind:   KindExpense,
	}

	rows, err := ExpandInstallments(base, 2, uuid.New())
	require.NoError(t, err)
	assert.Equal(t, "(1/2)", rows[0].Description)
	assert.Equal(t, "(2/2)", rows[1].Description)
}
