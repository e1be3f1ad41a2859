package domain

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InstallmentStrideDays is the fixed spacing between installment dates.
// It is a 30-day stride, not a calendar month.
const InstallmentStrideDays = 30

// ValidateInstallmentCount accepts 0 (no installments) or 2..MaxInstallmentCount
func ValidateInstallmentCount(n int) error {
	if n == 0 {
		return nil
	}
	if n < MinInstallmentGroupLength || n > MaxInstallmentCount {
		return ErrInvalidInstallmentCount
	}
	return nil
}

// SplitAmount divides amount into n parts in minor units (cents). The first
// remainder parts carry one extra cent, so the parts always sum to amount.
// amount must already be rounded to two decimal places and hold at least one
// cent per part.
func SplitAmount(amount decimal.Decimal, n int) ([]decimal.Decimal, error) {
	if n < 1 {
		return nil, ErrInvalidInstallmentCount
	}
	cents := amount.Shift(2).IntPart()
	if cents < int64(n) {
		return nil, ErrInvalidAmount
	}

	base := cents / int64(n)
	remainder := cents % int64(n)

	parts := make([]decimal.Decimal, n)
	for i := range parts {
		c := base
		if int64(i) < remainder {
			c++
		}
		parts[i] = decimal.New(c, -2)
	}
	return parts, nil
}

// ExpandInstallments turns one logical purchase into n dated rows sharing groupID
func ExpandInstallments(base *Transaction, n int, groupID uuid.UUID) ([]*Transaction, error) {
	amounts, err := SplitAmount(base.Amount, n)
	if err != nil {
		return nil, err
	}

	rows := make([]*Transaction, n)
	for i := 1; i <= n; i++ {
		gid := groupID
		rows[i-1] = &Transaction{
			TenantID:           base.TenantID,
			CategoryID:         base.CategoryID,
			Amount:             amounts[i-1],
			Date:               base.Date.AddDate(0, 0, (i-1)*InstallmentStrideDays),
			Kind:               base.Kind,
			Description:        strings.TrimSpace(fmt.Sprintf("%s (%d/%d)", base.Description, i, n)),
			InstallmentIndex:   int32(i),
			InstallmentCount:   int32(n),
			InstallmentGroupID: &gid,
		}
	}
	return rows, nil
}
