package loan

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// ComputeLTV returns the loan-to-value ratio formatted as a percentage with one
// decimal place ("91.6%"). It reports false when the loan amount is unknown or
// the collateral value is not strictly positive, in which case callers must keep
// whatever LTV was stored before.
func ComputeLTV(loanAmount, collateralValue decimal.NullDecimal) (string, bool) {
	if !loanAmount.Valid || !collateralValue.Valid || !collateralValue.Decimal.IsPositive() {
		return "", false
	}
	ratio := loanAmount.Decimal.Div(collateralValue.Decimal).Mul(hundred).Round(1)
	return ratio.String() + "%", true
}
