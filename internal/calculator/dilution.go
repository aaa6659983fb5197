package calculator

import (
	"errors"
	"fmt"
	"math"
)

// maxExactShares is the largest share count float64 represents without gaps.
const maxExactShares = 1 << 53

// ErrInvalidInput is matched by every *InvalidInputError via errors.Is.
var ErrInvalidInput = errors.New("invalid input")

// InvalidInputError reports which input field was rejected and why.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

// Is reports whether target is ErrInvalidInput.
func (e *InvalidInputError) Is(target error) bool {
	return target == ErrInvalidInput
}

// Input holds the four values a dilution calculation is made from.
// Share counts are float64 so that callers decoding JSON or form text can
// pass them through unchanged; they must still be whole numbers.
type Input struct {
	InitialShares    float64
	YourShares       float64
	CompanyValuation float64
	InvestmentAmount float64
}

// Defaults is the example round calculator forms start with.
var Defaults = Input{
	InitialShares:    1_000_000,
	YourShares:       50_000,
	CompanyValuation: 100_000_000,
	InvestmentAmount: 50_000_000,
}

// DilutionResult is the outcome of one financing round applied to one holder.
type DilutionResult struct {
	InitialShares             float64
	YourShares                float64
	EquityPercentage          float64
	CompanyValuation          float64
	NewInvestmentAmount       float64
	PostMoneyValuation        float64
	PricePerShare             float64
	NewSharesIssued           float64
	TotalSharesAfterDilution  float64
	NewEquityPercentage       float64
	EquityValueBeforeDilution float64
	EquityValueAfterDilution  float64
}

// DilutionPoints is the drop in ownership, in percentage points.
func (r DilutionResult) DilutionPoints() float64 {
	return r.EquityPercentage - r.NewEquityPercentage
}

// InvestorPercentage is the new investor's stake after the round.
func (r DilutionResult) InvestorPercentage() float64 {
	return r.NewInvestmentAmount / r.PostMoneyValuation * 100
}

// Calculate computes how a new investment round dilutes a holder's stake.
//
// The steps run in a fixed order so results are reproducible bit for bit:
//
//	equity%      = yourShares / initialShares × 100
//	postMoney    = valuation + investment
//	price        = valuation / initialShares
//	newShares    = investment / price
//	totalShares  = initialShares + newShares
//	newEquity%   = yourShares / totalShares × 100
//	valueBefore  = equity%/100 × valuation
//	valueAfter   = newEquity%/100 × postMoney
func Calculate(in Input) (DilutionResult, error) {
	if err := Validate(in); err != nil {
		return DilutionResult{}, err
	}

	equityPercentage := in.YourShares / in.InitialShares * 100
	postMoneyValuation := in.CompanyValuation + in.InvestmentAmount
	pricePerShare := in.CompanyValuation / in.InitialShares
	newSharesIssued := in.InvestmentAmount / pricePerShare
	totalSharesAfterDilution := in.InitialShares + newSharesIssued
	newEquityPercentage := in.YourShares / totalSharesAfterDilution * 100
	equityValueBeforeDilution := equityPercentage / 100 * in.CompanyValuation
	equityValueAfterDilution := newEquityPercentage / 100 * postMoneyValuation

	if !isFinite(postMoneyValuation) || !isFinite(equityValueAfterDilution) {
		return DilutionResult{}, &InvalidInputError{Field: "investmentAmount", Reason: "is too large"}
	}
	if pricePerShare == 0 || !isFinite(newSharesIssued) || !isFinite(totalSharesAfterDilution) {
		return DilutionResult{}, &InvalidInputError{Field: "companyValuation", Reason: "is too small for the share count"}
	}
	if newEquityPercentage == 0 {
		return DilutionResult{}, &InvalidInputError{Field: "investmentAmount", Reason: "is too large"}
	}
	// A round must dilute: below half an ulp of initialShares the new
	// shares vanish when added.
	if totalSharesAfterDilution == in.InitialShares || newEquityPercentage >= equityPercentage {
		return DilutionResult{}, &InvalidInputError{Field: "investmentAmount", Reason: "is too small to issue shares"}
	}

	return DilutionResult{
		InitialShares:             in.InitialShares,
		YourShares:                in.YourShares,
		EquityPercentage:          equityPercentage,
		CompanyValuation:          in.CompanyValuation,
		NewInvestmentAmount:       in.InvestmentAmount,
		PostMoneyValuation:        postMoneyValuation,
		PricePerShare:             pricePerShare,
		NewSharesIssued:           newSharesIssued,
		TotalSharesAfterDilution:  totalSharesAfterDilution,
		NewEquityPercentage:       newEquityPercentage,
		EquityValueBeforeDilution: equityValueBeforeDilution,
		EquityValueAfterDilution:  equityValueAfterDilution,
	}, nil
}

// Validate checks the inputs field by field and returns the first failure.
func Validate(in Input) error {
	if errs := ValidationErrors(in); len(errs) > 0 {
		return errs[0]
	}
	return nil
}

// ValidationErrors returns every failing field, in input order.
// Forms use it to flag all bad fields at once.
func ValidationErrors(in Input) []*InvalidInputError {
	var errs []*InvalidInputError

	initialOK := isShareCount(in.InitialShares)
	if !initialOK {
		errs = append(errs, &InvalidInputError{Field: "initialShares", Reason: "must be a positive integer"})
	}
	if !isShareCount(in.YourShares) {
		errs = append(errs, &InvalidInputError{Field: "yourShares", Reason: "must be a positive integer"})
	} else if initialOK && in.YourShares > in.InitialShares {
		errs = append(errs, &InvalidInputError{Field: "yourShares", Reason: "must not exceed initialShares"})
	}
	if !isPositive(in.CompanyValuation) {
		errs = append(errs, &InvalidInputError{Field: "companyValuation", Reason: "must be positive"})
	}
	if !isPositive(in.InvestmentAmount) {
		errs = append(errs, &InvalidInputError{Field: "investmentAmount", Reason: "must be positive"})
	}

	return errs
}

func isShareCount(v float64) bool {
	return isPositive(v) && v == math.Trunc(v) && v <= maxExactShares
}

func isPositive(v float64) bool {
	return isFinite(v) && v > 0
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
