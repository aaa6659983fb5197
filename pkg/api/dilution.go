// Package api defines the dilutionwise.v1 wire messages.
//
// Messages are plain Go structs carried as JSON by Codec. Field names follow
// the protobuf JSON mapping (lowerCamelCase) so browser clients written
// against a .proto schema keep working.
package api

import "time"

// CalculateRequest carries the four calculator inputs.
type CalculateRequest struct {
	InitialShares    float64 `json:"initialShares"`
	YourShares       float64 `json:"yourShares"`
	CompanyValuation float64 `json:"companyValuation"`
	InvestmentAmount float64 `json:"investmentAmount"`
}

// DilutionResult mirrors calculator.DilutionResult.
type DilutionResult struct {
	InitialShares             float64 `json:"initialShares"`
	YourShares                float64 `json:"yourShares"`
	EquityPercentage          float64 `json:"equityPercentage"`
	CompanyValuation          float64 `json:"companyValuation"`
	NewInvestmentAmount       float64 `json:"newInvestmentAmount"`
	PostMoneyValuation        float64 `json:"postMoneyValuation"`
	PricePerShare             float64 `json:"pricePerShare"`
	NewSharesIssued           float64 `json:"newSharesIssued"`
	TotalSharesAfterDilution  float64 `json:"totalSharesAfterDilution"`
	NewEquityPercentage       float64 `json:"newEquityPercentage"`
	EquityValueBeforeDilution float64 `json:"equityValueBeforeDilution"`
	EquityValueAfterDilution  float64 `json:"equityValueAfterDilution"`
}

// Summary holds display strings for the result cards.
type Summary struct {
	Currency           string `json:"currency"`
	EquityBefore       string `json:"equityBefore"`
	EquityAfter        string `json:"equityAfter"`
	ValueBefore        string `json:"valueBefore"`
	ValueAfter         string `json:"valueAfter"`
	PostMoneyValuation string `json:"postMoneyValuation"`
	NewSharesIssued    string `json:"newSharesIssued"`
	PricePerShare      string `json:"pricePerShare"`
	Text               string `json:"text"`
}

type CalculateResponse struct {
	Result  *DilutionResult `json:"result"`
	Summary *Summary        `json:"summary"`
}

type ChartSlice struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
	Color string  `json:"color"`
	Label string  `json:"label"`
}

type ChartBar struct {
	Name             string  `json:"name"`
	EquityPercentage float64 `json:"equityPercentage"`
	YourValue        float64 `json:"yourValue"`
	CompanyValue     float64 `json:"companyValue"`
	YourValueLabel   string  `json:"yourValueLabel"`
	CompanyLabel     string  `json:"companyValueLabel"`
}

type ChartDataResponse struct {
	Before     []*ChartSlice `json:"before"`
	After      []*ChartSlice `json:"after"`
	Comparison []*ChartBar   `json:"comparison"`
}

type ReportLinkResponse struct {
	Url       string    `json:"url"`
	Filename  string    `json:"filename"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type SendReportRequest struct {
	To      string            `json:"to"`
	Subject string            `json:"subject,omitempty"`
	Message string            `json:"message,omitempty"`
	Input   *CalculateRequest `json:"input"`
}

type SendReportResponse struct {
	DeliveryId string `json:"deliveryId"`
	Status     string `json:"status"`
}

type ListDeliveriesRequest struct {
	Limit int32 `json:"limit,omitempty"`
}

type Delivery struct {
	Id        string    `json:"id"`
	Recipient string    `json:"recipient"`
	Subject   string    `json:"subject"`
	Status    string    `json:"status"`
	Error     string    `json:"error,omitempty"`
	Notifier  string    `json:"notifier"`
	CreatedAt time.Time `json:"createdAt"`
}

type ListDeliveriesResponse struct {
	Deliveries []*Delivery `json:"deliveries"`
}
