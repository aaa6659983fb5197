package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"connectrpc.com/connect"
	"google.golang.org/protobuf/types/known/emptypb"

	"github.com/mmynk/dilutionwise/internal/auth"
	"github.com/mmynk/dilutionwise/internal/calculator"
	"github.com/mmynk/dilutionwise/internal/chart"
	"github.com/mmynk/dilutionwise/internal/format"
	"github.com/mmynk/dilutionwise/internal/metrics"
	"github.com/mmynk/dilutionwise/internal/models"
	"github.com/mmynk/dilutionwise/internal/notify"
	"github.com/mmynk/dilutionwise/internal/report"
	"github.com/mmynk/dilutionwise/internal/storage"
	"github.com/mmynk/dilutionwise/pkg/api"
	"github.com/mmynk/dilutionwise/pkg/api/apiconnect"
)

var (
	errMissingInput     = errors.New("input is required")
	errInvalidRecipient = errors.New("to must be a valid email address")
)

// DilutionDeps are the collaborators of a DilutionService.
type DilutionDeps struct {
	Store     storage.Store
	Notifier  notify.Notifier
	Tokens    *auth.ReportTokens
	Formatter format.Formatter
	Metrics   *metrics.Metrics
	// PublicURL is the externally visible server root used in report links.
	PublicURL string
}

// DilutionService implements the Connect DilutionService
type DilutionService struct {
	apiconnect.UnimplementedDilutionServiceHandler

	store     storage.Store
	notifier  notify.Notifier
	tokens    *auth.ReportTokens
	fmt       format.Formatter
	metrics   *metrics.Metrics
	publicURL string
	now       func() time.Time
}

// NewDilutionService creates a new DilutionService.
func NewDilutionService(deps DilutionDeps) *DilutionService {
	return &DilutionService{
		store:     deps.Store,
		notifier:  deps.Notifier,
		tokens:    deps.Tokens,
		fmt:       deps.Formatter,
		metrics:   deps.Metrics,
		publicURL: strings.TrimRight(deps.PublicURL, "/"),
		now:       time.Now,
	}
}

// calculate runs the calculator and maps invalid input to CodeInvalidArgument.
func (s *DilutionService) calculate(req *api.CalculateRequest) (calculator.DilutionResult, error) {
	if req == nil {
		return calculator.DilutionResult{}, connect.NewError(connect.CodeInvalidArgument, errMissingInput)
	}

	result, err := calculator.Calculate(toInput(req))
	if err != nil {
		s.metrics.Calculations.WithLabelValues(metrics.CalculationInvalid).Inc()
		slog.Debug("Calculation rejected", "error", err)
		return calculator.DilutionResult{}, connect.NewError(connect.CodeInvalidArgument, err)
	}

	s.metrics.Calculations.WithLabelValues(metrics.CalculationOK).Inc()
	return result, nil
}

// Calculate handles a dilution calculation
func (s *DilutionService) Calculate(ctx context.Context, req *connect.Request[api.CalculateRequest]) (*connect.Response[api.CalculateResponse], error) {
	result, err := s.calculate(req.Msg)
	if err != nil {
		return nil, err
	}

	slog.Debug("Calculated dilution",
		"equity_before", result.EquityPercentage,
		"equity_after", result.NewEquityPercentage,
		"post_money", result.PostMoneyValuation,
	)

	rep := report.New(result, s.fmt, s.now())
	return connect.NewResponse(&api.CalculateResponse{
		Result: toAPIResult(result),
		Summary: &api.Summary{
			Currency:           s.fmt.Unit().Code,
			EquityBefore:       s.fmt.Percentage(result.EquityPercentage),
			EquityAfter:        s.fmt.Percentage(result.NewEquityPercentage),
			ValueBefore:        s.fmt.Currency(result.EquityValueBeforeDilution),
			ValueAfter:         s.fmt.Currency(result.EquityValueAfterDilution),
			PostMoneyValuation: s.fmt.Currency(result.PostMoneyValuation),
			NewSharesIssued:    s.fmt.Number(result.NewSharesIssued),
			PricePerShare:      s.fmt.Currency(result.PricePerShare),
			Text:               rep.Summary(),
		},
	}), nil
}

// GetChartData returns pie and bar series for a calculation
func (s *DilutionService) GetChartData(ctx context.Context, req *connect.Request[api.CalculateRequest]) (*connect.Response[api.ChartDataResponse], error) {
	result, err := s.calculate(req.Msg)
	if err != nil {
		return nil, err
	}

	data := chart.FromResult(result)
	resp := &api.ChartDataResponse{
		Before:     s.toAPISlices(data.Before),
		After:      s.toAPISlices(data.After),
		Comparison: make([]*api.ChartBar, len(data.Comparison)),
	}
	for i, bar := range data.Comparison {
		resp.Comparison[i] = &api.ChartBar{
			Name:             bar.Name,
			EquityPercentage: bar.EquityPercentage,
			YourValue:        bar.YourValue,
			CompanyValue:     bar.CompanyValue,
			YourValueLabel:   s.fmt.Compact(bar.YourValue),
			CompanyLabel:     s.fmt.Compact(bar.CompanyValue),
		}
	}

	return connect.NewResponse(resp), nil
}

// CreateReportLink signs the inputs into a short-lived PDF download URL
func (s *DilutionService) CreateReportLink(ctx context.Context, req *connect.Request[api.CalculateRequest]) (*connect.Response[api.ReportLinkResponse], error) {
	result, err := s.calculate(req.Msg)
	if err != nil {
		return nil, err
	}

	token, expiresAt, err := s.tokens.Issue(toInput(req.Msg))
	if err != nil {
		slog.Error("CreateReportLink: failed to issue token", "error", err)
		return nil, connect.NewError(connect.CodeInternal, fmt.Errorf("failed to create report link: %w", err))
	}

	rep := report.New(result, s.fmt, s.now())
	return connect.NewResponse(&api.ReportLinkResponse{
		Url:       s.publicURL + ReportPathPrefix + token,
		Filename:  rep.Filename(),
		ExpiresAt: expiresAt.UTC(),
	}), nil
}

// SendReport emails the rendered report and records the delivery
func (s *DilutionService) SendReport(ctx context.Context, req *connect.Request[api.SendReportRequest]) (*connect.Response[api.SendReportResponse], error) {
	to := strings.TrimSpace(req.Msg.To)
	if _, err := mail.ParseAddress(to); err != nil || to == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, errInvalidRecipient)
	}

	result, err := s.calculate(req.Msg.Input)
	if err != nil {
		return nil, err
	}

	subject := strings.TrimSpace(req.Msg.Subject)
	if subject == "" {
		subject = notify.DefaultSubject
	}
	message := strings.TrimSpace(req.Msg.Message)
	if message == "" {
		message = notify.DefaultMessage
	}

	rep := report.New(result, s.fmt, s.now())
	msg, err := s.buildMessage(rep, to, subject, message)
	if err != nil {
		slog.Error("SendReport: failed to render report", "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	delivery := &models.Delivery{
		Recipient: to,
		Subject:   subject,
		Status:    models.DeliverySent,
		Notifier:  s.notifier.Name(),
	}
	sendErr := s.notifier.Send(ctx, msg)
	if sendErr != nil {
		delivery.Status = models.DeliveryFailed
		delivery.Error = sendErr.Error()
	}
	s.metrics.Deliveries.WithLabelValues(string(delivery.Status)).Inc()

	// Record the attempt even when the request context was cancelled mid-send.
	if err := s.store.CreateDelivery(context.WithoutCancel(ctx), delivery); err != nil {
		slog.Error("SendReport: failed to record delivery", "error", err)
		return nil, connect.NewError(connect.CodeInternal, fmt.Errorf("failed to record delivery: %w", err))
	}

	if sendErr != nil {
		slog.Warn("Report delivery failed",
			"delivery_id", delivery.ID,
			"notifier", delivery.Notifier,
			"error", sendErr,
		)
		return nil, connect.NewError(connect.CodeUnavailable, fmt.Errorf("failed to send report: %w", sendErr))
	}

	slog.Info("Report sent", "delivery_id", delivery.ID, "notifier", delivery.Notifier)
	return connect.NewResponse(&api.SendReportResponse{
		DeliveryId: delivery.ID,
		Status:     string(delivery.Status),
	}), nil
}

// GetDefaults returns the values a fresh form starts with
func (s *DilutionService) GetDefaults(ctx context.Context, req *connect.Request[emptypb.Empty]) (*connect.Response[api.CalculateRequest], error) {
	d := calculator.Defaults
	return connect.NewResponse(&api.CalculateRequest{
		InitialShares:    d.InitialShares,
		YourShares:       d.YourShares,
		CompanyValuation: d.CompanyValuation,
		InvestmentAmount: d.InvestmentAmount,
	}), nil
}

func (s *DilutionService) buildMessage(rep *report.Report, to, subject, message string) (notify.Message, error) {
	htmlReport, err := rep.HTML()
	if err != nil {
		return notify.Message{}, fmt.Errorf("failed to render html: %w", err)
	}

	var pdf bytes.Buffer
	if err := rep.PDF(&pdf); err != nil {
		return notify.Message{}, fmt.Errorf("failed to render pdf: %w", err)
	}

	return notify.Message{
		To:      to,
		Subject: subject,
		Body:    message + "\n\n" + rep.Summary(),
		HTML:    "<p>" + html.EscapeString(message) + "</p>\n" + htmlReport,
		Attachments: []notify.Attachment{{
			Name:        rep.Filename(),
			ContentType: "application/pdf",
			Data:        pdf.Bytes(),
		}},
	}, nil
}

func (s *DilutionService) toAPISlices(slices []chart.Slice) []*api.ChartSlice {
	out := make([]*api.ChartSlice, len(slices))
	for i, sl := range slices {
		out[i] = &api.ChartSlice{
			Name:  sl.Name,
			Value: sl.Value,
			Color: sl.Color,
			Label: format.Percentage(sl.Value),
		}
	}
	return out
}

func toInput(req *api.CalculateRequest) calculator.Input {
	return calculator.Input{
		InitialShares:    req.InitialShares,
		YourShares:       req.YourShares,
		CompanyValuation: req.CompanyValuation,
		InvestmentAmount: req.InvestmentAmount,
	}
}

func toAPIResult(r calculator.DilutionResult) *api.DilutionResult {
	return &api.DilutionResult{
		InitialShares:             r.InitialShares,
		YourShares:                r.YourShares,
		EquityPercentage:          r.EquityPercentage,
		CompanyValuation:          r.CompanyValuation,
		NewInvestmentAmount:       r.NewInvestmentAmount,
		PostMoneyValuation:        r.PostMoneyValuation,
		PricePerShare:             r.PricePerShare,
		NewSharesIssued:           r.NewSharesIssued,
		TotalSharesAfterDilution:  r.TotalSharesAfterDilution,
		NewEquityPercentage:       r.NewEquityPercentage,
		EquityValueBeforeDilution: r.EquityValueBeforeDilution,
		EquityValueAfterDilution:  r.EquityValueAfterDilution,
	}
}
