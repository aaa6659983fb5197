// Package apiconnect wires the dilutionwise.v1 services to Connect.
//
// It has the shape of protoc-gen-connect-go output (procedure constants,
// handler and client interfaces, Unimplemented handlers) so the services
// read like any other Connect service, but it is written by hand and
// pins api.Codec on both sides.
package apiconnect

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"connectrpc.com/connect"
	"google.golang.org/protobuf/types/known/emptypb"

	"github.com/mmynk/dilutionwise/pkg/api"
)

const (
	DilutionServiceName = "dilutionwise.v1.DilutionService"
	DeliveryServiceName = "dilutionwise.v1.DeliveryService"
)

const (
	DilutionServiceCalculateProcedure        = "/dilutionwise.v1.DilutionService/Calculate"
	DilutionServiceGetChartDataProcedure     = "/dilutionwise.v1.DilutionService/GetChartData"
	DilutionServiceCreateReportLinkProcedure = "/dilutionwise.v1.DilutionService/CreateReportLink"
	DilutionServiceSendReportProcedure       = "/dilutionwise.v1.DilutionService/SendReport"
	DilutionServiceGetDefaultsProcedure      = "/dilutionwise.v1.DilutionService/GetDefaults"
	DeliveryServiceListDeliveriesProcedure   = "/dilutionwise.v1.DeliveryService/ListDeliveries"
)

// DilutionServiceHandler is implemented by the calculator service.
type DilutionServiceHandler interface {
	Calculate(context.Context, *connect.Request[api.CalculateRequest]) (*connect.Response[api.CalculateResponse], error)
	GetChartData(context.Context, *connect.Request[api.CalculateRequest]) (*connect.Response[api.ChartDataResponse], error)
	CreateReportLink(context.Context, *connect.Request[api.CalculateRequest]) (*connect.Response[api.ReportLinkResponse], error)
	SendReport(context.Context, *connect.Request[api.SendReportRequest]) (*connect.Response[api.SendReportResponse], error)
	GetDefaults(context.Context, *connect.Request[emptypb.Empty]) (*connect.Response[api.CalculateRequest], error)
}

// DeliveryServiceHandler is implemented by the delivery log service.
type DeliveryServiceHandler interface {
	ListDeliveries(context.Context, *connect.Request[api.ListDeliveriesRequest]) (*connect.Response[api.ListDeliveriesResponse], error)
}

func handlerOptions(opts []connect.HandlerOption) []connect.HandlerOption {
	return append([]connect.HandlerOption{connect.WithCodec(api.Codec{})}, opts...)
}

func clientOptions(opts []connect.ClientOption) []connect.ClientOption {
	return append([]connect.ClientOption{connect.WithCodec(api.Codec{})}, opts...)
}

// NewDilutionServiceHandler builds an HTTP handler from the service implementation.
// It returns the path on which to mount the handler and the handler itself.
func NewDilutionServiceHandler(svc DilutionServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	calculate := connect.NewUnaryHandler(DilutionServiceCalculateProcedure, svc.Calculate, opts...)
	getChartData := connect.NewUnaryHandler(DilutionServiceGetChartDataProcedure, svc.GetChartData, opts...)
	createReportLink := connect.NewUnaryHandler(DilutionServiceCreateReportLinkProcedure, svc.CreateReportLink, opts...)
	sendReport := connect.NewUnaryHandler(DilutionServiceSendReportProcedure, svc.SendReport, opts...)
	getDefaults := connect.NewUnaryHandler(DilutionServiceGetDefaultsProcedure, svc.GetDefaults, opts...)

	return "/" + DilutionServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case DilutionServiceCalculateProcedure:
			calculate.ServeHTTP(w, r)
		case DilutionServiceGetChartDataProcedure:
			getChartData.ServeHTTP(w, r)
		case DilutionServiceCreateReportLinkProcedure:
			createReportLink.ServeHTTP(w, r)
		case DilutionServiceSendReportProcedure:
			sendReport.ServeHTTP(w, r)
		case DilutionServiceGetDefaultsProcedure:
			getDefaults.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// NewDeliveryServiceHandler builds an HTTP handler from the service implementation.
func NewDeliveryServiceHandler(svc DeliveryServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	listDeliveries := connect.NewUnaryHandler(DeliveryServiceListDeliveriesProcedure, svc.ListDeliveries, opts...)

	return "/" + DeliveryServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case DeliveryServiceListDeliveriesProcedure:
			listDeliveries.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// DilutionServiceClient is a client for dilutionwise.v1.DilutionService.
type DilutionServiceClient interface {
	Calculate(context.Context, *connect.Request[api.CalculateRequest]) (*connect.Response[api.CalculateResponse], error)
	GetChartData(context.Context, *connect.Request[api.CalculateRequest]) (*connect.Response[api.ChartDataResponse], error)
	CreateReportLink(context.Context, *connect.Request[api.CalculateRequest]) (*connect.Response[api.ReportLinkResponse], error)
	SendReport(context.Context, *connect.Request[api.SendReportRequest]) (*connect.Response[api.SendReportResponse], error)
	GetDefaults(context.Context, *connect.Request[emptypb.Empty]) (*connect.Response[api.CalculateRequest], error)
}

// NewDilutionServiceClient constructs a client. baseURL is the server root,
// e.g. http://localhost:8080.
func NewDilutionServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) DilutionServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &dilutionServiceClient{
		calculate:        connect.NewClient[api.CalculateRequest, api.CalculateResponse](httpClient, baseURL+DilutionServiceCalculateProcedure, opts...),
		getChartData:     connect.NewClient[api.CalculateRequest, api.ChartDataResponse](httpClient, baseURL+DilutionServiceGetChartDataProcedure, opts...),
		createReportLink: connect.NewClient[api.CalculateRequest, api.ReportLinkResponse](httpClient, baseURL+DilutionServiceCreateReportLinkProcedure, opts...),
		sendReport:       connect.NewClient[api.SendReportRequest, api.SendReportResponse](httpClient, baseURL+DilutionServiceSendReportProcedure, opts...),
		getDefaults:      connect.NewClient[emptypb.Empty, api.CalculateRequest](httpClient, baseURL+DilutionServiceGetDefaultsProcedure, opts...),
	}
}

type dilutionServiceClient struct {
	calculate        *connect.Client[api.CalculateRequest, api.CalculateResponse]
	getChartData     *connect.Client[api.CalculateRequest, api.ChartDataResponse]
	createReportLink *connect.Client[api.CalculateRequest, api.ReportLinkResponse]
	sendReport       *connect.Client[api.SendReportRequest, api.SendReportResponse]
	getDefaults      *connect.Client[emptypb.Empty, api.CalculateRequest]
}

func (c *dilutionServiceClient) Calculate(ctx context.Context, req *connect.Request[api.CalculateRequest]) (*connect.Response[api.CalculateResponse], error) {
	return c.calculate.CallUnary(ctx, req)
}

func (c *dilutionServiceClient) GetChartData(ctx context.Context, req *connect.Request[api.CalculateRequest]) (*connect.Response[api.ChartDataResponse], error) {
	return c.getChartData.CallUnary(ctx, req)
}

func (c *dilutionServiceClient) CreateReportLink(ctx context.Context, req *connect.Request[api.CalculateRequest]) (*connect.Response[api.ReportLinkResponse], error) {
	return c.createReportLink.CallUnary(ctx, req)
}

func (c *dilutionServiceClient) SendReport(ctx context.Context, req *connect.Request[api.SendReportRequest]) (*connect.Response[api.SendReportResponse], error) {
	return c.sendReport.CallUnary(ctx, req)
}

func (c *dilutionServiceClient) GetDefaults(ctx context.Context, req *connect.Request[emptypb.Empty]) (*connect.Response[api.CalculateRequest], error) {
	return c.getDefaults.CallUnary(ctx, req)
}

// DeliveryServiceClient is a client for dilutionwise.v1.DeliveryService.
type DeliveryServiceClient interface {
	ListDeliveries(context.Context, *connect.Request[api.ListDeliveriesRequest]) (*connect.Response[api.ListDeliveriesResponse], error)
}

// NewDeliveryServiceClient constructs a client for the delivery log.
func NewDeliveryServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) DeliveryServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	return &deliveryServiceClient{
		listDeliveries: connect.NewClient[api.ListDeliveriesRequest, api.ListDeliveriesResponse](httpClient, baseURL+DeliveryServiceListDeliveriesProcedure, clientOptions(opts)...),
	}
}

type deliveryServiceClient struct {
	listDeliveries *connect.Client[api.ListDeliveriesRequest, api.ListDeliveriesResponse]
}

func (c *deliveryServiceClient) ListDeliveries(ctx context.Context, req *connect.Request[api.ListDeliveriesRequest]) (*connect.Response[api.ListDeliveriesResponse], error) {
	return c.listDeliveries.CallUnary(ctx, req)
}

// UnimplementedDilutionServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedDilutionServiceHandler struct{}

func (UnimplementedDilutionServiceHandler) Calculate(context.Context, *connect.Request[api.CalculateRequest]) (*connect.Response[api.CalculateResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("dilutionwise.v1.DilutionService.Calculate is not implemented"))
}

func (UnimplementedDilutionServiceHandler) GetChartData(context.Context, *connect.Request[api.CalculateRequest]) (*connect.Response[api.ChartDataResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("dilutionwise.v1.DilutionService.GetChartData is not implemented"))
}

func (UnimplementedDilutionServiceHandler) CreateReportLink(context.Context, *connect.Request[api.CalculateRequest]) (*connect.Response[api.ReportLinkResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("dilutionwise.v1.DilutionService.CreateReportLink is not implemented"))
}

func (UnimplementedDilutionServiceHandler) SendReport(context.Context, *connect.Request[api.SendReportRequest]) (*connect.Response[api.SendReportResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("dilutionwise.v1.DilutionService.SendReport is not implemented"))
}

func (UnimplementedDilutionServiceHandler) GetDefaults(context.Context, *connect.Request[emptypb.Empty]) (*connect.Response[api.CalculateRequest], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("dilutionwise.v1.DilutionService.GetDefaults is not implemented"))
}

// UnimplementedDeliveryServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedDeliveryServiceHandler struct{}

func (UnimplementedDeliveryServiceHandler) ListDeliveries(context.Context, *connect.Request[api.ListDeliveriesRequest]) (*connect.Response[api.ListDeliveriesResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("dilutionwise.v1.DeliveryService.ListDeliveries is not implemented"))
}
