package payrollhandler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"paycalc/internal/domain/payroll"
	"paycalc/internal/requestctx"
	"paycalc/internal/transport/http/api"
	"paycalc/internal/transport/http/middleware"
	"paycalc/internal/transport/http/shared"
)

type LiveObserver interface {
	LiveSessionOpened()
	LiveSessionClosed()
}

type Options struct {
	AllowedOrigins    []string
	WSMaxMessageBytes int64
	Live              LiveObserver
}

type Handler struct {
	Service  *payroll.Service
	opts     Options
	upgrader websocket.Upgrader
}

func NewHandler(service *payroll.Service, opts Options) *Handler {
	if opts.WSMaxMessageBytes <= 0 {
		opts.WSMaxMessageBytes = 4096
	}
	h := &Handler{Service: service, opts: opts}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin:     h.checkOrigin,
	}
	return h
}

type taxBracketsResponse struct {
	StandardDeduction float64                 `json:"standardDeduction"`
	Brackets          payroll.TaxBracketTable `json:"brackets"`
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/payroll", func(r chi.Router) {
		r.Get("/cities", h.handleListCities)
		r.Get("/tax-brackets", h.handleTaxBrackets)
		r.Get("/rate-bounds", h.handleRateBounds)
		r.Post("/calculate", h.handleCalculate)
		r.Post("/report", h.handleTextReport)
		r.Post("/report/pdf", h.handlePDFReport)
		r.Post("/export/breakdown", h.handleExportBreakdown)
		r.Get("/live", h.handleLive)
	})
}

func (h *Handler) handleListCities(w http.ResponseWriter, r *http.Request) {
	api.Success(w, h.Service.Cities(), middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleTaxBrackets(w http.ResponseWriter, r *http.Request) {
	api.Success(w, taxBracketsResponse{
		StandardDeduction: payroll.StandardDeduction,
		Brackets:          h.Service.Brackets(),
	}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleRateBounds(w http.ResponseWriter, r *http.Request) {
	api.Success(w, h.Service.Bounds(), middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCalculate(w http.ResponseWriter, r *http.Request) {
	result, ok := h.calculate(w, r)
	if !ok {
		return
	}
	api.Success(w, result.Rounded(), middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleTextReport(w http.ResponseWriter, r *http.Request) {
	result, ok := h.calculate(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", attachment("salary-report.txt", payroll.ReportFileName(result, "txt")))
	if _, err := w.Write([]byte(payroll.TextReport(result))); err != nil {
		requestctx.Logger(r.Context()).Warn("text report write failed", "err", err)
	}
}

func (h *Handler) handlePDFReport(w http.ResponseWriter, r *http.Request) {
	result, ok := h.calculate(w, r)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := payroll.WritePDFReport(&buf, result); err != nil {
		requestctx.Logger(r.Context()).Error("pdf report failed", "err", err)
		api.Fail(w, http.StatusInternalServerError, "report_failed", "failed to render report", middleware.GetRequestID(r.Context()))
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", attachment(payroll.PDFFileName(result), ""))
	if _, err := buf.WriteTo(w); err != nil {
		requestctx.Logger(r.Context()).Warn("pdf report write failed", "err", err)
	}
}

func (h *Handler) handleExportBreakdown(w http.ResponseWriter, r *http.Request) {
	result, ok := h.calculate(w, r)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := payroll.WriteBreakdownCSV(&buf, result); err != nil {
		requestctx.Logger(r.Context()).Error("breakdown export failed", "err", err)
		api.Fail(w, http.StatusInternalServerError, "export_failed", "failed to export breakdown", middleware.GetRequestID(r.Context()))
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename=insurance-breakdown.csv")
	if _, err := buf.WriteTo(w); err != nil {
		requestctx.Logger(r.Context()).Warn("breakdown export write failed", "err", err)
	}
}

// calculate decodes the request body and runs the calculation, writing the
// failure response itself when it returns false.
func (h *Handler) calculate(w http.ResponseWriter, r *http.Request) (payroll.PayrollResult, bool) {
	requestID := middleware.GetRequestID(r.Context())

	var payload payroll.Request
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			api.Fail(w, http.StatusRequestEntityTooLarge, "payload_too_large", "request body too large", requestID)
			return payroll.PayrollResult{}, false
		}
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return payroll.PayrollResult{}, false
	}

	result, err := h.Service.Calculate(r.Context(), payload)
	if err != nil {
		writeCalculationError(w, requestID, err)
		return payroll.PayrollResult{}, false
	}
	return result, true
}

func writeCalculationError(w http.ResponseWriter, requestID string, err error) {
	status, apiErr := calculationFailure(err)
	api.WriteJSON(w, status, api.Envelope{Success: false, Error: apiErr, RequestID: requestID})
}

// calculationFailure maps a service error onto a status and error body.
func calculationFailure(err error) (int, *api.Error) {
	var verr *payroll.ValidationError
	switch {
	case errors.As(err, &verr):
		return shared.ValidationFailure(verr)
	case errors.Is(err, payroll.ErrUnknownCity):
		return http.StatusNotFound, &api.Error{Code: "unknown_city", Message: "unknown city preset"}
	default:
		return http.StatusInternalServerError, &api.Error{Code: "calculation_failed", Message: "failed to calculate payroll"}
	}
}

func attachment(asciiName, utf8Name string) string {
	value := fmt.Sprintf("attachment; filename=%q", asciiName)
	if utf8Name != "" {
		value += "; filename*=UTF-8''" + url.PathEscape(utf8Name)
	}
	return value
}

func (h *Handler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	parsed, err := url.Parse(origin)
	if err == nil && strings.EqualFold(parsed.Host, r.Host) {
		return true
	}
	for _, allowed := range h.opts.AllowedOrigins {
		if allowed == "*" || strings.EqualFold(allowed, origin) {
			return true
		}
	}
	return false
}
