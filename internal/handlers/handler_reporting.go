package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/dto"
	"github.com/SscSPs/ledger_engine/internal/middleware"
	"github.com/gin-gonic/gin"
)

// reportingHandler handles HTTP requests for derived balances and reports.
type reportingHandler struct {
	reporting portssvc.LedgerReportSvcFacade
	directory portssvc.AccountDirectorySvcFacade
}

// newReportingHandler creates a new reportingHandler.
func newReportingHandler(reporting portssvc.LedgerReportSvcFacade, directory portssvc.AccountDirectorySvcFacade) *reportingHandler {
	return &reportingHandler{
		reporting: reporting,
		directory: directory,
	}
}

// RegisterReportingRoutes registers the book, ledger and report routes under a company group.
func RegisterReportingRoutes(r *gin.RouterGroup, reporting portssvc.LedgerReportSvcFacade, directory portssvc.AccountDirectorySvcFacade) {
	h := newReportingHandler(reporting, directory)

	books := r.Group("/books")
	{
		books.GET("/roles/:role", h.getBookByRole)
		books.GET("/accounts/:code", h.getBookByCode)
	}

	r.GET("/parties/:party_id/ledger", h.getPartyLedger)

	reports := r.Group("/reports")
	{
		reports.GET("/trial-balance", h.getTrialBalance)
		reports.GET("/profit-and-loss", h.getProfitAndLoss)
	}

	r.GET("/roles/check", h.checkRoles)
}

// parseDateQuery reads an optional YYYY-MM-DD query parameter.
func parseDateQuery(c *gin.Context, name string) (*time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(dto.DateLayout, raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be YYYY-MM-DD", apperrors.ErrValidation, name)
	}
	return &t, nil
}

func parseWindow(c *gin.Context) (domain.DateWindow, error) {
	from, err := parseDateQuery(c, "from")
	if err != nil {
		return domain.DateWindow{}, err
	}
	to, err := parseDateQuery(c, "to")
	if err != nil {
		return domain.DateWindow{}, err
	}
	return domain.NewDateWindow(from, to), nil
}

// getBookByRole godoc
// @Summary Get an account book by role
// @Description Running balance of the account mapped to a role (cash book, bank book, sales register...).
// @Tags reports
// @Produce json
// @Param company_id path string true "Company ID"
// @Param role path string true "CASH, BANK, SALES, PURCHASE, AR, AP or OWNER"
// @Param from query string false "From date (YYYY-MM-DD)"
// @Param to query string false "To date (YYYY-MM-DD)"
// @Success 200 {object} dto.LedgerViewResponse
// @Failure 400 {object} map[string]string "Invalid role or dates"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "No account mapped to role"
// @Failure 500 {object} map[string]string "Internal server error"
// @Security BearerAuth
// @Router /companies/{company_id}/books/roles/{role} [get]
func (h *reportingHandler) getBookByRole(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	role, err := domain.ParseAccountRole(c.Param("role"))
	if err != nil {
		respondError(c, logger, fmt.Errorf("%w: %v", apperrors.ErrValidation, err), "Failed to generate account book")
		return
	}

	window, err := parseWindow(c)
	if err != nil {
		respondError(c, logger, err, "Failed to generate account book")
		return
	}

	view, err := h.reporting.GetAccountBook(c.Request.Context(), c.Param("company_id"), role, window)
	if err != nil {
		respondError(c, logger, err, "Failed to generate account book")
		return
	}

	c.JSON(http.StatusOK, dto.ToLedgerViewResponse(view))
}

// getBookByCode godoc
// @Summary Get an account book by code
// @Tags reports
// @Produce json
// @Param company_id path string true "Company ID"
// @Param code path string true "Account code"
// @Param from query string false "From date (YYYY-MM-DD)"
// @Param to query string false "To date (YYYY-MM-DD)"
// @Success 200 {object} dto.LedgerViewResponse
// @Failure 400 {object} map[string]string "Invalid dates"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Security BearerAuth
// @Router /companies/{company_id}/books/accounts/{code} [get]
func (h *reportingHandler) getBookByCode(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	window, err := parseWindow(c)
	if err != nil {
		respondError(c, logger, err, "Failed to generate account book")
		return
	}

	view, err := h.reporting.GetAccountBookByCode(c.Request.Context(), c.Param("company_id"), c.Param("code"), window)
	if err != nil {
		respondError(c, logger, err, "Failed to generate account book")
		return
	}

	c.JSON(http.StatusOK, dto.ToLedgerViewResponse(view))
}

// getPartyLedger godoc
// @Summary Get a party ledger
// @Description Running balance of a customer or supplier across the receivable and payable accounts.
// @Tags reports
// @Produce json
// @Param company_id path string true "Company ID"
// @Param party_id path string true "Party ID"
// @Param from query string false "From date (YYYY-MM-DD)"
// @Param to query string false "To date (YYYY-MM-DD)"
// @Success 200 {object} dto.LedgerViewResponse
// @Failure 400 {object} map[string]string "Invalid dates"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Party not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Security BearerAuth
// @Router /companies/{company_id}/parties/{party_id}/ledger [get]
func (h *reportingHandler) getPartyLedger(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	window, err := parseWindow(c)
	if err != nil {
		respondError(c, logger, err, "Failed to generate party ledger")
		return
	}

	view, err := h.reporting.GetPartyLedger(c.Request.Context(), c.Param("company_id"), c.Param("party_id"), window)
	if err != nil {
		respondError(c, logger, err, "Failed to generate party ledger")
		return
	}

	c.JSON(http.StatusOK, dto.ToLedgerViewResponse(view))
}

// getTrialBalance godoc
// @Summary Get trial balance
// @Description Debit and credit totals of posted entries per account.
// @Tags reports
// @Produce json
// @Param company_id path string true "Company ID"
// @Param from query string false "From date (YYYY-MM-DD)"
// @Param to query string false "To date (YYYY-MM-DD)"
// @Success 200 {object} dto.TrialBalanceResponse
// @Failure 400 {object} map[string]string "Invalid dates"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Company not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Security BearerAuth
// @Router /companies/{company_id}/reports/trial-balance [get]
func (h *reportingHandler) getTrialBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	window, err := parseWindow(c)
	if err != nil {
		respondError(c, logger, err, "Failed to generate trial balance")
		return
	}

	tb, err := h.reporting.GetTrialBalance(c.Request.Context(), c.Param("company_id"), window)
	if err != nil {
		respondError(c, logger, err, "Failed to generate trial balance")
		return
	}

	c.JSON(http.StatusOK, dto.ToTrialBalanceResponse(tb))
}

// getProfitAndLoss godoc
// @Summary Get profit and loss
// @Tags reports
// @Produce json
// @Param company_id path string true "Company ID"
// @Param from query string true "From date (YYYY-MM-DD)"
// @Param to query string true "To date (YYYY-MM-DD)"
// @Success 200 {object} dto.ProfitAndLossResponse
// @Failure 400 {object} map[string]string "Missing or invalid dates"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Company not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Security BearerAuth
// @Router /companies/{company_id}/reports/profit-and-loss [get]
func (h *reportingHandler) getProfitAndLoss(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	window, err := parseWindow(c)
	if err == nil && (window.From == nil || window.To == nil) {
		err = fmt.Errorf("%w: from and to are required", apperrors.ErrValidation)
	}
	if err != nil {
		respondError(c, logger, err, "Failed to generate profit and loss")
		return
	}

	pl, err := h.reporting.GetProfitAndLoss(c.Request.Context(), c.Param("company_id"), *window.From, *window.To)
	if err != nil {
		respondError(c, logger, err, "Failed to generate profit and loss")
		return
	}

	c.JSON(http.StatusOK, dto.ToProfitAndLossResponse(pl))
}

// checkRoles godoc
// @Summary Check role mapping
// @Description Reports whether every role maps to exactly one account of the company.
// @Tags accounts
// @Produce json
// @Param company_id path string true "Company ID"
// @Success 200 {object} dto.RoleCheckResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Security BearerAuth
// @Router /companies/{company_id}/roles/check [get]
func (h *reportingHandler) checkRoles(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")

	err := h.directory.ValidateRoleMapping(c.Request.Context(), companyID)
	resp := dto.RoleCheckResponse{CompanyID: companyID, Valid: err == nil}
	if err != nil {
		if !errors.Is(err, apperrors.ErrValidation) {
			respondError(c, logger, err, "Failed to check role mapping")
			return
		}
		resp.Problem = err.Error()
	}

	c.JSON(http.StatusOK, resp)
}
