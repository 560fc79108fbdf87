package handlers

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/dto"
	"github.com/SscSPs/ledger_engine/internal/middleware"
	"github.com/gin-gonic/gin"
)

// voucherHandler handles HTTP requests for the draft lifecycle and posting.
type voucherHandler struct {
	directory portssvc.AccountDirectorySvcFacade
	draft     portssvc.DraftSvcFacade
	posting   portssvc.PostingSvc
}

// newVoucherHandler creates a new voucherHandler.
func newVoucherHandler(directory portssvc.AccountDirectorySvcFacade, draft portssvc.DraftSvcFacade, posting portssvc.PostingSvc) *voucherHandler {
	return &voucherHandler{
		directory: directory,
		draft:     draft,
		posting:   posting,
	}
}

// RegisterVoucherRoutes registers routes related to vouchers under a company group.
func RegisterVoucherRoutes(r *gin.RouterGroup, directory portssvc.AccountDirectorySvcFacade, draft portssvc.DraftSvcFacade, posting portssvc.PostingSvc) {
	h := newVoucherHandler(directory, draft, posting)

	vouchers := r.Group("/vouchers")
	{
		vouchers.POST("", h.createVoucher)
		vouchers.GET("", h.listVouchers)
		vouchers.GET("/:voucher_id", h.getVoucher)
		vouchers.PUT("/:voucher_id", h.updateVoucher)
		vouchers.DELETE("/:voucher_id", h.deleteVoucher)
		vouchers.POST("/:voucher_id/post", h.postVoucher)
	}
}

// requireUser reads the authenticated user or aborts with 401.
func requireUser(c *gin.Context, logger *slog.Logger) (string, bool) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return "", false
	}
	return userID, true
}

// bindVoucherRequest binds the body and maps binding failures to ErrValidation.
func bindVoucherRequest(c *gin.Context) (dto.VoucherRequest, error) {
	var req dto.VoucherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return req, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	return req, nil
}

// createVoucher godoc
// @Summary Create a draft voucher
// @Description Resolves the business payload to accounts, generates entries and stores a DRAFT voucher.
// @Tags vouchers
// @Accept json
// @Produce json
// @Param company_id path string true "Company ID"
// @Param voucher body dto.VoucherRequest true "Voucher payload"
// @Success 201 {object} dto.VoucherResponse
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Account or party not found"
// @Failure 422 {object} map[string]string "Entries cannot be generated or do not balance"
// @Failure 500 {object} map[string]string "Internal server error"
// @Security BearerAuth
// @Router /companies/{company_id}/vouchers [post]
func (h *voucherHandler) createVoucher(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")

	userID, ok := requireUser(c, logger)
	if !ok {
		return
	}

	req, err := bindVoucherRequest(c)
	if err != nil {
		respondError(c, logger, err, "Failed to create voucher")
		return
	}

	intent, err := req.ToIntent(companyID)
	if err != nil {
		respondError(c, logger, err, "Failed to create voucher")
		return
	}

	input, err := h.directory.ResolveVoucherIntent(c.Request.Context(), intent)
	if err != nil {
		respondError(c, logger, err, "Failed to create voucher")
		return
	}

	voucher, err := h.draft.CreateDraft(c.Request.Context(), *input, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to create voucher")
		return
	}

	c.JSON(http.StatusCreated, dto.ToVoucherResponse(voucher))
}

// listVouchers godoc
// @Summary List vouchers
// @Description Lists the company's vouchers, newest voucher date first.
// @Tags vouchers
// @Produce json
// @Param company_id path string true "Company ID"
// @Param limit query int false "Page size (max 100)"
// @Param nextToken query string false "Token from the previous page"
// @Param status query string false "DRAFT, POSTED or CANCELLED"
// @Param kind query string false "Voucher kind"
// @Success 200 {object} dto.ListVouchersResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Security BearerAuth
// @Router /companies/{company_id}/vouchers [get]
func (h *voucherHandler) listVouchers(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")

	var params dto.ListVouchersParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondError(c, logger, fmt.Errorf("%w: %v", apperrors.ErrValidation, err), "Failed to list vouchers")
		return
	}

	resp, err := h.draft.ListVouchers(c.Request.Context(), companyID, params)
	if err != nil {
		respondError(c, logger, err, "Failed to list vouchers")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// getVoucher godoc
// @Summary Get a voucher
// @Tags vouchers
// @Produce json
// @Param company_id path string true "Company ID"
// @Param voucher_id path string true "Voucher ID"
// @Success 200 {object} dto.VoucherResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Voucher not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Security BearerAuth
// @Router /companies/{company_id}/vouchers/{voucher_id} [get]
func (h *voucherHandler) getVoucher(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	voucher, err := h.draft.GetVoucher(c.Request.Context(), c.Param("company_id"), c.Param("voucher_id"))
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve voucher")
		return
	}

	c.JSON(http.StatusOK, dto.ToVoucherResponse(voucher))
}

// updateVoucher godoc
// @Summary Regenerate a draft voucher
// @Description Rewrites the header and replaces every entry of a DRAFT voucher.
// @Tags vouchers
// @Accept json
// @Produce json
// @Param company_id path string true "Company ID"
// @Param voucher_id path string true "Voucher ID"
// @Param voucher body dto.VoucherRequest true "Voucher payload"
// @Success 200 {object} dto.VoucherResponse
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Voucher not found"
// @Failure 409 {object} map[string]string "Voucher is not a draft"
// @Failure 422 {object} map[string]string "Entries cannot be generated or do not balance"
// @Failure 500 {object} map[string]string "Internal server error"
// @Security BearerAuth
// @Router /companies/{company_id}/vouchers/{voucher_id} [put]
func (h *voucherHandler) updateVoucher(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")
	voucherID := c.Param("voucher_id")

	userID, ok := requireUser(c, logger)
	if !ok {
		return
	}

	// Resolving the payload can fail on its own; a voucher that is gone or already posted must
	// report that first. UpdateDraft repeats the check under the row lock.
	existing, err := h.draft.GetVoucher(c.Request.Context(), companyID, voucherID)
	if err != nil {
		respondError(c, logger, err, "Failed to update voucher")
		return
	}
	if !existing.IsDraft() {
		respondError(c, logger, fmt.Errorf("%w: voucher %s is %s, only DRAFT vouchers can be changed", apperrors.ErrInvalidState, voucherID, existing.Status), "Failed to update voucher")
		return
	}

	req, err := bindVoucherRequest(c)
	if err != nil {
		respondError(c, logger, err, "Failed to update voucher")
		return
	}

	intent, err := req.ToIntent(companyID)
	if err != nil {
		respondError(c, logger, err, "Failed to update voucher")
		return
	}

	input, err := h.directory.ResolveVoucherIntent(c.Request.Context(), intent)
	if err != nil {
		respondError(c, logger, err, "Failed to update voucher")
		return
	}

	voucher, err := h.draft.UpdateDraft(c.Request.Context(), voucherID, *input, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to update voucher")
		return
	}

	c.JSON(http.StatusOK, dto.ToVoucherResponse(voucher))
}

// deleteVoucher godoc
// @Summary Delete a draft voucher
// @Tags vouchers
// @Produce json
// @Param company_id path string true "Company ID"
// @Param voucher_id path string true "Voucher ID"
// @Success 200 {object} dto.DeleteVoucherResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Voucher not found"
// @Failure 409 {object} map[string]string "Voucher is not a draft"
// @Failure 500 {object} map[string]string "Internal server error"
// @Security BearerAuth
// @Router /companies/{company_id}/vouchers/{voucher_id} [delete]
func (h *voucherHandler) deleteVoucher(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := requireUser(c, logger)
	if !ok {
		return
	}

	if err := h.draft.DeleteDraft(c.Request.Context(), c.Param("company_id"), c.Param("voucher_id"), userID); err != nil {
		respondError(c, logger, err, "Failed to delete voucher")
		return
	}

	c.JSON(http.StatusOK, dto.DeleteVoucherResponse{Deleted: true})
}

// postVoucher godoc
// @Summary Post a draft voucher
// @Description Finalizes a DRAFT voucher and assigns the next number of its voucher type.
// @Tags vouchers
// @Produce json
// @Param company_id path string true "Company ID"
// @Param voucher_id path string true "Voucher ID"
// @Success 200 {object} dto.PostVoucherResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Voucher not found"
// @Failure 409 {object} map[string]string "Voucher already posted or concurrent posting conflict"
// @Failure 422 {object} map[string]string "Entries do not balance"
// @Failure 500 {object} map[string]string "Internal server error"
// @Security BearerAuth
// @Router /companies/{company_id}/vouchers/{voucher_id}/post [post]
func (h *voucherHandler) postVoucher(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := requireUser(c, logger)
	if !ok {
		return
	}

	result, err := h.posting.Post(c.Request.Context(), c.Param("company_id"), c.Param("voucher_id"), userID)
	if err != nil {
		respondError(c, logger, err, "Failed to post voucher")
		return
	}

	logger.Info("Voucher posted",
		slog.String("voucher_id", result.VoucherID),
		slog.Int64("voucher_number", result.VoucherNumber))
	c.JSON(http.StatusOK, dto.ToPostVoucherResponse(result))
}
