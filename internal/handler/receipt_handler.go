// internal/handler/receipt_handler.go
package handler

import (
	"encoding/base64"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"receipt-service/internal/config"
	"receipt-service/internal/protocol"
	"receipt-service/internal/receipt"
	"receipt-service/internal/service"
	"receipt-service/internal/transport"
	"receipt-service/internal/utils"
)

// DocumentStore resolves documents written by the document transport
type DocumentStore interface {
	Path(name string) (string, error)
}

// ReceiptHandler handles receipt rendering and printing requests
type ReceiptHandler struct {
	printService *service.PrintService
	documents    DocumentStore
	defaults     config.PrintingConfig
	logger       *utils.ServiceLogger
}

// NewReceiptHandler creates a new receipt handler. documents may be nil when
// the document transport is not configured.
func NewReceiptHandler(
	printService *service.PrintService,
	documents DocumentStore,
	defaults config.PrintingConfig,
	logger *zap.Logger,
) *ReceiptHandler {
	return &ReceiptHandler{
		printService: printService,
		documents:    documents,
		defaults:     defaults,
		logger:       utils.NewServiceLogger(logger, "receipt-handler"),
	}
}

// RegisterRoutes registers receipt routes
func (h *ReceiptHandler) RegisterRoutes(router *gin.RouterGroup) {
	receipts := router.Group("/receipts")
	{
		receipts.POST("/render", h.RenderReceipt)
		receipts.POST("/preview", h.PreviewReceipt)
		receipts.POST("/print", h.PrintReceipt)
		receipts.GET("/methods", h.ListMethods)
	}
	router.GET("/documents/:name", h.GetDocument)
}

// ReceiptOptions are the finishing choices shared by every receipt request.
// Unset flags fall back to the printing configuration.
type ReceiptOptions struct {
	Paper      receipt.PaperWidth `json:"paper,omitempty" example:"80mm"`
	ShowLogo   *bool              `json:"show_logo,omitempty"`
	AutoCut    *bool              `json:"auto_cut,omitempty"`
	OpenDrawer *bool              `json:"open_drawer,omitempty"`
}

// RenderRequest asks for a receipt without printing it
type RenderRequest struct {
	Sale    receipt.Sale    `json:"sale"`
	Company receipt.Company `json:"company"`
	Format  service.Format  `json:"format" example:"escpos"`
	ReceiptOptions
}

// NetworkRequest addresses a raw socket printer
type NetworkRequest struct {
	Host      string `json:"host" binding:"required" example:"192.168.0.50"`
	Port      int    `json:"port,omitempty" binding:"omitempty,min=1,max=65535" example:"9100"`
	TimeoutMs int    `json:"timeout_ms,omitempty" binding:"omitempty,min=0"`
}

// PrintRequest asks for a receipt to be printed
type PrintRequest struct {
	Sale    receipt.Sale           `json:"sale"`
	Company receipt.Company        `json:"company"`
	Method  transport.Method       `json:"method" binding:"required" example:"wireless"`
	Network *NetworkRequest        `json:"network,omitempty"`
	Serial  *protocol.SerialConfig `json:"serial,omitempty"`
	USB     *protocol.USBConfig    `json:"usb,omitempty"`
	ReceiptOptions
}

// PrintResponse is the transport outcome of a print request
type PrintResponse struct {
	JobID string `json:"job_id,omitempty"`
	transport.Result
	ErrorCode string `json:"error_code,omitempty" example:"MISSING_PRINTER_TARGET"`
}

// RenderResponse carries a rendered receipt. Binary output is base64 encoded.
type RenderResponse struct {
	Format      service.Format       `json:"format"`
	ContentType string               `json:"content_type"`
	Paper       receipt.PaperProfile `json:"paper"`
	Encoding    string               `json:"encoding"`
	Content     string               `json:"content"`
}

// RenderReceipt renders a receipt in one output format
// @Summary Render receipt
// @Description Render a sale as ESC/POS bytes (base64), HTML markup or plain text
// @Tags Receipts
// @Accept json
// @Produce json
// @Param request body RenderRequest true "Render request"
// @Success 200 {object} utils.APIResponse{data=RenderResponse} "Receipt rendered"
// @Failure 400 {object} utils.APIResponse "Invalid request"
// @Router /receipts/render [post]
func (h *ReceiptHandler) RenderReceipt(c *gin.Context) {
	var req RenderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}
	if req.Format == "" {
		req.Format = service.FormatESCPOS
	}

	rendered, err := h.printService.Render(req.Sale, req.Company, h.renderOptions(req))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Failed to render receipt", err)
		return
	}

	response := RenderResponse{
		Format:      rendered.Format,
		ContentType: rendered.ContentType,
		Paper:       rendered.Paper,
		Encoding:    "utf-8",
		Content:     string(rendered.Body),
	}
	if rendered.Format == service.FormatESCPOS {
		response.Encoding = "base64"
		response.Content = base64.StdEncoding.EncodeToString(rendered.Body)
	}

	utils.SuccessResponse(c, http.StatusOK, "Receipt rendered", response)
}

// PreviewReceipt returns the receipt as a displayable document
// @Summary Preview receipt
// @Description Render a sale as HTML markup, or plain text with format=text
// @Tags Receipts
// @Accept json
// @Produce html,plain
// @Param request body RenderRequest true "Preview request"
// @Success 200 {string} string "Receipt document"
// @Failure 400 {object} utils.APIResponse "Invalid request"
// @Router /receipts/preview [post]
func (h *ReceiptHandler) PreviewReceipt(c *gin.Context) {
	var req RenderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}
	if req.Format != service.FormatText {
		req.Format = service.FormatMarkup
	}

	rendered, err := h.printService.Render(req.Sale, req.Company, h.renderOptions(req))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Failed to render receipt", err)
		return
	}

	c.Data(http.StatusOK, rendered.ContentType, rendered.Body)
}

// PrintReceipt prints a receipt through the requested method
// @Summary Print receipt
// @Description Render a sale and hand it to the transport of the requested method. A transport failure is reported in the result, not as an HTTP error.
// @Tags Receipts
// @Accept json
// @Produce json
// @Param request body PrintRequest true "Print request"
// @Success 200 {object} utils.APIResponse{data=PrintResponse} "Print attempted"
// @Failure 400 {object} utils.APIResponse "Invalid request"
// @Router /receipts/print [post]
func (h *ReceiptHandler) PrintReceipt(c *gin.Context) {
	var req PrintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	opts := service.PrintOptions{
		JobID:      uuid.New(),
		Method:     req.Method,
		Paper:      req.Paper,
		ShowLogo:   orDefault(req.ShowLogo, h.defaults.ShowLogo),
		AutoCut:    orDefault(req.AutoCut, h.defaults.AutoCut),
		OpenDrawer: orDefault(req.OpenDrawer, h.defaults.OpenDrawer),
		Serial:     req.Serial,
		USB:        req.USB,
	}
	if req.Network != nil {
		opts.Network = &transport.NetworkTarget{
			Host:    req.Network.Host,
			Port:    req.Network.Port,
			Timeout: time.Duration(req.Network.TimeoutMs) * time.Millisecond,
		}
	}

	result := h.printService.Print(c.Request.Context(), req.Sale, req.Company, opts)

	response := PrintResponse{Result: result, ErrorCode: failureCode(result)}
	if h.printService.Supports(req.Method) {
		response.JobID = opts.JobID.String()
	}

	message := "Receipt printed"
	if !result.Success {
		message = "Receipt print failed"
	}
	utils.SuccessResponse(c, http.StatusOK, message, response)
}

// ListMethods lists the configured print methods
// @Summary List print methods
// @Tags Receipts
// @Produce json
// @Success 200 {object} utils.APIResponse{data=[]string} "Configured methods"
// @Router /receipts/methods [get]
func (h *ReceiptHandler) ListMethods(c *gin.Context) {
	utils.SuccessResponse(c, http.StatusOK, "Print methods retrieved", h.printService.Methods())
}

// GetDocument serves a document produced by the document method
// @Summary Download receipt document
// @Tags Receipts
// @Produce application/pdf
// @Param name path string true "Document name"
// @Success 200 {file} file "PDF document"
// @Failure 404 {object} utils.APIResponse "Document not found"
// @Router /documents/{name} [get]
func (h *ReceiptHandler) GetDocument(c *gin.Context) {
	if h.documents == nil {
		utils.ErrorResponse(c, http.StatusNotFound, "Document storage disabled", nil)
		return
	}

	path, err := h.documents.Path(c.Param("name"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusNotFound, "Document not found", err)
		return
	}

	c.Header("Content-Type", "application/pdf")
	c.File(path)
}

func (h *ReceiptHandler) renderOptions(req RenderRequest) service.RenderOptions {
	return service.RenderOptions{
		Format:     req.Format,
		Paper:      req.Paper,
		ShowLogo:   orDefault(req.ShowLogo, h.defaults.ShowLogo),
		AutoCut:    orDefault(req.AutoCut, h.defaults.AutoCut),
		OpenDrawer: orDefault(req.OpenDrawer, h.defaults.OpenDrawer),
	}
}

func orDefault(value *bool, fallback bool) bool {
	if value == nil {
		return fallback
	}
	return *value
}
