// internal/handler/printer_handler.go
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"receipt-service/internal/service"
	"receipt-service/internal/utils"
)

// PrinterHandler handles printer connection and discovery requests
type PrinterHandler struct {
	printerService *service.PrinterService
	logger         *utils.ServiceLogger
}

// NewPrinterHandler creates a new printer handler
func NewPrinterHandler(printerService *service.PrinterService, logger *zap.Logger) *PrinterHandler {
	return &PrinterHandler{
		printerService: printerService,
		logger:         utils.NewServiceLogger(logger, "printer-handler"),
	}
}

// RegisterRoutes registers printer routes
func (h *PrinterHandler) RegisterRoutes(router *gin.RouterGroup) {
	printers := router.Group("/printers")
	{
		printers.GET("/discover", h.DiscoverPrinters)
		printers.GET("/scanners", h.ListScanners)
		printers.GET("/bluetooth", h.BluetoothStatus)
		printers.POST("/bluetooth/connect", h.ConnectBluetooth)
		printers.POST("/bluetooth/disconnect", h.DisconnectBluetooth)
	}
}

// ConnectRequest selects a bluetooth printer. An empty address picks the first known printer in range.
type ConnectRequest struct {
	Address string `json:"address,omitempty" example:"66:22:B3:1A:0C:7F"`
}

// ConnectBluetooth connects the wireless printer
// @Summary Connect bluetooth printer
// @Description Scan for a bluetooth printer and keep the session open for wireless prints
// @Tags Printers
// @Accept json
// @Produce json
// @Param request body ConnectRequest false "Printer address"
// @Success 200 {object} utils.APIResponse{data=transport.PrinterConnection} "Printer connected"
// @Failure 400 {object} utils.APIResponse "Invalid request"
// @Failure 502 {object} utils.APIResponse "Connection failed"
// @Failure 503 {object} utils.APIResponse "Bluetooth unavailable"
// @Router /printers/bluetooth/connect [post]
func (h *PrinterHandler) ConnectBluetooth(c *gin.Context) {
	var req ConnectRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBindingError(c, err)
			return
		}
	}

	conn, err := h.printerService.ConnectBluetooth(c.Request.Context(), req.Address)
	if err != nil {
		h.logger.Warn("Bluetooth connect failed", zap.String("address", req.Address), zap.Error(err))
		respondError(c, http.StatusBadGateway, "Failed to connect printer", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Printer connected", conn)
}

// DisconnectBluetooth closes the wireless printer session
// @Summary Disconnect bluetooth printer
// @Tags Printers
// @Produce json
// @Success 200 {object} utils.APIResponse{data=transport.PrinterConnection} "Printer disconnected"
// @Failure 500 {object} utils.APIResponse "Disconnect failed"
// @Router /printers/bluetooth/disconnect [post]
func (h *PrinterHandler) DisconnectBluetooth(c *gin.Context) {
	if err := h.printerService.DisconnectBluetooth(); err != nil {
		h.logger.Error("Bluetooth disconnect failed", zap.Error(err))
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to disconnect printer", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Printer disconnected", h.printerService.BluetoothStatus())
}

// BluetoothStatus reports the wireless printer session
// @Summary Bluetooth printer status
// @Tags Printers
// @Produce json
// @Success 200 {object} utils.APIResponse{data=transport.PrinterConnection} "Connection state"
// @Router /printers/bluetooth [get]
func (h *PrinterHandler) BluetoothStatus(c *gin.Context) {
	utils.SuccessResponse(c, http.StatusOK, "Bluetooth status retrieved", h.printerService.BluetoothStatus())
}

// DiscoverPrinters scans for printers
// @Summary Discover printers
// @Description Scan serial ports, USB printer-class devices, nearby bluetooth printers and configured network ranges
// @Tags Printers
// @Produce json
// @Param type query string false "Scanner type" Enums(serial, usb, bluetooth, network)
// @Success 200 {object} utils.APIResponse{data=object{printers_found=int,printers=[]discovery.Printer,errors=map[string]string}} "Discovery completed"
// @Failure 400 {object} utils.APIResponse "Unknown scanner"
// @Router /printers/discover [get]
func (h *PrinterHandler) DiscoverPrinters(c *gin.Context) {
	report, err := h.printerService.Discover(c.Request.Context(), c.Query("type"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Failed to discover printers", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Printer discovery completed", gin.H{
		"printers_found": len(report.Printers),
		"printers":       report.Printers,
		"errors":         report.Errors,
	})
}

// ListScanners lists the available discovery scanners
// @Summary List discovery scanners
// @Tags Printers
// @Produce json
// @Success 200 {object} utils.APIResponse{data=[]string} "Available scanners"
// @Router /printers/scanners [get]
func (h *PrinterHandler) ListScanners(c *gin.Context) {
	utils.SuccessResponse(c, http.StatusOK, "Scanners retrieved", h.printerService.ScannerTypes())
}
