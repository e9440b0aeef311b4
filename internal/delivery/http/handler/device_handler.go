package handler

import (
	"errors"
	"net/http"
	"strconv"

	domainDevice "security-monitor/internal/domain/device"
	"security-monitor/internal/usecase/device"
	appErrors "security-monitor/pkg/errors"
	"security-monitor/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type DeviceHandler struct {
	service *device.Service
}

func NewDeviceHandler(service *device.Service) *DeviceHandler {
	return &DeviceHandler{service: service}
}

func (h *DeviceHandler) RegisterRoutes(router *gin.RouterGroup) {
	devices := router.Group("/devices")
	{
		devices.GET("", h.ListDevices)
		devices.GET("/:id", h.GetDevice)
		devices.POST("/:id/trigger", h.TriggerDevice)
	}
}

func (h *DeviceHandler) RegisterProtectedRoutes(router *gin.RouterGroup) {
	devices := router.Group("/devices")
	{
		devices.POST("", h.CreateDevice)
		devices.PUT("/:id", h.UpdateDevice)
		devices.DELETE("/:id", h.DeleteDevice)
	}
}

func (h *DeviceHandler) ListDevices(c *gin.Context) {
	devices, err := h.service.List(c.Request.Context())
	if err != nil {
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to list devices")
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Devices retrieved successfully", devices)
}

func (h *DeviceHandler) GetDevice(c *gin.Context) {
	deviceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid device ID")
		return
	}

	d, err := h.service.Get(c.Request.Context(), deviceID)
	if err != nil {
		respondDeviceError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Device retrieved successfully", d)
}

func (h *DeviceHandler) CreateDevice(c *gin.Context) {
	var req device.CreateDeviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	d, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		respondDeviceError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "Device created successfully", d)
}

func (h *DeviceHandler) UpdateDevice(c *gin.Context) {
	deviceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid device ID")
		return
	}

	var req device.UpdateDeviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	d, err := h.service.Update(c.Request.Context(), deviceID, &req)
	if err != nil {
		respondDeviceError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Device updated successfully", d)
}

// DeleteDevice removes a device. Deleting an unknown device succeeds; the
// response reports whether anything was actually removed.
func (h *DeviceHandler) DeleteDevice(c *gin.Context) {
	deviceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid device ID")
		return
	}

	existed, err := h.service.Delete(c.Request.Context(), deviceID)
	if err != nil {
		respondDeviceError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Device deleted", gin.H{"deleted": existed})
}

// TriggerDevice accepts a state-change report from a device or simulator.
func (h *DeviceHandler) TriggerDevice(c *gin.Context) {
	deviceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid device ID")
		return
	}

	var req device.TriggerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.service.Trigger(c.Request.Context(), deviceID, &req)
	if err != nil {
		respondDeviceError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Device state recorded", result)
}

// respondDeviceError maps service errors onto HTTP statuses: unknown device is
// 404, rejected input is 400, everything else is 500.
func respondDeviceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domainDevice.ErrDeviceNotFound):
		utils.ErrorResponse(c, http.StatusNotFound, "Device not found")
	case appErrors.HasCode(err, appErrors.CodeValidation, appErrors.CodeInvalidArgument):
		var appErr *appErrors.AppError
		errors.As(err, &appErr)
		utils.ErrorResponse(c, http.StatusBadRequest, appErr.Message)
	default:
		utils.ErrorResponse(c, http.StatusInternalServerError, "Internal server error")
	}
}

func parseLimit(c *gin.Context, fallback int) int {
	raw := c.Query("limit")
	if raw == "" {
		return fallback
	}
	limit, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return limit
}
