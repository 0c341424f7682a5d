// internal/handlers/license.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/javajoker/license-server/internal/i18n"
	"github.com/javajoker/license-server/internal/models"
	"github.com/javajoker/license-server/internal/services"
	"github.com/javajoker/license-server/internal/utils"
)

type LicenseHandler struct {
	licenseService *services.LicenseService
}

func NewLicenseHandler(licenseService *services.LicenseService) *LicenseHandler {
	return &LicenseHandler{
		licenseService: licenseService,
	}
}

// Lifecycle errors become HTTP statuses here and nowhere else.
var errorMappings = []struct {
	kind   models.LicenseError
	status int
	code   string
	key    string
}{
	{models.ErrLicenseNotFound, http.StatusNotFound, "LICENSE_NOT_FOUND", i18n.KeyLicenseNotFound},
	{models.ErrLicenseDoesNotExist, http.StatusBadRequest, "LICENSE_DOES_NOT_EXIST", i18n.KeyLicenseDoesNotExist},
	{models.ErrLicenseNotActivated, http.StatusInternalServerError, "LICENSE_NOT_ACTIVATED", i18n.KeyLicenseNotActivated},
	{models.ErrLicenseExpired, http.StatusBadRequest, "LICENSE_EXPIRED", i18n.KeyLicenseExpired},
	{models.ErrLicenseAlreadyActive, http.StatusBadRequest, "LICENSE_ALREADY_ACTIVE", i18n.KeyLicenseAlreadyActive},
	{models.ErrInvalidDuration, http.StatusBadRequest, "INVALID_DURATION", i18n.KeyLicenseInvalidDuration},
	{models.ErrDatabase, http.StatusInternalServerError, "DATABASE_ERROR", i18n.KeyDatabaseError},
}

func respondError(c *gin.Context, err error) {
	c.Error(err)
	lang := utils.GetLangFromContext(c)

	for _, m := range errorMappings {
		if errors.Is(err, m.kind) {
			utils.ErrorResponse(c, m.status, m.code, i18n.T(lang, m.key), nil)
			return
		}
	}
	utils.InternalErrorResponse(c, "INTERNAL_ERROR", "")
}

func bindRequest(c *gin.Context, req interface{}) bool {
	lang := utils.GetLangFromContext(c)
	if err := c.ShouldBindJSON(req); err != nil {
		utils.BadRequestResponse(c, "BAD_REQUEST", i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return false
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return false
	}
	return true
}

// GET /license/get/:key
func (h *LicenseHandler) GetLicense(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	license, err := h.licenseService.Get(c.Request.Context(), c.Param("key"))
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, i18n.T(lang, i18n.KeySuccess), license)
}

// GET /license/status/:key
func (h *LicenseHandler) GetLicenseStatus(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	status, err := h.licenseService.Status(c.Request.Context(), c.Param("key"))
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, i18n.T(lang, i18n.KeySuccess), status)
}

// POST /license/create
func (h *LicenseHandler) CreateLicense(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req services.CreateLicenseRequest
	if !bindRequest(c, &req) {
		return
	}

	license, err := h.licenseService.Create(c.Request.Context(), &req)
	if err != nil {
		c.Error(err)
		utils.InternalErrorResponse(c, "DATABASE_ERROR", i18n.T(lang, i18n.KeyLicenseInsertFailed))
		return
	}

	utils.CreatedResponse(c, i18n.T(lang, i18n.KeyLicenseCreated), license)
}

// POST /license/activate
func (h *LicenseHandler) ActivateLicense(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req services.DurationRequest
	if !bindRequest(c, &req) {
		return
	}

	license, err := h.licenseService.Activate(c.Request.Context(), req.License, req.Days)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, i18n.T(lang, i18n.KeyLicenseActivated), license)
}

// POST /license/renew
func (h *LicenseHandler) RenewLicense(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req services.DurationRequest
	if !bindRequest(c, &req) {
		return
	}

	license, err := h.licenseService.Renew(c.Request.Context(), req.License, req.Days)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, i18n.T(lang, i18n.KeyLicenseRenewed), license)
}

// POST /license/delete
func (h *LicenseHandler) DeleteLicense(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req services.LicenseKeyRequest
	if !bindRequest(c, &req) {
		return
	}

	deleted, err := h.licenseService.Delete(c.Request.Context(), req.License)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, i18n.T(lang, i18n.KeyLicenseDeleted), gin.H{
		"deleted_count": deleted,
	})
}

// GET /license/all/:wallet
func (h *LicenseHandler) GetLicensesByOwner(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	licenses, err := h.licenseService.ListByOwner(c.Request.Context(), c.Param("wallet"))
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, i18n.T(lang, i18n.KeySuccess), licenses)
}
