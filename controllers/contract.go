package controllers

import (
	"context"
	"errors"
	"net/http"
	"os"
	"strconv"
	"sync"
	"time"

	"contract-management-api/config"
	"contract-management-api/models"
	"contract-management-api/services"
	"contract-management-api/utils"

	"github.com/gin-gonic/gin"
)

type ContractRequest struct {
	ContractNumber   string   `json:"contract_number" binding:"required"`
	Name             string   `json:"name" binding:"required"`
	StartDate        string   `json:"start_date" binding:"required"`
	EndDate          string   `json:"end_date" binding:"required"`
	Amount           *float64 `json:"amount"`
	Currency         *string  `json:"currency"`
	ContractType     *string  `json:"contract_type"`
	PaymentFrequency *string  `json:"payment_frequency"`
	AutoRenew        bool     `json:"auto_renew"`
	ProviderContact  *string  `json:"provider_contact"`
	Notes            string   `json:"notes"`
}

type ContractResponse struct {
	ContractID       int      `json:"contract_id"`
	ContractNumber   string   `json:"contract_number"`
	Name             string   `json:"name"`
	StartDate        string   `json:"start_date"`
	EndDate          string   `json:"end_date"`
	Amount           *float64 `json:"amount,omitempty"`
	Currency         *string  `json:"currency,omitempty"`
	ContractType     *string  `json:"contract_type,omitempty"`
	PaymentFrequency *string  `json:"payment_frequency,omitempty"`
	AutoRenew        bool     `json:"auto_renew"`
	Status           string   `json:"status"`
	ProviderContact  *string  `json:"provider_contact,omitempty"`
	Notes            string   `json:"notes"`
}

func getOrgID(c *gin.Context) (int, bool) {
	if v, ok := c.Get("orgID"); ok {
		if id, ok := v.(int); ok {
			return id, true
		}
	}
	return 0, false
}

func contractService() *services.ContractService {
	return services.NewContractService(config.DB)
}

func toContractResponse(contract *models.Contract) ContractResponse {
	return ContractResponse{
		ContractID:       contract.ContractID,
		ContractNumber:   contract.ContractNumber,
		Name:             contract.Name,
		StartDate:        utils.FormatDate(contract.StartDate),
		EndDate:          utils.FormatDate(contract.EndDate),
		Amount:           contract.Amount,
		Currency:         contract.Currency,
		ContractType:     contract.ContractType,
		PaymentFrequency: contract.PaymentFrequency,
		AutoRenew:        contract.AutoRenew,
		Status:           string(contract.Status),
		ProviderContact:  contract.ProviderContact,
		Notes:            contract.Notes,
	}
}

// GetContracts lists the caller organization's contracts
func GetContracts(c *gin.Context) {
	orgID, ok := getOrgID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Organization not found"})
		return
	}

	contracts, err := contractService().FindByOrganization(orgID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch contracts"})
		return
	}

	out := make([]ContractResponse, 0, len(contracts))
	for i := range contracts {
		out = append(out, toContractResponse(&contracts[i]))
	}
	c.JSON(http.StatusOK, gin.H{"contracts": out})
}

// GetContract returns one contract of the caller's organization
func GetContract(c *gin.Context) {
	orgID, ok := getOrgID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Organization not found"})
		return
	}

	contractID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid contract id"})
		return
	}

	contract, err := contractService().FindByOrganizationAndID(orgID, contractID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch contract"})
		return
	}
	if contract == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Contract not found"})
		return
	}

	c.JSON(http.StatusOK, toContractResponse(contract))
}

// CreateContract creates a contract in the caller's organization
func CreateContract(c *gin.Context) {
	orgID, ok := getOrgID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Organization not found"})
		return
	}

	var req ContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	startDate, err := utils.ParseDate(req.StartDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	endDate, err := utils.ParseDate(req.EndDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := services.ValidateDates(startDate, endDate); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	now := time.Now()
	contract := models.Contract{
		OrgID:            orgID,
		ContractNumber:   req.ContractNumber,
		Name:             req.Name,
		StartDate:        startDate,
		EndDate:          endDate,
		Amount:           req.Amount,
		Currency:         req.Currency,
		ContractType:     req.ContractType,
		PaymentFrequency: req.PaymentFrequency,
		AutoRenew:        req.AutoRenew,
		ProviderContact:  req.ProviderContact,
		Notes:            req.Notes,
		Status:           services.ResolveStatusOnSave(models.ContractActive, endDate, utils.Today()),
		CreateAt:         &now,
	}

	if err := contractService().Save(&contract); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create contract"})
		return
	}

	c.JSON(http.StatusOK, toContractResponse(&contract))
}

// UpdateContract edits a contract. The organization is immutable and a
// terminated contract stays terminated unless explicitly reactivated.
func UpdateContract(c *gin.Context) {
	orgID, ok := getOrgID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Organization not found"})
		return
	}

	contractID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid contract id"})
		return
	}

	var req ContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	startDate, err := utils.ParseDate(req.StartDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	endDate, err := utils.ParseDate(req.EndDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := services.ValidateDates(startDate, endDate); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	svc := contractService()
	contract, err := svc.FindByOrganizationAndID(orgID, contractID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch contract"})
		return
	}
	if contract == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Contract not found"})
		return
	}

	now := time.Now()
	contract.ContractNumber = req.ContractNumber
	contract.Name = req.Name
	contract.StartDate = startDate
	contract.EndDate = endDate
	contract.Amount = req.Amount
	contract.Currency = req.Currency
	contract.ContractType = req.ContractType
	contract.PaymentFrequency = req.PaymentFrequency
	contract.AutoRenew = req.AutoRenew
	contract.ProviderContact = req.ProviderContact
	contract.Notes = req.Notes
	contract.Status = services.ResolveStatusOnSave(contract.Status, endDate, utils.Today())
	contract.UpdateAt = &now

	if err := svc.Save(contract); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update contract"})
		return
	}

	c.JSON(http.StatusOK, toContractResponse(contract))
}

// DeleteContract removes a contract of the caller's organization
func DeleteContract(c *gin.Context) {
	orgID, ok := getOrgID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Organization not found"})
		return
	}

	contractID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid contract id"})
		return
	}

	deleted, err := contractService().DeleteByOrganizationAndID(orgID, contractID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete contract"})
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"error": "Contract not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Contract deleted"})
}

// TerminateContract sets the status to TERMINATED
func TerminateContract(c *gin.Context) {
	orgID, ok := getOrgID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Organization not found"})
		return
	}

	contractID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid contract id"})
		return
	}

	contract, err := contractService().Terminate(orgID, contractID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to terminate contract"})
		return
	}
	if contract == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Contract not found"})
		return
	}

	c.JSON(http.StatusOK, toContractResponse(contract))
}

// ReactivateContract sets a terminated contract back to ACTIVE, rejected
// when the end date has passed
func ReactivateContract(c *gin.Context) {
	orgID, ok := getOrgID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Organization not found"})
		return
	}

	contractID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid contract id"})
		return
	}

	contract, err := contractService().Reactivate(orgID, contractID, utils.Today())
	if err != nil {
		var vErr *services.ValidationError
		if errors.As(err, &vErr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": vErr.Msg})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reactivate contract"})
		return
	}
	if contract == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Contract not found"})
		return
	}

	c.JSON(http.StatusOK, toContractResponse(contract))
}

var (
	ocrOnce sync.Once
	ocrSvc  *services.OCRService
)

func ocrService() *services.OCRService {
	ocrOnce.Do(func() {
		ocrSvc = services.NewOCRService(services.OCRConfigFromEnv())
	})
	return ocrSvc
}

func ocrTimeout() time.Duration {
	secs, err := strconv.Atoi(os.Getenv("OCR_TIMEOUT_SECONDS"))
	if err != nil || secs <= 0 {
		secs = 30
	}
	return time.Duration(secs) * time.Second
}

type extractedFieldsResponse struct {
	ContractNumber   *string  `json:"contract_number"`
	Name             *string  `json:"name"`
	StartDate        *string  `json:"start_date"`
	EndDate          *string  `json:"end_date"`
	Amount           *float64 `json:"amount"`
	Currency         *string  `json:"currency"`
	ContractType     *string  `json:"contract_type"`
	PaymentFrequency *string  `json:"payment_frequency"`
	AutoRenew        bool     `json:"auto_renew"`
	ProviderContact  *string  `json:"provider_contact"`
}

// ExtractContract accepts a document file and returns a draft contract
// projection for human review. Nothing is persisted; individual fields the
// OCR text did not yield come back null.
func ExtractContract(c *gin.Context) {
	if _, ok := getOrgID(c); !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Organization not found"})
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}
	defer file.Close()

	ctx, cancel := context.WithTimeout(c.Request.Context(), ocrTimeout())
	defer cancel()

	fields, err := ocrService().ParseContract(ctx, file, header.Filename)
	if err != nil {
		var tErr *services.TimeoutError
		if errors.As(err, &tErr) {
			c.JSON(http.StatusRequestTimeout, gin.H{"error": "Document processing timed out"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not extract text from document"})
		return
	}

	resp := extractedFieldsResponse{
		ContractNumber:   fields.ContractNumber,
		Name:             fields.Name,
		Amount:           fields.Amount,
		Currency:         fields.Currency,
		ContractType:     fields.ContractType,
		PaymentFrequency: fields.PaymentFrequency,
		AutoRenew:        fields.AutoRenew,
		ProviderContact:  fields.ProviderContact,
	}
	if fields.StartDate != nil {
		s := utils.FormatDate(*fields.StartDate)
		resp.StartDate = &s
	}
	if fields.EndDate != nil {
		s := utils.FormatDate(*fields.EndDate)
		resp.EndDate = &s
	}

	c.JSON(http.StatusOK, resp)
}
