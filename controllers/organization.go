package controllers

import (
	"net/http"

	"contract-management-api/config"
	"contract-management-api/models"
	"contract-management-api/services"

	"github.com/gin-gonic/gin"
)

// GetReminderSettings returns the caller organization's optional offsets
func GetReminderSettings(c *gin.Context) {
	orgID, ok := getOrgID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Organization not found"})
		return
	}

	org, err := services.NewOrganizationService(config.DB).FindByID(orgID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch settings"})
		return
	}
	if org == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Organization not found"})
		return
	}

	c.JSON(http.StatusOK, org.ReminderConfig())
}

// UpdateReminderSettings stores the four optional offset flags
func UpdateReminderSettings(c *gin.Context) {
	orgID, ok := getOrgID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Organization not found"})
		return
	}

	var cfg models.ReminderConfig
	if err := c.ShouldBindJSON(&cfg); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	org, err := services.NewOrganizationService(config.DB).UpdateReminderConfig(orgID, cfg)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update settings"})
		return
	}
	if org == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Organization not found"})
		return
	}

	c.JSON(http.StatusOK, org.ReminderConfig())
}
