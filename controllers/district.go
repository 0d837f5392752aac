package controllers

import (
	"net/http"

	"liff-member-backend/utils"

	"github.com/gin-gonic/gin"
)

const messageCityNotFound = "找不到縣市"

// GetCities returns every city in table order.
func GetCities(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"cities": utils.Cities()})
}

// GetDistricts returns the districts of the :city path parameter.
func GetDistricts(c *gin.Context) {
	city := c.Param("city")
	districts, ok := utils.Districts(city)
	if !ok {
		utils.RespondWithError(c, http.StatusNotFound, messageCityNotFound)
		return
	}
	c.JSON(http.StatusOK, gin.H{"city": city, "districts": districts})
}
