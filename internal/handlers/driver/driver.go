package driver

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"

	"miam_back_end/internal/database"
	"miam_back_end/internal/models"
)

// UpsertProfile enregistre le véhicule du livreur connecté
func UpsertProfile(c *gin.Context) {
	driverID, err := gocql.ParseUUID(c.GetString("user_id"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Non authentifié"})
		return
	}

	var input struct {
		VehicleType  string `json:"vehicle_type" binding:"required"`
		LicensePlate string `json:"license_plate"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	switch input.VehicleType {
	case "bike", "scooter", "car":
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "vehicle_type doit être bike, scooter ou car"})
		return
	}

	session, err := database.GetUsersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	profile := models.DriverProfile{
		UserID:       driverID,
		VehicleType:  input.VehicleType,
		LicensePlate: input.LicensePlate,
		IsAvailable:  false,
		UpdatedAt:    time.Now().UTC(),
	}

	if err := session.Query(`INSERT INTO driver_profiles (user_id, vehicle_type, license_plate, is_available, updated_at)
		VALUES (?, ?, ?, ?, ?)`,
		profile.UserID, profile.VehicleType, profile.LicensePlate, profile.IsAvailable, profile.UpdatedAt).Exec(); err != nil {
		log.Printf("❌ Erreur enregistrement profil livreur: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur enregistrement profil"})
		return
	}

	c.JSON(http.StatusOK, profile)
}

// GetProfile retourne le profil livreur du compte connecté
func GetProfile(c *gin.Context) {
	driverID, err := gocql.ParseUUID(c.GetString("user_id"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Non authentifié"})
		return
	}

	session, err := database.GetUsersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	var profile models.DriverProfile
	if err := session.Query(`SELECT user_id, vehicle_type, license_plate, is_available, updated_at
		FROM driver_profiles WHERE user_id = ?`, driverID).Scan(
		&profile.UserID, &profile.VehicleType, &profile.LicensePlate, &profile.IsAvailable, &profile.UpdatedAt); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Profil livreur introuvable"})
		return
	}

	c.JSON(http.StatusOK, profile)
}

// SetAvailability bascule la disponibilité du livreur. Seuls les livreurs
// disponibles apparaissent dans le sélecteur d'affectation des restaurateurs.
func SetAvailability(c *gin.Context) {
	driverID, err := gocql.ParseUUID(c.GetString("user_id"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Non authentifié"})
		return
	}

	var input struct {
		IsAvailable bool `json:"is_available"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := database.GetUsersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	if err := session.Query("UPDATE driver_profiles SET is_available = ?, updated_at = ? WHERE user_id = ?",
		input.IsAvailable, time.Now().UTC(), driverID).Exec(); err != nil {
		log.Printf("❌ Erreur changement disponibilité livreur %s: %v", driverID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour"})
		return
	}

	log.Printf("🛵 Livreur %s → is_available=%v", driverID, input.IsAvailable)
	c.JSON(http.StatusOK, gin.H{"driver_id": driverID.String(), "is_available": input.IsAvailable})
}

// ListAvailableDrivers alimente la modale de sélection du restaurateur :
// uniquement les livreurs qui se sont déclarés disponibles
func ListAvailableDrivers(c *gin.Context) {
	session, err := database.GetUsersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	iter := session.Query("SELECT user_id, vehicle_type, license_plate, is_available, updated_at FROM driver_profiles").Iter()
	defer iter.Close()

	var drivers []models.DriverProfile
	var p models.DriverProfile
	for iter.Scan(&p.UserID, &p.VehicleType, &p.LicensePlate, &p.IsAvailable, &p.UpdatedAt) {
		if p.IsAvailable {
			drivers = append(drivers, p)
		}
		p = models.DriverProfile{}
	}

	if err := iter.Close(); err != nil {
		log.Printf("❌ Erreur liste livreurs: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur serveur"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"drivers": drivers, "total": len(drivers)})
}
