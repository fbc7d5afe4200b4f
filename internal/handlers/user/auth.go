package user

import (
	"crypto/rand"
	"encoding/base64"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"

	"miam_back_end/internal/cache"
	"miam_back_end/internal/database"
	"miam_back_end/internal/models"
	"miam_back_end/internal/utils"
)

// ================== AUTH LOCALE ==================

// Register crée un compte local. Seuls les rôles customer et driver
// s'obtiennent à l'inscription : restaurant_admin passe par l'approbation
// d'une candidature, super_admin est provisionné à la main.
func Register(c *gin.Context) {
	var input struct {
		Name     string `json:"name" binding:"required"`
		Email    string `json:"email" binding:"required,email"`
		Phone    string `json:"phone"`
		Password string `json:"password" binding:"required,min=8"`
		Role     string `json:"role"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	role := input.Role
	if role == "" {
		role = models.RoleCustomer
	}
	if role != models.RoleCustomer && role != models.RoleDriver {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Rôle non autorisé à l'inscription"})
		return
	}

	// email déjà pris ?
	var existingID gocql.UUID
	if err := database.GetPreparedGetUserByEmail().Bind(input.Email).Scan(&existingID); err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Un compte avec cet email existe déjà"})
		return
	}

	hashedPassword, err := utils.HashPassword(input.Password)
	if err != nil {
		log.Printf("❌ Erreur hash mot de passe: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création utilisateur"})
		return
	}

	now := time.Now().UTC()
	newUser := models.User{
		ID:        gocql.TimeUUID(),
		Name:      input.Name,
		Email:     input.Email,
		Phone:     input.Phone,
		Password:  hashedPassword,
		Role:      role,
		Provider:  "local",
		CreatedAt: &now,
	}

	if err := database.GetPreparedInsertUser().Bind(
		newUser.ID, newUser.Email, newUser.Password, newUser.Name, newUser.Phone,
		newUser.Role, newUser.Provider, "", nil, now,
	).Exec(); err != nil {
		log.Printf("❌ Erreur insertion utilisateur: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création utilisateur"})
		return
	}

	if err := database.GetPreparedInsertUserByEmail().Bind(newUser.Email, newUser.ID).Exec(); err != nil {
		log.Printf("⚠️ Erreur index users_by_email: %v", err)
	}

	token, err := utils.GenerateJWT(newUser)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur génération token"})
		return
	}
	refreshToken := generateRefreshToken()
	if err := cache.StoreRefreshToken(newUser.ID.String(), refreshToken); err != nil {
		log.Printf("⚠️ Erreur stockage refresh token: %v", err)
	}

	utils.LogAction(c, utils.ACTION_USER_CREATE, utils.RESOURCE_USER, newUser.ID.String(), nil, gin.H{"role": role})
	log.Printf("✅ Compte créé: %s (%s)", newUser.Email, role)

	c.JSON(http.StatusCreated, gin.H{
		"token":         token,
		"refresh_token": refreshToken,
		"user":          newUser,
	})
}

// Login authentifie un compte local.
// La vérification Argon2 réussie est mise en cache Redis : les logins
// répétés ne repaient pas le coût mémoire du hash.
func Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	u, err := loadUserByEmail(input.Email)
	if err != nil || u.Provider != "local" {
		utils.LogFailedAction(c, utils.ACTION_LOGIN_FAILED, utils.RESOURCE_AUTH, input.Email, "compte inconnu")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Email ou mot de passe incorrect"})
		return
	}

	verified, _ := cache.GetPasswordHashFromCache(input.Email, input.Password)
	if !verified {
		verified, err = utils.VerifyPassword(input.Password, u.Password)
		if err != nil || !verified {
			utils.LogFailedAction(c, utils.ACTION_LOGIN_FAILED, utils.RESOURCE_AUTH, input.Email, "mot de passe incorrect")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Email ou mot de passe incorrect"})
			return
		}
		cache.SetPasswordHashInCache(input.Email, input.Password)
	}

	token, err := utils.GenerateJWT(*u)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur génération token"})
		return
	}
	refreshToken := generateRefreshToken()
	if err := cache.StoreRefreshToken(u.ID.String(), refreshToken); err != nil {
		log.Printf("⚠️ Erreur stockage refresh token: %v", err)
	}

	utils.LogAction(c, utils.ACTION_LOGIN_SUCCESS, utils.RESOURCE_AUTH, u.ID.String(), nil, nil)

	c.JSON(http.StatusOK, gin.H{
		"token":         token,
		"refresh_token": refreshToken,
		"user":          u,
	})
}

// Refresh échange un refresh token valide contre un nouveau couple de tokens
func Refresh(c *gin.Context) {
	var input struct {
		UserID       string `json:"user_id" binding:"required"`
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	stored, err := cache.GetRefreshToken(input.UserID)
	if err != nil || stored != input.RefreshToken {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Refresh token invalide ou expiré"})
		return
	}

	userID, err := gocql.ParseUUID(input.UserID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id invalide"})
		return
	}

	u, err := loadUserByID(userID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Utilisateur introuvable"})
		return
	}

	token, err := utils.GenerateJWT(*u)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur génération token"})
		return
	}

	// Rotation : l'ancien refresh token ne resservira pas
	refreshToken := generateRefreshToken()
	if err := cache.StoreRefreshToken(u.ID.String(), refreshToken); err != nil {
		log.Printf("⚠️ Erreur rotation refresh token: %v", err)
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "refresh_token": refreshToken})
}

// Logout révoque le refresh token du compte connecté
func Logout(c *gin.Context) {
	userID := c.GetString("user_id")
	if err := cache.DeleteRefreshToken(userID); err != nil {
		log.Printf("⚠️ Erreur suppression refresh token: %v", err)
	}
	c.JSON(http.StatusOK, gin.H{"message": "Déconnecté"})
}

// Me retourne le profil du compte connecté
func Me(c *gin.Context) {
	userID, err := gocql.ParseUUID(c.GetString("user_id"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Non authentifié"})
		return
	}

	u, err := loadUserByID(userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Utilisateur introuvable"})
		return
	}

	c.JSON(http.StatusOK, u)
}

// ================== UTILITAIRES ==================

func generateRefreshToken() string {
	b := make([]byte, 32)
	rand.Read(b)
	return base64.URLEncoding.EncodeToString(b)
}

// loadUserByEmail résout email → user_id puis lit la fiche complète
func loadUserByEmail(email string) (*models.User, error) {
	var userID gocql.UUID
	if err := database.GetPreparedGetUserByEmail().Bind(email).Scan(&userID); err != nil {
		return nil, err
	}
	return loadUserByID(userID)
}

func loadUserByID(userID gocql.UUID) (*models.User, error) {
	u := models.User{ID: userID}
	var restaurantID gocql.UUID
	var createdAt time.Time
	if err := database.GetPreparedGetUserByID().Bind(userID).Scan(
		&u.Email, &u.Password, &u.Name, &u.Phone, &u.Role,
		&u.Provider, &u.ProviderID, &restaurantID, &createdAt); err != nil {
		return nil, err
	}

	var zero gocql.UUID
	if restaurantID != zero {
		u.RestaurantID = &restaurantID
	}
	if !createdAt.IsZero() {
		u.CreatedAt = &createdAt
	}
	return &u, nil
}
