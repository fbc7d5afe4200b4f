package config

import (
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// GoogleOAuthConfig : configuration oauth2 utilisée par le callback web.
// Le RedirectURL est recalculé au démarrage depuis BASE_URL.
var GoogleOAuthConfig = &oauth2.Config{
	RedirectURL:  "http://localhost:8080/api/auth/oauth/google/callback",
	ClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
	ClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
	Scopes: []string{
		"https://www.googleapis.com/auth/userinfo.email",
		"https://www.googleapis.com/auth/userinfo.profile",
	},
	Endpoint: google.Endpoint,
}

// InitGoogleOAuth recharge le client/secret après le chargement du .env
func InitGoogleOAuth() {
	GoogleOAuthConfig.ClientID = os.Getenv("GOOGLE_CLIENT_ID")
	GoogleOAuthConfig.ClientSecret = os.Getenv("GOOGLE_CLIENT_SECRET")

	baseURL := os.Getenv("BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	GoogleOAuthConfig.RedirectURL = baseURL + "/api/auth/oauth/google/callback"
}
