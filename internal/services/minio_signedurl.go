package services

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"miam_back_end/internal/database"
)

// GenerateSignedURL retourne une URL signée à durée limitée pour un objet
// du bucket (prévisualisation des pièces de candidature côté super-admin)
func GenerateSignedURL(ctx context.Context, objectPath string, duration time.Duration) (string, error) {
	bucket := os.Getenv("MINIO_BUCKET")
	reqParams := make(url.Values)

	// Nettoie l'URL complète pour ne garder que le chemin relatif au bucket
	key := objectPath
	if idx := strings.Index(objectPath, "/"+bucket+"/"); idx >= 0 {
		key = objectPath[idx+len(bucket)+2:]
	}

	presignedURL, err := database.MinIO.PresignedGetObject(ctx, bucket, key, duration, reqParams)
	if err != nil {
		return "", fmt.Errorf("erreur génération URL signée: %v", err)
	}

	return presignedURL.String(), nil
}
