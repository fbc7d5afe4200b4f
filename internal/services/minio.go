package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/gocql/gocql"
	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"

	"miam_back_end/internal/database"
)

// UploadImage pousse une image (couverture restaurant ou photo de plat)
// dans le bucket et retourne son URL publique.
// prefix est le dossier logique : "restaurants" ou "menu-items"
func UploadImage(ctx context.Context, prefix string, ownerID gocql.UUID, file *multipart.FileHeader) (string, error) {
	if database.MinIO == nil {
		return "", fmt.Errorf("MinIO non initialisé")
	}

	f, err := file.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	// Suffixe unique : re-téléverser ne doit jamais écraser l'objet précédent
	// (son URL peut encore être référencée par des commandes passées)
	bucket := os.Getenv("MINIO_BUCKET")
	objectName := fmt.Sprintf("%s/%s-%s%s", prefix, ownerID.String(), uuid.NewString(), filepath.Ext(file.Filename))

	_, err = database.MinIO.PutObject(ctx, bucket, objectName, f, file.Size,
		minio.PutObjectOptions{ContentType: file.Header.Get("Content-Type")})
	if err != nil {
		return "", err
	}

	scheme := "http"
	if os.Getenv("MINIO_USE_SSL") == "true" {
		scheme = "https"
	}
	url := fmt.Sprintf("%s://%s/%s/%s", scheme, os.Getenv("MINIO_ENDPOINT"), bucket, objectName)
	return url, nil
}
