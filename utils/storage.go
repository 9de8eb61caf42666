package utils

import (
	"bytes"
	"fmt"
	"os"

	storage "github.com/supabase-community/storage-go"
)

const exportBucket = "feedback_exports"

// UploadExportArtifact pushes a generated export file to Supabase storage
// and returns its public URL. Callers fall back to local download when the
// storage credentials are absent.
func UploadExportArtifact(data []byte, objectPath string, contentType string) (string, error) {
	supabaseURL := os.Getenv("SUPABASE_URL")
	supabaseKey := os.Getenv("SUPABASE_KEY")
	if supabaseURL == "" || supabaseKey == "" {
		return "", fmt.Errorf("supabase storage not configured")
	}

	storageClient := storage.NewClient(supabaseURL+"/storage/v1", supabaseKey, nil)

	upsert := true
	options := storage.FileOptions{
		ContentType: &contentType,
		Upsert:      &upsert,
	}

	if _, err := storageClient.UploadFile(exportBucket, objectPath, bytes.NewReader(data), options); err != nil {
		return "", err
	}

	publicURL := storageClient.GetPublicUrl(exportBucket, objectPath)
	return publicURL.SignedURL, nil
}
