package infra

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/EstebanRsh/UP/internal/apierror"
	"github.com/EstebanRsh/UP/internal/dto"

	"github.com/google/uuid"
)

// Accepted proof attachment types. The content type decides the stored
// extension; the client filename is never trusted.
var proofExtensions = map[string]string{
	"application/pdf": ".pdf",
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
}

// SaveProof validates and stores a proof-of-payment attachment under dir,
// named by a fresh uuid so uploads can never collide or traverse paths.
// Returns the stored file path.
func SaveProof(dir string, proof dto.ProofUpload, maxBytes int64) (string, error) {
	if len(proof.Data) == 0 {
		return "", apierror.Validation("proof file is empty")
	}
	if int64(len(proof.Data)) > maxBytes {
		return "", apierror.Validation("proof file exceeds the %d MB limit", maxBytes>>20)
	}

	contentType := strings.ToLower(strings.TrimSpace(proof.ContentType))
	if i := strings.Index(contentType, ";"); i >= 0 {
		contentType = strings.TrimSpace(contentType[:i])
	}
	ext, ok := proofExtensions[contentType]
	if !ok {
		return "", apierror.Validation("proof must be a PDF, JPEG or PNG file")
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("uploads: create dir: %w", err)
	}

	path := filepath.Join(dir, uuid.NewString()+ext)
	if err := os.WriteFile(path, proof.Data, 0644); err != nil {
		return "", fmt.Errorf("uploads: write file: %w", err)
	}
	return path, nil
}
