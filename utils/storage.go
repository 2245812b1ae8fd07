package utils

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	storage "github.com/supabase-community/storage-go"
)

// FileStore lưu file export; trả về (đường dẫn local, public URL).
type FileStore interface {
	Save(objectPath string, data []byte, contentType string) (localPath string, publicURL string, err error)
}

// SupabaseStore upload lên bucket Supabase Storage.
type SupabaseStore struct {
	URL    string
	Key    string
	Bucket string
}

func (s SupabaseStore) Save(objectPath string, data []byte, contentType string) (string, string, error) {
	storageClient := storage.NewClient(s.URL+"/storage/v1", s.Key, nil)

	upsert := true
	options := storage.FileOptions{
		ContentType: &contentType,
		Upsert:      &upsert,
	}

	if _, err := storageClient.UploadFile(s.Bucket, objectPath, bytes.NewReader(data), options); err != nil {
		return "", "", fmt.Errorf("upload %s: %w", objectPath, err)
	}

	publicURL := storageClient.GetPublicUrl(s.Bucket, objectPath)
	return "", publicURL.SignedURL, nil
}

// LocalStore ghi file vào thư mục trên đĩa.
type LocalStore struct {
	Dir string
}

func (s LocalStore) Save(objectPath string, data []byte, _ string) (string, string, error) {
	if !filepath.IsLocal(filepath.FromSlash(objectPath)) {
		return "", "", fmt.Errorf("object path %q escapes export dir", objectPath)
	}
	outPath := filepath.Join(s.Dir, filepath.FromSlash(objectPath))
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return "", "", err
	}
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		return "", "", err
	}
	return outPath, "", nil
}
