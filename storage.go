package imagesession

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// WriteImageFile persists one extracted image to the local filesystem as a
// single scoped write of the full byte buffer. Failure is reported as a
// structured WriteError; the image bytes remain valid for a retry. The MIME
// type does not influence the path: the extension is the caller's choice.
func WriteImageFile(path string, img Image) error {
	if err := os.WriteFile(path, img.Data, 0644); err != nil {
		return &WriteError{Path: path, Err: err}
	}
	return nil
}

// StorageResult contains information about a saved image.
type StorageResult struct {
	// URL is the public URL where the image can be accessed
	URL string

	// Path is the storage path/key where the image was saved
	Path string

	// Size is the number of bytes saved
	Size int
}

// SaveToStorage saves all inline images from a response to storage, in
// candidate-then-part order. It returns StorageResults for each
// successfully saved image.
// Images are saved with paths like: {basePath}_{index}.{extension}
func SaveToStorage(
	ctx context.Context,
	storage Storage,
	resp *Response,
	basePath string) ([]StorageResult, error) {

	if storage == nil {
		return nil, ErrStorageNotConfigured
	}
	images := ExtractImages(resp)
	if len(images) == 0 {
		return nil, nil
	}

	results := make([]StorageResult, 0, len(images))
	for i, img := range images {
		ext := extensionFromMIME(img.MIMEType)
		path := basePath
		if len(images) > 1 {
			path = basePath + "_" + strconv.Itoa(i)
		}
		path = path + "." + ext

		url, err := storage.SaveFile(ctx, img.Data, path, img.MIMEType)
		if err != nil {
			return results, err
		}

		results = append(results, StorageResult{
			URL:  url,
			Path: path,
			Size: len(img.Data),
		})
	}

	return results, nil
}

// GetMIMEType guesses an image MIME type from a file path extension.
func GetMIMEType(filePath string) string {
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".webp":
		return "image/webp"
	default:
		return "image/png"
	}
}

// extensionFromMIME returns a file extension for common image MIME types.
func extensionFromMIME(mime string) string {
	switch mime {
	case "image/png":
		return "png"
	case "image/jpeg":
		return "jpg"
	case "image/webp":
		return "webp"
	case "image/gif":
		return "gif"
	default:
		return "png"
	}
}
