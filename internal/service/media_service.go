package service

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/jfloyd10/gofit/internal/storage"
)

// --- Error Definitions ---
var (
	ErrMediaKindInvalid  = errors.New("unsupported media kind")
	ErrMediaContentType  = errors.New("unsupported content type for this media kind")
	ErrUploadURLError    = errors.New("failed to generate upload URL")
	ErrDownloadURLError  = errors.New("failed to generate download URL")
	ErrMediaKeyNotOwned  = errors.New("object key does not belong to this user")
	ErrMediaDeleteFailed = errors.New("failed to delete media object")
)

// MediaKind names what kind of asset is being uploaded; it becomes part
// of the object key prefix.
type MediaKind string

const (
	MediaProgramImage  MediaKind = "program-image"
	MediaExerciseImage MediaKind = "exercise-image"
	MediaExerciseVideo MediaKind = "exercise-video"
)

// allowed content-type prefixes per kind.
var mediaKindContentPrefix = map[MediaKind]string{
	MediaProgramImage:  "image/",
	MediaExerciseImage: "image/",
	MediaExerciseVideo: "video/",
}

// UploadURLResponse carries the presigned URL and the key the client
// reports back once the direct upload has finished.
type UploadURLResponse struct {
	UploadURL string `json:"uploadUrl"`
	ObjectKey string `json:"objectKey"`
}

type MediaService interface {
	// RequestUploadURL mints a presigned PUT URL for a direct client
	// upload. The object key is scoped under the user's prefix.
	RequestUploadURL(ctx context.Context, userID primitive.ObjectID, kind MediaKind, contentType string) (*UploadURLResponse, error)
	// DownloadURL mints a presigned GET URL for a stored object.
	DownloadURL(ctx context.Context, objectKey string) (string, error)
	// DeleteObject removes an object the user owns.
	DeleteObject(ctx context.Context, userID primitive.ObjectID, objectKey string) error
}

type mediaService struct {
	fileStorage storage.FileStorage
}

// NewMediaService creates a new instance of mediaService.
func NewMediaService(fileStorage storage.FileStorage) MediaService {
	return &mediaService{fileStorage: fileStorage}
}

func (s *mediaService) RequestUploadURL(ctx context.Context, userID primitive.ObjectID, kind MediaKind, contentType string) (*UploadURLResponse, error) {
	prefix, ok := mediaKindContentPrefix[kind]
	if !ok {
		return nil, ErrMediaKindInvalid
	}
	if !strings.HasPrefix(contentType, prefix) {
		return nil, ErrMediaContentType
	}

	// Unique key under the user's prefix, extension taken from the MIME subtype.
	uniqueID := uuid.NewString()
	fileExtension := ""
	parts := strings.Split(contentType, "/")
	if len(parts) == 2 {
		fileExtension = parts[1]
	}
	objectKey := path.Join("media", userID.Hex(), string(kind), fmt.Sprintf("%s.%s", uniqueID, fileExtension))

	uploadURL, err := s.fileStorage.GeneratePresignedUploadURL(ctx, objectKey, contentType, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return nil, ErrUploadURLError
	}

	return &UploadURLResponse{UploadURL: uploadURL, ObjectKey: objectKey}, nil
}

func (s *mediaService) DownloadURL(ctx context.Context, objectKey string) (string, error) {
	downloadURL, err := s.fileStorage.GeneratePresignedDownloadURL(ctx, objectKey, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return "", ErrDownloadURLError
	}
	return downloadURL, nil
}

func (s *mediaService) DeleteObject(ctx context.Context, userID primitive.ObjectID, objectKey string) error {
	// Users may only delete objects under their own prefix.
	if !strings.HasPrefix(objectKey, path.Join("media", userID.Hex())+"/") {
		return ErrMediaKeyNotOwned
	}
	if err := s.fileStorage.DeleteObject(ctx, objectKey); err != nil {
		return ErrMediaDeleteFailed
	}
	return nil
}
