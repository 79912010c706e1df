package services

import (
	"context"
	"encoding/base64"
	"encoding/hex"
	"fmt"

	"taskflow/internal/apierror"
	"taskflow/internal/models"
	"taskflow/internal/repository"
	"taskflow/pkg/crypto"

	"github.com/zeebo/blake3"
)

type UploadFileInput struct {
	Name          string `json:"name" validate:"required"`
	ContentBase64 string `json:"contentBase64" validate:"required"`
}

type FileVersionInput struct {
	ContentBase64 string `json:"contentBase64" validate:"required"`
}

// FileSummary is returned after an upload.
type FileSummary struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	UploadedBy string `json:"uploadedBy"`
	CreatedAt  int64  `json:"createdAt"`
}

// FileListing is one entry of the file list; Versions is a count.
type FileListing struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	UploadedBy string `json:"uploadedBy"`
	CreatedAt  int64  `json:"createdAt"`
	Versions   int    `json:"versions"`
}

// FileService stores base64 content inside the document. With a non-nil
// sealer the stored content is encrypted and callers only ever see plaintext.
type FileService struct {
	store  *repository.Store
	audit  *AuditService
	sealer *crypto.Sealer
}

func NewFileService(store *repository.Store, audit *AuditService, sealer *crypto.Sealer) *FileService {
	return &FileService{store: store, audit: audit, sealer: sealer}
}

// Digest is the hex blake3 hash of the decoded content.
func Digest(contentBase64 string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(contentBase64)
	if err != nil {
		return "", apierror.BadRequest("contentBase64 must be valid base64")
	}
	sum := blake3.Sum256(raw)
	return hex.EncodeToString(sum[:]), nil
}

func (s *FileService) Upload(ctx context.Context, actor Actor, input UploadFileInput) (FileSummary, error) {
	if err := validateInput(input); err != nil {
		return FileSummary{}, err
	}
	version, err := s.newVersion(1, input.ContentBase64)
	if err != nil {
		return FileSummary{}, err
	}

	var file models.File
	err = s.audit.mutate(ctx, ActionUploadFile, actorRef(actor), func(doc *models.Document, now int64) (string, error) {
		version.UploadedAt = now
		file = models.File{
			ID:            repository.NewID(),
			Name:          input.Name,
			ContentBase64: version.ContentBase64,
			Versions:      []models.FileVersion{version},
			UploadedBy:    actor.ID,
			CreatedAt:     now,
		}
		doc.Files = append(doc.Files, file)
		return file.ID, nil
	})
	if err != nil {
		return FileSummary{}, err
	}
	return FileSummary{ID: file.ID, Name: file.Name, UploadedBy: file.UploadedBy, CreatedAt: file.CreatedAt}, nil
}

// AddVersion appends the next version and makes it the current content.
func (s *FileService) AddVersion(ctx context.Context, actor Actor, id string, input FileVersionInput) (models.File, error) {
	if err := validateInput(input); err != nil {
		return models.File{}, err
	}

	var file models.File
	err := s.audit.mutate(ctx, ActionUpdateFile, actorRef(actor), func(doc *models.Document, now int64) (string, error) {
		i, ok := doc.FindFile(id)
		if !ok {
			return "", apierror.NotFound("Not found")
		}
		current := doc.Files[i]
		version, err := s.newVersion(len(current.Versions)+1, input.ContentBase64)
		if err != nil {
			return "", err
		}
		version.UploadedAt = now
		current.ContentBase64 = version.ContentBase64
		current.Versions = append(current.Versions, version)
		doc.Files[i] = current
		file = current
		return id, nil
	})
	if err != nil {
		return models.File{}, err
	}
	return s.open(file)
}

func (s *FileService) List(ctx context.Context) ([]FileListing, error) {
	files := []FileListing{}
	err := s.store.View(ctx, func(doc *models.Document) error {
		for _, f := range doc.Files {
			files = append(files, FileListing{
				ID:         f.ID,
				Name:       f.Name,
				UploadedBy: f.UploadedBy,
				CreatedAt:  f.CreatedAt,
				Versions:   len(f.Versions),
			})
		}
		return nil
	})
	return files, err
}

func (s *FileService) Get(ctx context.Context, id string) (models.File, error) {
	var file models.File
	err := s.store.View(ctx, func(doc *models.Document) error {
		i, ok := doc.FindFile(id)
		if !ok {
			return apierror.NotFound("Not found")
		}
		file = doc.Files[i]
		return nil
	})
	if err != nil {
		return models.File{}, err
	}
	return s.open(file)
}

func (s *FileService) newVersion(ver int, contentBase64 string) (models.FileVersion, error) {
	digest, err := Digest(contentBase64)
	if err != nil {
		return models.FileVersion{}, err
	}
	sealed, err := s.sealer.Seal(contentBase64)
	if err != nil {
		return models.FileVersion{}, fmt.Errorf("seal file content: %w", err)
	}
	return models.FileVersion{Ver: ver, ContentBase64: sealed, Digest: digest}, nil
}

// open returns a copy of file with its content decrypted.
func (s *FileService) open(file models.File) (models.File, error) {
	current, err := s.sealer.Open(file.ContentBase64)
	if err != nil {
		return models.File{}, fmt.Errorf("open file content: %w", err)
	}
	out := file
	out.ContentBase64 = current
	out.Versions = make([]models.FileVersion, len(file.Versions))
	for i, v := range file.Versions {
		if v.ContentBase64, err = s.sealer.Open(v.ContentBase64); err != nil {
			return models.File{}, fmt.Errorf("open file version %d: %w", v.Ver, err)
		}
		out.Versions[i] = v
	}
	return out, nil
}
