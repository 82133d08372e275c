package app

import (
	"studybuddy/internal/model"
	"studybuddy/internal/pkg/pdfinfo"
	"studybuddy/internal/repository"
)

// DocumentService is the document store. Uploads are kept verbatim; the
// given room id is recorded as-is without checking that the room exists.
type DocumentService struct {
	docRepo *repository.DocumentRepository
}

func NewDocumentService(docRepo *repository.DocumentRepository) *DocumentService {
	return &DocumentService{docRepo: docRepo}
}

type StoreDocumentInput struct {
	RoomID   uint
	Filename string
	Data     []byte
	Mime     string
}

// Store inserts the uploaded bytes. The page count is metadata only: a file
// that does not parse as a PDF is stored anyway with Pages left at zero.
func (s *DocumentService) Store(input StoreDocumentInput) (*model.Document, error) {
	if len(input.Data) == 0 {
		return nil, ErrInvalidInput
	}
	mime := input.Mime
	if mime == "" {
		mime = "application/pdf"
	}

	pages, err := pdfinfo.PageCount(input.Data)
	if err != nil {
		pages = 0
	}

	doc := &model.Document{
		RoomID:   input.RoomID,
		Filename: input.Filename,
		Data:     input.Data,
		Mime:     mime,
		Pages:    pages,
	}
	if err := s.docRepo.Create(doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// List returns the room's document metadata in upload order, blobs omitted.
func (s *DocumentService) List(roomID uint) ([]model.Document, error) {
	return s.docRepo.ListMetaByRoomID(roomID)
}
