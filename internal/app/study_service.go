package app

import (
	"context"
	"log"
	"strings"

	"studybuddy/internal/ai"
	"studybuddy/internal/model"
	"studybuddy/internal/prompt"
	"studybuddy/internal/repository"
)

const (
	defaultFlashcardNum = 8
	defaultQuizNum      = 5
	defaultDifficulty   = "mixed"

	// historyWindow is how many recent exchanges are loaded and cached per
	// room. Caller limits are applied on top of this window at read time so
	// the cached list is never tied to one request's limit.
	historyWindow = 200
)

// Task names recorded on exchanges.
const (
	TaskAskDocuments = "ask_pdf"
	TaskAskText      = "ask_text"
	TaskAskImage     = "ask_image"
	TaskAskVoice     = "ask_voice"
	TaskFlashcards   = "flashcards"
	TaskSummarize    = "summarize"
	TaskQuiz         = "quiz"
)

// AsyncExchangePublisher enqueues an exchange for background persistence.
type AsyncExchangePublisher interface {
	Publish(ctx context.Context, exchange model.Exchange) error
}

// HistoryCache caches recent per-room exchanges with a dirty marker that
// suppresses repopulation while new answers are still in flight.
type HistoryCache interface {
	GetHistory(ctx context.Context, roomID uint) ([]model.Exchange, bool, error)
	SetHistory(ctx context.Context, roomID uint, exchanges []model.Exchange) error
	DeleteHistory(ctx context.Context, roomID uint) error
	MarkDirty(ctx context.Context, roomID uint) error
	IsDirty(ctx context.Context, roomID uint) (bool, error)
}

// StudyService loads a room's documents, assembles the content list, calls
// the inference gateway, and records the exchange.
type StudyService struct {
	docRepo      *repository.DocumentRepository
	exchangeRepo *repository.ExchangeRepository
	gateway      ai.Generator
	publisher    AsyncExchangePublisher
	historyCache HistoryCache
}

func NewStudyService(
	docRepo *repository.DocumentRepository,
	exchangeRepo *repository.ExchangeRepository,
	gateway ai.Generator,
	publisher AsyncExchangePublisher,
	historyCache HistoryCache,
) *StudyService {
	return &StudyService{
		docRepo:      docRepo,
		exchangeRepo: exchangeRepo,
		gateway:      gateway,
		publisher:    publisher,
		historyCache: historyCache,
	}
}

type AskDocumentsInput struct {
	RoomID   uint
	Question string
	Level    string
}

type AskTextInput struct {
	Question string
	Level    string
}

type AskImageInput struct {
	Image    []byte
	MIME     string
	Question string
}

type AskVoiceInput struct {
	Audio []byte
	MIME  string
}

type FlashcardsInput struct {
	RoomID uint
	Num    *int // nil = default; zero passes through unvalidated
}

type SummarizeInput struct {
	RoomID uint
}

type QuizInput struct {
	RoomID     uint
	Difficulty string
	Num        *int
}

// AskDocuments answers a question grounded on the room's uploaded documents.
// A missing or empty room is not an error: the request goes out with only
// the trailing text block.
func (s *StudyService) AskDocuments(ctx context.Context, input AskDocumentsInput) (string, error) {
	question := strings.TrimSpace(input.Question)
	if question == "" {
		return "", ErrNoQuestion
	}

	docs, err := s.loadRoomBlocks(input.RoomID)
	if err != nil {
		return "", err
	}

	answer, err := s.gateway.Generate(ctx, prompt.AskDocuments(docs, question, input.Level))
	if err != nil {
		return "", err
	}

	s.record(ctx, input.RoomID, TaskAskDocuments, question, answer)
	return answer, nil
}

func (s *StudyService) AskText(ctx context.Context, input AskTextInput) (string, error) {
	question := strings.TrimSpace(input.Question)
	if question == "" {
		return "", ErrNoQuestion
	}
	return s.gateway.Generate(ctx, prompt.AskText(question, input.Level))
}

func (s *StudyService) AskImage(ctx context.Context, input AskImageInput) (string, error) {
	if len(input.Image) == 0 {
		return "", ErrNoImage
	}
	mime := input.MIME
	if mime == "" {
		mime = "image/png"
	}
	return s.gateway.Generate(ctx, prompt.AskImage(ai.DataBlock(input.Image, mime), input.Question))
}

func (s *StudyService) AskVoice(ctx context.Context, input AskVoiceInput) (string, error) {
	if len(input.Audio) == 0 {
		return "", ErrNoAudio
	}
	mime := input.MIME
	if mime == "" {
		mime = "audio/webm"
	}
	return s.gateway.Generate(ctx, prompt.AskVoice(ai.DataBlock(input.Audio, mime)))
}

func (s *StudyService) Flashcards(ctx context.Context, input FlashcardsInput) (string, error) {
	num := defaultFlashcardNum
	if input.Num != nil {
		num = *input.Num
	}

	docs, err := s.loadRoomBlocks(input.RoomID)
	if err != nil {
		return "", err
	}

	raw, err := s.gateway.Generate(ctx, prompt.Flashcards(docs, num))
	if err != nil {
		return "", err
	}

	s.record(ctx, input.RoomID, TaskFlashcards, "", raw)
	return raw, nil
}

func (s *StudyService) Summarize(ctx context.Context, input SummarizeInput) (string, error) {
	docs, err := s.loadRoomBlocks(input.RoomID)
	if err != nil {
		return "", err
	}

	raw, err := s.gateway.Generate(ctx, prompt.Summarize(docs))
	if err != nil {
		return "", err
	}

	s.record(ctx, input.RoomID, TaskSummarize, "", raw)
	return raw, nil
}

func (s *StudyService) Quiz(ctx context.Context, input QuizInput) (string, error) {
	num := defaultQuizNum
	if input.Num != nil {
		num = *input.Num
	}
	difficulty := strings.TrimSpace(input.Difficulty)
	if difficulty == "" {
		difficulty = defaultDifficulty
	}

	docs, err := s.loadRoomBlocks(input.RoomID)
	if err != nil {
		return "", err
	}

	raw, err := s.gateway.Generate(ctx, prompt.Quiz(docs, difficulty, num))
	if err != nil {
		return "", err
	}

	s.record(ctx, input.RoomID, TaskQuiz, "", raw)
	return raw, nil
}

// History returns recorded exchanges for a room, serving from the cache when
// it is populated and not dirty. The cache always holds the full recent
// window; the caller's limit trims it per request.
func (s *StudyService) History(ctx context.Context, roomID uint, limit int) ([]model.Exchange, error) {
	if roomID == 0 {
		return nil, ErrInvalidInput
	}

	if s.historyCache != nil {
		dirty, err := s.historyCache.IsDirty(ctx, roomID)
		if err == nil && !dirty {
			if cached, hit, cacheErr := s.historyCache.GetHistory(ctx, roomID); cacheErr == nil && hit {
				return trimExchanges(cached, limit), nil
			}
		}
	}

	exchanges, err := s.exchangeRepo.ListRecentByRoomID(roomID, historyWindow)
	if err != nil {
		return nil, err
	}
	if s.historyCache != nil {
		if dirty, dirtyErr := s.historyCache.IsDirty(ctx, roomID); dirtyErr == nil && !dirty {
			_ = s.historyCache.SetHistory(ctx, roomID, exchanges)
		}
	}
	return trimExchanges(exchanges, limit), nil
}

// loadRoomBlocks turns the room's stored documents into binary blocks in
// insertion order. RoomID zero means no room was given.
func (s *StudyService) loadRoomBlocks(roomID uint) ([]ai.Block, error) {
	if roomID == 0 {
		return nil, nil
	}
	docs, err := s.docRepo.ListByRoomID(roomID)
	if err != nil {
		return nil, err
	}
	blocks := make([]ai.Block, 0, len(docs))
	for _, doc := range docs {
		blocks = append(blocks, ai.DataBlock(doc.Data, doc.Mime))
	}
	return blocks, nil
}

// record persists a finished exchange, preferring the async queue and
// falling back to a direct write. Recording is best-effort: the caller's
// answer is already in hand and must not be lost to a bookkeeping failure.
func (s *StudyService) record(ctx context.Context, roomID uint, task, question, answer string) {
	if roomID == 0 {
		return
	}

	exchange := model.Exchange{
		RoomID:   roomID,
		Task:     task,
		Question: question,
		Answer:   answer,
	}

	if s.historyCache != nil {
		_ = s.historyCache.MarkDirty(ctx, roomID)
		_ = s.historyCache.DeleteHistory(ctx, roomID)
	}

	if s.publisher != nil {
		err := s.publisher.Publish(ctx, exchange)
		if err == nil {
			return
		}
		log.Printf("publish exchange failed, persisting directly: %v", err)
	}
	if s.exchangeRepo != nil {
		if err := s.exchangeRepo.Create(&exchange); err != nil {
			log.Printf("persist exchange failed: %v", err)
		}
	}
}

func trimExchanges(exchanges []model.Exchange, limit int) []model.Exchange {
	if limit <= 0 || limit >= len(exchanges) {
		return exchanges
	}
	return exchanges[len(exchanges)-limit:]
}
