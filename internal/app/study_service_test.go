package app

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"studybuddy/internal/ai"
	"studybuddy/internal/model"
	"studybuddy/internal/repository"
)

type fakeGenerator struct {
	calls [][]ai.Block
	reply string
	err   error
}

func (f *fakeGenerator) Generate(_ context.Context, blocks []ai.Block) (string, error) {
	f.calls = append(f.calls, blocks)
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.Room{}, &model.Document{}, &model.Exchange{}))
	return db
}

func newTestService(t *testing.T) (*StudyService, *fakeGenerator, *gorm.DB) {
	t.Helper()
	db := openTestDB(t)
	gen := &fakeGenerator{reply: "model text"}
	svc := NewStudyService(
		repository.NewDocumentRepository(db),
		repository.NewExchangeRepository(db),
		gen,
		nil, // no broker in tests: recording falls back to direct writes
		nil,
	)
	return svc, gen, db
}

func TestAskDocumentsSendsDocumentsAndQuestion(t *testing.T) {
	svc, gen, db := newTestService(t)

	docRepo := repository.NewDocumentRepository(db)
	require.NoError(t, docRepo.Create(&model.Document{RoomID: 1, Filename: "a.pdf", Data: []byte("pdf-a"), Mime: "application/pdf"}))
	require.NoError(t, docRepo.Create(&model.Document{RoomID: 1, Filename: "b.pdf", Data: []byte("pdf-b"), Mime: "application/pdf"}))

	answer, err := svc.AskDocuments(context.Background(), AskDocumentsInput{
		RoomID:   1,
		Question: "What is mitosis?",
		Level:    "child",
	})
	require.NoError(t, err)
	assert.Equal(t, "model text", answer)

	require.Len(t, gen.calls, 1)
	blocks := gen.calls[0]
	require.Len(t, blocks, 3)
	assert.Equal(t, []byte("pdf-a"), blocks[0].Data)
	assert.Equal(t, []byte("pdf-b"), blocks[1].Data)
	assert.Contains(t, blocks[2].Text, "Explain like I'm 10.")
	assert.Contains(t, blocks[2].Text, "Question: What is mitosis?")
}

func TestAskDocumentsEmptyRoomStillCallsModel(t *testing.T) {
	svc, gen, _ := newTestService(t)

	answer, err := svc.AskDocuments(context.Background(), AskDocumentsInput{
		RoomID:   42,
		Question: "anything?",
	})
	require.NoError(t, err)
	assert.Equal(t, "model text", answer)

	require.Len(t, gen.calls, 1)
	require.Len(t, gen.calls[0], 1)
	assert.False(t, gen.calls[0][0].IsData())
}

func TestAskDocumentsRequiresQuestion(t *testing.T) {
	svc, gen, _ := newTestService(t)

	_, err := svc.AskDocuments(context.Background(), AskDocumentsInput{RoomID: 1, Question: "   "})
	assert.ErrorIs(t, err, ErrNoQuestion)
	assert.Empty(t, gen.calls)
}

func TestAskTextRequiresQuestion(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.AskText(context.Background(), AskTextInput{})
	assert.ErrorIs(t, err, ErrNoQuestion)
}

func TestAskImageDefaultsMime(t *testing.T) {
	svc, gen, _ := newTestService(t)

	_, err := svc.AskImage(context.Background(), AskImageInput{Image: []byte{0x01}, Question: "what?"})
	require.NoError(t, err)

	require.Len(t, gen.calls, 1)
	assert.Equal(t, "image/png", gen.calls[0][0].MIME)
}

func TestAskVoiceDefaultsMime(t *testing.T) {
	svc, gen, _ := newTestService(t)

	_, err := svc.AskVoice(context.Background(), AskVoiceInput{Audio: []byte{0x01}})
	require.NoError(t, err)

	require.Len(t, gen.calls, 1)
	assert.Equal(t, "audio/webm", gen.calls[0][0].MIME)
}

// num=0 issues a generation request anyway; there is no lower-bound
// validation. Current behavior, documented rather than endorsed.
func TestFlashcardsZeroStillCallsModel(t *testing.T) {
	svc, gen, _ := newTestService(t)

	zero := 0
	raw, err := svc.Flashcards(context.Background(), FlashcardsInput{RoomID: 1, Num: &zero})
	require.NoError(t, err)
	assert.Equal(t, "model text", raw)

	require.Len(t, gen.calls, 1)
	last := gen.calls[0][len(gen.calls[0])-1]
	assert.Contains(t, last.Text, "up to 0 flashcards")
}

func TestQuizZeroStillCallsModel(t *testing.T) {
	svc, gen, _ := newTestService(t)

	zero := 0
	raw, err := svc.Quiz(context.Background(), QuizInput{RoomID: 1, Num: &zero})
	require.NoError(t, err)
	assert.Equal(t, "model text", raw)

	require.Len(t, gen.calls, 1)
	last := gen.calls[0][len(gen.calls[0])-1]
	assert.Contains(t, last.Text, "generate 0 quiz questions")
}

func TestQuizDefaults(t *testing.T) {
	svc, gen, _ := newTestService(t)

	_, err := svc.Quiz(context.Background(), QuizInput{RoomID: 1})
	require.NoError(t, err)

	require.Len(t, gen.calls, 1)
	last := gen.calls[0][len(gen.calls[0])-1]
	assert.Contains(t, last.Text, "generate 5 quiz questions of mixed difficulty")
}

func TestExchangeRecordedAndListedInHistory(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.AskDocuments(context.Background(), AskDocumentsInput{RoomID: 3, Question: "q?"})
	require.NoError(t, err)

	history, err := svc.History(context.Background(), 3, 10)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, TaskAskDocuments, history[0].Task)
	assert.Equal(t, "q?", history[0].Question)
	assert.Equal(t, "model text", history[0].Answer)
}

func TestPublisherFailureFallsBackToDirectWrite(t *testing.T) {
	db := openTestDB(t)
	gen := &fakeGenerator{reply: "model text"}
	svc := NewStudyService(
		repository.NewDocumentRepository(db),
		repository.NewExchangeRepository(db),
		gen,
		failingPublisher{},
		nil,
	)

	_, err := svc.Summarize(context.Background(), SummarizeInput{RoomID: 5})
	require.NoError(t, err)

	history, err := svc.History(context.Background(), 5, 10)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestGatewayErrorPropagates(t *testing.T) {
	db := openTestDB(t)
	gen := &fakeGenerator{err: errors.New("quota exceeded")}
	svc := NewStudyService(
		repository.NewDocumentRepository(db),
		repository.NewExchangeRepository(db),
		gen,
		nil,
		nil,
	)

	_, err := svc.AskText(context.Background(), AskTextInput{Question: "q"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exceeded")

	// A failed call records nothing.
	history, err := svc.History(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestHistoryReturnsNewestWithinLimit(t *testing.T) {
	svc, _, db := newTestService(t)

	exchangeRepo := repository.NewExchangeRepository(db)
	for i := 0; i < 5; i++ {
		require.NoError(t, exchangeRepo.Create(&model.Exchange{
			RoomID:   7,
			Task:     TaskAskDocuments,
			Question: fmt.Sprintf("q%d", i),
		}))
	}

	history, err := svc.History(context.Background(), 7, 2)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "q3", history[0].Question)
	assert.Equal(t, "q4", history[1].Question)
}

// The cached list must not depend on the limit of whichever request
// populated it: a small-limit read followed by a large-limit read has to
// return the full history, not the earlier trim.
func TestHistoryCacheHoldsFullListAcrossLimits(t *testing.T) {
	db := openTestDB(t)
	svc := NewStudyService(
		repository.NewDocumentRepository(db),
		repository.NewExchangeRepository(db),
		&fakeGenerator{reply: "model text"},
		nil,
		newMemoryHistoryCache(),
	)

	exchangeRepo := repository.NewExchangeRepository(db)
	for i := 0; i < 3; i++ {
		require.NoError(t, exchangeRepo.Create(&model.Exchange{
			RoomID:   7,
			Task:     TaskAskDocuments,
			Question: fmt.Sprintf("q%d", i),
		}))
	}

	first, err := svc.History(context.Background(), 7, 1)
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Equal(t, "q2", first[0].Question)

	second, err := svc.History(context.Background(), 7, 10)
	require.NoError(t, err)
	require.Len(t, second, 3)
	assert.Equal(t, "q0", second[0].Question)
	assert.Equal(t, "q2", second[2].Question)
}

type failingPublisher struct{}

func (failingPublisher) Publish(context.Context, model.Exchange) error {
	return errors.New("broker unavailable")
}

type memoryHistoryCache struct {
	store map[uint][]model.Exchange
	dirty map[uint]bool
}

func newMemoryHistoryCache() *memoryHistoryCache {
	return &memoryHistoryCache{
		store: make(map[uint][]model.Exchange),
		dirty: make(map[uint]bool),
	}
}

func (m *memoryHistoryCache) GetHistory(_ context.Context, roomID uint) ([]model.Exchange, bool, error) {
	exchanges, ok := m.store[roomID]
	return exchanges, ok, nil
}

func (m *memoryHistoryCache) SetHistory(_ context.Context, roomID uint, exchanges []model.Exchange) error {
	m.store[roomID] = exchanges
	return nil
}

func (m *memoryHistoryCache) DeleteHistory(_ context.Context, roomID uint) error {
	delete(m.store, roomID)
	return nil
}

func (m *memoryHistoryCache) MarkDirty(_ context.Context, roomID uint) error {
	m.dirty[roomID] = true
	return nil
}

func (m *memoryHistoryCache) IsDirty(_ context.Context, roomID uint) (bool, error) {
	return m.dirty[roomID], nil
}
