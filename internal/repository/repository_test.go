package repository

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"studybuddy/internal/model"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.Room{}, &model.Document{}, &model.Exchange{}))
	return db
}

func TestRoomGetOrCreateIdempotent(t *testing.T) {
	repo := NewRoomRepository(openTestDB(t))

	first, err := repo.GetOrCreate("bio101")
	require.NoError(t, err)
	require.NotZero(t, first.ID)

	second, err := repo.GetOrCreate("bio101")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	other, err := repo.GetOrCreate("chem202")
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, other.ID)
}

func TestDocumentListInsertionOrder(t *testing.T) {
	db := openTestDB(t)
	roomRepo := NewRoomRepository(db)
	docRepo := NewDocumentRepository(db)

	room, err := roomRepo.GetOrCreate("bio101")
	require.NoError(t, err)

	for i := 1; i <= 3; i++ {
		err := docRepo.Create(&model.Document{
			RoomID:   room.ID,
			Filename: fmt.Sprintf("notes-%d.pdf", i),
			Data:     []byte(fmt.Sprintf("pdf-%d", i)),
			Mime:     "application/pdf",
		})
		require.NoError(t, err)
	}

	docs, err := docRepo.ListByRoomID(room.ID)
	require.NoError(t, err)
	require.Len(t, docs, 3)
	for i, doc := range docs {
		assert.Equal(t, fmt.Sprintf("notes-%d.pdf", i+1), doc.Filename)
		assert.Equal(t, []byte(fmt.Sprintf("pdf-%d", i+1)), doc.Data)
	}
}

// A document may reference a room that does not exist; the store accepts it
// silently. Documenting current behavior, not endorsing it.
func TestDocumentOrphanRoomAccepted(t *testing.T) {
	docRepo := NewDocumentRepository(openTestDB(t))

	err := docRepo.Create(&model.Document{
		RoomID:   9999,
		Filename: "orphan.pdf",
		Data:     []byte("pdf"),
		Mime:     "application/pdf",
	})
	require.NoError(t, err)

	docs, err := docRepo.ListByRoomID(9999)
	require.NoError(t, err)
	assert.Len(t, docs, 1)
}

func TestDocumentListMetaOmitsBlob(t *testing.T) {
	db := openTestDB(t)
	docRepo := NewDocumentRepository(db)

	require.NoError(t, docRepo.Create(&model.Document{
		RoomID:   1,
		Filename: "notes.pdf",
		Data:     []byte("large blob"),
		Mime:     "application/pdf",
		Pages:    3,
	}))

	docs, err := docRepo.ListMetaByRoomID(1)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Empty(t, docs[0].Data)
	assert.Equal(t, "notes.pdf", docs[0].Filename)
	assert.Equal(t, 3, docs[0].Pages)
}

func TestExchangeListByRoom(t *testing.T) {
	repo := NewExchangeRepository(openTestDB(t))

	for i := 0; i < 2; i++ {
		require.NoError(t, repo.Create(&model.Exchange{
			RoomID:   7,
			Task:     "ask_pdf",
			Question: fmt.Sprintf("q%d", i),
			Answer:   fmt.Sprintf("a%d", i),
		}))
	}
	require.NoError(t, repo.Create(&model.Exchange{RoomID: 8, Task: "quiz"}))

	exchanges, err := repo.ListRecentByRoomID(7, 0)
	require.NoError(t, err)
	assert.Len(t, exchanges, 2)
}

func TestExchangeListRecentKeepsNewestInOrder(t *testing.T) {
	repo := NewExchangeRepository(openTestDB(t))

	for i := 0; i < 4; i++ {
		require.NoError(t, repo.Create(&model.Exchange{
			RoomID:   7,
			Task:     "ask_pdf",
			Question: fmt.Sprintf("q%d", i),
		}))
	}

	exchanges, err := repo.ListRecentByRoomID(7, 2)
	require.NoError(t, err)
	require.Len(t, exchanges, 2)
	assert.Equal(t, "q2", exchanges[0].Question)
	assert.Equal(t, "q3", exchanges[1].Question)
}
