package services_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tadikamesra/tadika-mesra/internal/models"
	"github.com/tadikamesra/tadika-mesra/internal/services"
)

func strPtr(s string) *string { return &s }

func TestPostService_Create(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockReader := services.NewMockPostReader(ctrl)
	mockWriter := services.NewMockPostWriter(ctrl)
	mockPublisher := services.NewMockEventPublisher(ctrl)
	mockKafka := services.NewMockKafkaWriter(ctrl)

	svc := services.NewPostService(mockReader, mockWriter, mockPublisher, mockKafka)

	enriched := &models.Post{ID: 1, TextContent: strPtr("hello"), Author: "alice"}

	t.Run("successful create broadcasts new_post", func(t *testing.T) {
		mockWriter.EXPECT().Save(gomock.Any(), strPtr("hello"), nil, int64(7)).Return(int64(1), nil)
		mockReader.EXPECT().GetByIDWithAuthor(gomock.Any(), int64(1)).Return(enriched, nil)

		mockPublisher.EXPECT().
			Publish(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, ev models.Event) error {
				assert.Equal(t, models.EventNewPost, ev.Event)
				var got models.Post
				require.NoError(t, json.Unmarshal(ev.Payload, &got))
				assert.Equal(t, "alice", got.Author)
				return nil
			})
		mockKafka.EXPECT().
			WriteMessages(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, msgs ...kafka.Message) error {
				require.Len(t, msgs, 1)
				assert.Equal(t, []byte("1"), msgs[0].Key)
				return nil
			})

		post, err := svc.Create(context.Background(), 7, strPtr("hello"), nil)
		assert.NoError(t, err)
		assert.Equal(t, enriched, post)
	})

	t.Run("image only is enough", func(t *testing.T) {
		withImage := &models.Post{ID: 2, ImageURL: strPtr("/uploads/1-cat.png"), Author: "alice"}

		mockWriter.EXPECT().Save(gomock.Any(), nil, strPtr("/uploads/1-cat.png"), int64(7)).Return(int64(2), nil)
		mockReader.EXPECT().GetByIDWithAuthor(gomock.Any(), int64(2)).Return(withImage, nil)
		mockPublisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil)
		mockKafka.EXPECT().WriteMessages(gomock.Any(), gomock.Any()).Return(nil)

		post, err := svc.Create(context.Background(), 7, nil, strPtr("/uploads/1-cat.png"))
		assert.NoError(t, err)
		assert.Equal(t, withImage, post)
	})

	t.Run("empty post is rejected", func(t *testing.T) {
		_, err := svc.Create(context.Background(), 7, nil, nil)
		assert.ErrorIs(t, err, services.ErrEmptyPost)

		_, err = svc.Create(context.Background(), 7, strPtr(""), nil)
		assert.ErrorIs(t, err, services.ErrEmptyPost)
	})

	t.Run("save error", func(t *testing.T) {
		mockWriter.EXPECT().Save(gomock.Any(), strPtr("hello"), nil, int64(7)).Return(int64(0), errors.New("db error"))

		_, err := svc.Create(context.Background(), 7, strPtr("hello"), nil)
		assert.EqualError(t, err, "db error")
	})

	t.Run("failed broadcast does not fail the create", func(t *testing.T) {
		mockWriter.EXPECT().Save(gomock.Any(), strPtr("hello"), nil, int64(7)).Return(int64(1), nil)
		mockReader.EXPECT().GetByIDWithAuthor(gomock.Any(), int64(1)).Return(enriched, nil)
		mockPublisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(errors.New("redis down"))
		mockKafka.EXPECT().WriteMessages(gomock.Any(), gomock.Any()).Return(errors.New("kafka down"))

		post, err := svc.Create(context.Background(), 7, strPtr("hello"), nil)
		assert.NoError(t, err)
		assert.Equal(t, enriched, post)
	})
}

func TestPostService_Create_NilKafkaWriter(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockReader := services.NewMockPostReader(ctrl)
	mockWriter := services.NewMockPostWriter(ctrl)
	mockPublisher := services.NewMockEventPublisher(ctrl)

	// No Kafka configured: the event still reaches the broadcast bus.
	svc := services.NewPostService(mockReader, mockWriter, mockPublisher, nil)

	enriched := &models.Post{ID: 1, TextContent: strPtr("hello"), Author: "alice"}

	mockWriter.EXPECT().Save(gomock.Any(), strPtr("hello"), nil, int64(7)).Return(int64(1), nil)
	mockReader.EXPECT().GetByIDWithAuthor(gomock.Any(), int64(1)).Return(enriched, nil)
	mockPublisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil)

	post, err := svc.Create(context.Background(), 7, strPtr("hello"), nil)
	assert.NoError(t, err)
	assert.Equal(t, enriched, post)
}

func TestPostService_List(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockReader := services.NewMockPostReader(ctrl)
	svc := services.NewPostService(mockReader, services.NewMockPostWriter(ctrl), services.NewMockEventPublisher(ctrl), nil)

	posts := []models.Post{
		{ID: 2, TextContent: strPtr("newer"), Author: "bob"},
		{ID: 1, TextContent: strPtr("older"), Author: "alice"},
	}

	mockReader.EXPECT().ListWithAuthor(gomock.Any()).Return(posts, nil)

	got, err := svc.List(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, posts, got)
}

func TestPostService_Delete(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockReader := services.NewMockPostReader(ctrl)
	mockWriter := services.NewMockPostWriter(ctrl)
	mockPublisher := services.NewMockEventPublisher(ctrl)
	mockKafka := services.NewMockKafkaWriter(ctrl)

	svc := services.NewPostService(mockReader, mockWriter, mockPublisher, mockKafka)

	stored := &models.PostDB{ID: 1, AuthorID: 7}

	t.Run("owner delete broadcasts post_deleted", func(t *testing.T) {
		mockReader.EXPECT().GetByID(gomock.Any(), int64(1)).Return(stored, nil)
		mockWriter.EXPECT().Delete(gomock.Any(), int64(1)).Return(int64(1), nil)

		mockPublisher.EXPECT().
			Publish(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, ev models.Event) error {
				assert.Equal(t, models.EventPostDeleted, ev.Event)
				assert.JSONEq(t, `{"postId":1}`, string(ev.Payload))
				return nil
			})
		mockKafka.EXPECT().WriteMessages(gomock.Any(), gomock.Any()).Return(nil)

		err := svc.Delete(context.Background(), 7, false, 1)
		assert.NoError(t, err)
	})

	t.Run("admin may delete someone else's post", func(t *testing.T) {
		mockReader.EXPECT().GetByID(gomock.Any(), int64(1)).Return(stored, nil)
		mockWriter.EXPECT().Delete(gomock.Any(), int64(1)).Return(int64(1), nil)
		mockPublisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil)
		mockKafka.EXPECT().WriteMessages(gomock.Any(), gomock.Any()).Return(nil)

		err := svc.Delete(context.Background(), 99, true, 1)
		assert.NoError(t, err)
	})

	t.Run("non-owner is refused", func(t *testing.T) {
		mockReader.EXPECT().GetByID(gomock.Any(), int64(1)).Return(stored, nil)

		err := svc.Delete(context.Background(), 99, false, 1)
		assert.ErrorIs(t, err, services.ErrNotPostOwner)
	})

	t.Run("missing post", func(t *testing.T) {
		mockReader.EXPECT().GetByID(gomock.Any(), int64(404)).Return(nil, nil)

		err := svc.Delete(context.Background(), 7, false, 404)
		assert.ErrorIs(t, err, services.ErrPostNotFound)
	})

	t.Run("row vanished between read and delete", func(t *testing.T) {
		mockReader.EXPECT().GetByID(gomock.Any(), int64(1)).Return(stored, nil)
		mockWriter.EXPECT().Delete(gomock.Any(), int64(1)).Return(int64(0), nil)

		err := svc.Delete(context.Background(), 7, false, 1)
		assert.ErrorIs(t, err, services.ErrPostNotFound)
	})
}
