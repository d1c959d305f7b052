package services

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"

	"github.com/segmentio/kafka-go"
	"github.com/tadikamesra/tadika-mesra/internal/logger"
	"github.com/tadikamesra/tadika-mesra/internal/models"
)

// Error variables
var (
	ErrEmptyPost    = errors.New("post must have text or an image")
	ErrPostNotFound = errors.New("post not found")
	ErrNotPostOwner = errors.New("not the post owner")
)

// PostReader defines read-only operations for posts.
type PostReader interface {
	ListWithAuthor(ctx context.Context) ([]models.Post, error)
	GetByIDWithAuthor(ctx context.Context, id int64) (*models.Post, error)
	GetByID(ctx context.Context, id int64) (*models.PostDB, error)
}

// PostWriter defines write operations for posts.
type PostWriter interface {
	Save(ctx context.Context, textContent, imageURL *string, authorID int64) (int64, error)
	Delete(ctx context.Context, id int64) (int64, error)
}

// EventPublisher pushes an event onto the broadcast bus.
type EventPublisher interface {
	Publish(ctx context.Context, ev models.Event) error
}

// KafkaWriter defines a Kafka writer abstraction.
type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error // Writes messages to Kafka
	Close() error                                                   // Closes the Kafka writer
}

// PostService handles the post lifecycle, broadcast fan-out and the Kafka
// audit stream.
type PostService struct {
	reader      PostReader
	writer      PostWriter
	publisher   EventPublisher
	kafkaWriter KafkaWriter
}

// NewPostService creates a new PostService.
func NewPostService(reader PostReader, writer PostWriter, publisher EventPublisher, kafkaWriter KafkaWriter) *PostService {
	return &PostService{
		reader:      reader,
		writer:      writer,
		publisher:   publisher,
		kafkaWriter: kafkaWriter,
	}
}

// publishEvent pushes an event to the broadcast bus and mirrors it to the
// Kafka audit topic. Both are best-effort: a failed publish never fails
// the request that caused it.
func (s *PostService) publishEvent(ctx context.Context, ev models.Event, postID int64) {
	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, ev); err != nil {
			logger.Log.Errorw("failed to publish event", "event", ev.Event, "post_id", postID, "error", err)
		}
	}

	if s.kafkaWriter == nil {
		logger.Log.Warnw("Kafka writer not configured, skipping publishing", "event", ev.Event, "post_id", postID)
		return
	}

	data, err := json.Marshal(ev)
	if err != nil {
		logger.Log.Errorw("failed to marshal event for Kafka", "event", ev.Event, "post_id", postID, "error", err)
		return
	}

	msg := kafka.Message{
		Key:   []byte(strconv.FormatInt(postID, 10)),
		Value: data,
	}

	if err := s.kafkaWriter.WriteMessages(ctx, msg); err != nil {
		logger.Log.Errorw("failed to publish event to Kafka", "event", ev.Event, "post_id", postID, "error", err)
	} else {
		logger.Log.Infow("event published to Kafka", "event", ev.Event, "post_id", postID)
	}
}

// Create stores a new post, re-reads it joined with its author and
// broadcasts the enriched post. A post needs text, an image or both.
func (s *PostService) Create(ctx context.Context, authorID int64, textContent, imageURL *string) (*models.Post, error) {
	if (textContent == nil || *textContent == "") && imageURL == nil {
		return nil, ErrEmptyPost
	}

	id, err := s.writer.Save(ctx, textContent, imageURL, authorID)
	if err != nil {
		logger.Log.Errorw("failed to save post", "author_id", authorID, "error", err)
		return nil, err
	}

	post, err := s.reader.GetByIDWithAuthor(ctx, id)
	if err != nil {
		logger.Log.Errorw("failed to re-read post", "post_id", id, "error", err)
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}

	ev, err := models.NewPostEvent(post)
	if err != nil {
		logger.Log.Errorw("failed to build new_post event", "post_id", id, "error", err)
	} else {
		s.publishEvent(ctx, ev, id)
	}

	return post, nil
}

// List returns every post enriched with its author, newest first.
func (s *PostService) List(ctx context.Context) ([]models.Post, error) {
	posts, err := s.reader.ListWithAuthor(ctx)
	if err != nil {
		logger.Log.Errorw("failed to list posts", "error", err)
		return nil, err
	}
	return posts, nil
}

// Delete removes a post. Only the owner or an admin may delete it; a
// successful delete broadcasts post_deleted with the post id.
func (s *PostService) Delete(ctx context.Context, userID int64, isAdmin bool, postID int64) error {
	post, err := s.reader.GetByID(ctx, postID)
	if err != nil {
		logger.Log.Errorw("failed to get post", "post_id", postID, "error", err)
		return err
	}
	if post == nil {
		return ErrPostNotFound
	}

	if !isAdmin && post.AuthorID != userID {
		logger.Log.Errorw("delete forbidden", "post_id", postID, "user_id", userID)
		return ErrNotPostOwner
	}

	rows, err := s.writer.Delete(ctx, postID)
	if err != nil {
		logger.Log.Errorw("failed to delete post", "post_id", postID, "error", err)
		return err
	}
	if rows == 0 {
		return ErrPostNotFound
	}

	ev, err := models.NewPostDeletedEvent(postID)
	if err != nil {
		logger.Log.Errorw("failed to build post_deleted event", "post_id", postID, "error", err)
		return nil
	}
	s.publishEvent(ctx, ev, postID)

	return nil
}
