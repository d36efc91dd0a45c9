// Package mongo keeps every thread as one document with its replies embedded.
// Mutations are single field-level updates, so concurrent writers never
// overwrite each other.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/itchan-dev/msgboard/shared/config"
	"github.com/itchan-dev/msgboard/shared/domain"
	internal_errors "github.com/itchan-dev/msgboard/shared/errors"
	"github.com/itchan-dev/msgboard/shared/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

type Storage struct {
	client  *mongo.Client
	threads *mongo.Collection
}

// recency is the listing order. _id breaks ties between equal timestamps.
var recency = bson.D{{Key: "bumped_on", Value: -1}, {Key: "created_on", Value: -1}, {Key: "_id", Value: -1}}

func New(ctx context.Context, cfg *config.Config) (*Storage, error) {
	log := logger.Component("mongo")
	log.Info("connecting to mongo", "database", cfg.Public.Storage.Mongo.Database)

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.Private.Mongo.Uri))
	if err != nil {
		return nil, err
	}
	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	threads := client.Database(cfg.Public.Storage.Mongo.Database).Collection(cfg.Public.Storage.Mongo.Collection)
	_, err = threads.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "board", Value: 1}, {Key: "bumped_on", Value: -1}, {Key: "created_on", Value: -1}, {Key: "_id", Value: -1}},
	})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("create board index: %w", err)
	}

	log.Info("successfully connected to mongo")
	return &Storage{client: client, threads: threads}, nil
}

func (s *Storage) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *Storage) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

func (s *Storage) CreateThread(ctx context.Context, thread domain.Thread) error {
	if thread.Replies == nil {
		// $push needs an array to prepend to
		thread.Replies = []domain.Reply{}
	}
	_, err := s.threads.InsertOne(ctx, thread)
	return err
}

func (s *Storage) GetThread(ctx context.Context, id domain.ThreadId) (domain.Thread, error) {
	var thread domain.Thread
	err := s.threads.FindOne(ctx, bson.M{"_id": id}).Decode(&thread)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.Thread{}, internal_errors.ErrNotFound
	}
	if err != nil {
		return domain.Thread{}, err
	}
	normalize(&thread)
	return thread, nil
}

func (s *Storage) ListThreads(ctx context.Context, board domain.BoardShortName, limit int) ([]domain.Thread, error) {
	return s.find(ctx, bson.M{"board": board}, options.Find().SetSort(recency).SetLimit(int64(limit)))
}

func (s *Storage) ReportThread(ctx context.Context, id domain.ThreadId) error {
	return s.updateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"reported": true}})
}

func (s *Storage) DeleteThread(ctx context.Context, id domain.ThreadId) error {
	res, err := s.threads.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return internal_errors.ErrNotFound
	}
	return nil
}

// AddReply prepends the reply and bumps the thread in one update.
func (s *Storage) AddReply(ctx context.Context, threadId domain.ThreadId, reply domain.Reply, bumpedOn time.Time) error {
	return s.updateOne(ctx, bson.M{"_id": threadId}, bson.M{
		"$push": bson.M{"replies": bson.M{"$each": []domain.Reply{reply}, "$position": 0}},
		"$set":  bson.M{"bumped_on": bumpedOn},
	})
}

func (s *Storage) ReportReply(ctx context.Context, threadId domain.ThreadId, replyId domain.ReplyId) error {
	return s.updateOne(ctx,
		bson.M{"_id": threadId, "replies.id": replyId},
		bson.M{"$set": bson.M{"replies.$.reported": true}},
	)
}

func (s *Storage) SetReplyText(ctx context.Context, threadId domain.ThreadId, replyId domain.ReplyId, text domain.PostText) error {
	return s.updateOne(ctx,
		bson.M{"_id": threadId, "replies.id": replyId},
		bson.M{"$set": bson.M{"replies.$.text": text}},
	)
}

func (s *Storage) ReportedThreads(ctx context.Context, board domain.BoardShortName) ([]domain.Thread, error) {
	filter := bson.M{
		"board": board,
		"$or":   bson.A{bson.M{"reported": true}, bson.M{"replies.reported": true}},
	}
	return s.find(ctx, filter, options.Find().SetSort(recency))
}

func (s *Storage) ClearReports(ctx context.Context, id domain.ThreadId) error {
	return s.updateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"reported": false, "replies.$[].reported": false},
	})
}

func (s *Storage) Boards(ctx context.Context) ([]domain.BoardShortName, error) {
	values, err := s.threads.Distinct(ctx, "board", bson.D{})
	if err != nil {
		return nil, err
	}
	boards := make([]domain.BoardShortName, 0, len(values))
	for _, v := range values {
		if board, ok := v.(string); ok {
			boards = append(boards, board)
		}
	}
	return boards, nil
}

func (s *Storage) ThreadCount(ctx context.Context, board domain.BoardShortName) (int, error) {
	n, err := s.threads.CountDocuments(ctx, bson.M{"board": board})
	return int(n), err
}

func (s *Storage) LeastBumpedThreadId(ctx context.Context, board domain.BoardShortName) (domain.ThreadId, error) {
	var doc struct {
		Id string `bson:"_id"`
	}
	opts := options.FindOne().
		SetSort(bson.D{{Key: "bumped_on", Value: 1}, {Key: "created_on", Value: 1}, {Key: "_id", Value: 1}}).
		SetProjection(bson.M{"_id": 1})
	err := s.threads.FindOne(ctx, bson.M{"board": board}, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", internal_errors.ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return doc.Id, nil
}

func (s *Storage) find(ctx context.Context, filter any, opts *options.FindOptions) ([]domain.Thread, error) {
	cursor, err := s.threads.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	threads := make([]domain.Thread, 0)
	if err := cursor.All(ctx, &threads); err != nil {
		return nil, err
	}
	for i := range threads {
		normalize(&threads[i])
	}
	return threads, nil
}

func (s *Storage) updateOne(ctx context.Context, filter, update any) error {
	res, err := s.threads.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return internal_errors.ErrNotFound
	}
	return nil
}

func normalize(t *domain.Thread) {
	if t.Replies == nil {
		t.Replies = []domain.Reply{}
	}
}
