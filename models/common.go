package models

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Job is one unit of work for the worker pool, typically one inbound update.
type Job struct {
	ID      string
	Service string
	Run     func(ctx context.Context) error
}

type Outcome string

const (
	OutcomeOK       Outcome = "ok"
	OutcomeNotFound Outcome = "not_found"
	OutcomeError    Outcome = "error"
)

// Lookup is one recorded weather request for a chat.
type Lookup struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	ChatID    int64              `bson:"chat_id"`
	Kind      string             `bson:"kind"`
	Query     string             `bson:"query"`
	Location  string             `bson:"location,omitempty"`
	Outcome   Outcome            `bson:"outcome"`
	CreatedAt time.Time          `bson:"created_at"`
}

type Migration struct {
	Name string
	Func func(ctx context.Context, client *mongo.Client) error
}
