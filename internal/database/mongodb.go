package database

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"
	"time"

	"smart-va/internal/config"
	"smart-va/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoDBClient stores task requests in a MongoDB collection
type MongoDBClient struct {
	client     *mongo.Client
	database   *mongo.Database
	collection *mongo.Collection
}

// listProjection strips the audit fields from listings
var listProjection = bson.M{"conversationData": 0, "ipAddress": 0, "userAgent": 0}

// BuildMongoURI returns the connection URI and a password-masked copy for logging
func BuildMongoURI(cfg config.MongoDBConfig) (uri string, logURI string) {
	authSource := cfg.AuthSource
	if authSource == "" {
		authSource = "admin"
	}

	if cfg.URI != "" {
		uri = cfg.URI
		logURI = cfg.URI
		if parsed, err := url.Parse(cfg.URI); err == nil {
			logURI = parsed.Redacted()
		}
		return uri, logURI
	}

	if cfg.Username != "" && cfg.Password != "" {
		// Use url.UserPassword to properly encode username and password
		userInfo := url.UserPassword(cfg.Username, cfg.Password)
		uri = fmt.Sprintf("mongodb://%s@%s:%s/%s?authSource=%s",
			userInfo.String(), cfg.Host, cfg.Port, cfg.Database, url.QueryEscape(authSource))
		logURI = fmt.Sprintf("mongodb://%s:***@%s:%s/%s?authSource=%s",
			url.User(cfg.Username).String(), cfg.Host, cfg.Port, cfg.Database, url.QueryEscape(authSource))
		return uri, logURI
	}

	uri = fmt.Sprintf("mongodb://%s:%s/%s", cfg.Host, cfg.Port, cfg.Database)
	return uri, uri
}

// NewMongoDBClient connects to MongoDB and prepares the task collection
func NewMongoDBClient(cfg config.MongoDBConfig) (*MongoDBClient, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	uri, logURI := BuildMongoURI(cfg)
	log.Printf("Attempting to connect to MongoDB at %s", logURI)

	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB at %s: %w", logURI, err)
	}

	// Ping to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB at %s: %w", logURI, err)
	}

	database := client.Database(cfg.Database)
	collection := database.Collection(cfg.Collection)

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "taskType", Value: 1}, {Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
	}
	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		// Index might already exist, that's okay
		log.Printf("Note: MongoDB index creation: %v", err)
	}

	return &MongoDBClient{
		client:     client,
		database:   database,
		collection: collection,
	}, nil
}

// Name implements services.TaskStore
func (c *MongoDBClient) Name() string {
	return "mongodb"
}

// Close closes the MongoDB client connection
func (c *MongoDBClient) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return c.client.Disconnect(ctx)
}

// Ping checks the primary is reachable
func (c *MongoDBClient) Ping(ctx context.Context) error {
	return c.client.Ping(ctx, nil)
}

// CreateTask inserts a new task request document
func (c *MongoDBClient) CreateTask(ctx context.Context, task *models.TaskRequest) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if _, err := c.collection.InsertOne(ctx, task); err != nil {
		return fmt.Errorf("failed to insert task request: %w", err)
	}
	return nil
}

// GetTask retrieves a task request by ID
func (c *MongoDBClient) GetTask(ctx context.Context, id string) (*models.TaskRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var task models.TaskRequest
	err := c.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&task)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to query task request: %w", err)
	}
	return &task, nil
}

// ListTasks returns one page of task requests, newest first
func (c *MongoDBClient) ListTasks(ctx context.Context, filter models.TaskFilter) ([]models.TaskRequest, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	query := bson.M{}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.TaskType != "" {
		query["taskType"] = filter.TaskType
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64(filter.Skip())).
		SetLimit(int64(filter.Limit)).
		SetProjection(listProjection)

	cursor, err := c.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query task requests: %w", err)
	}
	defer cursor.Close(ctx)

	tasks := []models.TaskRequest{}
	if err := cursor.All(ctx, &tasks); err != nil {
		return nil, 0, fmt.Errorf("failed to decode task requests: %w", err)
	}

	total, err := c.collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count task requests: %w", err)
	}

	return tasks, total, nil
}

// UpdateTaskStatus sets the status of a task request and returns the updated document
func (c *MongoDBClient) UpdateTaskStatus(ctx context.Context, id string, status models.TaskStatus) (*models.TaskRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{"status": status, "updatedAt": time.Now().UTC()}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var task models.TaskRequest
	err := c.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&task)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to update task status: %w", err)
	}
	return &task, nil
}
