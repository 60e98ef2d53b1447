package dynamo

import (
	"context"
	"fmt"
	"time"

	"github.com/Temutjin2k/pivot-location/internal/domain/models"
	"github.com/Temutjin2k/pivot-location/internal/domain/types"
	wrap "github.com/Temutjin2k/pivot-location/pkg/logger/wrapper"
	"github.com/Temutjin2k/pivot-location/pkg/metrics"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	ddbtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
)

const backend = "dynamodb"

// API is the subset of the DynamoDB client used here.
type API interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	DescribeTable(ctx context.Context, params *dynamodb.DescribeTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error)
}

type item struct {
	UserID     string  `dynamodbav:"user_id"`
	Address    string  `dynamodbav:"last_verified_location"`
	Latitude   float64 `dynamodbav:"last_verified_lat"`
	Longitude  float64 `dynamodbav:"last_verified_lng"`
	VerifiedAt string  `dynamodbav:"last_verification_time"`
}

// LocationRecordRepo keeps one item per user keyed by user_id.
type LocationRecordRepo struct {
	client API
	table  string
}

func NewLocationRecordRepo(client API, table string) *LocationRecordRepo {
	return &LocationRecordRepo{client: client, table: table}
}

// Ping fails unless the table exists and is ACTIVE.
func (r *LocationRecordRepo) Ping(ctx context.Context) error {
	out, err := r.client.DescribeTable(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(r.table)})
	if err != nil {
		return fmt.Errorf("describe table %s: %w", r.table, err)
	}
	if out.Table == nil || out.Table.TableStatus != ddbtypes.TableStatusActive {
		return fmt.Errorf("table %s is not active", r.table)
	}
	return nil
}

func (r *LocationRecordRepo) Get(ctx context.Context, userID uuid.UUID) (_ models.LocationRecord, err error) {
	const op = "dynamo.LocationRecordRepo.Get"
	defer func(start time.Time) {
		metrics.RecordStoreOperation(backend, "get_location", err, time.Since(start))
	}(time.Now())

	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.table),
		Key:            map[string]ddbtypes.AttributeValue{"user_id": &ddbtypes.AttributeValueMemberS{Value: userID.String()}},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		ctx = wrap.WithAction(ctx, types.ActionDatabaseTransactionFailed)
		return models.LocationRecord{}, wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}
	if len(out.Item) == 0 {
		return models.LocationRecord{}, nil
	}

	var it item
	if err = attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return models.LocationRecord{}, fmt.Errorf("%s: unmarshal: %w", op, err)
	}
	return it.toRecord()
}

// Overwrite replaces the whole item with one PutItem.
func (r *LocationRecordRepo) Overwrite(ctx context.Context, userID uuid.UUID, record models.LocationRecord) (err error) {
	const op = "dynamo.LocationRecordRepo.Overwrite"
	defer func(start time.Time) {
		metrics.RecordStoreOperation(backend, "overwrite_location", err, time.Since(start))
	}(time.Now())

	if record.IsEmpty() {
		return fmt.Errorf("%s: incomplete record", op)
	}

	av, err := attributevalue.MarshalMap(newItem(userID, record))
	if err != nil {
		return fmt.Errorf("%s: marshal: %w", op, err)
	}

	if _, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.table),
		Item:      av,
	}); err != nil {
		ctx = wrap.WithAction(ctx, types.ActionDatabaseTransactionFailed)
		return wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}
	return nil
}

func newItem(userID uuid.UUID, record models.LocationRecord) item {
	return item{
		UserID:     userID.String(),
		Address:    *record.Address,
		Latitude:   record.Coordinate.Latitude,
		Longitude:  record.Coordinate.Longitude,
		VerifiedAt: record.VerifiedAt.UTC().Format(time.RFC3339Nano),
	}
}

func (it item) toRecord() (models.LocationRecord, error) {
	at, err := time.Parse(time.RFC3339Nano, it.VerifiedAt)
	if err != nil {
		return models.LocationRecord{}, fmt.Errorf("parse verification time: %w", err)
	}
	return models.NewLocationRecord(it.Address, models.Coordinate{Latitude: it.Latitude, Longitude: it.Longitude}, at), nil
}
