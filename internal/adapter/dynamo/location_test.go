package dynamo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Temutjin2k/pivot-location/internal/domain/models"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	ddbtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
)

// memoryTable emulates GetItem/PutItem on a table keyed by user_id.
type memoryTable struct {
	items  map[string]map[string]ddbtypes.AttributeValue
	status ddbtypes.TableStatus
	err    error
}

func (m *memoryTable) DescribeTable(ctx context.Context, in *dynamodb.DescribeTableInput, _ ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &dynamodb.DescribeTableOutput{Table: &ddbtypes.TableDescription{TableName: in.TableName, TableStatus: m.status}}, nil
}

func (m *memoryTable) GetItem(ctx context.Context, in *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	if m.err != nil {
		return nil, m.err
	}
	id := in.Key["user_id"].(*ddbtypes.AttributeValueMemberS).Value
	return &dynamodb.GetItemOutput{Item: m.items[id]}, nil
}

func (m *memoryTable) PutItem(ctx context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	if m.err != nil {
		return nil, m.err
	}
	id := in.Item["user_id"].(*ddbtypes.AttributeValueMemberS).Value
	m.items[id] = in.Item
	return &dynamodb.PutItemOutput{}, nil
}

func TestLocationRecordRepo(t *testing.T) {
	table := &memoryTable{items: make(map[string]map[string]ddbtypes.AttributeValue)}
	repo := NewLocationRecordRepo(table, "locations")
	ctx := context.Background()
	userID := uuid.New()

	rec, err := repo.Get(ctx, userID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !rec.IsEmpty() {
		t.Fatalf("record = %+v, want empty", rec)
	}

	want := models.NewLocationRecord("Times Square", models.Coordinate{Latitude: 40.758, Longitude: -73.9855},
		time.Date(2025, 2, 3, 4, 5, 6, 0, time.UTC))
	if err := repo.Overwrite(ctx, userID, want); err != nil {
		t.Fatalf("overwrite: %v", err)
	}

	got, err := repo.Get(ctx, userID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if *got.Address != *want.Address || *got.Coordinate != *want.Coordinate || !got.VerifiedAt.Equal(*want.VerifiedAt) {
		t.Fatalf("record = %+v, want %+v", got, want)
	}

	table.err = errors.New("throttled")
	if err := repo.Overwrite(ctx, userID, want); err == nil {
		t.Fatalf("expected error from table")
	}
}

func TestLocationRecordRepoPing(t *testing.T) {
	table := &memoryTable{status: ddbtypes.TableStatusActive}
	repo := NewLocationRecordRepo(table, "locations")
	ctx := context.Background()

	if err := repo.Ping(ctx); err != nil {
		t.Fatalf("ping active table: %v", err)
	}

	table.status = ddbtypes.TableStatusCreating
	if err := repo.Ping(ctx); err == nil {
		t.Fatalf("expected error for table that is not active")
	}

	table.err = errors.New("ResourceNotFoundException")
	if err := repo.Ping(ctx); err == nil {
		t.Fatalf("expected error when describe fails")
	}
}
