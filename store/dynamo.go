package store

import (
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
)

// Dynamo stores values in a DynamoDB table under a PK string key with a
// Value binary attribute.
type Dynamo struct {
	client *dynamodb.DynamoDB
	table  string
}

func NewDynamo(endpoint, region, table string) (*Dynamo, error) {
	cfg := &aws.Config{Region: aws.String(region)}
	if endpoint != "" {
		cfg.Endpoint = aws.String(endpoint)
	}
	sess, err := session.NewSession(cfg)
	if err != nil {
		return nil, fmt.Errorf("creating DynamoDB session: %w", err)
	}
	return &Dynamo{client: dynamodb.New(sess), table: table}, nil
}

func (d *Dynamo) Get(key string) ([]byte, error) {
	res, err := d.client.GetItem(&dynamodb.GetItemInput{
		TableName: aws.String(d.table),
		Key: map[string]*dynamodb.AttributeValue{
			"PK": {S: aws.String(key)},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("reading %v from DynamoDB: %w", key, err)
	}
	if res.Item == nil || res.Item["Value"] == nil || res.Item["Value"].B == nil {
		return nil, ErrNotFound
	}
	return res.Item["Value"].B, nil
}

func (d *Dynamo) Set(key string, value []byte) error {
	_, err := d.client.PutItem(&dynamodb.PutItemInput{
		TableName: aws.String(d.table),
		Item: map[string]*dynamodb.AttributeValue{
			"PK":    {S: aws.String(key)},
			"Value": {B: value},
		},
	})
	if err != nil {
		return fmt.Errorf("writing %v to DynamoDB: %w", key, err)
	}
	return nil
}
