/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/suparena/userlookup/errors"
	"github.com/suparena/userlookup/storagemodels"
)

// keyPlaceholder names the key attribute in index key conditions.
const keyPlaceholder = "#key"

// getOneByIndex queries the secondary index for the key. Index reads are
// eventually consistent. Two matching items mean the key field is not
// unique, which is reported as a query error rather than picking one.
func (d *Conn) getOneByIndex(ctx context.Context, schema storagemodels.Schema, key any, keyAV types.AttributeValue) (storagemodels.Record, error) {
	input := buildIndexQuery(d.tableName, d.indexName, schema, keyAV)

	out, err := d.client.Query(ctx, input)
	if err != nil {
		return nil, classify(errors.PhaseQuery, d.loc, d.tableName, fmt.Errorf("query error: %w", err))
	}

	switch len(out.Items) {
	case 0:
		return nil, errors.NewNotFoundError(d.tableName, fmt.Sprintf("%v", key))
	case 1:
		return d.toRecord(schema, key, out.Items[0])
	default:
		return nil, errors.NewQueryError(d.tableName,
			fmt.Errorf("key %v matches more than one item on index %s", key, d.indexName))
	}
}

// buildIndexQuery constructs the Query for a point lookup on an index
// partitioned by the schema key field.
func buildIndexQuery(tableName, indexName string, schema storagemodels.Schema, keyAV types.AttributeValue) *sdk.QueryInput {
	projection, names := buildProjection(schema.Columns())
	names[keyPlaceholder] = schema.KeyField

	return &sdk.QueryInput{
		TableName:                 aws.String(tableName),
		IndexName:                 aws.String(indexName),
		KeyConditionExpression:    aws.String(keyPlaceholder + " = :key"),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: map[string]types.AttributeValue{":key": keyAV},
		ProjectionExpression:      aws.String(projection),
		Limit:                     aws.Int32(2),
	}
}
