/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/rs/zerolog"

	"github.com/suparena/userlookup/datastore"
	"github.com/suparena/userlookup/errors"
	"github.com/suparena/userlookup/storagemodels"
)

// DefaultKeyTemplate stores the lookup key as-is.
const DefaultKeyTemplate = "{key}"

var macroPattern = regexp.MustCompile(`{([^}]+)}`)

// API is the part of the DynamoDB client a point lookup uses.
type API interface {
	GetItem(ctx context.Context, params *sdk.GetItemInput, optFns ...func(*sdk.Options)) (*sdk.GetItemOutput, error)
	Query(ctx context.Context, params *sdk.QueryInput, optFns ...func(*sdk.Options)) (*sdk.QueryOutput, error)
}

// Opener implements datastore.Opener for dynamodb://<table> locators.
type Opener struct {
	accessKey   string
	secretKey   string
	region      string
	endpoint    string
	keyTemplate string
	indexName   string
	client      API
	log         zerolog.Logger
}

// Option configures an Opener.
type Option func(*Opener)

// WithCredentials uses static credentials instead of the default AWS chain.
func WithCredentials(accessKey, secretKey string) Option {
	return func(o *Opener) {
		o.accessKey = accessKey
		o.secretKey = secretKey
	}
}

// WithRegion sets the region used when the locator names none.
func WithRegion(region string) Option {
	return func(o *Opener) {
		o.region = region
	}
}

// WithEndpoint points the client at a custom endpoint such as DynamoDB Local.
func WithEndpoint(endpoint string) Option {
	return func(o *Opener) {
		o.endpoint = endpoint
	}
}

// WithKeyTemplate sets the macro template that turns a lookup key into the
// stored key value, e.g. "USER#{key}".
func WithKeyTemplate(template string) Option {
	return func(o *Opener) {
		o.keyTemplate = template
	}
}

// WithIndex looks keys up through a global secondary index whose partition
// key is the schema key field, for tables keyed by something else.
func WithIndex(indexName string) Option {
	return func(o *Opener) {
		o.indexName = indexName
	}
}

// WithClient makes every Open use client instead of building one.
func WithClient(client API) Option {
	return func(o *Opener) {
		o.client = client
	}
}

// WithLogger sets the logger used for connection lifecycle events.
func WithLogger(log zerolog.Logger) Option {
	return func(o *Opener) {
		o.log = log
	}
}

// NewOpener constructs a DynamoDB Opener.
func NewOpener(opts ...Option) *Opener {
	o := &Opener{
		keyTemplate: DefaultKeyTemplate,
		log:         zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// NewDynamoDBClient initializes a DynamoDB client. Static credentials are
// used when both keys are set, otherwise the default credential chain.
// Requests are attempted once. The region and credentials are resolved
// here so a missing identity fails before any request is sent.
func NewDynamoDBClient(ctx context.Context, awsAccessKey, awsSecretKey, awsRegion, endpoint string) (*sdk.Client, error) {
	opts := []func(*config.LoadOptions) error{
		config.WithRetryMaxAttempts(1),
	}
	if awsRegion != "" {
		opts = append(opts, config.WithRegion(awsRegion))
	}
	if awsAccessKey != "" && awsSecretKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(awsAccessKey, awsSecretKey, ""),
		))
	}

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}
	if cfg.Region == "" {
		return nil, fmt.Errorf("no AWS region configured")
	}
	if cfg.Credentials == nil {
		return nil, fmt.Errorf("no AWS credentials configured")
	}
	if _, err := cfg.Credentials.Retrieve(ctx); err != nil {
		return nil, fmt.Errorf("failed to resolve AWS credentials: %w", err)
	}

	return sdk.NewFromConfig(cfg, func(o *sdk.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	}), nil
}

// Open resolves a client for the table named by loc. The locator's region,
// endpoint and key_template parameters override the Opener's settings.
func (o *Opener) Open(ctx context.Context, loc storagemodels.Locator) (datastore.Conn, error) {
	region := firstNonEmpty(loc.Params.Get("region"), o.region)
	endpoint := firstNonEmpty(loc.Params.Get("endpoint"), o.endpoint)
	template := firstNonEmpty(loc.Params.Get("key_template"), o.keyTemplate, DefaultKeyTemplate)
	index := firstNonEmpty(loc.Params.Get("index"), o.indexName)

	client := o.client
	if client == nil {
		c, err := NewDynamoDBClient(ctx, o.accessKey, o.secretKey, region, endpoint)
		if err != nil {
			return nil, errors.NewConnectionError(loc.Redacted(), err)
		}
		client = c
	}

	o.log.Debug().
		Str("table", loc.Target).
		Str("region", region).
		Str("index", index).
		Msg("dynamodb client initialized")

	return &Conn{
		client:      client,
		tableName:   loc.Target,
		keyTemplate: template,
		indexName:   index,
		loc:         loc,
		log:         o.log,
	}, nil
}

// Conn reads single items from one DynamoDB table.
type Conn struct {
	client      API
	tableName   string
	keyTemplate string
	indexName   string
	loc         storagemodels.Locator
	log         zerolog.Logger
}

// GetOne performs a consistent GetItem on the schema key field, or a Query
// on the secondary index when the connection has one.
//
// DynamoDB cannot store an empty string key attribute, so an empty key is
// answered as not found without a round trip.
func (d *Conn) GetOne(ctx context.Context, schema storagemodels.Schema, key any) (storagemodels.Record, error) {
	if err := schema.Validate(); err != nil {
		return nil, err
	}
	if s, ok := key.(string); ok && s == "" {
		return nil, errors.NewNotFoundError(d.tableName, s)
	}

	keyAV, err := buildKeyValue(d.keyTemplate, key)
	if err != nil {
		return nil, err
	}

	if d.indexName != "" {
		return d.getOneByIndex(ctx, schema, key, keyAV)
	}

	cols := schema.Columns()
	projection, names := buildProjection(cols)

	out, err := d.client.GetItem(ctx, &sdk.GetItemInput{
		TableName:                &d.tableName,
		Key:                      map[string]types.AttributeValue{schema.KeyField: keyAV},
		ConsistentRead:           aws.Bool(true),
		ProjectionExpression:     &projection,
		ExpressionAttributeNames: names,
	})
	if err != nil {
		return nil, classify(errors.PhaseQuery, d.loc, d.tableName, fmt.Errorf("GetItem error: %w", err))
	}
	if len(out.Item) == 0 {
		return nil, errors.NewNotFoundError(d.tableName, fmt.Sprintf("%v", key))
	}

	return d.toRecord(schema, key, out.Item)
}

// toRecord maps an item onto the schema columns. Every column must be present.
func (d *Conn) toRecord(schema storagemodels.Schema, key any, raw map[string]types.AttributeValue) (storagemodels.Record, error) {
	var item map[string]any
	if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
		return nil, errors.NewQueryError(d.tableName, fmt.Errorf("failed to unmarshal item: %w", err))
	}

	cols := schema.Columns()
	rec := make(storagemodels.Record, len(cols))
	for _, f := range cols {
		v, ok := item[f]
		if !ok {
			return nil, errors.NewQueryError(d.tableName, fmt.Errorf("attribute %q missing from item", f))
		}
		rec[f] = v
	}

	// The stored key carries the template decoration; callers see their own key.
	if d.keyTemplate != DefaultKeyTemplate {
		rec[schema.KeyField] = key
	}

	return rec, nil
}

// Close releases the connection. The SDK client holds no per-lookup
// resources, so there is nothing to tear down.
func (d *Conn) Close() error {
	d.log.Debug().Str("table", d.tableName).Msg("dynamodb connection released")
	return nil
}

// buildKeyValue converts a bound lookup key into the key attribute value.
// Keys arrive as driver values, so integers are int64 or uint64. Numeric
// keys stay numeric unless a template decorates them into a string.
func buildKeyValue(template string, key any) (types.AttributeValue, error) {
	var raw string
	numeric := false

	switch k := key.(type) {
	case string:
		raw = k
	case int64:
		raw, numeric = strconv.FormatInt(k, 10), true
	case uint64:
		raw, numeric = strconv.FormatUint(k, 10), true
	case float64:
		raw, numeric = strconv.FormatFloat(k, 'f', -1, 64), true
	default:
		return nil, errors.NewValidationError("key", fmt.Sprintf("type %T cannot be used as a DynamoDB key", key))
	}

	if numeric && template == DefaultKeyTemplate {
		return &types.AttributeValueMemberN{Value: raw}, nil
	}
	return &types.AttributeValueMemberS{Value: expandStringKey(template, raw)}, nil
}

// expandStringKey replaces every macro in template with the key, literally.
func expandStringKey(template, key string) string {
	return macroPattern.ReplaceAllLiteralString(template, key)
}

// buildProjection returns a projection expression over placeholder names
// so reserved words such as "name" can be read.
func buildProjection(fields []string) (string, map[string]string) {
	names := make(map[string]string, len(fields))
	projection := ""
	for i, f := range fields {
		placeholder := fmt.Sprintf("#f%d", i)
		names[placeholder] = f
		if i > 0 {
			projection += ", "
		}
		projection += placeholder
	}
	return projection, names
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
