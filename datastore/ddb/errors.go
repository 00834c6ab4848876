/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	stderrors "errors"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
	smithyhttp "github.com/aws/smithy-go/transport/http"

	"github.com/suparena/userlookup/errors"
	"github.com/suparena/userlookup/storagemodels"
)

// Error codes DynamoDB returns when the caller could not be authenticated.
var authErrorCodes = map[string]bool{
	"UnrecognizedClientException": true,
	"InvalidSignatureException":   true,
	"MissingAuthenticationToken":  true,
	"ExpiredTokenException":       true,
	"AccessDeniedException":       true,
}

// classify maps SDK errors onto the lookup error kinds.
func classify(phase errors.Phase, loc storagemodels.Locator, table string, err error) error {
	if err == nil {
		return nil
	}

	if errors.IsContextDone(err) {
		return errors.NewConnectionError(loc.Redacted(), err)
	}

	var rnf *types.ResourceNotFoundException
	if stderrors.As(err, &rnf) {
		return errors.NewQueryError(table, err)
	}

	var sendErr *smithyhttp.RequestSendError
	if stderrors.As(err, &sendErr) {
		return errors.NewConnectionError(loc.Redacted(), err)
	}

	var apiErr smithy.APIError
	if stderrors.As(err, &apiErr) {
		if authErrorCodes[apiErr.ErrorCode()] {
			return errors.NewConnectionError(loc.Redacted(), err)
		}
		return errors.NewQueryError(table, err)
	}

	return errors.Classify(phase, loc.Redacted(), table, err)
}
