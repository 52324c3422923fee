/*
 * Copyright (c) 2025, WSO2 LLC. (http://www.wso2.com).
 *
 * WSO2 LLC. licenses this file to you under the Apache License,
 * Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing,
 * software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
 * KIND, either express or implied.  See the License for the
 * specific language governing permissions and limitations
 * under the License.
 */

package errors

// Client error codes are part of the public wire contract and are returned verbatim to callers.
var (
	// Validation errors

	INVALID_CONSENT = ErrorMessage{
		Code:    "invalid_consent",
		Message: "Consent value is missing or invalid.",
	}

	INVALID_JSON = ErrorMessage{
		Code:    "invalid_json",
		Message: "Request body is not valid JSON.",
	}

	INVALID_STEP = ErrorMessage{
		Code:    "invalid_step",
		Message: "Unknown setup step.",
	}

	INVALID_SETTING = ErrorMessage{
		Code:    "invalid_setting",
		Message: "Invalid setting.",
	}

	INVALID_COUNT = ErrorMessage{
		Code:        "invalid_count",
		Message:     "Invalid record count.",
		Description: "count must be between 1 and 50.",
	}

	INVALID_RANGE = ErrorMessage{
		Code:    "invalid_range",
		Message: "Invalid date range.",
	}

	INVALID_RECORD = ErrorMessage{
		Code:    "invalid_record",
		Message: "Consent record is missing required fields.",
	}

	// Authorization errors

	NO_PERMS = ErrorMessage{
		Code:        "no_perms",
		Message:     "Unauthorized",
		Description: "Authorization information was invalid or missing from your request.",
	}

	BAD_NONCE = ErrorMessage{
		Code:        "bad_nonce",
		Message:     "Request verification failed.",
		Description: "The request nonce is missing or does not match the session.",
	}

	// Transport errors

	RATE_LIMITED = ErrorMessage{
		Code:        "rate_limited",
		Message:     "Too many requests.",
		Description: "Retry the submission later.",
	}

	METHOD_NOT_ALLOWED = ErrorMessage{
		Code:    "method_not_allowed",
		Message: "Method not allowed.",
	}
)

// StorageErrorCode is the single public code for every server side failure.
const StorageErrorCode = "storage_error"

// Server error codes. They share one public code; the message identifies the failing operation in logs.
var (
	DB_CLIENT_INIT = ErrorMessage{
		Code:    StorageErrorCode,
		Message: "Unable to initialize database client.",
	}

	FETCH_SETTINGS = ErrorMessage{
		Code:    StorageErrorCode,
		Message: "Error while fetching settings.",
	}

	UPDATE_SETTINGS = ErrorMessage{
		Code:    StorageErrorCode,
		Message: "Error while updating settings.",
	}

	ADD_CONSENT_RECORD = ErrorMessage{
		Code:    StorageErrorCode,
		Message: "Error while adding consent record.",
	}

	FETCH_CONSENT_RECORDS = ErrorMessage{
		Code:    StorageErrorCode,
		Message: "Error while fetching consent records.",
	}

	PRUNE_CONSENT_RECORDS = ErrorMessage{
		Code:    StorageErrorCode,
		Message: "Error while pruning consent records.",
	}

	SCHEMA_INIT = ErrorMessage{
		Code:    StorageErrorCode,
		Message: "Error while creating the storage schema.",
	}

	LOCK_ACQUIRE = ErrorMessage{
		Code:    StorageErrorCode,
		Message: "Error while acquiring the maintenance lock.",
	}

	LOCK_RELEASE = ErrorMessage{
		Code:    StorageErrorCode,
		Message: "Error while releasing the maintenance lock.",
	}

	RATE_LIMIT_BACKEND = ErrorMessage{
		Code:    StorageErrorCode,
		Message: "Rate limit backend unavailable.",
	}

	MARSHAL_JSON = ErrorMessage{
		Code:    StorageErrorCode,
		Message: "Error while marshalling JSON.",
	}

	EXPORT_FAILED = ErrorMessage{
		Code:    StorageErrorCode,
		Message: "Error while writing export.",
	}
)
