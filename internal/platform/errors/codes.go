package errors

// Code is a machine-readable error code. Codes are the stable discriminants
// carried across the wire protocol, so they must not be renamed.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Account errors
	CodeAccountAlreadyExists Code = "ACCOUNT_ALREADY_EXISTS"
	CodeAccountDoesNotExist  Code = "ACCOUNT_DOES_NOT_EXIST"

	// Transfer errors
	CodeAmountIsZero                Code = "AMOUNT_IS_ZERO"
	CodeAmountIsNegative            Code = "AMOUNT_IS_NEGATIVE"
	CodeFeeIsNegative               Code = "FEE_IS_NEGATIVE"
	CodeFeeNotSupported             Code = "FEE_NOT_SUPPORTED"
	CodeSenderReceiverAreTheSame    Code = "SENDER_RECEIVER_ARE_THE_SAME"
	CodeSenderAccountDoesNotExist   Code = "SENDER_ACCOUNT_DOES_NOT_EXIST"
	CodeSenderAccountNotEnoughFunds Code = "SENDER_ACCOUNT_NOT_ENOUGH_FUNDS"
	CodeReceiverAccountDoesNotExist Code = "RECEIVER_ACCOUNT_DOES_NOT_EXIST"

	// Ledger query errors
	CodeTransactionDoesNotExist Code = "TRANSACTION_DOES_NOT_EXIST"
	CodePermissionDenied        Code = "PERMISSION_DENIED"

	// Token errors
	CodeTokenLengthInvalid   Code = "TOKEN_LENGTH_INVALID"
	CodeTokenEncodingInvalid Code = "TOKEN_ENCODING_INVALID"
	CodeTokenExpired         Code = "TOKEN_EXPIRED"
	CodeTokenDoesNotExist    Code = "TOKEN_DOES_NOT_EXIST"

	// Infrastructure errors
	CodeStoreError   Code = "STORE_ERROR"
	CodeGatewayError Code = "GATEWAY_ERROR"
)
