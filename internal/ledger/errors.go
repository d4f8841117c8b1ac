package ledger

import (
	apperrors "coincore/internal/platform/errors"
)

// Domain errors carried by account and transfer operations. Matching is by
// code, so errors.Is works against these sentinels regardless of where the
// error was constructed.
var (
	ErrAccountAlreadyExists = apperrors.New(apperrors.CodeAccountAlreadyExists, "account already exists")
	ErrAccountDoesNotExist  = apperrors.New(apperrors.CodeAccountDoesNotExist, "account does not exist")

	ErrAmountIsZero                = apperrors.New(apperrors.CodeAmountIsZero, "transfer amount is zero")
	ErrAmountIsNegative            = apperrors.New(apperrors.CodeAmountIsNegative, "transfer amount is negative")
	ErrFeeIsNegative               = apperrors.New(apperrors.CodeFeeIsNegative, "transfer fee is negative")
	ErrFeeNotSupported             = apperrors.New(apperrors.CodeFeeNotSupported, "non-zero transfer fees are not supported")
	ErrSenderReceiverAreTheSame    = apperrors.New(apperrors.CodeSenderReceiverAreTheSame, "sender and receiver are the same account")
	ErrSenderAccountDoesNotExist   = apperrors.New(apperrors.CodeSenderAccountDoesNotExist, "sender account does not exist")
	ErrSenderAccountNotEnoughFunds = apperrors.New(apperrors.CodeSenderAccountNotEnoughFunds, "sender account does not have enough funds")
	ErrReceiverAccountDoesNotExist = apperrors.New(apperrors.CodeReceiverAccountDoesNotExist, "receiver account does not exist")

	ErrTransactionDoesNotExist = apperrors.New(apperrors.CodeTransactionDoesNotExist, "transaction does not exist")
	ErrPermissionDenied        = apperrors.New(apperrors.CodePermissionDenied, "account is not a party to this transaction")
)
