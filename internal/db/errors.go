package db

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	pgInsufficientPrivilege = "42501"
	mongoUnauthorized       = 13
)

// IsPermissionDenied reports whether the store rejected the caller's role
// rather than failing for an infrastructure reason.
func IsPermissionDenied(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgInsufficientPrivilege
	}
	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) {
		return cmdErr.Code == mongoUnauthorized || cmdErr.Name == "Unauthorized"
	}
	return false
}
