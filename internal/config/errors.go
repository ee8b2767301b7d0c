package config

import "errors"

var (
	ErrRedisAddrMissing = errors.New("REDIS_ADDR is required")
	ErrInvalidRedisDB   = errors.New("REDIS_DB must be a valid integer")

	ErrEmptyBeltPool        = errors.New("belt pool must not be empty")
	ErrDisabledBeltInPool   = errors.New("disabled belt must not appear in the general-purpose pool")
	ErrReservedBeltInPool   = errors.New("reserved belt must not appear in the general-purpose pool")
	ErrReservedBeltsEqual   = errors.New("domestic and CTA belts must differ")
	ErrDisabledBeltReserved = errors.New("disabled belt cannot serve as a reserved belt")
)
