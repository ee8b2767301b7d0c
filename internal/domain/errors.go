package domain

import "errors"

var (
	ErrInvalidFlowKind    = errors.New("invalid flow kind")
	ErrPlanNotFound       = errors.New("allocation plan not found")
	ErrAllocationNotFound = errors.New("flight allocation not found")
)
