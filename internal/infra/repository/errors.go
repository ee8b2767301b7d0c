package repository

import "errors"

var ErrInvalidPlanData = errors.New("invalid allocation plan data")
