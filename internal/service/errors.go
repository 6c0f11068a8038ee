package service

import (
	"errors"
	"fmt"
)

// 错误分类，处理层按分类映射响应码
var (
	ErrUnauthorized    = errors.New("unauthorized")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrNotFound        = errors.New("not found")
	ErrStoreFailure    = errors.New("store failure")
	ErrStoreTimeout    = errors.New("store timeout")
	ErrLoginExists     = errors.New("merchant with this login already exists")
)

// 鉴权相关
var (
	ErrInvalidCredentials = fmt.Errorf("%w: invalid login or password", ErrUnauthorized)
	ErrInvalidPassword    = fmt.Errorf("%w: invalid current password", ErrUnauthorized)
	ErrInvalidToken       = fmt.Errorf("%w: invalid token", ErrUnauthorized)
	ErrTokenRevoked       = fmt.Errorf("%w: token revoked", ErrUnauthorized)
	ErrCredentialRequired = fmt.Errorf("%w: credential required", ErrUnauthorized)
)

// 参数校验相关
var (
	ErrTenantRequired       = fmt.Errorf("%w: restaurant_id required", ErrInvalidArgument)
	ErrOfferTitleRequired   = fmt.Errorf("%w: title is required", ErrInvalidArgument)
	ErrInvalidOfferPrice    = fmt.Errorf("%w: invalid price", ErrInvalidArgument)
	ErrInvalidOfferQuantity = fmt.Errorf("%w: invalid quantity", ErrInvalidArgument)
	ErrInvalidExpiresAt     = fmt.Errorf("%w: invalid expires_at", ErrInvalidArgument)
	ErrInvalidOfferStatus   = fmt.Errorf("%w: invalid status", ErrInvalidArgument)
	ErrMerchantNameRequired = fmt.Errorf("%w: name is required", ErrInvalidArgument)
	ErrLoginRequired        = fmt.Errorf("%w: login is required", ErrInvalidArgument)
	ErrPasswordRequired     = fmt.Errorf("%w: password is required", ErrInvalidArgument)
	ErrWeakPassword         = fmt.Errorf("%w: password does not satisfy policy", ErrInvalidArgument)
	ErrOfferIDRequired      = fmt.Errorf("%w: offer id required", ErrInvalidArgument)
)
