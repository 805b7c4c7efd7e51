package constants

import (
	"github.com/go-playground/validator/v10"
)

type ContextKey string

const (
	AppKey       ContextKey = "app"
	PoolKey      ContextKey = "pool"
	TxKey        ContextKey = "tx"
	LoggerKey    ContextKey = "logger"
	ParamsKey    ContextKey = "params"
	PrincipalKey ContextKey = "principal"
	RequestStart ContextKey = "requestStart"
)

// Validate is the shared struct validator used by service inputs.
var Validate = validator.New(validator.WithRequiredStructEnabled())
