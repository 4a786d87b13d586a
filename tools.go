//go:build tools

package tools

import (
	_ "github.com/swaggo/swag/v2/cmd/swag"
)
