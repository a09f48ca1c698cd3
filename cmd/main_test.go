package main

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/mchrh/protocol-interaction/internal/entity"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "usage", err: entity.Usagef("missing --impersonated-address"), want: exitUsage},
		{name: "connectivity", err: entity.Connectivity(errors.New("node down")), want: exitFailure},
		{name: "rpc", err: entity.RPC(errors.New("call failed")), want: exitFailure},
		{name: "state", err: entity.Statef("LP balance is zero"), want: exitFailure},
		{name: "transaction", err: entity.Transaction(errors.New("reverted")), want: exitFailure},
		{name: "untagged is internal", err: errors.New("boom"), want: exitInternal},
		{name: "kind survives wrapping", err: errors.Wrap(entity.Usagef("bad flag"), "resolving config"), want: exitUsage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, exitCode(tt.err))
		})
	}
}
