// Copyright (c) 2026 Cinevault. All rights reserved.
// Author: lucas.ferraz.dev@gmail.com

package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lucasferraz/cinevault/internal/platform/apperr"
)

func TestValidatorChaining(t *testing.T) {
	t.Run("all rules pass", func(t *testing.T) {
		err := (&Validator{}).
			Required("email", "ana@example.com").
			Email("email", "ana@example.com").
			Required("username", "ana").
			MinLen("username", "ana", 3).
			MaxLen("username", "ana", 30).
			Username("username", "ana").
			Err()
		assert.NoError(t, err)
	})

	t.Run("collects every failure", func(t *testing.T) {
		err := (&Validator{}).
			Required("email", "").
			Required("password", "").
			Err()

		appError := apperr.As(err)
		require.NotNil(t, appError)
		assert.Equal(t, 400, appError.HTTPStatus)
		assert.Len(t, appError.Details, 2)
	})
}

func TestValidatorRules(t *testing.T) {
	tests := []struct {
		name  string
		check func(v *Validator) *Validator
		valid bool
	}{
		{name: "required rejects whitespace", check: func(v *Validator) *Validator { return v.Required("f", "   ") }, valid: false},
		{name: "email rejects missing at sign", check: func(v *Validator) *Validator { return v.Email("f", "not-an-email") }, valid: false},
		{name: "email accepts plus addressing", check: func(v *Validator) *Validator { return v.Email("f", "ana+tag@example.com") }, valid: true},
		{name: "username rejects spaces", check: func(v *Validator) *Validator { return v.Username("f", "has space") }, valid: false},
		{name: "username accepts dots and hyphens", check: func(v *Validator) *Validator { return v.Username("f", "ana.s-2") }, valid: true},
		{name: "minlen counts runes not bytes", check: func(v *Validator) *Validator { return v.MinLen("f", "héllo", 5) }, valid: true},
		{name: "maxlen counts runes not bytes", check: func(v *Validator) *Validator { return v.MaxLen("f", "héllo", 5) }, valid: true},
		{name: "uuid accepts v7", check: func(v *Validator) *Validator { return v.UUID("f", "0190e0a0-0000-7000-8000-000000000000") }, valid: true},
		{name: "uuid rejects junk", check: func(v *Validator) *Validator { return v.UUID("f", "not-a-uuid") }, valid: false},
		{name: "oneof accepts member", check: func(v *Validator) *Validator { return v.OneOf("f", "day", "day", "week") }, valid: true},
		{name: "oneof rejects outsider", check: func(v *Validator) *Validator { return v.OneOf("f", "month", "day", "week") }, valid: false},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			err := testCase.check(&Validator{}).Err()
			if testCase.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}
