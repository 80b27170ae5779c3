// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

package command

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/staranto/voyage/internal/nasa"
)

// GlobalFlagsValidator checks the flags every query command shares.
func GlobalFlagsValidator(ctx context.Context, c *cli.Command) error {
	if c.String("output") != "text" && c.IsSet("titles") && c.Bool("titles") {
		return errors.New("--titles is only valid with --output text")
	}
	return nil
}

type FlagValidatorType func(any) error

func FlagValidators(value any, validators ...FlagValidatorType) error {
	for _, v := range validators {
		if err := v(value); err != nil {
			return err
		}
	}
	return nil
}

// JammedFlagValidator verifies that the arg following a flag does not begin
// with '--'.  urfave/cli allows this and I don't see how to turn it off.
func JammedFlagValidator(value any) error {
	if strings.HasPrefix(value.(string), "--") {
		return errors.New("must not begin with '--'")
	}
	return nil
}

func OutputValidator(value any) error {
	var validOutputFlagValues = []string{"text", "json", "raw", "yaml"}
	if !slices.Contains(validOutputFlagValues, value.(string)) {
		return fmt.Errorf("must be one of %v", validOutputFlagValues)
	}
	return nil
}

func BackendValidator(value any) error {
	var validBackends = []string{"file", "redis", "s3", "none"}
	if !slices.Contains(validBackends, value.(string)) {
		return fmt.Errorf("must be one of %v", validBackends)
	}
	return nil
}

// DateValidator accepts an empty value or a YYYY-MM-DD date.
func DateValidator(value any) error {
	s := value.(string)
	if s == "" {
		return nil
	}
	if _, err := time.Parse(time.DateOnly, s); err != nil {
		return nasa.ErrInvalidDate
	}
	return nil
}

func RoverValidator(value any) error {
	s := strings.ToLower(value.(string))
	if s == "" || slices.Contains(nasa.Rovers, s) {
		return nil
	}
	return fmt.Errorf("must be one of %v", nasa.Rovers)
}

// CountValidator allows 0 (unset) or 1..100.
func CountValidator(value any) error {
	n := value.(int)
	if n == 0 || (n >= 1 && n <= 100) {
		return nil
	}
	return nasa.ErrInvalidCount
}

// NonNegativeValidator rejects negative integers.
func NonNegativeValidator(value any) error {
	if value.(int) < 0 {
		return errors.New("must not be negative")
	}
	return nil
}
