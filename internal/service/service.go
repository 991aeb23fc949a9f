// Package service contains the election core (candidacy, configuration, ballot, results)
// and the identity service that provisions and authenticates principals.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/and161185/evote/internal/errs"
	"github.com/and161185/evote/internal/model"
)

// storeErr passes domain sentinels and context errors through and marks
// everything else as an opaque store failure.
func storeErr(err error) error {
	if err == nil || errs.IsDomain(err) ||
		errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return fmt.Errorf("%w: %w", errs.ErrStoreUnavailable, err)
}

func validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errs.ErrValidation, fmt.Sprintf(format, args...))
}

// checkText rejects values PostgreSQL text columns cannot hold.
func checkText(field, v string) error {
	if !utf8.ValidString(v) {
		return validationf("%s is not valid UTF-8", field)
	}
	if strings.IndexByte(v, 0) >= 0 {
		return validationf("%s contains a NUL byte", field)
	}
	return nil
}

// normalizeProfile trims pitch and tagline and enforces the candidate profile rules.
func normalizeProfile(pitch, tagline string) (string, string, error) {
	if err := checkText("pitch", pitch); err != nil {
		return "", "", err
	}
	if err := checkText("tagline", tagline); err != nil {
		return "", "", err
	}
	pitch = strings.TrimSpace(pitch)
	tagline = strings.TrimSpace(tagline)
	switch {
	case pitch == "":
		return "", "", validationf("pitch is required")
	case tagline == "":
		return "", "", validationf("tagline is required")
	case utf8.RuneCountInString(tagline) > model.MaxTaglineLen:
		return "", "", validationf("tagline must be at most %d characters", model.MaxTaglineLen)
	}
	return pitch, tagline, nil
}
