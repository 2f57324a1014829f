// Copyright (c) 2026 Ultimate Library. All rights reserved.

package sec

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// ErrEmptyPassword is returned when an empty password is passed to HashPassword.
var ErrEmptyPassword = errors.New("sec: password must not be empty")

// HashPassword hashes a plain-text password using the bcrypt algorithm.
//
// bcrypt salts internally, so hashing the same password twice yields two
// different digests, both of which verify.
func HashPassword(plainTextPassword string) (string, error) {
	if plainTextPassword == "" {
		return "", ErrEmptyPassword
	}
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(plainTextPassword), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("sec: failed to hash password: %w", err)
	}
	return string(hashedBytes), nil
}

// CheckPasswordHash compares a plain-text password with its hashed version.
//
// It never panics on a malformed digest; any comparison failure reports false.
func CheckPasswordHash(plainTextPassword, existingHash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(existingHash), []byte(plainTextPassword))
	return err == nil
}
