// Salonbook - Salon Appointment Booking and Walk-in Queue Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonbook

package auth

import "testing"

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("correct horse")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if hash == "correct horse" {
		t.Fatal("HashPassword() returned the plaintext")
	}
	if !CheckPassword(hash, "correct horse") {
		t.Error("CheckPassword(right) = false")
	}
	if CheckPassword(hash, "wrong horse") {
		t.Error("CheckPassword(wrong) = true")
	}
	if CheckPassword("not-a-hash", "correct horse") {
		t.Error("CheckPassword(bad hash) = true")
	}
}

func TestHashPasswordTooShort(t *testing.T) {
	if _, err := HashPassword("short"); err == nil {
		t.Error("HashPassword(short) = nil error, want error")
	}
}
